package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Line is a segment of zero thickness. The axis vector spans the full extent
// and the position is its midpoint; the orientation is derived from the axis
// as the shortest arc from +Y.
type Line[T scalar.Scalar[T]] struct {
	axis spatial.Vector3[T]
	pos  spatial.Vector3[T]

	rot        spatial.Quaternion[T]
	halfLength T
}

func NewLine[T scalar.Scalar[T]](axis, pos spatial.Vector3[T]) (Line[T], error) {
	if err := checkVectors(axis, pos); err != nil {
		return Line[T]{}, err
	}
	return Line[T]{
		axis:       axis,
		pos:        pos,
		rot:        axisRotation(axis),
		halfLength: axis.Length().Mul(half[T]()),
	}, nil
}

func (l Line[T]) Kind() Kind                      { return KindLine }
func (l Line[T]) Position() spatial.Vector3[T]    { return l.pos }
func (l Line[T]) Rotation() spatial.Quaternion[T] { return l.rot }
func (l Line[T]) ContainingRadius() T             { return l.halfLength }
func (l Line[T]) SmallestDimension() T            { return scalar.Zero[T]() }
func (l Line[T]) Volume() T                       { return scalar.Zero[T]() }

// Axis is the full-extent direction vector between the endpoints.
func (l Line[T]) Axis() spatial.Vector3[T] { return l.axis }

func (l Line[T]) Start() spatial.Vector3[T] {
	return l.pos.Sub(l.axis.Scale(half[T]()))
}

func (l Line[T]) End() spatial.Vector3[T] {
	return l.pos.Add(l.axis.Scale(half[T]()))
}

func (l Line[T]) HighestPoint() spatial.Vector3[T] {
	return l.pos.Add(vertical(l.halfLength))
}

func (l Line[T]) LowestPoint() spatial.Vector3[T] {
	return l.pos.Sub(vertical(l.halfLength))
}

func (l Line[T]) IsPointWithin(p spatial.Vector3[T]) bool {
	return pointSegmentDistance(p, l.Start(), l.End()).IsNearlyZero()
}

func (l Line[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return Line[T]{
		axis:       l.axis.Scale(factor),
		pos:        l.pos,
		rot:        l.rot,
		halfLength: l.halfLength.Mul(factor),
	}, nil
}

func (l Line[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return l.ScaleByDimension(dimensionFactor(factor))
}

func (l Line[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	clone := l
	clone.pos = pos
	return clone
}

// CloneRotated re-aims the axis: the clone's axis is the rotated +Y direction
// at the original length.
func (l Line[T]) CloneRotated(rot spatial.Quaternion[T]) Shape[T] {
	length := l.halfLength.Add(l.halfLength)
	axis := normalizeRotation(rot).Transform(vertical(length))
	return Line[T]{
		axis:       axis,
		pos:        l.pos,
		rot:        axisRotation(axis),
		halfLength: l.halfLength,
	}
}

func (l Line[T]) String() string {
	return fmt.Sprintf("line(axis=%s) at %s", l.axis, l.pos)
}

var _ Shape[scalar.Float64] = Line[scalar.Float64]{}
