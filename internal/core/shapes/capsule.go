package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Capsule is a cylinder capped by two hemispheres. The axis vector runs
// between the hemisphere centers and the position is its midpoint; the
// orientation is derived from the axis like Line's.
type Capsule[T scalar.Scalar[T]] struct {
	axis   spatial.Vector3[T]
	radius T
	pos    spatial.Vector3[T]

	rot        spatial.Quaternion[T]
	halfLength T
}

func NewCapsule[T scalar.Scalar[T]](axis spatial.Vector3[T], radius T, pos spatial.Vector3[T]) (Capsule[T], error) {
	if err := checkDimensions(radius); err != nil {
		return Capsule[T]{}, err
	}
	if err := checkVectors(axis, pos); err != nil {
		return Capsule[T]{}, err
	}
	return Capsule[T]{
		axis:       axis,
		radius:     radius,
		pos:        pos,
		rot:        axisRotation(axis),
		halfLength: axis.Length().Mul(half[T]()),
	}, nil
}

func (c Capsule[T]) Kind() Kind                      { return KindCapsule }
func (c Capsule[T]) Position() spatial.Vector3[T]    { return c.pos }
func (c Capsule[T]) Rotation() spatial.Quaternion[T] { return c.rot }
func (c Capsule[T]) Radius() T                       { return c.radius }
func (c Capsule[T]) Axis() spatial.Vector3[T]        { return c.axis }

// Start and End are the hemisphere centers.
func (c Capsule[T]) Start() spatial.Vector3[T] {
	return c.pos.Sub(c.axis.Scale(half[T]()))
}

func (c Capsule[T]) End() spatial.Vector3[T] {
	return c.pos.Add(c.axis.Scale(half[T]()))
}

func (c Capsule[T]) ContainingRadius() T {
	return c.halfLength.Add(c.radius)
}

func (c Capsule[T]) SmallestDimension() T {
	return c.radius.Add(c.radius)
}

func (c Capsule[T]) Volume() T {
	r2 := c.radius.Mul(c.radius)
	length := c.halfLength.Add(c.halfLength)
	cylinder := scalar.Pi[T]().Mul(r2).Mul(length)
	caps := four[T]().Div(three[T]()).Mul(scalar.Pi[T]()).Mul(r2).Mul(c.radius)
	return cylinder.Add(caps)
}

func (c Capsule[T]) HighestPoint() spatial.Vector3[T] {
	return c.pos.Add(vertical(c.halfLength.Add(c.radius)))
}

func (c Capsule[T]) LowestPoint() spatial.Vector3[T] {
	return c.pos.Sub(vertical(c.halfLength.Add(c.radius)))
}

func (c Capsule[T]) IsPointWithin(p spatial.Vector3[T]) bool {
	return lessEq(pointSegmentDistance(p, c.Start(), c.End()), c.radius)
}

func (c Capsule[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return Capsule[T]{
		axis:       c.axis.Scale(factor),
		radius:     c.radius.Mul(factor),
		pos:        c.pos,
		rot:        c.rot,
		halfLength: c.halfLength.Mul(factor),
	}, nil
}

func (c Capsule[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return c.ScaleByDimension(dimensionFactor(factor))
}

func (c Capsule[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	clone := c
	clone.pos = pos
	return clone
}

// CloneRotated re-aims the axis at the original length and radius.
func (c Capsule[T]) CloneRotated(rot spatial.Quaternion[T]) Shape[T] {
	length := c.halfLength.Add(c.halfLength)
	axis := normalizeRotation(rot).Transform(vertical(length))
	return Capsule[T]{
		axis:       axis,
		radius:     c.radius,
		pos:        c.pos,
		rot:        axisRotation(axis),
		halfLength: c.halfLength,
	}
}

func (c Capsule[T]) String() string {
	return fmt.Sprintf("capsule(axis=%s, radius=%s) at %s", c.axis, c.radius, c.pos)
}

var _ Shape[scalar.Float64] = Capsule[scalar.Float64]{}
