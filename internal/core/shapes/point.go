package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Point is a dimensionless location. It has no extent, no volume and no
// orientation; membership is near-equality to the position.
type Point[T scalar.Scalar[T]] struct {
	pos spatial.Vector3[T]
}

func NewPoint[T scalar.Scalar[T]](pos spatial.Vector3[T]) (Point[T], error) {
	if err := checkVectors(pos); err != nil {
		return Point[T]{}, err
	}
	return Point[T]{pos: pos}, nil
}

func (p Point[T]) Kind() Kind                       { return KindPoint }
func (p Point[T]) Position() spatial.Vector3[T]     { return p.pos }
func (p Point[T]) Rotation() spatial.Quaternion[T]  { return spatial.QuaternionIdentity[T]() }
func (p Point[T]) ContainingRadius() T              { return scalar.Zero[T]() }
func (p Point[T]) SmallestDimension() T             { return scalar.Zero[T]() }
func (p Point[T]) Volume() T                        { return scalar.Zero[T]() }
func (p Point[T]) HighestPoint() spatial.Vector3[T] { return p.pos }
func (p Point[T]) LowestPoint() spatial.Vector3[T]  { return p.pos }

func (p Point[T]) IsPointWithin(q spatial.Vector3[T]) bool {
	return q.NearlyEquals(p.pos)
}

func (p Point[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return p, nil
}

func (p Point[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return p, nil
}

func (p Point[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	return Point[T]{pos: pos}
}

func (p Point[T]) CloneRotated(spatial.Quaternion[T]) Shape[T] { return p }

func (p Point[T]) String() string {
	return fmt.Sprintf("point at %s", p.pos)
}

var _ Shape[scalar.Float64] = Point[scalar.Float64]{}
