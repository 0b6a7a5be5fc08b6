package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Sphere is a solid ball. It is rotation-invariant: Rotation always reports
// identity and CloneRotated is a no-op.
type Sphere[T scalar.Scalar[T]] struct {
	radius T
	pos    spatial.Vector3[T]
}

func NewSphere[T scalar.Scalar[T]](radius T, pos spatial.Vector3[T]) (Sphere[T], error) {
	if err := checkDimensions(radius); err != nil {
		return Sphere[T]{}, err
	}
	if err := checkVectors(pos); err != nil {
		return Sphere[T]{}, err
	}
	return Sphere[T]{radius: radius, pos: pos}, nil
}

func (s Sphere[T]) Kind() Kind                      { return KindSphere }
func (s Sphere[T]) Position() spatial.Vector3[T]    { return s.pos }
func (s Sphere[T]) Rotation() spatial.Quaternion[T] { return spatial.QuaternionIdentity[T]() }
func (s Sphere[T]) ContainingRadius() T             { return s.radius }
func (s Sphere[T]) Radius() T                       { return s.radius }

func (s Sphere[T]) SmallestDimension() T {
	return s.radius.Add(s.radius)
}

func (s Sphere[T]) Volume() T {
	r3 := s.radius.Mul(s.radius).Mul(s.radius)
	return four[T]().Div(three[T]()).Mul(scalar.Pi[T]()).Mul(r3)
}

func (s Sphere[T]) HighestPoint() spatial.Vector3[T] {
	return s.pos.Add(vertical(s.radius))
}

func (s Sphere[T]) LowestPoint() spatial.Vector3[T] {
	return s.pos.Sub(vertical(s.radius))
}

func (s Sphere[T]) IsPointWithin(p spatial.Vector3[T]) bool {
	return lessEq(p.Distance(s.pos), s.radius)
}

func (s Sphere[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return Sphere[T]{radius: s.radius.Mul(factor), pos: s.pos}, nil
}

func (s Sphere[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return s.ScaleByDimension(dimensionFactor(factor))
}

func (s Sphere[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	return Sphere[T]{radius: s.radius, pos: pos}
}

func (s Sphere[T]) CloneRotated(spatial.Quaternion[T]) Shape[T] { return s }

func (s Sphere[T]) String() string {
	return fmt.Sprintf("sphere(radius=%s) at %s", s.radius, s.pos)
}

var _ Shape[scalar.Float64] = Sphere[scalar.Float64]{}
