package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Cylinder is a solid circular cylinder with its axis along local +Y.
type Cylinder[T scalar.Scalar[T]] struct {
	radius T
	height T
	pos    spatial.Vector3[T]
	rot    spatial.Quaternion[T]
}

func NewCylinder[T scalar.Scalar[T]](radius, height T, pos spatial.Vector3[T], rot spatial.Quaternion[T]) (Cylinder[T], error) {
	if err := checkDimensions(radius, height); err != nil {
		return Cylinder[T]{}, err
	}
	if err := checkVectors(pos); err != nil {
		return Cylinder[T]{}, err
	}
	return Cylinder[T]{radius: radius, height: height, pos: pos, rot: normalizeRotation(rot)}, nil
}

func (c Cylinder[T]) Kind() Kind                      { return KindCylinder }
func (c Cylinder[T]) Position() spatial.Vector3[T]    { return c.pos }
func (c Cylinder[T]) Rotation() spatial.Quaternion[T] { return c.rot }
func (c Cylinder[T]) Radius() T                       { return c.radius }
func (c Cylinder[T]) Height() T                       { return c.height }

func (c Cylinder[T]) ContainingRadius() T {
	halfH := c.height.Mul(half[T]())
	return c.radius.Mul(c.radius).Add(halfH.Mul(halfH)).Sqrt()
}

func (c Cylinder[T]) SmallestDimension() T {
	return scalar.Min(c.radius.Add(c.radius), c.height)
}

func (c Cylinder[T]) Volume() T {
	return scalar.Pi[T]().Mul(c.radius).Mul(c.radius).Mul(c.height)
}

func (c Cylinder[T]) HighestPoint() spatial.Vector3[T] {
	return c.pos.Add(vertical(c.height.Mul(half[T]())))
}

func (c Cylinder[T]) LowestPoint() spatial.Vector3[T] {
	return c.pos.Sub(vertical(c.height.Mul(half[T]())))
}

func (c Cylinder[T]) IsPointWithin(p spatial.Vector3[T]) bool {
	local := toLocal(p, c.pos, c.rot)
	if !lessEq(local.Y.Abs(), c.height.Mul(half[T]())) {
		return false
	}
	radial := local.X.Mul(local.X).Add(local.Z.Mul(local.Z)).Sqrt()
	return lessEq(radial, c.radius)
}

func (c Cylinder[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return Cylinder[T]{
		radius: c.radius.Mul(factor),
		height: c.height.Mul(factor),
		pos:    c.pos,
		rot:    c.rot,
	}, nil
}

func (c Cylinder[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return c.ScaleByDimension(dimensionFactor(factor))
}

func (c Cylinder[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	clone := c
	clone.pos = pos
	return clone
}

func (c Cylinder[T]) CloneRotated(rot spatial.Quaternion[T]) Shape[T] {
	clone := c
	clone.rot = normalizeRotation(rot)
	return clone
}

func (c Cylinder[T]) String() string {
	return fmt.Sprintf("cylinder(radius=%s, height=%s) at %s", c.radius, c.height, c.pos)
}

var _ Shape[scalar.Float64] = Cylinder[scalar.Float64]{}
