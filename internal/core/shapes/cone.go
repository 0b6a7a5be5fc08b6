package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Cone is a solid circular cone. The position is the center of the axis
// segment; before rotation the base sits at -height/2 and the apex points up
// at +height/2.
type Cone[T scalar.Scalar[T]] struct {
	radius T
	height T
	pos    spatial.Vector3[T]
	rot    spatial.Quaternion[T]
}

func NewCone[T scalar.Scalar[T]](radius, height T, pos spatial.Vector3[T], rot spatial.Quaternion[T]) (Cone[T], error) {
	if err := checkDimensions(radius, height); err != nil {
		return Cone[T]{}, err
	}
	if err := checkVectors(pos); err != nil {
		return Cone[T]{}, err
	}
	return Cone[T]{radius: radius, height: height, pos: pos, rot: normalizeRotation(rot)}, nil
}

func (c Cone[T]) Kind() Kind                      { return KindCone }
func (c Cone[T]) Position() spatial.Vector3[T]    { return c.pos }
func (c Cone[T]) Rotation() spatial.Quaternion[T] { return c.rot }
func (c Cone[T]) Radius() T                       { return c.radius }
func (c Cone[T]) Height() T                       { return c.height }

func (c Cone[T]) ContainingRadius() T {
	halfH := c.height.Mul(half[T]())
	return c.radius.Mul(c.radius).Add(halfH.Mul(halfH)).Sqrt()
}

func (c Cone[T]) SmallestDimension() T {
	return scalar.Min(c.radius.Add(c.radius), c.height)
}

func (c Cone[T]) Volume() T {
	return scalar.Pi[T]().Mul(c.radius).Mul(c.radius).Mul(c.height).Div(three[T]())
}

func (c Cone[T]) HighestPoint() spatial.Vector3[T] {
	return c.pos.Add(vertical(c.height.Mul(half[T]())))
}

func (c Cone[T]) LowestPoint() spatial.Vector3[T] {
	return c.pos.Sub(vertical(c.height.Mul(half[T]())))
}

func (c Cone[T]) IsPointWithin(p spatial.Vector3[T]) bool {
	local := toLocal(p, c.pos, c.rot)
	halfH := c.height.Mul(half[T]())
	if !lessEq(local.Y.Abs(), halfH) {
		return false
	}
	radial := local.X.Mul(local.X).Add(local.Z.Mul(local.Z)).Sqrt()
	if c.height.IsNearlyZero() {
		return lessEq(radial, c.radius)
	}
	// the allowed radius tapers linearly from the base to the apex
	allowed := c.radius.Mul(halfH.Sub(local.Y)).Div(c.height)
	return lessEq(radial, allowed)
}

func (c Cone[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return Cone[T]{
		radius: c.radius.Mul(factor),
		height: c.height.Mul(factor),
		pos:    c.pos,
		rot:    c.rot,
	}, nil
}

func (c Cone[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return c.ScaleByDimension(dimensionFactor(factor))
}

func (c Cone[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	clone := c
	clone.pos = pos
	return clone
}

func (c Cone[T]) CloneRotated(rot spatial.Quaternion[T]) Shape[T] {
	clone := c
	clone.rot = normalizeRotation(rot)
	return clone
}

func (c Cone[T]) String() string {
	return fmt.Sprintf("cone(radius=%s, height=%s) at %s", c.radius, c.height, c.pos)
}

var _ Shape[scalar.Float64] = Cone[scalar.Float64]{}
