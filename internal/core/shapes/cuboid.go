package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Cuboid is an oriented box. Dimensions are the full extents along the local
// X/Y/Z axes before rotation.
type Cuboid[T scalar.Scalar[T]] struct {
	dims spatial.Vector3[T]
	pos  spatial.Vector3[T]
	rot  spatial.Quaternion[T]
}

func NewCuboid[T scalar.Scalar[T]](dims, pos spatial.Vector3[T], rot spatial.Quaternion[T]) (Cuboid[T], error) {
	if err := checkDimensions(dims.X, dims.Y, dims.Z); err != nil {
		return Cuboid[T]{}, err
	}
	if err := checkVectors(pos); err != nil {
		return Cuboid[T]{}, err
	}
	return Cuboid[T]{dims: dims, pos: pos, rot: normalizeRotation(rot)}, nil
}

func (c Cuboid[T]) Kind() Kind                      { return KindCuboid }
func (c Cuboid[T]) Position() spatial.Vector3[T]    { return c.pos }
func (c Cuboid[T]) Rotation() spatial.Quaternion[T] { return c.rot }
func (c Cuboid[T]) Dimensions() spatial.Vector3[T]  { return c.dims }

func (c Cuboid[T]) ContainingRadius() T {
	return c.dims.Length().Mul(half[T]())
}

func (c Cuboid[T]) SmallestDimension() T {
	return scalar.Min(scalar.Min(c.dims.X, c.dims.Y), c.dims.Z)
}

func (c Cuboid[T]) Volume() T {
	return c.dims.X.Mul(c.dims.Y).Mul(c.dims.Z)
}

func (c Cuboid[T]) HighestPoint() spatial.Vector3[T] {
	return c.pos.Add(vertical(c.dims.Y.Mul(half[T]())))
}

func (c Cuboid[T]) LowestPoint() spatial.Vector3[T] {
	return c.pos.Sub(vertical(c.dims.Y.Mul(half[T]())))
}

func (c Cuboid[T]) IsPointWithin(p spatial.Vector3[T]) bool {
	local := toLocal(p, c.pos, c.rot).Abs()
	ext := c.halfExtents()
	return lessEq(local.X, ext.X) && lessEq(local.Y, ext.Y) && lessEq(local.Z, ext.Z)
}

func (c Cuboid[T]) halfExtents() spatial.Vector3[T] {
	return c.dims.Scale(half[T]())
}

func (c Cuboid[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return Cuboid[T]{dims: c.dims.Scale(factor), pos: c.pos, rot: c.rot}, nil
}

func (c Cuboid[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return c.ScaleByDimension(dimensionFactor(factor))
}

func (c Cuboid[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	clone := c
	clone.pos = pos
	return clone
}

func (c Cuboid[T]) CloneRotated(rot spatial.Quaternion[T]) Shape[T] {
	clone := c
	clone.rot = normalizeRotation(rot)
	return clone
}

func (c Cuboid[T]) String() string {
	return fmt.Sprintf("cuboid(dims=%s) at %s", c.dims, c.pos)
}

var _ Shape[scalar.Float64] = Cuboid[scalar.Float64]{}
