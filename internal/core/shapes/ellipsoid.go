package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Ellipsoid is a solid ellipsoid with one radius per local axis.
type Ellipsoid[T scalar.Scalar[T]] struct {
	radii spatial.Vector3[T]
	pos   spatial.Vector3[T]
	rot   spatial.Quaternion[T]
}

func NewEllipsoid[T scalar.Scalar[T]](radii, pos spatial.Vector3[T], rot spatial.Quaternion[T]) (Ellipsoid[T], error) {
	if err := checkDimensions(radii.X, radii.Y, radii.Z); err != nil {
		return Ellipsoid[T]{}, err
	}
	if err := checkVectors(pos); err != nil {
		return Ellipsoid[T]{}, err
	}
	return Ellipsoid[T]{radii: radii, pos: pos, rot: normalizeRotation(rot)}, nil
}

func (e Ellipsoid[T]) Kind() Kind                      { return KindEllipsoid }
func (e Ellipsoid[T]) Position() spatial.Vector3[T]    { return e.pos }
func (e Ellipsoid[T]) Rotation() spatial.Quaternion[T] { return e.rot }
func (e Ellipsoid[T]) Radii() spatial.Vector3[T]       { return e.radii }

func (e Ellipsoid[T]) ContainingRadius() T {
	return scalar.Max(scalar.Max(e.radii.X, e.radii.Y), e.radii.Z)
}

func (e Ellipsoid[T]) SmallestDimension() T {
	least := scalar.Min(scalar.Min(e.radii.X, e.radii.Y), e.radii.Z)
	return least.Add(least)
}

func (e Ellipsoid[T]) Volume() T {
	return four[T]().Div(three[T]()).Mul(scalar.Pi[T]()).
		Mul(e.radii.X).Mul(e.radii.Y).Mul(e.radii.Z)
}

func (e Ellipsoid[T]) HighestPoint() spatial.Vector3[T] {
	return e.pos.Add(vertical(e.radii.Y))
}

func (e Ellipsoid[T]) LowestPoint() spatial.Vector3[T] {
	return e.pos.Sub(vertical(e.radii.Y))
}

func (e Ellipsoid[T]) IsPointWithin(p spatial.Vector3[T]) bool {
	local := toLocal(p, e.pos, e.rot)

	// axes with a vanishing radius admit only coordinates that vanish too
	sum := scalar.Zero[T]()
	coords := [3]T{local.X, local.Y, local.Z}
	radii := [3]T{e.radii.X, e.radii.Y, e.radii.Z}
	for i := range coords {
		if radii[i].IsNearlyZero() {
			if !coords[i].IsNearlyZero() {
				return false
			}
			continue
		}
		n := coords[i].Div(radii[i])
		sum = sum.Add(n.Mul(n))
	}
	return lessEq(sum, scalar.One[T]())
}

func (e Ellipsoid[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return Ellipsoid[T]{radii: e.radii.Scale(factor), pos: e.pos, rot: e.rot}, nil
}

func (e Ellipsoid[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return e.ScaleByDimension(dimensionFactor(factor))
}

func (e Ellipsoid[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	clone := e
	clone.pos = pos
	return clone
}

func (e Ellipsoid[T]) CloneRotated(rot spatial.Quaternion[T]) Shape[T] {
	clone := e
	clone.rot = normalizeRotation(rot)
	return clone
}

func (e Ellipsoid[T]) String() string {
	return fmt.Sprintf("ellipsoid(radii=%s) at %s", e.radii, e.pos)
}

var _ Shape[scalar.Float64] = Ellipsoid[scalar.Float64]{}
