package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// HollowSphere is a spherical shell: the material between the inner and outer
// radii. Like Sphere it is rotation-invariant.
type HollowSphere[T scalar.Scalar[T]] struct {
	inner T
	outer T
	pos   spatial.Vector3[T]
}

func NewHollowSphere[T scalar.Scalar[T]](inner, outer T, pos spatial.Vector3[T]) (HollowSphere[T], error) {
	if err := checkDimensions(inner, outer); err != nil {
		return HollowSphere[T]{}, err
	}
	if err := checkVectors(pos); err != nil {
		return HollowSphere[T]{}, err
	}
	if inner.Cmp(outer) > 0 {
		return HollowSphere[T]{}, ErrInvertedShell
	}
	return HollowSphere[T]{inner: inner, outer: outer, pos: pos}, nil
}

func (h HollowSphere[T]) Kind() Kind                      { return KindHollowSphere }
func (h HollowSphere[T]) Position() spatial.Vector3[T]    { return h.pos }
func (h HollowSphere[T]) Rotation() spatial.Quaternion[T] { return spatial.QuaternionIdentity[T]() }
func (h HollowSphere[T]) ContainingRadius() T             { return h.outer }
func (h HollowSphere[T]) InnerRadius() T                  { return h.inner }
func (h HollowSphere[T]) OuterRadius() T                  { return h.outer }

// SmallestDimension is the shell thickness.
func (h HollowSphere[T]) SmallestDimension() T {
	return h.outer.Sub(h.inner)
}

func (h HollowSphere[T]) Volume() T {
	o3 := h.outer.Mul(h.outer).Mul(h.outer)
	i3 := h.inner.Mul(h.inner).Mul(h.inner)
	return four[T]().Div(three[T]()).Mul(scalar.Pi[T]()).Mul(o3.Sub(i3))
}

func (h HollowSphere[T]) HighestPoint() spatial.Vector3[T] {
	return h.pos.Add(vertical(h.outer))
}

func (h HollowSphere[T]) LowestPoint() spatial.Vector3[T] {
	return h.pos.Sub(vertical(h.outer))
}

func (h HollowSphere[T]) IsPointWithin(p spatial.Vector3[T]) bool {
	d := p.Distance(h.pos)
	return lessEq(h.inner, d) && lessEq(d, h.outer)
}

func (h HollowSphere[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return HollowSphere[T]{
		inner: h.inner.Mul(factor),
		outer: h.outer.Mul(factor),
		pos:   h.pos,
	}, nil
}

func (h HollowSphere[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return h.ScaleByDimension(dimensionFactor(factor))
}

func (h HollowSphere[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	clone := h
	clone.pos = pos
	return clone
}

func (h HollowSphere[T]) CloneRotated(spatial.Quaternion[T]) Shape[T] { return h }

func (h HollowSphere[T]) String() string {
	return fmt.Sprintf("hollow_sphere(inner=%s, outer=%s) at %s", h.inner, h.outer, h.pos)
}

var _ Shape[scalar.Float64] = HollowSphere[scalar.Float64]{}
