package shapes

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Torus is a solid ring lying in the local XZ plane. The inner radius is the
// edge of the hole and the outer radius the outermost edge, so the tube's
// center circle has radius (outer+inner)/2 and the tube itself radius
// (outer-inner)/2.
type Torus[T scalar.Scalar[T]] struct {
	inner T
	outer T
	pos   spatial.Vector3[T]
	rot   spatial.Quaternion[T]

	major T
	minor T
}

func NewTorus[T scalar.Scalar[T]](inner, outer T, pos spatial.Vector3[T], rot spatial.Quaternion[T]) (Torus[T], error) {
	if err := checkDimensions(inner, outer); err != nil {
		return Torus[T]{}, err
	}
	if err := checkVectors(pos); err != nil {
		return Torus[T]{}, err
	}
	if inner.Cmp(outer) > 0 {
		return Torus[T]{}, ErrInvertedShell
	}
	return Torus[T]{
		inner: inner,
		outer: outer,
		pos:   pos,
		rot:   normalizeRotation(rot),
		major: outer.Add(inner).Mul(half[T]()),
		minor: outer.Sub(inner).Mul(half[T]()),
	}, nil
}

func (t Torus[T]) Kind() Kind                      { return KindTorus }
func (t Torus[T]) Position() spatial.Vector3[T]    { return t.pos }
func (t Torus[T]) Rotation() spatial.Quaternion[T] { return t.rot }
func (t Torus[T]) InnerRadius() T                  { return t.inner }
func (t Torus[T]) OuterRadius() T                  { return t.outer }

// MajorRadius is the radius of the tube's center circle.
func (t Torus[T]) MajorRadius() T { return t.major }

// MinorRadius is the radius of the tube itself.
func (t Torus[T]) MinorRadius() T { return t.minor }

func (t Torus[T]) ContainingRadius() T { return t.outer }

// SmallestDimension is the tube diameter.
func (t Torus[T]) SmallestDimension() T {
	return t.outer.Sub(t.inner)
}

func (t Torus[T]) Volume() T {
	pi := scalar.Pi[T]()
	return scalar.Two[T]().Mul(pi).Mul(pi).Mul(t.major).Mul(t.minor).Mul(t.minor)
}

func (t Torus[T]) HighestPoint() spatial.Vector3[T] {
	return t.pos.Add(vertical(t.minor))
}

func (t Torus[T]) LowestPoint() spatial.Vector3[T] {
	return t.pos.Sub(vertical(t.minor))
}

func (t Torus[T]) IsPointWithin(p spatial.Vector3[T]) bool {
	local := toLocal(p, t.pos, t.rot)
	planar := local.X.Mul(local.X).Add(local.Z.Mul(local.Z)).Sqrt()
	d := planar.Sub(t.major)
	tube := d.Mul(d).Add(local.Y.Mul(local.Y)).Sqrt()
	return lessEq(tube, t.minor)
}

func (t Torus[T]) ScaleByDimension(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return Torus[T]{
		inner: t.inner.Mul(factor),
		outer: t.outer.Mul(factor),
		pos:   t.pos,
		rot:   t.rot,
		major: t.major.Mul(factor),
		minor: t.minor.Mul(factor),
	}, nil
}

func (t Torus[T]) ScaleVolume(factor T) (Shape[T], error) {
	if err := checkScaleFactor(factor); err != nil {
		return nil, err
	}
	return t.ScaleByDimension(dimensionFactor(factor))
}

func (t Torus[T]) CloneAt(pos spatial.Vector3[T]) Shape[T] {
	clone := t
	clone.pos = pos
	return clone
}

func (t Torus[T]) CloneRotated(rot spatial.Quaternion[T]) Shape[T] {
	clone := t
	clone.rot = normalizeRotation(rot)
	return clone
}

func (t Torus[T]) String() string {
	return fmt.Sprintf("torus(inner=%s, outer=%s) at %s", t.inner, t.outer, t.pos)
}

var _ Shape[scalar.Float64] = Torus[scalar.Float64]{}
