package shapes

import (
	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Intersects reports whether two shapes overlap, boundary contact included.
// The pair is normalized by kind order and dispatched through one exhaustive
// switch, so the result is symmetric by construction. Pairs without an exact
// closed form fall back to the conservative bounding-sphere overlap test.
func Intersects[T scalar.Scalar[T]](a, b Shape[T]) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind() > b.Kind() {
		a, b = b, a
	}
	if hit, ok := closedForm(a, b); ok {
		return hit
	}
	return boundingSpheresOverlap(a, b)
}

// closedForm runs the exact pairwise test when one exists for the
// kind-ordered pair. The second result is false when the pair has no closed
// form and the caller must fall back.
func closedForm[T scalar.Scalar[T]](a, b Shape[T]) (hit, ok bool) {
	switch a.Kind() {
	case KindPoint:
		return b.IsPointWithin(a.Position()), true
	case KindLine:
		if l, isLine := a.(Line[T]); isLine {
			return lineClosedForm(l, b)
		}
	case KindSphere:
		if s, isSphere := a.(Sphere[T]); isSphere {
			return sphereClosedForm(s, b)
		}
	case KindHollowSphere:
		if h, isShell := a.(HollowSphere[T]); isShell {
			return hollowClosedForm(h, b)
		}
	case KindCapsule:
		if c, isCapsule := a.(Capsule[T]); isCapsule {
			return capsuleClosedForm(c, b)
		}
	case KindCuboid:
		if c, isCuboid := a.(Cuboid[T]); isCuboid {
			if o, isOther := b.(Cuboid[T]); isOther {
				gap := separationGap(boxFromCuboid(c), boxFromCuboid(o))
				return lessEq(gap, scalar.Zero[T]()), true
			}
		}
	}
	return false, false
}

func lineClosedForm[T scalar.Scalar[T]](l Line[T], b Shape[T]) (bool, bool) {
	switch v := b.(type) {
	case Line[T]:
		return segmentSegmentDistance(l.Start(), l.End(), v.Start(), v.End()).IsNearlyZero(), true
	case Sphere[T]:
		return segmentHitsSphere(l.Start(), l.End(), v.Position(), v.Radius()), true
	case HollowSphere[T]:
		return segmentHitsShell(l.Start(), l.End(), v.Position(), v.InnerRadius(), v.OuterRadius()), true
	case Capsule[T]:
		d := segmentSegmentDistance(l.Start(), l.End(), v.Start(), v.End())
		return lessEq(d, v.Radius()), true
	case Cuboid[T]:
		return segmentHitsCuboid(l.Start(), l.End(), v), true
	}
	return false, false
}

func sphereClosedForm[T scalar.Scalar[T]](s Sphere[T], b Shape[T]) (bool, bool) {
	switch v := b.(type) {
	case Sphere[T]:
		d := s.Position().Distance(v.Position())
		return lessEq(d, s.Radius().Add(v.Radius())), true
	case HollowSphere[T]:
		d := s.Position().Distance(v.Position())
		lo := scalar.Max(scalar.Zero[T](), d.Sub(s.Radius()))
		return bandsOverlap(lo, d.Add(s.Radius()), v.InnerRadius(), v.OuterRadius()), true
	case Capsule[T]:
		d := pointSegmentDistance(s.Position(), v.Start(), v.End())
		return lessEq(d, s.Radius().Add(v.Radius())), true
	case Cuboid[T]:
		return sphereHitsCuboid(s, v), true
	}
	return false, false
}

func hollowClosedForm[T scalar.Scalar[T]](h HollowSphere[T], b Shape[T]) (bool, bool) {
	switch v := b.(type) {
	case HollowSphere[T]:
		d := h.Position().Distance(v.Position())
		zero := scalar.Zero[T]()
		lo := scalar.Max(scalar.Max(zero, d.Sub(v.OuterRadius())), v.InnerRadius().Sub(d))
		return bandsOverlap(lo, d.Add(v.OuterRadius()), h.InnerRadius(), h.OuterRadius()), true
	case Capsule[T]:
		dmin := pointSegmentDistance(h.Position(), v.Start(), v.End())
		dmax := scalar.Max(v.Start().Distance(h.Position()), v.End().Distance(h.Position()))
		lo := scalar.Max(scalar.Zero[T](), dmin.Sub(v.Radius()))
		return bandsOverlap(lo, dmax.Add(v.Radius()), h.InnerRadius(), h.OuterRadius()), true
	}
	return false, false
}

func capsuleClosedForm[T scalar.Scalar[T]](c Capsule[T], b Shape[T]) (bool, bool) {
	switch v := b.(type) {
	case Capsule[T]:
		d := segmentSegmentDistance(c.Start(), c.End(), v.Start(), v.End())
		return lessEq(d, c.Radius().Add(v.Radius())), true
	case Cuboid[T]:
		// capsule as a degenerate box inflated by its radius; the gap is a
		// lower bound on the true distance, so this over-reports contact
		// near corners rather than missing it
		gap := separationGap(boxFromSegment(c.Axis(), c.Position()), boxFromCuboid(v))
		return lessEq(gap, c.Radius()), true
	}
	return false, false
}

// boundingSpheresOverlap is the conservative fallback for pairs without a
// closed form: it may over-report contact, never miss it.
func boundingSpheresOverlap[T scalar.Scalar[T]](a, b Shape[T]) bool {
	d := a.Position().Distance(b.Position())
	return lessEq(d, a.ContainingRadius().Add(b.ContainingRadius()))
}

// bandsOverlap reports whether the distance interval [lo, hi] meets the
// shell band [inner, outer].
func bandsOverlap[T scalar.Scalar[T]](lo, hi, inner, outer T) bool {
	return lessEq(lo, outer) && lessEq(inner, hi)
}

func closestPointOnSegment[T scalar.Scalar[T]](p, a, b spatial.Vector3[T]) spatial.Vector3[T] {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if den.IsNearlyZero() {
		return a
	}
	t := scalar.Clamp(p.Sub(a).Dot(ab).Div(den), scalar.Zero[T](), scalar.One[T]())
	return a.Add(ab.Scale(t))
}

func pointSegmentDistance[T scalar.Scalar[T]](p, a, b spatial.Vector3[T]) T {
	return p.Distance(closestPointOnSegment(p, a, b))
}

// segmentSegmentDistance is the minimum distance between two segments via
// the clamped closest-point construction.
func segmentSegmentDistance[T scalar.Scalar[T]](p1, q1, p2, q2 spatial.Vector3[T]) T {
	zero, one := scalar.Zero[T](), scalar.One[T]()
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t T
	switch {
	case a.IsNearlyZero() && e.IsNearlyZero():
		return p1.Distance(p2)
	case a.IsNearlyZero():
		s = zero
		t = scalar.Clamp(f.Div(e), zero, one)
	default:
		c := d1.Dot(r)
		if e.IsNearlyZero() {
			t = zero
			s = scalar.Clamp(c.Neg().Div(a), zero, one)
			break
		}
		b := d1.Dot(d2)
		denom := a.Mul(e).Sub(b.Mul(b))
		if denom.IsNearlyZero() {
			// parallel segments: any point does, endpoints give the answer
			s = zero
		} else {
			s = scalar.Clamp(b.Mul(f).Sub(c.Mul(e)).Div(denom), zero, one)
		}
		t = b.Mul(s).Add(f).Div(e)
		if t.Cmp(zero) < 0 {
			t = zero
			s = scalar.Clamp(c.Neg().Div(a), zero, one)
		} else if t.Cmp(one) > 0 {
			t = one
			s = scalar.Clamp(b.Sub(c).Div(a), zero, one)
		}
	}

	c1 := p1.Add(d1.Scale(s))
	c2 := p2.Add(d2.Scale(t))
	return c1.Distance(c2)
}

// segmentHitsSphere tests a segment against a solid sphere through the
// quadratic along the segment's direction: with unit direction d and
// diff = start - center, a0 = dot(diff,diff) - r^2, a1 = dot(d, diff), and
// the discriminant a1^2 - a0 decides root existence. The roots are then
// checked against the segment's extent.
func segmentHitsSphere[T scalar.Scalar[T]](start, end, center spatial.Vector3[T], radius T) bool {
	zero := scalar.Zero[T]()
	span := end.Sub(start)
	length := span.Length()
	if length.IsNearlyZero() {
		return lessEq(start.Distance(center), radius)
	}
	dir := span.Div(length)
	diff := start.Sub(center)
	a0 := diff.Dot(diff).Sub(radius.Mul(radius))
	a1 := dir.Dot(diff)
	disc := a1.Mul(a1).Sub(a0)
	if isNegative(disc) && !disc.IsNearlyZero() {
		return false
	}
	root := scalar.Max(disc, zero).Sqrt()
	t0 := a1.Neg().Sub(root)
	t1 := a1.Neg().Add(root)
	return lessEq(zero, t1) && lessEq(t0, length)
}

// segmentHitsShell tests a segment against a hollow sphere's band using the
// nearest and farthest segment distances from the shell's center.
func segmentHitsShell[T scalar.Scalar[T]](start, end, center spatial.Vector3[T], inner, outer T) bool {
	dmin := pointSegmentDistance(center, start, end)
	dmax := scalar.Max(start.Distance(center), end.Distance(center))
	return bandsOverlap(dmin, dmax, inner, outer)
}

func sphereHitsCuboid[T scalar.Scalar[T]](s Sphere[T], c Cuboid[T]) bool {
	local := toLocal(s.Position(), c.Position(), c.Rotation())
	ext := c.halfExtents()
	clamped := local.Clamp(ext.Neg(), ext)
	return lessEq(local.Distance(clamped), s.Radius())
}

// segmentHitsCuboid runs the slab test in the box frame with the segment
// parameterized over [0, 1].
func segmentHitsCuboid[T scalar.Scalar[T]](start, end spatial.Vector3[T], c Cuboid[T]) bool {
	p0 := toLocal(start, c.Position(), c.Rotation())
	p1 := toLocal(end, c.Position(), c.Rotation())
	d := p1.Sub(p0)
	ext := c.halfExtents()

	zero, one := scalar.Zero[T](), scalar.One[T]()
	tmin, tmax := zero, one

	starts := [3]T{p0.X, p0.Y, p0.Z}
	deltas := [3]T{d.X, d.Y, d.Z}
	extents := [3]T{ext.X, ext.Y, ext.Z}
	for i := 0; i < 3; i++ {
		if deltas[i].IsNearlyZero() {
			// parallel to the slab: inside it or not at all
			if !lessEq(starts[i].Abs(), extents[i]) {
				return false
			}
			continue
		}
		t1 := extents[i].Neg().Sub(starts[i]).Div(deltas[i])
		t2 := extents[i].Sub(starts[i]).Div(deltas[i])
		if t1.Cmp(t2) > 0 {
			t1, t2 = t2, t1
		}
		tmin = scalar.Max(tmin, t1)
		tmax = scalar.Min(tmax, t2)
		if !lessEq(tmin, tmax) {
			return false
		}
	}
	return true
}

// obb is the shape-agnostic oriented box used by the separating-axis tests.
type obb[T scalar.Scalar[T]] struct {
	center spatial.Vector3[T]
	axes   [3]spatial.Vector3[T]
	half   [3]T
}

func boxFromCuboid[T scalar.Scalar[T]](c Cuboid[T]) obb[T] {
	rot := c.Rotation()
	ext := c.halfExtents()
	return obb[T]{
		center: c.Position(),
		axes: [3]spatial.Vector3[T]{
			rot.Transform(spatial.UnitX[T]()),
			rot.Transform(spatial.UnitY[T]()),
			rot.Transform(spatial.UnitZ[T]()),
		},
		half: [3]T{ext.X, ext.Y, ext.Z},
	}
}

// boxFromSegment treats a segment as a box with extent only along its axis.
func boxFromSegment[T scalar.Scalar[T]](axis, pos spatial.Vector3[T]) obb[T] {
	rot := axisRotation(axis)
	zero := scalar.Zero[T]()
	return obb[T]{
		center: pos,
		axes: [3]spatial.Vector3[T]{
			rot.Transform(spatial.UnitX[T]()),
			rot.Transform(spatial.UnitY[T]()),
			rot.Transform(spatial.UnitZ[T]()),
		},
		half: [3]T{zero, axis.Length().Mul(half[T]()), zero},
	}
}

// project is the box's projection radius onto a unit axis.
func (b obb[T]) project(axis spatial.Vector3[T]) T {
	sum := scalar.Zero[T]()
	for i := range b.axes {
		sum = sum.Add(b.axes[i].Dot(axis).Abs().Mul(b.half[i]))
	}
	return sum
}

// separationGap returns the largest signed separation between two boxes over
// the fifteen candidate axes: three face axes each plus the nine edge cross
// products. A positive gap lower-bounds the distance between the boxes; a
// non-positive gap means no candidate axis separates them.
func separationGap[T scalar.Scalar[T]](a, b obb[T]) T {
	d := b.center.Sub(a.center)

	axes := make([]spatial.Vector3[T], 0, 15)
	axes = append(axes, a.axes[0], a.axes[1], a.axes[2], b.axes[0], b.axes[1], b.axes[2])
	for i := range a.axes {
		for j := range b.axes {
			cross := a.axes[i].Cross(b.axes[j])
			// nearly parallel edges degenerate; the face axes already
			// cover that direction
			if cross.IsNearlyZero() {
				continue
			}
			axes = append(axes, cross.Normalize())
		}
	}

	gap := d.Dot(axes[0]).Abs().Sub(a.project(axes[0])).Sub(b.project(axes[0]))
	for _, axis := range axes[1:] {
		sep := d.Dot(axis).Abs().Sub(a.project(axis)).Sub(b.project(axis))
		if sep.Cmp(gap) > 0 {
			gap = sep
		}
	}
	return gap
}
