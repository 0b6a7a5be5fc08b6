package shapes

import (
	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// CollisionPoint sweeps the mover along path and reports where the mover's
// center first touches the target.
//
// The swept volume is approximated by a capsule whose axis is the path and
// whose radius is the mover's containing radius, centered at the path's
// midpoint from the mover's position. For non-spherical movers this
// over-approximates the true swept volume and can report contact that the
// exact shape would miss.
//
// On a hit the returned point is the earliest root of the quadratic of the
// path line against the target's bounding sphere expanded by the mover's
// radius, clamped to the path. A mover already touching at the start yields
// the start position.
func CollisionPoint[T scalar.Scalar[T]](mover Shape[T], path spatial.Vector3[T], target Shape[T]) (spatial.Vector3[T], bool) {
	if mover == nil || target == nil {
		return spatial.Vector3[T]{}, false
	}
	start := mover.Position()
	if path.IsNearlyZero() {
		if Intersects(mover, target) {
			return start, true
		}
		return spatial.Vector3[T]{}, false
	}

	radius := mover.ContainingRadius()
	mid := start.Add(path.Scale(half[T]()))
	swept, err := NewCapsule(path, radius, mid)
	if err != nil {
		return spatial.Vector3[T]{}, false
	}
	if !Intersects[T](swept, target) {
		return spatial.Vector3[T]{}, false
	}

	zero := scalar.Zero[T]()
	expanded := target.ContainingRadius().Add(radius)
	length := path.Length()
	dir := path.Div(length)
	diff := start.Sub(target.Position())

	a0 := diff.Dot(diff).Sub(expanded.Mul(expanded))
	if lessEq(a0, zero) {
		return start, true
	}
	a1 := dir.Dot(diff)
	disc := a1.Mul(a1).Sub(a0)
	if isNegative(disc) {
		// the capsule test hit but the path line misses the expanded
		// sphere; settle for the closest approach along the path
		disc = zero
	}
	t := scalar.Clamp(a1.Neg().Sub(disc.Sqrt()), zero, length)
	return start.Add(dir.Scale(t)), true
}
