// Package shapes defines a closed set of solid geometric primitives over any
// scalar backend, with exact membership tests, a symmetric intersection
// dispatcher, swept-collision queries and a precision-preserving JSON codec.
//
// Shapes are immutable values. Every derived quantity (containing radius,
// volume, extremal offsets) is computed once at construction and carried as a
// plain field, so concurrent readers need no coordination. The vertical
// reference axis is +Y.
package shapes

import (
	"math"

	"github.com/geomsync/geomsync/internal/core/scalar"
	"github.com/geomsync/geomsync/internal/core/spatial"
)

// Kind tags a concrete shape variant. The numeric values are part of the wire
// format and must not be reordered.
type Kind uint8

const (
	KindPoint Kind = iota
	KindLine
	KindSphere
	KindHollowSphere
	KindCapsule
	KindCuboid
	KindCylinder
	KindCone
	KindEllipsoid
	KindFrustum
	KindTorus

	kindCount
)

var kindNames = [...]string{
	"point",
	"line",
	"sphere",
	"hollow_sphere",
	"capsule",
	"cuboid",
	"cylinder",
	"cone",
	"ellipsoid",
	"frustum",
	"torus",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether the tag names a member of the closed variant set.
func (k Kind) Valid() bool { return k < kindCount }

// Shape is the capability contract shared by all eleven kinds. Intersection
// is not a method; pairwise tests live in the package-level Intersects
// dispatcher so the pair logic stays in one exhaustive switch.
type Shape[T scalar.Scalar[T]] interface {
	Kind() Kind
	Position() spatial.Vector3[T]
	// Rotation is the orientation of the shape's local frame. Kinds with
	// full rotational symmetry (point, sphere, hollow sphere) always report
	// identity.
	Rotation() spatial.Quaternion[T]
	// ContainingRadius is the radius of the smallest sphere centered at
	// Position that encloses the shape.
	ContainingRadius() T
	// SmallestDimension is the smallest material extent: the diameter for
	// round solids, the shell or tube thickness for hollow sphere and
	// torus, the minimum extent for boxes, zero for point and line.
	SmallestDimension() T
	Volume() T
	// HighestPoint and LowestPoint are the extremal points along +Y prior
	// to rotation.
	HighestPoint() spatial.Vector3[T]
	LowestPoint() spatial.Vector3[T]
	// IsPointWithin reports whether the point lies inside the shape or on
	// its boundary, applying the shape's rotation where it has one.
	IsPointWithin(p spatial.Vector3[T]) bool
	// ScaleByDimension multiplies every linear dimension by factor, keeping
	// position and orientation. Factor zero collapses the shape to a
	// degenerate instance; a negative factor is rejected.
	ScaleByDimension(factor T) (Shape[T], error)
	// ScaleVolume scales the volume by factor, i.e. every linear dimension
	// by the cube root of factor.
	ScaleVolume(factor T) (Shape[T], error)
	CloneAt(pos spatial.Vector3[T]) Shape[T]
	// CloneRotated returns a copy with the given orientation. Re-aims the
	// axis for line and capsule; a no-op for rotation-invariant kinds.
	CloneRotated(rot spatial.Quaternion[T]) Shape[T]
	String() string
}

// lessEq is the inclusive-boundary comparison used by membership tests.
func lessEq[T scalar.Scalar[T]](a, b T) bool {
	return a.Cmp(b) <= 0 || a.IsNearlyEqual(b)
}

func isNegative[T scalar.Scalar[T]](v T) bool {
	return v.Cmp(scalar.Zero[T]()) < 0
}

// isNaN detects NaN where the backend can represent it. Saturating backends
// never produce NaN and always pass.
func isNaN[T scalar.Scalar[T]](v T) bool {
	return math.IsNaN(v.Float64())
}

func checkDimensions[T scalar.Scalar[T]](dims ...T) error {
	for _, d := range dims {
		if isNaN(d) {
			return ErrNotFinite
		}
		if isNegative(d) {
			return ErrNegativeDimension
		}
	}
	return nil
}

// checkVectors validates coordinates, which may be negative but not NaN.
func checkVectors[T scalar.Scalar[T]](vecs ...spatial.Vector3[T]) error {
	for _, v := range vecs {
		if isNaN(v.X) || isNaN(v.Y) || isNaN(v.Z) {
			return ErrNotFinite
		}
	}
	return nil
}

func checkScaleFactor[T scalar.Scalar[T]](factor T) error {
	if isNaN(factor) {
		return ErrNotFinite
	}
	if isNegative(factor) {
		return ErrNegativeDimension
	}
	return nil
}

// dimensionFactor converts a volume scale factor into a linear one.
func dimensionFactor[T scalar.Scalar[T]](volumeFactor T) T {
	third := scalar.One[T]().Div(three[T]())
	return volumeFactor.Pow(third)
}

func three[T scalar.Scalar[T]]() T {
	return scalar.Two[T]().Add(scalar.One[T]())
}

func four[T scalar.Scalar[T]]() T {
	return scalar.Two[T]().Add(scalar.Two[T]())
}

func half[T scalar.Scalar[T]]() T {
	return scalar.One[T]().Div(scalar.Two[T]())
}

// normalizeRotation maps the zero value to identity and renormalizes
// everything else, so stored orientations are always unit quaternions.
func normalizeRotation[T scalar.Scalar[T]](rot spatial.Quaternion[T]) spatial.Quaternion[T] {
	if rot.LengthSquared().IsNearlyZero() {
		return spatial.QuaternionIdentity[T]()
	}
	return rot.Normalize()
}

// axisRotation derives the orientation of an axis-defined shape as the
// shortest arc from +Y to the axis direction. A zero axis has no direction
// and maps to identity.
func axisRotation[T scalar.Scalar[T]](axis spatial.Vector3[T]) spatial.Quaternion[T] {
	if axis.IsNearlyZero() {
		return spatial.QuaternionIdentity[T]()
	}
	return spatial.UnitY[T]().RotationTo(axis)
}

// toLocal expresses a world point in a shape's unrotated local frame.
func toLocal[T scalar.Scalar[T]](p, pos spatial.Vector3[T], rot spatial.Quaternion[T]) spatial.Vector3[T] {
	return rot.Conjugate().Transform(p.Sub(pos))
}

// vertical is the +Y offset vector of the given length.
func vertical[T scalar.Scalar[T]](length T) spatial.Vector3[T] {
	return spatial.NewVector3(scalar.Zero[T](), length, scalar.Zero[T]())
}
