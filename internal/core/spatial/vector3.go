// Package spatial implements the vector, quaternion and matrix algebra the
// geometry packages build on, written once against the scalar contract so the
// same code serves every numeric backend. All types are immutable values with
// pure operations; transform composition follows the row-vector convention
// (v' = v * M, A.Mul(B) applies A first).
package spatial

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
)

// Vector3 is an immutable three-component vector.
type Vector3[T scalar.Scalar[T]] struct {
	X, Y, Z T
}

// NewVector3 builds a vector from its components.
func NewVector3[T scalar.Scalar[T]](x, y, z T) Vector3[T] {
	return Vector3[T]{X: x, Y: y, Z: z}
}

// Vector3From builds a vector from IEEE doubles.
func Vector3From[T scalar.Scalar[T]](x, y, z float64) Vector3[T] {
	return Vector3[T]{
		X: scalar.FromFloat[T](x),
		Y: scalar.FromFloat[T](y),
		Z: scalar.FromFloat[T](z),
	}
}

// Zero3 returns the zero vector.
func Zero3[T scalar.Scalar[T]]() Vector3[T] {
	var z Vector3[T]
	return z
}

// One3 returns the all-ones vector.
func One3[T scalar.Scalar[T]]() Vector3[T] {
	one := scalar.One[T]()
	return Vector3[T]{one, one, one}
}

// Splat3 returns a vector with all components set to s.
func Splat3[T scalar.Scalar[T]](s T) Vector3[T] {
	return Vector3[T]{s, s, s}
}

// UnitX returns (1, 0, 0).
func UnitX[T scalar.Scalar[T]]() Vector3[T] {
	v := Zero3[T]()
	v.X = scalar.One[T]()
	return v
}

// UnitY returns (0, 1, 0), the vertical reference axis.
func UnitY[T scalar.Scalar[T]]() Vector3[T] {
	v := Zero3[T]()
	v.Y = scalar.One[T]()
	return v
}

// UnitZ returns (0, 0, 1).
func UnitZ[T scalar.Scalar[T]]() Vector3[T] {
	v := Zero3[T]()
	v.Z = scalar.One[T]()
	return v
}

func (v Vector3[T]) Add(o Vector3[T]) Vector3[T] {
	return Vector3[T]{v.X.Add(o.X), v.Y.Add(o.Y), v.Z.Add(o.Z)}
}

func (v Vector3[T]) Sub(o Vector3[T]) Vector3[T] {
	return Vector3[T]{v.X.Sub(o.X), v.Y.Sub(o.Y), v.Z.Sub(o.Z)}
}

func (v Vector3[T]) Scale(s T) Vector3[T] {
	return Vector3[T]{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s)}
}

func (v Vector3[T]) Div(s T) Vector3[T] {
	return Vector3[T]{v.X.Div(s), v.Y.Div(s), v.Z.Div(s)}
}

func (v Vector3[T]) Neg() Vector3[T] {
	return Vector3[T]{v.X.Neg(), v.Y.Neg(), v.Z.Neg()}
}

func (v Vector3[T]) Abs() Vector3[T] {
	return Vector3[T]{v.X.Abs(), v.Y.Abs(), v.Z.Abs()}
}

func (v Vector3[T]) Dot(o Vector3[T]) T {
	return v.X.Mul(o.X).Add(v.Y.Mul(o.Y)).Add(v.Z.Mul(o.Z))
}

func (v Vector3[T]) Cross(o Vector3[T]) Vector3[T] {
	return Vector3[T]{
		X: v.Y.Mul(o.Z).Sub(v.Z.Mul(o.Y)),
		Y: v.Z.Mul(o.X).Sub(v.X.Mul(o.Z)),
		Z: v.X.Mul(o.Y).Sub(v.Y.Mul(o.X)),
	}
}

func (v Vector3[T]) LengthSquared() T { return v.Dot(v) }
func (v Vector3[T]) Length() T        { return v.LengthSquared().Sqrt() }

func (v Vector3[T]) Distance(o Vector3[T]) T {
	return v.Sub(o).Length()
}

func (v Vector3[T]) DistanceSquared(o Vector3[T]) T {
	return v.Sub(o).LengthSquared()
}

// Normalize scales to unit length. A zero vector propagates the backend's
// division-by-zero result rather than being silently guarded.
func (v Vector3[T]) Normalize() Vector3[T] {
	return v.Div(v.Length())
}

func (v Vector3[T]) Lerp(o Vector3[T], t T) Vector3[T] {
	return v.Add(o.Sub(v).Scale(t))
}

// Reflect mirrors the vector about a unit-length normal.
func (v Vector3[T]) Reflect(normal Vector3[T]) Vector3[T] {
	two := scalar.Two[T]()
	return v.Sub(normal.Scale(v.Dot(normal).Mul(two)))
}

// Min returns the componentwise minimum.
func (v Vector3[T]) Min(o Vector3[T]) Vector3[T] {
	return Vector3[T]{scalar.Min(v.X, o.X), scalar.Min(v.Y, o.Y), scalar.Min(v.Z, o.Z)}
}

// Max returns the componentwise maximum.
func (v Vector3[T]) Max(o Vector3[T]) Vector3[T] {
	return Vector3[T]{scalar.Max(v.X, o.X), scalar.Max(v.Y, o.Y), scalar.Max(v.Z, o.Z)}
}

// Clamp limits each component to [lo, hi] componentwise.
func (v Vector3[T]) Clamp(lo, hi Vector3[T]) Vector3[T] {
	return Vector3[T]{
		scalar.Clamp(v.X, lo.X, hi.X),
		scalar.Clamp(v.Y, lo.Y, hi.Y),
		scalar.Clamp(v.Z, lo.Z, hi.Z),
	}
}

func (v Vector3[T]) IsZero() bool {
	return v.X.IsZero() && v.Y.IsZero() && v.Z.IsZero()
}

func (v Vector3[T]) IsNearlyZero() bool {
	return v.X.IsNearlyZero() && v.Y.IsNearlyZero() && v.Z.IsNearlyZero()
}

func (v Vector3[T]) NearlyEquals(o Vector3[T]) bool {
	return v.X.IsNearlyEqual(o.X) && v.Y.IsNearlyEqual(o.Y) && v.Z.IsNearlyEqual(o.Z)
}

// ParallelTo reports whether the two directions are parallel within the
// backend epsilon. Zero vectors are parallel to nothing.
func (v Vector3[T]) ParallelTo(o Vector3[T]) bool {
	if v.IsNearlyZero() || o.IsNearlyZero() {
		return false
	}
	return v.Normalize().Cross(o.Normalize()).IsNearlyZero()
}

// StrictlyParallelTo reports exact parallelism: the cross product is exactly
// zero in the working representation.
func (v Vector3[T]) StrictlyParallelTo(o Vector3[T]) bool {
	return v.Cross(o).IsZero()
}

// RotationTo returns the shortest-arc rotation taking the receiver's
// direction onto the argument's. Anti-parallel inputs have no unique arc; a
// half turn about a perpendicular helper axis is returned (the helper is
// derived from the x axis, or the y axis when the input lies along x).
func (v Vector3[T]) RotationTo(o Vector3[T]) Quaternion[T] {
	from, to := v.Normalize(), o.Normalize()
	one := scalar.One[T]()
	dot := from.Dot(to)

	if dot.Add(one).IsNearlyZero() {
		axis := from.Cross(UnitX[T]())
		if axis.IsNearlyZero() {
			axis = from.Cross(UnitY[T]())
		}
		axis = axis.Normalize()
		return Quaternion[T]{X: axis.X, Y: axis.Y, Z: axis.Z, W: scalar.Zero[T]()}
	}

	axis := from.Cross(to)
	return Quaternion[T]{X: axis.X, Y: axis.Y, Z: axis.Z, W: one.Add(dot)}.Normalize()
}

func (v Vector3[T]) String() string {
	return fmt.Sprintf("(%s, %s, %s)", v.X.String(), v.Y.String(), v.Z.String())
}
