package spatial

import (
	"fmt"

	"github.com/geomsync/geomsync/internal/core/scalar"
)

// Vector2 is an immutable two-component vector.
type Vector2[T scalar.Scalar[T]] struct {
	X, Y T
}

// NewVector2 builds a vector from its components.
func NewVector2[T scalar.Scalar[T]](x, y T) Vector2[T] {
	return Vector2[T]{X: x, Y: y}
}

// Vector2From builds a vector from IEEE doubles.
func Vector2From[T scalar.Scalar[T]](x, y float64) Vector2[T] {
	return Vector2[T]{X: scalar.FromFloat[T](x), Y: scalar.FromFloat[T](y)}
}

// Zero2 returns the zero vector.
func Zero2[T scalar.Scalar[T]]() Vector2[T] {
	var z Vector2[T]
	return z
}

func (v Vector2[T]) Add(o Vector2[T]) Vector2[T] {
	return Vector2[T]{v.X.Add(o.X), v.Y.Add(o.Y)}
}

func (v Vector2[T]) Sub(o Vector2[T]) Vector2[T] {
	return Vector2[T]{v.X.Sub(o.X), v.Y.Sub(o.Y)}
}

func (v Vector2[T]) Scale(s T) Vector2[T] {
	return Vector2[T]{v.X.Mul(s), v.Y.Mul(s)}
}

func (v Vector2[T]) Div(s T) Vector2[T] {
	return Vector2[T]{v.X.Div(s), v.Y.Div(s)}
}

func (v Vector2[T]) Neg() Vector2[T] {
	return Vector2[T]{v.X.Neg(), v.Y.Neg()}
}

func (v Vector2[T]) Dot(o Vector2[T]) T {
	return v.X.Mul(o.X).Add(v.Y.Mul(o.Y))
}

// Cross returns the z component of the 3D cross product of the two vectors
// lifted into the plane.
func (v Vector2[T]) Cross(o Vector2[T]) T {
	return v.X.Mul(o.Y).Sub(v.Y.Mul(o.X))
}

func (v Vector2[T]) LengthSquared() T { return v.Dot(v) }
func (v Vector2[T]) Length() T        { return v.LengthSquared().Sqrt() }

func (v Vector2[T]) Distance(o Vector2[T]) T {
	return v.Sub(o).Length()
}

// Normalize scales to unit length. A zero vector propagates the backend's
// division-by-zero result.
func (v Vector2[T]) Normalize() Vector2[T] {
	return v.Div(v.Length())
}

func (v Vector2[T]) Lerp(o Vector2[T], t T) Vector2[T] {
	return v.Add(o.Sub(v).Scale(t))
}

func (v Vector2[T]) IsZero() bool {
	return v.X.IsZero() && v.Y.IsZero()
}

func (v Vector2[T]) IsNearlyZero() bool {
	return v.X.IsNearlyZero() && v.Y.IsNearlyZero()
}

func (v Vector2[T]) NearlyEquals(o Vector2[T]) bool {
	return v.X.IsNearlyEqual(o.X) && v.Y.IsNearlyEqual(o.Y)
}

func (v Vector2[T]) String() string {
	return fmt.Sprintf("(%s, %s)", v.X.String(), v.Y.String())
}
