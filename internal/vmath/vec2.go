package vmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Vec2 is a 2D vector over a floating point scalar.
type Vec2[T constraints.Float] struct {
	X, Y T
}

// V2 creates a new Vec2.
func V2[T constraints.Float](x, y T) Vec2[T] {
	return Vec2[T]{X: x, Y: y}
}

// UnitX is returned by Normalize for the zero vector.
func UnitX[T constraints.Float]() Vec2[T] {
	return Vec2[T]{X: 1}
}

func (v Vec2[T]) Neg() Vec2[T] {
	return Vec2[T]{-v.X, -v.Y}
}

func (v Vec2[T]) Add(w Vec2[T]) Vec2[T] {
	return Vec2[T]{v.X + w.X, v.Y + w.Y}
}

func (v Vec2[T]) Sub(w Vec2[T]) Vec2[T] {
	return Vec2[T]{v.X - w.X, v.Y - w.Y}
}

// Mul returns the component-wise product.
func (v Vec2[T]) Mul(w Vec2[T]) Vec2[T] {
	return Vec2[T]{v.X * w.X, v.Y * w.Y}
}

// Div returns the component-wise quotient.
func (v Vec2[T]) Div(w Vec2[T]) Vec2[T] {
	return Vec2[T]{v.X / w.X, v.Y / w.Y}
}

// AddScalar adds s to both components.
func (v Vec2[T]) AddScalar(s T) Vec2[T] {
	return Vec2[T]{v.X + s, v.Y + s}
}

// SubScalar subtracts s from both components.
func (v Vec2[T]) SubScalar(s T) Vec2[T] {
	return Vec2[T]{v.X - s, v.Y - s}
}

// Scale returns v * s.
func (v Vec2[T]) Scale(s T) Vec2[T] {
	return Vec2[T]{v.X * s, v.Y * s}
}

// Quo returns v / s.
func (v Vec2[T]) Quo(s T) Vec2[T] {
	return Vec2[T]{v.X / s, v.Y / s}
}

// Scale returns s * v.
func Scale[T constraints.Float](s T, v Vec2[T]) Vec2[T] {
	return Vec2[T]{s * v.X, s * v.Y}
}

// Over returns s / v component-wise.
func Over[T constraints.Float](s T, v Vec2[T]) Vec2[T] {
	return Vec2[T]{s / v.X, s / v.Y}
}

// Minus returns s - v component-wise.
func Minus[T constraints.Float](s T, v Vec2[T]) Vec2[T] {
	return Vec2[T]{s - v.X, s - v.Y}
}

func (v Vec2[T]) Dot(w Vec2[T]) T {
	return v.X*w.X + v.Y*w.Y
}

// LenSq returns the squared length.
func (v Vec2[T]) LenSq() T {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2[T]) Len() T {
	return T(math.Sqrt(float64(v.LenSq())))
}

// Dist returns the distance between v and w.
func (v Vec2[T]) Dist(w Vec2[T]) T {
	return w.Sub(v).Len()
}

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to (1, 0).
func (v Vec2[T]) Normalize() Vec2[T] {
	l := v.Len()
	if l == 0 {
		return UnitX[T]()
	}
	return Vec2[T]{v.X / l, v.Y / l}
}

func (v Vec2[T]) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// AddIn adds w to v in place.
func (v *Vec2[T]) AddIn(w Vec2[T]) *Vec2[T] {
	v.X += w.X
	v.Y += w.Y
	return v
}

// SubIn subtracts w from v in place.
func (v *Vec2[T]) SubIn(w Vec2[T]) *Vec2[T] {
	v.X -= w.X
	v.Y -= w.Y
	return v
}

// MulIn multiplies v by w component-wise in place.
func (v *Vec2[T]) MulIn(w Vec2[T]) *Vec2[T] {
	v.X *= w.X
	v.Y *= w.Y
	return v
}

// DivIn divides v by w component-wise in place.
func (v *Vec2[T]) DivIn(w Vec2[T]) *Vec2[T] {
	v.X /= w.X
	v.Y /= w.Y
	return v
}

// ScaleIn multiplies v by s in place.
func (v *Vec2[T]) ScaleIn(s T) *Vec2[T] {
	v.X *= s
	v.Y *= s
	return v
}

// QuoIn divides v by s in place.
func (v *Vec2[T]) QuoIn(s T) *Vec2[T] {
	v.X /= s
	v.Y /= s
	return v
}

// Zero resets v to the zero vector in place.
func (v *Vec2[T]) Zero() *Vec2[T] {
	v.X, v.Y = 0, 0
	return v
}
