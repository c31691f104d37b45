package tensor

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Vector is a fixed-length sequence of float32 values.
//
// The length is fixed when the vector is created; arithmetic between vectors
// of different lengths is a programming error and panics.
type Vector []float32

// NewVector creates a zero-filled vector of length n.
func NewVector(n int) Vector {
	if n <= 0 {
		panic(fmt.Sprintf("tensor: invalid vector length %d", n))
	}
	return make(Vector, n)
}

// VectorOf creates a vector holding a copy of values.
//
// Example:
//
//	x := tensor.VectorOf(0.5, 1.0)
func VectorOf(values ...float32) Vector {
	v := make(Vector, len(values))
	copy(v, values)
	return v
}

// Len returns the number of elements.
func (v Vector) Len() int {
	return len(v)
}

// Shape returns {len(v)}.
func (v Vector) Shape() Shape {
	return Shape{len(v)}
}

// Clone returns a copy of the vector.
func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

// Add returns v + other.
func (v Vector) Add(other Vector) Vector {
	v.mustMatch("Add", other)
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + other[i]
	}
	return out
}

// Sub returns v - other.
func (v Vector) Sub(other Vector) Vector {
	v.mustMatch("Sub", other)
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - other[i]
	}
	return out
}

// Scale returns s * v.
func (v Vector) Scale(s float32) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = s * v[i]
	}
	return out
}

// Dot returns the inner product of v and other.
func (v Vector) Dot(other Vector) float32 {
	v.mustMatch("Dot", other)
	var sum float32
	for i := range v {
		sum += v[i] * other[i]
	}
	return sum
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float32 {
	return math32.Sqrt(v.Dot(v))
}

// HasNaN reports whether any element is NaN or infinite.
func (v Vector) HasNaN() bool {
	return hasNaN(v)
}

// Equal reports whether both vectors have the same length and elements.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

func (v Vector) mustMatch(op string, other Vector) {
	if len(v) != len(other) {
		panic(fmt.Sprintf("Vector.%s: length mismatch %d vs %d", op, len(v), len(other)))
	}
}

func hasNaN(data []float32) bool {
	for _, x := range data {
		if math32.IsNaN(x) || math32.IsInf(x, 0) {
			return true
		}
	}
	return false
}
