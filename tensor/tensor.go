// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/lair/internal/tensor"
)

// Shape represents the dimensions of a vector or matrix.
type Shape = tensor.Shape

// Vector is a fixed-length float32 vector.
type Vector = tensor.Vector

// Matrix is a fixed-shape float32 matrix stored row-major.
type Matrix = tensor.Matrix

// NewVector creates a zero-filled vector of length n.
func NewVector(n int) Vector {
	return tensor.NewVector(n)
}

// VectorOf creates a vector holding a copy of values.
func VectorOf(values ...float32) Vector {
	return tensor.VectorOf(values...)
}

// NewMatrix creates a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return tensor.NewMatrix(rows, cols)
}

// MatrixFromSlice creates a matrix from row-major data.
//
// Example:
//
//	m, err := tensor.MatrixFromSlice(2, 3, []float32{1, 2, 3, 4, 5, 6})
func MatrixFromSlice(rows, cols int, data []float32) (*Matrix, error) {
	return tensor.MatrixFromSlice(rows, cols, data)
}

// MatrixFromRows creates a matrix from equally sized rows.
func MatrixFromRows(rows [][]float32) (*Matrix, error) {
	return tensor.MatrixFromRows(rows)
}

// MatrixFromDense converts a gonum matrix to float32.
func MatrixFromDense(d mat.Matrix) *Matrix {
	return tensor.MatrixFromDense(d)
}

// Outer returns the outer product a·bᵗ.
func Outer(a, b Vector) *Matrix {
	return tensor.Outer(a, b)
}
