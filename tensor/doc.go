// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the fixed-length vectors and matrices exchanged
// with lair models.
//
// The package defines:
//   - Vector: a float32 slice whose length is fixed by construction
//   - Matrix: a rows×cols float32 matrix stored row-major
//   - Shape: dimension metadata shared by both
//
// Example:
//
//	x, err := tensor.MatrixFromRows([][]float32{
//	    {2, 3, 4},
//	    {1, 4, 5},
//	})
//	v := tensor.VectorOf(0.5, 1)
//	y := x.TMulVec(tensor.VectorOf(1, 1))
package tensor
