// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides composable differentiable models over fixed-length
// float32 vectors.
//
// # Overview
//
// This package contains:
//   - Model interface: Predict, Backpropagate, Update
//   - Layers: Linear, Conv2D
//   - Activations: ReLU, Logit (sigmoid), each wrapping one inner Model
//   - Composition: Layered
//   - Initialization: Xavier, Normal
//
// Every model hand-implements its backward formula. Parameters change
// through the Trainer owned by each Linear layer (see package optim).
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/lair/nn"
//	    "github.com/born-ml/lair/optim"
//	    "github.com/born-ml/lair/tensor"
//	)
//
//	func main() {
//	    params := optim.UpdateParams{StepSize: 1e-3}
//
//	    // Build a two-stage network
//	    model := nn.NewLayered(
//	        nn.NewReLU(nn.NewLinear(2, 8, optim.NewSGD(params))),
//	        nn.NewLinear(8, 1, optim.NewSGD(params)),
//	    )
//
//	    // Train on one observation
//	    model.Update(tensor.VectorOf(0.5, 1), tensor.VectorOf(3))
//	}
//
// # Layers
//
// Linear: fully connected layer, y = W·x + b
//
//	layer := nn.NewLinear(inFeatures, outFeatures, trainer)
//
// Linear can also be fit in closed form by least squares:
//
//	err := layer.UpdateBulk(x, y) // x: [in, D], y: [out, D]
//
// Conv2D: one pooling model applied with shared weights at every patch
//
//	g := nn.Geometry{PatchRows: 3, PatchCols: 3, InputDepth: 1, OutputDepth: 4, InputRows: 28, InputCols: 28}
//	conv := nn.NewConv2D(g, nn.NewLinear(g.PatchSize(), g.OutputDepth, trainer))
//
// # Errors
//
// Mismatched dimensions are programming errors and panic, at construction
// where possible. UpdateBulk returns an error wrapping ErrSingular when the
// samples do not determine the parameters.
//
// # Logging
//
// Models log debug records through the logger installed with SetLogger.
// Nothing is logged by default.
//
// # Concurrency
//
// Models and trainers are not safe for concurrent use.
package nn
