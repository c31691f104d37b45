// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the gradient trainers that update lair model
// parameters.
//
// # Overview
//
// This package contains:
//   - Trainer interface and its two-variant Result (updated or deferred)
//   - SGD: gradient descent with the step normalized by fan-in and L2 decay
//   - Batch: mini-batch averaging over a circular buffer of gradients
//   - Momentum: velocity accumulation over any inner trainer
//   - Adam: adaptive moment estimation with bias correction
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/lair/nn"
//	    "github.com/born-ml/lair/optim"
//	)
//
//	func main() {
//	    params := optim.UpdateParams{StepSize: 0.01}
//	    layer := nn.NewLinear(2, 1, optim.NewMomentum(0.9, optim.NewBatch(params, 8)))
//
//	    for _, s := range samples {
//	        layer.Update(s.X, s.Y)
//	    }
//	}
//
// # Ownership
//
// Trainers carry state (buffers, velocities, moments). Give each layer its
// own trainer instance.
package optim
