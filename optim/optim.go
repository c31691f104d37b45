// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/lair/internal/optim"
	"github.com/born-ml/lair/tensor"
)

// Trainer turns a parameter gradient into updated parameters, or defers.
type Trainer = optim.Trainer

// Result is the outcome of Trainer.Train: updated parameters or a deferral.
type Result = optim.Result

// UpdateParams configures the step of gradient-based trainers.
type UpdateParams = optim.UpdateParams

// DefaultUpdateParams returns a step size of 1e-3 and no L2 regularization.
func DefaultUpdateParams() UpdateParams {
	return optim.DefaultUpdateParams()
}

// Updated returns a Result carrying new parameters.
func Updated(weights *tensor.Matrix, bias tensor.Vector) Result {
	return optim.Updated(weights, bias)
}

// Deferred returns a Result that leaves parameters unchanged.
func Deferred() Result {
	return optim.Deferred()
}

// SGD (Stochastic Gradient Descent)

// SGD is plain gradient descent with L2 weight decay.
type SGD = optim.SGD

// NewSGD creates a new SGD trainer.
//
// Example:
//
//	trainer := optim.NewSGD(optim.UpdateParams{StepSize: 0.01, L2Reg: 1e-4})
func NewSGD(params UpdateParams) *SGD {
	return optim.NewSGD(params)
}

// Batch represents the mini-batch trainer.
type Batch = optim.Batch

// NewBatch creates a trainer that applies the mean of every size gradients.
func NewBatch(params UpdateParams, size int) *Batch {
	return optim.NewBatch(params, size)
}

// Momentum represents the momentum trainer.
type Momentum = optim.Momentum

// NewMomentum wraps inner with momentum.
//
// Example:
//
//	trainer := optim.NewMomentum(0.9, optim.NewSGD(params))
func NewMomentum(momentum float32, inner Trainer) *Momentum {
	return optim.NewMomentum(momentum, inner)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam trainer.
type Adam = optim.Adam

// AdamConfig contains the moment decay rates and epsilon for Adam.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam trainer with bias correction.
func NewAdam(params UpdateParams, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}
