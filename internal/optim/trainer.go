// Package optim implements the gradient trainers that update model parameters.
//
// This package provides:
//   - Trainer interface: turns a raw parameter gradient into new parameters, or defers
//   - SGD: plain gradient descent with L2 weight decay
//   - Batch: buffers gradients and applies their mean every batch-size calls
//   - Momentum: wraps another trainer and accumulates a velocity
//   - Adam: adaptive moment estimation with bias correction
//
// A trainer carries mutable state and belongs to exactly one model for the
// model's lifetime. Sharing a trainer between models mixes their gradients.
//
// Example usage:
//
//	params := optim.UpdateParams{StepSize: 0.01}
//	layer := nn.NewLinear(2, 1, optim.NewMomentum(0.9, optim.NewBatch(params, 8)))
//
//	for _, s := range samples {
//	    layer.Update(s.X, s.Y)
//	}
package optim

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/lair/internal/tensor"
)

// Trainer is the base interface for all gradient trainers.
//
// Train receives the current weights [out, in] and bias [out] of a layer
// together with the loss gradients of the same shapes. It returns either the
// updated parameters or a deferral, in which case the caller keeps its
// current parameters. Implementations must not mutate their arguments.
type Trainer interface {
	Train(weights *tensor.Matrix, bias tensor.Vector, gradient *tensor.Matrix, biasGradient tensor.Vector) Result
}

// Result is the outcome of a Train call: Updated parameters or Deferred.
type Result struct {
	Weights  *tensor.Matrix
	Bias     tensor.Vector
	deferred bool
}

// Updated returns a Result carrying new parameters.
func Updated(weights *tensor.Matrix, bias tensor.Vector) Result {
	return Result{Weights: weights, Bias: bias}
}

// Deferred returns a Result telling the caller to keep its parameters.
func Deferred() Result {
	return Result{deferred: true}
}

// IsDeferred reports whether the trainer postponed the update.
func (r Result) IsDeferred() bool {
	return r.deferred
}

// UpdateParams holds the step configuration shared by all trainers.
type UpdateParams struct {
	StepSize float32 // Learning rate, normalized by layer fan-in in SGD
	L2Reg    float32 // Weight decay factor applied to weights, range [0, 1)
}

// DefaultUpdateParams returns StepSize 1e-3 without regularization.
func DefaultUpdateParams() UpdateParams {
	return UpdateParams{StepSize: 1e-3}
}

// Validate checks that the parameters describe a usable step.
func (p UpdateParams) Validate() error {
	if math32.IsNaN(p.StepSize) || math32.IsInf(p.StepSize, 0) || p.StepSize < 0 {
		return fmt.Errorf("invalid step size %v (must be finite and >= 0)", p.StepSize)
	}
	if math32.IsNaN(p.L2Reg) || p.L2Reg < 0 || p.L2Reg >= 1 {
		return fmt.Errorf("invalid l2 regularization %v (must be in [0, 1))", p.L2Reg)
	}
	return nil
}

// checkGradient panics if the gradient shapes disagree with the parameters.
func checkGradient(op string, weights *tensor.Matrix, bias tensor.Vector, gradient *tensor.Matrix, biasGradient tensor.Vector) {
	if !weights.Shape().Equal(gradient.Shape()) {
		panic(fmt.Sprintf("%s: gradient shape %v != weight shape %v", op, gradient.Shape(), weights.Shape()))
	}
	if len(bias) != weights.Rows() || len(biasGradient) != len(bias) {
		panic(fmt.Sprintf("%s: bias length %d, bias gradient length %d, expected %d",
			op, len(bias), len(biasGradient), weights.Rows()))
	}
}
