// Package nn implements the differentiable models of the lair framework.
//
// This package provides building blocks over fixed-length float32 vectors:
//   - Model interface: Predict, Backpropagate, Update
//   - Linear: affine layer trained by an optim.Trainer
//   - Activations: ReLU, Logit (sigmoid) decorators around one inner Model
//   - Layered: two Models composed by the chain rule
//   - Conv2D: one pooling Model applied with shared weights at every patch of a 2-D input
//
// Every layer hand-implements its own backward formula; there is no
// automatic differentiation. Models are not safe for concurrent use.
package nn

import (
	"fmt"

	"github.com/born-ml/lair/internal/tensor"
)

// Model is the base interface for all models.
//
// A Model maps vectors of NumInputs elements to vectors of NumOutputs
// elements. Both dimensions are fixed when the model is constructed.
//
// Models can be composed to build larger networks:
//
//	hidden := nn.NewReLU(nn.NewLinear(2, 4, optim.NewSGD(params)))
//	out := nn.NewLinear(4, 1, optim.NewSGD(params))
//	model := nn.NewLayered(hidden, out)
type Model interface {
	// NumInputs returns the input dimension.
	NumInputs() int

	// NumOutputs returns the output dimension.
	NumOutputs() int

	// Predict computes the output for x without mutating the model.
	Predict(x tensor.Vector) tensor.Vector

	// Backpropagate takes dE/dy, the error gradient with respect to this
	// model's output at input x, and returns dE/dx. Models with trainable
	// parameters update them through their trainer as a side effect.
	Backpropagate(x, dEdy tensor.Vector) tensor.Vector

	// Update trains the model on one observation (x, y) and returns dE/dx.
	//
	// The error is predicted minus observed: Predict(x) - y.
	Update(x, y tensor.Vector) tensor.Vector
}

// update is the generic Update: backpropagate Predict(x) - y.
func update(m Model, x, y tensor.Vector) tensor.Vector {
	yh := m.Predict(x)
	return m.Backpropagate(x, yh.Sub(y))
}

// mustLen panics if v does not have n elements.
func mustLen(op, what string, v tensor.Vector, n int) {
	if len(v) != n {
		panic(fmt.Sprintf("%s: expected %s of length %d, got %d", op, what, n, len(v)))
	}
}
