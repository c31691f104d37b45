package nn

import (
	"fmt"

	"github.com/born-ml/lair/internal/logging"
	"github.com/born-ml/lair/internal/tensor"
)

// Layered chains two models: the first model's output becomes the second
// model's input.
//
// Example:
//
//	model := nn.NewLayered(
//	    nn.NewReLU(nn.NewLinear(2, 4, optim.NewSGD(params))),
//	    nn.NewLinear(4, 1, optim.NewSGD(params)),
//	)
//
//	y := model.Predict(x)
//
// This is equivalent to:
//
//	h := first.Predict(x)
//	y := second.Predict(h)
//
// Deeper networks nest Layered values.
type Layered struct {
	first  Model
	second Model
}

// NewLayered creates a two-stage model.
//
// Panics if first.NumOutputs() differs from second.NumInputs().
func NewLayered(first, second Model) *Layered {
	if first == nil || second == nil {
		panic("layered: models must not be nil")
	}
	if first.NumOutputs() != second.NumInputs() {
		panic(fmt.Sprintf("layered: first model outputs %d values, second model expects %d",
			first.NumOutputs(), second.NumInputs()))
	}
	return &Layered{first: first, second: second}
}

// NumInputs returns the first model's input dimension.
func (l *Layered) NumInputs() int { return l.first.NumInputs() }

// NumOutputs returns the second model's output dimension.
func (l *Layered) NumOutputs() int { return l.second.NumOutputs() }

// First returns the first stage.
func (l *Layered) First() Model { return l.first }

// Second returns the second stage.
func (l *Layered) Second() Model { return l.second }

// Predict computes second(first(x)).
func (l *Layered) Predict(x tensor.Vector) tensor.Vector {
	return l.second.Predict(l.first.Predict(x))
}

// Backpropagate applies the chain rule through both stages.
//
// The second stage is backpropagated first, at the hidden value first(x),
// and the gradient it returns is passed to the first stage.
func (l *Layered) Backpropagate(x, dEdy tensor.Vector) tensor.Vector {
	h := l.first.Predict(x)
	dEdh := l.second.Backpropagate(h, dEdy)
	if h.HasNaN() || dEdh.HasNaN() {
		logging.Warn("layered: non-finite intermediate value, step size may be too large",
			"len", len(h), "|h|", h.Norm(), "|dE/dh|", dEdh.Norm())
	}
	if logging.Enabled() {
		logging.Debug("layered backprop", "|h|", h.Norm(), "|dE/dh|", dEdh.Norm())
	}
	return l.first.Backpropagate(x, dEdh)
}

// Update trains on one observation with error Predict(x) - y.
func (l *Layered) Update(x, y tensor.Vector) tensor.Vector {
	return update(l, x, y)
}
