package nn

import (
	"github.com/chewxy/math32"

	"github.com/born-ml/lair/internal/tensor"
)

// ReLU is a Rectified Linear Unit decorator around an inner Model.
//
// Applies the element-wise function to the inner output: f(y) = max(0, y)
//
// Example:
//
//	hidden := nn.NewReLU(nn.NewLinear(2, 4, optim.NewSGD(params)))
//	y := hidden.Predict(x) // All negative values become 0
type ReLU struct {
	inner Model
}

// NewReLU wraps inner with a ReLU activation.
func NewReLU(inner Model) *ReLU {
	if inner == nil {
		panic("relu: inner model must not be nil")
	}
	return &ReLU{inner: inner}
}

// NumInputs returns the inner model's input dimension.
func (r *ReLU) NumInputs() int { return r.inner.NumInputs() }

// NumOutputs returns the inner model's output dimension.
func (r *ReLU) NumOutputs() int { return r.inner.NumOutputs() }

// Predict applies max(0, y) to the inner prediction. NaN passes through.
func (r *ReLU) Predict(x tensor.Vector) tensor.Vector {
	y := r.inner.Predict(x)
	for i, v := range y {
		if v < 0 {
			y[i] = 0
		}
	}
	return y
}

// Backpropagate masks dE/dy where the inner pre-activation is not positive
// and passes the result to the inner model.
func (r *ReLU) Backpropagate(x, dEdy tensor.Vector) tensor.Vector {
	mustLen("ReLU.Backpropagate", "output gradient", dEdy, r.NumOutputs())
	p := r.inner.Predict(x)
	dEdp := tensor.NewVector(len(p))
	for i, v := range p {
		if v > 0 {
			dEdp[i] = dEdy[i]
		}
	}
	return r.inner.Backpropagate(x, dEdp)
}

// Update trains the inner model directly on a manufactured target.
//
// Components where both the inner prediction and the target are at or
// below zero already agree after clamping, so the inner prediction is kept
// as their target. Every other component takes the observed value.
func (r *ReLU) Update(x, y tensor.Vector) tensor.Vector {
	mustLen("ReLU.Update", "target", y, r.NumOutputs())
	target := r.inner.Predict(x)
	for i, v := range target {
		if !(v <= 0 && y[i] <= 0) {
			target[i] = y[i]
		}
	}
	return r.inner.Update(x, target)
}

// Logit is a sigmoid decorator around an inner Model.
//
// Applies the element-wise function to the inner output: σ(y) = 1 / (1 + exp(-y))
//
// Logit squashes values to the range (0, 1), making it useful for
// binary classification.
type Logit struct {
	inner Model
}

// NewLogit wraps inner with a sigmoid activation.
func NewLogit(inner Model) *Logit {
	if inner == nil {
		panic("logit: inner model must not be nil")
	}
	return &Logit{inner: inner}
}

// NumInputs returns the inner model's input dimension.
func (l *Logit) NumInputs() int { return l.inner.NumInputs() }

// NumOutputs returns the inner model's output dimension.
func (l *Logit) NumOutputs() int { return l.inner.NumOutputs() }

// Predict applies σ to the inner prediction.
func (l *Logit) Predict(x tensor.Vector) tensor.Vector {
	y := l.inner.Predict(x)
	for i, v := range y {
		y[i] = sigmoid(v)
	}
	return y
}

// Backpropagate scales dE/dy by σ'(p) = σ(p)·σ(-p) and passes the result
// to the inner model.
func (l *Logit) Backpropagate(x, dEdy tensor.Vector) tensor.Vector {
	mustLen("Logit.Backpropagate", "output gradient", dEdy, l.NumOutputs())
	p := l.inner.Predict(x)
	dEdp := tensor.NewVector(len(p))
	for i, v := range p {
		dEdp[i] = dEdy[i] * sigmoid(v) * sigmoid(-v)
	}
	return l.inner.Backpropagate(x, dEdp)
}

// Update trains on one observation with error Predict(x) - y.
func (l *Logit) Update(x, y tensor.Vector) tensor.Vector {
	return update(l, x, y)
}

func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}
