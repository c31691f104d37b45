package optim

import (
	"fmt"

	"github.com/born-ml/lair/internal/tensor"
)

// Momentum mixes the most recent step of an inner trainer with the previous
// velocity (Goodfellow, Bengio, Courville §8.3.2).
//
// The inner trainer returns updated parameters rather than a gradient, so the
// step is recovered as g = W - W'. Update rule:
//
//	first update:  velocity = W' - W,              result = W'
//	later updates: velocity = momentum*velocity - g, result = W + velocity
//
// The bias follows the same rule with its own velocity. Deferred results from
// the inner trainer are passed through and leave the velocity unchanged.
type Momentum struct {
	momentum float32
	inner    Trainer
	vw       *tensor.Matrix
	vb       tensor.Vector
}

// NewMomentum wraps inner with momentum. The inner trainer becomes owned by
// the returned Momentum and must not be used elsewhere.
//
// Example:
//
//	trainer := optim.NewMomentum(0.9, optim.NewSGD(params))
func NewMomentum(momentum float32, inner Trainer) *Momentum {
	if inner == nil {
		panic("optim: momentum requires an inner trainer")
	}
	return &Momentum{momentum: momentum, inner: inner}
}

// Train delegates to the inner trainer and applies the velocity.
func (m *Momentum) Train(weights *tensor.Matrix, bias tensor.Vector, gradient *tensor.Matrix, biasGradient tensor.Vector) Result {
	r := m.inner.Train(weights, bias, gradient, biasGradient)
	if r.IsDeferred() {
		return r
	}

	if m.vw == nil {
		m.vw = r.Weights.Sub(weights)
		m.vb = r.Bias.Sub(bias)
		return r
	}
	if !m.vw.Shape().Equal(weights.Shape()) {
		panic(fmt.Sprintf("Momentum.Train: weight shape %v != velocity shape %v (trainer shared between layers?)",
			weights.Shape(), m.vw.Shape()))
	}

	gw := weights.Sub(r.Weights)
	gb := bias.Sub(r.Bias)
	m.vw = m.vw.Scale(m.momentum).Sub(gw)
	m.vb = m.vb.Scale(m.momentum).Sub(gb)
	return Updated(weights.Add(m.vw), bias.Add(m.vb))
}

// Reset forgets the accumulated velocity.
func (m *Momentum) Reset() {
	m.vw = nil
	m.vb = nil
}
