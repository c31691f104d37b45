package optim

import (
	"github.com/born-ml/lair/internal/logging"
	"github.com/born-ml/lair/internal/tensor"
)

// SGD implements plain gradient descent with L2 weight decay.
//
// Update rule, with M the number of layer inputs:
//
//	step = StepSize / M
//	W'   = (1 - L2Reg) * W - step * gradient
//	b'   = b - step * biasGradient
//
// Dividing by the fan-in keeps the effective step comparable between wide and
// narrow layers. SGD never defers.
type SGD struct {
	params UpdateParams
}

// NewSGD creates a new SGD trainer.
//
// Example:
//
//	sgd := optim.NewSGD(optim.UpdateParams{StepSize: 0.01})
func NewSGD(params UpdateParams) *SGD {
	return &SGD{params: params}
}

// Train applies one gradient step.
func (s *SGD) Train(weights *tensor.Matrix, bias tensor.Vector, gradient *tensor.Matrix, biasGradient tensor.Vector) Result {
	checkGradient("SGD.Train", weights, bias, gradient, biasGradient)

	step := s.params.StepSize / float32(weights.Cols())
	decay := 1 - s.params.L2Reg

	w := weights.Clone()
	wd := w.Data()
	gd := gradient.Data()
	for i := range wd {
		wd[i] = decay*wd[i] - step*gd[i]
	}

	b := bias.Clone()
	for i := range b {
		b[i] -= step * biasGradient[i]
	}

	if logging.Enabled() {
		logging.Debug("sgd update", "rows", w.Rows(), "cols", w.Cols(), "|w|", w.Norm(), "|b|", b.Norm())
	}
	return Updated(w, b)
}

// Params returns the trainer's step configuration.
func (s *SGD) Params() UpdateParams {
	return s.params
}
