package optim

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/lair/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) trainer.
//
// Update rule, per element:
//
//	m_t   = beta1 * m_{t-1} + (1-beta1) * gradient
//	v_t   = beta2 * v_{t-1} + (1-beta2) * gradient²
//	m_hat = m_t / (1 - beta1^t)
//	v_hat = v_t / (1 - beta2^t)
//	param = param - StepSize * m_hat / (sqrt(v_hat) + eps)
//
// L2Reg decays the weights as in SGD. Adam never defers.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014).
type Adam struct {
	params UpdateParams
	beta1  float32
	beta2  float32
	eps    float32
	t      int

	mw, vw *tensor.Matrix // weight moments
	mb, vb tensor.Vector  // bias moments
}

// AdamConfig holds the moment decay rates for Adam.
type AdamConfig struct {
	Betas [2]float32 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float32    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam trainer. Zero config fields take their defaults.
func NewAdam(params UpdateParams, config AdamConfig) *Adam {
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		params: params,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
	}
}

// Train applies one Adam step.
func (a *Adam) Train(weights *tensor.Matrix, bias tensor.Vector, gradient *tensor.Matrix, biasGradient tensor.Vector) Result {
	checkGradient("Adam.Train", weights, bias, gradient, biasGradient)
	if a.mw == nil {
		a.mw = tensor.NewMatrix(weights.Rows(), weights.Cols())
		a.vw = tensor.NewMatrix(weights.Rows(), weights.Cols())
		a.mb = tensor.NewVector(len(bias))
		a.vb = tensor.NewVector(len(bias))
	} else if !a.mw.Shape().Equal(weights.Shape()) {
		panic(fmt.Sprintf("Adam.Train: weight shape %v != moment shape %v (trainer shared between layers?)",
			weights.Shape(), a.mw.Shape()))
	}

	a.t++
	bc1 := 1 - math32.Pow(a.beta1, float32(a.t))
	bc2 := 1 - math32.Pow(a.beta2, float32(a.t))

	w := weights.Clone()
	wd := w.Data()
	for i := range wd {
		wd[i] *= 1 - a.params.L2Reg
	}
	a.step(wd, gradient.Data(), a.mw.Data(), a.vw.Data(), bc1, bc2)

	b := bias.Clone()
	a.step(b, biasGradient, a.mb, a.vb, bc1, bc2)
	return Updated(w, b)
}

func (a *Adam) step(param, grad, m, v []float32, bc1, bc2 float32) {
	for i := range param {
		g := grad[i]
		m[i] = a.beta1*m[i] + (1-a.beta1)*g
		v[i] = a.beta2*v[i] + (1-a.beta2)*g*g
		mHat := m[i] / bc1
		vHat := v[i] / bc2
		param[i] -= a.params.StepSize * mHat / (math32.Sqrt(vHat) + a.eps)
	}
}

// Timestep returns the number of updates applied so far.
func (a *Adam) Timestep() int {
	return a.t
}
