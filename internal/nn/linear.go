package nn

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/lair/internal/logging"
	"github.com/born-ml/lair/internal/optim"
	"github.com/born-ml/lair/internal/tensor"
)

// ErrSingular is returned by UpdateBulk when the sample covariance X·Xᵗ has no inverse.
var ErrSingular = errors.New("singular covariance matrix")

// Linear implements a fully connected (affine) layer.
//
// Performs the transformation: y = W·x + b
// where:
//   - x is the input vector with in_features elements
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with out_features elements
//
// The layer exclusively owns its trainer; parameters change only through
// the trainer during Backpropagate, or through UpdateBulk and Merge.
//
// Example:
//
//	layer := nn.NewLinear(784, 128, optim.NewSGD(optim.UpdateParams{StepSize: 0.01}))
//	y := layer.Predict(x)
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *tensor.Matrix // [out_features, in_features]
	bias        tensor.Vector  // [out_features]
	trainer     optim.Trainer
}

// NewLinear creates a new Linear layer.
//
// Weights are initialized using Xavier/Glorot uniform distribution.
// Biases are initialized to zeros.
func NewLinear(inFeatures, outFeatures int, trainer optim.Trainer) *Linear {
	return newLinear(
		Xavier(inFeatures, outFeatures, outFeatures, inFeatures),
		tensor.NewVector(outFeatures),
		trainer,
	)
}

// NewLinearNormal creates a new Linear layer whose weights and biases are
// drawn from N(0, std²). A nil src uses the global random source.
func NewLinearNormal(inFeatures, outFeatures int, std float64, src rand.Source, trainer optim.Trainer) *Linear {
	return newLinear(
		Normal(outFeatures, inFeatures, std, src),
		NormalVector(outFeatures, std, src),
		trainer,
	)
}

// NewLinearFrom creates a Linear layer from user-supplied parameters.
//
// The weight matrix has shape [out_features, in_features]; the bias must have
// out_features elements. Both are copied.
func NewLinearFrom(weight *tensor.Matrix, bias tensor.Vector, trainer optim.Trainer) *Linear {
	if len(bias) != weight.Rows() {
		panic(fmt.Sprintf("linear: bias length %d != weight rows %d", len(bias), weight.Rows()))
	}
	return newLinear(weight.Clone(), bias.Clone(), trainer)
}

func newLinear(weight *tensor.Matrix, bias tensor.Vector, trainer optim.Trainer) *Linear {
	if trainer == nil {
		panic("linear: trainer must not be nil")
	}
	return &Linear{
		inFeatures:  weight.Cols(),
		outFeatures: weight.Rows(),
		weight:      weight,
		bias:        bias,
		trainer:     trainer,
	}
}

// NumInputs returns the number of input features.
func (l *Linear) NumInputs() int {
	return l.inFeatures
}

// NumOutputs returns the number of output features.
func (l *Linear) NumOutputs() int {
	return l.outFeatures
}

// Predict computes W·x + b.
func (l *Linear) Predict(x tensor.Vector) tensor.Vector {
	mustLen("Linear.Predict", "input", x, l.inFeatures)
	y := l.weight.MulVec(x)
	for i, b := range l.bias {
		y[i] += b
	}
	return y
}

// Backpropagate returns dE/dx = Wᵗ·dE/dy and hands the parameter gradients
// dE/dW = dE/dy·xᵗ and dE/db = dE/dy to the trainer.
//
// The returned gradient is computed with the weights in effect before the
// trainer runs. A deferred trainer result leaves the parameters unchanged.
func (l *Linear) Backpropagate(x, dEdy tensor.Vector) tensor.Vector {
	mustLen("Linear.Backpropagate", "input", x, l.inFeatures)
	mustLen("Linear.Backpropagate", "output gradient", dEdy, l.outFeatures)
	logging.Debug("linear backprop", "in", l.inFeatures, "out", l.outFeatures)

	dEdx := l.weight.TMulVec(dEdy)
	grad := tensor.Outer(dEdy, x)

	r := l.trainer.Train(l.weight, l.bias, grad, dEdy)
	if !r.IsDeferred() {
		if !r.Weights.Shape().Equal(l.weight.Shape()) || len(r.Bias) != l.outFeatures {
			panic(fmt.Sprintf("Linear.Backpropagate: trainer returned weights %v and bias [%d], expected %v and [%d]",
				r.Weights.Shape(), len(r.Bias), l.weight.Shape(), l.outFeatures))
		}
		l.weight = r.Weights
		l.bias = r.Bias
	}
	return dEdx
}

// Update trains on one observation with error Predict(x) - y.
func (l *Linear) Update(x, y tensor.Vector) tensor.Vector {
	return update(l, x, y)
}

// UpdateBulk fits the layer in closed form by least squares over D samples.
//
// x has shape [in_features, D] and y has shape [out_features, D]; column j
// of each is one (input, target) pair. A row of ones is appended to x to
// absorb the bias, and the solution is
//
//	W' = Y·Xᵗ·(X·Xᵗ)⁻¹
//
// whose last column becomes the bias. Returns an error wrapping ErrSingular,
// leaving the parameters unchanged, if X·Xᵗ cannot be inverted.
func (l *Linear) UpdateBulk(x, y *tensor.Matrix) error {
	if x.Rows() != l.inFeatures || y.Rows() != l.outFeatures || x.Cols() != y.Cols() {
		panic(fmt.Sprintf("Linear.UpdateBulk: expected x [%d, D] and y [%d, D], got %v and %v",
			l.inFeatures, l.outFeatures, x.Shape(), y.Shape()))
	}
	samples := x.Cols()

	// x1 = [x; 1ᵗ], shape [in+1, D]
	x1 := mat.NewDense(l.inFeatures+1, samples, nil)
	x1.Slice(0, l.inFeatures, 0, samples).(*mat.Dense).Copy(x.Dense())
	for j := 0; j < samples; j++ {
		x1.Set(l.inFeatures, j, 1)
	}

	var xxt mat.Dense
	xxt.Mul(x1, x1.T())

	var inv mat.Dense
	if err := inv.Inverse(&xxt); err != nil {
		return fmt.Errorf("cannot update bulk, no inverse for\n%v\n%w: %w",
			mat.Formatted(&xxt, mat.Squeeze()), ErrSingular, err)
	}

	// w1 = y·x1ᵗ·inv, shape [out, in+1]; the last column is the bias
	var yx mat.Dense
	yx.Mul(y.Dense(), x1.T())
	var w1 mat.Dense
	w1.Mul(&yx, &inv)

	l.weight = tensor.MatrixFromDense(w1.Slice(0, l.outFeatures, 0, l.inFeatures))
	bias := tensor.NewVector(l.outFeatures)
	for i := range bias {
		bias[i] = float32(w1.At(i, l.inFeatures))
	}
	l.bias = bias

	if logging.Enabled() {
		logging.Debug("linear bulk update", "samples", samples, "|w|", l.weight.Norm(), "|b|", l.bias.Norm())
	}
	return nil
}

// Merge blends other's parameters into this layer:
//
//	W = (1-a)·W + a·W_other
//	b = (1-a)·b + a·b_other
func (l *Linear) Merge(a float32, other *Linear) {
	if !l.weight.Shape().Equal(other.weight.Shape()) {
		panic(fmt.Sprintf("Linear.Merge: shape mismatch %v vs %v", l.weight.Shape(), other.weight.Shape()))
	}
	l.weight = l.weight.Scale(1 - a).Add(other.weight.Scale(a))
	l.bias = l.bias.Scale(1 - a).Add(other.bias.Scale(a))
}

// Weight returns a copy of the weight matrix [out_features, in_features].
func (l *Linear) Weight() *tensor.Matrix {
	return l.weight.Clone()
}

// Bias returns a copy of the bias vector.
func (l *Linear) Bias() tensor.Vector {
	return l.bias.Clone()
}
