package nn

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lair/internal/logging"
	"github.com/born-ml/lair/internal/optim"
	"github.com/born-ml/lair/internal/tensor"
)

// fixedTrainer defers every update, so the pooling weights stay fixed.
type fixedTrainer struct{}

func (fixedTrainer) Train(*tensor.Matrix, tensor.Vector, *tensor.Matrix, tensor.Vector) optim.Result {
	return optim.Deferred()
}

// 3x4 single-channel input, 2x3 patches, one output per patch: a 2x2 grid.
var testGeometry = Geometry{
	PatchRows:   2,
	PatchCols:   3,
	InputDepth:  1,
	OutputDepth: 1,
	InputRows:   3,
	InputCols:   4,
}

func onesPooling(t *testing.T, g Geometry) *Linear {
	t.Helper()
	w := tensor.NewMatrix(g.OutputDepth, g.PatchSize())
	for i := range w.Data() {
		w.Data()[i] = 1
	}
	return NewLinearFrom(w, tensor.NewVector(g.OutputDepth), fixedTrainer{})
}

func sequence(n int) tensor.Vector {
	v := tensor.NewVector(n)
	for i := range v {
		v[i] = float32(i + 1)
	}
	return v
}

func TestGeometry(t *testing.T) {
	g := testGeometry
	require.NoError(t, g.Validate())
	assert.Equal(t, 2, g.OutputRows())
	assert.Equal(t, 2, g.OutputCols())
	assert.Equal(t, 6, g.PatchSize())
	assert.Equal(t, 12, g.NumInputs())
	assert.Equal(t, 4, g.NumOutputs())
}

func TestGeometry_Validate(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
	}{
		{"zero patch", Geometry{PatchRows: 0, PatchCols: 1, InputDepth: 1, OutputDepth: 1, InputRows: 2, InputCols: 2}},
		{"zero input depth", Geometry{PatchRows: 1, PatchCols: 1, InputDepth: 0, OutputDepth: 1, InputRows: 2, InputCols: 2}},
		{"zero output depth", Geometry{PatchRows: 1, PatchCols: 1, InputDepth: 1, OutputDepth: 0, InputRows: 2, InputCols: 2}},
		{"patch taller than input", Geometry{PatchRows: 3, PatchCols: 1, InputDepth: 1, OutputDepth: 1, InputRows: 2, InputCols: 2}},
		{"patch wider than input", Geometry{PatchRows: 1, PatchCols: 3, InputDepth: 1, OutputDepth: 1, InputRows: 2, InputCols: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.g.Validate())
		})
	}
}

func TestConv2D_Creation(t *testing.T) {
	conv := NewConv2D(testGeometry, onesPooling(t, testGeometry))
	assert.Equal(t, 12, conv.NumInputs())
	assert.Equal(t, 4, conv.NumOutputs())
	assert.Equal(t, testGeometry, conv.Geometry())
}

func TestConv2D_CreationPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewConv2D(Geometry{}, onesPooling(t, testGeometry))
	})
	assert.PanicsWithValue(t, "conv2d: pooling model maps 6 -> 1, expected 6 -> 2", func() {
		g := testGeometry
		g.OutputDepth = 2
		NewConv2D(g, onesPooling(t, testGeometry))
	})
}

func TestConv2D_InputPatch(t *testing.T) {
	conv := NewConv2D(testGeometry, onesPooling(t, testGeometry))
	x := sequence(12)
	patch := tensor.NewVector(6)

	tests := []struct {
		r, c int
		want tensor.Vector
	}{
		{1, 1, tensor.VectorOf(6, 7, 8, 10, 11, 12)},
		{0, 1, tensor.VectorOf(2, 3, 4, 6, 7, 8)},
		{1, 0, tensor.VectorOf(5, 6, 7, 9, 10, 11)},
		{0, 0, tensor.VectorOf(1, 2, 3, 5, 6, 7)},
	}
	for _, tt := range tests {
		conv.inputPatch(x, tt.r, tt.c, patch)
		assert.Equal(t, tt.want, patch, "patch (%d, %d)", tt.r, tt.c)
	}
}

func TestConv2D_InputPatchWithDepth(t *testing.T) {
	g := Geometry{PatchRows: 2, PatchCols: 2, InputDepth: 2, OutputDepth: 1, InputRows: 2, InputCols: 3}
	conv := NewConv2D(g, onesPooling(t, g))
	x := sequence(12)
	patch := tensor.NewVector(g.PatchSize())

	conv.inputPatch(x, 0, 1, patch)
	assert.Equal(t, tensor.VectorOf(3, 4, 5, 6, 9, 10, 11, 12), patch)
}

func TestConv2D_OutputSlice(t *testing.T) {
	conv := NewConv2D(testGeometry, onesPooling(t, testGeometry))
	y := tensor.VectorOf(1, 2, 3, 4)

	assert.Equal(t, tensor.VectorOf(1), conv.outputSlice(y, 0, 0))
	assert.Equal(t, tensor.VectorOf(3), conv.outputSlice(y, 1, 0))
	assert.Equal(t, tensor.VectorOf(4), conv.outputSlice(y, 1, 1))
	assert.Equal(t, tensor.VectorOf(2), conv.outputSlice(y, 0, 1))
}

func TestConv2D_WriteOutput(t *testing.T) {
	conv := NewConv2D(testGeometry, onesPooling(t, testGeometry))
	y := tensor.NewVector(4)
	one := tensor.VectorOf(1)

	conv.writeOutput(y, 0, 0, one)
	assert.Equal(t, tensor.VectorOf(1, 0, 0, 0), y)
	conv.writeOutput(y, 1, 1, one)
	assert.Equal(t, tensor.VectorOf(1, 0, 0, 1), y)
	conv.writeOutput(y, 1, 0, one)
	assert.Equal(t, tensor.VectorOf(1, 0, 1, 1), y)
	conv.writeOutput(y, 0, 1, one)
	assert.Equal(t, tensor.VectorOf(1, 1, 1, 1), y)
}

func TestConv2D_ScatterAdd(t *testing.T) {
	conv := NewConv2D(testGeometry, onesPooling(t, testGeometry))
	dEdx := tensor.NewVector(12)
	ones := tensor.VectorOf(1, 1, 1, 1, 1, 1)

	conv.scatterAdd(dEdx, 0, 0, ones)
	assert.Equal(t, tensor.VectorOf(1, 1, 1, 0, 1, 1, 1, 0, 0, 0, 0, 0), dEdx)
	conv.scatterAdd(dEdx, 1, 0, ones)
	assert.Equal(t, tensor.VectorOf(1, 1, 1, 0, 2, 2, 2, 0, 1, 1, 1, 0), dEdx)
	conv.scatterAdd(dEdx, 1, 1, ones)
	assert.Equal(t, tensor.VectorOf(1, 1, 1, 0, 2, 3, 3, 1, 1, 2, 2, 1), dEdx)
	conv.scatterAdd(dEdx, 0, 1, ones)
	assert.Equal(t, tensor.VectorOf(1, 2, 2, 1, 2, 4, 4, 2, 1, 2, 2, 1), dEdx)
}

func TestConv2D_Predict(t *testing.T) {
	conv := NewConv2D(testGeometry, onesPooling(t, testGeometry))

	// Patch sums, row-major over the grid.
	assert.Equal(t, tensor.VectorOf(24, 30, 48, 54), conv.Predict(sequence(12)))
}

func TestConv2D_PredictEqualPatches(t *testing.T) {
	g := Geometry{PatchRows: 2, PatchCols: 2, InputDepth: 3, OutputDepth: 2, InputRows: 5, InputCols: 4}
	pooling := NewLinearFrom(
		Normal(g.OutputDepth, g.PatchSize(), 1, nil),
		tensor.VectorOf(0.5, -0.5),
		fixedTrainer{},
	)
	conv := NewConv2D(g, NewReLU(pooling))

	// Every position holds the same three channel values.
	x := tensor.NewVector(g.NumInputs())
	for i := range x {
		x[i] = float32(i%g.InputDepth) - 1
	}

	y := conv.Predict(x)
	first := y[:g.OutputDepth]
	for off := 0; off < len(y); off += g.OutputDepth {
		assert.Equal(t, first, y[off:off+g.OutputDepth], "block at %d", off)
	}
}

func TestConv2D_BackpropagateVisitsFullGrid(t *testing.T) {
	conv := NewConv2D(testGeometry, onesPooling(t, testGeometry))

	dEdx := conv.Backpropagate(sequence(12), tensor.VectorOf(1, 2, 3, 4))

	// Each input element sums dE/dy over the patches covering it.
	assert.Equal(t, tensor.VectorOf(1, 3, 3, 2, 4, 10, 10, 6, 3, 7, 7, 4), dEdx)
}

func TestConv2D_UpdateTrainsSharedPooling(t *testing.T) {
	pooling := NewLinearFrom(
		tensor.NewMatrix(1, testGeometry.PatchSize()),
		tensor.NewVector(1),
		optim.NewSGD(optim.UpdateParams{StepSize: 1e-3}),
	)
	conv := NewConv2D(testGeometry, pooling)
	x := sequence(12)
	y := tensor.VectorOf(1, 1, 1, 1)

	before := conv.Predict(x).Sub(y).Norm()
	dEdx := conv.Update(x, y)

	assert.Len(t, dEdx, 12)
	assert.Less(t, conv.Predict(x).Sub(y).Norm(), before)
	assert.False(t, pooling.Bias().Equal(tensor.NewVector(1)))
}

func TestConv2D_WrongLengthPanics(t *testing.T) {
	conv := NewConv2D(testGeometry, onesPooling(t, testGeometry))
	assert.PanicsWithValue(t, "Conv2D.Predict: expected input of length 12, got 11", func() {
		conv.Predict(sequence(11))
	})
	assert.Panics(t, func() {
		conv.Backpropagate(sequence(12), sequence(3))
	})
}

func TestConv2D_BackpropagateDebugLog(t *testing.T) {
	conv := NewConv2D(testGeometry, onesPooling(t, testGeometry))
	x := sequence(12)
	dEdy := tensor.VectorOf(1, 2, 3, 4)

	var buf bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	t.Cleanup(func() { logging.SetLogger(nil) })

	conv.Backpropagate(x, dEdy)
	assert.Empty(t, buf.String(), "debug record must not be emitted above debug level")

	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	conv.Backpropagate(x, dEdy)
	assert.Contains(t, buf.String(), `msg="conv2d backprop" input=3x4x1 patch=2x3 grid=2x2`)
}
