package nn

import (
	"fmt"

	"github.com/born-ml/lair/internal/logging"
	"github.com/born-ml/lair/internal/tensor"
)

// Geometry describes the spatial layout of a Conv2D layer.
//
// The input is an InputRows×InputCols×InputDepth tensor flattened with the
// channel varying fastest, then the column, then the row: element (r, c, k)
// sits at index (r*InputCols + c)*InputDepth + k. Patches and the output
// grid use the same ordering.
type Geometry struct {
	PatchRows   int // Pr
	PatchCols   int // Pc
	InputDepth  int // Pi, channels per input position
	OutputDepth int // Po, values produced per patch
	InputRows   int // Ir
	InputCols   int // Ic
}

// Validate checks that every dimension is positive and the patch fits the input.
func (g Geometry) Validate() error {
	if g.PatchRows <= 0 || g.PatchCols <= 0 {
		return fmt.Errorf("invalid patch size %dx%d", g.PatchRows, g.PatchCols)
	}
	if g.InputDepth <= 0 || g.OutputDepth <= 0 {
		return fmt.Errorf("invalid depth in=%d, out=%d", g.InputDepth, g.OutputDepth)
	}
	if g.InputRows < g.PatchRows || g.InputCols < g.PatchCols {
		return fmt.Errorf("patch %dx%d does not fit input %dx%d",
			g.PatchRows, g.PatchCols, g.InputRows, g.InputCols)
	}
	return nil
}

// OutputRows returns the number of grid rows: InputRows - PatchRows + 1.
func (g Geometry) OutputRows() int { return g.InputRows - g.PatchRows + 1 }

// OutputCols returns the number of grid columns: InputCols - PatchCols + 1.
func (g Geometry) OutputCols() int { return g.InputCols - g.PatchCols + 1 }

// PatchSize returns the length of one flattened patch.
func (g Geometry) PatchSize() int { return g.PatchRows * g.PatchCols * g.InputDepth }

// NumInputs returns the length of the flattened input.
func (g Geometry) NumInputs() int { return g.InputRows * g.InputCols * g.InputDepth }

// NumOutputs returns the length of the flattened output.
func (g Geometry) NumOutputs() int { return g.OutputRows() * g.OutputCols() * g.OutputDepth }

// Conv2D applies one pooling model with shared weights at every patch of a
// 2-D input.
//
// Stride is 1 and there is no padding, so the output grid has
// (Ir-Pr+1)×(Ic-Pc+1) positions, each holding OutputDepth values:
//
//	Input:   Ir×Ic×Pi
//	Pooling: Pr·Pc·Pi -> Po
//	Output:  (Ir-Pr+1)×(Ic-Pc+1)×Po
//
// The same pooling instance is visited serially at every grid position, so
// training at one position changes the weights used at the next.
//
// Example:
//
//	// 3x3 patches over a 28x28 grayscale image, 4 features per patch
//	g := nn.Geometry{PatchRows: 3, PatchCols: 3, InputDepth: 1, OutputDepth: 4, InputRows: 28, InputCols: 28}
//	conv := nn.NewConv2D(g, nn.NewReLU(nn.NewLinear(g.PatchSize(), 4, optim.NewSGD(params))))
//	y := conv.Predict(image) // 26*26*4 values
type Conv2D struct {
	geometry Geometry
	pooling  Model
}

// NewConv2D creates a Conv2D layer around pooling.
//
// Panics if the geometry is invalid or pooling does not map PatchSize()
// inputs to OutputDepth outputs.
func NewConv2D(g Geometry, pooling Model) *Conv2D {
	if err := g.Validate(); err != nil {
		panic(fmt.Sprintf("conv2d: %v", err))
	}
	if pooling == nil {
		panic("conv2d: pooling model must not be nil")
	}
	if pooling.NumInputs() != g.PatchSize() || pooling.NumOutputs() != g.OutputDepth {
		panic(fmt.Sprintf("conv2d: pooling model maps %d -> %d, expected %d -> %d",
			pooling.NumInputs(), pooling.NumOutputs(), g.PatchSize(), g.OutputDepth))
	}
	return &Conv2D{geometry: g, pooling: pooling}
}

// Geometry returns the layer geometry.
func (c *Conv2D) Geometry() Geometry { return c.geometry }

// Pooling returns the shared pooling model.
func (c *Conv2D) Pooling() Model { return c.pooling }

// NumInputs returns Ir·Ic·Pi.
func (c *Conv2D) NumInputs() int { return c.geometry.NumInputs() }

// NumOutputs returns (Ir-Pr+1)·(Ic-Pc+1)·Po.
func (c *Conv2D) NumOutputs() int { return c.geometry.NumOutputs() }

// Predict runs the pooling model at every grid position in row-major order.
func (c *Conv2D) Predict(x tensor.Vector) tensor.Vector {
	mustLen("Conv2D.Predict", "input", x, c.NumInputs())
	g := c.geometry
	y := tensor.NewVector(g.NumOutputs())
	patch := tensor.NewVector(g.PatchSize())
	for r := 0; r < g.OutputRows(); r++ {
		for col := 0; col < g.OutputCols(); col++ {
			c.inputPatch(x, r, col, patch)
			c.writeOutput(y, r, col, c.pooling.Predict(patch))
		}
	}
	return y
}

// Backpropagate visits the full output grid. At each position the
// pooling model is backpropagated with that position's block of dE/dy, and
// the patch gradient it returns is added into dE/dx. Overlapping patches
// accumulate.
func (c *Conv2D) Backpropagate(x, dEdy tensor.Vector) tensor.Vector {
	mustLen("Conv2D.Backpropagate", "input", x, c.NumInputs())
	mustLen("Conv2D.Backpropagate", "output gradient", dEdy, c.NumOutputs())
	g := c.geometry
	if logging.Enabled() {
		logging.Debug("conv2d backprop",
			"input", fmt.Sprintf("%dx%dx%d", g.InputRows, g.InputCols, g.InputDepth),
			"patch", fmt.Sprintf("%dx%d", g.PatchRows, g.PatchCols),
			"grid", fmt.Sprintf("%dx%d", g.OutputRows(), g.OutputCols()))
	}

	dEdx := tensor.NewVector(g.NumInputs())
	patch := tensor.NewVector(g.PatchSize())
	for r := 0; r < g.OutputRows(); r++ {
		for col := 0; col < g.OutputCols(); col++ {
			c.inputPatch(x, r, col, patch)
			dEdp := c.pooling.Backpropagate(patch, c.outputSlice(dEdy, r, col))
			c.scatterAdd(dEdx, r, col, dEdp)
		}
	}
	return dEdx
}

// Update trains on one observation with error Predict(x) - y.
func (c *Conv2D) Update(x, y tensor.Vector) tensor.Vector {
	return update(c, x, y)
}

// inputIndex returns the flat input index of patch element (i, j, 0) for
// the patch at grid position (r, col).
func (c *Conv2D) inputIndex(r, col, i, j int) int {
	g := c.geometry
	return ((r+i)*g.InputCols + col + j) * g.InputDepth
}

// inputPatch copies the patch at grid position (r, col) into patch.
func (c *Conv2D) inputPatch(x tensor.Vector, r, col int, patch tensor.Vector) {
	g := c.geometry
	rowLen := g.PatchCols * g.InputDepth
	for i := 0; i < g.PatchRows; i++ {
		start := c.inputIndex(r, col, i, 0)
		copy(patch[i*rowLen:(i+1)*rowLen], x[start:start+rowLen])
	}
}

// scatterAdd adds a patch-shaped gradient into dEdx at grid position (r, col).
func (c *Conv2D) scatterAdd(dEdx tensor.Vector, r, col int, dEdp tensor.Vector) {
	g := c.geometry
	rowLen := g.PatchCols * g.InputDepth
	for i := 0; i < g.PatchRows; i++ {
		start := c.inputIndex(r, col, i, 0)
		for k, v := range dEdp[i*rowLen : (i+1)*rowLen] {
			dEdx[start+k] += v
		}
	}
}

func (c *Conv2D) blockOffset(r, col int) int {
	return (r*c.geometry.OutputCols() + col) * c.geometry.OutputDepth
}

// outputSlice returns a copy of the OutputDepth block of y at grid position (r, col).
func (c *Conv2D) outputSlice(y tensor.Vector, r, col int) tensor.Vector {
	off := c.blockOffset(r, col)
	return y[off : off+c.geometry.OutputDepth].Clone()
}

func (c *Conv2D) writeOutput(y tensor.Vector, r, col int, block tensor.Vector) {
	mustLen("Conv2D.Predict", "pooling output", block, c.geometry.OutputDepth)
	copy(y[c.blockOffset(r, col):], block)
}
