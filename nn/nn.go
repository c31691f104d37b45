// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"log/slog"
	"math/rand/v2"

	"github.com/born-ml/lair/internal/logging"
	"github.com/born-ml/lair/internal/nn"
	"github.com/born-ml/lair/optim"
	"github.com/born-ml/lair/tensor"
)

// Model interface defines the common interface for all models.
type Model = nn.Model

// ErrSingular is returned by Linear.UpdateBulk when X·Xᵗ has no inverse.
var ErrSingular = nn.ErrSingular

// Layers

// Linear represents a fully connected (affine) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	layer := nn.NewLinear(784, 128, optim.NewSGD(params))
func NewLinear(inFeatures, outFeatures int, trainer optim.Trainer) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, trainer)
}

// NewLinearNormal creates a new linear layer with N(0, std²) weights and bias.
//
// Example:
//
//	layer := nn.NewLinearNormal(2, 1, 100, rand.NewPCG(1, 2), optim.NewSGD(params))
func NewLinearNormal(inFeatures, outFeatures int, std float64, src rand.Source, trainer optim.Trainer) *Linear {
	return nn.NewLinearNormal(inFeatures, outFeatures, std, src, trainer)
}

// NewLinearFrom creates a linear layer from a copy of weight [out, in] and bias [out].
func NewLinearFrom(weight *tensor.Matrix, bias tensor.Vector, trainer optim.Trainer) *Linear {
	return nn.NewLinearFrom(weight, bias, trainer)
}

// Geometry describes the spatial layout of a Conv2D layer.
type Geometry = nn.Geometry

// Conv2D represents a shared-weight 2D tiling layer.
type Conv2D = nn.Conv2D

// NewConv2D creates a Conv2D layer that applies pooling at every patch.
//
// Example:
//
//	g := nn.Geometry{PatchRows: 5, PatchCols: 5, InputDepth: 1, OutputDepth: 6, InputRows: 28, InputCols: 28}
//	conv := nn.NewConv2D(g, nn.NewLinear(g.PatchSize(), 6, optim.NewSGD(params)))
func NewConv2D(g Geometry, pooling Model) *Conv2D {
	return nn.NewConv2D(g, pooling)
}

// Activations

// ReLU represents the Rectified Linear Unit decorator.
type ReLU = nn.ReLU

// NewReLU wraps inner with a ReLU activation.
func NewReLU(inner Model) *ReLU {
	return nn.NewReLU(inner)
}

// Logit represents the sigmoid decorator.
type Logit = nn.Logit

// NewLogit wraps inner with a sigmoid activation.
func NewLogit(inner Model) *Logit {
	return nn.NewLogit(inner)
}

// Composition

// Layered chains two models.
type Layered = nn.Layered

// NewLayered creates a two-stage model. Panics if the dimensions do not chain.
//
// Example:
//
//	model := nn.NewLayered(
//	    nn.NewReLU(nn.NewLinear(2, 4, optim.NewSGD(params))),
//	    nn.NewLinear(4, 1, optim.NewSGD(params)),
//	)
func NewLayered(first, second Model) *Layered {
	return nn.NewLayered(first, second)
}

// Initialization

// Xavier returns a rows×cols matrix drawn from the Glorot uniform distribution.
func Xavier(fanIn, fanOut, rows, cols int) *tensor.Matrix {
	return nn.Xavier(fanIn, fanOut, rows, cols)
}

// Normal returns a rows×cols matrix drawn from N(0, std²).
func Normal(rows, cols int, std float64, src rand.Source) *tensor.Matrix {
	return nn.Normal(rows, cols, std, src)
}

// Logging

// SetLogger installs the logger used by models and trainers.
// A nil logger restores the default, which discards all records.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}
