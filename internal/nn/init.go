package nn

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/lair/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes a rows×cols matrix with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across layers.
func Xavier(fanIn, fanOut, rows, cols int) *tensor.Matrix {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	m := tensor.NewMatrix(rows, cols)
	data := m.Data()
	for i := range data {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		data[i] = float32((rand.Float64()*2.0 - 1.0) * bound)
	}
	return m
}

// Normal creates a rows×cols matrix with values drawn from N(0, std²).
//
// A nil src uses the global math/rand/v2 source.
func Normal(rows, cols int, std float64, src rand.Source) *tensor.Matrix {
	m := tensor.NewMatrix(rows, cols)
	fillNormal(m.Data(), std, src)
	return m
}

// NormalVector creates a vector of length n with values drawn from N(0, std²).
func NormalVector(n int, std float64, src rand.Source) tensor.Vector {
	v := tensor.NewVector(n)
	fillNormal(v, std, src)
	return v
}

func fillNormal(data []float32, std float64, src rand.Source) {
	dist := distuv.Normal{Mu: 0, Sigma: std, Src: src}
	for i := range data {
		data[i] = float32(dist.Rand())
	}
}
