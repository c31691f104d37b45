package optim

import (
	"fmt"

	"github.com/born-ml/lair/internal/tensor"
)

// Batch buffers gradients and applies their mean once every size calls.
//
// The first size-1 calls of each cycle return Deferred. The size-th call
// averages the buffered gradients, delegates one SGD step and returns its
// result, then starts a new cycle.
//
// Every buffered gradient must have the shape of the first one.
type Batch struct {
	sgd       *SGD
	size      int
	pos       int
	grads     []*tensor.Matrix
	biasGrads []tensor.Vector
}

// NewBatch creates a new mini-batch trainer. Panics if size < 1.
func NewBatch(params UpdateParams, size int) *Batch {
	if size < 1 {
		panic(fmt.Sprintf("optim: invalid batch size %d", size))
	}
	return &Batch{
		sgd:       NewSGD(params),
		size:      size,
		grads:     make([]*tensor.Matrix, size),
		biasGrads: make([]tensor.Vector, size),
	}
}

// Train records the gradient and applies the batch mean when the buffer fills.
func (b *Batch) Train(weights *tensor.Matrix, bias tensor.Vector, gradient *tensor.Matrix, biasGradient tensor.Vector) Result {
	checkGradient("Batch.Train", weights, bias, gradient, biasGradient)
	if prev := b.grads[0]; prev != nil && !prev.Shape().Equal(gradient.Shape()) {
		panic(fmt.Sprintf("Batch.Train: gradient shape %v != buffered shape %v (trainer shared between layers?)",
			gradient.Shape(), prev.Shape()))
	}

	b.grads[b.pos] = gradient.Clone()
	b.biasGrads[b.pos] = biasGradient.Clone()
	b.pos++
	if b.pos < b.size {
		return Deferred()
	}
	b.pos = 0

	gSum := b.grads[0].Clone()
	bgSum := b.biasGrads[0].Clone()
	for i := 1; i < b.size; i++ {
		gSum = gSum.Add(b.grads[i])
		bgSum = bgSum.Add(b.biasGrads[i])
	}
	n1 := 1 / float32(b.size)
	return b.sgd.Train(weights, bias, gSum.Scale(n1), bgSum.Scale(n1))
}

// Pending returns the number of gradients buffered in the current cycle.
func (b *Batch) Pending() int {
	return b.pos
}

// Size returns the batch size.
func (b *Batch) Size() int {
	return b.size
}
