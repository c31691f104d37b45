package nn_test

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/lair/internal/nn"
	"github.com/born-ml/lair/internal/optim"
	"github.com/born-ml/lair/internal/tensor"
)

func BenchmarkLinear_UpdateBulk(b *testing.B) {
	const inputs, samples = 8, 256
	src := rand.NewPCG(1, 2)
	generator := nn.NewLinearNormal(inputs, 1, 1, src, deferring())
	noise := distuv.Normal{Mu: 0, Sigma: 0.1, Src: src}
	rng := rand.New(src)

	x := tensor.NewMatrix(inputs, samples)
	y := tensor.NewMatrix(1, samples)
	xj := tensor.NewVector(inputs)
	for j := 0; j < samples; j++ {
		for i := range xj {
			xj[i] = rng.Float32()*2 - 1
			x.Set(i, j, xj[i])
		}
		y.Set(0, j, generator.Predict(xj)[0]+float32(noise.Rand()))
	}

	model := nn.NewLinear(inputs, 1, deferring())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := model.UpdateBulk(x, y); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLayered_Update(b *testing.B) {
	params := optim.UpdateParams{StepSize: 1e-3}
	src := rand.NewPCG(3, 4)
	model := nn.NewLayered(
		nn.NewReLU(nn.NewLinearNormal(2, 16, 0.5, src, optim.NewSGD(params))),
		nn.NewLinearNormal(16, 1, 0.5, src, optim.NewSGD(params)),
	)
	x := tensor.VectorOf(0.5, 1)
	y := tensor.VectorOf(3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		model.Update(x, y)
	}
}

func BenchmarkConv2D_Predict(b *testing.B) {
	g := nn.Geometry{PatchRows: 3, PatchCols: 3, InputDepth: 1, OutputDepth: 4, InputRows: 28, InputCols: 28}
	conv := nn.NewConv2D(g, nn.NewReLU(nn.NewLinear(g.PatchSize(), g.OutputDepth, deferring())))
	x := nn.NormalVector(g.NumInputs(), 1, rand.NewPCG(5, 6))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = conv.Predict(x)
	}
}
