package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/lair/nn"
	"github.com/born-ml/lair/optim"
	"github.com/born-ml/lair/tensor"
)

// fitQuadConfig holds the fit-quad flags.
type fitQuadConfig struct {
	iterations int
	miniBatch  int
	step       float64
	l2         float64
	momentum   float64
	adam       bool
	trainSize  int
	testSize   int
	hidden     int
	relu       bool
	seed       uint64
	verbose    bool
}

func parseFitQuad(args []string, stderr io.Writer) (fitQuadConfig, error) {
	var cfg fitQuadConfig
	fs := flag.NewFlagSet("fit-quad", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.iterations, "iter", 100, "Number of train/test rounds")
	fs.IntVar(&cfg.miniBatch, "mini-batch", 0, "Mini-batch size (0 = plain SGD)")
	fs.Float64Var(&cfg.step, "step", 1e-3, "Step size")
	fs.Float64Var(&cfg.l2, "l2", 0, "L2 regularization")
	fs.Float64Var(&cfg.momentum, "momentum", 0, "Momentum (0 = off)")
	fs.BoolVar(&cfg.adam, "adam", false, "Use Adam instead of SGD")
	fs.IntVar(&cfg.trainSize, "train-size", 80, "Training samples per round")
	fs.IntVar(&cfg.testSize, "test-size", 20, "Test samples per round")
	fs.IntVar(&cfg.hidden, "hidden", 2, "Hidden layer width")
	fs.BoolVar(&cfg.relu, "relu", false, "Apply ReLU to the hidden layer")
	fs.Uint64Var(&cfg.seed, "seed", 1, "Random seed")
	fs.BoolVar(&cfg.verbose, "v", false, "Log debug records to stderr")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	params := cfg.updateParams()
	if err := params.Validate(); err != nil {
		return cfg, err
	}
	switch {
	case cfg.iterations < 0:
		return cfg, fmt.Errorf("invalid -iter %d", cfg.iterations)
	case cfg.miniBatch < 0:
		return cfg, fmt.Errorf("invalid -mini-batch %d", cfg.miniBatch)
	case cfg.trainSize < 1 || cfg.testSize < 1:
		return cfg, fmt.Errorf("invalid sample sizes train=%d test=%d", cfg.trainSize, cfg.testSize)
	case cfg.hidden < 1:
		return cfg, fmt.Errorf("invalid -hidden %d", cfg.hidden)
	}
	return cfg, nil
}

func (c fitQuadConfig) updateParams() optim.UpdateParams {
	return optim.UpdateParams{StepSize: float32(c.step), L2Reg: float32(c.l2)}
}

// trainer builds a fresh trainer for one layer.
func (c fitQuadConfig) trainer() optim.Trainer {
	params := c.updateParams()
	var t optim.Trainer
	switch {
	case c.adam:
		t = optim.NewAdam(params, optim.AdamConfig{})
	case c.miniBatch > 0:
		t = optim.NewBatch(params, c.miniBatch)
	default:
		t = optim.NewSGD(params)
	}
	if c.momentum > 0 {
		t = optim.NewMomentum(float32(c.momentum), t)
	}
	return t
}

// quadratic is the target function f(x) = 0.5x₀² + 2x₀x₁ - 4x₁² - 6.
func quadratic(x tensor.Vector) tensor.Vector {
	return tensor.VectorOf(0.5*x[0]*x[0] + 2*x[0]*x[1] - 4*x[1]*x[1] - 6)
}

func fitQuad(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFitQuad(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	nn.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer nn.SetLogger(nil)

	src := rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15)
	var first nn.Model = nn.NewLinearNormal(2, cfg.hidden, 1, src, cfg.trainer())
	if cfg.relu {
		first = nn.NewReLU(first)
	}
	model := nn.NewLayered(first, nn.NewLinearNormal(cfg.hidden, 1, 1, src, cfg.trainer()))

	fmt.Fprintf(stdout, "# step=%g l2=%g momentum=%g n_train=%d n_test=%d mini_batch=%d hidden=%d relu=%t\n",
		cfg.step, cfg.l2, cfg.momentum, cfg.trainSize, cfg.testSize, cfg.miniBatch, cfg.hidden, cfg.relu)

	sampler := distuv.Uniform{Min: -10, Max: 10, Src: src}
	sample := func() tensor.Vector {
		return tensor.VectorOf(float32(sampler.Rand()), float32(sampler.Rand()))
	}

	errs := make([]float64, cfg.testSize)
	for i := 1; i <= cfg.iterations; i++ {
		for j := 0; j < cfg.trainSize; j++ {
			x := sample()
			model.Update(x, quadratic(x))
		}
		for j := range errs {
			x := sample()
			errs[j] = float64(model.Predict(x).Sub(quadratic(x)).Norm())
		}
		mean, std := stat.PopMeanStdDev(errs, nil)
		fmt.Fprintf(stdout, "%d %g %g\n", i*cfg.trainSize, mean, std)
	}
	return nil
}
