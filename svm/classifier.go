package svm

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrLabel is returned for class labels other than 0 and 1.
	ErrLabel = errors.New("svm: labels must be 0 or 1")
	// ErrOneClass is returned when the training labels contain a single class.
	ErrOneClass = errors.New("svm: training set contains a single class")
)

// Options configures Fit. Zero values select the defaults.
type Options struct {
	// Kernel defaults to Linear.
	// An RBF kernel with Gamma <= 0 uses ScaleGamma of the training set.
	Kernel Kernel
	// C is the cost of margin violations.
	// The default is large enough to give a hard margin on separable data.
	C float64
	// Bias is the constant feature that carries the intercept.
	Bias float64
	// MaxEpochs bounds the number of passes over the data.
	MaxEpochs int
	// Tol is the relative duality gap at which training stops.
	Tol float64
	// Seed drives the order in which examples are visited.
	Seed int64
}

const (
	DefaultC         = 1e10
	DefaultBias      = 1
	DefaultMaxEpochs = 10000
	DefaultTol       = 1e-6
)

func (o Options) withDefaults() Options {
	if o.Kernel == nil {
		o.Kernel = Linear{}
	}
	if o.C == 0 {
		o.C = DefaultC
	}
	if o.Bias == 0 {
		o.Bias = DefaultBias
	}
	if o.MaxEpochs <= 0 {
		o.MaxEpochs = DefaultMaxEpochs
	}
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}
	return o
}

// Classifier is a fitted two-class SVM.
// It is not modified after Fit returns.
type Classifier struct {
	kernel Kernel
	bias   float64
	// w is set for linear models only.
	// Its last element is the weight of the bias feature.
	w     []float64
	sv    [][]float64
	coef  []float64
	index []int
}

// Fit trains a classifier on the points x with labels in {0, 1}.
func Fit(x [][]float64, labels []int, opts Options) (*Classifier, error) {
	opts = opts.withDefaults()
	if _, err := Dimension(x); err != nil {
		return nil, err
	}
	if len(labels) != len(x) {
		return nil, fmt.Errorf("%w: %d points, %d labels", ErrLength, len(x), len(labels))
	}
	if opts.C < 0 || math.IsNaN(opts.C) {
		return nil, fmt.Errorf("svm: cost must be positive, got %g", opts.C)
	}
	y, err := signs(labels)
	if err != nil {
		return nil, err
	}
	cost := make([]float64, len(x))
	for i := range cost {
		cost[i] = opts.C
	}
	if k, ok := opts.Kernel.(RBF); ok && k.Gamma <= 0 {
		opts.Kernel = RBF{Gamma: ScaleGamma(x)}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	term := gapTerminate(opts.MaxEpochs, opts.Tol)

	clf := &Classifier{kernel: opts.Kernel, bias: opts.Bias}
	var a []float64
	if _, ok := opts.Kernel.(Linear); ok {
		clf.w, a, err = Train(Augment(x, opts.Bias), y, cost, term, rng)
	} else {
		a, _, err = TrainKernel(Gram(opts.Kernel, x, opts.Bias), y, cost, term, rng)
	}
	if err != nil {
		return nil, fmt.Errorf("svm: train: %w", err)
	}
	for i, ai := range a {
		if ai <= 0 {
			continue
		}
		clf.index = append(clf.index, i)
		clf.sv = append(clf.sv, append([]float64(nil), x[i]...))
		clf.coef = append(clf.coef, ai*y[i])
	}
	log.Debug().
		Str("kernel", fmt.Sprint(opts.Kernel)).
		Int("n", len(x)).
		Int("support", len(clf.index)).
		Msg("svm: fitted")
	return clf, nil
}

// gapTerminate stops when the relative duality gap falls below tol,
// when a full pass leaves the dual unchanged, or after maxEpochs.
func gapTerminate(maxEpochs int, tol float64) TerminateFunc {
	return func(epoch int, f, fPrev, g, gPrev float64, w, wPrev, a, aPrev []float64) (bool, error) {
		if f-g <= tol*math.Max(1, math.Abs(f)) {
			return true, nil
		}
		if epoch > 1 && g == gPrev {
			return true, nil
		}
		if epoch >= maxEpochs {
			log.Debug().Int("epoch", epoch).Float64("gap", f-g).Msg("svm: reached iteration limit")
			return true, nil
		}
		return false, nil
	}
}

func signs(labels []int) ([]float64, error) {
	y := make([]float64, len(labels))
	var pos, neg bool
	for i, l := range labels {
		switch l {
		case 0:
			y[i] = -1
			neg = true
		case 1:
			y[i] = 1
			pos = true
		default:
			return nil, fmt.Errorf("%w: label %d at index %d", ErrLabel, l, i)
		}
	}
	if !pos || !neg {
		return nil, ErrOneClass
	}
	return y, nil
}

// Decision returns the signed score of x.
// Positive scores predict class 1.
// The margins are the level sets at -1 and +1.
func (c *Classifier) Decision(x []float64) float64 {
	if c.w != nil {
		d := len(c.w) - 1
		return floats.Dot(c.w[:d], x) + c.w[d]*c.bias
	}
	var s float64
	for k, v := range c.sv {
		s += c.coef[k] * (c.kernel.Eval(v, x) + c.bias*c.bias)
	}
	return s
}

// DecisionBatch evaluates Decision at every point.
func (c *Classifier) DecisionBatch(xs [][]float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = c.Decision(x)
	}
	return out
}

// Predict returns 1 if the score of x is positive and 0 otherwise.
func (c *Classifier) Predict(x []float64) int {
	if c.Decision(x) > 0 {
		return 1
	}
	return 0
}

// SupportVectors returns copies of the training points with
// non-zero dual variables, in training order.
func (c *Classifier) SupportVectors() [][]float64 {
	out := make([][]float64, len(c.sv))
	for i, v := range c.sv {
		out[i] = append([]float64(nil), v...)
	}
	return out
}

// SupportIndices returns the positions of the support vectors
// in the training set, in increasing order.
func (c *Classifier) SupportIndices() []int {
	return append([]int(nil), c.index...)
}

// Weights returns the normal vector and intercept of a linear model.
// ok is false for other kernels.
func (c *Classifier) Weights() (w []float64, b float64, ok bool) {
	if c.w == nil {
		return nil, 0, false
	}
	d := len(c.w) - 1
	return append([]float64(nil), c.w[:d]...), c.w[d] * c.bias, true
}

// Kernel returns the kernel the classifier was trained with.
func (c *Classifier) Kernel() Kernel {
	return c.kernel
}
