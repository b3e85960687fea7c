package svm

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const eps = 1e-9

// TerminateFunc decides after each epoch whether training stops.
// f is the primal objective and g the dual objective.
// For Train, w is the weight vector.
// For TrainKernel, w holds the scores of the training examples.
// a holds the dual variables, one per example.
type TerminateFunc func(epoch int, f, fPrev, g, gPrev float64, w, wPrev, a, aPrev []float64) (bool, error)

// Train computes the weight vector of a linear SVM.
// Each example x.At(i) has a label y[i].
// The vectors must all have the same dimension.
// The labels y[i] are assumed to be in {-1, 1}.
// Every epoch visits each example once, in an order drawn from rng,
// so an epoch that leaves the dual unchanged satisfies the optimality
// conditions.
// Returns the weights and the dual variables.
func Train(x Set, y []float64, cost []float64, termfunc TerminateFunc, rng *rand.Rand) ([]float64, []float64, error) {
	n := x.Len()
	if n == 0 {
		return nil, nil, ErrEmpty
	}
	if len(y) != n || len(cost) != n {
		return nil, nil, fmt.Errorf("%w: %d examples, %d labels, %d costs", ErrLength, n, len(y), len(cost))
	}
	var (
		a  = make([]float64, n)
		w  = make([]float64, x.Dim())
		lb = math.Inf(-1)
		ub = math.Inf(1)
	)

	for epoch := 0; ; epoch++ {
		wPrev := append([]float64(nil), w...)
		aPrev := append([]float64(nil), a...)
		ubPrev, lbPrev := ub, lb

		for _, i := range rng.Perm(n) {
			// Consider the dual objective
			//   f(a + t e[i]) = 1/2 h t^2 - g t + const.
			// where
			//   h = dot(x[i], x[i])
			//   g = 1 - y[i] dot(x[i], w)
			g := 1 - y[i]*floats.Dot(x.At(i), w)
			if math.Abs(g) <= eps {
				continue
			}
			h := floats.Dot(x.At(i), x.At(i))
			if h <= 0 {
				continue
			}
			t, ok := step(a, i, g/h, cost[i])
			if !ok {
				continue
			}
			floats.AddScaled(w, t*y[i], x.At(i))
		}

		lb = dual(w, a)
		ub = primal(w, x, y, cost)
		log.Debug().
			Int("epoch", epoch).
			Int("support", nonzero(a)).
			Int("n", n).
			Float64("primal", ub).
			Float64("dual", lb).
			Msg("svm: linear epoch")

		term, err := termfunc(epoch+1, ub, ubPrev, lb, lbPrev, w, wPrev, a, aPrev)
		if err != nil {
			return nil, nil, err
		}
		if term {
			return w, a, nil
		}
	}
}

// TrainKernel solves the same dual problem as Train
// with the inner products taken from the kernel matrix q.
// q.At(i, j) must equal k(x[i], x[j]).
// Returns the dual variables and the score of every training example,
//
//	f[i] = sum_j a[j] y[j] q[i][j].
func TrainKernel(q mat.Symmetric, y []float64, cost []float64, termfunc TerminateFunc, rng *rand.Rand) ([]float64, []float64, error) {
	n := q.SymmetricDim()
	if n == 0 {
		return nil, nil, ErrEmpty
	}
	if len(y) != n || len(cost) != n {
		return nil, nil, fmt.Errorf("%w: %d examples, %d labels, %d costs", ErrLength, n, len(y), len(cost))
	}
	var (
		a  = make([]float64, n)
		f  = make([]float64, n)
		lb = math.Inf(-1)
		ub = math.Inf(1)
	)

	for epoch := 0; ; epoch++ {
		fPrev := append([]float64(nil), f...)
		aPrev := append([]float64(nil), a...)
		ubPrev, lbPrev := ub, lb

		for _, i := range rng.Perm(n) {
			g := 1 - y[i]*f[i]
			if math.Abs(g) <= eps {
				continue
			}
			h := q.At(i, i)
			if h <= 0 {
				continue
			}
			t, ok := step(a, i, g/h, cost[i])
			if !ok {
				continue
			}
			for j := range f {
				f[j] += t * y[i] * q.At(i, j)
			}
		}

		// a' Q a = sum_i a[i] y[i] f[i]
		var quad float64
		for i := range a {
			quad += a[i] * y[i] * f[i]
		}
		lb = floats.Sum(a) - 0.5*quad
		ub = 0.5 * quad
		for i := range f {
			ub += cost[i] * math.Max(0, 1-y[i]*f[i])
		}
		log.Debug().
			Int("epoch", epoch).
			Int("support", nonzero(a)).
			Int("n", n).
			Float64("primal", ub).
			Float64("dual", lb).
			Msg("svm: kernel epoch")

		term, err := termfunc(epoch+1, ub, ubPrev, lb, lbPrev, f, fPrev, a, aPrev)
		if err != nil {
			return nil, nil, err
		}
		if term {
			return a, f, nil
		}
	}
}

// step moves a[i] by the unconstrained step t,
// clipped to the box 0 <= a[i] <= c.
// Returns the step actually taken
// and false if a[i] did not change.
func step(a []float64, i int, t, c float64) (float64, bool) {
	if t == 0 {
		return 0, false
	}
	if t < 0 {
		if tmp := a[i] + t; tmp > 0 {
			a[i] = tmp
			return t, true
		}
		if a[i] == 0 {
			return 0, false
		}
		// Choose t such that a[i] + t = 0.
		t = -a[i]
		a[i] = 0
		return t, true
	}
	if tmp := a[i] + t; tmp < c {
		a[i] = tmp
		return t, true
	}
	if a[i] == c {
		return 0, false
	}
	// Choose t such that a[i] + t = c.
	t = c - a[i]
	a[i] = c
	return t, true
}

func dual(w []float64, a []float64) float64 {
	return -0.5*floats.Dot(w, w) + floats.Sum(a)
}

func primal(w []float64, x Set, y []float64, c []float64) float64 {
	f := 0.5 * floats.Dot(w, w)
	for i := 0; i < x.Len(); i++ {
		f += c[i] * math.Max(0, 1-y[i]*floats.Dot(x.At(i), w))
	}
	return f
}

func nonzero(a []float64) int {
	var k int
	for _, ai := range a {
		if ai > 0 {
			k++
		}
	}
	return k
}
