package svm

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Kernel is an inner product in some feature space.
type Kernel interface {
	Eval(u, v []float64) float64
}

// Linear is the ordinary dot product.
type Linear struct{}

func (Linear) Eval(u, v []float64) float64 {
	return floats.Dot(u, v)
}

func (Linear) String() string { return "linear" }

// RBF is the radial basis function kernel
//
//	k(u, v) = exp(-gamma |u - v|^2).
type RBF struct {
	Gamma float64
}

func (k RBF) Eval(u, v []float64) float64 {
	d := floats.Distance(u, v, 2)
	return math.Exp(-k.Gamma * d * d)
}

func (RBF) String() string { return "rbf" }

// ScaleGamma returns 1 / (dim * var(x)), where the variance is taken
// over every coordinate of every vector.
// It returns 1 if the data has no spread.
func ScaleGamma(x [][]float64) float64 {
	if len(x) == 0 || len(x[0]) == 0 {
		return 1
	}
	all := make([]float64, 0, len(x)*len(x[0]))
	for _, xi := range x {
		all = append(all, xi...)
	}
	v := stat.PopVariance(all, nil)
	if v <= 0 || math.IsNaN(v) {
		return 1
	}
	return 1 / (float64(len(x[0])) * v)
}

// Gram computes the kernel matrix of x with bias*bias added to every entry.
// The constant plays the role of an extra feature and lets
// TrainKernel learn an intercept.
func Gram(k Kernel, x [][]float64, bias float64) *mat.SymDense {
	n := len(x)
	q := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			q.SetSym(i, j, k.Eval(x[i], x[j])+bias*bias)
		}
	}
	return q
}
