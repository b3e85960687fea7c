package svm

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when there are no examples to train on.
	ErrEmpty = errors.New("svm: empty training set")
	// ErrLength is returned when examples, labels or costs disagree in length
	// or when vectors of different dimension are mixed.
	ErrLength = errors.New("svm: length mismatch")
)

// Set is a collection of vectors of equal dimension.
type Set interface {
	Len() int
	Dim() int
	At(int) []float64
}

// Slice is a Set held in memory.
type Slice [][]float64

func (set Slice) Len() int {
	return len(set)
}

// Dim returns the dimension of the first vector, or 0 for an empty set.
func (set Slice) Dim() int {
	if len(set) == 0 {
		return 0
	}
	return len(set[0])
}

func (set Slice) At(i int) []float64 {
	return set[i]
}

// Dimension returns the dimension of
// the vectors in a set of examples.
// Returns an error if vectors of different dimension are found
// or there are no vectors.
func Dimension(x [][]float64) (int, error) {
	if len(x) == 0 {
		return 0, ErrEmpty
	}
	n := len(x[0])
	for i, xi := range x {
		if n != len(xi) {
			return 0, fmt.Errorf("%w: vector %d has dim %d, want %d", ErrLength, i, len(xi), n)
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: zero-dimensional vectors", ErrLength)
	}
	return n, nil
}

// Augment appends a constant feature to every vector.
// A linear SVM trained on the result learns an intercept
// as the weight of the extra feature.
func Augment(x [][]float64, bias float64) Slice {
	out := make(Slice, len(x))
	for i, xi := range x {
		v := make([]float64, len(xi)+1)
		copy(v, xi)
		v[len(xi)] = bias
		out[i] = v
	}
	return out
}
