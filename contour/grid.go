// Package contour evaluates a scalar score on a regular lattice.
// A Grid implements plotter.GridXYZ, so plotter.Contour and
// plotter.HeatMap draw it directly.
package contour

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// GridSize is the number of samples per axis used when drawing
// decision functions.
const GridSize = 30

// Levels are the scores at which decision functions are drawn:
// the negative margin, the boundary and the positive margin.
var Levels = []float64{-1, 0, 1}

// Scorer assigns a real-valued score to a point.
type Scorer interface {
	Decision(x []float64) float64
}

// BatchScorer scores many points in one call.
// Evaluate uses it when available; the result must equal
// calling Decision on each point.
type BatchScorer interface {
	Scorer
	DecisionBatch(xs [][]float64) []float64
}

// ScoreFunc adapts a function to the Scorer interface.
type ScoreFunc func(x []float64) float64

func (f ScoreFunc) Decision(x []float64) float64 {
	return f(x)
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	s := floats.Span(make([]float64, n), lo, hi)
	s[0], s[n-1] = lo, hi
	return s
}

// Grid holds scores sampled on a lattice.
// Scores[j][i] is the score at (XAxis[i], YAxis[j]).
type Grid struct {
	XAxis, YAxis []float64
	Scores       [][]float64
}

// Evaluate scores the n by n lattice spanning [x0, x1] x [y0, y1].
func Evaluate(s Scorer, x0, x1, y0, y1 float64, n int) *Grid {
	n = max(n, 0)
	g := &Grid{
		XAxis:  Linspace(x0, x1, n),
		YAxis:  Linspace(y0, y1, n),
		Scores: make([][]float64, n),
	}
	pts := make([][]float64, 0, n*n)
	for _, y := range g.YAxis {
		for _, x := range g.XAxis {
			pts = append(pts, []float64{x, y})
		}
	}
	var z []float64
	if b, ok := s.(BatchScorer); ok {
		z = b.DecisionBatch(pts)
	} else {
		z = make([]float64, len(pts))
		for k, p := range pts {
			z[k] = s.Decision(p)
		}
	}
	for j := range g.Scores {
		g.Scores[j] = z[j*n : (j+1)*n]
	}
	return g
}

// Dims, Z, X and Y implement gonum.org/v1/plot/plotter.GridXYZ.

func (g *Grid) Dims() (c, r int) {
	return len(g.XAxis), len(g.YAxis)
}

func (g *Grid) Z(c, r int) float64 {
	return g.Scores[r][c]
}

func (g *Grid) X(c int) float64 {
	return g.XAxis[c]
}

func (g *Grid) Y(r int) float64 {
	return g.YAxis[r]
}

// Range returns the smallest and largest score on the grid.
func (g *Grid) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range g.Scores {
		if len(row) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(row))
		hi = math.Max(hi, floats.Max(row))
	}
	return lo, hi
}
