// Package dataset generates small labelled point sets in the plane
// for experimenting with classifiers.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// ErrConfig is wrapped by every error caused by invalid parameters.
var ErrConfig = errors.New("dataset: invalid config")

// Labeled is a set of points with one class label per point.
// len(X) == len(Y) always holds.
type Labeled struct {
	X [][]float64
	Y []int
}

func (d Labeled) Len() int {
	return len(d.Y)
}

// Prefix returns a copy of the first n points.
// n is clamped to [0, Len()].
func (d Labeled) Prefix(n int) Labeled {
	n = max(0, min(n, d.Len()))
	out := Labeled{X: make([][]float64, n), Y: make([]int, n)}
	for i := 0; i < n; i++ {
		out.X[i] = append([]float64(nil), d.X[i]...)
	}
	copy(out.Y, d.Y[:n])
	return out
}

// Class returns the points labelled k.
func (d Labeled) Class(k int) [][]float64 {
	var out [][]float64
	for i, y := range d.Y {
		if y == k {
			out = append(out, d.X[i])
		}
	}
	return out
}

// Bounds returns the smallest box containing every point.
func (d Labeled) Bounds() (x0, x1, y0, y1 float64) {
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for _, p := range d.X {
		x0, x1 = math.Min(x0, p[0]), math.Max(x1, p[0])
		y0, y1 = math.Min(y0, p[1]), math.Max(y1, p[1])
	}
	return
}

// BlobsConfig describes isotropic Gaussian clusters.
type BlobsConfig struct {
	// N is the total number of points.
	N int
	// Centers fixes the cluster means.
	// If nil, NumCenters means are drawn uniformly from Box.
	Centers    [][]float64
	NumCenters int
	Box        [2]float64
	// Std is the standard deviation of every cluster.
	Std  float64
	Seed int64
}

// Blobs draws N points split as evenly as possible between the clusters,
// then shuffles them. Points of cluster k are labelled k.
func Blobs(cfg BlobsConfig) (Labeled, error) {
	if cfg.N <= 0 {
		return Labeled{}, fmt.Errorf("%w: blobs need N > 0, got %d", ErrConfig, cfg.N)
	}
	if cfg.Std < 0 {
		return Labeled{}, fmt.Errorf("%w: negative std %g", ErrConfig, cfg.Std)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	centers := cfg.Centers
	if centers == nil {
		k := cfg.NumCenters
		if k <= 0 {
			k = 2
		}
		box := cfg.Box
		if box == [2]float64{} {
			box = [2]float64{-10, 10}
		}
		centers = make([][]float64, k)
		for i := range centers {
			centers[i] = []float64{
				box[0] + (box[1]-box[0])*rng.Float64(),
				box[0] + (box[1]-box[0])*rng.Float64(),
			}
		}
	}
	if len(centers) == 0 {
		return Labeled{}, fmt.Errorf("%w: no centers", ErrConfig)
	}

	d := Labeled{X: make([][]float64, 0, cfg.N), Y: make([]int, 0, cfg.N)}
	for k, c := range centers {
		count := cfg.N / len(centers)
		if k < cfg.N%len(centers) {
			count++
		}
		for j := 0; j < count; j++ {
			p := make([]float64, len(c))
			for i := range p {
				p[i] = c[i] + cfg.Std*rng.NormFloat64()
			}
			d.X = append(d.X, p)
			d.Y = append(d.Y, k)
		}
	}
	shuffle(rng, d)
	return d, nil
}

// CirclesConfig describes two concentric rings.
type CirclesConfig struct {
	N int
	// Factor is the radius of the inner ring relative to the outer one.
	Factor float64
	// Noise is the standard deviation of Gaussian noise added to each point.
	Noise float64
	Seed  int64
}

// Circles draws N points on two rings centred on the origin.
// The outer ring has radius 1 and label 0; the inner ring has label 1.
func Circles(cfg CirclesConfig) (Labeled, error) {
	if cfg.N <= 0 {
		return Labeled{}, fmt.Errorf("%w: circles need N > 0, got %d", ErrConfig, cfg.N)
	}
	if cfg.Factor < 0 || cfg.Factor >= 1 {
		return Labeled{}, fmt.Errorf("%w: factor must be in [0, 1), got %g", ErrConfig, cfg.Factor)
	}
	if cfg.Noise < 0 {
		return Labeled{}, fmt.Errorf("%w: negative noise %g", ErrConfig, cfg.Noise)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	nOut := cfg.N / 2
	nIn := cfg.N - nOut
	d := Labeled{X: make([][]float64, 0, cfg.N), Y: make([]int, 0, cfg.N)}
	ring := func(n int, r float64, label int) {
		if n == 0 {
			return
		}
		// Angles in [0, 2pi) without repeating the endpoint.
		theta := make([]float64, n+1)
		floats.Span(theta, 0, 2*math.Pi)
		for _, t := range theta[:n] {
			d.X = append(d.X, []float64{r * math.Cos(t), r * math.Sin(t)})
			d.Y = append(d.Y, label)
		}
	}
	ring(nOut, 1, 0)
	ring(nIn, cfg.Factor, 1)
	shuffle(rng, d)
	for _, p := range d.X {
		p[0] += cfg.Noise * rng.NormFloat64()
		p[1] += cfg.Noise * rng.NormFloat64()
	}
	return d, nil
}

func shuffle(rng *rand.Rand, d Labeled) {
	rng.Shuffle(len(d.Y), func(i, j int) {
		d.X[i], d.X[j] = d.X[j], d.X[i]
		d.Y[i], d.Y[j] = d.Y[j], d.Y[i]
	})
}
