// Package demo reproduces the figures used to explain support vector
// machines: a linear boundary fitted to a growing prefix of two blobs,
// and a kernel boundary fitted to concentric rings.
package demo

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"

	"github.com/jvlmdr/svmplot/contour"
	"github.com/jvlmdr/svmplot/dataset"
	"github.com/jvlmdr/svmplot/render"
	"github.com/jvlmdr/svmplot/svm"
)

const (
	// DefaultN is the number of points PlotSVM uses when n <= 0.
	DefaultN = 10
	// BlobsN is the size of the fixed dataset PlotSVM draws prefixes from.
	BlobsN = 200
)

// Window is the fixed view of PlotSVM: x in [-1, 4], y in [-1, 6].
// It does not depend on n, so figures for different n can be compared.
var Window = [4]float64{-1, 4, -1, 6}

// Blobs describes the fixed two-class dataset.
var Blobs = dataset.BlobsConfig{
	N:       BlobsN,
	Centers: [][]float64{{0.9762, 4.3038}, {2.0553, 0.8977}},
	Std:     0.6,
	Seed:    0,
}

// Circles describes the ring dataset used by PlotCircles.
var Circles = dataset.CirclesConfig{
	N:      100,
	Factor: 0.1,
	Noise:  0.1,
	Seed:   0,
}

// Result is everything a demo drew.
type Result struct {
	Plot       *plot.Plot
	Data       dataset.Labeled
	Classifier *svm.Classifier
	Grid       *contour.Grid
}

type options struct {
	surface *plot.Plot
	fit     svm.Options
	margin  int
	blobs   dataset.BlobsConfig
	circles dataset.CirclesConfig
}

// Option changes how a demo runs.
type Option func(*options)

// WithSurface draws on p instead of a new surface.
func WithSurface(p *plot.Plot) Option {
	return func(o *options) { o.surface = p }
}

// WithFit sets the training options.
// For PlotSVM the kernel is always linear.
func WithFit(fit svm.Options) Option {
	return func(o *options) { o.fit = fit }
}

// WithMargin shades the decision score with an n by n heat map.
func WithMargin(n int) Option {
	return func(o *options) { o.margin = n }
}

// WithBlobs replaces the dataset of PlotSVM.
func WithBlobs(cfg dataset.BlobsConfig) Option {
	return func(o *options) { o.blobs = cfg }
}

// WithCircles replaces the dataset of PlotCircles.
func WithCircles(cfg dataset.CirclesConfig) Option {
	return func(o *options) { o.circles = cfg }
}

func newOptions(opts []Option) *options {
	o := &options{blobs: Blobs, circles: Circles}
	for _, opt := range opts {
		opt(o)
	}
	if o.surface == nil {
		o.surface = render.NewSurface()
	}
	return o
}

// Dataset returns the fixed dataset PlotSVM takes its prefixes from.
func Dataset() (dataset.Labeled, error) {
	return dataset.Blobs(Blobs)
}

// PlotSVM fits a linear SVM to the first n points of the blobs dataset
// and draws the points, the boundary with its margins and the support
// vectors inside Window.
func PlotSVM(n int, opts ...Option) (*Result, error) {
	if n <= 0 {
		n = DefaultN
	}
	o := newOptions(opts)
	full, err := dataset.Blobs(o.blobs)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	// The prefix is clamped to the dataset.
	data := full.Prefix(n)
	n = data.Len()

	fit := o.fit
	fit.Kernel = svm.Linear{}
	clf, err := svm.Fit(data.X, data.Y, fit)
	if err != nil {
		return nil, fmt.Errorf("demo: fit %d points: %w", n, err)
	}

	p := o.surface
	p.Title.Text = fmt.Sprintf("N = %d", n)
	g, err := draw(p, clf, data, o.margin, Window)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("n", n).
		Ints("support", clf.SupportIndices()).
		Msg("demo: linear boundary")
	return &Result{Plot: p, Data: data, Classifier: clf, Grid: g}, nil
}

// PlotCircles fits an SVM with kernel k to the ring dataset.
// A nil kernel selects RBF with the scale heuristic.
// The view is the bounding box of the data.
func PlotCircles(k svm.Kernel, opts ...Option) (*Result, error) {
	if k == nil {
		k = svm.RBF{}
	}
	o := newOptions(opts)
	data, err := dataset.Circles(o.circles)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	fit := o.fit
	fit.Kernel = k
	clf, err := svm.Fit(data.X, data.Y, fit)
	if err != nil {
		return nil, fmt.Errorf("demo: fit circles: %w", err)
	}

	p := o.surface
	p.Title.Text = fmt.Sprintf("%v kernel", clf.Kernel())
	x0, x1, y0, y1 := data.Bounds()
	g, err := draw(p, clf, data, o.margin, [4]float64{x0, x1, y0, y1})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("kernel", fmt.Sprint(clf.Kernel())).
		Int("support", len(clf.SupportIndices())).
		Msg("demo: circles boundary")
	return &Result{Plot: p, Data: data, Classifier: clf, Grid: g}, nil
}

// draw adds the optional shading, the points, the level lines and the
// support vectors, in that order, keeping the view fixed to w.
func draw(p *plot.Plot, clf *svm.Classifier, data dataset.Labeled, margin int, w [4]float64) (*contour.Grid, error) {
	render.Limits(p, w[0], w[1], w[2], w[3])
	if margin > 0 {
		if _, err := render.Margin(clf, p, margin); err != nil {
			return nil, err
		}
	}
	if err := render.Scatter(p, data); err != nil {
		return nil, err
	}
	render.Limits(p, w[0], w[1], w[2], w[3])
	g, err := render.DecisionFunction(clf, p)
	if err != nil {
		return nil, err
	}
	if err := render.SupportVectors(p, clf.SupportVectors()); err != nil {
		return nil, err
	}
	render.Limits(p, w[0], w[1], w[2], w[3])
	return g, nil
}
