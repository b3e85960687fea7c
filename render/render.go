// Package render draws classifiers and labelled points with gonum/plot.
//
// A *plot.Plot plays the role of a drawing surface. Functions that take a
// nil surface draw on the active one, which is created on first use and
// replaced by NewSurface or SetActive. Drawing accumulates: calling a
// function twice adds its plotters twice.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jvlmdr/svmplot/contour"
	"github.com/jvlmdr/svmplot/dataset"
)

// ErrNoExtents is returned when a surface has no finite data range yet.
var ErrNoExtents = errors.New("render: surface has no extents")

var (
	mu     sync.Mutex
	active *plot.Plot
)

// Active returns the surface that nil arguments refer to.
func Active() *plot.Plot {
	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		active = plot.New()
	}
	return active
}

// SetActive makes p the active surface.
func SetActive(p *plot.Plot) {
	mu.Lock()
	defer mu.Unlock()
	active = p
}

// NewSurface starts an empty surface and makes it active.
func NewSurface() *plot.Plot {
	p := plot.New()
	SetActive(p)
	return p
}

func surface(p *plot.Plot) *plot.Plot {
	if p == nil {
		return Active()
	}
	return p
}

// Extents returns the current data range of the surface.
func Extents(p *plot.Plot) (x0, x1, y0, y1 float64, err error) {
	p = surface(p)
	x0, x1, y0, y1 = p.X.Min, p.X.Max, p.Y.Min, p.Y.Max
	for _, v := range []float64{x0, x1, y0, y1} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, 0, 0, 0, ErrNoExtents
		}
	}
	if x0 > x1 || y0 > y1 {
		return 0, 0, 0, 0, ErrNoExtents
	}
	return x0, x1, y0, y1, nil
}

// Limits fixes the data range of the surface.
// Plotters added later may widen it again.
func Limits(p *plot.Plot, x0, x1, y0, y1 float64) {
	p = surface(p)
	p.X.Min, p.X.Max = x0, x1
	p.Y.Min, p.Y.Max = y0, y1
}

var (
	// ContourColor is used for every level line.
	ContourColor color.Color = color.NRGBA{A: 128}
	// ContourWidth is the width of level lines.
	ContourWidth = vg.Points(1)
	dashes       = []vg.Length{vg.Points(4), vg.Points(3)}
)

// LevelStyle returns the line style for a decision level:
// solid on the boundary and dashed on the margins.
func LevelStyle(level float64) draw.LineStyle {
	ls := draw.LineStyle{Color: ContourColor, Width: ContourWidth}
	if level != 0 {
		ls.Dashes = dashes
	}
	return ls
}

// DecisionFunction draws the level lines of s at contour.Levels over the
// current extents of p, sampled on a contour.GridSize lattice.
// It returns the sampled grid.
// Panics raised by s are not recovered.
func DecisionFunction(s contour.Scorer, p *plot.Plot) (*contour.Grid, error) {
	p = surface(p)
	x0, x1, y0, y1, err := Extents(p)
	if err != nil {
		return nil, err
	}
	g := contour.Evaluate(s, x0, x1, y0, y1, contour.GridSize)
	p.Add(levelLines(g))
	return g, nil
}

// levelLines traces g at contour.Levels, one LevelStyle per level.
func levelLines(g *contour.Grid) *plotter.Contour {
	levels := append([]float64(nil), contour.Levels...)
	styles := make([]draw.LineStyle, len(levels))
	for i, level := range levels {
		styles[i] = LevelStyle(level)
	}
	// Without a palette every line takes the colour of its style.
	return &plotter.Contour{
		GridXYZ:    g,
		Levels:     levels,
		LineStyles: styles,
		Min:        levels[0],
		Max:        levels[len(levels)-1],
	}
}

// Margin shades the score of s over the current extents of p with an
// n by n heat map. Call it before DecisionFunction so that the level
// lines are drawn on top.
func Margin(s contour.Scorer, p *plot.Plot, n int) (*contour.Grid, error) {
	p = surface(p)
	x0, x1, y0, y1, err := Extents(p)
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, fmt.Errorf("render: heat map needs at least 2 samples per axis, got %d", n)
	}
	g := contour.Evaluate(s, x0, x1, y0, y1, n)
	h := plotter.NewHeatMap(g, palette.Heat(16, 0.35))
	// Centre the palette on the boundary.
	lo, hi := g.Range()
	m := math.Max(math.Abs(lo), math.Abs(hi))
	if m > 0 && !math.IsInf(m, 0) && !math.IsNaN(m) {
		h.Min, h.Max = -m, m
	}
	p.Add(h)
	return g, nil
}

// ClassColor returns the colour used for points of class k.
func ClassColor(k int) color.Color {
	return plotutil.Color(k)
}

// Scatter draws the points of d coloured by class.
func Scatter(p *plot.Plot, d dataset.Labeled) error {
	p = surface(p)
	s, err := plotter.NewScatter(xys(d.X))
	if err != nil {
		return fmt.Errorf("render: scatter: %w", err)
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  ClassColor(d.Y[i]),
			Radius: vg.Points(3),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(s)
	return nil
}

// SupportVectors circles the given points.
func SupportVectors(p *plot.Plot, sv [][]float64) error {
	p = surface(p)
	if len(sv) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(xys(sv))
	if err != nil {
		return fmt.Errorf("render: support vectors: %w", err)
	}
	s.GlyphStyle = draw.GlyphStyle{
		Color:  color.Black,
		Radius: vg.Points(7),
		Shape:  draw.RingGlyph{},
	}
	p.Add(s)
	return nil
}

// Save writes the surface to a file.
// The format follows the extension: eps, jpg, pdf, png, svg, tex or tif.
func Save(p *plot.Plot, path string, w, h vg.Length) error {
	if err := surface(p).Save(w, h, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

// Write encodes the surface in the given format to w.
func Write(p *plot.Plot, w io.Writer, format string, width, height vg.Length) error {
	wt, err := surface(p).WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("render: %s writer: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("render: write %s: %w", format, err)
	}
	return nil
}

func xys(pts [][]float64) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i].X, out[i].Y = p[0], p[1]
	}
	return out
}
