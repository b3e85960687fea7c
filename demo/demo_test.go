package demo

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/jvlmdr/svmplot/contour"
	"github.com/jvlmdr/svmplot/render"
	"github.com/jvlmdr/svmplot/svm"
)

func TestPlotSVMPrefix(t *testing.T) {
	full, err := Dataset()
	require.NoError(t, err)
	require.Equal(t, BlobsN, full.Len())

	for _, n := range []int{10, 37, BlobsN} {
		res, err := PlotSVM(n)
		require.NoError(t, err)
		assert.Equal(t, full.X[:n], res.Data.X, "n=%d", n)
		assert.Equal(t, full.Y[:n], res.Data.Y, "n=%d", n)
		for _, i := range res.Classifier.SupportIndices() {
			assert.Less(t, i, n)
		}
	}
}

func TestPlotSVMDefaultN(t *testing.T) {
	res, err := PlotSVM(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultN, res.Data.Len())
	assert.Equal(t, "N = 10", res.Plot.Title.Text)
}

func TestPlotSVMSupportVectorsChangeWithN(t *testing.T) {
	small, err := PlotSVM(10)
	require.NoError(t, err)
	large, err := PlotSVM(BlobsN)
	require.NoError(t, err)

	require.NotEmpty(t, small.Classifier.SupportIndices())
	require.NotEmpty(t, large.Classifier.SupportIndices())
	assert.NotEqual(t, small.Classifier.SupportIndices(), large.Classifier.SupportIndices())
}

func TestPlotSVMMaxMargin(t *testing.T) {
	for _, n := range []int{DefaultN, BlobsN} {
		res, err := PlotSVM(n)
		require.NoError(t, err)
		clf := res.Classifier

		margins := make([]float64, res.Data.Len())
		for i, x := range res.Data.X {
			margins[i] = clf.Decision(x)
			if res.Data.Y[i] == 0 {
				margins[i] = -margins[i]
			}
			assert.GreaterOrEqual(t, margins[i], 1-1e-3, "n=%d: point %d inside the margin", n, i)
			assert.Equal(t, res.Data.Y[i], clf.Predict(x), "n=%d: point %d misclassified", n, i)
		}

		classes := make(map[int]bool)
		for _, i := range clf.SupportIndices() {
			assert.InDelta(t, 1, margins[i], 1e-3, "n=%d: support vector %d off the margin", n, i)
			classes[res.Data.Y[i]] = true
		}
		assert.Len(t, classes, 2, "n=%d: support vectors from one class", n)
	}
}

func TestPlotSVMClampsN(t *testing.T) {
	cfg := Blobs
	cfg.N = 50
	res, err := PlotSVM(500, WithBlobs(cfg))
	require.NoError(t, err)
	assert.Equal(t, 50, res.Data.Len())
	assert.Equal(t, "N = 50", res.Plot.Title.Text)
}

func sameColor(a, b color.Color) bool {
	r1, g1, b1, _ := a.RGBA()
	r2, g2, b2, _ := b.RGBA()
	near := func(u, v uint32) bool {
		if u > v {
			u, v = v, u
		}
		return v-u <= 0x300
	}
	return near(r1, r2) && near(g1, g2) && near(b1, b2)
}

func TestPlotSVMPointsAboveMargin(t *testing.T) {
	res, err := PlotSVM(DefaultN, WithMargin(40))
	require.NoError(t, err)
	p := res.Plot

	c := vgimg.New(12*vg.Centimeter, 12*vg.Centimeter)
	dc := vgdraw.New(c)
	p.Draw(dc)
	da := p.DataCanvas(dc)
	trX, trY := p.Transforms(&da)
	img := c.Image()
	height := float64(img.Bounds().Dy())

	sv := make(map[int]bool)
	for _, i := range res.Classifier.SupportIndices() {
		sv[i] = true
	}
	var visible, total int
	for i, x := range res.Data.X {
		if sv[i] || x[0] < Window[0] || x[0] > Window[1] || x[1] < Window[2] || x[1] > Window[3] {
			continue
		}
		total++
		px := int(trX(x[0]).Dots(c.DPI()))
		py := int(height - trY(x[1]).Dots(c.DPI()))
		if sameColor(img.At(px, py), render.ClassColor(res.Data.Y[i])) {
			visible++
		}
	}
	require.Positive(t, total)
	// Shading drawn over a point would tint its centre.
	assert.Greater(t, 2*visible, total, "%d of %d points visible", visible, total)
}

func TestPlotSVMFixedWindow(t *testing.T) {
	for _, n := range []int{10, BlobsN} {
		res, err := PlotSVM(n, WithMargin(40))
		require.NoError(t, err)

		x0, x1, y0, y1, err := render.Extents(res.Plot)
		require.NoError(t, err)
		assert.Equal(t, Window, [4]float64{x0, x1, y0, y1})

		g := res.Grid
		require.Len(t, g.XAxis, contour.GridSize)
		require.Len(t, g.YAxis, contour.GridSize)
		assert.Equal(t, Window[0], g.XAxis[0])
		assert.Equal(t, Window[1], g.XAxis[contour.GridSize-1])
		assert.Equal(t, Window[2], g.YAxis[0])
		assert.Equal(t, Window[3], g.YAxis[contour.GridSize-1])
	}
}

func TestPlotSVMDeterministic(t *testing.T) {
	a, err := PlotSVM(50)
	require.NoError(t, err)
	b, err := PlotSVM(50)
	require.NoError(t, err)
	assert.Equal(t, a.Classifier.SupportIndices(), b.Classifier.SupportIndices())
	assert.Equal(t, a.Grid, b.Grid)
}

func TestPlotSVMSurface(t *testing.T) {
	p := plot.New()
	res, err := PlotSVM(20, WithSurface(p))
	require.NoError(t, err)
	assert.Same(t, p, res.Plot)

	res, err = PlotSVM(20)
	require.NoError(t, err)
	assert.Same(t, render.Active(), res.Plot)
}

func TestPlotCircles(t *testing.T) {
	res, err := PlotCircles(nil)
	require.NoError(t, err)
	assert.IsType(t, svm.RBF{}, res.Classifier.Kernel())

	var correct int
	for i, x := range res.Data.X {
		if res.Classifier.Predict(x) == res.Data.Y[i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, float64(correct)/float64(res.Data.Len()), 0.95)

	x0, x1, y0, y1 := res.Data.Bounds()
	assert.Equal(t, x0, res.Grid.XAxis[0])
	assert.Equal(t, x1, res.Grid.XAxis[len(res.Grid.XAxis)-1])
	assert.Equal(t, y0, res.Grid.YAxis[0])
	assert.Equal(t, y1, res.Grid.YAxis[len(res.Grid.YAxis)-1])
}

func TestPlotCirclesLinear(t *testing.T) {
	res, err := PlotCircles(svm.Linear{}, WithFit(svm.Options{C: 1, MaxEpochs: 50}))
	require.NoError(t, err)
	_, _, ok := res.Classifier.Weights()
	assert.True(t, ok)
	assert.Equal(t, "linear kernel", res.Plot.Title.Text)
}
