package contour

// The tracer below checks that a sampled Grid reproduces level sets
// under the linear interpolation plotter.Contour draws with.

// Point is a location in the plane.
type Point struct{ X, Y float64 }

// Segment is the part of a level line inside one grid cell.
type Segment [2]Point

// Segments traces the level set {score = level} with marching squares.
// Crossings are placed by linear interpolation along cell edges,
// which is exact when the score is affine.
// Ambiguous cells are resolved with the average of their corners.
func (g *Grid) Segments(level float64) []Segment {
	nx, ny := g.Dims()
	var segs []Segment
	for j := 0; j+1 < ny; j++ {
		for i := 0; i+1 < nx; i++ {
			var (
				x0, x1 = g.XAxis[i], g.XAxis[i+1]
				y0, y1 = g.YAxis[j], g.YAxis[j+1]
				// Corners counter-clockwise from the bottom left.
				a = g.Scores[j][i]
				b = g.Scores[j][i+1]
				c = g.Scores[j+1][i+1]
				d = g.Scores[j+1][i]
			)
			var idx int
			if a > level {
				idx |= 1
			}
			if b > level {
				idx |= 2
			}
			if c > level {
				idx |= 4
			}
			if d > level {
				idx |= 8
			}
			if idx == 0 || idx == 15 {
				continue
			}

			// Edges always run from the lower to the higher index
			// so that neighbouring cells compute identical crossings.
			bottom := func() Point { return crossing(x0, y0, a, x1, y0, b, level) }
			right := func() Point { return crossing(x1, y0, b, x1, y1, c, level) }
			top := func() Point { return crossing(x0, y1, d, x1, y1, c, level) }
			left := func() Point { return crossing(x0, y0, a, x0, y1, d, level) }

			switch idx {
			case 5, 10:
				centre := (a+b+c+d)/4 > level
				if (idx == 5) == centre {
					// a and c are joined through the centre.
					segs = appendSegment(segs, bottom(), right())
					segs = appendSegment(segs, left(), top())
				} else {
					segs = appendSegment(segs, left(), bottom())
					segs = appendSegment(segs, right(), top())
				}
				continue
			}

			var ends []Point
			if idx&1 != idx>>1&1 {
				ends = append(ends, bottom())
			}
			if idx>>1&1 != idx>>2&1 {
				ends = append(ends, right())
			}
			if idx>>3&1 != idx>>2&1 {
				ends = append(ends, top())
			}
			if idx&1 != idx>>3&1 {
				ends = append(ends, left())
			}
			segs = appendSegment(segs, ends[0], ends[1])
		}
	}
	return segs
}

func appendSegment(segs []Segment, p, q Point) []Segment {
	if p == q {
		return segs
	}
	return append(segs, Segment{p, q})
}

// crossing returns the point between (x0, y0) and (x1, y1)
// where the linear interpolation of z0 and z1 equals level.
// z0 and z1 lie on opposite sides of level.
func crossing(x0, y0, z0, x1, y1, z1, level float64) Point {
	t := (level - z0) / (z1 - z0)
	return Point{X: x0 + t*(x1-x0), Y: y0 + t*(y1-y0)}
}
