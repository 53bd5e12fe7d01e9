package raster

import "math"

// Target receives coverage for pixels touched by a stroke.
// Implementations merge coverage by maximum with what is already there.
type Target interface {
	Width() int
	Height() int
	Cover(x, y int, coverage float64)
}

// Style is the geometry of a stroke.
type Style struct {
	Width float64
	Cap   Cap
}

// Reach returns how far in pixels a stroke with this style can mark pixels
// beyond its centerline endpoints.
func (s Style) Reach() float64 {
	return s.Width/2*math.Sqrt2 + AntialiasWidth
}

// StrokePolyline strokes the polyline through pts onto t.
// A single point is drawn as a dot shaped by the cap style.
func StrokePolyline(t Target, pts []Point, st Style) {
	if len(pts) == 0 || !(st.Width > 0) {
		return
	}
	if len(pts) == 1 {
		strokeSegment(t, pts[0], pts[0], st)
		return
	}
	for i := 1; i < len(pts); i++ {
		strokeSegment(t, pts[i-1], pts[i], st)
	}
}

func strokeSegment(t Target, a, b Point, st Style) {
	hw := st.Width / 2
	reach := st.Reach()

	x0 := int(math.Floor(math.Min(a.X, b.X) - reach))
	x1 := int(math.Ceil(math.Max(a.X, b.X) + reach))
	y0 := int(math.Floor(math.Min(a.Y, b.Y) - reach))
	y1 := int(math.Ceil(math.Max(a.Y, b.Y) + reach))
	x0, x1 = clampSpan(x0, x1, t.Width())
	y0, y1 = clampSpan(y0, y1, t.Height())

	for y := y0; y < y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x < x1; x++ {
			c := Coverage(SegmentSDF(float64(x)+0.5, py, a, b, hw, st.Cap))
			if c > 0 {
				t.Cover(x, y, c)
			}
		}
	}
}

// clampSpan clips [lo, hi) to [0, n).
func clampSpan(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
