package raster

import (
	"testing"
)

// grid is a Target that stores coverage merged by maximum.
type grid struct {
	w, h int
	a    []float64
}

func newGrid(w, h int) *grid { return &grid{w: w, h: h, a: make([]float64, w*h)} }

func (g *grid) Width() int  { return g.w }
func (g *grid) Height() int { return g.h }
func (g *grid) Cover(x, y int, c float64) {
	i := y*g.w + x
	if c > g.a[i] {
		g.a[i] = c
	}
}
func (g *grid) at(x, y int) float64 { return g.a[y*g.w+x] }

func TestStrokePolylineHorizontal(t *testing.T) {
	g := newGrid(20, 10)
	StrokePolyline(g, []Point{{X: 2, Y: 5.5}, {X: 18, Y: 5.5}}, Style{Width: 1, Cap: CapSquare})

	if c := g.at(10, 5); c < 0.9 {
		t.Errorf("centerline coverage = %v, want >= 0.9", c)
	}
	if c := g.at(10, 2); c != 0 {
		t.Errorf("coverage far from line = %v, want 0", c)
	}
	if c := g.at(1, 5); c <= 0 {
		t.Error("square cap should extend past the start point")
	}
}

func TestStrokePolylineClipsToTarget(t *testing.T) {
	g := newGrid(8, 8)
	// Entirely outside on the left, partly outside on the right: must not panic.
	StrokePolyline(g, []Point{{X: -50, Y: -50}, {X: -40, Y: -40}}, Style{Width: 3, Cap: CapRound})
	StrokePolyline(g, []Point{{X: 4, Y: 4}, {X: 40, Y: 4}}, Style{Width: 3, Cap: CapRound})
	if g.at(7, 4) == 0 {
		t.Error("expected coverage at the right edge")
	}
}

func TestStrokePolylineSinglePointAndEmpty(t *testing.T) {
	g := newGrid(8, 8)
	StrokePolyline(g, nil, Style{Width: 1})
	StrokePolyline(g, []Point{{X: 1, Y: 1}}, Style{Width: 0})
	for i, c := range g.a {
		if c != 0 {
			t.Fatalf("pixel %d touched by empty stroke: %v", i, c)
		}
	}
	StrokePolyline(g, []Point{{X: 4, Y: 4}}, Style{Width: 2, Cap: CapSquare})
	if g.at(3, 3) < 0.9 || g.at(4, 4) < 0.9 {
		t.Error("square dot should cover the pixels around its center")
	}
}

// Stroking a polyline in two overlapping pieces must give the same pixels as
// stroking it whole, because coverage is merged by maximum.
func TestStrokePolylineUnionIsIdempotent(t *testing.T) {
	pts := make([]Point, 40)
	for i := range pts {
		pts[i] = Point{X: float64(i) * 0.7, Y: 10 + 6*float64(i%7) - float64(i%3)}
	}
	st := Style{Width: 1, Cap: CapSquare}

	whole := newGrid(32, 64)
	StrokePolyline(whole, pts, st)

	parts := newGrid(32, 64)
	StrokePolyline(parts, pts[:25], st)
	StrokePolyline(parts, pts[22:], st)
	StrokePolyline(parts, pts[30:], st)

	for i := range whole.a {
		if whole.a[i] != parts.a[i] {
			t.Fatalf("pixel %d: whole=%v parts=%v", i, whole.a[i], parts.a[i])
		}
	}
}
