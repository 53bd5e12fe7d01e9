package stripchart

import (
	"math"
	"testing"
	"time"
)

// testLayout gives an exact 2 px shift per 5 sample step at 250 Hz:
// 1000 px over 10 s is 0.4 px per sample.
var testLayout = Layout{
	Width:         1000,
	StripHeight:   60,
	Window:        10 * time.Second,
	AmplitudeSpan: 2000,
}

// wave returns n samples of a deterministic waveform with steep slopes.
func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i)
		out[i] = 1500*math.Sin(2*math.Pi*x/97) + 300*math.Sin(2*math.Pi*x/13)
	}
	return out
}

// maxPixelDiff returns the largest per-channel difference between a and b
// over columns x >= fromX.
func maxPixelDiff(a, b *Surface, fromX int) (diff, atX, atY int) {
	for y := 0; y < a.Height(); y++ {
		for x := fromX; x < a.Width(); x++ {
			pa, pb := a.GetPixel(x, y), b.GetPixel(x, y)
			for _, d := range []int{
				int(pa.R) - int(pb.R), int(pa.G) - int(pb.G),
				int(pa.B) - int(pb.B), int(pa.A) - int(pb.A),
			} {
				if d < 0 {
					d = -d
				}
				if d > diff {
					diff, atX, atY = d, x, y
				}
			}
		}
	}
	return diff, atX, atY
}

func TestIncrementalMatchesFull(t *testing.T) {
	const (
		rate  = 250.0
		step  = 5
		ticks = 40
	)
	strokes := []struct {
		name   string
		stroke Stroke
	}{
		{"default", DefaultStroke()},
		{"wide red", DefaultStroke().WithWidth(2.5).WithColor(Red)},
		{"round", DefaultStroke().WithCap(LineCapRound).WithWidth(1.5)},
	}
	for _, tt := range strokes {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(1, testLayout, rate, WithStroke(tt.stroke))
			n := r.WindowLen()
			if n != 2500 {
				t.Fatalf("WindowLen() = %d, want 2500", n)
			}
			if shift := r.Mapper().PixelShift(step, rate); shift != 2 {
				t.Fatalf("PixelShift = %d, want 2", shift)
			}

			data := wave(n + step*ticks)
			inc := r.Surfaces()[0]
			if mode := r.DrawIncremental(inc, data[:n], step); mode != DrawModeFull {
				t.Fatalf("first draw mode = %v, want full", mode)
			}
			for k := 1; k <= ticks; k++ {
				if mode := r.DrawIncremental(inc, data[k*step:k*step+n], step); mode != DrawModeIncremental {
					t.Fatalf("tick %d mode = %v, want incremental", k, mode)
				}
			}

			full := NewSurface(testLayout.Width, testLayout.StripHeight)
			r.DrawFull(full, data[ticks*step:ticks*step+n])

			// Columns 0 and 1 may keep traces of samples left of the window.
			if d, x, y := maxPixelDiff(inc, full, 2); d > 1 {
				t.Errorf("incremental differs from full by %d at (%d,%d)", d, x, y)
			}
		})
	}
}

func TestDrawFull(t *testing.T) {
	r := NewRenderer(1, testLayout, 250)
	s := r.Surfaces()[0]
	if s.State() != SurfaceStale {
		t.Fatalf("new surface state = %v, want stale", s.State())
	}

	samples := make([]float64, r.WindowLen())
	samples[len(samples)-1] = 42
	r.DrawFull(s, samples)

	if s.State() != SurfaceFresh {
		t.Errorf("state after DrawFull = %v, want fresh", s.State())
	}
	if s.LastLen() != len(samples) || s.LastValue() != 42 {
		t.Errorf("bookkeeping = (%d, %v), want (%d, 42)", s.LastLen(), s.LastValue(), len(samples))
	}
	if want := r.Mapper().SampleX(len(samples)-1, 250); s.LastX() != want {
		t.Errorf("LastX() = %v, want %v", s.LastX(), want)
	}
	// Zero amplitude is the vertical center, on the edge between rows 29
	// and 30, so both rows are half covered.
	if a := s.GetPixel(500, 30).A; a < 100 {
		t.Errorf("baseline alpha = %d, want >= 100", a)
	}
	if a := s.GetPixel(500, 5).A; a != 0 {
		t.Errorf("alpha away from baseline = %d, want 0", a)
	}

	r.DrawFull(s, nil)
	for i, b := range s.Data() {
		if b != 0 {
			t.Fatalf("byte %d = %d after empty DrawFull, want 0", i, b)
		}
	}
	if s.LastLen() != 0 {
		t.Errorf("LastLen() after empty window = %d, want 0", s.LastLen())
	}
}

func TestDrawIncrementalFallbacks(t *testing.T) {
	const rate = 250.0
	n := int(testLayout.Window.Seconds() * rate)
	data := wave(2 * n)

	tests := []struct {
		name    string
		prepare func(r *Renderer, s *Surface)
		samples []float64
		step    int
		layout  Layout
	}{
		{
			name:    "stale surface",
			prepare: func(r *Renderer, s *Surface) {},
			samples: data[5 : 5+n],
			step:    5,
		},
		{
			name:    "short window",
			prepare: func(r *Renderer, s *Surface) { r.DrawFull(s, data[:n]) },
			samples: data[5:n],
			step:    5,
		},
		{
			name: "length changed",
			prepare: func(r *Renderer, s *Surface) {
				r.DrawFull(s, data[:n-5])
			},
			samples: data[5 : 5+n],
			step:    5,
		},
		{
			name:    "step exceeds window",
			prepare: func(r *Renderer, s *Surface) { r.DrawFull(s, data[:n]) },
			samples: data[n : 2*n],
			step:    n,
		},
		{
			name:    "negative step",
			prepare: func(r *Renderer, s *Surface) { r.DrawFull(s, data[:n]) },
			samples: data[:n],
			step:    -5,
		},
		{
			name:    "invalidated",
			prepare: func(r *Renderer, s *Surface) { r.DrawFull(s, data[:n]); r.Invalidate() },
			samples: data[5 : 5+n],
			step:    5,
		},
		{
			name: "narrow surface",
			layout: Layout{
				Width: 10, StripHeight: 10, Window: testLayout.Window, AmplitudeSpan: 2000,
			},
			prepare: func(r *Renderer, s *Surface) { r.DrawFull(s, data[:n]) },
			samples: data[n-20 : 2*n-20],
			step:    n - 20,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.layout
			if l.Width == 0 {
				l = testLayout
			}
			r := NewRenderer(1, l, rate)
			s := r.Surfaces()[0]
			tt.prepare(r, s)

			if mode := r.DrawIncremental(s, tt.samples, tt.step); mode != DrawModeFull {
				t.Errorf("mode = %v, want full", mode)
			}
			if s.State() != SurfaceFresh {
				t.Errorf("state after fallback = %v, want fresh", s.State())
			}
			if s.LastLen() != len(tt.samples) {
				t.Errorf("LastLen() = %d, want %d", s.LastLen(), len(tt.samples))
			}
		})
	}
}

func TestDrawIncrementalResync(t *testing.T) {
	r := NewRenderer(1, testLayout, 250, WithResyncEvery(3))
	s := r.Surfaces()[0]
	n := r.WindowLen()
	data := wave(n + 50)

	want := []DrawMode{
		DrawModeFull, DrawModeIncremental, DrawModeIncremental,
		DrawModeFull, DrawModeIncremental, DrawModeIncremental,
		DrawModeFull,
	}
	for k, w := range want {
		if got := r.DrawIncremental(s, data[k*5:k*5+n], 5); got != w {
			t.Errorf("frame %d mode = %v, want %v", k, got, w)
		}
	}
}

func TestDrawIncrementalFractionalShift(t *testing.T) {
	// 800 px over 10 s at 250 Hz: 1.6 px per 5 sample step, floored to 1.
	l := testLayout
	l.Width = 800
	r := NewRenderer(1, l, 250)
	s := r.Surfaces()[0]
	n := r.WindowLen()
	data := wave(n + 500)

	r.DrawFull(s, data[:n])
	for k := 1; k <= 100; k++ {
		if mode := r.DrawIncremental(s, data[k*5:k*5+n], 5); mode != DrawModeIncremental {
			t.Fatalf("tick %d mode = %v, want incremental", k, mode)
		}
	}
	// The trace is still present at the right edge after the drift.
	var covered bool
	for y := 0; y < s.Height(); y++ {
		if s.GetPixel(s.Width()-2, y).A > 0 {
			covered = true
			break
		}
	}
	if !covered {
		t.Error("no trace near the right edge after incremental draws")
	}
}

func TestRenderRecordsStats(t *testing.T) {
	r := NewRenderer(2, testLayout, 250)
	n := r.WindowLen()
	data := wave(n + 5)

	windows := [][]float64{data[:n], data[:n], data[:n]}
	r.Render(windows, 5)
	windows = [][]float64{data[5 : 5+n], data[5 : 5+n]}
	r.Render(windows, 5)

	st := r.Stats()
	if got := st.Count(DrawModeFull); got != 2 {
		t.Errorf("full draws = %d, want 2", got)
	}
	if got := st.Count(DrawModeIncremental); got != 2 {
		t.Errorf("incremental draws = %d, want 2", got)
	}
}

func TestRendererResize(t *testing.T) {
	r := NewRenderer(3, testLayout, 250)
	n := r.WindowLen()
	r.Render([][]float64{wave(n), wave(n), wave(n)}, 5)

	r.Resize(400, 30)
	for i, s := range r.Surfaces() {
		if s.Width() != 400 || s.Height() != 30 {
			t.Errorf("surface %d size = %dx%d, want 400x30", i, s.Width(), s.Height())
		}
		if s.State() != SurfaceStale {
			t.Errorf("surface %d state = %v, want stale", i, s.State())
		}
	}
	if got := r.Mapper().Layout().Window; got != testLayout.Window {
		t.Errorf("window after resize = %v, want %v", got, testLayout.Window)
	}
	if got := r.Mapper().TimeToX(10); got != 400 {
		t.Errorf("TimeToX(10) after resize = %v, want 400", got)
	}
}
