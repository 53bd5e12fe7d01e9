package stripchart

import (
	"image"
	"math"
	"time"
)

// minOverlap is the minimum number of samples redrawn before the new tail,
// so the tail joins the shifted trace with a full segment.
const minOverlap = 2

// DrawMode reports how a window was drawn.
type DrawMode int

const (
	// DrawModeFull cleared the surface and stroked the whole window.
	DrawModeFull DrawMode = iota
	// DrawModeIncremental shifted the existing pixels and stroked only the tail.
	DrawModeIncremental
)

// String returns the mode name.
func (m DrawMode) String() string {
	if m == DrawModeIncremental {
		return "incremental"
	}
	return "full"
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithStroke sets the trace stroke. Default: DefaultStroke().
func WithStroke(st Stroke) RendererOption {
	return func(r *Renderer) {
		r.stroke = st
	}
}

// WithResyncEvery forces a full redraw every n frames to discard the drift
// accumulated by flooring pixel shifts. Zero disables it (the default).
func WithResyncEvery(n int) RendererOption {
	return func(r *Renderer) {
		r.resyncEvery = max(n, 0)
	}
}

// WithStats makes the renderer record into st instead of its own Stats.
func WithStats(st *Stats) RendererOption {
	return func(r *Renderer) {
		if st != nil {
			r.stats = st
		}
	}
}

// Renderer draws channel windows into one Surface per channel. It redraws
// a surface in full when it has to and otherwise shifts the old trace left
// and strokes only the samples that arrived since the previous frame.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	mapper      *Mapper
	rate        float64
	windowLen   int
	stroke      Stroke
	resyncEvery int
	surfaces    []*Surface
	stats       *Stats
	pts         []Point
}

// NewRenderer creates a renderer with one stale surface of
// layout.Width × layout.StripHeight per channel.
func NewRenderer(channels int, layout Layout, rate float64, opts ...RendererOption) *Renderer {
	r := &Renderer{
		rate:   rate,
		stroke: DefaultStroke(),
		stats:  &Stats{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.surfaces = make([]*Surface, max(channels, 0))
	r.setLayout(layout)
	return r
}

func (r *Renderer) setLayout(l Layout) {
	r.mapper = NewMapper(l)
	r.windowLen = int(math.Round(l.Window.Seconds() * r.rate))
	for i := range r.surfaces {
		r.surfaces[i] = NewSurface(l.Width, l.StripHeight)
	}
}

// Mapper returns the coordinate mapper.
func (r *Renderer) Mapper() *Mapper { return r.mapper }

// Surfaces returns the per-channel surfaces.
func (r *Renderer) Surfaces() []*Surface { return r.surfaces }

// Stats returns the render statistics.
func (r *Renderer) Stats() *Stats { return r.stats }

// WindowLen returns the window length in samples the renderer expects.
func (r *Renderer) WindowLen() int { return r.windowLen }

// Render draws windows[i] into surface i and records the draw time.
// Windows beyond the number of surfaces are ignored. Render has the
// WindowFunc signature so it can be passed to Scheduler.Start directly.
func (r *Renderer) Render(windows [][]float64, step int) {
	for i, w := range windows {
		if i >= len(r.surfaces) {
			break
		}
		start := time.Now()
		mode := r.DrawIncremental(r.surfaces[i], w, step)
		r.stats.Record(mode, time.Since(start))
	}
}

// Invalidate marks every surface stale so the next frame is a full redraw.
func (r *Renderer) Invalidate() {
	for _, s := range r.surfaces {
		s.Invalidate()
	}
}

// Resize rebuilds the mapper and replaces the surfaces with stale ones of
// the new size. The window duration and amplitude span are kept.
func (r *Renderer) Resize(width, stripHeight int) {
	l := r.mapper.Layout()
	l.Width = width
	l.StripHeight = stripHeight
	r.setLayout(l)
}

// DrawFull clears s and strokes the whole window. An empty window leaves
// the surface cleared.
func (r *Renderer) DrawFull(s *Surface, samples []float64) {
	s.Clear()
	lastX := 0.0
	if len(samples) > 0 {
		r.strokeFrom(s, samples, 0)
		lastX = r.mapper.SampleX(len(samples)-1, r.rate)
	}
	s.markDrawn(samples, lastX, true)
}

// DrawIncremental advances the trace on s by step samples. It shifts the
// pixels left by the whole-pixel distance of step, clears the exposed strip
// on the right and strokes the tail of the window starting a few samples
// before the new data. When the surface cannot be reused it falls back to
// DrawFull. The returned mode says which path was taken.
func (r *Renderer) DrawIncremental(s *Surface, samples []float64, step int) DrawMode {
	if reason := r.fullRedrawReason(s, samples, step); reason != "" {
		Logger().Debug("stripchart: full redraw", "reason", reason,
			"len", len(samples), "step", step)
		r.DrawFull(s, samples)
		return DrawModeFull
	}

	w, h := s.Width(), s.Height()
	if shift := r.mapper.PixelShift(step, r.rate); shift > 0 {
		s.CopyRect(s, image.Rect(shift, 0, w, h), image.Point{})
		s.ClearRect(image.Rect(w-shift, 0, w, h))
	}
	r.strokeFrom(s, samples, len(samples)-step-r.overlap())
	s.markDrawn(samples, r.mapper.SampleX(len(samples)-1, r.rate), false)
	return DrawModeIncremental
}

// fullRedrawReason returns why s needs a full redraw, or "" if the
// incremental path is valid.
func (r *Renderer) fullRedrawReason(s *Surface, samples []float64, step int) string {
	switch {
	case s.State() != SurfaceFresh:
		return "stale surface"
	case len(samples) != r.windowLen:
		return "short window"
	case len(samples) != s.LastLen():
		return "window length changed"
	case step < 0:
		return "negative step"
	case r.resyncEvery > 0 && s.sinceFull+1 >= r.resyncEvery:
		return "resync"
	case r.mapper.PixelShift(step, r.rate) >= s.Width():
		return "shift exceeds surface"
	case len(samples)-step-r.overlap() < 0:
		return "step exceeds window"
	}
	return ""
}

// overlap returns how many samples before the new tail are redrawn. Every
// segment whose stroke reaches into the cleared strip must be redrawn,
// so the overlap grows as samples get denser than the stroke is wide.
func (r *Renderer) overlap() int {
	n := minOverlap
	pxPerSample := r.mapper.SampleX(1, r.rate) - r.mapper.SampleX(0, r.rate)
	if pxPerSample > 0 {
		n = max(n, int(math.Ceil(r.stroke.style().Reach()/pxPerSample))+1)
	}
	return n
}

// strokeFrom strokes samples[from:] as one polyline.
func (r *Renderer) strokeFrom(s *Surface, samples []float64, from int) {
	pts := r.pts[:0]
	for i := from; i < len(samples); i++ {
		pts = append(pts, Point{
			X: r.mapper.SampleX(i, r.rate),
			Y: r.mapper.AmpToY(samples[i]),
		})
	}
	r.pts = pts
	s.StrokePolyline(pts, r.stroke)
}
