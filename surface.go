package stripchart

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gogpu/stripchart/internal/raster"
)

// Point is a position in surface pixel space.
type Point struct {
	X, Y float64
}

// SurfaceState tracks whether a surface's pixels can be reused by an
// incremental redraw.
type SurfaceState int

const (
	// SurfaceStale means the pixels do not match any drawn window; the next
	// draw must be a full redraw.
	SurfaceStale SurfaceState = iota
	// SurfaceFresh means the pixels hold the trace of the last drawn window.
	SurfaceFresh
)

// String returns a readable name for the state.
func (s SurfaceState) String() string {
	if s == SurfaceFresh {
		return "fresh"
	}
	return "stale"
}

// Surface is the raster target of one channel: a premultiplied RGBA8 pixel
// buffer plus the bookkeeping needed to resume a trace incrementally.
//
// A surface holds a single trace color over transparency. Stroke coverage is
// merged by maximum, so overlapping segments of a trace never double-darken
// and redrawing a segment over itself is a no-op.
type Surface struct {
	width  int
	height int
	data   []uint8 // premultiplied RGBA, 4 bytes per pixel

	state     SurfaceState
	lastValue float64
	lastX     float64
	lastLen   int
	sinceFull int
}

// NewSurface creates a transparent, stale surface.
func NewSurface(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Surface{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the surface.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the height of the surface.
func (s *Surface) Height() int {
	return s.height
}

// Data returns the raw pixel data (premultiplied RGBA).
func (s *Surface) Data() []uint8 {
	return s.data
}

// State reports whether the pixels can be reused by an incremental draw.
func (s *Surface) State() SurfaceState { return s.state }

// LastValue returns the last sample value drawn.
func (s *Surface) LastValue() float64 { return s.lastValue }

// LastX returns the x position of the last sample drawn.
func (s *Surface) LastX() float64 { return s.lastX }

// LastLen returns the length of the last window drawn.
func (s *Surface) LastLen() int { return s.lastLen }

// Invalidate marks the surface stale without touching its pixels.
func (s *Surface) Invalidate() {
	s.state = SurfaceStale
}

// markDrawn records the end of the trace after a successful draw.
func (s *Surface) markDrawn(samples []float64, lastX float64, full bool) {
	s.state = SurfaceFresh
	s.lastLen = len(samples)
	s.lastX = lastX
	if len(samples) > 0 {
		s.lastValue = samples[len(samples)-1]
	}
	if full {
		s.sinceFull = 0
	} else {
		s.sinceFull++
	}
}

// Clear makes every pixel transparent and marks the surface stale.
func (s *Surface) Clear() {
	clear(s.data)
	s.state = SurfaceStale
}

// ClearRect makes the pixels in r transparent. r is clipped to the surface.
func (s *Surface) ClearRect(r image.Rectangle) {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	stride := s.width * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := s.data[y*stride : (y+1)*stride]
		clear(row[r.Min.X*4 : r.Max.X*4])
	}
}

// CopyRect copies the pixels of sr in src to the rectangle of the same size
// at dp in s. src may be s itself; overlapping regions copy correctly.
// Both rectangles are clipped to their surfaces.
func (s *Surface) CopyRect(src *Surface, sr image.Rectangle, dp image.Point) {
	sr = sr.Intersect(src.Bounds())
	dr := sr.Sub(sr.Min).Add(dp)
	clipped := dr.Intersect(s.Bounds())
	if clipped.Empty() {
		return
	}
	sr.Min = sr.Min.Add(clipped.Min.Sub(dr.Min))
	dr = clipped

	n := dr.Dx() * 4
	sStride := src.width * 4
	dStride := s.width * 4
	copyRow := func(dy int) {
		sy := sr.Min.Y + (dy - dr.Min.Y)
		si := sy*sStride + sr.Min.X*4
		di := dy*dStride + dr.Min.X*4
		copy(s.data[di:di+n], src.data[si:si+n])
	}

	// Walk rows bottom-up when shifting a surface down onto itself.
	if src == s && dr.Min.Y > sr.Min.Y {
		for y := dr.Max.Y - 1; y >= dr.Min.Y; y-- {
			copyRow(y)
		}
		return
	}
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		copyRow(y)
	}
}

// StrokePolyline strokes a polyline through pts with the given stroke.
func (s *Surface) StrokePolyline(pts []Point, st Stroke) {
	if len(pts) == 0 {
		return
	}
	rp := make([]raster.Point, len(pts))
	for i, p := range pts {
		rp[i] = raster.Point(p)
	}
	raster.StrokePolyline(&coverTarget{surface: s, color: st.Color}, rp, st.style())
}

// coverTarget adapts Surface to raster.Target for one stroke color.
type coverTarget struct {
	surface *Surface
	color   RGBA
}

func (t *coverTarget) Width() int  { return t.surface.width }
func (t *coverTarget) Height() int { return t.surface.height }

// Cover raises the pixel's alpha to the stroke coverage if it is higher.
func (t *coverTarget) Cover(x, y int, coverage float64) {
	a := uint8(clamp255(coverage*t.color.A*255 + 0.5))
	i := (y*t.surface.width + x) * 4
	d := t.surface.data
	if a == 0 || a <= d[i+3] {
		return
	}
	d[i+0], d[i+1], d[i+2] = t.color.premul(a)
	d[i+3] = a
}

// GetPixel returns the premultiplied color of a single pixel.
func (s *Surface) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return color.RGBA{}
	}
	i := (y*s.width + x) * 4
	return color.RGBA{R: s.data[i], G: s.data[i+1], B: s.data[i+2], A: s.data[i+3]}
}

// RGBA returns an *image.RGBA sharing the surface's pixel buffer.
// Writes through the image change the surface.
func (s *Surface) RGBA() *image.RGBA {
	return &image.RGBA{Pix: s.data, Stride: s.width * 4, Rect: s.Bounds()}
}

// ToImage returns a copy of the surface as an image.RGBA.
func (s *Surface) ToImage() *image.RGBA {
	img := image.NewRGBA(s.Bounds())
	copy(img.Pix, s.data)
	return img
}

// SavePNG saves the surface to a PNG file.
func (s *Surface) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, s.RGBA()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (s *Surface) At(x, y int) color.Color {
	return s.GetPixel(x, y)
}

// Bounds implements the image.Image interface.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// ColorModel implements the image.Image interface.
func (s *Surface) ColorModel() color.Model {
	return color.RGBAModel
}
