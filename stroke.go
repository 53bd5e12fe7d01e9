package stripchart

import "github.com/gogpu/stripchart/internal/raster"

// LineCap specifies the shape of trace segment ends.
type LineCap int

const (
	// LineCapButt ends segments flush with their sample points.
	LineCapButt LineCap = iota
	// LineCapRound ends segments with a half disc, giving round joins.
	LineCapRound
	// LineCapSquare extends segments by half the line width, giving square
	// joins. A tail drawn with square caps abuts shifted content without a
	// visible seam.
	LineCapSquare
)

// String returns the name used for the cap in configuration files.
func (c LineCap) String() string {
	switch c {
	case LineCapButt:
		return "butt"
	case LineCapRound:
		return "round"
	case LineCapSquare:
		return "square"
	default:
		return "unknown"
	}
}

// Stroke defines how a trace is drawn.
type Stroke struct {
	// Width is the line width in pixels. Default: 1.0
	Width float64

	// Cap is the shape of segment ends and joins. Default: LineCapSquare
	Cap LineCap

	// Color is the trace color. Default: Black
	Color RGBA
}

// DefaultStroke returns a solid 1-pixel black stroke with square caps.
func DefaultStroke() Stroke {
	return Stroke{
		Width: 1.0,
		Cap:   LineCapSquare,
		Color: Black,
	}
}

// WithWidth returns a copy of the Stroke with the given width.
func (s Stroke) WithWidth(w float64) Stroke {
	s.Width = w
	return s
}

// WithCap returns a copy of the Stroke with the given cap style.
func (s Stroke) WithCap(lineCap LineCap) Stroke {
	s.Cap = lineCap
	return s
}

// WithColor returns a copy of the Stroke with the given color.
func (s Stroke) WithColor(c RGBA) Stroke {
	s.Color = c
	return s
}

// style converts the stroke geometry for the rasterizer.
func (s Stroke) style() raster.Style {
	st := raster.Style{Width: s.Width, Cap: raster.CapSquare}
	switch s.Cap {
	case LineCapButt:
		st.Cap = raster.CapButt
	case LineCapRound:
		st.Cap = raster.CapRound
	}
	return st
}
