// Package raster computes anti-aliased coverage for stroked polylines.
//
// A polyline stroke is the union of its segments, each a box (butt or
// square caps) or a capsule (round caps) of the stroke width. Coverage for a
// pixel is derived from the signed distance between the pixel center and the
// segment shape and handed to a Target, which merges it by maximum. Because
// max is idempotent, redrawing part of a polyline over itself leaves the
// pixels unchanged, which is what lets a strip chart redraw only its tail.
package raster

import "math"

// AntialiasWidth is the half width in pixels of the smoothstep transition
// between full and zero coverage.
const AntialiasWidth = 0.7

// Coverage converts a signed distance (negative inside) to a coverage value
// in [0, 1] using a Hermite smoothstep.
//
// sdf <= -AntialiasWidth => 1.0
// sdf >= +AntialiasWidth => 0.0
func Coverage(sdf float64) float64 {
	if sdf >= AntialiasWidth {
		return 0
	}
	if sdf <= -AntialiasWidth {
		return 1
	}
	t := (sdf + AntialiasWidth) / (2 * AntialiasWidth)
	return 1 - (t * t * (3 - 2*t))
}

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// Cap is the shape of segment ends.
type Cap int

const (
	// CapButt ends a segment flush with its endpoint.
	CapButt Cap = iota
	// CapRound ends a segment with a half disc.
	CapRound
	// CapSquare extends a segment by half the stroke width.
	CapSquare
)

// SegmentSDF returns the signed distance from (px, py) to the segment a-b
// stroked with half width hw.
func SegmentSDF(px, py float64, a, b Point, hw float64, c Cap) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)

	if c == CapRound {
		return distToSegment(px, py, a, dx, dy, length) - hw
	}

	ux, uy := 1.0, 0.0
	if length > 1e-12 {
		ux, uy = dx/length, dy/length
	}
	rx := px - (a.X+b.X)/2
	ry := py - (a.Y+b.Y)/2
	u := math.Abs(rx*ux + ry*uy)
	v := math.Abs(ry*ux - rx*uy)

	ext := 0.0
	if c == CapSquare {
		ext = hw
	}
	return sdBox(u, v, length/2+ext, hw)
}

// sdBox is the signed distance to an axis-aligned box of half extents
// (hx, hy) centered at the origin, for a point folded into the first quadrant.
func sdBox(u, v, hx, hy float64) float64 {
	dx := u - hx
	dy := v - hy
	outside := math.Hypot(math.Max(dx, 0), math.Max(dy, 0))
	inside := math.Min(math.Max(dx, dy), 0)
	return outside + inside
}

func distToSegment(px, py float64, a Point, dx, dy, length float64) float64 {
	if length < 1e-12 {
		return math.Hypot(px-a.X, py-a.Y)
	}
	t := ((px-a.X)*dx + (py-a.Y)*dy) / (length * length)
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(a.X+t*dx), py-(a.Y+t*dy))
}
