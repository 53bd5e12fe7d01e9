package stripchart

import (
	"math"
	"time"
)

// shiftEpsilon absorbs floating point error before flooring a pixel shift,
// so that a 2.0000000000000004 px step shifts by 2 and not 1.
const shiftEpsilon = 1e-9

// Layout is the geometry shared by the mapper and the renderer.
type Layout struct {
	// Width is the strip width in pixels.
	Width int
	// StripHeight is the height of one channel strip in pixels.
	StripHeight int
	// Window is the time span shown across Width.
	Window time.Duration
	// AmplitudeSpan is the half range of the vertical axis in sample units:
	// +AmplitudeSpan maps to the top of the strip, -AmplitudeSpan to the bottom.
	AmplitudeSpan float64
}

// linearScale maps a domain interval linearly onto a range interval.
type linearScale struct {
	d0, d1 float64
	r0, r1 float64
}

func (s linearScale) apply(v float64) float64 {
	if s.d1 == s.d0 {
		return s.r0
	}
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Mapper converts sample time and amplitude to pixel coordinates.
// It is immutable and safe to share between channels and goroutines.
type Mapper struct {
	layout Layout
	x      linearScale
	y      linearScale
}

// NewMapper builds the time scale [0, Window] -> [0, Width] and the amplitude
// scale [+AmplitudeSpan, -AmplitudeSpan] -> [0, StripHeight].
func NewMapper(l Layout) *Mapper {
	return &Mapper{
		layout: l,
		x:      linearScale{d0: 0, d1: l.Window.Seconds(), r0: 0, r1: float64(l.Width)},
		y:      linearScale{d0: l.AmplitudeSpan, d1: -l.AmplitudeSpan, r0: 0, r1: float64(l.StripHeight)},
	}
}

// Layout returns the geometry the mapper was built from.
func (m *Mapper) Layout() Layout { return m.layout }

// TimeToX maps a time offset in seconds to a horizontal pixel position.
func (m *Mapper) TimeToX(seconds float64) float64 {
	return m.x.apply(seconds)
}

// AmpToY maps a sample value to a vertical pixel position.
func (m *Mapper) AmpToY(v float64) float64 {
	return m.y.apply(v)
}

// SampleX maps sample index i at the given rate to a horizontal position.
func (m *Mapper) SampleX(i int, rate float64) float64 {
	return m.TimeToX(float64(i) / rate)
}

// PixelShift returns the whole-pixel distance covered by step samples.
// The fractional part is floored away: a 1.6 px step shifts by 1 px. The
// discarded fraction accumulates as drift across ticks.
func (m *Mapper) PixelShift(step int, rate float64) int {
	return int(math.Floor(m.TimeToX(float64(step)/rate) + shiftEpsilon))
}
