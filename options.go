package stripchart

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Option configures a Chart during creation.
//
// Example:
//
//	// Wall clock, default labels
//	c, err := stripchart.New(stripchart.DefaultConfig())
//
//	// Ticks driven by the host's frame loop
//	clock := stripchart.NewManualClock()
//	c, err := stripchart.New(cfg, stripchart.WithClock(clock))
type Option func(*options)

// options holds optional configuration for Chart creation.
type options struct {
	clock      Clock
	face       font.Face
	labelColor RGBA
	frameHook  func()
}

// defaultOptions returns the default chart options.
func defaultOptions() options {
	return options{
		clock:      WallClock{},
		face:       basicfont.Face7x13,
		labelColor: RGB(0.25, 0.25, 0.25),
	}
}

// WithClock sets the tick source. Default: WallClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLabelFace sets the face used for channel labels in Compose.
// A nil face disables labels. Default: basicfont.Face7x13.
func WithLabelFace(f font.Face) Option {
	return func(o *options) {
		o.face = f
	}
}

// WithLabelColor sets the channel label color.
func WithLabelColor(c RGBA) Option {
	return func(o *options) {
		o.labelColor = c
	}
}

// WithFrameHook sets a function called after every rendered frame, outside
// the chart's lock. Hosts use it to count frames or request a repaint.
func WithFrameHook(fn func()) Option {
	return func(o *options) {
		o.frameHook = fn
	}
}
