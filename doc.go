// Package stripchart plays back a pre-recorded multi-channel signal as a
// scrolling strip chart, the way a patient monitor sweeps ECG leads.
//
// # Overview
//
// A finite [signal.Store] is turned into an endless stream of fixed-length
// windows by a [Scheduler], which advances a circular cursor by a fixed
// number of samples on every clock tick. A [Renderer] draws each window into
// one [Surface] per channel. Between ticks most of a window is unchanged, only
// shifted left, so the renderer moves the existing pixels and strokes just
// the newly arrived tail. When that is not possible (first frame, short
// window at the end of the buffer, resize) it redraws the surface in full.
//
// # Quick Start
//
//	store, err := signal.LoadFile("ecg.json", 250)
//	if err != nil {
//		log.Fatal(err)
//	}
//	c, err := stripchart.New(stripchart.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := c.Load(store); err != nil {
//		log.Fatal(err)
//	}
//	c.Start()
//	defer c.Stop()
//	// ... later, on the UI side:
//	img := c.Compose(1)
//
// # Coordinate System
//
// Time maps linearly from [0, window] to [0, width] and amplitude from
// [+span, -span] to [0, stripHeight], so positive values point up:
//   - Origin (0,0) at the top-left of a strip
//   - X increases right with time
//   - Y increases down
//
// A tick moves the trace by floor(step / rate / window × width) pixels. The
// fractional part is dropped; [WithResyncEvery] bounds the resulting drift
// with periodic full redraws.
//
// # Pixel Model
//
// Surfaces hold premultiplied RGBA8 pixels of a single trace color. Stroke
// coverage is merged by maximum rather than blended, which makes redrawing a
// segment over itself a no-op. That property is what lets the incremental
// path redraw a few overlapping samples and still produce the same pixels as
// a full redraw when the shift is a whole number of pixels.
//
// # Clocks
//
// The scheduler ticks from a [Clock]. [WallClock] uses a time.Ticker, which
// drops ticks instead of queueing them when a frame runs long. [ManualClock]
// fires ticks on demand, for tests and for hosts that already own a frame
// loop.
//
// # Logging
//
// The package is silent by default. Use [SetLogger] to receive debug records
// about fallbacks to full redraws and dropped ticks.
package stripchart
