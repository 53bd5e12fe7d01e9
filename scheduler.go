package stripchart

import (
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/stripchart/signal"
)

// WrapPolicy decides what a window looks like when it runs past the end of
// the signal buffer.
type WrapPolicy int

const (
	// WrapShort emits the truncated slice: with 2500 samples, a 500 sample
	// window and the cursor at 2300, the window has 200 samples. Renderers
	// redraw short windows in full.
	WrapShort WrapPolicy = iota
	// WrapZeroPad pads the truncated slice with zeros up to the window length.
	WrapZeroPad
	// WrapConcat continues from the start of the buffer, so every window has
	// the full length and the playback loops seamlessly.
	WrapConcat
)

// Seamless reports whether consecutive windows stay continuous when the
// cursor wraps to the start of the buffer. Only WrapConcat is seamless: the
// other policies jump from the padded or truncated tail back to the head.
func (p WrapPolicy) Seamless() bool { return p == WrapConcat }

// String returns the name used for the policy in configuration files.
func (p WrapPolicy) String() string {
	switch p {
	case WrapShort:
		return "short"
	case WrapZeroPad:
		return "zeropad"
	case WrapConcat:
		return "concat"
	default:
		return fmt.Sprintf("WrapPolicy(%d)", int(p))
	}
}

// ParseWrapPolicy parses "short", "zeropad" or "concat".
func ParseWrapPolicy(s string) (WrapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "short":
		return WrapShort, nil
	case "zeropad", "zero-pad", "pad":
		return WrapZeroPad, nil
	case "concat", "loop":
		return WrapConcat, nil
	}
	return 0, fmt.Errorf("%w: unknown wrap policy %q", ErrInvalidConfig, s)
}

// WindowFunc receives one window per channel and the number of samples the
// cursor advanced on this tick. The window slices are only valid until the
// function returns.
type WindowFunc func(windows [][]float64, stepSamples int)

// StepSamples returns the number of samples one tick of period covers at
// rate, rounded to the nearest integer.
func StepSamples(period time.Duration, rate float64) int {
	return int(math.Round(period.Seconds() * rate))
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithWrapPolicy sets how windows behave at the end of the buffer.
// Default: WrapShort.
func WithWrapPolicy(p WrapPolicy) SchedulerOption {
	return func(s *Scheduler) {
		s.policy = p
	}
}

// Scheduler turns a finite Store into an endless stream of windows: on every
// clock tick it advances a circular cursor by a fixed step and emits a
// window per channel starting at the cursor.
type Scheduler struct {
	clock  Clock
	policy WrapPolicy

	mu        sync.Mutex
	store     *signal.Store
	window    time.Duration
	period    time.Duration
	step      int
	windowLen int
	cursor    int
	ticks     uint64
	fn        WindowFunc
	running   bool
	gen       uint64
	stop      func()
	windows   [][]float64
	bufs      [][]float64

	// emitMu is held for the whole of a tick, callback included.
	// emitter is the id of the goroutine running the callback, 0 outside it.
	emitMu  sync.Mutex
	emitter atomic.Uint64
}

// NewScheduler creates an unconfigured scheduler ticking from clock.
// A nil clock selects WallClock.
func NewScheduler(clock Clock, opts ...SchedulerOption) *Scheduler {
	if clock == nil {
		clock = WallClock{}
	}
	s := &Scheduler{clock: clock}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure sets the signal, the window duration and the tick period, and
// rewinds the cursor. If the scheduler is running it keeps running with the
// new settings.
func (s *Scheduler) Configure(store *signal.Store, window, period time.Duration) error {
	if store == nil || store.Len() == 0 {
		return fmt.Errorf("%w: no signal", ErrInvalidConfig)
	}
	if window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, window)
	}
	if period <= 0 {
		return fmt.Errorf("%w: tick period must be positive, got %v", ErrInvalidConfig, period)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rate := store.SampleRate()
	s.store = store
	s.window = window
	s.period = period
	s.step = StepSamples(period, rate)
	s.windowLen = int(math.Round(window.Seconds() * rate))
	s.cursor = 0
	s.ticks = 0

	n := store.NumChannels()
	s.windows = make([][]float64, n)
	s.bufs = nil
	if s.policy != WrapShort {
		s.bufs = make([][]float64, n)
		for i := range s.bufs {
			s.bufs[i] = make([]float64, s.windowLen)
		}
	}

	if s.running {
		s.stop()
		s.subscribe()
	}
	return nil
}

// Start begins emitting windows to fn. It does nothing if the scheduler is
// already running, if fn is nil, or if Configure has not been called.
func (s *Scheduler) Start(fn WindowFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	if fn == nil || s.store == nil {
		Logger().Debug("stripchart: scheduler not ready",
			"configured", s.store != nil, "callback", fn != nil)
		return
	}
	s.fn = fn
	s.running = true
	s.subscribe()
	Logger().Info("stripchart: scheduler started",
		"period", s.period, "step", s.step, "window", s.windowLen, "cursor", s.cursor)
}

// subscribe registers a tick handler tagged with a new generation so that
// ticks from an earlier subscription are ignored. Called with s.mu held.
func (s *Scheduler) subscribe() {
	s.gen++
	gen := s.gen
	s.stop = s.clock.Every(s.period, func() { s.tick(gen) })
}

// Stop cancels the tick subscription. It is safe to call when not running
// and from inside the window callback. Once Stop returns no further tick
// reaches the callback. When called from any goroutine other than the one
// running the callback, it also waits for an in-flight callback to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.gen++
	stop := s.stop
	s.stop = nil
	cursor := s.cursor
	s.mu.Unlock()

	stop()
	if s.emitter.Load() != goroutineID() {
		s.emitMu.Lock()
		//nolint:staticcheck // empty critical section waits for an in-flight tick
		s.emitMu.Unlock()
	}
	Logger().Info("stripchart: scheduler stopped", "cursor", cursor)
}

// tick advances the cursor and emits the windows of one tick.
func (s *Scheduler) tick(gen uint64) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if !s.running || s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.cursor = (s.cursor + s.step) % s.store.Len()
	s.ticks++
	windows := s.extract()
	fn, step := s.fn, s.step
	s.mu.Unlock()

	s.emitter.Store(goroutineID())
	defer s.emitter.Store(0)
	fn(windows, step)
}

// goroutineID returns the id of the calling goroutine, parsed from the
// "goroutine N [running]:" header of its stack trace.
func goroutineID() uint64 {
	var b [64]byte
	line := string(b[:runtime.Stack(b[:], false)])
	line = strings.TrimPrefix(line, "goroutine ")
	sp := strings.IndexByte(line, ' ')
	if sp <= 0 {
		return 0
	}
	id, _ := strconv.ParseUint(line[:sp], 10, 64)
	return id
}

// extract builds the windows at the current cursor. Called with s.mu held.
func (s *Scheduler) extract() [][]float64 {
	length := s.store.Len()
	c := s.cursor
	end := min(c+s.windowLen, length)

	for ch := range s.windows {
		src := s.store.Samples(ch)
		switch s.policy {
		case WrapZeroPad:
			buf := s.bufs[ch]
			n := copy(buf, src[c:end])
			clear(buf[n:])
			s.windows[ch] = buf
		case WrapConcat:
			buf := s.bufs[ch]
			for n := 0; n < len(buf); {
				n += copy(buf[n:], src[(c+n)%length:])
			}
			s.windows[ch] = buf
		default:
			s.windows[ch] = src[c:end:end]
		}
	}
	return s.windows
}

// Running reports whether the scheduler is emitting windows.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Cursor returns the current read offset into the signal.
func (s *Scheduler) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// StepSamples returns the cursor advance per tick.
func (s *Scheduler) StepSamples() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// WindowLen returns the requested window length in samples.
func (s *Scheduler) WindowLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windowLen
}

// Ticks returns the number of ticks emitted since Configure.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Policy returns the wrap policy.
func (s *Scheduler) Policy() WrapPolicy { return s.policy }
