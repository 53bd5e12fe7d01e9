package stripchart

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/stripchart/signal"
)

// labelInset is the distance in pixels between a strip's top-left corner
// and its label.
const labelInset = 4

// Chart wires a signal Store to a Scheduler and a Renderer: each tick the
// scheduler's windows are drawn into one surface per channel, and Compose
// stacks the surfaces into a single image for display.
//
// Rendering and composing are serialized, so Compose may be called from a
// different goroutine than the one ticking the clock.
type Chart struct {
	opts   options
	stroke Stroke
	sched  *Scheduler
	stats  *Stats

	mu sync.Mutex
	// cfg is only written by Resize, which changes the strip size.
	cfg    Config
	rend   *Renderer
	store  *signal.Store
	names  []string
	cursor int
}

// New creates a chart with no signal. Load or LoadFile must succeed before
// Start has any effect.
func New(cfg Config, opts ...Option) (*Chart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	stroke, _ := cfg.Stroke()
	policy, _ := cfg.WrapPolicy()
	return &Chart{
		cfg:    cfg,
		opts:   o,
		stroke: stroke,
		sched:  NewScheduler(o.clock, WithWrapPolicy(policy)),
		stats:  &Stats{},
	}, nil
}

// Load makes store the chart's signal and rebuilds the surfaces. It may be
// called while running; playback restarts from the beginning.
func (c *Chart) Load(store *signal.Store) error {
	if store == nil {
		return fmt.Errorf("%w: no signal", ErrInvalidConfig)
	}
	if err := c.sched.Configure(store, c.cfg.Window, c.cfg.TickPeriod); err != nil {
		return err
	}

	c.mu.Lock()
	c.store = store
	c.names = store.Names()
	c.cursor = 0
	c.rend = NewRenderer(store.NumChannels(), c.cfg.Layout(), store.SampleRate(),
		WithStroke(c.stroke),
		WithResyncEvery(c.cfg.ResyncEvery),
		WithStats(c.stats),
	)
	c.mu.Unlock()

	lo, hi := store.Range()
	Logger().Info("stripchart: signal loaded",
		"channels", store.NumChannels(), "samples", store.Len(),
		"duration", store.Duration(), "min", lo, "max", hi)
	if span := c.cfg.AmplitudeSpan; lo < -span || hi > span {
		Logger().Debug("stripchart: signal exceeds amplitude span", "span", span)
	}
	return nil
}

// LoadFile loads a JSON recording at the configured sample rate and gain.
// On failure the error is logged and returned and the chart keeps its
// previous signal, if any.
func (c *Chart) LoadFile(path string) error {
	store, err := signal.LoadFile(path, c.cfg.SampleRate, signal.WithGain(c.cfg.Gain))
	if err != nil {
		Logger().Warn("stripchart: load failed", "path", path, "err", err)
		return err
	}
	return c.Load(store)
}

// Start begins playback. It does nothing if the chart is already running or
// has no signal.
func (c *Chart) Start() {
	c.sched.Start(c.render)
}

// Stop pauses playback. Start resumes from the same position.
func (c *Chart) Stop() {
	c.sched.Stop()
}

// Running reports whether playback is active.
func (c *Chart) Running() bool {
	return c.sched.Running()
}

// Scheduler returns the chart's scheduler.
func (c *Chart) Scheduler() *Scheduler { return c.sched }

// Stats returns the render statistics, which survive Load.
func (c *Chart) Stats() *Stats { return c.stats }

// Config returns the chart configuration.
func (c *Chart) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Names returns the channel names of the loaded signal.
func (c *Chart) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}

// Surfaces returns the per-channel surfaces, or nil before Load. The
// surfaces are written by the tick goroutine; read them after Stop returns.
func (c *Chart) Surfaces() []*Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rend == nil {
		return nil
	}
	return c.rend.Surfaces()
}

// Resize changes the strip size. The next frame is a full redraw.
func (c *Chart) Resize(width, stripHeight int) error {
	if width <= 0 || stripHeight <= 0 {
		return fmt.Errorf("%w: strip size must be positive, got %dx%d", ErrInvalidConfig, width, stripHeight)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Width, c.cfg.StripHeight = width, stripHeight
	if c.rend != nil {
		c.rend.Resize(width, stripHeight)
	}
	return nil
}

// render draws one tick. When the cursor wrapped under a policy that is not
// seamless, the windows no longer continue the drawn trace and every
// surface is redrawn in full.
func (c *Chart) render(windows [][]float64, step int) {
	cursor := c.sched.Cursor()
	c.mu.Lock()
	if c.rend != nil {
		if cursor < c.cursor && !c.sched.Policy().Seamless() {
			Logger().Debug("stripchart: cursor wrapped", "from", c.cursor, "to", cursor)
			c.rend.Invalidate()
		}
		c.cursor = cursor
		c.rend.Render(windows, step)
	}
	c.mu.Unlock()
	if c.opts.frameHook != nil {
		c.opts.frameHook()
	}
}

// Compose stacks the channel strips top to bottom on a white background,
// separated by a one pixel rule and labelled with the channel names. A scale
// above 1 enlarges the result with nearest-neighbour sampling, keeping the
// trace pixels sharp. Before Load it returns a single blank strip.
func (c *Chart) Compose(scale int) *image.RGBA {
	scale = max(scale, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	w, h := c.cfg.Width, c.cfg.StripHeight
	var surfaces []*Surface
	if c.rend != nil {
		surfaces = c.rend.Surfaces()
	}
	img := image.NewRGBA(image.Rect(0, 0, w, max(len(surfaces), 1)*h))
	draw.Draw(img, img.Bounds(), image.NewUniform(White.Color()), image.Point{}, draw.Src)

	rule := image.NewUniform(Grid.Color())
	for i, s := range surfaces {
		top := i * h
		if i > 0 {
			draw.Draw(img, image.Rect(0, top, w, top+1), rule, image.Point{}, draw.Src)
		}
		draw.Draw(img, image.Rect(0, top, w, top+h), s.RGBA(), image.Point{}, draw.Over)
		if i < len(c.names) {
			c.drawLabel(img, c.names[i], top)
		}
	}

	if scale == 1 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx()*scale, img.Bounds().Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func (c *Chart) drawLabel(img *image.RGBA, name string, top int) {
	if c.opts.face == nil || name == "" {
		return
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c.opts.labelColor.Color()),
		Face: c.opts.face,
		Dot:  fixed.P(labelInset, top+labelInset+c.opts.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(name)
}
