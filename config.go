package stripchart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for configuration values that cannot drive a
// chart: non-positive rates, durations or sizes, unknown names.
var ErrInvalidConfig = errors.New("stripchart: invalid configuration")

// Config holds the settings of a chart. The zero value is not usable; start
// from DefaultConfig. Durations are written as Go duration strings ("20ms").
type Config struct {
	// SampleRate is the rate in Hz used when loading signal files.
	SampleRate float64 `yaml:"sample_rate"`
	// Window is the time span shown across a strip.
	Window time.Duration `yaml:"window"`
	// TickPeriod is the interval between frames.
	TickPeriod time.Duration `yaml:"tick_period"`
	// Width is the strip width in pixels.
	Width int `yaml:"width"`
	// StripHeight is the height of one channel strip in pixels.
	StripHeight int `yaml:"strip_height"`
	// AmplitudeSpan is the half range of the vertical axis in sample units.
	AmplitudeSpan float64 `yaml:"amplitude_span"`
	// Gain multiplies samples on load.
	Gain float64 `yaml:"gain"`
	// LineWidth is the trace width in pixels.
	LineWidth float64 `yaml:"line_width"`
	// LineCap is "square", "round" or "butt".
	LineCap string `yaml:"line_cap"`
	// Color is the trace color as a hex string.
	Color string `yaml:"color"`
	// Wrap is the wrap policy name, see ParseWrapPolicy.
	Wrap string `yaml:"wrap"`
	// ResyncEvery forces a full redraw every n frames; 0 disables it.
	ResyncEvery int `yaml:"resync_every"`
}

// DefaultConfig returns a 12-lead ECG setup: 250 Hz, a 10 s window across
// 800 px, ±2000 µV per 60 px strip, a frame every 20 ms.
func DefaultConfig() Config {
	return Config{
		SampleRate:    250,
		Window:        10 * time.Second,
		TickPeriod:    20 * time.Millisecond,
		Width:         800,
		StripHeight:   60,
		AmplitudeSpan: 2000,
		Gain:          1,
		LineWidth:     1,
		LineCap:       "square",
		Color:         "#000000",
		Wrap:          "short",
		ResyncEvery:   0,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case !(c.SampleRate > 0) || math.IsInf(c.SampleRate, 0):
		return fmt.Errorf("%w: sample_rate must be positive, got %v", ErrInvalidConfig, c.SampleRate)
	case c.Window <= 0:
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	case c.TickPeriod <= 0:
		return fmt.Errorf("%w: tick_period must be positive, got %v", ErrInvalidConfig, c.TickPeriod)
	case c.Width <= 0 || c.StripHeight <= 0:
		return fmt.Errorf("%w: strip size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.StripHeight)
	case !(c.AmplitudeSpan > 0):
		return fmt.Errorf("%w: amplitude_span must be positive, got %v", ErrInvalidConfig, c.AmplitudeSpan)
	case !(c.LineWidth > 0):
		return fmt.Errorf("%w: line_width must be positive, got %v", ErrInvalidConfig, c.LineWidth)
	case c.Gain == 0 || math.IsNaN(c.Gain):
		return fmt.Errorf("%w: gain must be non-zero, got %v", ErrInvalidConfig, c.Gain)
	case c.ResyncEvery < 0:
		return fmt.Errorf("%w: resync_every must not be negative, got %d", ErrInvalidConfig, c.ResyncEvery)
	}
	if _, err := c.Stroke(); err != nil {
		return err
	}
	if _, err := c.WrapPolicy(); err != nil {
		return err
	}
	return nil
}

// Layout returns the strip geometry.
func (c Config) Layout() Layout {
	return Layout{
		Width:         c.Width,
		StripHeight:   c.StripHeight,
		Window:        c.Window,
		AmplitudeSpan: c.AmplitudeSpan,
	}
}

// Stroke returns the trace stroke.
func (c Config) Stroke() (Stroke, error) {
	col, err := ParseHex(c.Color)
	if err != nil {
		return Stroke{}, fmt.Errorf("%w: color: %w", ErrInvalidConfig, err)
	}
	lineCap, err := parseLineCap(c.LineCap)
	if err != nil {
		return Stroke{}, err
	}
	return DefaultStroke().WithWidth(c.LineWidth).WithCap(lineCap).WithColor(col), nil
}

// WrapPolicy returns the parsed wrap policy.
func (c Config) WrapPolicy() (WrapPolicy, error) {
	return ParseWrapPolicy(c.Wrap)
}

func parseLineCap(s string) (LineCap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "square":
		return LineCapSquare, nil
	case "round":
		return LineCapRound, nil
	case "butt":
		return LineCapButt, nil
	}
	return 0, fmt.Errorf("%w: unknown line cap %q", ErrInvalidConfig, s)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Config{}, fmt.Errorf("stripchart: read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
