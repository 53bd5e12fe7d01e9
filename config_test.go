package stripchart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if got := StepSamples(cfg.TickPeriod, cfg.SampleRate); got != 5 {
		t.Errorf("default step = %d, want 5", got)
	}
	st, err := cfg.Stroke()
	if err != nil {
		t.Fatal(err)
	}
	if st != DefaultStroke() {
		t.Errorf("default stroke = %+v, want %+v", st, DefaultStroke())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rate", func(c *Config) { c.SampleRate = 0 }},
		{"zero window", func(c *Config) { c.Window = 0 }},
		{"negative period", func(c *Config) { c.TickPeriod = -time.Millisecond }},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero strip height", func(c *Config) { c.StripHeight = 0 }},
		{"zero span", func(c *Config) { c.AmplitudeSpan = 0 }},
		{"zero line width", func(c *Config) { c.LineWidth = 0 }},
		{"zero gain", func(c *Config) { c.Gain = 0 }},
		{"negative resync", func(c *Config) { c.ResyncEvery = -1 }},
		{"bad color", func(c *Config) { c.Color = "#zz" }},
		{"bad cap", func(c *Config) { c.LineCap = "arrow" }},
		{"bad wrap", func(c *Config) { c.Wrap = "bounce" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
sample_rate: 500
window: 4s
tick_period: 16ms
width: 1000
line_cap: round
color: "#c00"
wrap: concat
resync_every: 50
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.SampleRate != 500 || cfg.Window != 4*time.Second || cfg.TickPeriod != 16*time.Millisecond {
		t.Errorf("timing = %v %v %v", cfg.SampleRate, cfg.Window, cfg.TickPeriod)
	}
	if cfg.Width != 1000 || cfg.StripHeight != 60 {
		t.Errorf("size = %dx%d, want 1000x60 (height from defaults)", cfg.Width, cfg.StripHeight)
	}
	if p, _ := cfg.WrapPolicy(); p != WrapConcat {
		t.Errorf("wrap = %v, want concat", p)
	}
	st, _ := cfg.Stroke()
	if st.Cap != LineCapRound || st.Color != Hex("#c00") {
		t.Errorf("stroke = %+v", st)
	}
	if cfg.ResyncEvery != 50 {
		t.Errorf("resync_every = %d, want 50", cfg.ResyncEvery)
	}
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatalf("ParseConfig(nil) = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("empty document should yield defaults, got %+v", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "colour: red\n"},
		{"bad duration", "window: ten seconds\n"},
		{"invalid value", "width: -5\n"},
		{"malformed", "width: [1, 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.doc)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ParseConfig(%q) = %v, want ErrInvalidConfig", tt.doc, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.yaml")
	if err := os.WriteFile(path, []byte("strip_height: 80\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StripHeight != 80 {
		t.Errorf("strip_height = %d, want 80", cfg.StripHeight)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing) = %v, want os.ErrNotExist", err)
	}
}
