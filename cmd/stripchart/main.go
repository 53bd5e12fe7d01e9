// Command stripchart plays a recording through the strip chart renderer
// without a window and writes the result as PNG.
//
// Without -input it plays a synthetic 12-lead ECG. By default ticks are
// fired back to back; -realtime runs on the wall clock at the configured
// tick period.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	ossignal "os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/stripchart"
	"github.com/gogpu/stripchart/signal"
)

type runOptions struct {
	config   string
	input    string
	frames   int
	out      string
	scale    int
	strips   bool
	realtime bool
}

func main() {
	var (
		o       runOptions
		verbose bool
	)
	flag.StringVar(&o.config, "config", "", "YAML configuration file")
	flag.StringVar(&o.input, "input", "", "JSON recording (default: synthetic ECG)")
	flag.IntVar(&o.frames, "frames", 500, "number of ticks to play")
	flag.StringVar(&o.out, "out", ".", "output directory")
	flag.IntVar(&o.scale, "scale", 1, "integer upscale of the composed image")
	flag.BoolVar(&o.strips, "strips", false, "also write one PNG per channel")
	flag.BoolVar(&o.realtime, "realtime", false, "tick on the wall clock")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	stripchart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o); err != nil {
		log.Fatalf("stripchart: %v", err)
	}
}

func run(ctx context.Context, o runOptions) error {
	if o.frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", o.frames)
	}

	cfg := stripchart.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = stripchart.LoadConfig(o.config); err != nil {
			return err
		}
	}

	manual := stripchart.NewManualClock()
	var clock stripchart.Clock = manual
	if o.realtime {
		clock = stripchart.WallClock{}
	}

	var played atomic.Int64
	done := make(chan struct{})
	target := int64(o.frames)
	chart, err := stripchart.New(cfg,
		stripchart.WithClock(clock),
		stripchart.WithFrameHook(func() {
			if played.Add(1) == target {
				close(done)
			}
		}),
	)
	if err != nil {
		return err
	}

	if o.input != "" {
		if err := chart.LoadFile(o.input); err != nil {
			return err
		}
	} else {
		store, err := signal.Synthesize(cfg.SampleRate, 30*time.Second, signal.StandardLeads,
			signal.WithAmplitude(cfg.AmplitudeSpan/2))
		if err != nil {
			return err
		}
		if err := chart.Load(store); err != nil {
			return err
		}
	}

	start := time.Now()
	chart.Start()
	if o.realtime {
		select {
		case <-done:
		case <-ctx.Done():
		}
	} else {
		manual.Advance(o.frames)
	}
	chart.Stop()
	elapsed := time.Since(start)

	if err := os.MkdirAll(o.out, 0o750); err != nil {
		return err
	}
	composed := filepath.Join(o.out, "stripchart.png")
	if err := writePNG(composed, chart, o.scale); err != nil {
		return err
	}
	if o.strips {
		if err := exportStrips(ctx, chart, o.out); err != nil {
			return err
		}
	}

	printSummary(chart, played.Load(), elapsed, composed)
	return nil
}

func writePNG(path string, chart *stripchart.Chart, scale int) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, chart.Compose(scale)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// exportStrips writes every channel surface to its own file concurrently.
func exportStrips(ctx context.Context, chart *stripchart.Chart, dir string) error {
	names := chart.Names()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range chart.Surfaces() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := fmt.Sprintf("strip-%02d-%s.png", i, fileSafe(names[i]))
			return s.SavePNG(filepath.Join(dir, name))
		})
	}
	return g.Wait()
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
}

func printSummary(chart *stripchart.Chart, frames int64, elapsed time.Duration, path string) {
	st := chart.Stats()
	p := message.NewPrinter(language.English)
	p.Printf("%d frames in %v, %d channels\n", frames, elapsed.Round(time.Millisecond), len(chart.Names()))
	p.Printf("  full:        %d draws, avg %v (%.0f fps)\n",
		st.Count(stripchart.DrawModeFull), st.Average(stripchart.DrawModeFull), st.FPS(stripchart.DrawModeFull))
	p.Printf("  incremental: %d draws, avg %v (%.0f fps)\n",
		st.Count(stripchart.DrawModeIncremental), st.Average(stripchart.DrawModeIncremental), st.FPS(stripchart.DrawModeIncremental))
	p.Printf("wrote %s\n", path)
}
