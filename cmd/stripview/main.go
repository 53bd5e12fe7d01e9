// Command stripview shows a strip chart in a desktop window.
//
// The window's update loop is the tick source: the chart runs on a manual
// clock that is ticked once per update, and the update rate is set to the
// configured tick period. Space pauses and resumes, Escape quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/stripchart"
	"github.com/gogpu/stripchart/signal"
)

func main() {
	var (
		config  = flag.String("config", "", "YAML configuration file")
		input   = flag.String("input", "", "JSON recording (default: synthetic ECG)")
		scale   = flag.Int("scale", 1, "integer pixel scale")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		stripchart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := stripchart.DefaultConfig()
	if *config != "" {
		var err error
		if cfg, err = stripchart.LoadConfig(*config); err != nil {
			log.Fatalf("stripview: %v", err)
		}
	}

	v, err := newViewer(cfg, *input, max(*scale, 1))
	if err != nil {
		log.Fatalf("stripview: %v", err)
	}

	ebiten.SetWindowTitle("stripview")
	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetTPS(stripchart.TickRate(cfg.TickPeriod))
	if err := ebiten.RunGame(v); err != nil {
		log.Fatalf("stripview: %v", err)
	}
}

type viewer struct {
	chart  *stripchart.Chart
	clock  *stripchart.ManualClock
	scale  int
	width  int
	height int
	frame  *ebiten.Image
}

func newViewer(cfg stripchart.Config, input string, scale int) (*viewer, error) {
	clock := stripchart.NewManualClock()
	chart, err := stripchart.New(cfg, stripchart.WithClock(clock))
	if err != nil {
		return nil, err
	}
	if input != "" {
		if err := chart.LoadFile(input); err != nil {
			return nil, err
		}
	} else {
		store, err := signal.Synthesize(cfg.SampleRate, time.Minute, signal.StandardLeads,
			signal.WithAmplitude(cfg.AmplitudeSpan/2))
		if err != nil {
			return nil, err
		}
		if err := chart.Load(store); err != nil {
			return nil, err
		}
	}
	chart.Start()

	b := chart.Compose(scale).Bounds()
	return &viewer{
		chart:  chart,
		clock:  clock,
		scale:  scale,
		width:  b.Dx(),
		height: b.Dy(),
	}, nil
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		v.chart.Stop()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if v.chart.Running() {
			v.chart.Stop()
		} else {
			v.chart.Start()
		}
	}
	v.clock.Tick()
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	img := v.chart.Compose(v.scale)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if v.frame == nil || v.frame.Bounds().Dx() != w || v.frame.Bounds().Dy() != h {
		if v.frame != nil {
			v.frame.Deallocate()
		}
		v.frame = ebiten.NewImage(w, h)
	}
	v.frame.WritePixels(img.Pix)
	screen.DrawImage(v.frame, nil)

	if !v.chart.Running() {
		ebiten.SetWindowTitle("stripview (paused)")
	} else {
		st := v.chart.Stats()
		ebiten.SetWindowTitle(fmt.Sprintf("stripview  %.0f TPS  incremental avg %v",
			ebiten.ActualTPS(), st.Average(stripchart.DrawModeIncremental)))
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}
