package signal

import (
	"fmt"
	"math"
	"time"
)

// StandardLeads are the twelve conventional ECG lead names.
var StandardLeads = []string{"I", "II", "III", "aVR", "aVL", "aVF", "V1", "V2", "V3", "V4", "V5", "V6"}

// SynthOption configures Synthesize.
type SynthOption func(*synthOptions)

type synthOptions struct {
	heartRate float64 // beats per minute
	amplitude float64 // R-peak height in store units
	noise     float64 // fraction of amplitude
}

// WithHeartRate sets the beat rate in beats per minute. Default: 72.
func WithHeartRate(bpm float64) SynthOption {
	return func(o *synthOptions) {
		o.heartRate = bpm
	}
}

// WithAmplitude sets the R-peak height in store units. Default: 1000 (1 mV in µV).
func WithAmplitude(a float64) SynthOption {
	return func(o *synthOptions) {
		o.amplitude = a
	}
}

// WithNoise sets the deterministic noise level as a fraction of the amplitude.
func WithNoise(n float64) SynthOption {
	return func(o *synthOptions) {
		o.noise = n
	}
}

// Synthesize builds a store of ECG-like traces (not clinically meaningful):
// a slow baseline plus gaussian P, Q, R, S and T waves. Each channel gets a
// different lead gain and a small phase offset so the strips are easy to tell
// apart. The output is deterministic.
func Synthesize(rate float64, d time.Duration, names []string, opts ...SynthOption) (*Store, error) {
	o := synthOptions{heartRate: 72, amplitude: 1000, noise: 0.01}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.heartRate > 0) {
		return nil, fmt.Errorf("signal: heart rate must be positive, got %v", o.heartRate)
	}

	n := int(math.Round(d.Seconds() * rate))
	channels := make([]Channel, len(names))
	for c, name := range names {
		gain := 1 - 0.35*float64(c%4)/3
		if c%5 == 3 {
			gain = -gain // aVR-like inverted lead
		}
		shift := 0.01 * float64(c)
		samples := make([]float64, n)
		for i := range samples {
			phase := math.Mod(float64(i)/rate*o.heartRate/60+shift, 1)
			samples[i] = o.amplitude * (gain*beat(phase) + o.noise*noise(float64(i)+float64(c)*7919))
		}
		channels[c] = Channel{Name: name, Samples: samples}
	}
	return newStore(rate, channels)
}

// beat evaluates one normalized heartbeat at phase t in [0, 1).
func beat(t float64) float64 {
	baseline := 0.05 * math.Sin(2*math.Pi*0.33*t)
	p := 0.08 * gauss(t, 0.18, 0.03)
	q := -0.12 * gauss(t, 0.30, 0.01)
	r := 1.00 * gauss(t, 0.32, 0.008)
	s := -0.25 * gauss(t, 0.35, 0.012)
	tw := 0.25 * gauss(t, 0.60, 0.06)
	return baseline + p + q + r + s + tw
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

// noise is a cheap hash-based value in [-1, 1).
func noise(x float64) float64 {
	v := math.Sin(12345.678*x) * 9876.543
	return 2*(v-math.Floor(v)) - 1
}
