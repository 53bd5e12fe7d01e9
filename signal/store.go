package signal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/viterin/vek"
)

// Sentinel errors returned by NewStore and the loaders.
var (
	ErrNoChannels     = errors.New("signal: no channels")
	ErrEmptyChannel   = errors.New("signal: channel has no samples")
	ErrLengthMismatch = errors.New("signal: channels differ in length")
	ErrSampleRate     = errors.New("signal: sample rate must be positive")
)

// Channel is one named trace, for example an ECG lead.
type Channel struct {
	Name    string
	Samples []float64
}

// Store is an ordered, immutable set of equal-length channels sampled at a
// common rate.
type Store struct {
	channels []Channel
	rate     float64
	length   int
}

// NewStore validates the channels and returns a store owning a private copy
// of every sample buffer.
func NewStore(rate float64, channels ...Channel) (*Store, error) {
	owned := make([]Channel, len(channels))
	for i, ch := range channels {
		owned[i] = Channel{Name: ch.Name, Samples: append([]float64(nil), ch.Samples...)}
	}
	return newStore(rate, owned)
}

// newStore takes ownership of channels without copying.
func newStore(rate float64, channels []Channel) (*Store, error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrSampleRate, rate)
	}
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	length := len(channels[0].Samples)
	for _, ch := range channels {
		if len(ch.Samples) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyChannel, ch.Name)
		}
		if len(ch.Samples) != length {
			return nil, fmt.Errorf("%w: %q has %d samples, %q has %d",
				ErrLengthMismatch, ch.Name, len(ch.Samples), channels[0].Name, length)
		}
	}
	return &Store{channels: channels, rate: rate, length: length}, nil
}

// SampleRate returns the shared sample rate in Hz.
func (s *Store) SampleRate() float64 { return s.rate }

// Len returns the number of samples in every channel.
func (s *Store) Len() int { return s.length }

// NumChannels returns the number of channels.
func (s *Store) NumChannels() int { return len(s.channels) }

// Duration returns the playback length of one pass over the buffer.
func (s *Store) Duration() time.Duration {
	return time.Duration(float64(s.length) / s.rate * float64(time.Second))
}

// Names returns the channel names in store order.
func (s *Store) Names() []string {
	names := make([]string, len(s.channels))
	for i, ch := range s.channels {
		names[i] = ch.Name
	}
	return names
}

// Name returns the name of channel i.
func (s *Store) Name(i int) string { return s.channels[i].Name }

// Samples returns a read-only view of channel i. The slice capacity is
// clipped so that appending to it never writes into the store.
func (s *Store) Samples(i int) []float64 {
	b := s.channels[i].Samples
	return b[:len(b):len(b)]
}

// Range returns the smallest and largest sample over all channels.
func (s *Store) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, ch := range s.channels {
		lo = math.Min(lo, vek.Min(ch.Samples))
		hi = math.Max(hi, vek.Max(ch.Samples))
	}
	return lo, hi
}
