package signal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/viterin/vek"
)

// ErrNoData is returned when a recording has no channel object under its
// data key.
var ErrNoData = errors.New("signal: recording has no data object")

// DefaultDataKey is the top-level key holding the channel object in a
// recording file.
const DefaultDataKey = "data"

// LoadOption configures Decode and LoadFile.
type LoadOption func(*loadOptions)

type loadOptions struct {
	key  string
	gain float64
}

func defaultLoadOptions() loadOptions {
	return loadOptions{key: DefaultDataKey, gain: 1}
}

// WithGain multiplies every decoded sample by g. Use it to convert stored
// units into the amplitude units of the chart (for example mV to µV).
func WithGain(g float64) LoadOption {
	return func(o *loadOptions) {
		o.gain = g
	}
}

// WithDataKey sets the top-level key holding the channel object.
func WithDataKey(key string) LoadOption {
	return func(o *loadOptions) {
		o.key = key
	}
}

// LoadFile reads a JSON recording from path. See Decode for the format.
func LoadFile(path string, rate float64, opts ...LoadOption) (*Store, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("signal: open recording: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Decode(f, rate, opts...)
}

// Decode reads a JSON recording of the form
//
//	{"data": {"I": [12, 15, ...], "II": [3, 4, ...]}}
//
// Channels keep the order in which they appear in the document. Other
// top-level keys are ignored.
func Decode(r io.Reader, rate float64, opts ...LoadOption) (*Store, error) {
	o := defaultLoadOptions()
	for _, opt := range opts {
		opt(&o)
	}

	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var channels []Channel
	found := false
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if key != o.key {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("signal: skip %q: %w", key, err)
			}
			continue
		}
		found = true
		channels, err = decodeChannels(dec)
		if err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: key %q", ErrNoData, o.key)
	}

	if o.gain != 1 {
		for _, ch := range channels {
			vek.MulNumber_Inplace(ch.Samples, o.gain)
		}
	}
	return newStore(rate, channels)
}

func decodeChannels(dec *json.Decoder) ([]Channel, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var channels []Channel
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var samples []float64
		if err := dec.Decode(&samples); err != nil {
			return nil, fmt.Errorf("signal: decode channel %q: %w", name, err)
		}
		channels = append(channels, Channel{Name: name, Samples: samples})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return channels, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("signal: read key: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("signal: expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("signal: expected %q: %w", want, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("signal: expected %q, got %v", want, tok)
	}
	return nil
}
