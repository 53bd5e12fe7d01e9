package stripchart

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrBadColor is returned by ParseHex for strings that are not hex colors.
var ErrBadColor = errors.New("stripchart: invalid hex color")

// RGBA represents a straight (non-premultiplied) color.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R*255 + 0.5)),
		G: uint8(clamp255(c.G*255 + 0.5)),
		B: uint8(clamp255(c.B*255 + 0.5)),
		A: uint8(clamp255(c.A*255 + 0.5)),
	}
}

// premul returns the color premultiplied by alpha a (0-255) as RGBA8 bytes.
// The color's own alpha is folded into a by the caller.
func (c RGBA) premul(a uint8) (r, g, b uint8) {
	f := float64(a)
	return uint8(clamp255(c.R*f + 0.5)), uint8(clamp255(c.G*f + 0.5)), uint8(clamp255(c.B*f + 0.5))
}

// Hex creates a color from a hex string, falling back to opaque black.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without '#'.
func Hex(hex string) RGBA {
	c, err := ParseHex(hex)
	if err != nil {
		return Black
	}
	return c
}

// ParseHex parses a hex color string. See Hex for the accepted formats.
func ParseHex(hex string) (RGBA, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var v [4]uint32
	v[3] = 255
	switch len(s) {
	case 3, 4:
		for i := 0; i < len(s); i++ {
			d, ok := hexDigit(s[i])
			if !ok {
				return RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, hex)
			}
			v[i] = d * 17
		}
	case 6, 8:
		for i := 0; i < len(s); i += 2 {
			hi, ok1 := hexDigit(s[i])
			lo, ok2 := hexDigit(s[i+1])
			if !ok1 || !ok2 {
				return RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, hex)
			}
			v[i/2] = hi<<4 | lo
		}
	default:
		return RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, hex)
	}

	return RGBA{
		R: float64(v[0]) / 255,
		G: float64(v[1]) / 255,
		B: float64(v[2]) / 255,
		A: float64(v[3]) / 255,
	}, nil
}

func hexDigit(c byte) (uint32, bool) {
	switch {
	case '0' <= c && c <= '9':
		return uint32(c - '0'), true
	case 'a' <= c && c <= 'f':
		return uint32(c - 'a' + 10), true
	case 'A' <= c && c <= 'F':
		return uint32(c - 'A' + 10), true
	}
	return 0, false
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 0.5, 0)
	Blue        = RGB(0, 0, 1)
	Grid        = RGB(0.85, 0.85, 0.85)
	Transparent = RGBA{}
)
