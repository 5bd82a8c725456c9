// Package rgb holds the color value type shared by both lighting
// controllers and the RRGGBB parsing used at the CLI boundary.
package rgb

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit-per-channel RGB triple.
type Color struct {
	R, G, B uint8
}

// Magenta is the default color for static and pulse effects.
var Magenta = Color{R: 0xFF, G: 0x14, B: 0x93}

// Rainbow returns the red/green/blue triple used as the default palette
// for breathe, morph, spectrum and wave.
func Rainbow() []Color {
	return []Color{
		{R: 0xFF},
		{G: 0xFF},
		{B: 0xFF},
	}
}

// Parse converts an RRGGBB hex token, with or without a leading '#',
// into a Color.
func Parse(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want RRGGBB", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
