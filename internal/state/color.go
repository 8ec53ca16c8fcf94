package state

import (
	"fmt"
	"image/color"
	"strings"

	"cogentcore.org/core/colors"
)

// DefaultColor is used when a stroke's color cannot be parsed.
var DefaultColor = color.NRGBA{B: 0xff, A: 0xff}

// ParseHexColor decodes "#RRGGBB" or "#RRGGBBAA". The leading '#' is optional.
// Every digit must be hexadecimal.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	if i := strings.IndexFunc(hex, notHexDigit); i >= 0 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: bad digit %q", s, hex[i])
	}

	c, err := colors.FromHex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	// FromHex returns the digits as written, without premultiplying.
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

func notHexDigit(r rune) bool {
	return !strings.ContainsRune("0123456789abcdefABCDEF", r)
}

// HexColor encodes c as "#RRGGBB", or "#RRGGBBAA" when c is not opaque.
func HexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	// An RGBA value passes through AsHex unconverted, so the straight
	// components are written as they are.
	hex := strings.ToUpper(colors.AsHex(color.RGBA{R: n.R, G: n.G, B: n.B, A: n.A}))
	if n.A == 0xff {
		return hex[:7]
	}
	return hex
}

// StrokeColor returns the stroke's color, falling back to DefaultColor.
func (s Stroke) StrokeColor() color.NRGBA {
	c, err := ParseHexColor(s.Color)
	if err != nil {
		return DefaultColor
	}
	return c
}
