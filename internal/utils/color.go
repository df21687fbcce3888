package utils

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexRGB parses a "#rrggbb" (or "#rgb") color into its 8-bit channels.
func ParseHexRGB(hex string) (r, g, b uint8, err error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to parse color %q: %w", hex, err)
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}

// FormatHexRGB renders 8-bit channels as a lowercase "#rrggbb" string.
func FormatHexRGB(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Brightness returns the plain channel average of a hex color, in 0..255.
func Brightness(hex string) (float64, error) {
	r, g, b, err := ParseHexRGB(hex)
	if err != nil {
		return 0, err
	}
	return (float64(r) + float64(g) + float64(b)) / 3.0, nil
}
