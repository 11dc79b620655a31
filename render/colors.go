package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// Magenta is the default bounding box and label color #ff0055
	Magenta = color.RGBA{R: 255, G: 0, B: 85, A: 255}
	// Aqua is the default skeleton connector color #00ffcc
	Aqua = color.RGBA{R: 0, G: 255, B: 204, A: 255}
)

// ParseColor parses either a hex color in the form #rrggbb or a SVG 1.1 color
// name such as "orangered"
func ParseColor(s string) (color.RGBA, error) {

	s = strings.TrimSpace(strings.ToLower(s))

	if strings.HasPrefix(s, "#") {
		hex := s[1:]

		if len(hex) != 6 {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q, expected #rrggbb", s)
		}

		v, err := strconv.ParseUint(hex, 16, 32)

		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}

		return color.RGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 255,
		}, nil
	}

	clr, ok := colornames.Map[s]

	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color name %q", s)
	}

	return clr, nil
}
