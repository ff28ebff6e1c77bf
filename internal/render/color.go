package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor converts a #rrggbb string into an opaque NRGBA color.
func ParseHexColor(value string) (color.NRGBA, error) {
	s := strings.TrimPrefix(value, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("color %q is not in #rrggbb form", value)
	}
	packed, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q is not in #rrggbb form", value)
	}
	return color.NRGBA{
		R: uint8(packed >> 16),
		G: uint8(packed >> 8),
		B: uint8(packed),
		A: 0xff,
	}, nil
}
