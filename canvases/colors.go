package canvases

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor understands CSS color names, #rgb / #rrggbb and rgb(r, g, b).
func ParseColor(str string) (color.RGBA, error) {
	s := strings.ToLower(strings.TrimSpace(str))
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color")
	}

	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if s == "transparent" {
		return color.RGBA{}, nil
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.RGBA{}, err
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	}

	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		parts := strings.Split(s[len("rgb("):len(s)-1], ",")
		if len(parts) != 3 {
			return color.RGBA{}, fmt.Errorf("bad color: %s", str)
		}
		var channels [3]uint8
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("bad color: %s: %w", str, err)
			}
			channels[i] = uint8(min(max(v, 0), 255))
		}
		return color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: 255}, nil
	}

	return color.RGBA{}, fmt.Errorf("unknown color: %s", str)
}

// ColorOr parses str, falling back to def for anything unparsable.
func ColorOr(str string, def color.RGBA) color.RGBA {
	c, err := ParseColor(str)
	if err != nil {
		return def
	}
	return c
}

// RGBHex formats channel values as #rrggbb. When unit is set, the channels
// are fractions in [0, 1], otherwise they are in [0, 255].
func RGBHex(r, g, b float64, unit bool) string {
	if !unit {
		r, g, b = r/255, g/255, b/255
	}
	return colorful.Color{R: r, G: g, B: b}.Clamped().Hex()
}
