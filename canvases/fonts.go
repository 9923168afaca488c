package canvases

import (
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const defaultFontSize = 16

var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// FontSize reads the pixel size of a CSS font like "bold 16px Arial".
func FontSize(css string) float64 {
	for _, field := range strings.Fields(css) {
		num, ok := strings.CutSuffix(field, "px")
		if !ok {
			continue
		}
		size, err := strconv.ParseFloat(num, 64)
		if err != nil || size <= 0 {
			continue
		}
		return min(size, 256)
	}
	return defaultFontSize
}

// faces caches one face per size. Text falls back to a bitmap face when
// the outline font cannot be loaded.
type faces map[float64]font.Face

func (f faces) get(css string) font.Face {
	size := FontSize(css)
	if face, ok := f[size]; ok {
		return face
	}
	var face font.Face = basicfont.Face7x13
	if parsed, err := goRegular(); err == nil {
		if outline, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		}); err == nil {
			face = outline
		}
	}
	f[size] = face
	return face
}
