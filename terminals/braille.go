package terminals

import (
	"image"
	"image/color"
	"math"
)

const brailleBase = 0x2800

// brailleBits[y][x] is the bit of the dot at column x, row y of a cell.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// inkAlpha is the layer alpha from which a pixel counts as drawn.
const inkAlpha = 64

// grid maps canvas pixels to braille cells. Each cell holds 2x4 dots and a
// dot covers scale x scale pixels. The drawing is centered in the area.
type grid struct {
	cols, rows int
	offX, offY int
	scale      float64
}

func newGrid(width, height, cols, rows int) grid {
	cols = max(cols, 1)
	rows = max(rows, 1)
	scale := math.Max(
		float64(width)/float64(cols*2),
		float64(height)/float64(rows*4),
	)
	scale = math.Max(scale, 1)
	usedCols := int(math.Ceil(float64(width) / scale / 2))
	usedRows := int(math.Ceil(float64(height) / scale / 4))
	return grid{
		cols:  cols,
		rows:  rows,
		offX:  max((cols-usedCols)/2, 0),
		offY:  max((rows-usedRows)/2, 0),
		scale: scale,
	}
}

// pixel returns the canvas position at the center of a cell.
func (g grid) pixel(col, row int) (x, y float64) {
	x = (float64(col-g.offX)*2 + 1) * g.scale
	y = (float64(row-g.offY)*4 + 2) * g.scale
	return
}

// cell samples the dots of a cell from layer. It reports false when
// nothing is drawn there, otherwise the braille rune and the mean ink color.
func (g grid) cell(layer *image.RGBA, col, row int) (rune, color.RGBA, bool) {
	bounds := layer.Bounds()
	var bits rune
	var sumR, sumG, sumB, sumA int
	for dy := range 4 {
		for dx := range 2 {
			x0 := int(float64((col-g.offX)*2+dx) * g.scale)
			y0 := int(float64((row-g.offY)*4+dy) * g.scale)
			x1 := int(float64((col-g.offX)*2+dx+1) * g.scale)
			y1 := int(float64((row-g.offY)*4+dy+1) * g.scale)
			inked := false
			for y := max(y0, bounds.Min.Y); y < min(max(y1, y0+1), bounds.Max.Y); y++ {
				for x := max(x0, bounds.Min.X); x < min(max(x1, x0+1), bounds.Max.X); x++ {
					c := layer.RGBAAt(x, y)
					if c.A < inkAlpha {
						continue
					}
					inked = true
					sumR += int(c.R)
					sumG += int(c.G)
					sumB += int(c.B)
					sumA += int(c.A)
				}
			}
			if inked {
				bits |= brailleBits[dy][dx]
			}
		}
	}
	if bits == 0 {
		return ' ', color.RGBA{}, false
	}
	// layer colors are premultiplied
	ink := color.RGBA{
		R: uint8(min(sumR*255/sumA, 255)),
		G: uint8(min(sumG*255/sumA, 255)),
		B: uint8(min(sumB*255/sumA, 255)),
		A: 255,
	}
	return brailleBase + bits, ink, true
}
