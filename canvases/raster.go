package canvases

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var (
	defaultBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	defaultInk        = color.RGBA{A: 255}
)

// Raster is a Context drawing anti-aliased pixels. The drawing lives on a
// transparent layer and the background color is composited under it, so
// changing the background keeps what was drawn.
type Raster struct {
	PathBuilder
	Pen
	layer      *image.RGBA
	background color.RGBA
	scanner    *rasterx.ScannerGV
	filler     *rasterx.Filler
	stroker    *rasterx.Stroker
	faces      faces
}

var _ Context = new(Raster)

func NewRaster(width, height int) *Raster {
	r := &Raster{
		Pen:        DefaultPen(),
		background: defaultBackground,
		faces:      make(faces),
	}
	r.Resize(width, height)
	return r
}

func (r *Raster) Size() (int, int) {
	b := r.layer.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Resize(width, height int) {
	width = max(width, 1)
	height = max(height, 1)
	r.layer = image.NewRGBA(image.Rect(0, 0, width, height))
	r.scanner = rasterx.NewScannerGV(width, height, r.layer, r.layer.Bounds())
	r.filler = rasterx.NewFiller(width, height, r.scanner)
	r.stroker = rasterx.NewStroker(width, height, r.scanner)
}

func (r *Raster) Clear() {
	draw.Draw(r.layer, r.layer.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (r *Raster) SetBackground(str string) {
	r.background = ColorOr(str, defaultBackground)
}

func (r *Raster) Stroke() {
	lines := r.Polylines()
	if len(lines) == 0 {
		return
	}
	width := max(r.LineWidth, 0.5)
	r.stroker.Clear()
	r.stroker.SetStroke(
		fixed.Int26_6(width*64),
		4*64,
		rasterx.RoundCap,
		nil,
		rasterx.RoundGap,
		rasterx.Round,
	)
	for _, line := range lines {
		r.stroker.Start(rasterx.ToFixedP(line[0].X, line[0].Y))
		if len(line) == 1 {
			// zero length segments still get their caps
			r.stroker.Line(rasterx.ToFixedP(line[0].X+0.01, line[0].Y))
		}
		for _, p := range line[1:] {
			r.stroker.Line(rasterx.ToFixedP(p.X, p.Y))
		}
		r.stroker.Stop(false)
	}
	r.stroker.SetColor(ColorOr(r.StrokeStyle, defaultInk))
	r.stroker.Draw()
}

func (r *Raster) Fill() {
	lines := r.Polylines()
	if len(lines) == 0 {
		return
	}
	r.filler.Clear()
	r.filler.SetWinding(true)
	for _, line := range lines {
		r.filler.Start(rasterx.ToFixedP(line[0].X, line[0].Y))
		for _, p := range line[1:] {
			r.filler.Line(rasterx.ToFixedP(p.X, p.Y))
		}
		r.filler.Stop(true)
	}
	r.filler.SetColor(ColorOr(r.FillStyle, defaultInk))
	r.filler.Draw()
}

// FillText draws with Go Regular at the pixel size of the CSS font.
func (r *Raster) FillText(text string, x, y float64) {
	d := &font.Drawer{
		Dst:  r.layer,
		Src:  image.NewUniform(ColorOr(r.FillStyle, defaultInk)),
		Face: r.faces.get(r.Font),
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(text)
}

// Layer returns the drawing without the background. It is replaced by
// Resize.
func (r *Raster) Layer() *image.RGBA {
	return r.layer
}

func (r *Raster) BackgroundColor() color.RGBA {
	return r.background
}

// Image returns the background composited with the drawing.
func (r *Raster) Image() *image.RGBA {
	bounds := r.layer.Bounds()
	ret := image.NewRGBA(bounds)
	draw.Draw(ret, bounds, image.NewUniform(r.background), image.Point{}, draw.Src)
	draw.Draw(ret, bounds, r.layer, image.Point{}, draw.Over)
	return ret
}

func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.Image())
}

// EncodePNG renders the drawing retained by rec as a PNG image.
func EncodePNG(w io.Writer, rec *Recorder) error {
	width, height := rec.Size()
	r := NewRaster(width, height)
	rec.Replay(r)
	return r.EncodePNG(w)
}
