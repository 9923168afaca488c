package canvases

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// EncodeSVG renders the drawing retained by rec as an SVG document.
func EncodeSVG(w io.Writer, rec *Recorder) error {
	ew := &errWriter{w: w}
	width, height := rec.Size()
	s := &svgContext{
		svg:    svg.New(ew),
		width:  width,
		height: height,
		Pen:    DefaultPen(),
	}
	s.svg.Start(width, height)
	if bg := rec.Background(); bg != "" {
		s.SetBackground(bg)
	}
	for _, op := range rec.Ops() {
		Apply(s, op)
	}
	s.svg.End()
	return ew.err
}

type svgContext struct {
	PathBuilder
	Pen
	svg    *svg.SVG
	width  int
	height int
}

var _ Context = new(svgContext)

func (s *svgContext) Size() (int, int) {
	return s.width, s.height
}

func (s *svgContext) Resize(width, height int) {
	// document size is fixed once started
}

func (s *svgContext) Clear() {
	s.svg.Rect(0, 0, s.width, s.height, "fill:#ffffff")
}

func (s *svgContext) SetBackground(color string) {
	s.svg.Rect(0, 0, s.width, s.height, "fill:"+color)
}

func (s *svgContext) Stroke() {
	d := s.pathData(false)
	if d == "" {
		return
	}
	s.svg.Path(d, fmt.Sprintf(
		"fill:none;stroke:%s;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round",
		s.StrokeStyle,
		formatFloat(s.LineWidth),
	))
}

func (s *svgContext) Fill() {
	d := s.pathData(true)
	if d == "" {
		return
	}
	s.svg.Path(d, "fill-rule:nonzero;stroke:none;fill:"+s.FillStyle)
}

func (s *svgContext) FillText(text string, x, y float64) {
	s.svg.Text(int(x), int(y), text, fmt.Sprintf("fill:%s;font:%s", s.FillStyle, s.Font))
}

func (s *svgContext) pathData(close bool) string {
	buf := new(strings.Builder)
	for _, line := range s.Polylines() {
		for i, p := range line {
			if i == 0 {
				buf.WriteString("M")
			} else {
				buf.WriteString(" L")
			}
			buf.WriteString(formatFloat(p.X))
			buf.WriteString(" ")
			buf.WriteString(formatFloat(p.Y))
		}
		if close {
			buf.WriteString(" Z")
		}
		buf.WriteString(" ")
	}
	return strings.TrimSpace(buf.String())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
