package canvases

import (
	"math"

	"github.com/reusee/turtleplay/geoms"
)

type Style struct {
	Color string
	Width float64
}

// DrawSegment strokes a straight line.
func DrawSegment(ctx Context, seg geoms.Segment, style Style) {
	ctx.BeginPath()
	ctx.MoveTo(seg.From.X, seg.From.Y)
	ctx.LineTo(seg.To.X, seg.To.Y)
	ctx.SetStrokeStyle(style.Color)
	ctx.SetLineWidth(style.Width)
	ctx.Stroke()
}

// DrawArc strokes a circular arc.
func DrawArc(ctx Context, arc geoms.Arc, style Style) {
	start := arc.StartPoint()
	ctx.BeginPath()
	ctx.MoveTo(start.X, start.Y)
	ctx.Arc(arc.Center.X, arc.Center.Y, arc.Radius, arc.Start, arc.End, arc.Anticlockwise)
	ctx.SetStrokeStyle(style.Color)
	ctx.SetLineWidth(style.Width)
	ctx.Stroke()
}

// FillPath closes and fills every subpath of path.
func FillPath(ctx Context, path geoms.Path, color string) {
	ctx.BeginPath()
	for _, sub := range path.Subpaths {
		ctx.MoveTo(sub.Start.X, sub.Start.Y)
		for _, e := range sub.Elements {
			if e.Arc != nil {
				a := e.Arc
				ctx.Arc(a.Center.X, a.Center.Y, a.Radius, a.Start, a.End, a.Anticlockwise)
				continue
			}
			ctx.LineTo(e.To.X, e.To.Y)
		}
		ctx.ClosePath()
	}
	ctx.SetFillStyle(color)
	ctx.Fill()
}

// FillDot paints a filled circle of the given diameter.
func FillDot(ctx Context, center geoms.Point, diameter float64, color string) {
	r := math.Abs(diameter) / 2
	ctx.BeginPath()
	ctx.MoveTo(center.X+r, center.Y)
	ctx.Arc(center.X, center.Y, r, 0, 2*math.Pi, false)
	ctx.SetFillStyle(color)
	ctx.Fill()
}

// DrawText paints text with its baseline starting at at.
func DrawText(ctx Context, at geoms.Point, text string, font string, color string) {
	ctx.SetFillStyle(color)
	ctx.SetFont(font)
	ctx.FillText(text, at.X, at.Y)
}
