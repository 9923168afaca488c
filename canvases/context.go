package canvases

// Context is an immediate-mode 2D drawing surface shaped after the HTML
// canvas 2D context. Coordinates are canvas pixels, angles are radians.
// Implementations are not safe for concurrent use.
type Context interface {
	Size() (width, height int)
	Resize(width, height int)
	Clear()
	SetBackground(color string)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(cx, cy, radius, start, end float64, anticlockwise bool)
	ClosePath()

	SetStrokeStyle(color string)
	SetFillStyle(color string)
	SetLineWidth(width float64)
	SetFont(font string)

	Stroke()
	Fill()
	FillText(text string, x, y float64)
}
