package canvases

// Tee forwards every call to all of its contexts. Size reports the first one.
type Tee []Context

var _ Context = Tee{}

func (t Tee) Size() (int, int) {
	if len(t) == 0 {
		return 0, 0
	}
	return t[0].Size()
}

func (t Tee) Resize(width, height int) {
	for _, c := range t {
		c.Resize(width, height)
	}
}

func (t Tee) Clear() {
	for _, c := range t {
		c.Clear()
	}
}

func (t Tee) SetBackground(color string) {
	for _, c := range t {
		c.SetBackground(color)
	}
}

func (t Tee) BeginPath() {
	for _, c := range t {
		c.BeginPath()
	}
}

func (t Tee) MoveTo(x, y float64) {
	for _, c := range t {
		c.MoveTo(x, y)
	}
}

func (t Tee) LineTo(x, y float64) {
	for _, c := range t {
		c.LineTo(x, y)
	}
}

func (t Tee) Arc(cx, cy, radius, start, end float64, anticlockwise bool) {
	for _, c := range t {
		c.Arc(cx, cy, radius, start, end, anticlockwise)
	}
}

func (t Tee) ClosePath() {
	for _, c := range t {
		c.ClosePath()
	}
}

func (t Tee) SetStrokeStyle(color string) {
	for _, c := range t {
		c.SetStrokeStyle(color)
	}
}

func (t Tee) SetFillStyle(color string) {
	for _, c := range t {
		c.SetFillStyle(color)
	}
}

func (t Tee) SetLineWidth(width float64) {
	for _, c := range t {
		c.SetLineWidth(width)
	}
}

func (t Tee) SetFont(font string) {
	for _, c := range t {
		c.SetFont(font)
	}
}

func (t Tee) Stroke() {
	for _, c := range t {
		c.Stroke()
	}
}

func (t Tee) Fill() {
	for _, c := range t {
		c.Fill()
	}
}

func (t Tee) FillText(text string, x, y float64) {
	for _, c := range t {
		c.FillText(text, x, y)
	}
}
