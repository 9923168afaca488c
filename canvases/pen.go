package canvases

// Pen holds the style half of Context.
type Pen struct {
	StrokeStyle string
	FillStyle   string
	LineWidth   float64
	Font        string
}

func DefaultPen() Pen {
	return Pen{
		StrokeStyle: "#000000",
		FillStyle:   "#000000",
		LineWidth:   1,
		Font:        "10px sans-serif",
	}
}

func (p *Pen) SetStrokeStyle(color string) {
	p.StrokeStyle = color
}

func (p *Pen) SetFillStyle(color string) {
	p.FillStyle = color
}

func (p *Pen) SetLineWidth(width float64) {
	p.LineWidth = width
}

func (p *Pen) SetFont(font string) {
	p.Font = font
}
