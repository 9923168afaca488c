package geoms

import "math"

// Point is a position in canvas space unless stated otherwise
type Point struct {
	X float64
	Y float64
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Lerp returns the point at fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Frame maps between the logical turtle plane (origin at the canvas center,
// y growing upwards) and canvas pixels (origin top-left, y growing downwards).
type Frame struct {
	Width  float64
	Height float64
}

func (f Frame) Center() Point {
	return Point{X: f.Width / 2, Y: f.Height / 2}
}

func (f Frame) ToCanvas(logical Point) Point {
	return Point{
		X: logical.X + f.Width/2,
		Y: f.Height/2 - logical.Y,
	}
}

func (f Frame) ToLogical(canvas Point) Point {
	return Point{
		X: canvas.X - f.Width/2,
		Y: f.Height/2 - canvas.Y,
	}
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
