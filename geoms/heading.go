package geoms

import "math"

func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// NormalizeHeading folds a heading into [0, 360).
// Non-finite values are returned unchanged.
func NormalizeHeading(degrees float64) float64 {
	h := math.Mod(degrees, 360)
	if h < 0 {
		h += 360
	}
	if h == 360 {
		// -tiny + 360 rounds up
		h = 0
	}
	return h
}

// Advance moves a canvas-space point along a logical heading.
// Heading 0 points east and grows counter-clockwise on screen, so the y
// component is inverted for the canvas.
func Advance(p Point, heading float64, distance float64) Point {
	rad := Radians(heading)
	return Point{
		X: p.X + math.Cos(rad)*distance,
		Y: p.Y - math.Sin(rad)*distance,
	}
}

// HeadingTowards returns the logical heading from a to b, both in canvas space.
func HeadingTowards(a, b Point) float64 {
	return NormalizeHeading(Degrees(math.Atan2(a.Y-b.Y, b.X-a.X)))
}
