package geoms

import "math"

// Arc is a circular arc in canvas space. Start and End are canvas angles in
// radians (measured from +x towards +y, i.e. clockwise on screen), with the
// same meaning as the HTML canvas arc() call. When Anticlockwise is set the
// arc sweeps from Start to End through decreasing angles.
type Arc struct {
	Center        Point
	Radius        float64
	Start         float64
	End           float64
	Anticlockwise bool
}

// TurtleArc computes the arc a turtle at pos with the given logical heading
// traces for circle(radius, extent). A positive radius puts the center on the
// turtle's left, a negative one on its right. The returned heading delta is
// the change to apply to the turtle heading.
func TurtleArc(pos Point, heading, radius, extent float64) (arc Arc, headingDelta float64) {
	direction := 1.0
	if radius < 0 {
		direction = -1
	}
	r := math.Abs(radius)
	center := Advance(pos, heading+direction*90, r)
	start := math.Atan2(pos.Y-center.Y, pos.X-center.X)
	// logical counter-clockwise is canvas clockwise-negative
	turn := direction * extent
	end := start - Radians(turn)
	return Arc{
		Center:        center,
		Radius:        r,
		Start:         start,
		End:           end,
		Anticlockwise: turn > 0,
	}, turn
}

func (a Arc) PointAt(angle float64) Point {
	return Point{
		X: a.Center.X + math.Cos(angle)*a.Radius,
		Y: a.Center.Y + math.Sin(angle)*a.Radius,
	}
}

func (a Arc) StartPoint() Point {
	return a.PointAt(a.Start)
}

func (a Arc) EndPoint() Point {
	return a.PointAt(a.End)
}

// Sweep is the signed angle travelled, in radians.
func (a Arc) Sweep() float64 {
	return a.End - a.Start
}

func (a Arc) Length() float64 {
	return math.Abs(a.Sweep()) * a.Radius
}

// Split cuts the arc into n consecutive arcs of equal sweep.
func (a Arc) Split(n int) []Arc {
	if n < 1 {
		n = 1
	}
	sweep := a.Sweep()
	ret := make([]Arc, 0, n)
	for i := range n {
		ret = append(ret, Arc{
			Center:        a.Center,
			Radius:        a.Radius,
			Start:         a.Start + sweep*float64(i)/float64(n),
			End:           a.Start + sweep*float64(i+1)/float64(n),
			Anticlockwise: a.Anticlockwise,
		})
	}
	return ret
}

// Flatten approximates the arc with a polyline whose chords are at most
// maxStep pixels long. The first point is the start point.
func (a Arc) Flatten(maxStep float64) []Point {
	if maxStep <= 0 {
		maxStep = 2
	}
	n := int(math.Ceil(a.Length() / maxStep))
	if n < 1 || math.IsNaN(a.Length()) {
		n = 1
	}
	if n > 4096 {
		n = 4096
	}
	sweep := a.Sweep()
	points := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		points = append(points, a.PointAt(a.Start+sweep*float64(i)/float64(n)))
	}
	return points
}
