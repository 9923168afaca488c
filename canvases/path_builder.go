package canvases

import (
	"math"

	"github.com/reusee/turtleplay/geoms"
)

// arcStep is the chord length used when flattening arcs, in pixels
const arcStep = 2.0

// PathBuilder implements the path half of Context by flattening everything
// into polylines. Back ends that cannot consume curves embed it.
type PathBuilder struct {
	subpaths [][]geoms.Point
	closed   []bool
}

func (b *PathBuilder) BeginPath() {
	b.subpaths = b.subpaths[:0]
	b.closed = b.closed[:0]
}

func (b *PathBuilder) MoveTo(x, y float64) {
	b.subpaths = append(b.subpaths, []geoms.Point{{X: x, Y: y}})
	b.closed = append(b.closed, false)
}

func (b *PathBuilder) LineTo(x, y float64) {
	if len(b.subpaths) == 0 {
		b.MoveTo(x, y)
		return
	}
	i := len(b.subpaths) - 1
	b.subpaths[i] = append(b.subpaths[i], geoms.Point{X: x, Y: y})
}

func (b *PathBuilder) Arc(cx, cy, radius, start, end float64, anticlockwise bool) {
	arc := geoms.Arc{
		Center:        geoms.Point{X: cx, Y: cy},
		Radius:        math.Abs(radius),
		Start:         start,
		End:           start + canvasSweep(start, end, anticlockwise),
		Anticlockwise: anticlockwise,
	}
	points := arc.Flatten(arcStep)
	if len(b.subpaths) == 0 {
		b.MoveTo(points[0].X, points[0].Y)
		points = points[1:]
	}
	for _, p := range points {
		b.LineTo(p.X, p.Y)
	}
}

func (b *PathBuilder) ClosePath() {
	if len(b.closed) == 0 {
		return
	}
	b.closed[len(b.closed)-1] = true
}

// Polylines returns the current subpaths. Closed subpaths repeat their
// first point at the end.
func (b *PathBuilder) Polylines() [][]geoms.Point {
	ret := make([][]geoms.Point, 0, len(b.subpaths))
	for i, sub := range b.subpaths {
		if len(sub) == 0 {
			continue
		}
		line := sub
		if b.closed[i] {
			line = append(line[:len(line):len(line)], sub[0])
		}
		ret = append(ret, line)
	}
	return ret
}

// canvasSweep follows the HTML canvas rules for arc(): the sweep goes in the
// requested direction and a difference of a full turn or more draws a full circle.
func canvasSweep(start, end float64, anticlockwise bool) float64 {
	const tau = 2 * math.Pi
	if anticlockwise {
		diff := start - end
		if diff >= tau {
			return -tau
		}
		diff = math.Mod(diff, tau)
		if diff < 0 {
			diff += tau
		}
		return -diff
	}
	diff := end - start
	if diff >= tau {
		return tau
	}
	diff = math.Mod(diff, tau)
	if diff < 0 {
		diff += tau
	}
	return diff
}
