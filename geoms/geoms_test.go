package geoms

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func nearPoint(a, b Point) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func TestFrameRoundTrip(t *testing.T) {
	frame := Frame{Width: 400, Height: 300}
	for _, p := range []Point{
		{0, 0},
		{-50, 20},
		{120.5, -99.25},
		{-200, -150},
	} {
		got := frame.ToLogical(frame.ToCanvas(p))
		if !nearPoint(got, p) {
			t.Fatalf("got %v, want %v", got, p)
		}
	}
	if c := frame.ToCanvas(Point{}); c != frame.Center() {
		t.Fatalf("got %v", c)
	}
	if c := frame.ToCanvas(Point{X: 0, Y: 10}); c.Y != 140 {
		t.Fatalf("y axis not inverted: %v", c)
	}
}

func TestNormalizeHeading(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-720, 0},
	}
	for _, c := range cases {
		if got := NormalizeHeading(c.in); !near(got, c.want) {
			t.Errorf("NormalizeHeading(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAdvance(t *testing.T) {
	p := Advance(Point{100, 100}, 90, 10)
	if !nearPoint(p, Point{100, 90}) {
		t.Fatalf("heading 90 should move up on screen, got %v", p)
	}
	p = Advance(Point{100, 100}, 0, -10)
	if !nearPoint(p, Point{90, 100}) {
		t.Fatalf("got %v", p)
	}
}

func TestHeadingTowards(t *testing.T) {
	if h := HeadingTowards(Point{0, 0}, Point{0, -10}); !near(h, 90) {
		t.Fatalf("got %v", h)
	}
	if h := HeadingTowards(Point{0, 0}, Point{-10, 0}); !near(h, 180) {
		t.Fatalf("got %v", h)
	}
}

func TestSegmentSplit(t *testing.T) {
	seg := Segment{From: Point{0, 0}, To: Point{10, 0}}
	parts := seg.Split(4)
	if len(parts) != 4 {
		t.Fatalf("got %d", len(parts))
	}
	if parts[0].From != seg.From || parts[3].To != seg.To {
		t.Fatalf("endpoints not preserved: %v", parts)
	}
	for i := 1; i < len(parts); i++ {
		if parts[i].From != parts[i-1].To {
			t.Fatalf("gap at %d", i)
		}
	}
	if len(seg.Split(0)) != 1 {
		t.Fatal("n < 1 should yield a single piece")
	}
}

func TestTurtleArcLeft(t *testing.T) {
	arc, delta := TurtleArc(Point{0, 0}, 0, 10, 90)
	if delta != 90 {
		t.Fatalf("got %v", delta)
	}
	if !arc.Anticlockwise {
		t.Fatal("left turn should sweep anticlockwise on canvas")
	}
	if !nearPoint(arc.Center, Point{0, -10}) {
		t.Fatalf("center %v", arc.Center)
	}
	if !nearPoint(arc.StartPoint(), Point{0, 0}) {
		t.Fatalf("start %v", arc.StartPoint())
	}
	if !nearPoint(arc.EndPoint(), Point{10, -10}) {
		t.Fatalf("end %v", arc.EndPoint())
	}
	if !near(arc.Length(), math.Pi*5) {
		t.Fatalf("length %v", arc.Length())
	}
}

func TestTurtleArcRight(t *testing.T) {
	arc, delta := TurtleArc(Point{0, 0}, 0, -10, 90)
	if delta != -90 {
		t.Fatalf("got %v", delta)
	}
	if arc.Anticlockwise {
		t.Fatal("right turn should sweep clockwise on canvas")
	}
	if !nearPoint(arc.EndPoint(), Point{10, 10}) {
		t.Fatalf("end %v", arc.EndPoint())
	}
}

func TestTurtleArcFullCircle(t *testing.T) {
	arc, _ := TurtleArc(Point{5, 5}, 30, 20, 360)
	if !nearPoint(arc.EndPoint(), Point{5, 5}) {
		t.Fatalf("full circle should return to start, got %v", arc.EndPoint())
	}
	parts := arc.Split(8)
	if !near(parts[7].End, arc.End) || !near(parts[0].Start, arc.Start) {
		t.Fatal("split endpoints")
	}
	points := arc.Flatten(3)
	if !nearPoint(points[0], arc.StartPoint()) || !nearPoint(points[len(points)-1], arc.EndPoint()) {
		t.Fatal("flatten endpoints")
	}
}

func TestPathClone(t *testing.T) {
	var p Path
	p.MoveTo(Point{0, 0})
	p.LineTo(Point{10, 0})
	arc, _ := TurtleArc(Point{10, 0}, 90, 5, 180)
	p.ArcTo(arc)
	clone := p.Clone()
	p.Subpaths[0].Elements[1].Arc.Radius = 99
	p.LineTo(Point{1, 1})
	if clone.Subpaths[0].Elements[1].Arc.Radius != 5 {
		t.Fatal("clone shares arc")
	}
	if len(clone.Subpaths[0].Elements) != 2 {
		t.Fatal("clone shares elements")
	}
	if clone.Empty() {
		t.Fatal()
	}
	polys := clone.Polygons(2)
	if len(polys) != 1 {
		t.Fatalf("got %d polygons", len(polys))
	}
}

func TestEmptyPath(t *testing.T) {
	var p Path
	if !p.Empty() {
		t.Fatal()
	}
	p.MoveTo(Point{1, 1})
	if !p.Empty() {
		t.Fatal("a lone move is empty")
	}
	if len(p.Polygons(1)) != 0 {
		t.Fatal()
	}
}
