package geoms

// Path accumulates the outline of a fill region: a list of subpaths, each
// starting at a point and continuing with line or arc elements.
type Path struct {
	Subpaths []Subpath
}

type Subpath struct {
	Start    Point
	Elements []Element
}

// Element is either a straight line to To, or an arc when Arc is non-nil.
// Arc elements are joined to the previous point with a straight line, as
// canvas arc() calls are.
type Element struct {
	To  Point
	Arc *Arc
}

func (p *Path) MoveTo(pt Point) {
	p.Subpaths = append(p.Subpaths, Subpath{
		Start: pt,
	})
}

func (p *Path) LineTo(pt Point) {
	if len(p.Subpaths) == 0 {
		p.MoveTo(pt)
		return
	}
	last := &p.Subpaths[len(p.Subpaths)-1]
	last.Elements = append(last.Elements, Element{
		To: pt,
	})
}

func (p *Path) ArcTo(arc Arc) {
	if len(p.Subpaths) == 0 {
		p.MoveTo(arc.StartPoint())
	}
	last := &p.Subpaths[len(p.Subpaths)-1]
	last.Elements = append(last.Elements, Element{
		To:  arc.EndPoint(),
		Arc: &arc,
	})
}

func (p Path) Empty() bool {
	for _, sub := range p.Subpaths {
		if len(sub.Elements) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy, so queued paint actions never observe later
// mutation of the live path.
func (p Path) Clone() Path {
	ret := Path{
		Subpaths: make([]Subpath, 0, len(p.Subpaths)),
	}
	for _, sub := range p.Subpaths {
		elems := make([]Element, len(sub.Elements))
		for i, e := range sub.Elements {
			elems[i] = e
			if e.Arc != nil {
				arc := *e.Arc
				elems[i].Arc = &arc
			}
		}
		ret.Subpaths = append(ret.Subpaths, Subpath{
			Start:    sub.Start,
			Elements: elems,
		})
	}
	return ret
}

// Polygons flattens every subpath into a closed polygon.
func (p Path) Polygons(maxStep float64) [][]Point {
	var ret [][]Point
	for _, sub := range p.Subpaths {
		points := []Point{sub.Start}
		for _, e := range sub.Elements {
			if e.Arc != nil {
				points = append(points, e.Arc.Flatten(maxStep)...)
				continue
			}
			points = append(points, e.To)
		}
		if len(points) >= 3 {
			ret = append(ret, points)
		}
	}
	return ret
}
