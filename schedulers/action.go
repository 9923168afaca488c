package schedulers

import (
	"github.com/reusee/turtleplay/canvases"
	"github.com/reusee/turtleplay/geoms"
)

type Kind uint8

const (
	KindSegment Kind = iota + 1
	KindArc
	KindFill
	KindDot
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindSegment:
		return "segment"
	case KindArc:
		return "arc"
	case KindFill:
		return "fill"
	case KindDot:
		return "dot"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Action is one paint operation. It is a value snapshot: geometry and style
// are captured when the action is built, so later turtle state changes do not
// affect it.
type Action struct {
	Kind       Kind
	Generation uint64

	Segment  geoms.Segment
	Arc      geoms.Arc
	Path     geoms.Path
	Center   geoms.Point
	Diameter float64
	Text     string
	Font     string
	Style    canvases.Style
}

func SegmentAction(seg geoms.Segment, style canvases.Style) Action {
	return Action{
		Kind:    KindSegment,
		Segment: seg,
		Style:   style,
	}
}

func ArcAction(arc geoms.Arc, style canvases.Style) Action {
	return Action{
		Kind:  KindArc,
		Arc:   arc,
		Style: style,
	}
}

func FillAction(path geoms.Path, color string) Action {
	return Action{
		Kind:  KindFill,
		Path:  path.Clone(),
		Style: canvases.Style{Color: color},
	}
}

func DotAction(center geoms.Point, diameter float64, color string) Action {
	return Action{
		Kind:     KindDot,
		Center:   center,
		Diameter: diameter,
		Style:    canvases.Style{Color: color},
	}
}

func TextAction(at geoms.Point, text string, font string, color string) Action {
	return Action{
		Kind:   KindText,
		Center: at,
		Text:   text,
		Font:   font,
		Style:  canvases.Style{Color: color},
	}
}

// Execute paints the action onto ctx.
func (a Action) Execute(ctx canvases.Context) {
	switch a.Kind {
	case KindSegment:
		canvases.DrawSegment(ctx, a.Segment, a.Style)
	case KindArc:
		canvases.DrawArc(ctx, a.Arc, a.Style)
	case KindFill:
		canvases.FillPath(ctx, a.Path, a.Style.Color)
	case KindDot:
		canvases.FillDot(ctx, a.Center, a.Diameter, a.Style.Color)
	case KindText:
		canvases.DrawText(ctx, a.Center, a.Text, a.Font, a.Style.Color)
	}
}
