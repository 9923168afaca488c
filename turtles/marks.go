package turtles

import (
	"slices"

	"github.com/reusee/turtleplay/geoms"
	"github.com/reusee/turtleplay/schedulers"
)

// BeginFill opens a fill region at the current position. Calling it while a
// region is open restarts the region here; regions never nest.
func (e *Engine) BeginFill() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.FillActive = true
	e.state.FillPath = geoms.Path{}
	e.state.FillPath.MoveTo(e.state.Pos)
}

// EndFill paints the open region with the fill color current now. Without
// an open region it does nothing.
func (e *Engine) EndFill() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.FillActive {
		return
	}
	path := e.state.FillPath
	e.state.FillActive = false
	e.state.FillPath = geoms.Path{}
	if path.Empty() {
		return
	}
	e.scheduler.Submit(schedulers.FillAction(path, e.state.FillColor))
}

func (e *Engine) Filling() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.FillActive
}

func defaultDotSize(width float64) float64 {
	return max(width+4, width*2)
}

// Dot paints a filled circle at the turtle. A size <= 0 picks a size from
// the pen width and an empty color uses the pen color.
func (e *Engine) Dot(size float64, color string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !(size > 0) {
		size = defaultDotSize(e.state.PenWidth)
	}
	if color == "" {
		color = e.state.PenColor
	}
	e.scheduler.Submit(schedulers.DotAction(e.state.Pos, size, color))
}

// Stamp records the turtle footprint and returns its id. Ids start at 1 and
// are not reused.
func (e *Engine) Stamp() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	stamp := Stamp{
		ID:    e.state.nextStampID,
		Pos:   e.state.Pos,
		Color: e.state.PenColor,
		Width: e.state.PenWidth,
	}
	e.state.nextStampID++
	e.state.Stamps = append(e.state.Stamps, stamp)
	e.scheduler.Submit(schedulers.DotAction(stamp.Pos, stamp.Width*2, stamp.Color))
	return stamp.ID
}

// ClearStamp forgets one stamp. Painted pixels stay, the canvas is immediate mode.
func (e *Engine) ClearStamp(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Stamps = slices.DeleteFunc(e.state.Stamps, func(s Stamp) bool {
		return s.ID == id
	})
}

func (e *Engine) ClearStamps() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Stamps = nil
}

func (e *Engine) Stamps() []Stamp {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.state.Stamps)
}

// Write paints text at the turtle in the pen color. The turtle does not move.
func (e *Engine) Write(text string, font string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if font == "" {
		font = DefaultFont
	}
	e.scheduler.Submit(schedulers.TextAction(e.state.Pos, text, font, e.state.PenColor))
}
