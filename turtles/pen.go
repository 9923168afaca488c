package turtles

import (
	"math"
	"time"

	"github.com/reusee/turtleplay/canvases"
)

func (e *Engine) PenUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PenDown = false
}

func (e *Engine) PenDown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PenDown = true
}

func (e *Engine) IsDown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.PenDown
}

// Color sets both the pen and the fill color.
func (e *Engine) Color(color string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PenColor = color
	e.state.FillColor = color
}

func (e *Engine) PenColor(color string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PenColor = color
}

func (e *Engine) FillColor(color string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.FillColor = color
}

// Colors returns the pen and fill colors.
func (e *Engine) Colors() (pen, fill string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.PenColor, e.state.FillColor
}

// BgColor changes the background behind the drawing. Empty returns the
// current one unchanged.
func (e *Engine) BgColor(color string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if color == "" {
		return e.state.Background
	}
	e.state.Background = color
	e.scheduler.Do(false, func(ctx canvases.Context) {
		ctx.SetBackground(color)
	})
	return color
}

func (e *Engine) Width(width float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PenWidth = width
}

func (e *Engine) PenSize(width float64) {
	e.Width(width)
}

func (e *Engine) PenWidth() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.PenWidth
}

func clampSpeed(speed float64) float64 {
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0
	}
	return min(max(speed, 0), DefaultSpeed)
}

// Speed sets the animation speed. Values are clamped to 0..10 and
// non-finite values mean 0, which paints instantly.
func (e *Engine) Speed(speed float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Speed = clampSpeed(speed)
	e.scheduler.SetPace(e.state.pace())
}

func (e *Engine) GetSpeed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Speed
}

// Tracer turns animation off with 0 and on with anything else.
func (e *Engine) Tracer(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Tracer = n
	e.scheduler.SetPace(e.state.pace())
}

// Delay adds to the interval between animation steps. Negative means 0.
func (e *Engine) Delay(delay time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Delay = max(delay, 0)
	e.scheduler.SetPace(e.state.pace())
}

func (e *Engine) Shape(shape string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Shape = shape
}

func (e *Engine) ShowTurtle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Visible = true
}

func (e *Engine) HideTurtle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Visible = false
}

func (e *Engine) IsVisible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Visible
}

func (e *Engine) Title(title string) {
	e.mu.Lock()
	e.state.Title = title
	onTitle := e.onTitle
	e.mu.Unlock()
	if onTitle != nil && title != "" {
		onTitle(title)
	}
}
