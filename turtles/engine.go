package turtles

import (
	"math"
	"sync"

	"github.com/reusee/turtleplay/canvases"
	"github.com/reusee/turtleplay/geoms"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/schedulers"
)

type Options struct {
	// Canvas defaults to a Recorder
	Canvas canvases.Context
	Width  int
	Height int
	// Speed after reset, nil for DefaultSpeed
	Speed   *float64
	Driver  schedulers.Driver
	Events  EventSource
	Logger  logs.Logger
	OnTitle func(string)
}

// Engine is one turtle bound to one canvas. All public coordinates are
// logical and all angles are degrees. Methods are safe for concurrent use;
// event handlers are called without any engine lock held.
type Engine struct {
	mu        sync.Mutex
	frame     geoms.Frame
	state     State
	speed     float64
	scheduler *schedulers.Scheduler
	driver    schedulers.Driver
	events    EventSource
	logger    logs.Logger
	onTitle   func(string)

	subscription   *Subscription
	listening      bool
	keyHandlers    map[KeyPhase]map[string]func()
	clickHandler   func(x, y float64)
	releaseHandler func(x, y float64)
	timerGen       uint64
}

var _ EventSink = new(Engine)

func New(opts Options) *Engine {
	width := opts.Width
	if width <= 0 {
		width = DefaultCanvasWidth
	}
	height := opts.Height
	if height <= 0 {
		height = DefaultCanvasHeight
	}
	canvas := opts.Canvas
	if canvas == nil {
		canvas = canvases.NewRecorder(width, height)
	}
	driver := opts.Driver
	if driver == nil {
		driver = schedulers.TimerDriver{}
	}
	events := opts.Events
	if events == nil {
		events = NewEventHub()
	}
	speed := float64(DefaultSpeed)
	if opts.Speed != nil {
		speed = clampSpeed(*opts.Speed)
	}

	e := &Engine{
		speed:     speed,
		scheduler: schedulers.New(canvas, driver),
		driver:    driver,
		events:    events,
		logger:    opts.Logger,
		onTitle:   opts.OnTitle,
	}
	e.Setup(width, height)
	return e
}

// Scheduler exposes the paint queue.
func (e *Engine) Scheduler() *schedulers.Scheduler {
	return e.scheduler
}

// State returns a snapshot of the turtle.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Setup resizes the canvas and resets the turtle.
func (e *Engine) Setup(width, height int) {
	width = max(width, 1)
	height = max(height, 1)
	e.mu.Lock()
	e.frame = geoms.Frame{
		Width:  float64(width),
		Height: float64(height),
	}
	e.mu.Unlock()
	e.scheduler.Do(true, func(ctx canvases.Context) {
		ctx.Resize(width, height)
	})
	e.Reset()
	if e.logger != nil {
		e.logger.Debug("turtle setup", "width", width, "height", height)
	}
}

func (e *Engine) ScreenSize() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int(e.frame.Width), int(e.frame.Height)
}

// Reset restores every default, drops bindings and erases the drawing.
// Animation still queued is cancelled.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = defaultState(e.frame, e.speed)
	e.dropBindingsLocked()
	e.scheduler.Do(true, func(ctx canvases.Context) {
		ctx.Clear()
		ctx.SetBackground(DefaultBackground)
	})
	e.scheduler.SetPace(e.state.pace())
}

// CancelRun ends what a program left behind without touching the drawing
// or the turtle: queued animation, pending timers and event bindings.
func (e *Engine) CancelRun() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dropBindingsLocked()
	e.scheduler.Reset()
}

func (e *Engine) dropBindingsLocked() {
	e.listening = false
	e.keyHandlers = nil
	e.clickHandler = nil
	e.releaseHandler = nil
	e.timerGen++
}

// Clear erases the drawing and cancels queued animation. Turtle state is kept.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scheduler.Do(true, func(ctx canvases.Context) {
		ctx.Clear()
	})
}

// Update paints everything still queued.
func (e *Engine) Update() {
	e.scheduler.Flush()
}

func (e *Engine) moveToLocked(target geoms.Point) {
	if !target.Finite() {
		return
	}
	from := e.state.Pos
	if e.state.FillActive {
		e.state.FillPath.LineTo(target)
	}
	if e.state.PenDown && from != target {
		style := e.state.style()
		segments := schedulers.SplitSegment(geoms.Segment{
			From: from,
			To:   target,
		}, e.state.pace())
		actions := make([]schedulers.Action, 0, len(segments))
		for _, seg := range segments {
			actions = append(actions, schedulers.SegmentAction(seg, style))
		}
		e.scheduler.Submit(actions...)
	}
	e.state.Pos = target
}

func (e *Engine) Forward(distance float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moveToLocked(geoms.Advance(e.state.Pos, e.state.Heading, distance))
}

func (e *Engine) Backward(distance float64) {
	e.Forward(-distance)
}

func (e *Engine) Left(angle float64) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Heading = geoms.NormalizeHeading(e.state.Heading + angle)
}

func (e *Engine) Right(angle float64) {
	e.Left(-angle)
}

func (e *Engine) Goto(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moveToLocked(e.frame.ToCanvas(geoms.Point{X: x, Y: y}))
}

func (e *Engine) SetX(x float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	target := e.frame.ToCanvas(geoms.Point{X: x})
	target.Y = e.state.Pos.Y
	e.moveToLocked(target)
}

func (e *Engine) SetY(y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	target := e.frame.ToCanvas(geoms.Point{Y: y})
	target.X = e.state.Pos.X
	e.moveToLocked(target)
}

// Home moves to the origin, drawing if the pen is down, and faces east.
func (e *Engine) Home() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moveToLocked(e.frame.Center())
	e.state.Heading = 0
}

func (e *Engine) Position() (x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.frame.ToLogical(e.state.Pos)
	return p.X, p.Y
}

func (e *Engine) XCor() float64 {
	x, _ := e.Position()
	return x
}

func (e *Engine) YCor() float64 {
	_, y := e.Position()
	return y
}

func (e *Engine) Distance(x, y float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Pos.Distance(e.frame.ToCanvas(geoms.Point{X: x, Y: y}))
}

// Towards returns the heading that points at the logical point (x, y).
func (e *Engine) Towards(x, y float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return geoms.HeadingTowards(e.state.Pos, e.frame.ToCanvas(geoms.Point{X: x, Y: y}))
}

func (e *Engine) Heading() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Heading
}

func (e *Engine) SetHeading(angle float64) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Heading = geoms.NormalizeHeading(angle)
}

// Circle draws an arc of the given radius through extent degrees. A
// positive radius turns left around a center on the turtle's left.
func (e *Engine) Circle(radius, extent float64) {
	if radius == 0 || math.IsNaN(radius) || math.IsInf(radius, 0) ||
		math.IsNaN(extent) || math.IsInf(extent, 0) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	arc, turn := geoms.TurtleArc(e.state.Pos, e.state.Heading, radius, extent)
	if e.state.FillActive {
		e.state.FillPath.ArcTo(arc)
	}
	if e.state.PenDown && extent != 0 {
		style := e.state.style()
		arcs := schedulers.SplitArc(arc, e.state.pace())
		actions := make([]schedulers.Action, 0, len(arcs))
		for _, a := range arcs {
			actions = append(actions, schedulers.ArcAction(a, style))
		}
		e.scheduler.Submit(actions...)
	}
	e.state.Pos = arc.EndPoint()
	e.state.Heading = geoms.NormalizeHeading(e.state.Heading + turn)
}
