package terminals

import (
	"context"
	"errors"
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/reusee/turtleplay/canvases"
	"github.com/reusee/turtleplay/consoles"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/playgrounds"
	"github.com/reusee/turtleplay/projects"
	"github.com/reusee/turtleplay/turtles"
)

// consoleRows is the height of the console pane under the canvas.
const consoleRows = 6

type Options struct {
	Screen     tcell.Screen
	NewSession playgrounds.NewSession
	Width      int
	Height     int
	// Interval between redraws
	Interval time.Duration
	Logger   logs.Logger
}

// Terminal runs a project full screen: the drawing in braille cells on top,
// a status line, and the console below. Keys and mouse clicks go to the
// turtle unless the console waits for input.
type Terminal struct {
	screen   tcell.Screen
	canvas   *canvases.Raster
	events   *turtles.EventHub
	console  *consoles.Console
	session  *playgrounds.Session
	interval time.Duration
	logger   logs.Logger

	mu      sync.Mutex
	title   string
	status  string
	input   []rune
	pressed bool
}

func New(opts Options) *Terminal {
	t := &Terminal{
		screen:   opts.Screen,
		canvas:   canvases.NewRaster(opts.Width, opts.Height),
		events:   turtles.NewEventHub(),
		console:  consoles.New(),
		interval: opts.Interval,
		logger:   opts.Logger,
		title:    "turtleplay",
	}
	if t.interval <= 0 {
		t.interval = 50 * time.Millisecond
	}
	t.session = opts.NewSession(t.console, turtles.Surface{
		Canvas: t.canvas,
		Events: t.events,
		OnTitle: func(title string) {
			t.mu.Lock()
			t.title = title
			t.mu.Unlock()
		},
	})
	return t
}

func (t *Terminal) Session() *playgrounds.Session {
	return t.session
}

func (t *Terminal) setStatus(status string) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

// Run starts project and shows it until ctx is done or the user quits with
// ctrl-c or ctrl-q. The screen must be initialized.
func (t *Terminal) Run(ctx context.Context, project *projects.Project) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.setStatus("running")
	go func() {
		err := t.session.Run(ctx, project)
		switch {
		case errors.Is(err, playgrounds.ErrStopped), errors.Is(err, context.Canceled):
			t.setStatus("stopped")
		case err != nil:
			t.setStatus("failed")
		default:
			t.setStatus("done")
		}
	}()
	defer t.session.Stop()

	t.screen.EnableMouse()
	evCh := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go t.screen.ChannelEvents(evCh, quit)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	t.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-evCh:
			if ev == nil {
				return nil
			}
			if !t.Handle(ev) {
				return nil
			}
		case <-ticker.C:
			t.Draw()
		}
	}
}

// Handle processes one screen event. It reports false when the user quits.
func (t *Terminal) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.handleKey(ev)
	case *tcell.EventMouse:
		t.handleMouse(ev)
	case *tcell.EventResize:
		t.screen.Sync()
		t.Draw()
	}
	return true
}

func (t *Terminal) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return false
	}

	if _, waiting := t.console.Waiting(); waiting {
		t.mu.Lock()
		switch ev.Key() {
		case tcell.KeyEnter:
			line := string(t.input)
			t.input = t.input[:0]
			t.mu.Unlock()
			t.session.SubmitInput(line)
			return true
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(t.input) > 0 {
				t.input = t.input[:len(t.input)-1]
			}
		case tcell.KeyRune:
			t.input = append(t.input, ev.Rune())
		}
		t.mu.Unlock()
		return true
	}

	name := keyName(ev)
	if name == "" {
		return true
	}
	// terminals report no releases
	t.events.PublishKey(turtles.KeyEvent{
		Phase: turtles.KeyDown,
		Key:   name,
	})
	t.events.PublishKey(turtles.KeyEvent{
		Phase: turtles.KeyUp,
		Key:   name,
	})
	return true
}

var keyNames = map[tcell.Key]string{
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEnter:  "Return",
	tcell.KeyEscape: "Escape",
	tcell.KeyTab:    "Tab",
	tcell.KeyHome:   "Home",
	tcell.KeyEnd:    "End",
	tcell.KeyPgUp:   "Prior",
	tcell.KeyPgDn:   "Next",
	tcell.KeyDelete: "Delete",

	tcell.KeyBackspace:  "BackSpace",
	tcell.KeyBackspace2: "BackSpace",
}

// keyName maps a terminal key to the name turtle bindings use.
func keyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "space"
		}
		return string(ev.Rune())
	}
	return keyNames[ev.Key()]
}

func (t *Terminal) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	down := ev.Buttons()&tcell.Button1 != 0
	t.mu.Lock()
	wasDown := t.pressed
	t.pressed = down
	t.mu.Unlock()

	var phase turtles.MousePhase
	switch {
	case down && !wasDown:
		phase = turtles.MouseClick
	case !down && wasDown:
		phase = turtles.MouseRelease
	default:
		return
	}
	cols, canvasRows := t.canvasArea()
	if row >= canvasRows {
		return
	}
	width, height := t.canvasSize()
	x, y := newGrid(width, height, cols, canvasRows).pixel(col, row)
	t.events.PublishMouse(turtles.MouseEvent{
		Phase: phase,
		X:     x,
		Y:     y,
	})
}

func (t *Terminal) canvasArea() (cols, rows int) {
	cols, rows = t.screen.Size()
	return cols, max(rows-consoleRows-1, 1)
}

func (t *Terminal) canvasSize() (width, height int) {
	t.session.Engine().Scheduler().Do(false, func(canvases.Context) {
		width, height = t.canvas.Size()
	})
	return
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Draw repaints the whole screen.
func (t *Terminal) Draw() {
	cols, canvasRows := t.canvasArea()
	_, rows := t.screen.Size()

	// the canvas is only touched under the scheduler lock
	t.session.Engine().Scheduler().Do(false, func(canvases.Context) {
		width, height := t.canvas.Size()
		g := newGrid(width, height, cols, canvasRows)
		layer := t.canvas.Layer()
		bg := toColor(t.canvas.BackgroundColor())
		for row := range canvasRows {
			for col := range cols {
				r, ink, ok := g.cell(layer, col, row)
				style := tcell.StyleDefault.Background(bg)
				if ok {
					style = style.Foreground(toColor(ink))
				}
				t.screen.SetContent(col, row, r, nil, style)
			}
		}
	})

	t.mu.Lock()
	statusLine := t.title + " | " + t.status + " | ctrl-q quits"
	input := string(t.input)
	t.mu.Unlock()
	reverse := tcell.StyleDefault.Reverse(true)
	t.drawLine(canvasRows, cols, statusLine, reverse)

	lines := strings.Split(t.console.Output(), "\n")
	if prompt, waiting := t.console.Waiting(); waiting {
		last := lines[len(lines)-1]
		if !strings.HasSuffix(last, prompt) {
			last += prompt
		}
		lines[len(lines)-1] = last + input + "_"
	}
	if n := rows - canvasRows - 1; len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i := canvasRows + 1; i < rows; i++ {
		line := ""
		if j := i - canvasRows - 1; j < len(lines) {
			line = lines[j]
		}
		t.drawLine(i, cols, line, tcell.StyleDefault)
	}
	t.screen.Show()
}

func (t *Terminal) drawLine(row, cols int, text string, style tcell.Style) {
	runes := []rune(text)
	for col := range cols {
		r := ' '
		if col < len(runes) {
			r = runes[col]
		}
		t.screen.SetContent(col, row, r, nil, style)
	}
}
