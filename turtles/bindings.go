package turtles

import (
	"time"

	"github.com/reusee/turtleplay/geoms"
)

func (e *Engine) bindKeyLocked(phase KeyPhase, handler func(), key string) {
	name := NormalizeKey(key)
	if handler == nil {
		delete(e.keyHandlers[phase], name)
		return
	}
	if e.keyHandlers == nil {
		e.keyHandlers = make(map[KeyPhase]map[string]func())
	}
	if e.keyHandlers[phase] == nil {
		e.keyHandlers[phase] = make(map[string]func())
	}
	e.keyHandlers[phase][name] = handler
}

// OnKeyPress binds handler to key presses. A nil handler removes the binding.
func (e *Engine) OnKeyPress(handler func(), key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bindKeyLocked(KeyDown, handler, key)
}

func (e *Engine) OnKey(handler func(), key string) {
	e.OnKeyPress(handler, key)
}

func (e *Engine) OnKeyRelease(handler func(), key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bindKeyLocked(KeyUp, handler, key)
}

// OnScreenClick binds handler to clicks, with logical coordinates. Mouse
// events are delivered without Listen.
func (e *Engine) OnScreenClick(handler func(x, y float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clickHandler = handler
	if handler != nil {
		e.subscribeLocked()
	}
}

func (e *Engine) OnClick(handler func(x, y float64)) {
	e.OnScreenClick(handler)
}

func (e *Engine) OnRelease(handler func(x, y float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseHandler = handler
	if handler != nil {
		e.subscribeLocked()
	}
}

// OnTimer calls handler once after delay, unless the turtle is reset first.
func (e *Engine) OnTimer(handler func(), delay time.Duration) {
	if handler == nil {
		return
	}
	e.mu.Lock()
	gen := e.timerGen
	e.mu.Unlock()
	e.driver.After(max(delay, 0), func() {
		e.mu.Lock()
		stale := gen != e.timerGen
		e.mu.Unlock()
		if stale {
			return
		}
		handler()
	})
}

func (e *Engine) subscribeLocked() *Subscription {
	if e.subscription != nil {
		select {
		case <-e.subscription.Closed():
			e.subscription = nil
		default:
			return e.subscription
		}
	}
	e.subscription = e.events.Subscribe(e)
	return e.subscription
}

// Listen starts delivering key events to the key bindings. The engine is
// subscribed to its event source once; later calls return the same
// subscription.
func (e *Engine) Listen() *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listening = true
	return e.subscribeLocked()
}

// Mainloop does not block, it only makes sure events are delivered.
func (e *Engine) Mainloop() {
	e.Listen()
}

func (e *Engine) Done() {
	e.Listen()
}

func (e *Engine) Listening() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listening
}

// DispatchKey runs the handler bound to the event's key, if the engine is
// listening. It reports whether a handler ran.
func (e *Engine) DispatchKey(ev KeyEvent) bool {
	e.mu.Lock()
	var handler func()
	if e.listening {
		handler = e.keyHandlers[ev.Phase][NormalizeKey(ev.Key)]
	}
	e.mu.Unlock()
	if handler == nil {
		return false
	}
	handler()
	return true
}

// DispatchMouse converts the canvas position to logical coordinates and
// runs the bound handler.
func (e *Engine) DispatchMouse(ev MouseEvent) bool {
	e.mu.Lock()
	var handler func(x, y float64)
	switch ev.Phase {
	case MouseClick:
		handler = e.clickHandler
	case MouseRelease:
		handler = e.releaseHandler
	}
	p := e.frame.ToLogical(geoms.Point{X: ev.X, Y: ev.Y})
	e.mu.Unlock()
	if handler == nil {
		return false
	}
	handler(p.X, p.Y)
	return true
}
