package turtles

import "sync"

type KeyEvent struct {
	Phase KeyPhase
	Key   string
}

type MousePhase string

const (
	MouseClick   MousePhase = "click"
	MouseRelease MousePhase = "release"
)

// MouseEvent carries canvas pixel coordinates.
type MouseEvent struct {
	Phase MousePhase
	X     float64
	Y     float64
}

type EventSink interface {
	DispatchKey(KeyEvent) bool
	DispatchMouse(MouseEvent) bool
}

// EventSource delivers input events to subscribed sinks until the
// subscription is closed.
type EventSource interface {
	Subscribe(sink EventSink) *Subscription
}

type Subscription struct {
	once    sync.Once
	onClose func()
	closed  chan struct{}
}

func NewSubscription(onClose func()) *Subscription {
	return &Subscription{
		onClose: onClose,
		closed:  make(chan struct{}),
	}
}

// Close detaches the sink. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.closed)
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// Closed is closed after Close.
func (s *Subscription) Closed() <-chan struct{} {
	return s.closed
}

// EventHub is an EventSource fed by hand, by a transport or a terminal.
type EventHub struct {
	mu    sync.Mutex
	sinks map[*Subscription]EventSink
}

var _ EventSource = new(EventHub)

func NewEventHub() *EventHub {
	return &EventHub{
		sinks: make(map[*Subscription]EventSink),
	}
}

func (h *EventHub) Subscribe(sink EventSink) *Subscription {
	var sub *Subscription
	sub = NewSubscription(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.sinks, sub)
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks[sub] = sink
	return sub
}

// Subscribers returns the number of attached sinks.
func (h *EventHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sinks)
}

func (h *EventHub) snapshot() []EventSink {
	h.mu.Lock()
	defer h.mu.Unlock()
	ret := make([]EventSink, 0, len(h.sinks))
	for _, sink := range h.sinks {
		ret = append(ret, sink)
	}
	return ret
}

// PublishKey delivers ev to every sink and reports whether any handled it.
func (h *EventHub) PublishKey(ev KeyEvent) bool {
	handled := false
	for _, sink := range h.snapshot() {
		if sink.DispatchKey(ev) {
			handled = true
		}
	}
	return handled
}

func (h *EventHub) PublishMouse(ev MouseEvent) bool {
	handled := false
	for _, sink := range h.snapshot() {
		if sink.DispatchMouse(ev) {
			handled = true
		}
	}
	return handled
}
