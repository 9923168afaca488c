package consoles

import (
	"context"
	"strings"
	"sync"
)

type EventKind string

const (
	EventOutput  EventKind = "output"
	EventWaiting EventKind = "waiting"
	EventIdle    EventKind = "idle"
	EventClear   EventKind = "clear"
)

// Event is what a front end needs to mirror the console.
type Event struct {
	Kind  EventKind
	Text  string
	Error bool
}

type request struct {
	prompt string
	reply  chan string
}

// Console is a line console with at most one outstanding input request.
type Console struct {
	mu       sync.Mutex
	output   strings.Builder
	listener func(Event)
	pending  *request
}

func New() *Console {
	return new(Console)
}

// Listen installs fn to receive every event. Pass nil to remove. fn runs on
// the goroutine that caused the event, so it may be called concurrently, and
// it is called without the console lock held, so it may call back into the
// console.
func (c *Console) Listen(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = fn
}

func (c *Console) emit(listener func(Event), ev Event) {
	if listener != nil {
		listener(ev)
	}
}

func (c *Console) append(text string, isError bool) {
	c.mu.Lock()
	c.output.WriteString(text)
	listener := c.listener
	c.mu.Unlock()
	c.emit(listener, Event{
		Kind:  EventOutput,
		Text:  text,
		Error: isError,
	})
}

// Write appends p to the output. It never fails.
func (c *Console) Write(p []byte) (int, error) {
	c.append(string(p), false)
	return len(p), nil
}

func (c *Console) Print(text string) {
	c.append(text, false)
}

// Error appends an error line.
func (c *Console) Error(text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	c.append(text, true)
}

// Output returns everything written since the last Clear.
func (c *Console) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output.String()
}

func (c *Console) Clear() {
	c.mu.Lock()
	c.output.Reset()
	listener := c.listener
	c.mu.Unlock()
	c.emit(listener, Event{
		Kind: EventClear,
	})
}

// ReadLine waits for SubmitInput. A request still outstanding is resolved
// with an empty line first. It returns early with the context error.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		prompt = ">"
	}
	req := &request{
		prompt: prompt,
		reply:  make(chan string, 1),
	}

	c.mu.Lock()
	stale := c.pending
	c.pending = req
	listener := c.listener
	c.mu.Unlock()
	if stale != nil {
		stale.reply <- ""
	}
	c.emit(listener, Event{
		Kind: EventWaiting,
		Text: prompt,
	})

	select {
	case line := <-req.reply:
		return line, nil
	case <-ctx.Done():
		c.mu.Lock()
		if c.pending == req {
			c.pending = nil
		}
		listener := c.listener
		c.mu.Unlock()
		c.emit(listener, Event{
			Kind: EventIdle,
		})
		return "", ctx.Err()
	}
}

// Waiting returns the prompt of the outstanding request.
func (c *Console) Waiting() (prompt string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return "", false
	}
	return c.pending.prompt, true
}

// SubmitInput answers the outstanding request and echoes the line. It
// reports false when nothing is waiting.
func (c *Console) SubmitInput(line string) bool {
	c.mu.Lock()
	req := c.pending
	c.pending = nil
	c.mu.Unlock()
	if req == nil {
		return false
	}
	c.append(line+"\n", false)
	c.mu.Lock()
	listener := c.listener
	c.mu.Unlock()
	c.emit(listener, Event{
		Kind: EventIdle,
	})
	req.reply <- line
	return true
}

// Reset resolves an outstanding request with an empty line.
func (c *Console) Reset() {
	c.mu.Lock()
	req := c.pending
	c.pending = nil
	listener := c.listener
	c.mu.Unlock()
	if req == nil {
		return
	}
	req.reply <- ""
	c.emit(listener, Event{
		Kind: EventIdle,
	})
}
