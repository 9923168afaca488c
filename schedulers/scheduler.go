package schedulers

import (
	"sync"

	"github.com/reusee/turtleplay/canvases"
)

type State uint8

const (
	Idle State = iota
	Draining
)

func (s State) String() string {
	if s == Draining {
		return "draining"
	}
	return "idle"
}

// Scheduler owns a canvas and paints actions on it, either immediately or
// paced by a Driver. Actions always execute in submission order.
type Scheduler struct {
	mu         sync.Mutex
	ctx        canvases.Context
	driver     Driver
	pace       Pace
	queue      []Action
	generation uint64
	state      State
	tick       uint64
	cancelTick func()
	executed   int
}

func New(ctx canvases.Context, driver Driver) *Scheduler {
	if driver == nil {
		driver = TimerDriver{}
	}
	return &Scheduler{
		ctx:    ctx,
		driver: driver,
		pace:   DefaultPace(),
	}
}

func (s *Scheduler) SetPace(pace Pace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pace = pace
}

func (s *Scheduler) Pace() Pace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pace
}

// Submit paints actions. When the pace is not animated they are painted
// before Submit returns, after anything still queued. Otherwise they are
// queued under the current generation and the drain loop is started if idle.
func (s *Scheduler) Submit(actions ...Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pace.Animated() {
		s.flushLocked()
		for _, action := range actions {
			action.Generation = s.generation
			s.executeLocked(action)
		}
		return
	}

	for _, action := range actions {
		action.Generation = s.generation
		s.queue = append(s.queue, action)
	}
	if s.state == Idle && len(s.queue) > 0 {
		s.state = Draining
		s.scheduleLocked()
	}
}

func (s *Scheduler) scheduleLocked() {
	s.tick++
	tick := s.tick
	generation := s.generation
	fn := func() {
		s.onTick(tick, generation)
	}
	interval := s.pace.Interval()
	if interval <= frameBudget {
		s.cancelTick = s.driver.Frame(fn)
	} else {
		s.cancelTick = s.driver.After(interval, fn)
	}
}

func (s *Scheduler) onTick(tick uint64, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation || tick != s.tick || s.state != Draining {
		// stale
		return
	}
	s.cancelTick = nil
	s.stepLocked()
	if len(s.queue) > 0 {
		s.scheduleLocked()
		return
	}
	s.state = Idle
}

func (s *Scheduler) stepLocked() bool {
	for len(s.queue) > 0 {
		action := s.queue[0]
		s.queue[0] = Action{}
		s.queue = s.queue[1:]
		if action.Generation != s.generation {
			continue
		}
		s.executeLocked(action)
		return true
	}
	return false
}

func (s *Scheduler) executeLocked(action Action) {
	if s.ctx == nil {
		return
	}
	action.Execute(s.ctx)
	s.executed++
}

func (s *Scheduler) stopLocked() {
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
	s.tick++
	s.state = Idle
}

// Step executes the next queued action synchronously. It reports whether an
// action was executed.
func (s *Scheduler) Step() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.stepLocked()
	if len(s.queue) == 0 && s.state == Draining {
		s.stopLocked()
	}
	return ok
}

// Flush executes every queued action synchronously and stops the drain loop.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

func (s *Scheduler) flushLocked() {
	for s.stepLocked() {
	}
	if s.state == Draining {
		s.stopLocked()
	}
}

// Reset starts a new generation: queued actions are dropped and the drain
// loop stops.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Scheduler) resetLocked() {
	s.generation++
	clear(s.queue)
	s.queue = s.queue[:0]
	s.stopLocked()
}

// Do runs fn with the canvas under the scheduler lock. When reset is set the
// queue is invalidated first.
func (s *Scheduler) Do(reset bool, fn func(ctx canvases.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reset {
		s.resetLocked()
	}
	if s.ctx != nil {
		fn(s.ctx)
	}
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns the number of queued actions.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Executed returns the number of actions painted so far.
func (s *Scheduler) Executed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executed
}
