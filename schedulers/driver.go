package schedulers

import (
	"sort"
	"sync"
	"time"
)

// Driver schedules drain ticks. The returned function cancels the tick if it
// has not fired yet.
type Driver interface {
	Frame(fn func()) (cancel func())
	After(d time.Duration, fn func()) (cancel func())
}

// TimerDriver runs ticks on runtime timers. Frame ticks fire after
// FrameInterval.
type TimerDriver struct {
	FrameInterval time.Duration
}

var _ Driver = TimerDriver{}

func (t TimerDriver) Frame(fn func()) func() {
	interval := t.FrameInterval
	if interval <= 0 {
		interval = frameBudget
	}
	return t.After(interval, fn)
}

func (t TimerDriver) After(d time.Duration, fn func()) func() {
	timer := time.AfterFunc(d, fn)
	return func() {
		timer.Stop()
	}
}

// ManualDriver is a Driver advanced by hand. Frame ticks are due at the
// current time.
type ManualDriver struct {
	mu     sync.Mutex
	now    time.Duration
	serial int
	tasks  []*manualTask
}

type manualTask struct {
	serial int
	due    time.Duration
	fn     func()
}

var _ Driver = new(ManualDriver)

func (m *ManualDriver) Frame(fn func()) func() {
	return m.After(0, fn)
}

func (m *ManualDriver) After(d time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serial++
	task := &manualTask{
		serial: m.serial,
		due:    m.now + d,
		fn:     fn,
	}
	m.tasks = append(m.tasks, task)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, t := range m.tasks {
			if t == task {
				m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
				return
			}
		}
	}
}

// Pending returns the number of scheduled ticks.
func (m *ManualDriver) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *ManualDriver) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Fire runs the earliest tick, moving the clock to its due time. It reports
// false when nothing is scheduled.
func (m *ManualDriver) Fire() bool {
	m.mu.Lock()
	if len(m.tasks) == 0 {
		m.mu.Unlock()
		return false
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due != m.tasks[j].due {
			return m.tasks[i].due < m.tasks[j].due
		}
		return m.tasks[i].serial < m.tasks[j].serial
	})
	task := m.tasks[0]
	m.tasks = m.tasks[1:]
	if task.due > m.now {
		m.now = task.due
	}
	m.mu.Unlock()
	task.fn()
	return true
}

// Advance moves the clock forward by d, running every tick that becomes due,
// including ticks scheduled by the ticks it runs.
func (m *ManualDriver) Advance(d time.Duration) {
	m.mu.Lock()
	deadline := m.now + d
	m.mu.Unlock()
	for {
		m.mu.Lock()
		var next *manualTask
		for _, t := range m.tasks {
			if t.due > deadline {
				continue
			}
			if next == nil || t.due < next.due || t.due == next.due && t.serial < next.serial {
				next = t
			}
		}
		if next == nil {
			m.now = deadline
			m.mu.Unlock()
			return
		}
		for i, t := range m.tasks {
			if t == next {
				m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
				break
			}
		}
		if next.due > m.now {
			m.now = next.due
		}
		m.mu.Unlock()
		next.fn()
	}
}

// RunAll fires ticks until none is left and returns how many ran.
func (m *ManualDriver) RunAll() int {
	n := 0
	for m.Fire() {
		n++
	}
	return n
}
