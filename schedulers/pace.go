package schedulers

import (
	"math"
	"time"

	"github.com/reusee/turtleplay/geoms"
)

const (
	// MaxSpeed is the fastest animated speed
	MaxSpeed = 10

	// frameBudget is the longest interval still scheduled on the frame driver
	frameBudget = 16 * time.Millisecond

	maxSteps = 4096
)

// Pace decides how motion is animated.
type Pace struct {
	Speed   float64
	Delay   time.Duration
	Tracing bool
}

func DefaultPace() Pace {
	return Pace{
		Speed:   MaxSpeed,
		Tracing: true,
	}
}

// Animated reports whether actions go through the queue. Speed 0 and
// disabled tracing both paint synchronously.
func (p Pace) Animated() bool {
	return p.Tracing && p.Speed > 0
}

// StepLength is the length in pixels of one animated step.
func (p Pace) StepLength() float64 {
	return p.Speed * 4
}

// Interval is the time between two drain ticks.
func (p Pace) Interval() time.Duration {
	ms := max(4, 30-p.Speed*2.6)
	return time.Duration(ms*float64(time.Millisecond)) + max(p.Delay, 0)
}

// Steps returns how many pieces a motion of the given length is split into.
func (p Pace) Steps(length float64) int {
	if !p.Animated() || length <= 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return 1
	}
	n := int(math.Ceil(length / p.StepLength()))
	return min(max(n, 1), maxSteps)
}

func SplitSegment(seg geoms.Segment, pace Pace) []geoms.Segment {
	return seg.Split(pace.Steps(seg.Length()))
}

func SplitArc(arc geoms.Arc, pace Pace) []geoms.Arc {
	return arc.Split(pace.Steps(arc.Length()))
}
