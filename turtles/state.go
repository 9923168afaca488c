package turtles

import (
	"time"

	"github.com/reusee/turtleplay/canvases"
	"github.com/reusee/turtleplay/geoms"
	"github.com/reusee/turtleplay/schedulers"
)

const (
	DefaultColor      = "#111827"
	DefaultBackground = "#ffffff"
	DefaultPenWidth   = 2
	DefaultSpeed      = schedulers.MaxSpeed
	DefaultShape      = "classic"
	DefaultFont       = "16px Arial"

	DefaultCanvasWidth  = 400
	DefaultCanvasHeight = 300
)

// State is the pen plotter. Pos is in canvas space, Heading is in logical
// degrees, counter-clockwise from east.
type State struct {
	Pos        geoms.Point
	Heading    float64
	PenDown    bool
	PenColor   string
	FillColor  string
	Background string
	PenWidth   float64
	Speed      float64
	Delay      time.Duration
	Tracer     int
	Visible    bool
	Shape      string
	Title      string

	FillActive bool
	FillPath   geoms.Path

	Stamps      []Stamp
	nextStampID int
}

// Stamp is a recorded footprint. It is never mutated after creation.
type Stamp struct {
	ID    int
	Pos   geoms.Point
	Color string
	Width float64
}

func defaultState(frame geoms.Frame, speed float64) State {
	return State{
		Pos:         frame.Center(),
		PenDown:     true,
		PenColor:    DefaultColor,
		FillColor:   DefaultColor,
		Background:  DefaultBackground,
		PenWidth:    DefaultPenWidth,
		Speed:       speed,
		Tracer:      1,
		Visible:     true,
		Shape:       DefaultShape,
		nextStampID: 1,
	}
}

func (s State) pace() schedulers.Pace {
	return schedulers.Pace{
		Speed:   s.Speed,
		Delay:   s.Delay,
		Tracing: s.Tracer != 0,
	}
}

func (s State) style() canvases.Style {
	return canvases.Style{
		Color: s.PenColor,
		Width: s.PenWidth,
	}
}

// clone copies the slices so the snapshot does not alias the live state.
func (s State) clone() State {
	s.FillPath = s.FillPath.Clone()
	s.Stamps = append([]Stamp(nil), s.Stamps...)
	return s
}
