package turtles

import (
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/canvases"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/modes"
	"github.com/reusee/turtleplay/schedulers"
	"github.com/reusee/turtleplay/turtleconfigs"
)

type Module struct {
	dscope.Module
	Configs turtleconfigs.Module
}

func (Module) ManualDriver() *schedulers.ManualDriver {
	return new(schedulers.ManualDriver)
}

// Driver paces animation with real timers in production and with the
// manual driver otherwise.
func (Module) Driver(
	mode modes.Mode,
	interval turtleconfigs.FrameInterval,
	manual *schedulers.ManualDriver,
) schedulers.Driver {
	if mode == modes.ModeProduction {
		return schedulers.TimerDriver{
			FrameInterval: time.Duration(interval),
		}
	}
	return manual
}

func (Module) EventHub() *EventHub {
	return NewEventHub()
}

func (Module) Options(
	size turtleconfigs.CanvasSize,
	speed turtleconfigs.DefaultSpeed,
	driver schedulers.Driver,
	hub *EventHub,
	logger logs.Logger,
) Options {
	opts := Options{
		Width:  size.Width,
		Height: size.Height,
		Driver: driver,
		Events: hub,
		Logger: logger,
	}
	if speed.Set {
		opts.Speed = &speed.Speed
	}
	return opts
}

// Surface is where an engine draws and where its input comes from.
type Surface struct {
	Canvas canvases.Context
	// Events defaults to the shared EventHub
	Events  EventSource
	OnTitle func(string)
}

// NewEngine creates an engine on surface with the configured options.
type NewEngine func(surface Surface) *Engine

func (Module) NewEngine(
	opts Options,
) NewEngine {
	return func(surface Surface) *Engine {
		o := opts
		o.Canvas = surface.Canvas
		o.OnTitle = surface.OnTitle
		if surface.Events != nil {
			o.Events = surface.Events
		}
		return New(o)
	}
}
