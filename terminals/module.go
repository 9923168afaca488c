package terminals

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/playgrounds"
	"github.com/reusee/turtleplay/turtleconfigs"
)

type Module struct {
	dscope.Module
	Playgrounds playgrounds.Module
	Configs     turtleconfigs.Module
}

type NewTerminal func(screen tcell.Screen) *Terminal

func (Module) NewTerminal(
	newSession playgrounds.NewSession,
	size turtleconfigs.CanvasSize,
	interval turtleconfigs.FrameInterval,
	logger logs.Logger,
) NewTerminal {
	return func(screen tcell.Screen) *Terminal {
		return New(Options{
			Screen:     screen,
			NewSession: newSession,
			Width:      size.Width,
			Height:     size.Height,
			// a terminal cannot keep up with canvas frame rates
			Interval: max(time.Duration(interval), 50*time.Millisecond),
			Logger:   logger,
		})
	}
}
