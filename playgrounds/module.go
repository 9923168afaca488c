package playgrounds

import (
	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/consoles"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/turtles"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Turtles turtles.Module
}

// NewSession creates a session with its own engine on surface.
type NewSession func(console *consoles.Console, surface turtles.Surface) *Session

func (Module) NewSession(
	newEngine turtles.NewEngine,
	logger logs.Logger,
	newSpan logs.NewSpan,
) NewSession {
	return func(console *consoles.Console, surface turtles.Surface) *Session {
		return New(Options{
			Engine:  newEngine(surface),
			Console: console,
			Logger:  logger,
			NewSpan: newSpan,
		})
	}
}
