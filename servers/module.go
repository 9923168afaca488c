package servers

import (
	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/playgrounds"
	"github.com/reusee/turtleplay/projects"
	"github.com/reusee/turtleplay/turtleconfigs"
)

type Module struct {
	dscope.Module
	Playgrounds playgrounds.Module
	Projects    projects.Module
	Configs     turtleconfigs.Module
}

func (Module) Server(
	addr turtleconfigs.ListenAddr,
	size turtleconfigs.CanvasSize,
	store projects.Store,
	newSession playgrounds.NewSession,
	logger logs.Logger,
) *Server {
	return New(Options{
		Addr:       string(addr),
		Width:      size.Width,
		Height:     size.Height,
		Store:      store,
		NewSession: newSession,
		Logger:     logger,
	})
}
