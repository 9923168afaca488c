package nets

import (
	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/turtleconfigs"
)

type Module struct {
	dscope.Module
	Configs turtleconfigs.Module
	Logs    logs.Module
}
