package turtleconfigs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/configs"
	"github.com/reusee/turtleplay/logs"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
}
