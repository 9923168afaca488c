package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/nets"
	"github.com/reusee/turtleplay/servers"
	"github.com/reusee/turtleplay/terminals"
)

type Module struct {
	dscope.Module
	Servers   servers.Module
	Terminals terminals.Module
	Nets      nets.Module
}
