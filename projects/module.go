package projects

import (
	"os"
	"path/filepath"

	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/cmds"
	"github.com/reusee/turtleplay/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

var storeFlag = cmds.Var[string]("-project", "project store file for serve")

// Store persists the project edited in the browser front end.
func (Module) Store(
	logger logs.Logger,
) Store {
	path := *storeFlag
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "turtleplay", "project.json")
	}
	logger.Debug("project store", "path", path)
	return Store{
		Path: path,
	}
}
