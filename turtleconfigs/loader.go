package turtleconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/turtleplay/cmds"
	"github.com/reusee/turtleplay/configs"
	"github.com/reusee/turtleplay/logs"
)

//go:embed schema.cue
var schema string

var configFileFlag = cmds.Var[string]("-config", "read this config file first")

var filenames = []string{
	"turtleplay.cue",
	".turtleplay.cue",
}

// ConfigPaths returns existing config files, most specific first.
func ConfigPaths() (paths []string) {
	if *configFileFlag != "" {
		paths = append(paths, *configFileFlag)
	}

	dirs := []string{}
	// working directory
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}
	// user config dir
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}
	// system wide dir
	dirs = append(dirs, "/etc")

	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return
}

func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {
	paths := ConfigPaths()
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}
	return configs.NewLoader(paths, schema)
}

// NewLoader validates the given files against the turtleplay schema.
func NewLoader(paths ...string) configs.Loader {
	return configs.NewLoader(paths, schema)
}
