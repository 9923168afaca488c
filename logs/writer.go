package logs

import (
	"io"
	"os"

	"github.com/reusee/turtleplay/cmds"
)

var logFileFlag = cmds.Var[string]("-log-file", "append logs to this file instead of stderr")

type Writer io.Writer

// ToFile reports whether logs go to a file rather than stderr.
func ToFile() bool {
	return *logFileFlag != ""
}

func (Module) Writer() Writer {
	if !ToFile() {
		return os.Stderr
	}
	f, err := os.OpenFile(*logFileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		panic(err)
	}
	return f
}
