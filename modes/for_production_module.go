package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

// ModuleForProduction is used by the command line entry points. Animation
// is paced by real timers under this mode.
type ModuleForProduction struct {
	dscope.Module
}

func ForProduction() ModuleForProduction {
	return ModuleForProduction{}
}

// T is nil outside tests.
func (ModuleForProduction) T() *testing.T {
	return nil
}

func (ModuleForProduction) Mode() Mode {
	return ModeProduction
}
