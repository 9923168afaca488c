package consoles

import "github.com/reusee/dscope"

type Module struct {
	dscope.Module
}

func (Module) Console() *Console {
	return New()
}
