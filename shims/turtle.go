package shims

import (
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

const ModuleName = "turtle"

// Load executes the glue against host and returns the turtle module.
func Load(thread *starlark.Thread, host *starlarkstruct.Module) (*starlarkstruct.Module, error) {
	predeclared := starlark.StringDict{
		HostModuleName: host,
		"struct":       starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
	globals, err := starlark.ExecFile(thread, ModuleName+".py", Source(), predeclared)
	if err != nil {
		return nil, err
	}
	members := make(starlark.StringDict, len(globals))
	for name, value := range globals {
		if strings.HasPrefix(name, "_") {
			continue
		}
		members[name] = value
	}
	return &starlarkstruct.Module{
		Name:    ModuleName,
		Members: members,
	}, nil
}

// Predeclared makes the module and every one of its members global, the
// way "from turtle import *" would.
func Predeclared(turtle *starlarkstruct.Module) starlark.StringDict {
	ret := make(starlark.StringDict, len(turtle.Members)+1)
	for name, value := range turtle.Members {
		ret[name] = value
	}
	ret[turtle.Name] = turtle
	return ret
}

// FileOptions are the dialect options guest programs are compiled with.
var FileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}
