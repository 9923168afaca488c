package playgrounds

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reusee/turtleplay/projects"
	"github.com/reusee/turtleplay/shims"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

var ErrImportCycle = errors.New("import cycle")

type loadEntry struct {
	globals starlark.StringDict
	err     error
}

// loader executes project files for load statements. Each file runs once
// per run. Guest code is serialised by the invoker, so the cache needs no
// lock.
type loader struct {
	project     *projects.Project
	imports     imports
	predeclared starlark.StringDict
	thread      func(name string) (*starlark.Thread, func() bool)
	cache       map[string]*loadEntry
}

// source returns the file text with imports rewritten.
func (l *loader) source(name string) (string, error) {
	src, err := l.project.Read(name)
	if err != nil {
		return "", err
	}
	src, err = l.imports.rewrite(src)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return src, nil
}

func (l *loader) load(_ *starlark.Thread, name string) (starlark.StringDict, error) {
	entry, ok := l.cache[name]
	if ok && entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrImportCycle, name)
	}
	if entry == nil {
		l.cache[name] = nil
		globals, err := l.exec(name)
		entry = &loadEntry{
			globals: globals,
			err:     err,
		}
		l.cache[name] = entry
	}
	return entry.globals, entry.err
}

func (l *loader) exec(name string) (starlark.StringDict, error) {
	src, err := l.source(name)
	if err != nil {
		return nil, err
	}
	thread, stop := l.thread("load " + name)
	defer stop()
	globals, err := starlark.ExecFileOptions(shims.FileOptions, thread, name, src, l.predeclared)
	if err != nil {
		return nil, err
	}
	// "import helper" loads the module value under the file stem
	stem := strings.TrimSuffix(name, ".py")
	ret := make(starlark.StringDict, len(globals)+1)
	for k, v := range globals {
		ret[k] = v
	}
	if _, ok := ret[stem]; !ok {
		ret[stem] = &starlarkstruct.Module{
			Name:    stem,
			Members: globals,
		}
	}
	return ret, nil
}
