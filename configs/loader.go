package configs

import (
	"fmt"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Loader reads values from CUE files. The files are compiled on first use
// and validated against the schema. Earlier files win.
type Loader struct {
	load func() ([]file, error)
}

type file struct {
	path  string
	value cue.Value
}

func NewLoader(paths []string, schema string) Loader {
	return Loader{
		load: sync.OnceValues(func() ([]file, error) {
			ctx := cuecontext.New()

			var closed cue.Value
			if schema != "" {
				closed = ctx.CompileString("close({"+schema+"})", cue.Filename("schema.cue"))
				if err := closed.Err(); err != nil {
					return nil, fmt.Errorf("schema: %w", err)
				}
			}

			files := make([]file, 0, len(paths))
			for _, path := range paths {
				content, err := os.ReadFile(path)
				if err != nil {
					return nil, err
				}
				value := ctx.CompileBytes(content, cue.Filename(path))
				if err := value.Err(); err != nil {
					return nil, err
				}
				if closed.Exists() {
					if err := closed.Unify(value).Validate(); err != nil {
						return nil, err
					}
				}
				files = append(files, file{
					path:  path,
					value: value,
				})
			}
			return files, nil
		}),
	}
}

// Paths returns the files that define path, in precedence order.
func (l Loader) Paths(path string) ([]string, error) {
	files, err := l.load()
	if err != nil {
		return nil, err
	}
	p := cue.ParsePath(path)
	if err := p.Err(); err != nil {
		return nil, err
	}
	var ret []string
	for _, f := range files {
		if f.value.LookupPath(p).Exists() {
			ret = append(ret, f.path)
		}
	}
	return ret, nil
}

// AssignFirst decodes into target the value at path of the first file
// that defines it.
func (l Loader) AssignFirst(path string, target any) error {
	files, err := l.load()
	if err != nil {
		return err
	}
	p := cue.ParsePath(path)
	if err := p.Err(); err != nil {
		return err
	}
	for _, f := range files {
		value := f.value.LookupPath(p)
		if !value.Exists() {
			continue
		}
		if err := value.Decode(target); err != nil {
			return fmt.Errorf("%s: %s: %w", f.path, path, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValueNotFound, path)
}
