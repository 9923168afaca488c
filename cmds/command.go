package cmds

import (
	"fmt"
	"reflect"
)

// Command is one word of the command line. Func takes the arguments that
// follow the word; Subs become available after it.
type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Params      string
	Aliases     []string
	Hidden      bool
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

// Args names the arguments for usage output, like "src out".
func (c *Command) Args(params string) *Command {
	c.Params = params
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

// Hide keeps the command out of usage output.
func (c *Command) Hide() *Command {
	c.Hidden = true
	return c
}

func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)
	if err := checkFunc(fnValue); err != nil {
		panic(fmt.Errorf("%T: %w", fn, err))
	}
	return &Command{
		Func: fnValue,
	}
}

func checkFunc(fn reflect.Value) error {
	if fn.Kind() != reflect.Func {
		return fmt.Errorf("must be function")
	}
	t := fn.Type()
	switch t.NumOut() {
	case 0:
		return nil
	case 1:
		if t.Out(0) != errorType {
			return fmt.Errorf("must return error")
		}
		return nil
	}
	return fmt.Errorf("must return 0 or 1 value")
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}
