package shims

import (
	"fmt"

	"github.com/reusee/turtleplay/canvases"
	"go.starlark.net/starlark"
)

// number unpacks an int or a float.
type number float64

var _ starlark.Unpacker = new(number)

func (n *number) Unpack(v starlark.Value) error {
	switch v.(type) {
	case starlark.Int, starlark.Float:
	default:
		return fmt.Errorf("got %s, want number", v.Type())
	}
	f, ok := starlark.AsFloat(v)
	if !ok {
		return fmt.Errorf("got %s, want number", v.Type())
	}
	*n = number(f)
	return nil
}

// optNumber is a number that may be None.
type optNumber struct {
	value float64
	set   bool
}

var _ starlark.Unpacker = new(optNumber)

func (o *optNumber) Unpack(v starlark.Value) error {
	if v == starlark.None {
		*o = optNumber{}
		return nil
	}
	var n number
	if err := n.Unpack(v); err != nil {
		return err
	}
	*o = optNumber{
		value: float64(n),
		set:   true,
	}
	return nil
}

// point unpacks a (x, y) pair.
type point [2]float64

var _ starlark.Unpacker = new(point)

func (p *point) Unpack(v starlark.Value) error {
	seq, ok := v.(starlark.Indexable)
	if !ok || seq.Len() != 2 {
		return fmt.Errorf("got %s, want (x, y)", v.Type())
	}
	for i := range 2 {
		var n number
		if err := n.Unpack(seq.Index(i)); err != nil {
			return err
		}
		p[i] = float64(n)
	}
	return nil
}

// color unpacks a color name, or a (r, g, b) triple. A triple with no
// channel above 1 holds fractions, anything else is in 0..255.
type color string

var _ starlark.Unpacker = new(color)

func (c *color) Unpack(v starlark.Value) error {
	switch v := v.(type) {
	case starlark.String:
		*c = color(v)
		return nil
	case starlark.Indexable:
		if v.Len() != 3 {
			break
		}
		var channels [3]float64
		unit := true
		for i := range 3 {
			var n number
			if err := n.Unpack(v.Index(i)); err != nil {
				return err
			}
			channels[i] = float64(n)
			if n > 1 {
				unit = false
			}
		}
		*c = color(canvases.RGBHex(channels[0], channels[1], channels[2], unit))
		return nil
	}
	return fmt.Errorf("got %s, want color", v.Type())
}

// callable unpacks a function or None.
type callable struct {
	fn starlark.Callable
}

var _ starlark.Unpacker = new(callable)

func (c *callable) Unpack(v starlark.Value) error {
	if v == starlark.None {
		c.fn = nil
		return nil
	}
	fn, ok := v.(starlark.Callable)
	if !ok {
		return fmt.Errorf("got %s, want function", v.Type())
	}
	c.fn = fn
	return nil
}

func pair(a, b float64) starlark.Tuple {
	return starlark.Tuple{starlark.Float(a), starlark.Float(b)}
}
