package shims

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/reusee/turtleplay/turtles"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

const HostModuleName = "_host"

type HostOptions struct {
	// Invoker runs event callbacks. Without one they run synchronously on
	// the event goroutine.
	Invoker *Invoker
	// ReadLine answers textinput and numinput. Without one they return None.
	ReadLine func(prompt string) (string, error)
	// OnError receives errors of callbacks run without an Invoker. Without
	// one they are logged.
	OnError func(error)
}

type host struct {
	engine *turtles.Engine
	opts   HostOptions
}

type hostFunc func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

// Host returns the builtins the turtle glue forwards to.
func Host(engine *turtles.Engine, opts HostOptions) *starlarkstruct.Module {
	h := &host{
		engine: engine,
		opts:   opts,
	}
	members := make(starlark.StringDict, len(hostFuncs))
	for name, fn := range hostFuncs {
		members[name] = starlark.NewBuiltin(name, func(
			_ *starlark.Thread,
			b *starlark.Builtin,
			args starlark.Tuple,
			kwargs []starlark.Tuple,
		) (starlark.Value, error) {
			return fn(h, b.Name(), args, kwargs)
		})
	}
	return &starlarkstruct.Module{
		Name:    HostModuleName,
		Members: members,
	}
}

func (h *host) call(name string, fn starlark.Callable, args ...starlark.Value) {
	if h.opts.Invoker != nil {
		h.opts.Invoker.Go(name, fn, args...)
		return
	}
	thread := &starlark.Thread{
		Name: name,
	}
	if _, err := starlark.Call(thread, fn, args, nil); err != nil {
		if h.opts.OnError != nil {
			h.opts.OnError(err)
			return
		}
		slog.Error("guest callback", "name", name, "error", err)
	}
}

func (h *host) handler0(name string, fn starlark.Callable) func() {
	if fn == nil {
		return nil
	}
	return func() {
		h.call(name, fn)
	}
}

func (h *host) handler2(name string, fn starlark.Callable) func(x, y float64) {
	if fn == nil {
		return nil
	}
	return func(x, y float64) {
		h.call(name, fn, starlark.Float(x), starlark.Float(y))
	}
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// action adapts a method without arguments.
func action(fn func(e *turtles.Engine)) hostFunc {
	return func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(name, args, kwargs, 0); err != nil {
			return nil, err
		}
		fn(h.engine)
		return starlark.None, nil
	}
}

// move adapts a method with one number argument.
func move(param string, fn func(e *turtles.Engine, n float64)) hostFunc {
	return func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var n number
		if err := starlark.UnpackArgs(name, args, kwargs, param, &n); err != nil {
			return nil, err
		}
		fn(h.engine, float64(n))
		return starlark.None, nil
	}
}

// query adapts a getter.
func query[T any](fn func(e *turtles.Engine) T) hostFunc {
	return func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(name, args, kwargs, 0); err != nil {
			return nil, err
		}
		return ToValue(fn(h.engine)), nil
	}
}

// xy unpacks (x, y) given either as two numbers or as one pair.
func xy(name string, args starlark.Tuple, kwargs []starlark.Tuple) (x, y float64, err error) {
	var xv, yv starlark.Value = starlark.None, starlark.None
	if err := starlark.UnpackArgs(name, args, kwargs, "x", &xv, "y?", &yv); err != nil {
		return 0, 0, err
	}
	if yv == starlark.None {
		var p point
		if err := p.Unpack(xv); err != nil {
			return 0, 0, fmt.Errorf("%s: %w", name, err)
		}
		return p[0], p[1], nil
	}
	var nx, ny number
	if err := nx.Unpack(xv); err != nil {
		return 0, 0, fmt.Errorf("%s: for parameter x: %w", name, err)
	}
	if err := ny.Unpack(yv); err != nil {
		return 0, 0, fmt.Errorf("%s: for parameter y: %w", name, err)
	}
	return float64(nx), float64(ny), nil
}

// colorArgs unpacks a color given as one value or as three channels.
func colorArgs(name string, args starlark.Tuple) (color, error) {
	var c color
	var err error
	switch len(args) {
	case 1:
		err = c.Unpack(args[0])
	case 3:
		err = c.Unpack(args)
	default:
		err = fmt.Errorf("got %d arguments, want a color", len(args))
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

func noKwargs(name string, kwargs []starlark.Tuple) error {
	if len(kwargs) > 0 {
		return fmt.Errorf("%s: unexpected keyword argument %s", name, kwargs[0][0])
	}
	return nil
}

func text(v starlark.Value) string {
	if s, ok := starlark.AsString(v); ok {
		return s
	}
	return v.String()
}

var hostFuncs = map[string]hostFunc{

	"setup": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var width, height number = turtles.DefaultCanvasWidth, turtles.DefaultCanvasHeight
		var startx, starty starlark.Value
		if err := starlark.UnpackArgs(name, args, kwargs,
			"width?", &width,
			"height?", &height,
			"startx?", &startx,
			"starty?", &starty,
		); err != nil {
			return nil, err
		}
		h.engine.Setup(int(width), int(height))
		return starlark.None, nil
	},

	"screensize": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(name, args, kwargs, 0); err != nil {
			return nil, err
		}
		w, ht := h.engine.ScreenSize()
		return starlark.Tuple{starlark.MakeInt(w), starlark.MakeInt(ht)}, nil
	},

	"forward":  move("distance", (*turtles.Engine).Forward),
	"backward": move("distance", (*turtles.Engine).Backward),
	"left":     move("angle", (*turtles.Engine).Left),
	"right":    move("angle", (*turtles.Engine).Right),
	"setx":     move("x", (*turtles.Engine).SetX),
	"sety":     move("y", (*turtles.Engine).SetY),

	"setheading": move("to_angle", (*turtles.Engine).SetHeading),

	"goto": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		x, y, err := xy(name, args, kwargs)
		if err != nil {
			return nil, err
		}
		h.engine.Goto(x, y)
		return starlark.None, nil
	},

	"distance": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		x, y, err := xy(name, args, kwargs)
		if err != nil {
			return nil, err
		}
		return starlark.Float(h.engine.Distance(x, y)), nil
	},

	"towards": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		x, y, err := xy(name, args, kwargs)
		if err != nil {
			return nil, err
		}
		return starlark.Float(h.engine.Towards(x, y)), nil
	},

	"position": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(name, args, kwargs, 0); err != nil {
			return nil, err
		}
		return pair(h.engine.Position()), nil
	},

	"xcor":      query((*turtles.Engine).XCor),
	"ycor":      query((*turtles.Engine).YCor),
	"heading":   query((*turtles.Engine).Heading),
	"isdown":    query((*turtles.Engine).IsDown),
	"isvisible": query((*turtles.Engine).IsVisible),
	"filling":   query((*turtles.Engine).Filling),
	"stamp":     query((*turtles.Engine).Stamp),

	"home":        action((*turtles.Engine).Home),
	"penup":       action((*turtles.Engine).PenUp),
	"pendown":     action((*turtles.Engine).PenDown),
	"showturtle":  action((*turtles.Engine).ShowTurtle),
	"hideturtle":  action((*turtles.Engine).HideTurtle),
	"clear":       action((*turtles.Engine).Clear),
	"reset":       action((*turtles.Engine).Reset),
	"update":      action((*turtles.Engine).Update),
	"begin_fill":  action((*turtles.Engine).BeginFill),
	"end_fill":    action((*turtles.Engine).EndFill),
	"clearstamps": action((*turtles.Engine).ClearStamps),
	"mainloop":    action((*turtles.Engine).Mainloop),
	"done":        action((*turtles.Engine).Done),
	"listen": action(func(e *turtles.Engine) {
		e.Listen()
	}),

	"circle": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var radius number
		var extent number = 360
		var steps starlark.Value
		if err := starlark.UnpackArgs(name, args, kwargs,
			"radius", &radius,
			"extent?", &extent,
			"steps?", &steps,
		); err != nil {
			return nil, err
		}
		h.engine.Circle(float64(radius), float64(extent))
		return starlark.None, nil
	},

	"color": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := noKwargs(name, kwargs); err != nil {
			return nil, err
		}
		switch len(args) {
		case 0:
			pen, fill := h.engine.Colors()
			return starlark.Tuple{starlark.String(pen), starlark.String(fill)}, nil
		case 2:
			pen, err := colorArgs(name, args[:1])
			if err != nil {
				return nil, err
			}
			fill, err := colorArgs(name, args[1:])
			if err != nil {
				return nil, err
			}
			h.engine.PenColor(string(pen))
			h.engine.FillColor(string(fill))
			return starlark.None, nil
		}
		c, err := colorArgs(name, args)
		if err != nil {
			return nil, err
		}
		h.engine.Color(string(c))
		return starlark.None, nil
	},

	"pencolor": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := noKwargs(name, kwargs); err != nil {
			return nil, err
		}
		if len(args) == 0 {
			pen, _ := h.engine.Colors()
			return starlark.String(pen), nil
		}
		c, err := colorArgs(name, args)
		if err != nil {
			return nil, err
		}
		h.engine.PenColor(string(c))
		return starlark.None, nil
	},

	"fillcolor": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := noKwargs(name, kwargs); err != nil {
			return nil, err
		}
		if len(args) == 0 {
			_, fill := h.engine.Colors()
			return starlark.String(fill), nil
		}
		c, err := colorArgs(name, args)
		if err != nil {
			return nil, err
		}
		h.engine.FillColor(string(c))
		return starlark.None, nil
	},

	"bgcolor": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := noKwargs(name, kwargs); err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return starlark.String(h.engine.BgColor("")), nil
		}
		c, err := colorArgs(name, args)
		if err != nil {
			return nil, err
		}
		h.engine.BgColor(string(c))
		return starlark.None, nil
	},

	"width": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var width optNumber
		if err := starlark.UnpackArgs(name, args, kwargs, "width?", &width); err != nil {
			return nil, err
		}
		if !width.set {
			return starlark.Float(h.engine.PenWidth()), nil
		}
		h.engine.Width(width.value)
		return starlark.None, nil
	},

	"speed": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var value starlark.Value = starlark.None
		if err := starlark.UnpackArgs(name, args, kwargs, "speed?", &value); err != nil {
			return nil, err
		}
		if value == starlark.None {
			return starlark.Float(h.engine.GetSpeed()), nil
		}
		if s, ok := starlark.AsString(value); ok {
			speed, ok := speedNames[s]
			if !ok {
				return nil, fmt.Errorf("%s: unknown speed %q", name, s)
			}
			h.engine.Speed(speed)
			return starlark.None, nil
		}
		var n number
		if err := n.Unpack(value); err != nil {
			return nil, fmt.Errorf("%s: for parameter speed: %w", name, err)
		}
		h.engine.Speed(float64(n))
		return starlark.None, nil
	},

	"tracer": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var n, delay optNumber
		if err := starlark.UnpackArgs(name, args, kwargs, "n?", &n, "delay?", &delay); err != nil {
			return nil, err
		}
		if !n.set {
			return starlark.MakeInt(h.engine.State().Tracer), nil
		}
		h.engine.Tracer(int(n.value))
		if delay.set {
			h.engine.Delay(millis(delay.value))
		}
		return starlark.None, nil
	},

	"delay": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var delay optNumber
		if err := starlark.UnpackArgs(name, args, kwargs, "delay?", &delay); err != nil {
			return nil, err
		}
		if !delay.set {
			return starlark.MakeInt64(h.engine.State().Delay.Milliseconds()), nil
		}
		h.engine.Delay(millis(delay.value))
		return starlark.None, nil
	},

	"shape": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var shape starlark.Value = starlark.None
		if err := starlark.UnpackArgs(name, args, kwargs, "name?", &shape); err != nil {
			return nil, err
		}
		if shape == starlark.None {
			return starlark.String(h.engine.State().Shape), nil
		}
		h.engine.Shape(text(shape))
		return starlark.None, nil
	},

	"title": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var title starlark.Value = starlark.None
		if err := starlark.UnpackArgs(name, args, kwargs, "titlestring?", &title); err != nil {
			return nil, err
		}
		if title == starlark.None {
			return starlark.String(h.engine.State().Title), nil
		}
		h.engine.Title(text(title))
		return starlark.None, nil
	},

	"dot": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var size optNumber
		var c starlark.Value = starlark.None
		if len(args) > 0 {
			if _, ok := args[0].(starlark.String); ok {
				// dot(color)
				args = append(starlark.Tuple{starlark.None}, args...)
			}
		}
		if err := starlark.UnpackArgs(name, args, kwargs, "size?", &size, "color?", &c); err != nil {
			return nil, err
		}
		var col color
		if c != starlark.None {
			if err := col.Unpack(c); err != nil {
				return nil, fmt.Errorf("%s: for parameter color: %w", name, err)
			}
		}
		h.engine.Dot(size.value, string(col))
		return starlark.None, nil
	},

	"clearstamp": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var id int
		if err := starlark.UnpackArgs(name, args, kwargs, "stampid", &id); err != nil {
			return nil, err
		}
		h.engine.ClearStamp(id)
		return starlark.None, nil
	},

	"write": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var arg starlark.Value
		font := turtles.DefaultFont
		if err := starlark.UnpackArgs(name, args, kwargs, "arg", &arg, "font?", &font); err != nil {
			return nil, err
		}
		h.engine.Write(text(arg), font)
		return starlark.None, nil
	},

	"onkeypress":   bindKey((*turtles.Engine).OnKeyPress),
	"onkey":        bindKey((*turtles.Engine).OnKey),
	"onkeyrelease": bindKey((*turtles.Engine).OnKeyRelease),

	"onclick":       bindMouse((*turtles.Engine).OnClick),
	"onscreenclick": bindMouse((*turtles.Engine).OnScreenClick),
	"onrelease":     bindMouse((*turtles.Engine).OnRelease),

	"ontimer": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var fn callable
		var t number
		if err := starlark.UnpackArgs(name, args, kwargs, "fun", &fn, "t?", &t); err != nil {
			return nil, err
		}
		if fn.fn == nil {
			return starlark.None, nil
		}
		h.engine.OnTimer(h.handler0(name, fn.fn), millis(float64(t)))
		return starlark.None, nil
	},

	"textinput": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var title, prompt string
		if err := starlark.UnpackArgs(name, args, kwargs, "title", &title, "prompt", &prompt); err != nil {
			return nil, err
		}
		line, ok, err := h.readLine(title, prompt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return starlark.None, nil
		}
		return starlark.String(line), nil
	},

	"numinput": func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var title, prompt string
		var def, minval, maxval optNumber
		if err := starlark.UnpackArgs(name, args, kwargs,
			"title", &title,
			"prompt", &prompt,
			"default?", &def,
			"minval?", &minval,
			"maxval?", &maxval,
		); err != nil {
			return nil, err
		}
		line, ok, err := h.readLine(title, prompt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return starlark.None, nil
		}
		value, ok := parseNumber(line, def, minval, maxval)
		if !ok {
			return starlark.None, nil
		}
		return starlark.Float(value), nil
	},
}

var speedNames = map[string]float64{
	"fastest": 0,
	"fast":    10,
	"normal":  6,
	"slow":    3,
	"slowest": 1,
}

func bindKey(bind func(e *turtles.Engine, handler func(), key string)) hostFunc {
	return func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var fn callable
		var key starlark.Value = starlark.None
		if err := starlark.UnpackArgs(name, args, kwargs, "fun", &fn, "key?", &key); err != nil {
			return nil, err
		}
		keyName := ""
		if key != starlark.None {
			keyName = text(key)
		}
		bind(h.engine, h.handler0(name, fn.fn), keyName)
		return starlark.None, nil
	}
}

func bindMouse(bind func(e *turtles.Engine, handler func(x, y float64))) hostFunc {
	return func(h *host, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var fn callable
		var btn, add starlark.Value
		if err := starlark.UnpackArgs(name, args, kwargs, "fun", &fn, "btn?", &btn, "add?", &add); err != nil {
			return nil, err
		}
		bind(h.engine, h.handler2(name, fn.fn))
		return starlark.None, nil
	}
}

func (h *host) readLine(title, prompt string) (string, bool, error) {
	if h.opts.ReadLine == nil {
		return "", false, nil
	}
	if title != "" {
		prompt = title + ": " + prompt
	}
	line, err := h.opts.ReadLine(prompt)
	if err != nil {
		return "", false, err
	}
	return line, true, nil
}

// parseNumber reads a numinput answer. An empty answer takes the default;
// anything unparsable or out of range gives no value.
func parseNumber(line string, def, minval, maxval optNumber) (float64, bool) {
	line = strings.TrimSpace(line)
	var value float64
	if line == "" {
		if !def.set {
			return 0, false
		}
		value = def.value
	} else {
		var err error
		value, err = strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, false
		}
	}
	if minval.set && value < minval.value {
		return 0, false
	}
	if maxval.set && value > maxval.value {
		return 0, false
	}
	return value, true
}
