package playgrounds

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	starlarkmath "go.starlark.net/lib/math"
	starlarktime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// hostModules are the importable modules of one run.
func hostModules(ctx context.Context) map[string]*starlarkstruct.Module {
	return map[string]*starlarkstruct.Module{
		"math":   starlarkmath.Module,
		"time":   timeModule(ctx),
		"random": randomModule(),
	}
}

// timeModule extends the Starlark time module with a sleep that stops
// with the run.
func timeModule(ctx context.Context) *starlarkstruct.Module {
	members := make(starlark.StringDict, len(starlarktime.Module.Members)+1)
	for name, value := range starlarktime.Module.Members {
		members[name] = value
	}
	members["sleep"] = starlark.NewBuiltin("sleep", func(
		_ *starlark.Thread,
		b *starlark.Builtin,
		args starlark.Tuple,
		kwargs []starlark.Tuple,
	) (starlark.Value, error) {
		var secs starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &secs); err != nil {
			return nil, err
		}
		f, err := asNumber(b.Name(), secs)
		if err != nil {
			return nil, err
		}
		if f <= 0 {
			return starlark.None, nil
		}
		timer := time.NewTimer(time.Duration(f * float64(time.Second)))
		defer timer.Stop()
		select {
		case <-timer.C:
			return starlark.None, nil
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
	})
	return &starlarkstruct.Module{
		Name:    starlarktime.Module.Name,
		Members: members,
	}
}

type random struct {
	rng *rand.Rand
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func randomModule() *starlarkstruct.Module {
	r := &random{
		rng: newRand(rand.Uint64()),
	}
	members := starlark.StringDict{}
	for name, fn := range map[string]func(*random, string, starlark.Tuple, []starlark.Tuple) (starlark.Value, error){
		"random":    (*random).random,
		"uniform":   (*random).uniform,
		"randint":   (*random).randint,
		"randrange": (*random).randrange,
		"choice":    (*random).choice,
		"shuffle":   (*random).shuffle,
		"seed":      (*random).seed,
	} {
		members[name] = starlark.NewBuiltin(name, func(
			_ *starlark.Thread,
			b *starlark.Builtin,
			args starlark.Tuple,
			kwargs []starlark.Tuple,
		) (starlark.Value, error) {
			return fn(r, b.Name(), args, kwargs)
		})
	}
	return &starlarkstruct.Module{
		Name:    "random",
		Members: members,
	}
}

var errEmptyRange = errors.New("empty range")

func asNumber(name string, v starlark.Value) (float64, error) {
	f, ok := starlark.AsFloat(v)
	if !ok {
		return 0, fmt.Errorf("%s: got %s, want number", name, v.Type())
	}
	return f, nil
}

func (r *random) random(name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(name, args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.Float(r.rng.Float64()), nil
}

func (r *random) uniform(name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var a, b starlark.Value
	if err := starlark.UnpackArgs(name, args, kwargs, "a", &a, "b", &b); err != nil {
		return nil, err
	}
	lo, err := asNumber(name, a)
	if err != nil {
		return nil, err
	}
	hi, err := asNumber(name, b)
	if err != nil {
		return nil, err
	}
	return starlark.Float(lo + (hi-lo)*r.rng.Float64()), nil
}

func (r *random) randint(name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var a, b int
	if err := starlark.UnpackArgs(name, args, kwargs, "a", &a, "b", &b); err != nil {
		return nil, err
	}
	if b < a {
		return nil, errEmptyRange
	}
	return starlark.MakeInt(a + r.rng.IntN(b-a+1)), nil
}

func (r *random) randrange(name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start int
	var stop starlark.Value = starlark.None
	step := 1
	if err := starlark.UnpackArgs(name, args, kwargs, "start", &start, "stop?", &stop, "step?", &step); err != nil {
		return nil, err
	}
	end := start
	if stop == starlark.None {
		start = 0
	} else if err := starlark.AsInt(stop, &end); err != nil {
		return nil, err
	}
	if step == 0 {
		return nil, errors.New("zero step")
	}
	n := (end - start + step - sign(step)) / step
	if n <= 0 {
		return nil, errEmptyRange
	}
	return starlark.MakeInt(start + step*r.rng.IntN(n)), nil
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}

func (r *random) choice(name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var seq starlark.Indexable
	if err := starlark.UnpackPositionalArgs(name, args, kwargs, 1, &seq); err != nil {
		return nil, err
	}
	if seq.Len() == 0 {
		return nil, errors.New("cannot choose from an empty sequence")
	}
	return seq.Index(r.rng.IntN(seq.Len())), nil
}

func (r *random) shuffle(name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var list *starlark.List
	if err := starlark.UnpackPositionalArgs(name, args, kwargs, 1, &list); err != nil {
		return nil, err
	}
	for i := list.Len() - 1; i > 0; i-- {
		j := r.rng.IntN(i + 1)
		a, b := list.Index(i), list.Index(j)
		if err := list.SetIndex(i, b); err != nil {
			return nil, err
		}
		if err := list.SetIndex(j, a); err != nil {
			return nil, err
		}
	}
	return starlark.None, nil
}

func (r *random) seed(name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var a starlark.Value = starlark.None
	if err := starlark.UnpackPositionalArgs(name, args, kwargs, 0, &a); err != nil {
		return nil, err
	}
	if a == starlark.None {
		r.rng = newRand(rand.Uint64())
		return starlark.None, nil
	}
	var seed int64
	if err := starlark.AsInt(a, &seed); err != nil {
		return nil, err
	}
	r.rng = newRand(uint64(seed))
	return starlark.None, nil
}
