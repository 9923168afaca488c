package playgrounds

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/reusee/turtleplay/consoles"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/projects"
	"github.com/reusee/turtleplay/shims"
	"github.com/reusee/turtleplay/turtles"
	"go.starlark.net/starlark"
)

var ErrStopped = errors.New("stopped")

type Options struct {
	Engine  *turtles.Engine
	Console *consoles.Console
	Logger  logs.Logger
	NewSpan logs.NewSpan
}

// Session runs the programs of a project, one at a time, against a console
// and a turtle engine.
type Session struct {
	engine  *turtles.Engine
	console *consoles.Console
	logger  logs.Logger
	newSpan logs.NewSpan

	mu      sync.Mutex
	current *run
}

type run struct {
	cancel context.CancelCauseFunc
	done   chan struct{}
}

func New(opts Options) *Session {
	s := &Session{
		engine:  opts.Engine,
		console: opts.Console,
		logger:  opts.Logger,
		newSpan: opts.NewSpan,
	}
	if s.console == nil {
		s.console = consoles.New()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.newSpan == nil {
		s.newSpan = func(ctx context.Context, _ logs.Span) (context.Context, logs.Span) {
			return ctx, ""
		}
	}
	return s
}

func (s *Session) Engine() *turtles.Engine {
	return s.engine
}

func (s *Session) Console() *consoles.Console {
	return s.console
}

// Run executes the main file of project. A run still going is stopped
// first. Run returns when the main file finishes; event callbacks it
// registered keep running until the next Run or Stop. Errors are also
// printed to the console.
func (s *Session) Run(ctx context.Context, project *projects.Project) error {
	ctx, finish := s.begin(ctx)
	defer finish()

	s.console.Reset()
	s.console.Clear()
	s.engine.CancelRun()
	if project.UsesTurtle() {
		s.engine.Reset()
	}

	main := project.MainFile()
	s.logger.InfoContext(ctx, "run",
		"main", main,
		"files", len(project.Files),
	)
	err := s.exec(ctx, project, main)
	if cause := context.Cause(ctx); cause != nil {
		s.logger.InfoContext(ctx, "run stopped", "cause", cause)
		return cause
	}
	if err != nil {
		s.report(ctx, err)
		return err
	}
	return nil
}

// begin makes a new run current, stopping the previous one.
func (s *Session) begin(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	r := &run{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.mu.Lock()
	prev := s.current
	s.current = r
	s.mu.Unlock()
	if prev != nil {
		prev.cancel(ErrStopped)
		<-prev.done
	}
	ctx, _ = s.newSpan(ctx, "")
	return ctx, func() {
		close(r.done)
	}
}

// Stop cancels the current run and waits for its main file to return.
func (s *Session) Stop() {
	s.mu.Lock()
	r := s.current
	s.mu.Unlock()
	if r == nil {
		return
	}
	r.cancel(ErrStopped)
	<-r.done
}

// SubmitInput answers a pending input() or textinput().
func (s *Session) SubmitInput(line string) bool {
	return s.console.SubmitInput(line)
}

func (s *Session) report(ctx context.Context, err error) {
	s.console.Error("Error: " + errorText(err))
	s.logger.ErrorContext(ctx, "guest error",
		"error", logs.WrapSpan(ctx, err),
	)
}

func errorText(err error) string {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Backtrace()
	}
	return err.Error()
}

// env is what guest code of one run sees.
type env struct {
	invoker     *shims.Invoker
	loader      *loader
	thread      *starlark.Thread
	predeclared starlark.StringDict
	stop        func() bool
}

func (s *Session) newEnv(ctx context.Context, project *projects.Project, main string) (*env, error) {
	modules := hostModules(ctx)
	l := &loader{
		project: project,
		cache: map[string]*loadEntry{
			main: nil,
		},
	}
	invoker := shims.NewInvoker(
		ctx,
		func(name string) *starlark.Thread {
			return &starlark.Thread{
				Name:  name,
				Print: s.print,
				Load:  l.load,
			}
		},
		func(err error) {
			s.report(ctx, err)
		},
	)
	l.thread = invoker.Thread

	thread, stop := invoker.Thread("main")
	host := shims.Host(s.engine, shims.HostOptions{
		Invoker: invoker,
		ReadLine: func(prompt string) (string, error) {
			return s.console.ReadLine(ctx, prompt)
		},
	})
	turtle, err := shims.Load(thread, host)
	if err != nil {
		stop()
		return nil, err
	}

	predeclared := shims.Predeclared(turtle)
	for name, mod := range modules {
		predeclared[name] = mod
	}
	predeclared["input"] = s.input(ctx)
	modules[shims.ModuleName] = turtle
	l.predeclared = predeclared
	l.imports = imports{
		modules: modules,
		globalMembers: map[string]bool{
			shims.ModuleName: true,
		},
		hasFile: func(name string) bool {
			_, ok := project.Files[name]
			return ok
		},
	}

	return &env{
		invoker:     invoker,
		loader:      l,
		thread:      thread,
		predeclared: predeclared,
		stop:        stop,
	}, nil
}

func (s *Session) exec(ctx context.Context, project *projects.Project, main string) error {
	e, err := s.newEnv(ctx, project, main)
	if err != nil {
		return err
	}
	defer e.stop()
	src, err := e.loader.source(main)
	if err != nil {
		return err
	}
	return e.invoker.Exclusive(func() error {
		_, err := starlark.ExecFileOptions(shims.FileOptions, e.thread, main, src, e.predeclared)
		return err
	})
}

func (s *Session) print(_ *starlark.Thread, msg string) {
	s.console.Print(msg + "\n")
}

// input prints the prompt and waits for a console line.
func (s *Session) input(ctx context.Context) *starlark.Builtin {
	return starlark.NewBuiltin("input", func(
		_ *starlark.Thread,
		b *starlark.Builtin,
		args starlark.Tuple,
		kwargs []starlark.Tuple,
	) (starlark.Value, error) {
		var prompt starlark.Value = starlark.String("")
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0, &prompt); err != nil {
			return nil, err
		}
		text, ok := starlark.AsString(prompt)
		if !ok {
			text = prompt.String()
		}
		if text != "" {
			s.console.Print(text)
		}
		line, err := s.console.ReadLine(ctx, text)
		if err != nil {
			return nil, err
		}
		return starlark.String(line), nil
	})
}
