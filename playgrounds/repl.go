package playgrounds

import (
	"context"
	"errors"
	"io"
	"maps"

	"github.com/reusee/turtleplay/projects"
	"github.com/reusee/turtleplay/shims"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// LineReader is the part of a line editor the REPL needs.
// *readline.Instance implements it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

const (
	replPrompt   = ">>> "
	replContinue = "... "
	replFile     = "<stdin>"
)

var replOptions = func() *syntax.FileOptions {
	opts := *shims.FileOptions
	opts.LoadBindsGlobally = true
	return &opts
}()

// REPL reads statements from rl and runs them until rl fails, io.EOF
// ending the session normally. Files of project can be imported. Values of
// expression statements are printed to the console, errors too.
func (s *Session) REPL(ctx context.Context, project *projects.Project, rl LineReader) error {
	ctx, finish := s.begin(ctx)
	defer finish()
	s.console.Reset()
	s.logger.InfoContext(ctx, "repl",
		"files", len(project.Files),
	)

	e, err := s.newEnv(ctx, project, replFile)
	if err != nil {
		return err
	}
	defer e.stop()
	globals := maps.Clone(e.predeclared)

	for {
		if cause := context.Cause(ctx); cause != nil {
			return cause
		}

		var readErr error
		rl.SetPrompt(replPrompt)
		f, err := replOptions.ParseCompoundStmt(replFile, func() ([]byte, error) {
			line, err := rl.Readline()
			rl.SetPrompt(replContinue)
			if err != nil {
				readErr = err
				return nil, err
			}
			line, err = e.loader.imports.rewrite(line)
			if err != nil {
				return nil, err
			}
			return []byte(line + "\n"), nil
		})
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
		if err != nil {
			s.report(ctx, err)
			continue
		}

		var value starlark.Value
		err = e.invoker.Exclusive(func() error {
			if expr := soleExpr(f); expr != nil {
				var err error
				value, err = starlark.EvalExprOptions(f.Options, e.thread, expr, globals)
				return err
			}
			return starlark.ExecREPLChunk(f, e.thread, globals)
		})
		if cause := context.Cause(ctx); cause != nil {
			return cause
		}
		if err != nil {
			s.report(ctx, err)
			continue
		}
		if value != nil && value != starlark.None {
			s.console.Print(value.String() + "\n")
		}
	}
}

func soleExpr(f *syntax.File) syntax.Expr {
	if len(f.Stmts) != 1 {
		return nil
	}
	if stmt, ok := f.Stmts[0].(*syntax.ExprStmt); ok {
		return stmt.X
	}
	return nil
}
