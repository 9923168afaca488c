package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/cmds"
	"github.com/reusee/turtleplay/modes"
)

// command is set by the command line and run once the scope is built.
var command func(ctx context.Context, scope dscope.Scope) error

func define(name string, args string, desc string, fn any) {
	cmds.Define(name, cmds.Func(fn).Args(args).Desc(desc))
}

func main() {
	// .env may set TURTLEPLAY_ADDR and proxy variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		ce(err)
	}

	cmds.Execute(os.Args[1:])
	if command == nil {
		cmds.PrintUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)
	ce(command(ctx, scope))
}

func ce(err error) {
	if err != nil {
		os.Stderr.WriteString(err.Error())
		os.Stderr.WriteString("\n")
		os.Exit(-1)
	}
}
