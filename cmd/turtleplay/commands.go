package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/gdamore/tcell/v2"
	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/canvases"
	"github.com/reusee/turtleplay/cmds"
	"github.com/reusee/turtleplay/consoles"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/nets"
	"github.com/reusee/turtleplay/playgrounds"
	"github.com/reusee/turtleplay/projects"
	"github.com/reusee/turtleplay/servers"
	"github.com/reusee/turtleplay/terminals"
	"github.com/reusee/turtleplay/turtleconfigs"
	"github.com/reusee/turtleplay/turtles"
)

var (
	replOutFlag = cmds.Var[string]("-out", "repl: write the drawing here on exit")
	shareQRFlag = cmds.Switch("-qr", "share: also print the link as a QR code")
)

func init() {
	define("render", "<src> <out>", "run a project and write its drawing as .svg or .png", func(src, out string) {
		command = func(ctx context.Context, scope dscope.Scope) (err error) {
			scope.Call(func(
				newSession playgrounds.NewSession,
				size turtleconfigs.CanvasSize,
				mainFile turtleconfigs.MainFile,
			) {
				err = render(ctx, newSession, size, mainFile, src, out)
			})
			return
		}
	})

	define("serve", "", "serve the browser playground", func() {
		command = func(ctx context.Context, scope dscope.Scope) (err error) {
			scope.Call(func(
				server *servers.Server,
			) {
				err = server.Serve(ctx)
			})
			return
		}
	})

	define("tui", "<src>", "run a project in the terminal", func(src string) {
		command = func(ctx context.Context, scope dscope.Scope) (err error) {
			if !logs.ToFile() {
				// stderr belongs to the screen
				scope = scope.Fork(func() logs.Writer {
					return io.Discard
				})
			}
			scope.Call(func(
				newTerminal terminals.NewTerminal,
				mainFile turtleconfigs.MainFile,
			) {
				err = tui(ctx, newTerminal, mainFile, src)
			})
			return
		}
	})

	define("repl", "[dir]", "interactive turtle session, optionally importing a project directory", func(dir *string) {
		command = func(ctx context.Context, scope dscope.Scope) (err error) {
			scope.Call(func(
				newSession playgrounds.NewSession,
				size turtleconfigs.CanvasSize,
				mainFile turtleconfigs.MainFile,
			) {
				err = repl(ctx, newSession, size, mainFile, *dir)
			})
			return
		}
	})

	define("share", "<src>", "print the share link hash of a project", func(src string) {
		command = func(ctx context.Context, scope dscope.Scope) (err error) {
			scope.Call(func(
				mainFile turtleconfigs.MainFile,
				addr turtleconfigs.ListenAddr,
			) {
				err = share(mainFile, addr, src)
			})
			return
		}
	})

	define("unshare", "<hash> <dir>", "write the project of a share link hash into a directory", func(hash, dir string) {
		command = func(ctx context.Context, scope dscope.Scope) error {
			project, err := projects.DecodeShare(hash)
			if err != nil {
				return err
			}
			return projects.SaveDir(dir, project)
		}
	})

	define("fetch", "<url> <dir>", "download a project or share link into a directory", func(url, dir string) {
		command = func(ctx context.Context, scope dscope.Scope) (err error) {
			scope.Call(func(
				client nets.HTTPClient,
				logger logs.Logger,
			) {
				logger.Info("fetch", "url", url)
				var project *projects.Project
				project, err = projects.Fetch(ctx, client, url)
				if err != nil {
					return
				}
				err = projects.SaveDir(dir, project)
			})
			return
		}
	})
}

func render(
	ctx context.Context,
	newSession playgrounds.NewSession,
	size turtleconfigs.CanvasSize,
	mainFile turtleconfigs.MainFile,
	src, out string,
) error {
	project, err := loadProject(src, mainFile)
	if err != nil {
		return err
	}
	rec := canvases.NewRecorder(size.Width, size.Height)
	console := consoles.New()
	printConsole(console, stdinLines())
	session := newSession(console, turtles.Surface{
		Canvas: rec,
	})
	if err := session.Run(ctx, project); err != nil {
		return err
	}
	session.Stop()
	// paint what is still queued for animation
	session.Engine().Scheduler().Flush()
	return writeDrawing(rec, out)
}

func tui(
	ctx context.Context,
	newTerminal terminals.NewTerminal,
	mainFile turtleconfigs.MainFile,
	src string,
) error {
	project, err := loadProject(src, mainFile)
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	return newTerminal(screen).Run(ctx, project)
}

func repl(
	ctx context.Context,
	newSession playgrounds.NewSession,
	size turtleconfigs.CanvasSize,
	mainFile turtleconfigs.MainFile,
	dir string,
) error {
	project := projects.New()
	if dir != "" {
		var err error
		project, err = loadProject(dir, mainFile)
		if err != nil {
			return err
		}
	}

	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".turtleplay_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile: historyFile,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	rec := canvases.NewRecorder(size.Width, size.Height)
	console := consoles.New()
	printConsole(console, func(prompt string) (string, error) {
		rl.SetPrompt("")
		return rl.Readline()
	})
	session := newSession(console, turtles.Surface{
		Canvas: rec,
	})
	err = session.REPL(ctx, project, rl)
	if errors.Is(err, readline.ErrInterrupt) {
		err = nil
	}
	if err != nil {
		return err
	}
	session.Stop()
	if *replOutFlag != "" {
		session.Engine().Scheduler().Flush()
		return writeDrawing(rec, *replOutFlag)
	}
	return nil
}

func share(
	mainFile turtleconfigs.MainFile,
	addr turtleconfigs.ListenAddr,
	src string,
) error {
	project, err := loadProject(src, mainFile)
	if err != nil {
		return err
	}
	hash, err := projects.EncodeShare(project)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	if !*shareQRFlag {
		return nil
	}
	text, err := projects.ShareQRText(projects.ShareURL(pageURL(string(addr)), hash))
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

// pageURL is where serve on addr can be opened from this machine.
func pageURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
