package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/reusee/turtleplay/canvases"
	"github.com/reusee/turtleplay/consoles"
	"github.com/reusee/turtleplay/projects"
	"github.com/reusee/turtleplay/turtleconfigs"
)

// loadProject reads a project directory, a single .py file or a stored
// project .json file.
func loadProject(path string, mainFile turtleconfigs.MainFile) (*projects.Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		p, err := projects.LoadDir(path)
		if err != nil {
			return nil, err
		}
		if _, ok := p.Files[string(mainFile)]; ok {
			p.Active = string(mainFile)
		}
		return p, nil
	}

	switch filepath.Ext(path) {
	case ".json":
		return projects.Store{
			Path: path,
		}.Load()
	case ".py":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(path)
		return &projects.Project{
			Files: map[string]string{
				name: string(content),
			},
			Active: name,
		}, nil
	}
	return nil, fmt.Errorf("%s: not a project", path)
}

// writeDrawing encodes the retained drawing by the extension of path.
func writeDrawing(rec *canvases.Recorder, path string) (err error) {
	var encode func(io.Writer, *canvases.Recorder) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		encode = canvases.EncodeSVG
	case ".png":
		encode = canvases.EncodePNG
	default:
		return fmt.Errorf("%s: want .svg or .png", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()
	w := bufio.NewWriter(f)
	if err := encode(w, rec); err != nil {
		return err
	}
	return w.Flush()
}

// printConsole mirrors console output to stdout and stderr. Input requests
// are answered by readLine when it is set.
func printConsole(console *consoles.Console, readLine func(prompt string) (string, error)) {
	var mu sync.Mutex
	console.Listen(func(ev consoles.Event) {
		switch ev.Kind {
		case consoles.EventOutput:
			mu.Lock()
			if ev.Error {
				os.Stderr.WriteString(ev.Text)
			} else {
				os.Stdout.WriteString(ev.Text)
			}
			mu.Unlock()
		case consoles.EventWaiting:
			if readLine == nil {
				return
			}
			if !strings.HasSuffix(console.Output(), ev.Text) {
				mu.Lock()
				os.Stdout.WriteString(ev.Text)
				mu.Unlock()
			}
			line, err := readLine(ev.Text)
			if err != nil {
				console.Reset()
				return
			}
			console.SubmitInput(line)
		}
	})
}

// stdinLines reads input lines from stdin.
func stdinLines() func(string) (string, error) {
	r := bufio.NewReader(os.Stdin)
	return func(string) (string, error) {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
