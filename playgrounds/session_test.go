package playgrounds

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/canvases"
	"github.com/reusee/turtleplay/configs"
	"github.com/reusee/turtleplay/consoles"
	"github.com/reusee/turtleplay/modes"
	"github.com/reusee/turtleplay/projects"
	"github.com/reusee/turtleplay/schedulers"
	"github.com/reusee/turtleplay/turtleconfigs"
	"github.com/reusee/turtleplay/turtles"
)

func newTestSession() *Session {
	engine := turtles.New(turtles.Options{
		Canvas: canvases.NewRecorder(turtles.DefaultCanvasWidth, turtles.DefaultCanvasHeight),
		Driver: new(schedulers.ManualDriver),
	})
	return New(Options{
		Engine: engine,
	})
}

func project(files map[string]string) *projects.Project {
	return &projects.Project{
		Files:  files,
		Active: projects.DefaultMainFile,
	}
}

func waitPrompt(t *testing.T, console *consoles.Console) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if prompt, ok := console.Waiting(); ok {
			return prompt
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no input request")
	return ""
}

func waitOutput(t *testing.T, console *consoles.Console, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(console.Output(), want) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no output %q", want)
}

func TestRunPrint(t *testing.T) {
	s := newTestSession()
	s.Console().Print("stale output")
	if err := s.Run(t.Context(), project(map[string]string{
		"main.py": "print(\"hi\")\nprint(1 + 2)\n",
	})); err != nil {
		t.Fatal(err)
	}
	if out := s.Console().Output(); out != "hi\n3\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunTurtle(t *testing.T) {
	s := newTestSession()
	p := project(map[string]string{
		"main.py": "from turtle import *\nspeed(0)\nforward(50)\n",
	})
	for range 2 {
		if err := s.Run(t.Context(), p); err != nil {
			t.Fatal(err)
		}
		if x, _ := s.Engine().Position(); x != 50 {
			t.Fatalf("got %v", x)
		}
	}

	// no turtle usage, no reset
	if err := s.Run(t.Context(), project(map[string]string{
		"main.py": "print(1)",
	})); err != nil {
		t.Fatal(err)
	}
	if x, _ := s.Engine().Position(); x != 50 {
		t.Fatalf("got %v", x)
	}
}

func TestRunMainFile(t *testing.T) {
	s := newTestSession()
	p := &projects.Project{
		Files: map[string]string{
			"a.py": "print(\"a\")",
			"b.py": "print(\"b\")",
		},
		Active: "b.py",
	}
	if err := s.Run(t.Context(), p); err != nil {
		t.Fatal(err)
	}
	if out := s.Console().Output(); out != "b\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunModules(t *testing.T) {
	s := newTestSession()
	if err := s.Run(t.Context(), project(map[string]string{
		"helper.py": "def double(x):\n    return x * 2\n\nname = \"helper\"\n",
		"main.py": strings.Join([]string{
			"import helper",
			"from helper import double as d",
			"import math",
			"print(helper.double(2), d(3), helper.name, math.sqrt(16))",
		}, "\n"),
	})); err != nil {
		t.Fatal(err)
	}
	if out := s.Console().Output(); out != "4 6 helper 4.0\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunImportCycle(t *testing.T) {
	s := newTestSession()
	err := s.Run(t.Context(), project(map[string]string{
		"a.py":    "import b\n",
		"b.py":    "import a\n",
		"main.py": "import a\n",
	}))
	if err == nil || !strings.Contains(err.Error(), ErrImportCycle.Error()) {
		t.Fatalf("got %v", err)
	}
}

func TestRunError(t *testing.T) {
	s := newTestSession()
	err := s.Run(t.Context(), project(map[string]string{
		"main.py": "import turtle\nturtle.forward(\"far\")\n",
	}))
	if err == nil {
		t.Fatal("should fail")
	}
	out := s.Console().Output()
	if !strings.HasPrefix(out, "Error: ") || !strings.Contains(out, "want number") {
		t.Fatalf("got %q", out)
	}
	if !strings.Contains(out, "main.py:2") {
		t.Fatalf("should point at the line: %q", out)
	}

	err = s.Run(t.Context(), project(map[string]string{
		"main.py": "import os\n",
	}))
	if !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("got %v", err)
	}
	if out := s.Console().Output(); !strings.Contains(out, "no module named os") {
		t.Fatalf("got %q", out)
	}
}

func TestRunInput(t *testing.T) {
	s := newTestSession()
	done := make(chan error, 1)
	go func() {
		done <- s.Run(t.Context(), project(map[string]string{
			"main.py": "name = input(\"name? \")\nprint(\"hi \" + name)\n",
		}))
	}()
	if prompt := waitPrompt(t, s.Console()); prompt != "name? " {
		t.Fatalf("got %q", prompt)
	}
	if !s.SubmitInput("bob") {
		t.Fatal()
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if out := s.Console().Output(); out != "name? bob\nhi bob\n" {
		t.Fatalf("got %q", out)
	}
}

func TestStop(t *testing.T) {
	s := newTestSession()
	s.Stop()

	done := make(chan error, 1)
	go func() {
		done <- s.Run(t.Context(), project(map[string]string{
			"main.py": "print(\"loop\")\nwhile True:\n    pass\n",
		}))
	}()
	waitOutput(t, s.Console(), "loop")
	s.Stop()
	select {
	case err := <-done:
		if !errors.Is(err, ErrStopped) {
			t.Fatalf("got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("not stopped")
	}
	if out := s.Console().Output(); strings.Contains(out, "Error") {
		t.Fatalf("got %q", out)
	}
}

func TestRunReplacesRun(t *testing.T) {
	s := newTestSession()
	done := make(chan error, 1)
	go func() {
		done <- s.Run(t.Context(), project(map[string]string{
			"main.py": "input()\n",
		}))
	}()
	if prompt := waitPrompt(t, s.Console()); prompt != ">" {
		t.Fatalf("got %q", prompt)
	}
	if err := s.Run(t.Context(), project(map[string]string{
		"main.py": "print(\"second\")",
	})); err != nil {
		t.Fatal(err)
	}
	if err := <-done; !errors.Is(err, ErrStopped) {
		t.Fatalf("got %v", err)
	}
	if out := s.Console().Output(); out != "second\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunCancelsPreviousAnimation(t *testing.T) {
	s := newTestSession()
	if err := s.Run(t.Context(), project(map[string]string{
		"main.py": strings.Join([]string{
			"from turtle import *",
			"speed(1)",
			"forward(500)",
			"def hit():",
			"    print(\"hit\")",
			"onkey(hit, \"a\")",
			"listen()",
		}, "\n"),
	})); err != nil {
		t.Fatal(err)
	}
	scheduler := s.Engine().Scheduler()
	gen := scheduler.Generation()
	if n := scheduler.Pending(); n != 125 {
		t.Fatalf("got %d", n)
	}
	if !s.Engine().Listening() {
		t.Fatal()
	}

	if err := s.Run(t.Context(), project(map[string]string{
		"main.py": "print(1)",
	})); err != nil {
		t.Fatal(err)
	}
	if scheduler.Generation() == gen {
		t.Fatal("generation should change")
	}
	if n := scheduler.Pending(); n != 0 {
		t.Fatalf("got %d", n)
	}
	if s.Engine().Listening() {
		t.Fatal()
	}
	if s.Engine().DispatchKey(turtles.KeyEvent{Phase: turtles.KeyDown, Key: "a"}) {
		t.Fatal("binding of the previous run should be gone")
	}
	// no turtle usage, the turtle is kept
	if x, _ := s.Engine().Position(); x != 500 {
		t.Fatalf("got %v", x)
	}
}

func TestHostModules(t *testing.T) {
	s := newTestSession()
	if err := s.Run(t.Context(), project(map[string]string{
		"main.py": strings.Join([]string{
			"import random, time",
			"random.seed(1)",
			"a = random.randint(1, 6)",
			"random.seed(1)",
			"b = random.randint(1, 6)",
			"print(a == b, 1 <= a and a <= 6)",
			"r = random.randrange(10)",
			"print(0 <= r and r < 10, random.choice([\"x\"]))",
			"l = [3, 1, 2]",
			"random.shuffle(l)",
			"print(sorted(l))",
			"time.sleep(0)",
		}, "\n"),
	})); err != nil {
		t.Fatal(err)
	}
	if out := s.Console().Output(); out != "True True\nTrue x\n[1, 2, 3]\n" {
		t.Fatalf("got %q", out)
	}
}

func TestHostModuleNumbers(t *testing.T) {
	s := newTestSession()
	if err := s.Run(t.Context(), project(map[string]string{
		"main.py": strings.Join([]string{
			"import random, time",
			"u = random.uniform(1, 2.5)",
			"print(1 <= u and u <= 2.5)",
			"time.sleep(0.0)",
		}, "\n"),
	})); err != nil {
		t.Fatal(err)
	}
	if out := s.Console().Output(); out != "True\n" {
		t.Fatalf("got %q", out)
	}

	for _, src := range []string{
		"import time\ntime.sleep(\"1\")\n",
		"import random\nrandom.uniform(\"a\", 1)\n",
	} {
		err := s.Run(t.Context(), project(map[string]string{
			"main.py": src,
		}))
		if err == nil || !strings.Contains(err.Error(), "want number") {
			t.Fatalf("got %v", err)
		}
	}
}

func TestSleepStops(t *testing.T) {
	s := newTestSession()
	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background(), project(map[string]string{
			"main.py": "import time\nprint(\"sleep\")\ntime.sleep(3600)\n",
		}))
	}()
	waitOutput(t, s.Console(), "sleep")
	s.Stop()
	select {
	case err := <-done:
		if !errors.Is(err, ErrStopped) {
			t.Fatalf("got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("not stopped")
	}
}

func TestModule(t *testing.T) {
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		func() configs.Loader {
			return turtleconfigs.NewLoader("../turtleconfigs/testdata/turtleplay.cue")
		},
	).Call(func(
		newSession NewSession,
	) {
		console := consoles.New()
		var title string
		s := newSession(console, turtles.Surface{
			Canvas: canvases.NewRecorder(1, 1),
			OnTitle: func(s string) {
				title = s
			},
		})
		if s.Console() != console {
			t.Fatal()
		}
		if err := s.Run(t.Context(), project(map[string]string{
			"main.py": "from turtle import *\ntitle(\"demo\")\nprint(screensize())\n",
		})); err != nil {
			t.Fatal(err)
		}
		if title != "demo" {
			t.Fatalf("got %q", title)
		}
		if out := console.Output(); out != "(640, 300)\n" {
			t.Fatalf("got %q", out)
		}
	})
}
