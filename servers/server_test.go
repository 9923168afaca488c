package servers

import (
	"context"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/reusee/dscope"
	"github.com/reusee/turtleplay/canvases"
	"github.com/reusee/turtleplay/configs"
	"github.com/reusee/turtleplay/modes"
	"github.com/reusee/turtleplay/projects"
	"github.com/reusee/turtleplay/turtleconfigs"
)

func withServer(t *testing.T, fn func(server *Server, store projects.Store)) {
	storePath := filepath.Join(t.TempDir(), "project.json")
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		func() configs.Loader {
			return turtleconfigs.NewLoader("../turtleconfigs/testdata/turtleplay.cue")
		},
		func() projects.Store {
			return projects.Store{
				Path: storePath,
			}
		},
	).Call(fn)
}

type testConn struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, url string) *testConn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return &testConn{
		t:    t,
		conn: conn,
	}
}

func (c *testConn) send(typ string, payload any) {
	c.t.Helper()
	b, err := Encode(typ, payload)
	if err != nil {
		c.t.Fatal(err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		c.t.Fatal(err)
	}
}

func (c *testConn) next() Envelope {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatal(err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		c.t.Fatal(err)
	}
	return env
}

// until reads messages up to the first one of type typ. It returns that
// message and the ones before it.
func (c *testConn) until(typ string) (Envelope, []Envelope) {
	c.t.Helper()
	var seen []Envelope
	for {
		env := c.next()
		if env.T == typ {
			return env, seen
		}
		seen = append(seen, env)
	}
}

func payload[T any](t *testing.T, env Envelope) T {
	t.Helper()
	ret, err := DecodePayload[T](env)
	if err != nil {
		t.Fatal(err)
	}
	return ret
}

func outputOf(t *testing.T, envs []Envelope) string {
	t.Helper()
	var b strings.Builder
	for _, env := range envs {
		if env.T == TypeOutput {
			b.WriteString(payload[OutputMessage](t, env).Text)
		}
	}
	return b.String()
}

func runMessage(src string) RunMessage {
	return RunMessage{
		Project: &projects.Project{
			Files: map[string]string{
				"main.py": src,
			},
			Active: "main.py",
		},
	}
}

func TestIndex(t *testing.T) {
	withServer(t, func(server *Server, _ projects.Store) {
		ts := httptest.NewServer(server.Handler())
		defer ts.Close()
		resp, err := http.Get(ts.URL)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(body), "<canvas") {
			t.Fatal("no canvas")
		}
		resp, err = http.Get(ts.URL + "/nope")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("got %d", resp.StatusCode)
		}
	})
}

func TestRun(t *testing.T) {
	withServer(t, func(server *Server, store projects.Store) {
		ts := httptest.NewServer(server.Handler())
		defer ts.Close()
		c := dial(t, ts.URL)

		hello := payload[HelloMessage](t, c.next())
		if hello.Width != 640 || hello.Height != 300 {
			t.Fatalf("got %+v", hello)
		}
		if hello.Project == nil || hello.Project.MainFile() != projects.DefaultMainFile {
			t.Fatalf("got %+v", hello.Project)
		}

		src := "from turtle import *\nspeed(0)\ntitle(\"demo\")\nforward(10)\nprint(\"x\")\n"
		c.send(TypeRun, runMessage(src))
		env, seen := c.until(TypeDone)
		if done := payload[DoneMessage](t, env); done.Error != "" || done.Stopped {
			t.Fatalf("got %+v", done)
		}
		if out := outputOf(t, seen); out != "x\n" {
			t.Fatalf("got %q", out)
		}
		var lines, titles int
		for _, env := range seen {
			switch env.T {
			case TypeOp:
				if payload[canvases.Op](t, env).Kind == canvases.OpLineTo {
					lines++
				}
			case TypeTitle:
				if payload[TitleMessage](t, env).Text == "demo" {
					titles++
				}
			}
		}
		if lines == 0 || titles != 1 {
			t.Fatalf("got %d lines, %d titles", lines, titles)
		}

		// runs are saved
		p, err := store.Load()
		if err != nil {
			t.Fatal(err)
		}
		if p.Files["main.py"] != src {
			t.Fatalf("got %+v", p)
		}

		c.send(TypeRun, runMessage("forward(\"far\")\n"))
		env, seen = c.until(TypeDone)
		if done := payload[DoneMessage](t, env); !strings.Contains(done.Error, "want number") {
			t.Fatalf("got %+v", done)
		}
		if out := outputOf(t, seen); !strings.HasPrefix(out, "Error: ") {
			t.Fatalf("got %q", out)
		}
	})
}

func TestInput(t *testing.T) {
	withServer(t, func(server *Server, _ projects.Store) {
		ts := httptest.NewServer(server.Handler())
		defer ts.Close()
		c := dial(t, ts.URL)
		c.until(TypeHello)

		c.send(TypeRun, runMessage("print(\"hi \" + input(\"name? \"))\n"))
		env, _ := c.until(TypeWaiting)
		if prompt := payload[WaitingMessage](t, env).Prompt; prompt != "name? " {
			t.Fatalf("got %q", prompt)
		}
		c.send(TypeInput, InputMessage{
			Text: "bob",
		})
		_, seen := c.until(TypeDone)
		if out := outputOf(t, seen); !strings.Contains(out, "hi bob\n") {
			t.Fatalf("got %q", out)
		}
	})
}

func TestEvents(t *testing.T) {
	withServer(t, func(server *Server, _ projects.Store) {
		ts := httptest.NewServer(server.Handler())
		defer ts.Close()
		c := dial(t, ts.URL)
		c.until(TypeHello)

		c.send(TypeRun, runMessage(strings.Join([]string{
			"from turtle import *",
			"def up():",
			"    print(\"up\")",
			"def clicked(x, y):",
			"    print(\"click\", x, y)",
			"onkey(up, \"Up\")",
			"onscreenclick(clicked)",
			"listen()",
		}, "\n")))
		c.until(TypeDone)

		c.send(TypeKey, KeyMessage{
			Phase: "keydown",
			Key:   "ArrowUp",
		})
		env, _ := c.until(TypeOutput)
		if text := payload[OutputMessage](t, env).Text; text != "up\n" {
			t.Fatalf("got %q", text)
		}

		// canvas center
		c.send(TypeMouse, MouseMessage{
			Phase: "click",
			X:     320,
			Y:     150,
		})
		env, _ = c.until(TypeOutput)
		if text := payload[OutputMessage](t, env).Text; text != "click 0.0 0.0\n" {
			t.Fatalf("got %q", text)
		}

		c.send(TypeKey, KeyMessage{
			Phase: "sideways",
		})
		env, _ = c.until(TypeError)
		if text := payload[ErrorMessage](t, env).Text; !strings.Contains(text, "bad phase") {
			t.Fatalf("got %q", text)
		}
	})
}

func TestStop(t *testing.T) {
	withServer(t, func(server *Server, _ projects.Store) {
		ts := httptest.NewServer(server.Handler())
		defer ts.Close()
		c := dial(t, ts.URL)
		c.until(TypeHello)

		c.send(TypeRun, runMessage("print(\"loop\")\nwhile True:\n    pass\n"))
		c.until(TypeOutput)
		c.send(TypeStop, nil)
		env, _ := c.until(TypeDone)
		if done := payload[DoneMessage](t, env); !done.Stopped || done.Error != "" {
			t.Fatalf("got %+v", done)
		}
	})
}

func TestShare(t *testing.T) {
	withServer(t, func(server *Server, store projects.Store) {
		ts := httptest.NewServer(server.Handler())
		defer ts.Close()
		c := dial(t, ts.URL)
		c.until(TypeHello)

		project := runMessage("print(1)\n").Project
		c.send(TypeShare, ProjectMessage{
			Project: project,
		})
		env, _ := c.until(TypeShared)
		hash := payload[SharedMessage](t, env).Hash
		if hash == "" {
			t.Fatal()
		}

		c.send(TypeUnshare, UnshareMessage{
			Hash: hash,
		})
		env, _ = c.until(TypeProject)
		got := payload[ProjectMessage](t, env).Project
		if got.Files["main.py"] != "print(1)\n" {
			t.Fatalf("got %+v", got)
		}

		c.send(TypeSave, ProjectMessage{
			Project: project,
		})
		c.send(TypeUnshare, UnshareMessage{
			Hash: "!!",
		})
		c.until(TypeError)
		p, err := store.Load()
		if err != nil {
			t.Fatal(err)
		}
		if p.Files["main.py"] != "print(1)\n" {
			t.Fatalf("got %+v", p)
		}

		c.send("nope", nil)
		env, _ = c.until(TypeError)
		if text := payload[ErrorMessage](t, env).Text; !strings.Contains(text, "unknown message type") {
			t.Fatalf("got %q", text)
		}
	})
}

func TestShareQR(t *testing.T) {
	withServer(t, func(server *Server, _ projects.Store) {
		ts := httptest.NewServer(server.Handler())
		defer ts.Close()

		hash, err := projects.EncodeShare(runMessage("print(1)\n").Project)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.Get(ts.URL + "/qr/" + hash)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("got %v", resp.Status)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Fatalf("got %q", ct)
		}
		img, err := png.Decode(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if img.Bounds().Dx() != qrSize {
			t.Fatalf("got %v", img.Bounds())
		}

		resp2, err := http.Get(ts.URL + "/qr/nope")
		if err != nil {
			t.Fatal(err)
		}
		resp2.Body.Close()
		if resp2.StatusCode != http.StatusBadRequest {
			t.Fatalf("got %v", resp2.Status)
		}
	})
}

func TestServeListener(t *testing.T) {
	withServer(t, func(server *Server, _ projects.Store) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		ctx, cancel := context.WithCancel(t.Context())
		served := make(chan error, 1)
		go func() {
			served <- server.ServeListener(ctx, ln)
		}()

		c := dial(t, "http://"+ln.Addr().String())
		c.until(TypeHello)
		deadline := time.Now().Add(5 * time.Second)
		for server.Clients() != 1 {
			if time.Now().After(deadline) {
				t.Fatal("not registered")
			}
			time.Sleep(time.Millisecond)
		}

		cancel()
		select {
		case err := <-served:
			if err != nil {
				t.Fatal(err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("not shut down")
		}
		c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if _, _, err := c.conn.ReadMessage(); err == nil {
			t.Fatal("should be closed")
		}
	})
}
