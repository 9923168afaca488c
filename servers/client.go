package servers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/reusee/turtleplay/canvases"
	"github.com/reusee/turtleplay/consoles"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/playgrounds"
	"github.com/reusee/turtleplay/projects"
	"github.com/reusee/turtleplay/turtles"
)

const (
	readLimit    = 1 << 20
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 256
)

// client is one browser tab: a websocket, and the session, console, canvas
// and input hub behind it.
type client struct {
	id      int64
	server  *Server
	conn    *websocket.Conn
	logger  logs.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	sendCh  chan []byte
	done    chan struct{}
	once    sync.Once
	console *consoles.Console
	canvas  *canvases.Recorder
	events  *turtles.EventHub
	session *playgrounds.Session
}

func (s *Server) newClient(id int64, conn *websocket.Conn) *client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		id:      id,
		server:  s,
		conn:    conn,
		logger:  s.logger.With("client", id),
		ctx:     ctx,
		cancel:  cancel,
		sendCh:  make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		console: consoles.New(),
		canvas:  canvases.NewRecorder(s.width, s.height),
		events:  turtles.NewEventHub(),
	}
	c.session = s.newSession(c.console, turtles.Surface{
		Canvas: c.canvas,
		Events: c.events,
		OnTitle: func(title string) {
			c.send(TypeTitle, TitleMessage{
				Text: title,
			})
		},
	})
	return c
}

// attach starts mirroring the canvas and the console to the browser.
func (c *client) attach() {
	c.canvas.Listen(func(op canvases.Op) {
		c.send(TypeOp, op)
	})
	c.console.Listen(c.onConsole)
}

func (c *client) onConsole(ev consoles.Event) {
	switch ev.Kind {
	case consoles.EventOutput:
		c.send(TypeOutput, OutputMessage{
			Text:  ev.Text,
			Error: ev.Error,
		})
	case consoles.EventWaiting:
		c.send(TypeWaiting, WaitingMessage{
			Prompt: ev.Text,
		})
	case consoles.EventIdle:
		c.send(TypeIdle, nil)
	case consoles.EventClear:
		c.send(TypeClear, nil)
	}
}

// send queues a message. It blocks while the queue is full, so a slow
// browser slows the guest down instead of losing drawing ops.
func (c *client) send(t string, payload any) {
	b, err := Encode(t, payload)
	if err != nil {
		c.logger.Error("encode", "type", t, "error", err)
		return
	}
	select {
	case c.sendCh <- b:
	case <-c.done:
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.cancel()
		c.conn.Close()
	})
}

// shutdown detaches the session from the connection and stops it.
func (c *client) shutdown() {
	c.close()
	c.canvas.Listen(nil)
	c.console.Listen(nil)
	c.session.Stop()
	c.session.Engine().Reset()
}

func (c *client) readPump() {
	defer c.close()
	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read", "error", err)
			}
			return
		}
		if err := c.handle(message); err != nil {
			c.logger.Warn("bad message", "error", err)
			c.send(TypeError, ErrorMessage{
				Text: err.Error(),
			})
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Warn("write", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) handle(message []byte) error {
	env, err := DecodeEnvelope(message)
	if err != nil {
		return err
	}
	switch env.T {

	case TypeRun:
		msg, err := DecodePayload[RunMessage](env)
		if err != nil {
			return err
		}
		if msg.Project == nil {
			return fmt.Errorf("run: no project")
		}
		c.server.autosave(msg.Project)
		go c.run(msg.Project)

	case TypeStop:
		go c.session.Stop()

	case TypeInput:
		msg, err := DecodePayload[InputMessage](env)
		if err != nil {
			return err
		}
		c.session.SubmitInput(msg.Text)

	case TypeKey:
		msg, err := DecodePayload[KeyMessage](env)
		if err != nil {
			return err
		}
		phase := turtles.KeyPhase(msg.Phase)
		if phase != turtles.KeyDown && phase != turtles.KeyUp {
			return fmt.Errorf("key: bad phase %q", msg.Phase)
		}
		go c.events.PublishKey(turtles.KeyEvent{
			Phase: phase,
			Key:   msg.Key,
		})

	case TypeMouse:
		msg, err := DecodePayload[MouseMessage](env)
		if err != nil {
			return err
		}
		phase := turtles.MousePhase(msg.Phase)
		if phase != turtles.MouseClick && phase != turtles.MouseRelease {
			return fmt.Errorf("mouse: bad phase %q", msg.Phase)
		}
		go c.events.PublishMouse(turtles.MouseEvent{
			Phase: phase,
			X:     msg.X,
			Y:     msg.Y,
		})

	case TypeSave:
		msg, err := DecodePayload[ProjectMessage](env)
		if err != nil {
			return err
		}
		if msg.Project == nil {
			return fmt.Errorf("save: no project")
		}
		if err := c.server.store.Save(msg.Project); err != nil {
			return fmt.Errorf("save: %w", err)
		}

	case TypeShare:
		msg, err := DecodePayload[ProjectMessage](env)
		if err != nil {
			return err
		}
		if msg.Project == nil {
			return fmt.Errorf("share: no project")
		}
		hash, err := projects.EncodeShare(msg.Project)
		if err != nil {
			return err
		}
		c.send(TypeShared, SharedMessage{
			Hash: hash,
		})

	case TypeUnshare:
		msg, err := DecodePayload[UnshareMessage](env)
		if err != nil {
			return err
		}
		project, err := projects.DecodeShare(msg.Hash)
		if err != nil {
			return err
		}
		c.send(TypeProject, ProjectMessage{
			Project: project,
		})

	default:
		return fmt.Errorf("unknown message type %q", env.T)
	}
	return nil
}

func (c *client) run(project *projects.Project) {
	err := c.session.Run(c.ctx, project)
	var done DoneMessage
	switch {
	case errors.Is(err, playgrounds.ErrStopped), errors.Is(err, context.Canceled):
		done.Stopped = true
	case err != nil:
		done.Error = err.Error()
	}
	c.send(TypeDone, done)
}
