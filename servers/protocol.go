package servers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/reusee/turtleplay/projects"
)

// Envelope is the frame of every websocket message: a type tag and its
// JSON payload.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// client to server
const (
	TypeRun     = "run"
	TypeStop    = "stop"
	TypeInput   = "input"
	TypeKey     = "key"
	TypeMouse   = "mouse"
	TypeSave    = "save"
	TypeShare   = "share"
	TypeUnshare = "unshare"
)

// server to client
const (
	TypeHello   = "hello"
	TypeOp      = "op"
	TypeOutput  = "output"
	TypeWaiting = "waiting"
	TypeIdle    = "idle"
	TypeClear   = "clear"
	TypeDone    = "done"
	TypeTitle   = "title"
	TypeShared  = "shared"
	TypeProject = "project"
	TypeError   = "error"
)

type RunMessage struct {
	Project *projects.Project `json:"project"`
}

type InputMessage struct {
	Text string `json:"text"`
}

type KeyMessage struct {
	Phase string `json:"phase"`
	Key   string `json:"key"`
}

// MouseMessage carries canvas pixel coordinates.
type MouseMessage struct {
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type ProjectMessage struct {
	Project *projects.Project `json:"project"`
}

type UnshareMessage struct {
	Hash string `json:"hash"`
}

type HelloMessage struct {
	Width   int               `json:"width"`
	Height  int               `json:"height"`
	Project *projects.Project `json:"project"`
}

type OutputMessage struct {
	Text  string `json:"text"`
	Error bool   `json:"error,omitempty"`
}

type WaitingMessage struct {
	Prompt string `json:"prompt"`
}

type DoneMessage struct {
	Error   string `json:"error,omitempty"`
	Stopped bool   `json:"stopped,omitempty"`
}

type TitleMessage struct {
	Text string `json:"text"`
}

type SharedMessage struct {
	Hash string `json:"hash"`
}

type ErrorMessage struct {
	Text string `json:"text"`
}

var ErrEmptyMessage = errors.New("empty message")

// Encode frames payload under type t. A nil payload leaves P out.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode: no message type")
	}
	e := Envelope{
		T: t,
	}
	if payload != nil {
		p, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		e.P = p
	}
	return json.Marshal(e)
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyMessage
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("decode: no message type")
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
