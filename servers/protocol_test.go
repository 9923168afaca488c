package servers

import (
	"errors"
	"testing"
)

func TestCodec(t *testing.T) {
	b, err := Encode(TypeKey, KeyMessage{
		Phase: "keydown",
		Key:   "Up",
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"t":"key","p":{"phase":"keydown","key":"Up"}}` {
		t.Fatalf("got %s", b)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatal(err)
	}
	msg, err := DecodePayload[KeyMessage](env)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Key != "Up" {
		t.Fatalf("got %+v", msg)
	}

	b, err = Encode(TypeStop, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"t":"stop"}` {
		t.Fatalf("got %s", b)
	}
	env, err = DecodeEnvelope(b)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodePayload[InputMessage](env); err == nil {
		t.Fatal("should fail")
	}

	if _, err := Encode("", nil); err == nil {
		t.Fatal("should fail")
	}
	if _, err := DecodeEnvelope(nil); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("got %v", err)
	}
	if _, err := DecodeEnvelope([]byte(`{"p":1}`)); err == nil {
		t.Fatal("should fail")
	}
	if _, err := DecodeEnvelope([]byte(`{`)); err == nil {
		t.Fatal("should fail")
	}
}
