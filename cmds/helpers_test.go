package cmds

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestVar(t *testing.T) {
	addr := Var[string]("TestVar.addr", "listen address")
	height := Var[int]("TestVar.height", "canvas height")
	GlobalExecutor.MustExecute([]string{
		"TestVar.addr", ":8421",
		"TestVar.height", "300",
	})
	if *addr != ":8421" || *height != 300 {
		t.Fatalf("got %q %v", *addr, *height)
	}
	GlobalExecutor.MustExecute([]string{
		"TestVar.height.",
	})
	if *height != 0 {
		t.Fatalf("got %v", *height)
	}
}

func TestSwitch(t *testing.T) {
	instant := Switch("TestSwitch", "draw without animation")
	GlobalExecutor.MustExecute([]string{
		"TestSwitch",
	})
	if !*instant {
		t.Fatal()
	}
	GlobalExecutor.MustExecute([]string{
		"!TestSwitch",
	})
	if *instant {
		t.Fatal()
	}
}

func TestCollect(t *testing.T) {
	files := Collect[string]("TestCollect", "extra file")
	GlobalExecutor.MustExecute([]string{
		"TestCollect", "a.py",
		"TestCollect", "b.py",
	})
	if str := fmt.Sprintf("%v", *files); str != "[a.py b.py]" {
		t.Fatalf("got %s", str)
	}
}

func TestTypedVar(t *testing.T) {
	type MainFile string
	v := Var[MainFile]("TestTypedVar", "main file")
	GlobalExecutor.MustExecute([]string{
		"TestTypedVar", "app.py",
	})
	if *v != "app.py" {
		t.Fatal()
	}
}

func TestFlagUsage(t *testing.T) {
	Var[float64]("TestFlagUsage", "turtle speed")
	Switch("TestFlagUsage.on", "turn on")
	buf := new(bytes.Buffer)
	GlobalExecutor.WriteUsage(buf)
	out := buf.String()
	if !strings.Contains(out, "TestFlagUsage <value>\tturtle speed") {
		t.Fatalf("got:\n%s", out)
	}
	if !strings.Contains(out, "TestFlagUsage.on\tturn on") {
		t.Fatalf("got:\n%s", out)
	}
	// reset forms stay hidden
	if strings.Contains(out, "TestFlagUsage.\n") || strings.Contains(out, "!TestFlagUsage") {
		t.Fatalf("got:\n%s", out)
	}
}
