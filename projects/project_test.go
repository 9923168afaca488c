package projects

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reusee/dscope"
)

func TestMainFile(t *testing.T) {
	p := New()
	if p.MainFile() != "main.py" {
		t.Fatal()
	}
	if err := p.Add("helper.py"); err != nil {
		t.Fatal(err)
	}
	if p.Active != "helper.py" || p.MainFile() != "main.py" {
		t.Fatalf("got %+v", p)
	}
	if err := p.Rename("main.py", "app.py"); err != nil {
		t.Fatal(err)
	}
	if p.MainFile() != "helper.py" {
		t.Fatalf("got %s", p.MainFile())
	}
}

func TestFileOps(t *testing.T) {
	p := New()
	if err := p.Add("notes.txt"); !errors.Is(err, ErrBadFileName) {
		t.Fatalf("got %v", err)
	}
	if err := p.Add("main.py"); !errors.Is(err, ErrFileExists) {
		t.Fatalf("got %v", err)
	}
	if _, err := p.Read("nope.py"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("got %v", err)
	}
	if err := p.Delete("main.py"); !errors.Is(err, ErrLastFile) {
		t.Fatalf("got %v", err)
	}

	p.Write("main.py", "print(1)")
	if err := p.Add(" b.py "); err != nil {
		t.Fatal(err)
	}
	if err := p.Delete("b.py"); err != nil {
		t.Fatal(err)
	}
	if p.Active != "main.py" {
		t.Fatalf("got %s", p.Active)
	}
	content, err := p.Read("main.py")
	if err != nil || content != "print(1)" {
		t.Fatalf("got %q %v", content, err)
	}
}

func TestUsesTurtle(t *testing.T) {
	for src, want := range map[string]bool{
		"import turtle":              true,
		"from turtle import *":       true,
		"x = turtle.Turtle()":        true,
		"print('hello')":             false,
		"import turtles_are_cool":    false,
		"myturtle = 1":               false,
		"from  turtle import fd, lt": true,
	} {
		p := New()
		p.Write("main.py", src)
		if got := p.UsesTurtle(); got != want {
			t.Fatalf("%q: got %v", src, got)
		}
	}
}

func TestShare(t *testing.T) {
	p := New()
	p.Write("main.py", "import turtle\nturtle.forward(100)\n")
	p.Write("helper.py", "def f():\n  return 'привет'\n")
	p.Active = "helper.py"

	hash, err := EncodeShare(p)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeShare("#" + hash)
	if err != nil {
		t.Fatal(err)
	}
	if got.Active != "helper.py" || len(got.Files) != 2 {
		t.Fatalf("got %+v", got)
	}
	for name, content := range p.Files {
		if got.Files[name] != content {
			t.Fatalf("%s: got %q", name, got.Files[name])
		}
	}

	// uncompressed form
	got, err = DecodeShare("eyJmaWxlcyI6eyJhLnB5IjoieCJ9fQ==")
	if err != nil {
		t.Fatal(err)
	}
	if got.Files["a.py"] != "x" || got.Active != "a.py" {
		t.Fatalf("got %+v", got)
	}

	if _, err := DecodeShare("v1:!!!"); err == nil {
		t.Fatal()
	}
	if _, err := DecodeShare("bm90IGpzb24="); err == nil {
		t.Fatal()
	}
}

func TestStore(t *testing.T) {
	dscope.New(new(Module)).Fork(
		func() Store {
			return Store{
				Path: filepath.Join(t.TempDir(), "sub", "project.json"),
			}
		},
	).Call(func(
		store Store,
	) {
		p, err := store.Load()
		if err != nil {
			t.Fatal(err)
		}
		if p.MainFile() != "main.py" {
			t.Fatal()
		}
		p.Write("main.py", "forward(1)")
		if err := store.Save(p); err != nil {
			t.Fatal(err)
		}
		p, err = store.Load()
		if err != nil {
			t.Fatal(err)
		}
		if p.Files["main.py"] != "forward(1)" {
			t.Fatalf("got %+v", p)
		}
	})
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	p := New()
	p.Write("main.py", "import helper")
	p.Write("helper.py", "x = 1")
	if err := SaveDir(dir, p); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Files) != 2 || got.Files["helper.py"] != "x = 1" || got.Active != "main.py" {
		t.Fatalf("got %+v", got)
	}

	p.Write("../evil.py", "")
	if err := SaveDir(dir, p); err == nil {
		t.Fatal()
	}
}
