package playgrounds

import (
	"errors"
	"strings"
	"testing"

	starlarkmath "go.starlark.net/lib/math"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

func testImports() imports {
	return imports{
		modules: map[string]*starlarkstruct.Module{
			"math": starlarkmath.Module,
			"turtle": {
				Name: "turtle",
				Members: starlark.StringDict{
					"Turtle": starlark.None,
					"Screen": starlark.None,
				},
			},
		},
		globalMembers: map[string]bool{
			"turtle": true,
		},
		hasFile: func(name string) bool {
			return name == "helper.py"
		},
	}
}

func TestRewriteImports(t *testing.T) {
	im := testImports()
	for _, c := range [][2]string{
		{"import turtle", ""},
		{"import turtle as t", "t = turtle"},
		{"from turtle import *", ""},
		{"from turtle import Turtle, Screen as S", "S = turtle.Screen"},
		{"import math", ""},
		{"from math import pi, sqrt as root  # constants", "pi = math.pi; root = math.sqrt"},
		{"import helper", `load("helper.py", "helper")`},
		{"import helper as h", `load("helper.py", h="helper")`},
		{"from helper import a, b as c", `load("helper.py", "a", c="b")`},
		{"from helper import (a,)", `load("helper.py", "a")`},
		{"    import math", "    pass"},
		{"    import math as m", "    m = math"},
		{"from __future__ import annotations", ""},
		{"important = 1", "important = 1"},
		{"x = 1  # import math", "x = 1  # import math"},
	} {
		got, err := im.rewrite(c[0])
		if err != nil {
			t.Fatalf("%q: %v", c[0], err)
		}
		if got != c[1] {
			t.Fatalf("%q: got %q", c[0], got)
		}
	}
}

func TestRewriteStarFromHostModule(t *testing.T) {
	got, err := testImports().rewrite("from math import *")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "pi = math.pi") || !strings.Contains(got, "; sqrt = math.sqrt") {
		t.Fatalf("got %q", got)
	}
	if strings.Contains(got, "\n") {
		t.Fatal("should stay on one line")
	}
}

func TestRewriteKeepsLines(t *testing.T) {
	src := "import turtle\nprint(1)\nfrom helper import x\n"
	got, err := testImports().rewrite(src)
	if err != nil {
		t.Fatal(err)
	}
	if got != "\nprint(1)\nload(\"helper.py\", \"x\")\n" {
		t.Fatalf("got %q", got)
	}
}

func TestRewriteErrors(t *testing.T) {
	im := testImports()
	for _, c := range []struct {
		src string
		err error
	}{
		{"import os", ErrUnknownModule},
		{"import os.path", ErrUnsupportedImport},
		{"from helper import *", ErrUnsupportedImport},
		{"if True:\n    import helper", ErrImportInBlock},
		{"from math import nope", ErrNameNotFound},
		{"import math as 1x", ErrUnsupportedImport},
		{"from math import", nil},
	} {
		_, err := im.rewrite(c.src)
		if c.err == nil {
			if err != nil {
				t.Fatalf("%q: %v", c.src, err)
			}
			continue
		}
		if !errors.Is(err, c.err) {
			t.Fatalf("%q: got %v", c.src, err)
		}
	}

	_, err := im.rewrite("print(1)\nimport os")
	if err == nil || !strings.HasPrefix(err.Error(), "line 2: ") {
		t.Fatalf("got %v", err)
	}
}
