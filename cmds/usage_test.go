package cmds

import (
	"bytes"
	"strings"
	"testing"
)

func TestUsage(t *testing.T) {
	executor := NewExecutor()
	executor.Define("render", Sub(map[string]*Command{
		"svg": Func(func(string) {
		}).Args("out").Desc("SVG"),
		"png": Sub(map[string]*Command{
			"scale": Func(func(int) {}).Desc("SCALE"),
		}).Desc("PNG"),
	}).Desc("RENDER"))

	buf := new(bytes.Buffer)
	executor.WriteUsage(buf)
	out := buf.String()
	for _, want := range []string{
		"render\tRENDER",
		"  svg out\tSVG",
		"    scale\tSCALE",
		"-h (help, -help, --help)\tprint this usage",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Count(out, "print this usage") != 1 {
		t.Fatalf("aliases listed twice:\n%s", out)
	}
}
