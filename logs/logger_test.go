package logs

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func TestLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		ctx := context.WithValue(context.Background(), SpanKey, Span("run-1"))
		logger.With("main", "main.py").InfoContext(ctx, "run")
		out := buf.String()
		if !underSystemd() {
			for _, want := range []string{"msg=run", "main=main.py", "span=run-1"} {
				if !strings.Contains(out, want) {
					t.Fatalf("missing %q in %q", want, out)
				}
			}
		}
	})
}

func TestJournalKey(t *testing.T) {
	if got := journalKey("span.parent-1"); got != "SPAN_PARENT_1" {
		t.Fatalf("got %q", got)
	}
}
