package logs

import "context"

// Span identifies one unit of work, such as a guest program run.
type Span string

type spanKey struct{}

var SpanKey spanKey

// SpanOf returns the span ctx carries.
func SpanOf(ctx context.Context) (Span, bool) {
	span, ok := ctx.Value(SpanKey).(Span)
	return span, ok && span != ""
}
