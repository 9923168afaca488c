package canvases

import "sync"

type OpKind string

const (
	OpResize      OpKind = "resize"
	OpClear       OpKind = "clear"
	OpBackground  OpKind = "background"
	OpBeginPath   OpKind = "beginPath"
	OpMoveTo      OpKind = "moveTo"
	OpLineTo      OpKind = "lineTo"
	OpArc         OpKind = "arc"
	OpClosePath   OpKind = "closePath"
	OpStrokeStyle OpKind = "strokeStyle"
	OpFillStyle   OpKind = "fillStyle"
	OpLineWidth   OpKind = "lineWidth"
	OpFont        OpKind = "font"
	OpStroke      OpKind = "stroke"
	OpFill        OpKind = "fill"
	OpFillText    OpKind = "fillText"
)

// Op is one recorded Context call. The encoding is also the wire format of
// the browser front end.
type Op struct {
	Kind OpKind    `json:"k"`
	Nums []float64 `json:"n,omitempty"`
	Str  string    `json:"s,omitempty"`
	Flag bool      `json:"b,omitempty"`
}

// Recorder is a Context that keeps the calls made since the last Clear, and
// optionally forwards every call to a listener.
type Recorder struct {
	mu         sync.Mutex
	width      int
	height     int
	background string
	ops        []Op
	listener   func(Op)
}

var _ Context = new(Recorder)

func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:  width,
		height: height,
	}
}

// Listen installs fn to receive every op as it is recorded. Pass nil to remove.
func (r *Recorder) Listen(fn func(Op)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = fn
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	if op.Kind == OpClear || op.Kind == OpResize {
		r.ops = r.ops[:0]
	}
	if op.Kind != OpClear && op.Kind != OpResize && op.Kind != OpBackground {
		r.ops = append(r.ops, op)
	}
	listener := r.listener
	r.mu.Unlock()
	if listener != nil {
		listener(op)
	}
}

// Ops returns a copy of the retained drawing ops.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]Op, len(r.ops))
	copy(ret, r.ops)
	return ret
}

func (r *Recorder) Background() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.background
}

// Count returns how many retained ops have the given kind.
func (r *Recorder) Count(kind OpKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Replay reproduces the retained drawing onto ctx.
func (r *Recorder) Replay(ctx Context) {
	width, height := r.Size()
	ctx.Resize(width, height)
	if bg := r.Background(); bg != "" {
		ctx.SetBackground(bg)
	}
	for _, op := range r.Ops() {
		Apply(ctx, op)
	}
}

func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Recorder) Resize(width, height int) {
	r.mu.Lock()
	r.width = width
	r.height = height
	r.mu.Unlock()
	r.record(Op{Kind: OpResize, Nums: []float64{float64(width), float64(height)}})
}

func (r *Recorder) Clear() {
	r.record(Op{Kind: OpClear})
}

func (r *Recorder) SetBackground(color string) {
	r.mu.Lock()
	r.background = color
	r.mu.Unlock()
	r.record(Op{Kind: OpBackground, Str: color})
}

func (r *Recorder) BeginPath() {
	r.record(Op{Kind: OpBeginPath})
}

func (r *Recorder) MoveTo(x, y float64) {
	r.record(Op{Kind: OpMoveTo, Nums: []float64{x, y}})
}

func (r *Recorder) LineTo(x, y float64) {
	r.record(Op{Kind: OpLineTo, Nums: []float64{x, y}})
}

func (r *Recorder) Arc(cx, cy, radius, start, end float64, anticlockwise bool) {
	r.record(Op{Kind: OpArc, Nums: []float64{cx, cy, radius, start, end}, Flag: anticlockwise})
}

func (r *Recorder) ClosePath() {
	r.record(Op{Kind: OpClosePath})
}

func (r *Recorder) SetStrokeStyle(color string) {
	r.record(Op{Kind: OpStrokeStyle, Str: color})
}

func (r *Recorder) SetFillStyle(color string) {
	r.record(Op{Kind: OpFillStyle, Str: color})
}

func (r *Recorder) SetLineWidth(width float64) {
	r.record(Op{Kind: OpLineWidth, Nums: []float64{width}})
}

func (r *Recorder) SetFont(font string) {
	r.record(Op{Kind: OpFont, Str: font})
}

func (r *Recorder) Stroke() {
	r.record(Op{Kind: OpStroke})
}

func (r *Recorder) Fill() {
	r.record(Op{Kind: OpFill})
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.record(Op{Kind: OpFillText, Nums: []float64{x, y}, Str: text})
}

// Apply performs op against ctx. Ops with missing arguments are ignored.
func Apply(ctx Context, op Op) {
	n := op.Nums
	switch op.Kind {
	case OpResize:
		if len(n) == 2 {
			ctx.Resize(int(n[0]), int(n[1]))
		}
	case OpClear:
		ctx.Clear()
	case OpBackground:
		ctx.SetBackground(op.Str)
	case OpBeginPath:
		ctx.BeginPath()
	case OpMoveTo:
		if len(n) == 2 {
			ctx.MoveTo(n[0], n[1])
		}
	case OpLineTo:
		if len(n) == 2 {
			ctx.LineTo(n[0], n[1])
		}
	case OpArc:
		if len(n) == 5 {
			ctx.Arc(n[0], n[1], n[2], n[3], n[4], op.Flag)
		}
	case OpClosePath:
		ctx.ClosePath()
	case OpStrokeStyle:
		ctx.SetStrokeStyle(op.Str)
	case OpFillStyle:
		ctx.SetFillStyle(op.Str)
	case OpLineWidth:
		if len(n) == 1 {
			ctx.SetLineWidth(n[0])
		}
	case OpFont:
		ctx.SetFont(op.Str)
	case OpStroke:
		ctx.Stroke()
	case OpFill:
		ctx.Fill()
	case OpFillText:
		if len(n) == 2 {
			ctx.FillText(op.Str, n[0], n[1])
		}
	}
}
