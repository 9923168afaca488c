package canvases

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/reusee/turtleplay/geoms"
)

func TestRecorder(t *testing.T) {
	rec := NewRecorder(100, 80)
	var seen []Op
	rec.Listen(func(op Op) {
		seen = append(seen, op)
	})

	DrawSegment(rec, geoms.Segment{
		From: geoms.Point{X: 1, Y: 2},
		To:   geoms.Point{X: 3, Y: 4},
	}, Style{Color: "red", Width: 2})
	if n := rec.Count(OpStroke); n != 1 {
		t.Fatalf("got %d", n)
	}
	if n := rec.Count(OpLineTo); n != 1 {
		t.Fatalf("got %d", n)
	}

	rec.SetBackground("black")
	if rec.Background() != "black" {
		t.Fatal()
	}
	rec.Clear()
	if len(rec.Ops()) != 0 {
		t.Fatal("clear should drop retained ops")
	}
	if rec.Background() != "black" {
		t.Fatal("clear should keep background")
	}

	if len(seen) != 8 {
		t.Fatalf("got %d", len(seen))
	}
	if seen[len(seen)-1].Kind != OpClear {
		t.Fatalf("got %v", seen[len(seen)-1].Kind)
	}

	rec.Resize(10, 20)
	w, h := rec.Size()
	if w != 10 || h != 20 {
		t.Fatalf("got %d %d", w, h)
	}
}

func TestRecorderReplay(t *testing.T) {
	rec := NewRecorder(30, 30)
	FillDot(rec, geoms.Point{X: 15, Y: 15}, 10, "blue")
	var other Recorder
	rec.Replay(&other)
	w, h := other.Size()
	if w != 30 || h != 30 {
		t.Fatalf("got %d %d", w, h)
	}
	if len(other.Ops()) != len(rec.Ops()) {
		t.Fatalf("got %d", len(other.Ops()))
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
	}{
		{"red", color.RGBA{R: 255, A: 255}},
		{" Blue ", color.RGBA{B: 255, A: 255}},
		{"#fff", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#112233", color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 255}},
		{"rgb(1, 2, 300)", color.RGBA{R: 1, G: 2, B: 255, A: 255}},
		{"transparent", color.RGBA{}},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		if err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%s: got %v", c.in, got)
		}
	}

	for _, bad := range []string{"", "nope", "#12", "rgb(1,2)"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("%q should fail", bad)
		}
	}

	if c := ColorOr("nope", color.RGBA{G: 1}); c.G != 1 {
		t.Fatal()
	}
}

func TestRGBHex(t *testing.T) {
	if s := RGBHex(1, 0, 0, true); s != "#ff0000" {
		t.Fatalf("got %s", s)
	}
	if s := RGBHex(255, 128, 0, false); s != "#ff8000" {
		t.Fatalf("got %s", s)
	}
	if s := RGBHex(2, -1, 0.5, true); s != "#ff0080" {
		t.Fatalf("got %s", s)
	}
}

func TestCanvasSweep(t *testing.T) {
	cases := []struct {
		start, end    float64
		anticlockwise bool
		want          float64
	}{
		{0, 2 * math.Pi, false, 2 * math.Pi},
		{0, 4 * math.Pi, false, 2 * math.Pi},
		{0, -math.Pi / 2, false, 3 * math.Pi / 2},
		{0, math.Pi / 2, true, -3 * math.Pi / 2},
		{0, -math.Pi / 2, true, -math.Pi / 2},
	}
	for _, c := range cases {
		got := canvasSweep(c.start, c.end, c.anticlockwise)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%v %v %v: got %v", c.start, c.end, c.anticlockwise, got)
		}
	}
}

func TestPathBuilder(t *testing.T) {
	var b PathBuilder
	b.BeginPath()
	b.MoveTo(0, 0)
	b.LineTo(10, 0)
	b.LineTo(10, 10)
	b.ClosePath()
	lines := b.Polylines()
	if len(lines) != 1 {
		t.Fatalf("got %d", len(lines))
	}
	if len(lines[0]) != 4 {
		t.Fatalf("got %d", len(lines[0]))
	}
	if lines[0][3] != (geoms.Point{}) {
		t.Fatalf("got %v", lines[0][3])
	}

	b.BeginPath()
	b.Arc(0, 0, 10, 0, math.Pi, false)
	lines = b.Polylines()
	if len(lines) != 1 {
		t.Fatalf("got %d", len(lines))
	}
	last := lines[0][len(lines[0])-1]
	if math.Abs(last.X+10) > 1e-6 || math.Abs(last.Y) > 1e-6 {
		t.Fatalf("got %v", last)
	}
}

func TestEncodeSVG(t *testing.T) {
	rec := NewRecorder(40, 30)
	rec.SetBackground("#eeeeee")
	DrawSegment(rec, geoms.Segment{
		From: geoms.Point{X: 10, Y: 20},
		To:   geoms.Point{X: 30, Y: 5},
	}, Style{Color: "red", Width: 3})
	FillDot(rec, geoms.Point{X: 5, Y: 5}, 4, "blue")
	DrawText(rec, geoms.Point{X: 1, Y: 29}, "hi", "8px Arial", "green")

	buf := new(bytes.Buffer)
	if err := EncodeSVG(buf, rec); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"<svg",
		`width="40"`,
		"fill:#eeeeee",
		`d="M10 20 L30 5"`,
		"stroke:red;stroke-width:3",
		"fill:blue",
		">hi</text>",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %s", want, out)
		}
	}
}

func TestRaster(t *testing.T) {
	r := NewRaster(50, 50)
	DrawSegment(r, geoms.Segment{
		From: geoms.Point{X: 5, Y: 25},
		To:   geoms.Point{X: 45, Y: 25},
	}, Style{Color: "#ff0000", Width: 4})

	img := r.Image()
	c := img.RGBAAt(25, 25)
	if c.R < 200 || c.G > 60 || c.B > 60 {
		t.Fatalf("got %v", c)
	}
	c = img.RGBAAt(25, 5)
	if c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("got %v", c)
	}

	r.SetBackground("black")
	c = r.Image().RGBAAt(25, 5)
	if c != (color.RGBA{A: 255}) {
		t.Fatalf("got %v", c)
	}
	c = r.Image().RGBAAt(25, 25)
	if c.R < 200 {
		t.Fatal("background change should keep drawing")
	}

	r.Clear()
	c = r.Image().RGBAAt(25, 25)
	if c != (color.RGBA{A: 255}) {
		t.Fatalf("got %v", c)
	}

	FillDot(r, geoms.Point{X: 25, Y: 25}, 20, "blue")
	c = r.Image().RGBAAt(25, 25)
	if c.B < 200 || c.R > 60 {
		t.Fatalf("got %v", c)
	}
}

func TestEncodePNG(t *testing.T) {
	rec := NewRecorder(20, 10)
	FillDot(rec, geoms.Point{X: 10, Y: 5}, 6, "green")
	buf := new(bytes.Buffer)
	if err := EncodePNG(buf, rec); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("got %v", b)
	}
}

func TestTee(t *testing.T) {
	a := NewRecorder(10, 10)
	b := NewRecorder(20, 20)
	tee := Tee{a, b}
	if w, _ := tee.Size(); w != 10 {
		t.Fatalf("got %d", w)
	}
	FillDot(tee, geoms.Point{}, 2, "red")
	if a.Count(OpFill) != 1 || b.Count(OpFill) != 1 {
		t.Fatal()
	}
}

func TestFontSize(t *testing.T) {
	for css, want := range map[string]float64{
		"16px Arial":        16,
		"bold 24px Courier": 24,
		"normal 9.5px sans": 9.5,
		"Arial":             16,
		"-3px Arial":        16,
		"9000px Arial":      256,
	} {
		if got := FontSize(css); got != want {
			t.Fatalf("%q: got %v", css, got)
		}
	}
}

func TestRasterText(t *testing.T) {
	ink := func(font string) int {
		r := NewRaster(200, 60)
		DrawText(r, geoms.Point{X: 5, Y: 50}, "turtle", font, "black")
		n := 0
		layer := r.Layer()
		for i := 3; i < len(layer.Pix); i += 4 {
			if layer.Pix[i] > 0 {
				n++
			}
		}
		return n
	}
	small, large := ink("8px Arial"), ink("32px Arial")
	if small == 0 || large <= small*4 {
		t.Fatalf("got %d %d", small, large)
	}
}
