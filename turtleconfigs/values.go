package turtleconfigs

import (
	"os"
	"time"

	"github.com/reusee/turtleplay/cmds"
	"github.com/reusee/turtleplay/configs"
	"github.com/reusee/turtleplay/vars"
)

const (
	defaultWidth  = 400
	defaultHeight = 300
)

type CanvasSize struct {
	Width  int
	Height int
}

var _ configs.Configurable = CanvasSize{}

func (CanvasSize) ConfigExpr() string {
	return "canvas"
}

var (
	widthFlag  = cmds.Var[int]("-width", "canvas width")
	heightFlag = cmds.Var[int]("-height", "canvas height")
)

func (Module) CanvasSize(
	loader configs.Loader,
) CanvasSize {
	return CanvasSize{
		Width: vars.FirstNonZero(
			*widthFlag,
			configs.First[int](loader, "canvas.width"),
			defaultWidth,
		),
		Height: vars.FirstNonZero(
			*heightFlag,
			configs.First[int](loader, "canvas.height"),
			defaultHeight,
		),
	}
}

type ListenAddr string

var _ configs.Configurable = ListenAddr("")

func (ListenAddr) ConfigExpr() string {
	return "listen_addr"
}

var listenAddrFlag = cmds.Var[string]("-addr", "serve listen address")

// ListenAddr also reads TURTLEPLAY_ADDR, which may come from a .env file.
func (Module) ListenAddr(
	loader configs.Loader,
) ListenAddr {
	return ListenAddr(vars.FirstNonZero(
		*listenAddrFlag,
		os.Getenv("TURTLEPLAY_ADDR"),
		configs.First[string](loader, "listen_addr"),
		"127.0.0.1:8421",
	))
}

// DefaultSpeed is the turtle speed after a reset.
type DefaultSpeed struct {
	Speed float64
	Set   bool
}

var _ configs.Configurable = DefaultSpeed{}

func (DefaultSpeed) ConfigExpr() string {
	return "default_speed"
}

var (
	speedFlag   = cmds.Var[float64]("-speed", "default turtle speed, 0 to 10")
	instantFlag = cmds.Switch("-instant", "draw without animation")
)

func (Module) DefaultSpeed(
	loader configs.Loader,
) DefaultSpeed {
	if *instantFlag {
		return DefaultSpeed{Speed: 0, Set: true}
	}
	if *speedFlag != 0 {
		return DefaultSpeed{Speed: *speedFlag, Set: true}
	}
	speed, ok := configs.Lookup[float64](loader, "default_speed")
	return DefaultSpeed{
		Speed: speed,
		Set:   ok,
	}
}

type FrameInterval time.Duration

var _ configs.Configurable = FrameInterval(0)

func (FrameInterval) ConfigExpr() string {
	return "frame_interval_ms"
}

func (Module) FrameInterval(
	loader configs.Loader,
) FrameInterval {
	ms := vars.FirstNonZero(
		configs.First[int](loader, "frame_interval_ms"),
		16,
	)
	return FrameInterval(time.Duration(ms) * time.Millisecond)
}

type MainFile string

var _ configs.Configurable = MainFile("")

func (MainFile) ConfigExpr() string {
	return "main_file"
}

func (Module) MainFile(
	loader configs.Loader,
) MainFile {
	return MainFile(vars.FirstNonZero(
		configs.First[string](loader, "main_file"),
		"main.py",
	))
}
