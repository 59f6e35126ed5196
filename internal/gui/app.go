package gui

import (
	"fmt"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/render"
	"github.com/san-kum/clothsim/internal/sim"
)

const (
	DefaultCols  = 100
	DefaultRows  = 40
	DefaultScale = 10
)

type Options struct {
	Params     sim.Params
	Theme      string
	Cols, Rows int
	// Scale is the cell width in pixels; cells are twice as tall.
	Scale  int
	Logger *log.Logger
}

// Game hosts a controller in a window. Unlike the terminal, the window sees
// key releases, so holding space holds the particle.
type Game struct {
	ctrl    *sim.Controller
	surface *Surface
	theme   render.Theme
	paused  bool
	cellW   float64
	cellH   float64
	logger  *log.Logger
}

func NewGame(opts Options) *Game {
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	ctrl := sim.New(opts.Params, opts.Cols, opts.Rows)
	ctrl.SetLogger(logger)
	theme := render.GetTheme(opts.Theme)

	return &Game{
		ctrl:  ctrl,
		theme: theme,
		cellW: float64(opts.Scale),
		cellH: float64(opts.Scale * 2),
		surface: &Surface{
			cols:  opts.Cols,
			rows:  opts.Rows,
			cellW: float32(opts.Scale),
			cellH: float32(opts.Scale * 2),
			theme: theme,
		},
		logger: logger,
	}
}

func (g *Game) input() sim.Input {
	x, y := ebiten.CursorPosition()
	in := sim.Input{
		Cursor: cloth.Vec{X: float64(x) / g.cellW, Y: float64(y) / g.cellH},
		Grab: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
			inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Release: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) ||
			inpututil.IsKeyJustReleased(ebiten.KeySpace),
		Reset: inpututil.IsKeyJustPressed(ebiten.KeyR),
		Quit:  inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.theme = render.NextTheme(g.theme.Name)
		g.surface.theme = g.theme
		g.logger.Printf("theme: %s", g.theme.Name)
	}
	in.Pause = g.paused
	return in
}

func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	if !g.ctrl.Update(dt, g.input(), nil) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.screen = screen
	g.ctrl.Draw(g.surface)

	status := "running"
	if g.paused {
		status = "paused"
	} else if g.ctrl.State() == sim.Holding {
		status = "holding"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s  t=%.1fs  wind=%+.2f  fps=%.0f\nmouse/space: grab  r: reset  p: pause  t: theme  q: quit",
		status, g.ctrl.Elapsed(), g.ctrl.Gravity().X, ebiten.ActualFPS()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(float64(g.surface.cols) * g.cellW), int(float64(g.surface.rows) * g.cellH)
}

// Run opens the window and blocks until it is closed or q is pressed.
func Run(opts Options) error {
	g := NewGame(opts)
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("clothsim")
	return ebiten.RunGame(g)
}
