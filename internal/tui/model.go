package tui

import (
	"io"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/render"
	"github.com/san-kum/clothsim/internal/sim"
)

const (
	hudWidth       = 36
	minCanvasWidth = 20
	gaugeWidth     = 24

	defaultWidth  = 80
	defaultHeight = 24
)

type tickMsg time.Time

// Options configures the terminal host.
type Options struct {
	Params sim.Params
	FPS    int
	Theme  string
	Logger *log.Logger
}

// Model hosts one controller. It turns mouse and key events into per-frame
// input and steps the controller on every tick.
type Model struct {
	ctrl   *sim.Controller
	canvas *render.Canvas
	theme  render.Theme
	fps    int
	logger *log.Logger

	width, height int
	sized         bool

	cursor cloth.Vec
	input  sim.Input // edges collected since the last tick
	paused bool

	keys     keyMap
	help     help.Model
	gauge    progress.Model
	history  *metrics.History
	peak     *metrics.PeakStress
	smoother harmonica.Spring

	stress, stressVel float64
	rate, rateVel     float64
	lastTick          time.Time
}

func New(opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	cw, ch := canvasSize(defaultWidth, defaultHeight)
	ctrl := sim.New(opts.Params, cw, ch)
	ctrl.SetLogger(logger)

	history := metrics.NewHistory(metrics.DefaultHistory)
	peak := metrics.NewPeakStress()
	ctrl.AddObserver(history)
	ctrl.AddObserver(peak)

	theme := render.GetTheme(opts.Theme)
	return Model{
		ctrl:     ctrl,
		canvas:   render.NewCanvas(cw, ch),
		theme:    theme,
		fps:      opts.FPS,
		logger:   logger,
		width:    defaultWidth,
		height:   defaultHeight,
		keys:     defaultKeys(),
		help:     help.New(),
		gauge:    newGauge(theme),
		history:  history,
		peak:     peak,
		smoother: harmonica.NewSpring(harmonica.FPS(opts.FPS), 6.0, 1.0),
	}
}

func newGauge(t render.Theme) progress.Model {
	return progress.New(
		progress.WithGradient(string(t.Gradient[0]), string(t.Gradient[render.GradientSize-1])),
		progress.WithWidth(gaugeWidth),
		progress.WithoutPercentage(),
	)
}

// canvasSize leaves room for the HUD on the right.
func canvasSize(w, h int) (int, int) {
	cw := w - hudWidth
	if cw < minCanvasWidth {
		cw = minCanvasWidth
	}
	if h < 1 {
		h = 1
	}
	return cw, h
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.input.Quit = true
			if !m.advance(0) {
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.Grab):
			if m.holding() {
				m.input.Release = true
			} else {
				m.input.Grab = true
			}
		case key.Matches(msg, m.keys.Reset):
			m.input.Reset = true
			m.history.Reset()
			m.peak.Reset()
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Theme):
			m.theme = render.NextTheme(m.theme.Name)
			m.gauge = newGauge(m.theme)
			m.logger.Printf("theme: %s", m.theme.Name)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		dt := 1.0 / float64(m.fps)
		if !m.lastTick.IsZero() {
			if elapsed := now.Sub(m.lastTick).Seconds(); elapsed > 0 {
				dt = elapsed
			}
		}
		m.lastTick = now

		if !m.advance(dt) {
			return m, tea.Quit
		}
		m.smooth(dt)
		return m, m.tick()
	}
	return m, nil
}

// advance runs one controller frame with the collected input.
func (m *Model) advance(dt float64) bool {
	in := m.input
	in.Cursor = m.cursor
	in.Pause = m.paused
	m.input = sim.Input{}
	return m.ctrl.Update(dt, in, m.canvas)
}

func (m *Model) smooth(dt float64) {
	target := metrics.FrameStress(m.ctrl.Cloth())
	m.stress, m.stressVel = m.smoother.Update(m.stress, m.stressVel, target)
	if dt > 0 {
		m.rate, m.rateVel = m.smoother.Update(m.rate, m.rateVel, 1/dt)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	m.cursor = cloth.Vec{X: float64(msg.X), Y: float64(msg.Y)}
	if msg.Button != tea.MouseButtonLeft {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.input.Grab = true
	case tea.MouseActionRelease:
		m.input.Release = true
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cw, ch := canvasSize(w, h)
	m.canvas.Resize(cw, ch)
	m.ctrl.Resize(cw, ch)
	m.logger.Printf("resize: %dx%d (canvas %dx%d)", w, h, cw, ch)

	// the first size report replaces the guessed startup geometry
	if !m.sized {
		m.sized = true
		m.ctrl.Reset()
		m.history.Reset()
		m.peak.Reset()
	}
}

func (m Model) holding() bool {
	return m.ctrl.State() == sim.Holding
}

func (m Model) Controller() *sim.Controller { return m.ctrl }
func (m Model) Paused() bool                { return m.paused }
func (m Model) Theme() render.Theme         { return m.theme }
