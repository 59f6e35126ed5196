package sim

import (
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/render"
)

const noHeld = -1

// Controller owns the cloth and advances it one frame per Update.
// It is not safe for concurrent use; run one Controller per goroutine.
type Controller struct {
	params           Params
	screenW, screenH float64
	cloth            *cloth.Cloth
	held             int
	gravity          cloth.Vec
	elapsed          float64
	frame            int
	gust             *perlin.Perlin
	observers        []Observer
	rec              *render.Recorder
	logger           *log.Logger
}

// New creates a controller for a screen of the given size and builds the cloth.
func New(p Params, screenW, screenH int) *Controller {
	c := &Controller{
		params:    p,
		screenW:   float64(screenW),
		screenH:   float64(screenH),
		held:      noHeld,
		observers: make([]Observer, 0),
		rec:       render.NewRecorder(screenW, screenH),
		logger:    log.New(io.Discard, "", 0),
	}
	if p.GustAmplitude != 0 {
		c.gust = perlin.NewPerlin(2, 2, 3, p.Seed)
	}
	c.Init()
	return c
}

func (c *Controller) AddObserver(o Observer) { c.observers = append(c.observers, o) }

// SetLogger routes state transitions to l. Nil silences them.
func (c *Controller) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	c.logger = l
}

// Init restores gravity and time and builds a fresh cloth.
func (c *Controller) Init() {
	c.gravity = cloth.Vec{X: 0, Y: c.params.Gravity}
	c.elapsed = 0
	c.frame = 0
	c.rebuild()
}

// Reset rebuilds the cloth and drops any held particle. The layout RNG is
// reseeded, so every reset reproduces the initial build.
func (c *Controller) Reset() {
	c.rebuild()
	c.logger.Printf("reset: %dx%d cloth rebuilt", c.cloth.Width, c.cloth.Height)
}

func (c *Controller) rebuild() {
	w, h := c.params.Cloth.Width, c.params.Cloth.Height
	rng := rand.New(rand.NewSource(c.params.Seed))
	layout := cloth.ScreenLayout(w, h, c.screenW, c.screenH, c.params.Jitter, rng)
	c.cloth = cloth.Build(c.params.Cloth, layout)
	c.held = noHeld
}

// Resize changes the screen used by the next layout. The current cloth is untouched.
func (c *Controller) Resize(w, h int) {
	c.screenW, c.screenH = float64(w), float64(h)
	c.rec.Width, c.rec.Height = w, h
}

// Update runs one frame and draws it to s (s may be nil). It reports false
// when the input asks to quit.
func (c *Controller) Update(dt float64, in Input, s render.Surface) bool {
	if in.Quit {
		return false
	}
	if c.params.MaxDt > 0 && dt > c.params.MaxDt {
		dt = c.params.MaxDt
	}

	if in.Reset {
		c.Reset()
	}
	c.handleGrab(in)

	// drag is a hard positional override, applied before forces
	if c.held != noHeld {
		c.cloth.Particles[c.held].Pos = in.Cursor
	}

	if !in.Pause {
		n, h := c.substeps(dt)
		for i := 0; i < n; i++ {
			c.cloth.ApplySprings()
			c.cloth.Integrate(c.gravity, h)

			c.gravity.X = c.wind(c.elapsed)
			c.elapsed += h
		}
		c.frame++

		for _, o := range c.observers {
			o.Observe(c.cloth, c.elapsed)
		}
	}

	if s != nil {
		c.Draw(s)
	}
	return true
}

// Step is Update against an internal recorder. The returned commands are a copy.
func (c *Controller) Step(dt float64, in Input) ([]render.Command, bool) {
	if !c.Update(dt, in, c.rec) {
		return nil, false
	}
	cmds := make([]render.Command, len(c.rec.Commands))
	copy(cmds, c.rec.Commands)
	return cmds, true
}

// substeps splits dt into equal steps no longer than Substep. Explicit
// integration of stretched springs diverges above roughly 1/60 s.
func (c *Controller) substeps(dt float64) (int, float64) {
	step := c.params.Substep
	if step <= 0 || dt <= step {
		return 1, dt
	}
	// tolerance keeps dt == step from rounding up to two steps
	n := int(math.Ceil(dt/step - 1e-9))
	return n, dt / float64(n)
}

func (c *Controller) handleGrab(in Input) {
	if in.Grab {
		if idx, ok := c.cloth.Pick(in.Cursor, c.params.GrabRadius); ok {
			c.held = idx
			c.logger.Printf("grab: particle %d at (%.1f, %.1f)", idx, in.Cursor.X, in.Cursor.Y)
		}
	}
	if in.Release && c.held != noHeld {
		c.logger.Printf("release: particle %d", c.held)
		c.held = noHeld
	}
}

func (c *Controller) wind(t float64) float64 {
	x := c.params.WindAmplitude * math.Sin(t)
	if c.gust != nil {
		x += c.params.GustAmplitude * c.gust.Noise1D(t*c.params.GustFrequency)
	}
	return x
}

// Draw emits the current frame: faces, then springs, then each particle once.
func (c *Controller) Draw(s render.Surface) {
	cl := c.cloth
	g := c.params.Glyphs

	s.Clear()

	for i := 0; i < cl.Width-1; i++ {
		for j := 0; j < cl.Height-1; j++ {
			a := cl.At(i, j).Pos
			b := cl.At(i+1, j).Pos
			d := cl.At(i, j+1).Pos
			e := cl.At(i+1, j+1).Pos

			col := render.StressColor(cl.FaceStress(i, j))
			s.FillTriangle(a, b, d, g.Face, col)
			s.FillTriangle(b, e, d, g.Face, col)
		}
	}

	for _, sp := range cl.Springs {
		s.DrawLine(cl.Particles[sp.A].Pos, cl.Particles[sp.B].Pos, g.Edge, render.StressColor(cl.EdgeStress(sp)))
	}

	for i := range cl.Particles {
		p := &cl.Particles[i]
		s.Draw(p.Pos, g.Node, render.StressColor(p.Stress()))
	}
}

func (c *Controller) Cloth() *cloth.Cloth { return c.cloth }
func (c *Controller) Params() Params      { return c.params }
func (c *Controller) Gravity() cloth.Vec  { return c.gravity }
func (c *Controller) Elapsed() float64    { return c.elapsed }
func (c *Controller) Frame() int          { return c.frame }

func (c *Controller) State() State {
	if c.held != noHeld {
		return Holding
	}
	return Idle
}

// Held returns the index of the dragged particle.
func (c *Controller) Held() (int, bool) {
	return c.held, c.held != noHeld
}
