package sim

import (
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/render"
)

const (
	DefaultGravity       = 25.0
	DefaultWindAmplitude = 3.0
	DefaultGustFrequency = 0.5
	DefaultGrabRadius    = 5.0
	DefaultJitter        = 1.0 / 3.0
	DefaultMaxDt         = 1.0 / 30.0
	DefaultSubstep       = 1.0 / 60.0
)

type Glyphs struct {
	Face rune
	Edge rune
	Node rune
}

type Params struct {
	Cloth cloth.Params

	Gravity       float64
	WindAmplitude float64 // horizontal sway, A*sin(t)
	GustAmplitude float64 // Perlin gusts on top of the sway; 0 disables
	GustFrequency float64

	GrabRadius float64
	Jitter     float64 // layout noise per axis
	MaxDt      float64 // frame dt clamp; 0 disables
	Substep    float64 // longest physics step; longer frames are split. 0 disables
	Seed       int64

	Glyphs Glyphs
}

func DefaultParams() Params {
	return Params{
		Cloth:         cloth.DefaultParams(),
		Gravity:       DefaultGravity,
		WindAmplitude: DefaultWindAmplitude,
		GustFrequency: DefaultGustFrequency,
		GrabRadius:    DefaultGrabRadius,
		Jitter:        DefaultJitter,
		MaxDt:         DefaultMaxDt,
		Substep:       DefaultSubstep,
		Glyphs: Glyphs{
			Face: render.GlyphFace,
			Edge: render.GlyphEdge,
			Node: render.GlyphNode,
		},
	}
}

// Input is one frame of host input. Grab, Release and Reset are edges:
// true only on the frame the transition happened.
type Input struct {
	Cursor  cloth.Vec
	Grab    bool
	Release bool
	Reset   bool
	Pause   bool
	Quit    bool
}

type State int

const (
	Idle State = iota
	Holding
)

func (s State) String() string {
	if s == Holding {
		return "holding"
	}
	return "idle"
}

// Observer sees the cloth after every physics step.
type Observer interface {
	Observe(c *cloth.Cloth, t float64)
}
