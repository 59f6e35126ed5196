package cloth

import (
	"math"
	"math/rand"
)

const (
	DefaultWidth     = 10
	DefaultHeight    = 12
	DefaultStiffness = 437.243
	DefaultDamping   = 4.97
)

type Params struct {
	Width     int
	Height    int
	Stiffness float64
	Damping   float64
}

func DefaultParams() Params {
	return Params{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
	}
}

// Layout places grid cell (i, j) in world space.
type Layout func(i, j int) Vec

// Cloth is a Width x Height grid of particles joined by springs along grid edges.
// Springs hold indices into Particles, so a rebuild never leaves dangling links.
type Cloth struct {
	Width, Height int
	Particles     []Particle
	Springs       []Spring
}

// Build creates a fresh cloth. The two top corners are pinned.
func Build(p Params, layout Layout) *Cloth {
	c := &Cloth{
		Width:     p.Width,
		Height:    p.Height,
		Particles: make([]Particle, p.Width*p.Height),
		Springs:   make([]Spring, 0, SpringCount(p.Width, p.Height)),
	}

	for i := 0; i < p.Width; i++ {
		for j := 0; j < p.Height; j++ {
			pt := NewParticle(layout(i, j))
			pt.Locked = j == 0 && (i == 0 || i == p.Width-1)
			c.Particles[c.Index(i, j)] = pt
		}
	}

	// rest lengths come from the positions assigned above
	for i := 0; i < p.Width; i++ {
		for j := 0; j < p.Height; j++ {
			if i < p.Width-1 {
				c.Springs = append(c.Springs, NewSpring(c.Particles, c.Index(i, j), c.Index(i+1, j), p.Stiffness, p.Damping))
			}
			if j < p.Height-1 {
				c.Springs = append(c.Springs, NewSpring(c.Particles, c.Index(i, j), c.Index(i, j+1), p.Stiffness, p.Damping))
			}
		}
	}

	return c
}

// SpringCount is the number of axis-aligned springs in a w x h grid.
func SpringCount(w, h int) int {
	return 2*w*h - w - h
}

// Index flattens grid coordinates.
func (c *Cloth) Index(i, j int) int {
	return i + c.Width*j
}

func (c *Cloth) At(i, j int) *Particle {
	return &c.Particles[c.Index(i, j)]
}

// ApplySprings accumulates every spring force. It must finish before Integrate.
func (c *Cloth) ApplySprings() {
	for _, s := range c.Springs {
		s.Apply(c.Particles)
	}
}

// Integrate applies the body force to each particle and steps it.
func (c *Cloth) Integrate(gravity Vec, dt float64) {
	for i := range c.Particles {
		c.Particles[i].ApplyForce(gravity)
		c.Particles[i].Integrate(dt)
	}
}

// Pick returns the last particle, in index order, closer than radius to pos.
func (c *Cloth) Pick(pos Vec, radius float64) (int, bool) {
	found := -1
	for i := range c.Particles {
		if c.Particles[i].Pos.Dist(pos) < radius {
			found = i
		}
	}
	return found, found >= 0
}

// FaceStress averages the four corners of the quad whose top-left corner is (i, j).
func (c *Cloth) FaceStress(i, j int) float64 {
	return (c.At(i, j).Stress() + c.At(i+1, j).Stress() +
		c.At(i, j+1).Stress() + c.At(i+1, j+1).Stress()) / 4
}

// EdgeStress averages the spring's endpoints.
func (c *Cloth) EdgeStress(s Spring) float64 {
	return (c.Particles[s.A].Stress() + c.Particles[s.B].Stress()) / 2
}

func (c *Cloth) KineticEnergy() float64 {
	e := 0.0
	for i := range c.Particles {
		e += 0.5 * c.Particles[i].Vel.LenSq()
	}
	return e
}

func (c *Cloth) SpringEnergy() float64 {
	e := 0.0
	for _, s := range c.Springs {
		e += s.Energy(c.Particles)
	}
	return e
}

// MaxStrain returns the largest absolute spring strain.
func (c *Cloth) MaxStrain() float64 {
	m := 0.0
	for _, s := range c.Springs {
		m = math.Max(m, math.Abs(s.Strain(c.Particles)))
	}
	return m
}

// Valid reports whether every particle has finite state.
func (c *Cloth) Valid() bool {
	for i := range c.Particles {
		p := &c.Particles[i]
		for _, v := range [...]float64{p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

func (c *Cloth) Clone() *Cloth {
	out := &Cloth{
		Width:     c.Width,
		Height:    c.Height,
		Particles: make([]Particle, len(c.Particles)),
		Springs:   make([]Spring, len(c.Springs)),
	}
	copy(out.Particles, c.Particles)
	copy(out.Springs, c.Springs)
	return out
}

// ScreenLayout spreads the grid over the upper part of a screen: columns
// between 1/8 and 7/8 of the width, rows down to 3/5 of the height, each
// coordinate jittered by up to +-jitter.
func ScreenLayout(w, h int, screenW, screenH, jitter float64, rng *rand.Rand) Layout {
	return func(i, j int) Vec {
		x := mapRange(float64(i), float64(w-1), screenW/8, screenW*7/8)
		y := mapRange(float64(j), float64(h-1), 0, screenH*3/5)
		if jitter != 0 && rng != nil {
			x += (2*rng.Float64() - 1) * jitter
			y += (2*rng.Float64() - 1) * jitter
		}
		return Vec{X: x, Y: y}
	}
}

func mapRange(v, span, lo, hi float64) float64 {
	if span == 0 {
		return lo
	}
	return lo + (hi-lo)*v/span
}
