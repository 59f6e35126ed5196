package cloth

import "github.com/san-kum/clothsim/internal/vmath"

type Vec = vmath.Vec2[float64]

// stressScale maps particle speed onto the [0, 1] range the color gradient expects.
const stressScale = 1.0 / 25.0

// Particle is a unit point mass.
type Particle struct {
	Pos    Vec
	Vel    Vec
	Acc    Vec // forces applied since the last Integrate (mass = 1)
	Locked bool
}

func NewParticle(pos Vec) Particle {
	return Particle{Pos: pos}
}

// ApplyForce accumulates f. Locked particles accumulate too; Integrate drops it.
func (p *Particle) ApplyForce(f Vec) {
	p.Acc.AddIn(f)
}

// Integrate advances the particle by dt with semi-implicit Euler:
// velocity first, then position from the new velocity.
func (p *Particle) Integrate(dt float64) {
	if p.Locked {
		p.Acc.Zero()
		return
	}
	p.Vel.AddIn(p.Acc.Scale(dt))
	p.Pos.AddIn(p.Vel.Scale(dt))
	p.Acc.Zero()
}

// Stress is called stress, but it is really the particle's speed, scaled
// for the color gradient.
func (p *Particle) Stress() float64 {
	return p.Vel.Len() * stressScale
}
