package cloth

// Spring is a damped linear link between two particles, referenced by
// index into the cloth's particle slice.
type Spring struct {
	A, B       int
	RestLength float64
	Stiffness  float64
	Damping    float64
}

// NewSpring links particles a and b. The rest length is their current separation.
func NewSpring(particles []Particle, a, b int, stiffness, damping float64) Spring {
	return Spring{
		A:          a,
		B:          b,
		RestLength: particles[a].Pos.Dist(particles[b].Pos),
		Stiffness:  stiffness,
		Damping:    damping,
	}
}

// Apply adds the Hooke and damping force to both endpoints, equal and opposite.
func (s Spring) Apply(particles []Particle) {
	a, b := &particles[s.A], &particles[s.B]

	delta := b.Pos.Sub(a.Pos)
	dir := delta.Normalize()
	fs := s.Stiffness * (delta.Len() - s.RestLength)
	fd := s.Damping * dir.Dot(b.Vel.Sub(a.Vel))
	force := dir.Scale(fs + fd)

	a.ApplyForce(force)
	b.ApplyForce(force.Neg())
}

// Length returns the current separation of the endpoints.
func (s Spring) Length(particles []Particle) float64 {
	return particles[s.A].Pos.Dist(particles[s.B].Pos)
}

// Strain is the relative extension (positive) or compression (negative).
func (s Spring) Strain(particles []Particle) float64 {
	if s.RestLength == 0 {
		return 0
	}
	return (s.Length(particles) - s.RestLength) / s.RestLength
}

// Energy is the elastic potential stored in the spring.
func (s Spring) Energy(particles []Particle) float64 {
	x := s.Length(particles) - s.RestLength
	return 0.5 * s.Stiffness * x * x
}
