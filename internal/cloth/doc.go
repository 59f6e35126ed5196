// Package cloth implements a mass-spring cloth on a regular grid.
//
// A [Cloth] owns its particles in one slice; each [Spring] refers to its two
// endpoints by index. A frame is two strictly ordered phases:
//
//	c.ApplySprings()           // accumulate every spring force
//	c.Integrate(gravity, dt)   // then step every particle
//
// Particles have unit mass and use semi-implicit Euler. Pinned particles
// ([Particle.Locked]) ignore forces and only move when a caller sets Pos.
package cloth
