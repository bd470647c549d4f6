package engine

import (
	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/vec"
)

// Integrator advances one body's kinematics over an effective timestep.
type Integrator interface {
	Step(b *body.Body, acc vec.Vec2, dt float64)
}

// SymplecticEuler is semi-implicit Euler: velocity first, then position
// from the updated velocity. Better energy behavior than explicit Euler
// for orbital motion at the same cost.
type SymplecticEuler struct{}

func (SymplecticEuler) Step(b *body.Body, acc vec.Vec2, dt float64) {
	b.Vel = b.Vel.Add(acc.Scale(dt))
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
}
