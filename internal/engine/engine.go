package engine

import (
	"fmt"

	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/vec"
)

// Engine is one simulation session. It is driven synchronously by a
// single control goroutine (the render/event loop): all exported
// methods are called between steps, never concurrently with Step.
//
// Each step is strictly phased: (1) read-only gravity over the current
// set, (2) integration writing only kinematic fields, (3) collision and
// capture scans producing pending structural changes, (4) one commit
// applying them, then a dilation refresh. Structural mutation never
// happens mid-scan.
type Engine struct {
	params Params
	reg    *body.Registry
	integ  Integrator

	simTime float64
	steps   int
	spawns  int
	paused  bool
	halted  bool

	initial Snapshot

	accels []vec.Vec2
}

// View is a read-only copy of the live state for rendering, metrics and
// persistence. Bodies are value copies in ascending id order.
type View struct {
	SimTime   float64
	Speed     float64
	G         float64
	BodyCount int
	Bodies    []body.Body
}

// New builds an engine over the given initial bodies and captures the
// startup snapshot that Reset returns to. Bodies are inserted in slice
// order; ids are assigned by the registry.
func New(p Params, initial []*body.Body) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		params: p,
		reg:    body.NewRegistry(),
		integ:  SymplecticEuler{},
	}
	for _, b := range initial {
		if _, err := e.reg.Insert(b); err != nil {
			return nil, err
		}
	}
	recomputeDilation(e.reg.Bodies(), e.params)
	e.initial = e.Snapshot()
	return e, nil
}

// Step advances the simulation by one base timestep. The effective
// timestep per body is elapsed·speed·dilation. Returns ErrHalted after
// an integrity violation until a Load or Reset clears it.
func (e *Engine) Step(elapsed float64) error {
	if e.halted {
		return fmt.Errorf("%w (step %d)", ErrHalted, e.steps)
	}
	if elapsed <= 0 {
		return fmt.Errorf("%w: elapsed %g must be positive", body.ErrInvalidParameter, elapsed)
	}
	if e.paused {
		return nil
	}

	bodies := e.reg.Bodies()
	if len(e.accels) < len(bodies) {
		e.accels = make([]vec.Vec2, len(bodies))
	}
	accs := e.accels[:len(bodies)]
	accelerations(bodies, e.params.G, e.params.Workers, accs)

	for i, b := range bodies {
		dt := elapsed * e.params.Speed * b.TimeDilation
		e.integ.Step(b, accs[i], dt)
	}

	ch := resolve(bodies, e.params)
	for _, id := range ch.removed {
		e.reg.QueueRemove(id)
	}
	for _, p := range ch.products {
		e.reg.QueueInsert(p)
	}
	if err := e.reg.Commit(); err != nil {
		e.halted = true
		return &StepError{Step: e.steps, Time: e.simTime, Wrapped: err}
	}
	for id, updated := range ch.grown {
		live, err := e.reg.Get(id)
		if err != nil {
			e.halted = true
			return &StepError{Step: e.steps, Time: e.simTime,
				Wrapped: fmt.Errorf("%w: grown hole %d vanished", body.ErrIntegrity, id)}
		}
		live.Mass = updated.Mass
		live.Vel = updated.Vel
		live.Radius = updated.Radius
		live.EventHorizon = updated.EventHorizon
	}

	recomputeDilation(e.reg.Bodies(), e.params)

	e.simTime += elapsed * e.params.Speed
	e.steps++
	return nil
}

// SpawnBlackHole inserts a user-created black hole at pos. Its mass,
// horizon and pull derive from the spawn parameters.
func (e *Engine) SpawnBlackHole(pos vec.Vec2, radius float64) (uint64, error) {
	if radius <= 0 {
		return 0, fmt.Errorf("%w: spawn radius %g must be positive", body.ErrInvalidParameter, radius)
	}
	e.spawns++
	b := &body.Body{
		Name:         fmt.Sprintf("blackhole-%d", e.spawns),
		Kind:         body.BlackHole,
		Pos:          pos,
		Mass:         radius * e.params.SpawnMassScale,
		Radius:       radius,
		EventHorizon: e.params.horizonFor(radius),
		Pull:         e.params.SpawnPull,
		TimeDilation: 1,
	}
	id, err := e.reg.Insert(b)
	if err != nil {
		return 0, err
	}
	recomputeDilation(e.reg.Bodies(), e.params)
	return id, nil
}

// SetSpeedMultiplier rejects non-positive values and leaves the prior
// speed unchanged on rejection.
func (e *Engine) SetSpeedMultiplier(v float64) error {
	if v <= 0 {
		return fmt.Errorf("%w: speed multiplier %g must be positive", body.ErrInvalidParameter, v)
	}
	e.params.Speed = v
	return nil
}

func (e *Engine) Pause()       { e.paused = true }
func (e *Engine) Resume()      { e.paused = false }
func (e *Engine) Paused() bool { return e.paused }
func (e *Engine) Halted() bool { return e.halted }

func (e *Engine) SimTime() float64 { return e.simTime }
func (e *Engine) Speed() float64   { return e.params.Speed }
func (e *Engine) BodyCount() int   { return e.reg.Len() }

func (e *Engine) View() View {
	live := e.reg.Bodies()
	v := View{
		SimTime:   e.simTime,
		Speed:     e.params.Speed,
		G:         e.params.G,
		BodyCount: len(live),
		Bodies:    make([]body.Body, len(live)),
	}
	for i, b := range live {
		v.Bodies[i] = *b
	}
	return v
}
