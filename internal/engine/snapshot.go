package engine

import (
	"fmt"

	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/vec"
)

// BodyState is one body in a snapshot, serializable as-is. Ids are not
// preserved: restore reassigns them, which keeps the never-reused
// guarantee and is indistinguishable to continued stepping.
type BodyState struct {
	Name         string  `json:"name,omitempty"`
	Kind         string  `json:"kind"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	VX           float64 `json:"vx"`
	VY           float64 `json:"vy"`
	Mass         float64 `json:"mass"`
	Radius       float64 `json:"radius"`
	EventHorizon float64 `json:"event_horizon,omitempty"`
	Pull         float64 `json:"pull,omitempty"`
	TimeDilation float64 `json:"time_dilation"`
}

// Snapshot is an immutable deep copy of the full simulation state, the
// unit of save, load and reset.
type Snapshot struct {
	SimTime float64     `json:"sim_time"`
	Speed   float64     `json:"speed"`
	G       float64     `json:"g"`
	Seed    int64       `json:"seed"`
	Bodies  []BodyState `json:"bodies"`
}

// Snapshot deep-copies the live set and global parameters. The result
// shares nothing with live state.
func (e *Engine) Snapshot() Snapshot {
	live := e.reg.Bodies()
	s := Snapshot{
		SimTime: e.simTime,
		Speed:   e.params.Speed,
		G:       e.params.G,
		Seed:    e.params.Seed,
		Bodies:  make([]BodyState, len(live)),
	}
	for i, b := range live {
		s.Bodies[i] = BodyState{
			Name:         b.Name,
			Kind:         b.Kind.String(),
			X:            b.Pos.X,
			Y:            b.Pos.Y,
			VX:           b.Vel.X,
			VY:           b.Vel.Y,
			Mass:         b.Mass,
			Radius:       b.Radius,
			EventHorizon: b.EventHorizon,
			Pull:         b.Pull,
			TimeDilation: b.TimeDilation,
		}
	}
	return s
}

// Load atomically replaces the live state with the snapshot's. The
// whole snapshot is validated before anything is touched, so a
// malformed snapshot leaves the current simulation unchanged. A halted
// engine resumes on success.
func (e *Engine) Load(s Snapshot) error {
	if s.Speed <= 0 {
		return fmt.Errorf("%w: snapshot speed %g must be positive", body.ErrInvalidParameter, s.Speed)
	}
	if s.G < 0 {
		return fmt.Errorf("%w: snapshot G %g must be non-negative", body.ErrInvalidParameter, s.G)
	}

	restored := make([]*body.Body, len(s.Bodies))
	for i, bs := range s.Bodies {
		b, err := bs.toBody()
		if err != nil {
			return fmt.Errorf("snapshot body %d: %w", i, err)
		}
		restored[i] = b
	}

	e.reg.Clear()
	for _, b := range restored {
		if _, err := e.reg.Insert(b); err != nil {
			// Unreachable: every body was validated above.
			return fmt.Errorf("%w: validated body rejected: %v", body.ErrIntegrity, err)
		}
	}
	e.params.Speed = s.Speed
	e.params.G = s.G
	e.params.Seed = s.Seed
	e.simTime = s.SimTime
	e.halted = false
	return nil
}

// Reset restores the snapshot captured at startup, before any user
// interaction.
func (e *Engine) Reset() error {
	return e.Load(e.initial)
}

func (bs BodyState) toBody() (*body.Body, error) {
	kind, err := body.ParseKind(bs.Kind)
	if err != nil {
		return nil, err
	}
	b := &body.Body{
		Name:         bs.Name,
		Kind:         kind,
		Pos:          vec.Vec2{X: bs.X, Y: bs.Y},
		Vel:          vec.Vec2{X: bs.VX, Y: bs.VY},
		Mass:         bs.Mass,
		Radius:       bs.Radius,
		EventHorizon: bs.EventHorizon,
		Pull:         bs.Pull,
		TimeDilation: bs.TimeDilation,
	}
	if b.TimeDilation == 0 {
		b.TimeDilation = 1
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
