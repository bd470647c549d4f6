package body

import (
	"fmt"
	"math"

	"github.com/pglowack/astrolab/internal/vec"
)

// Kind tags the behavioral variant of a body. Black holes carry the
// extra event-horizon and pull fields; other kinds leave them zero.
type Kind int

const (
	Planet Kind = iota
	Star
	BlackHole
)

func (k Kind) String() string {
	switch k {
	case Planet:
		return "planet"
	case Star:
		return "star"
	case BlackHole:
		return "blackhole"
	default:
		return "unknown"
	}
}

// ParseKind converts a serialized kind name back to its tag.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "planet":
		return Planet, nil
	case "star":
		return Star, nil
	case "blackhole":
		return BlackHole, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidParameter, s)
	}
}

// Body is one simulated object. The registry owns all live bodies;
// other components only borrow references for the duration of a step.
type Body struct {
	ID   uint64
	Name string
	Kind Kind

	Pos  vec.Vec2
	Vel  vec.Vec2
	Mass float64

	// Radius is used for collision and capture detection. It follows the
	// mass→radius policy for planets and stars; black hole radii are set
	// independently and grow area-conserving on capture.
	Radius float64

	// EventHorizon is the capture distance, at most Radius. Zero for
	// non-black-hole kinds.
	EventHorizon float64

	// Pull scales a black hole's contributed mass term in the gravity
	// solver beyond what its mass alone implies. Zero for other kinds.
	Pull float64

	// TimeDilation is a per-body scalar in (0,1] multiplying the
	// effective integration timestep. 1 means no dilation.
	TimeDilation float64
}

func (b *Body) Clone() *Body {
	c := *b
	return &c
}

// Validate checks the live-body invariants: positive mass and radius,
// dilation in (0,1], and for black holes a positive horizon no larger
// than the collision radius.
func (b *Body) Validate() error {
	if b.Mass <= 0 {
		return fmt.Errorf("%w: mass %g must be positive", ErrInvalidParameter, b.Mass)
	}
	if b.Radius <= 0 {
		return fmt.Errorf("%w: radius %g must be positive", ErrInvalidParameter, b.Radius)
	}
	if b.TimeDilation <= 0 || b.TimeDilation > 1 {
		return fmt.Errorf("%w: time dilation %g outside (0,1]", ErrInvalidParameter, b.TimeDilation)
	}
	if !b.Pos.IsValid() || !b.Vel.IsValid() {
		return fmt.Errorf("%w: non-finite kinematics", ErrInvalidParameter)
	}
	if b.Kind == BlackHole {
		if b.EventHorizon <= 0 || b.EventHorizon > b.Radius {
			return fmt.Errorf("%w: event horizon %g outside (0, radius]", ErrInvalidParameter, b.EventHorizon)
		}
		if b.Pull <= 0 {
			return fmt.Errorf("%w: pull %g must be positive", ErrInvalidParameter, b.Pull)
		}
	}
	return nil
}

// RadiusPolicy converts mass to collision radius for planets and stars.
// The defaults keep merged bodies growing sublinearly, a tunable policy
// rather than a physical law.
type RadiusPolicy struct {
	Scale    float64
	Exponent float64
}

func DefaultRadiusPolicy() RadiusPolicy {
	return RadiusPolicy{Scale: 1.0, Exponent: 1.0 / 3.0}
}

func (p RadiusPolicy) Radius(mass float64) float64 {
	return p.Scale * math.Pow(mass, p.Exponent)
}
