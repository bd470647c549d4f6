package engine

import (
	"fmt"

	"github.com/pglowack/astrolab/internal/body"
)

const (
	DefaultG             = 0.1
	DefaultSpeed         = 1.0
	DefaultHorizonFactor = 0.5
	DefaultEffectFactor  = 12.0
	DefaultSpawnPull     = 2.0
	DefaultSpawnMass     = 100.0
)

// Params are the global mutable simulation parameters. They are owned
// by one Engine instance, never process-wide, so independent
// simulations can coexist.
type Params struct {
	// G is the gravitational constant, scaled for visualization rather
	// than SI accuracy.
	G float64

	// Speed multiplies every timestep. Strictly positive; pause and
	// reset are separate operations, not zero speed.
	Speed float64

	// RadiusPolicy derives collision radii from mass for planets and
	// stars, at creation and after merges.
	RadiusPolicy body.RadiusPolicy

	// HorizonFactor sets a spawned or grown black hole's event horizon
	// as a fraction of its collision radius, capped at 1.
	HorizonFactor float64

	// EffectFactor scales a black hole's radius into its time-dilation
	// influence range. Beyond it a body's dilation is exactly 1.
	EffectFactor float64

	// SpawnPull and SpawnMassScale parameterize user-spawned black
	// holes: pull multiplier, and mass per unit radius.
	SpawnPull      float64
	SpawnMassScale float64

	// Dominance ranks kinds for merge outcomes, strongest first. Pairs
	// of exactly one black hole never merge; they resolve by capture.
	Dominance []body.Kind

	// Workers parallelizes the gravity pass when > 1. Zero means serial.
	Workers int

	Seed int64
}

func DefaultParams() Params {
	return Params{
		G:              DefaultG,
		Speed:          DefaultSpeed,
		RadiusPolicy:   body.DefaultRadiusPolicy(),
		HorizonFactor:  DefaultHorizonFactor,
		EffectFactor:   DefaultEffectFactor,
		SpawnPull:      DefaultSpawnPull,
		SpawnMassScale: DefaultSpawnMass,
		Dominance:      []body.Kind{body.BlackHole, body.Star, body.Planet},
	}
}

func (p Params) Validate() error {
	if p.G < 0 {
		return fmt.Errorf("%w: G %g must be non-negative", body.ErrInvalidParameter, p.G)
	}
	if p.Speed <= 0 {
		return fmt.Errorf("%w: speed %g must be positive", body.ErrInvalidParameter, p.Speed)
	}
	if p.RadiusPolicy.Scale <= 0 || p.RadiusPolicy.Exponent <= 0 {
		return fmt.Errorf("%w: radius policy must be positive", body.ErrInvalidParameter)
	}
	if p.HorizonFactor <= 0 || p.EffectFactor <= 0 {
		return fmt.Errorf("%w: horizon and effect factors must be positive", body.ErrInvalidParameter)
	}
	if p.SpawnPull <= 0 || p.SpawnMassScale <= 0 {
		return fmt.Errorf("%w: spawn parameters must be positive", body.ErrInvalidParameter)
	}
	return nil
}

// rank returns a kind's position in the dominance order; unranked kinds
// lose to every ranked one.
func (p Params) rank(k body.Kind) int {
	for i, d := range p.Dominance {
		if d == k {
			return i
		}
	}
	return len(p.Dominance)
}

func (p Params) horizonFor(radius float64) float64 {
	h := radius * p.HorizonFactor
	if h > radius {
		h = radius
	}
	return h
}
