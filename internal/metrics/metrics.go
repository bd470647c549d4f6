package metrics

import (
	"math"

	"github.com/pglowack/astrolab/internal/engine"
	"github.com/pglowack/astrolab/internal/vec"
)

// TotalEnergy tracks kinetic plus pairwise potential energy, averaged
// over the run. Black hole pull scaling is a stylized force, so the
// potential term uses plain mass; drift here measures the integrator,
// not the styling.
type TotalEnergy struct {
	samples int
	total   float64
}

func NewTotalEnergy() *TotalEnergy { return &TotalEnergy{} }

func (e *TotalEnergy) Name() string { return "energy" }

func (e *TotalEnergy) Observe(v engine.View, t float64) {
	e.total += Energy(v)
	e.samples++
}

func (e *TotalEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *TotalEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// Energy computes the instantaneous total energy of a view.
func Energy(v engine.View) float64 {
	ke := 0.0
	pe := 0.0
	for i, b := range v.Bodies {
		ke += 0.5 * b.Mass * b.Vel.LengthSq()
		for j := i + 1; j < len(v.Bodies); j++ {
			o := v.Bodies[j]
			r := vec.Distance(b.Pos, o.Pos)
			if min := b.Radius + o.Radius; r < min {
				r = min
			}
			pe -= v.G * b.Mass * o.Mass / r
		}
	}
	return ke + pe
}

// Momentum computes the magnitude of the system's total momentum.
func Momentum(v engine.View) float64 {
	var p vec.Vec2
	for _, b := range v.Bodies {
		p = p.Add(b.Vel.Scale(b.Mass))
	}
	return p.Length()
}

// TotalMass computes the summed mass of all live bodies.
func TotalMass(v engine.View) float64 {
	m := 0.0
	for _, b := range v.Bodies {
		m += b.Mass
	}
	return m
}

// MomentumDrift tracks the worst relative deviation of total momentum
// from its initial value. Merges and captures conserve momentum, so
// nonzero drift points at the gravity pass or the integrator.
type MomentumDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(v engine.View, t float64) {
	p := Momentum(v)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	if m.initial > 1e-12 {
		drift := math.Abs(p-m.initial) / m.initial
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// BodyCount reports the final live body count, a cheap way to see how
// many merges and captures a run produced.
type BodyCount struct {
	count int
}

func NewBodyCount() *BodyCount { return &BodyCount{} }

func (b *BodyCount) Name() string                     { return "bodies" }
func (b *BodyCount) Observe(v engine.View, t float64) { b.count = v.BodyCount }
func (b *BodyCount) Value() float64                   { return float64(b.count) }
func (b *BodyCount) Reset()                           { b.count = 0 }
