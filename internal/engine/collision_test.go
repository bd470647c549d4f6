package engine

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/vec"
)

func noGravityParams() Params {
	p := DefaultParams()
	p.G = 0
	return p
}

func TestMergeTwoEqualBodies(t *testing.T) {
	g := NewWithT(t)

	// Two equal masses 1.5 apart with zero velocity: they overlap
	// (1.5 < 2·radius) and merge into one body at the midpoint, at rest.
	eng, err := New(noGravityParams(), []*body.Body{
		{Kind: body.Planet, Mass: 10, Radius: 1},
		{Kind: body.Planet, Mass: 10, Radius: 1, Pos: vec.Vec2{X: 1.5}},
	})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(eng.Step(0.01)).To(Succeed())

	v := eng.View()
	g.Expect(v.BodyCount).To(Equal(1))
	merged := v.Bodies[0]
	g.Expect(merged.Mass).To(BeNumerically("~", 20, 1e-12))
	g.Expect(merged.Pos.X).To(BeNumerically("~", 0.75, 1e-12))
	g.Expect(merged.Pos.Y).To(BeNumerically("~", 0, 1e-12))
	g.Expect(merged.Vel.Length()).To(BeNumerically("~", 0, 1e-12))
}

func TestMergeConservesMomentumAndMass(t *testing.T) {
	g := NewWithT(t)

	a := &body.Body{Kind: body.Planet, Mass: 3, Radius: 1, Vel: vec.Vec2{X: 2, Y: -1}}
	b := &body.Body{Kind: body.Planet, Mass: 7, Radius: 1, Pos: vec.Vec2{X: 1}, Vel: vec.Vec2{X: -1, Y: 4}}

	px := a.Mass*a.Vel.X + b.Mass*b.Vel.X
	py := a.Mass*a.Vel.Y + b.Mass*b.Vel.Y

	eng, err := New(noGravityParams(), []*body.Body{a, b})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(eng.Step(1e-9)).To(Succeed())

	v := eng.View()
	g.Expect(v.BodyCount).To(Equal(1))
	merged := v.Bodies[0]
	g.Expect(merged.Mass).To(BeNumerically("~", 10, 1e-12))
	g.Expect(merged.Mass*merged.Vel.X).To(BeNumerically("~", px, 1e-9))
	g.Expect(merged.Mass*merged.Vel.Y).To(BeNumerically("~", py, 1e-9))
}

func TestMergeFixedPointChain(t *testing.T) {
	g := NewWithT(t)

	// Three bodies in a row, each overlapping the next. The first merge
	// product overlaps the third, so the fixed-point pass collapses all
	// three within one step.
	eng, err := New(noGravityParams(), []*body.Body{
		{Kind: body.Planet, Mass: 8, Radius: 1.5},
		{Kind: body.Planet, Mass: 8, Radius: 1.5, Pos: vec.Vec2{X: 2}},
		{Kind: body.Planet, Mass: 8, Radius: 1.5, Pos: vec.Vec2{X: 4}},
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(eng.Step(1e-9)).To(Succeed())

	v := eng.View()
	g.Expect(v.BodyCount).To(Equal(1))
	g.Expect(v.Bodies[0].Mass).To(BeNumerically("~", 24, 1e-12))
	g.Expect(v.Bodies[0].Pos.X).To(BeNumerically("~", 2, 1e-9))
}

func TestMergeKindDominance(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(noGravityParams(), []*body.Body{
		{Kind: body.Planet, Mass: 5, Radius: 1},
		{Kind: body.Star, Mass: 5, Radius: 1, Pos: vec.Vec2{X: 1}},
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(eng.Step(1e-9)).To(Succeed())

	v := eng.View()
	g.Expect(v.BodyCount).To(Equal(1))
	g.Expect(v.Bodies[0].Kind).To(Equal(body.Star))
}

func TestMergeKindDominanceConfigurable(t *testing.T) {
	g := NewWithT(t)

	p := noGravityParams()
	p.Dominance = []body.Kind{body.Planet, body.Star, body.BlackHole}

	eng, err := New(p, []*body.Body{
		{Kind: body.Planet, Mass: 5, Radius: 1},
		{Kind: body.Star, Mass: 5, Radius: 1, Pos: vec.Vec2{X: 1}},
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(eng.Step(1e-9)).To(Succeed())

	g.Expect(eng.View().Bodies[0].Kind).To(Equal(body.Planet))
}

func TestBlackHolePairMerges(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(noGravityParams(), []*body.Body{
		{Kind: body.BlackHole, Mass: 100, Radius: 2, EventHorizon: 1, Pull: 2},
		{Kind: body.BlackHole, Mass: 50, Radius: 2, EventHorizon: 1, Pull: 3, Pos: vec.Vec2{X: 3}},
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(eng.Step(1e-9)).To(Succeed())

	v := eng.View()
	g.Expect(v.BodyCount).To(Equal(1))
	merged := v.Bodies[0]
	g.Expect(merged.Kind).To(Equal(body.BlackHole))
	g.Expect(merged.Mass).To(BeNumerically("~", 150, 1e-12))
	g.Expect(merged.Pull).To(BeNumerically("~", 3, 1e-12))
	g.Expect(merged.EventHorizon).To(BeNumerically("<=", merged.Radius))
}

func TestOverlapOutsideHorizonDoesNotMerge(t *testing.T) {
	g := NewWithT(t)

	// A planet grazing a black hole inside the collision radius but
	// outside the event horizon is neither merged nor captured.
	eng, err := New(noGravityParams(), []*body.Body{
		{Kind: body.BlackHole, Mass: 100, Radius: 4, EventHorizon: 1, Pull: 2},
		{Kind: body.Planet, Mass: 1, Radius: 0.5, Pos: vec.Vec2{X: 3}},
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(eng.Step(1e-9)).To(Succeed())

	g.Expect(eng.View().BodyCount).To(Equal(2))
}
