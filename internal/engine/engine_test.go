package engine

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/vec"
)

func orbitParams() Params {
	p := DefaultParams()
	p.G = 1.0
	return p
}

// threeBody is a small asymmetric system that exercises gravity,
// integration and dilation together.
func threeBody() []*body.Body {
	return []*body.Body{
		{Kind: body.Star, Mass: 1000, Radius: 5},
		{Kind: body.Planet, Mass: 10, Radius: 1, Pos: vec.Vec2{X: 100}, Vel: vec.Vec2{Y: 3.1}},
		{Kind: body.Planet, Mass: 5, Radius: 1, Pos: vec.Vec2{X: -150}, Vel: vec.Vec2{Y: -2.5}},
	}
}

func TestSetSpeedMultiplierRejectsNonPositive(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(orbitParams(), threeBody())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(eng.SetSpeedMultiplier(2.5)).To(Succeed())

	for _, v := range []float64{0, -1} {
		err := eng.SetSpeedMultiplier(v)
		g.Expect(errors.Is(err, body.ErrInvalidParameter)).To(BeTrue())
		g.Expect(eng.Speed()).To(Equal(2.5), "prior speed must be retained")
	}
}

func TestSpawnBlackHoleDistinctIDs(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(orbitParams(), threeBody())
	g.Expect(err).NotTo(HaveOccurred())

	id1, err := eng.SpawnBlackHole(vec.Vec2{X: 500, Y: 500}, 20)
	g.Expect(err).NotTo(HaveOccurred())
	id2, err := eng.SpawnBlackHole(vec.Vec2{X: -500, Y: -500}, 20)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(id2).NotTo(Equal(id1))

	holes := 0
	for _, b := range eng.View().Bodies {
		if b.ID == id1 || b.ID == id2 {
			g.Expect(b.Kind).To(Equal(body.BlackHole))
			g.Expect(b.EventHorizon).To(BeNumerically("<=", b.Radius))
			holes++
		}
	}
	g.Expect(holes).To(Equal(2))

	_, err = eng.SpawnBlackHole(vec.Vec2{}, -5)
	g.Expect(errors.Is(err, body.ErrInvalidParameter)).To(BeTrue())
}

func TestStepRejectsNonPositiveElapsed(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(orbitParams(), threeBody())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(errors.Is(eng.Step(0), body.ErrInvalidParameter)).To(BeTrue())
	g.Expect(errors.Is(eng.Step(-0.1), body.ErrInvalidParameter)).To(BeTrue())
}

func TestPauseFreezesState(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(orbitParams(), threeBody())
	g.Expect(err).NotTo(HaveOccurred())

	before := eng.View()
	eng.Pause()
	g.Expect(eng.Step(0.01)).To(Succeed())
	after := eng.View()

	g.Expect(after.SimTime).To(Equal(before.SimTime))
	for i := range before.Bodies {
		g.Expect(after.Bodies[i].Pos).To(Equal(before.Bodies[i].Pos))
	}

	eng.Resume()
	g.Expect(eng.Step(0.01)).To(Succeed())
	g.Expect(eng.View().SimTime).To(BeNumerically(">", before.SimTime))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(orbitParams(), threeBody())
	g.Expect(err).NotTo(HaveOccurred())
	for i := 0; i < 10; i++ {
		g.Expect(eng.Step(0.01)).To(Succeed())
	}

	snap := eng.Snapshot()

	restored, err := New(orbitParams(), nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(restored.Load(snap)).To(Succeed())

	v1, v2 := eng.View(), restored.View()
	g.Expect(v2.BodyCount).To(Equal(v1.BodyCount))
	g.Expect(v2.SimTime).To(Equal(v1.SimTime))
	g.Expect(v2.Speed).To(Equal(v1.Speed))
	for i := range v1.Bodies {
		g.Expect(v2.Bodies[i].Pos).To(Equal(v1.Bodies[i].Pos))
		g.Expect(v2.Bodies[i].Vel).To(Equal(v1.Bodies[i].Vel))
		g.Expect(v2.Bodies[i].Mass).To(Equal(v1.Bodies[i].Mass))
		g.Expect(v2.Bodies[i].Kind).To(Equal(v1.Bodies[i].Kind))
	}
}

func TestSaveLoadSteppingDeterministic(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(orbitParams(), threeBody())
	g.Expect(err).NotTo(HaveOccurred())
	for i := 0; i < 5; i++ {
		g.Expect(eng.Step(0.01)).To(Succeed())
	}

	snap := eng.Snapshot()
	restored, err := New(orbitParams(), nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(restored.Load(snap)).To(Succeed())

	// The restored run's continuation is indistinguishable from the
	// original's: same body order, same accumulation order, same floats.
	for i := 0; i < 50; i++ {
		g.Expect(eng.Step(0.01)).To(Succeed())
		g.Expect(restored.Step(0.01)).To(Succeed())
	}

	v1, v2 := eng.View(), restored.View()
	g.Expect(v2.BodyCount).To(Equal(v1.BodyCount))
	for i := range v1.Bodies {
		g.Expect(v2.Bodies[i].Pos.X).To(BeNumerically("~", v1.Bodies[i].Pos.X, 1e-12))
		g.Expect(v2.Bodies[i].Pos.Y).To(BeNumerically("~", v1.Bodies[i].Pos.Y, 1e-12))
		g.Expect(v2.Bodies[i].Vel.X).To(BeNumerically("~", v1.Bodies[i].Vel.X, 1e-12))
		g.Expect(v2.Bodies[i].Vel.Y).To(BeNumerically("~", v1.Bodies[i].Vel.Y, 1e-12))
	}
}

func TestLoadMalformedSnapshotLeavesStateUntouched(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(orbitParams(), threeBody())
	g.Expect(err).NotTo(HaveOccurred())
	before := eng.View()

	malformed := []Snapshot{
		{Speed: 0, G: 1},
		{Speed: 1, G: -1},
		{Speed: 1, G: 1, Bodies: []BodyState{{Kind: "comet", Mass: 1, Radius: 1}}},
		{Speed: 1, G: 1, Bodies: []BodyState{{Kind: "planet", Mass: -1, Radius: 1}}},
		{Speed: 1, G: 1, Bodies: []BodyState{
			{Kind: "planet", Mass: 1, Radius: 1},
			{Kind: "blackhole", Mass: 1, Radius: 1, EventHorizon: 5, Pull: 1},
		}},
	}

	for _, s := range malformed {
		err := eng.Load(s)
		g.Expect(errors.Is(err, body.ErrInvalidParameter)).To(BeTrue(), "snapshot %+v", s)

		after := eng.View()
		g.Expect(after.BodyCount).To(Equal(before.BodyCount))
		g.Expect(after.Speed).To(Equal(before.Speed))
		for i := range before.Bodies {
			g.Expect(after.Bodies[i].Pos).To(Equal(before.Bodies[i].Pos))
		}
	}
}

func TestResetRestoresStartupState(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(orbitParams(), threeBody())
	g.Expect(err).NotTo(HaveOccurred())

	_, err = eng.SpawnBlackHole(vec.Vec2{X: 50}, 20)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(eng.SetSpeedMultiplier(5)).To(Succeed())
	for i := 0; i < 20; i++ {
		g.Expect(eng.Step(0.01)).To(Succeed())
	}

	g.Expect(eng.Reset()).To(Succeed())

	v := eng.View()
	g.Expect(v.BodyCount).To(Equal(3))
	g.Expect(v.SimTime).To(Equal(0.0))
	g.Expect(v.Speed).To(Equal(1.0))
	for _, b := range v.Bodies {
		g.Expect(b.Kind).NotTo(Equal(body.BlackHole))
	}
}

func TestIDsUniqueAcrossStructuralChanges(t *testing.T) {
	g := NewWithT(t)

	eng, err := New(noGravityParams(), []*body.Body{
		{Kind: body.Planet, Mass: 10, Radius: 1},
		{Kind: body.Planet, Mass: 10, Radius: 1, Pos: vec.Vec2{X: 1.5}},
		{Kind: body.Planet, Mass: 10, Radius: 1, Pos: vec.Vec2{X: 100}},
	})
	g.Expect(err).NotTo(HaveOccurred())

	seen := make(map[uint64]bool)
	for _, b := range eng.View().Bodies {
		seen[b.ID] = true
	}

	g.Expect(eng.Step(0.01)).To(Succeed())

	for _, b := range eng.View().Bodies {
		if b.Mass == 20 {
			g.Expect(seen[b.ID]).To(BeFalse(), "merge product must get a fresh id")
		}
	}

	ids := make(map[uint64]bool)
	for _, b := range eng.View().Bodies {
		g.Expect(ids[b.ID]).To(BeFalse(), "duplicate live id %d", b.ID)
		ids[b.ID] = true
	}
}
