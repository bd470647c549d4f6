package engine

import (
	"math"

	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/vec"
)

// stepChanges is the list of pending structural changes produced by the
// collision and capture scans. Nothing touches the registry until the
// commit phase applies the whole list.
type stepChanges struct {
	removed  []uint64               // live ids consumed by merges or captures
	products []*body.Body           // merge products to insert
	grown    map[uint64]*body.Body  // live black holes with updated fields
}

// resolve runs the post-integration structural phase over a working
// copy of the live set: inelastic merges to a fixed point, then
// event-horizon captures. Scans go in ascending id-pair order and merge
// products are eligible for further merges within the same step, so the
// outcome is deterministic for a given state.
func resolve(live []*body.Body, p Params) stepChanges {
	work := make([]*body.Body, len(live))
	maxLive := uint64(0)
	origMass := make(map[uint64]float64, len(live))
	for i, b := range live {
		work[i] = b.Clone()
		origMass[b.ID] = b.Mass
		if b.ID > maxLive {
			maxLive = b.ID
		}
	}

	// Provisional ids keep products ordered after every live body; the
	// registry assigns real ids at commit.
	next := maxLive + 1

	// Bounded fixed point: each merge reduces the body count by one.
	for pass := 0; pass < len(live); pass++ {
		i, j := findCollision(work)
		if i < 0 {
			break
		}
		product := mergeBodies(work[i], work[j], p)
		product.ID = next
		next++
		work = append(work[:j], work[j+1:]...)
		work = append(work[:i], work[i+1:]...)
		work = append(work, product)
	}

	work = resolveCaptures(work, p)

	ch := stepChanges{grown: make(map[uint64]*body.Body)}
	surviving := make(map[uint64]*body.Body, len(work))
	for _, b := range work {
		if b.ID > maxLive {
			b.ID = 0
			ch.products = append(ch.products, b)
			continue
		}
		surviving[b.ID] = b
	}
	for _, orig := range live {
		b, ok := surviving[orig.ID]
		if !ok {
			ch.removed = append(ch.removed, orig.ID)
			continue
		}
		if b.Mass != origMass[orig.ID] {
			ch.grown[orig.ID] = b
		}
	}
	return ch
}

// findCollision returns the first overlapping mergeable pair in
// ascending id-pair order, or (-1, -1). Pairs of exactly one black hole
// are left to the capture scan; a black hole never stops being one.
func findCollision(work []*body.Body) (int, int) {
	for i := 0; i < len(work); i++ {
		for j := i + 1; j < len(work); j++ {
			a, b := work[i], work[j]
			if (a.Kind == body.BlackHole) != (b.Kind == body.BlackHole) {
				continue
			}
			if vec.Distance(a.Pos, b.Pos) < a.Radius+b.Radius {
				return i, j
			}
		}
	}
	return -1, -1
}

// mergeBodies applies the perfectly inelastic merge rule: mass sum,
// mass-weighted centroid, momentum-conserving velocity, kind by the
// configured dominance ranking.
func mergeBodies(a, b *body.Body, p Params) *body.Body {
	m := a.Mass + b.Mass
	winner := a
	if p.rank(b.Kind) < p.rank(a.Kind) {
		winner = b
	}

	out := &body.Body{
		Name:         winner.Name,
		Kind:         winner.Kind,
		Pos:          a.Pos.Scale(a.Mass).Add(b.Pos.Scale(b.Mass)).Scale(1 / m),
		Vel:          a.Vel.Scale(a.Mass).Add(b.Vel.Scale(b.Mass)).Scale(1 / m),
		Mass:         m,
		TimeDilation: 1,
	}
	if out.Kind == body.BlackHole {
		out.Radius = math.Sqrt(a.Radius*a.Radius + b.Radius*b.Radius)
		out.EventHorizon = p.horizonFor(out.Radius)
		out.Pull = math.Max(a.Pull, b.Pull)
	} else {
		out.Radius = p.RadiusPolicy.Radius(m)
	}
	return out
}
