package engine

import (
	"math"

	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/vec"
)

// resolveCaptures removes every non-black-hole body inside a hole's
// event horizon, feeding its mass to the hole. Unlike a merge the
// victim's identity and kind are discarded outright; the hole keeps its
// position and grows area-conserving, while momentum is conserved in
// its velocity. Scans repeat in ascending id order until stable,
// bounded by the body count.
func resolveCaptures(work []*body.Body, p Params) []*body.Body {
	for pass := 0; pass < len(work); pass++ {
		hi, pi := findCapture(work)
		if hi < 0 {
			return work
		}
		hole, prey := work[hi], work[pi]

		m := hole.Mass + prey.Mass
		hole.Vel = hole.Vel.Scale(hole.Mass).Add(prey.Vel.Scale(prey.Mass)).Scale(1 / m)
		hole.Mass = m
		hole.Radius = math.Sqrt(hole.Radius*hole.Radius + prey.Radius*prey.Radius)
		hole.EventHorizon = p.horizonFor(hole.Radius)

		work = append(work[:pi], work[pi+1:]...)
	}
	return work
}

func findCapture(work []*body.Body) (hole, prey int) {
	for i, h := range work {
		if h.Kind != body.BlackHole {
			continue
		}
		for j, b := range work {
			if b.Kind == body.BlackHole {
				continue
			}
			if vec.Distance(h.Pos, b.Pos) < h.EventHorizon {
				return i, j
			}
		}
	}
	return -1, -1
}

// recomputeDilation refreshes every body's time-dilation scalar from
// the strongest black hole within influence range. The formula
// 1/(1 + pull·mass/dist) is a stylized cue, not a relativistic metric;
// it is monotonically decreasing in pull strength and proximity and
// stays in (0,1].
func recomputeDilation(bodies []*body.Body, p Params) {
	for _, b := range bodies {
		best := 1.0
		for _, h := range bodies {
			if h.Kind != body.BlackHole || h.ID == b.ID {
				continue
			}
			d := vec.Distance(b.Pos, h.Pos)
			if d > h.Radius*p.EffectFactor {
				continue
			}
			if d < 1e-9 {
				d = 1e-9
			}
			f := 1 / (1 + h.Pull*h.Mass/d)
			if f < best {
				best = f
			}
		}
		b.TimeDilation = best
	}
}
