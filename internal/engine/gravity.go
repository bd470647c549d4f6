package engine

import (
	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/vec"
)

// parallelThreshold is the body count below which the chunked gravity
// pass costs more than it saves.
const parallelThreshold = 64

// effMass is the mass term a body contributes to the field. Black holes
// pull harder than their mass alone implies.
func effMass(b *body.Body) float64 {
	if b.Kind == body.BlackHole {
		return b.Mass * b.Pull
	}
	return b.Mass
}

// accelerations computes the net gravitational acceleration on each
// body from all others, writing into out (len(bodies) entries).
//
// Distances are clamped to the pair's combined radii before the inverse
// square, which both avoids the division blow-up at close range and
// hands the touching case over to the collision resolver.
func accelerations(bodies []*body.Body, g float64, workers int, out []vec.Vec2) {
	for i := range out {
		out[i] = vec.Vec2{}
	}
	if g == 0 {
		return
	}

	n := len(bodies)
	if workers > 1 && n >= parallelThreshold {
		parallelFor(n, workers, func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = accelOn(bodies, i, g)
			}
		})
		return
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := bodies[i], bodies[j]
			diff := b.Pos.Sub(a.Pos)
			r := diff.Length()
			if min := a.Radius + b.Radius; r < min {
				r = min
			}
			dir := diff.Normalize()
			inv := g / (r * r)
			out[i] = out[i].Add(dir.Scale(inv * effMass(b)))
			out[j] = out[j].Sub(dir.Scale(inv * effMass(a)))
		}
	}
}

// accelOn computes the acceleration on bodies[i] alone. Used by the
// parallel pass so each worker writes only its own index range.
func accelOn(bodies []*body.Body, i int, g float64) vec.Vec2 {
	a := bodies[i]
	var acc vec.Vec2
	for j, b := range bodies {
		if j == i {
			continue
		}
		diff := b.Pos.Sub(a.Pos)
		r := diff.Length()
		if min := a.Radius + b.Radius; r < min {
			r = min
		}
		acc = acc.Add(diff.Normalize().Scale(g * effMass(b) / (r * r)))
	}
	return acc
}
