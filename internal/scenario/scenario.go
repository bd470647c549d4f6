// Package scenario builds the initial body sets the engine starts from.
package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/config"
	"github.com/pglowack/astrolab/internal/vec"
)

// planetSpec mirrors the classic solar layout: orbit radius, body
// radius, and a name. Mass follows the original radius·10 rule.
type planetSpec struct {
	name   string
	orbit  float64
	radius float64
}

var solarPlanets = []planetSpec{
	{"mercury", 65, 5},
	{"venus", 95, 10},
	{"earth", 130, 12},
	{"mars", 165, 8},
	{"jupiter", 220, 25},
	{"saturn", 280, 20},
	{"uranus", 330, 15},
	{"neptune", 380, 15},
}

const (
	sunRadius    = 40.0
	sunMassScale = 1000.0
	planetMass   = 10.0
)

// Build constructs the initial bodies for the configured scenario.
// Randomized scenarios are deterministic per seed.
func Build(cfg *config.Config) ([]*body.Body, error) {
	switch cfg.Scenario {
	case "solar":
		return buildSolar(cfg), nil
	case "binary":
		return buildBinary(cfg), nil
	case "cluster":
		return buildCluster(cfg, false), nil
	case "collapse":
		return buildCluster(cfg, true), nil
	default:
		return nil, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}
}

// Names lists the available scenarios.
func Names() []string {
	return []string{"solar", "binary", "cluster", "collapse"}
}

func buildSolar(cfg *config.Config) []*body.Body {
	sun := &body.Body{
		Name:   "sun",
		Kind:   body.Star,
		Mass:   sunRadius * sunMassScale,
		Radius: sunRadius,
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	bodies := []*body.Body{sun}
	for _, spec := range solarPlanets {
		angle := rng.Float64() * 2 * math.Pi
		pos := vec.Vec2{
			X: spec.orbit * math.Cos(angle),
			Y: spec.orbit * math.Sin(angle),
		}
		// Tangential velocity for a circular orbit about the sun.
		v := math.Sqrt(cfg.G * sun.Mass / spec.orbit)
		vel := vec.Vec2{
			X: -math.Sin(angle) * v,
			Y: math.Cos(angle) * v,
		}
		bodies = append(bodies, &body.Body{
			Name:   spec.name,
			Kind:   body.Planet,
			Pos:    pos,
			Vel:    vel,
			Mass:   spec.radius * planetMass,
			Radius: spec.radius,
		})
	}
	return bodies
}

func buildBinary(cfg *config.Config) []*body.Body {
	const (
		mass       = 2000.0
		radius     = 20.0
		separation = 200.0
	)
	// Circular mutual orbit: v = sqrt(G·M / 2d) at each star.
	v := math.Sqrt(cfg.G * mass / (2 * separation))
	return []*body.Body{
		{
			Name: "alpha", Kind: body.Star, Mass: mass, Radius: radius,
			Pos: vec.Vec2{X: -separation / 2}, Vel: vec.Vec2{Y: -v},
		},
		{
			Name: "beta", Kind: body.Star, Mass: mass, Radius: radius,
			Pos: vec.Vec2{X: separation / 2}, Vel: vec.Vec2{Y: v},
		},
	}
}

// buildCluster scatters bodies around a central mass with roughly
// circular initial orbits. With a black hole core the cluster slowly
// feeds it instead of orbiting stably.
func buildCluster(cfg *config.Config, holeCore bool) []*body.Body {
	rng := rand.New(rand.NewSource(cfg.Seed))

	core := &body.Body{Name: "core", Kind: body.Star, Mass: 50000, Radius: 30}
	if holeCore {
		core = &body.Body{
			Name: "core", Kind: body.BlackHole, Mass: 50000, Radius: 30,
			EventHorizon: 15, Pull: 1.5,
		}
	}

	n := cfg.Bodies
	if n <= 0 {
		n = config.DefaultBodies
	}

	bodies := make([]*body.Body, 0, n+1)
	bodies = append(bodies, core)
	for i := 0; i < n; i++ {
		mass := math.Abs(rng.NormFloat64()*20+60) + 1
		dist := math.Abs(rng.NormFloat64()*150) + 80
		angle := rng.Float64() * 2 * math.Pi

		pos := vec.Vec2{X: dist * math.Cos(angle), Y: dist * math.Sin(angle)}
		v := math.Sqrt(cfg.G * core.Mass / dist)
		vel := vec.Vec2{X: -math.Sin(angle) * v, Y: math.Cos(angle) * v}

		bodies = append(bodies, &body.Body{
			Name:   fmt.Sprintf("body-%d", i+1),
			Kind:   body.Planet,
			Pos:    pos,
			Vel:    vel,
			Mass:   mass,
			Radius: math.Cbrt(mass),
		})
	}
	return bodies
}
