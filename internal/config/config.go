package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/engine"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 30.0
	DefaultSpeed       = 1.0
	DefaultG           = 0.1
	DefaultBodies      = 40
	DefaultSpawnRadius = 20.0
	MinSpawnRadius     = 10.0
	MaxSpawnRadius     = 50.0
)

type Config struct {
	Scenario string  `yaml:"scenario"`
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Speed    float64 `yaml:"speed"`
	G        float64 `yaml:"g"`
	Seed     int64   `yaml:"seed"`
	Bodies   int     `yaml:"bodies"`
	Workers  int     `yaml:"workers"`

	BlackHole BlackHoleConfig `yaml:"black_hole"`

	// Dominance ranks kinds for merge outcomes, strongest first.
	// Empty means the engine default (blackhole, star, planet).
	Dominance []string `yaml:"dominance"`
}

type BlackHoleConfig struct {
	SpawnRadius   float64 `yaml:"spawn_radius"`
	Pull          float64 `yaml:"pull"`
	HorizonFactor float64 `yaml:"horizon_factor"`
	EffectFactor  float64 `yaml:"effect_factor"`
	MassScale     float64 `yaml:"mass_scale"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: "solar",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Speed:    DefaultSpeed,
		G:        DefaultG,
		Bodies:   DefaultBodies,
		BlackHole: BlackHoleConfig{
			SpawnRadius:   DefaultSpawnRadius,
			Pull:          engine.DefaultSpawnPull,
			HorizonFactor: engine.DefaultHorizonFactor,
			EffectFactor:  engine.DefaultEffectFactor,
			MassScale:     engine.DefaultSpawnMass,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EngineParams converts the config into engine parameters, falling back
// to engine defaults for anything unset.
func (c *Config) EngineParams() (engine.Params, error) {
	p := engine.DefaultParams()
	p.G = c.G
	if c.Speed != 0 {
		p.Speed = c.Speed
	}
	p.Seed = c.Seed
	p.Workers = c.Workers
	if c.BlackHole.Pull != 0 {
		p.SpawnPull = c.BlackHole.Pull
	}
	if c.BlackHole.HorizonFactor != 0 {
		p.HorizonFactor = c.BlackHole.HorizonFactor
	}
	if c.BlackHole.EffectFactor != 0 {
		p.EffectFactor = c.BlackHole.EffectFactor
	}
	if c.BlackHole.MassScale != 0 {
		p.SpawnMassScale = c.BlackHole.MassScale
	}

	if len(c.Dominance) > 0 {
		ranks := make([]body.Kind, 0, len(c.Dominance))
		for _, name := range c.Dominance {
			k, err := body.ParseKind(name)
			if err != nil {
				return engine.Params{}, fmt.Errorf("dominance: %w", err)
			}
			ranks = append(ranks, k)
		}
		p.Dominance = ranks
	}

	return p, p.Validate()
}
