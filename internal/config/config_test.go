package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pglowack/astrolab/internal/body"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	p, err := cfg.EngineParams()
	if err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
	if p.G != DefaultG {
		t.Errorf("expected G %v, got %v", DefaultG, p.G)
	}
	if p.Speed != DefaultSpeed {
		t.Errorf("expected speed %v, got %v", DefaultSpeed, p.Speed)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = "cluster"
	cfg.Bodies = 77
	cfg.Dominance = []string{"star", "blackhole", "planet"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Scenario != "cluster" || loaded.Bodies != 77 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}

	p, err := loaded.EngineParams()
	if err != nil {
		t.Fatalf("engine params: %v", err)
	}
	if p.Dominance[0] != body.Star {
		t.Errorf("expected star ranked first, got %v", p.Dominance[0])
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("scenario: binary\ndt: 0.002\nblack_hole:\n  pull: 3.5\n")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scenario != "binary" {
		t.Errorf("expected scenario binary, got %q", cfg.Scenario)
	}
	if cfg.Dt != 0.002 {
		t.Errorf("expected dt 0.002, got %v", cfg.Dt)
	}
	if cfg.BlackHole.Pull != 3.5 {
		t.Errorf("expected pull 3.5, got %v", cfg.BlackHole.Pull)
	}
	// Unset fields keep their defaults.
	if cfg.G != DefaultG {
		t.Errorf("expected default G, got %v", cfg.G)
	}
}

func TestEngineParamsRejectsUnknownDominance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dominance = []string{"star", "comet"}
	if _, err := cfg.EngineParams(); err == nil {
		t.Error("expected error for unknown kind in dominance")
	}
}

func TestPresets(t *testing.T) {
	cfg := GetPreset("cluster", "dense")
	if cfg == nil {
		t.Fatal("expected preset cluster/dense")
	}
	if cfg.Bodies != 120 {
		t.Errorf("expected 120 bodies, got %d", cfg.Bodies)
	}

	if GetPreset("solar", "nope") != nil {
		t.Error("expected nil for unknown preset")
	}
	if GetPreset("nope", "default") != nil {
		t.Error("expected nil for unknown scenario")
	}

	names := ListPresets("binary")
	if len(names) != 2 {
		t.Errorf("expected 2 binary presets, got %d", len(names))
	}
}
