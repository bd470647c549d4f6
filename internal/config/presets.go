package config

var Presets = map[string]map[string]*Config{
	"solar": {
		"default": {
			Scenario: "solar", Dt: 0.01, Duration: 60.0, G: 0.1,
		},
		"fast": {
			Scenario: "solar", Dt: 0.01, Duration: 60.0, G: 0.1, Speed: 5.0,
		},
	},
	"binary": {
		"default": {
			Scenario: "binary", Dt: 0.005, Duration: 30.0, G: 0.1,
		},
		"tight": {
			Scenario: "binary", Dt: 0.001, Duration: 30.0, G: 0.5,
		},
	},
	"cluster": {
		"sparse": {
			Scenario: "cluster", Dt: 0.01, Duration: 30.0, G: 0.1, Bodies: 30, Seed: 42,
		},
		"dense": {
			Scenario: "cluster", Dt: 0.005, Duration: 30.0, G: 0.1, Bodies: 120, Seed: 42,
		},
	},
	"collapse": {
		"default": {
			Scenario: "collapse", Dt: 0.005, Duration: 20.0, G: 0.1, Bodies: 60, Seed: 7,
		},
	},
}

func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	return names
}
