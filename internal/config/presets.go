package config

import "sort"

// Presets are burst sections layered over DefaultConfig.
var Presets = map[string]BurstConfig{
	"gold": {
		Thickness: 0.1, Color: "#ffd700", Metalness: 0.9, Roughness: 0.25,
		BurstPower: 0.4, Gravity: 0.015,
	},
	"silver": {
		Thickness: 0.08, Color: "#c0c0c0", Metalness: 1.0, Roughness: 0.15,
		BurstPower: 0.4, Gravity: 0.015,
	},
	"copper": {
		Thickness: 0.12, Color: "#b87333", Metalness: 0.8, Roughness: 0.4,
		BurstPower: 0.35, Gravity: 0.018,
	},
	"heavy": {
		Thickness: 0.2, Color: "#ffd700", Metalness: 0.9, Roughness: 0.3,
		BurstPower: 0.3, Gravity: 0.03,
	},
	"floaty": {
		Thickness: 0.06, Color: "#fff4b0", Metalness: 0.7, Roughness: 0.2,
		BurstPower: 0.5, Gravity: 0.005,
	},
}

// GetPreset returns a full config for the named preset, or nil.
func GetPreset(name string) *Config {
	b, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Burst = b
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
