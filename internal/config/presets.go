package config

import "sort"

// Presets adjust DefaultConfig for common viewing setups.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"smoke": func(c *Config) {
		c.Advection.Seed = "seeding_points"
		c.Advection.Reinject = true
		c.Advection.StepSize = 1.0
	},
	"lic": func(c *Config) {
		c.Advection.Seed = "white_noise"
		c.Advection.Reinject = true
		c.Advection.Density = 40
		c.Advection.StepSize = 1.0
	},
	"noise": func(c *Config) {
		c.Advection.Seed = "white_noise"
		c.Advection.Reinject = false
		c.Advection.StepSize = 0.5
	},
	"grid": func(c *Config) {
		c.Advection.Seed = "grid"
		c.Advection.Reinject = false
		c.Advection.TimePassing = false
	},
	"critical": func(c *Config) {
		c.Advection.Seed = "critical_points"
		c.Advection.Reinject = true
		c.View.Overlay = true
	},
	"synthetic": func(c *Config) {
		c.Field.Synthetic = true
		c.Field.TCells = 200
		c.Advection.Seed = "simplex_noise"
	},
	"small": func(c *Config) {
		c.Screen.Width = 320
		c.Screen.Height = 240
		c.Seeds.Size = 128
		c.Advection.Density = 10
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
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
