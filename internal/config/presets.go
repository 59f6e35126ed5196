package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"silk": preset(func(c *Config) {
		c.Cloth.Stiffness = 220
		c.Cloth.Damping = 2
		c.Physics.Gravity = 18
	}),
	// canvas sits close to the stability limit of the integrator at max_dt
	"canvas": preset(func(c *Config) {
		c.Cloth.Stiffness = 500
		c.Cloth.Damping = 5.5
		c.Physics.WindAmplitude = 1
	}),
	"flag": preset(func(c *Config) {
		c.Physics.WindAmplitude = 6
		c.Physics.GustAmplitude = 4
		c.Physics.GustFrequency = 0.8
	}),
	"large": preset(func(c *Config) {
		c.Cloth.Width = 20
		c.Cloth.Height = 16
	}),
}

func preset(modify func(*Config)) *Config {
	cfg := DefaultConfig()
	modify(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
