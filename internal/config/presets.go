package config

import (
	"sort"
	"time"
)

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"cinematic": with(func(c *Config) {
		c.TimeScale = 0.5
		c.Camera.DampingFactor = 0.02
		c.Camera.RotateSpeed = 0.1
		c.Focus.Duration = 5 * time.Second
		c.Focus.DistanceFactor = 10
	}),
	"inspect": with(func(c *Config) {
		c.TimeScale = 0.1
		c.Camera.Damping = false
		c.Camera.MinDistance = 0.5
		c.Focus.Duration = 500 * time.Millisecond
		c.Focus.DistanceFactor = 4
		c.Focus.MinDistance = 3
	}),
	"overview": with(func(c *Config) {
		c.TimeScale = 5
		c.Camera.Position = []float64{0, 900, 900}
		c.Camera.FOV = 60
	}),
}

func with(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
