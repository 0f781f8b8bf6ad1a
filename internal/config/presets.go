package config

import (
	"sort"

	"github.com/san-kum/rootsim/internal/kepler"
)

func preset(name string, a, e, dt float64, steps int, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Orbit = OrbitConfig{SemiMajorAxis: a, Eccentricity: e}
	cfg.Propagation.Dt = dt
	cfg.Propagation.Steps = steps
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

var Presets = map[string]*Config{
	"default":  preset("default", 1.0, 0.5, 0.01, 1000, nil),
	"circular": preset("circular", 1.0, 0.0, 0.01, 100, nil),
	"earth":    preset("earth", 1.0, 0.0167, 0.001, 1000, nil),
	"mercury":  preset("mercury", 0.387, 0.2056, 0.001, 241, nil),
	"comet": preset("comet", 17.8, 0.967, 0.5, 151, func(c *Config) {
		c.Propagation.Start = kepler.StartWarm
		c.Solver.Analytic = true
	}),
	"bisection": preset("bisection", 1.0, 0.5, 0.01, 1000, func(c *Config) {
		c.Solver.Method = kepler.SolverBisection
		c.Solver.Accuracy = 1e-10
		c.Solver.MaxIterations = 100000
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
