package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rootsim/internal/kepler"
	"github.com/san-kum/rootsim/internal/rootfind"
)

const (
	DefaultSemiMajorAxis = 1.0
	DefaultEccentricity  = 0.5
	DefaultDt            = 0.01
	DefaultSteps         = 1000
	DefaultAccuracy      = 1e-9
	DefaultMaxIterations = 1000
)

type Config struct {
	Name        string            `yaml:"name"`
	Orbit       OrbitConfig       `yaml:"orbit"`
	Propagation PropagationConfig `yaml:"propagation"`
	Solver      SolverConfig      `yaml:"solver"`
}

type OrbitConfig struct {
	SemiMajorAxis float64 `yaml:"semi_major_axis"`
	Eccentricity  float64 `yaml:"eccentricity"`
}

type PropagationConfig struct {
	Dt    float64 `yaml:"dt"`
	Steps int     `yaml:"steps"`
	Start string  `yaml:"start"`
	Guess float64 `yaml:"guess"`
}

type SolverConfig struct {
	Method        string  `yaml:"method"`
	Accuracy      float64 `yaml:"accuracy"`
	MaxIterations int     `yaml:"max_iterations"`
	Step          float64 `yaml:"step"`
	Analytic      bool    `yaml:"analytic"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		Orbit: OrbitConfig{
			SemiMajorAxis: DefaultSemiMajorAxis,
			Eccentricity:  DefaultEccentricity,
		},
		Propagation: PropagationConfig{
			Dt:    DefaultDt,
			Steps: DefaultSteps,
			Start: kepler.StartMean,
		},
		Solver: SolverConfig{
			Method:        kepler.SolverNewton,
			Accuracy:      DefaultAccuracy,
			MaxIterations: DefaultMaxIterations,
			Step:          rootfind.DefaultStep,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

func (c *Config) Validate() error {
	if err := c.Orbit.ToKepler().Validate(); err != nil {
		return err
	}
	if c.Propagation.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Propagation.Dt)
	}
	if c.Propagation.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Propagation.Steps)
	}
	if c.Solver.Accuracy <= 0 {
		return fmt.Errorf("accuracy must be positive, got %g", c.Solver.Accuracy)
	}
	if c.Solver.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1, got %d", c.Solver.MaxIterations)
	}
	switch c.Solver.Method {
	case kepler.SolverNewton, kepler.SolverBisection:
	default:
		return fmt.Errorf("unknown solver method: %s", c.Solver.Method)
	}
	return nil
}

func (o OrbitConfig) ToKepler() kepler.Orbit {
	return kepler.Orbit{SemiMajorAxis: o.SemiMajorAxis, Eccentricity: o.Eccentricity}
}

// ToKepler builds the propagation settings for kepler.Propagator.Run.
func (c *Config) ToKepler() kepler.Config {
	start := c.Propagation.Start
	if start == "" {
		start = kepler.StartMean
	}
	return kepler.Config{
		Dt:            c.Propagation.Dt,
		Steps:         c.Propagation.Steps,
		Solver:        c.Solver.Method,
		Start:         start,
		Guess:         c.Propagation.Guess,
		Accuracy:      c.Solver.Accuracy,
		MaxIterations: c.Solver.MaxIterations,
		Step:          c.Solver.Step,
		Analytic:      c.Solver.Analytic,
	}
}
