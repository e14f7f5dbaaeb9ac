package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	DefaultG           = 1.0
	DefaultTimestep    = 0.01
	DefaultSimSpeed    = 20.0
	DefaultDuration    = 10.0
	DefaultSampleEvery = 10
	DefaultPoints      = 10000
	DefaultStride      = 2
	DefaultMaxDistance = 1000.0
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Scene       string           `yaml:"scene"`
	G           float64          `yaml:"g"`
	Timestep    float64          `yaml:"timestep"`
	SimSpeed    float64          `yaml:"sim_speed"`
	Duration    float64          `yaml:"duration"`
	SampleEvery int              `yaml:"sample_every"`
	Seed        int64            `yaml:"seed"`
	Forecast    ForecastConfig   `yaml:"forecast"`
	Bodies      []BodyConfig     `yaml:"bodies,omitempty"`
	Generator   *GeneratorConfig `yaml:"generator,omitempty"`
}

type ForecastConfig struct {
	Points      int     `yaml:"points"`
	Stride      int     `yaml:"stride"`
	MaxDistance float64 `yaml:"max_distance"`
}

type BodyConfig struct {
	Pos    [3]float64 `yaml:"pos,flow"`
	Vel    [3]float64 `yaml:"vel,flow"`
	Mass   float64    `yaml:"mass"`
	Radius float64    `yaml:"radius"`
	Color  string     `yaml:"color,omitempty"`
}

// GeneratorConfig describes procedurally placed bodies added after the
// explicit ones.
type GeneratorConfig struct {
	Kind        string  `yaml:"kind"`
	Count       int     `yaml:"count"`
	Radius      float64 `yaml:"radius"`
	Thickness   float64 `yaml:"thickness"`
	CentralMass float64 `yaml:"central_mass"`
	BodyMass    float64 `yaml:"body_mass"`
	BodyRadius  float64 `yaml:"body_radius"`
}

const (
	GeneratorDisk    = "disk"
	GeneratorCluster = "cluster"
)

func DefaultConfig() *Config {
	return &Config{
		Scene:       "sandbox",
		G:           DefaultG,
		Timestep:    DefaultTimestep,
		SimSpeed:    DefaultSimSpeed,
		Duration:    DefaultDuration,
		SampleEvery: DefaultSampleEvery,
		Forecast: ForecastConfig{
			Points:      DefaultPoints,
			Stride:      DefaultStride,
			MaxDistance: DefaultMaxDistance,
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
	switch {
	case c.G < 0:
		return fmt.Errorf("%w: g must not be negative, got %g", ErrInvalid, c.G)
	case c.Timestep <= 0:
		return fmt.Errorf("%w: timestep must be positive, got %g", ErrInvalid, c.Timestep)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalid, c.Duration)
	case c.SimSpeed < 0:
		return fmt.Errorf("%w: sim_speed must not be negative, got %g", ErrInvalid, c.SimSpeed)
	case c.SampleEvery < 0:
		return fmt.Errorf("%w: sample_every must not be negative, got %d", ErrInvalid, c.SampleEvery)
	case c.Forecast.Points < 0 || c.Forecast.Stride < 0 || c.Forecast.MaxDistance < 0:
		return fmt.Errorf("%w: forecast settings must not be negative", ErrInvalid)
	}

	for i, b := range c.Bodies {
		if b.Mass < 0 || b.Radius < 0 {
			return fmt.Errorf("%w: body %d: mass and radius must not be negative", ErrInvalid, i)
		}
		if b.Color != "" {
			if _, err := colorful.Hex(b.Color); err != nil {
				return fmt.Errorf("%w: body %d: color %q: %v", ErrInvalid, i, b.Color, err)
			}
		}
	}

	if g := c.Generator; g != nil {
		if g.Kind != GeneratorDisk && g.Kind != GeneratorCluster {
			return fmt.Errorf("%w: unknown generator %q", ErrInvalid, g.Kind)
		}
		if g.Count < 0 || g.Radius <= 0 || g.BodyMass < 0 || g.BodyRadius < 0 || g.CentralMass < 0 {
			return fmt.Errorf("%w: generator needs a positive radius and non-negative sizes", ErrInvalid)
		}
	}

	return nil
}

// Clone returns a deep copy so presets can be modified safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	if c.Generator != nil {
		g := *c.Generator
		out.Generator = &g
	}
	return &out
}
