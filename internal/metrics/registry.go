package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/sim"
)

// Factory builds a fresh metric for a run with gravitational constant g.
type Factory func(g float64) sim.Metric

var factories = map[string]Factory{
	"energy":         func(g float64) sim.Metric { return NewEnergy(g) },
	"energy_drift":   func(g float64) sim.Metric { return NewEnergyDrift(g) },
	"momentum_drift": func(float64) sim.Metric { return NewMomentumDrift() },
	"mass_drift":     func(float64) sim.Metric { return NewMassDrift() },
	"body_count":     func(float64) sim.Metric { return NewBodyCount() },
	"stability":      func(float64) sim.Metric { return NewStability(DefaultStabilityRadius) },
}

const DefaultStabilityRadius = 1000.0

func New(name string, g float64) (sim.Metric, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return f(g), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
