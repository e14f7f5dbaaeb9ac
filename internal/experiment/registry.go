package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

var defaultMetrics = []string{"energy_drift", "momentum_drift", "mass_drift", "body_count"}

type Registry struct {
	scenes  map[string]func() *config.Config
	metrics []string
}

func NewRegistry() *Registry {
	r := &Registry{
		scenes:  make(map[string]func() *config.Config),
		metrics: defaultMetrics,
	}
	for _, name := range config.ListPresets() {
		r.scenes[name] = func() *config.Config { return config.GetPreset(name) }
	}
	return r
}

// Register adds or replaces a named scene.
func (r *Registry) Register(name string, fn func() *config.Config) {
	r.scenes[name] = fn
}

// GetScene resolves name as a YAML file when it names one, and as a
// registered scene otherwise.
func (r *Registry) GetScene(name string) (*config.Config, error) {
	if ext := filepath.Ext(name); ext == ".yaml" || ext == ".yml" {
		if _, err := os.Stat(name); err == nil {
			return config.Load(name)
		}
	}

	fn, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) DefaultMetrics(g float64) []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.metrics {
		m, err := metrics.New(name, g)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}
