package experiment

import (
	"context"
	"runtime"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/forecast"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scene"
	"github.com/san-kum/gravsim/internal/sim"
)

// Experiment is one configured scene ready to be run, forecast or viewed.
type Experiment struct {
	cfg    *config.Config
	bodies *body.Registry
	driver *sim.Driver
}

func New(cfg *config.Config) (*Experiment, error) {
	bodies, err := scene.Build(cfg)
	if err != nil {
		return nil, err
	}

	eng := physics.NewEngine(cfg.G, cfg.Timestep)
	eng.Workers = runtime.GOMAXPROCS(0)
	driver := sim.NewDriver(eng)
	driver.Speed = cfg.SimSpeed

	return &Experiment{
		cfg:    cfg,
		bodies: bodies,
		driver: driver,
	}, nil
}

func (e *Experiment) Setup(metrics []sim.Metric) {
	for _, m := range metrics {
		e.driver.AddMetric(m)
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	simCfg := sim.Config{
		Duration:      e.cfg.Duration,
		SampleEvery:   e.cfg.SampleEvery,
		ValidateState: true,
	}

	return e.driver.Run(ctx, e.bodies, simCfg)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Bodies returns the live registry. Run and the driver advance it in place.
func (e *Experiment) Bodies() *body.Registry { return e.bodies }

// Driver returns the underlying driver for adding observers.
func (e *Experiment) Driver() *sim.Driver { return e.driver }

func (e *Experiment) Engine() physics.Engine { return e.driver.Engine }

// Forecaster returns a forecaster using the experiment's engine and
// forecast settings. A zero max distance turns escape detection off.
func (e *Experiment) Forecaster() *forecast.Forecaster {
	f := forecast.New(e.driver.Engine, e.cfg.Forecast.Points, e.cfg.Forecast.Stride)
	f.MaxDistance = e.cfg.Forecast.MaxDistance
	return f
}
