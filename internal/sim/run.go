package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/physics"
)

// Run steps reg for cfg.Duration of simulated time, recording frames, merges
// and metrics. The registry is advanced in place.
func (d *Driver) Run(ctx context.Context, reg *body.Registry, cfg Config) (*Result, error) {
	if err := d.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / d.Engine.Timestep))
	result := &Result{
		Frames:  make([]Frame, 0, d.frameCapacity(steps, cfg.SampleEvery)),
		Merges:  make([]MergeEvent, 0),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	rec := &mergeRecorder{result: result}
	d.observers = append(d.observers, rec)
	defer d.removeObserver(rec)

	start := d.steps
	result.Frames = append(result.Frames, d.frame(reg))
	initialEnergy := physics.TotalEnergy(reg, d.Engine.G)

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		d.Step(reg)
		result.StepsTaken++

		if cfg.ValidateState {
			if id, ok := firstInvalid(reg); ok {
				result.Errors = append(result.Errors, &SimulationError{
					Step:    d.steps,
					Time:    d.time,
					Body:    id,
					Wrapped: ErrInvalidState,
				})
				result.Frames = append(result.Frames, d.frame(reg))
				break
			}
		}

		if (cfg.SampleEvery > 0 && (d.steps-start)%cfg.SampleEvery == 0) || i == steps {
			result.Frames = append(result.Frames, d.frame(reg))
		}
	}

	finalEnergy := physics.TotalEnergy(reg, d.Engine.G)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (d *Driver) validateConfig(cfg Config) error {
	if d.Engine.Timestep <= 0 {
		return fmt.Errorf("%w: timestep must be positive, got %f", ErrInvalidConfig, d.Engine.Timestep)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	return nil
}

func (d *Driver) frame(reg *body.Registry) Frame {
	return Frame{Step: d.steps, Time: d.time, Bodies: reg.Bodies()}
}

func (d *Driver) frameCapacity(steps, every int) int {
	if every <= 0 {
		return 2
	}
	return steps/every + 2
}

func (d *Driver) removeObserver(o Observer) {
	for i, obs := range d.observers {
		if obs == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

type mergeRecorder struct {
	result *Result
}

func (r *mergeRecorder) OnStep(int, float64, *body.Registry) {}

func (r *mergeRecorder) OnMerge(ev MergeEvent) {
	r.result.Merges = append(r.result.Merges, ev)
}

func firstInvalid(reg *body.Registry) (uint64, bool) {
	for b := range reg.All() {
		if !finite(b.Position) || !finite(b.Velocity) {
			return b.ID, true
		}
	}
	return 0, false
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
