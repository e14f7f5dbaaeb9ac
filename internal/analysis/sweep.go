package analysis

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/forecast"
)

// Outcome classifies how a swept launch ends within the forecast horizon.
type Outcome int

const (
	Bound Outcome = iota
	Collided
	Escaped
)

func (o Outcome) String() string {
	switch o {
	case Collided:
		return "collided"
	case Escaped:
		return "escaped"
	}
	return "bound"
}

// SweepPoint is one launch speed and what its forecast looked like.
type SweepPoint struct {
	Speed   float64
	Peri    float64
	Apo     float64
	Outcome Outcome
}

// SpeedSweep launches copies of probe at evenly spaced speeds between
// minSpeed and maxSpeed along its current direction of motion (or +Z when
// it is at rest) and records the apsides of each forecast around center.
// When probe is itself in reg, the launched copies stand in for it rather
// than starting on top of it. Forecasts run in parallel.
func SpeedSweep(
	ctx context.Context,
	f *forecast.Forecaster,
	reg *body.Registry,
	probe body.Body,
	center mgl64.Vec3,
	minSpeed, maxSpeed float64,
	steps int,
) ([]SweepPoint, error) {
	if steps <= 1 {
		steps = 2
	}
	step := (maxSpeed - minSpeed) / float64(steps-1)

	dir := mgl64.Vec3{0, 0, 1}
	if probe.Velocity.Len() > 0 {
		dir = probe.Velocity.Normalize()
	}

	probes := make([]body.Body, steps)
	for i := range probes {
		p := probe
		p.ID = body.Unassigned
		p.Velocity = dir.Mul(minSpeed + float64(i)*step)
		probes[i] = p
	}

	base := reg
	if probe.ID != body.Unassigned && reg.Contains(probe.ID) {
		base = reg.Duplicate()
		base.Remove(probe.ID)
	}

	trajs, err := f.ForecastBatch(ctx, base, probes)
	if err != nil {
		return nil, err
	}

	results := make([]SweepPoint, 0, steps)
	for i, traj := range trajs {
		peri, apo := Apsides(traj.Points, center)
		pt := SweepPoint{
			Speed: probes[i].Velocity.Len(),
			Peri:  peri,
			Apo:   apo,
		}
		switch {
		case traj.Escaped:
			pt.Outcome = Escaped
		case traj.Ended:
			pt.Outcome = Collided
		}
		results = append(results, pt)
	}

	return results, nil
}
