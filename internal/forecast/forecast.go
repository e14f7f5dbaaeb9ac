package forecast

import (
	"context"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/physics"
)

const (
	DefaultPoints      = 10000
	DefaultStride      = 2
	DefaultMaxDistance = 1000.0
)

type Forecaster struct {
	Engine physics.Engine
	// Points is the number of samples requested per trajectory.
	Points int
	// Stride is the number of engine steps between samples; < 1 means 1.
	Stride int
	// MaxDistance stops sampling a body once it is this far from its start.
	// Zero disables the check.
	MaxDistance float64
}

func New(eng physics.Engine, points, stride int) *Forecaster {
	return &Forecaster{
		Engine:      eng,
		Points:      points,
		Stride:      stride,
		MaxDistance: DefaultMaxDistance,
	}
}

func (f *Forecaster) stride() int {
	if f.Stride < 1 {
		return 1
	}
	return f.Stride
}

func (f *Forecaster) horizon() int {
	if f.Points <= 0 {
		return 0
	}
	return f.Points * f.stride()
}

// SampleInterval is the simulated time between consecutive trajectory points.
func (f *Forecaster) SampleInterval() float64 {
	return float64(f.stride()) * f.Engine.Timestep
}

func (f *Forecaster) escaped(start, pos mgl64.Vec3) bool {
	return f.MaxDistance > 0 && pos.Sub(start).Len() > f.MaxDistance
}

// Forecast follows tracked through a copy of reg. If tracked is not in reg
// (a body still being placed, say) it is added to the copy first.
//
// On cancellation the points gathered so far are returned with ctx.Err().
func (f *Forecaster) Forecast(ctx context.Context, tracked body.Body, reg *body.Registry) (*Trajectory, error) {
	world := reg.Duplicate()

	id := tracked.ID
	if !world.Contains(id) {
		id = world.Insert(tracked)
	}
	start, _ := world.Get(id)
	origin := start.Position

	traj := &Trajectory{ID: id, Points: make([]mgl64.Vec3, 0, max(f.Points, 0))}
	stride := f.stride()

	for step := 1; step <= f.horizon(); step++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}

		f.Engine.Advance(world)

		if step%stride != 0 {
			continue
		}

		b, ok := world.Get(id)
		if !ok {
			traj.Ended = true
			return traj, nil
		}
		traj.Points = append(traj.Points, b.Position)

		if f.escaped(origin, b.Position) {
			traj.Escaped = true
			return traj, nil
		}
	}

	return traj, nil
}

// ForecastAll follows every body of reg through one shared copy, so the
// predicted paths are consistent with each other. Bodies that merge away
// stop being sampled and come back with Ended set.
func (f *Forecaster) ForecastAll(ctx context.Context, reg *body.Registry) (map[uint64]*Trajectory, error) {
	world := reg.Duplicate()
	ids := world.IDs()

	out := make(map[uint64]*Trajectory, len(ids))
	origins := make(map[uint64]mgl64.Vec3, len(ids))
	for b := range world.All() {
		out[b.ID] = &Trajectory{ID: b.ID, Points: make([]mgl64.Vec3, 0, max(f.Points, 0))}
		origins[b.ID] = b.Position
	}

	active := len(ids)
	stride := f.stride()

	for step := 1; step <= f.horizon() && active > 0; step++ {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		f.Engine.Advance(world)

		if step%stride != 0 {
			continue
		}

		for _, id := range ids {
			traj := out[id]
			if traj.Ended || traj.Escaped {
				continue
			}

			b, ok := world.Get(id)
			if !ok {
				traj.Ended = true
				active--
				continue
			}
			traj.Points = append(traj.Points, b.Position)

			if f.escaped(origins[id], b.Position) {
				traj.Escaped = true
				active--
			}
		}
	}

	return out, nil
}

// ForecastBatch runs one independent Forecast per tracked body in parallel.
// Results line up with tracked. reg must not be modified until it returns.
func (f *Forecaster) ForecastBatch(ctx context.Context, reg *body.Registry, tracked []body.Body) ([]*Trajectory, error) {
	out := make([]*Trajectory, len(tracked))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range tracked {
		g.Go(func() error {
			traj, err := f.Forecast(gctx, tracked[i], reg)
			out[i] = traj
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
