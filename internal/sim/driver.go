package sim

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/physics"
)

// Driver turns variable frame times into whole engine steps.
type Driver struct {
	Engine physics.Engine
	// Speed scales frame time before it is accumulated; <= 0 means 1.
	Speed float64

	accumulator float64
	steps       int
	time        float64
	metrics     []Metric
	observers   []Observer
}

func NewDriver(eng physics.Engine) *Driver {
	return &Driver{
		Engine:    eng,
		Speed:     1,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Tick adds frameDt to the accumulator and steps the engine while more than
// one timestep is banked. It returns the number of steps taken. Catch-up is
// unbounded; callers that can stall should pass the frame time through
// ClampDelta first.
func (d *Driver) Tick(reg *body.Registry, frameDt float64) int {
	if d.Engine.Timestep <= 0 {
		return 0
	}

	speed := d.Speed
	if speed <= 0 {
		speed = 1
	}
	d.accumulator += frameDt * speed

	n := 0
	for d.accumulator > d.Engine.Timestep {
		d.Step(reg)
		d.accumulator -= d.Engine.Timestep
		n++
	}
	return n
}

// Step advances exactly one timestep regardless of the accumulator.
func (d *Driver) Step(reg *body.Registry) (physics.Merge, bool) {
	m, merged := d.Engine.Advance(reg)
	d.steps++
	d.time += d.Engine.Timestep

	if merged {
		ev := MergeEvent{Step: d.steps, Time: d.time, Merge: m}
		for _, o := range d.observers {
			if mo, ok := o.(MergeObserver); ok {
				mo.OnMerge(ev)
			}
		}
	}
	for _, mt := range d.metrics {
		mt.Observe(reg, d.time)
	}
	for _, o := range d.observers {
		o.OnStep(d.steps, d.time, reg)
	}
	return m, merged
}

// Pending is the banked time not yet consumed by a step.
func (d *Driver) Pending() float64 { return d.accumulator }

func (d *Driver) StepsTaken() int { return d.steps }

// Elapsed is simulated time, steps times timestep.
func (d *Driver) Elapsed() float64 { return d.time }

func (d *Driver) Reset() {
	d.accumulator = 0
	d.steps = 0
	d.time = 0
	for _, m := range d.metrics {
		m.Reset()
	}
}

// ClampDelta caps a frame time so a stalled caller cannot trigger an
// unbounded catch-up in Tick. Negative frame times are treated as zero.
func ClampDelta(dt, max float64) float64 {
	if dt < 0 {
		return 0
	}
	if max > 0 && dt > max {
		return max
	}
	return dt
}
