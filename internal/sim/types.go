package sim

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/physics"
)

type Metric interface {
	Name() string
	Observe(reg *body.Registry, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, t float64, reg *body.Registry)
}

// MergeObserver is implemented by observers that also want merge events.
type MergeObserver interface {
	OnMerge(ev MergeEvent)
}

type MergeEvent struct {
	Step int
	Time float64
	physics.Merge
}

type Config struct {
	Duration float64
	// SampleEvery records a frame every n steps. Zero records only the
	// first and last frame.
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Duration:      10.0,
		SampleEvery:   10,
		ValidateState: true,
	}
}

type Frame struct {
	Step   int
	Time   float64
	Bodies []body.Body
}

type Result struct {
	Frames      []Frame
	Merges      []MergeEvent
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}
