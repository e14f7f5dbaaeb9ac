package forecast

import "github.com/go-gl/mathgl/mgl64"

// Trajectory is the sampled path of one tracked body.
type Trajectory struct {
	// ID is the tracked id inside the forecast copy. For a body that was not
	// in the registry this id exists only in that copy.
	ID     uint64
	Points []mgl64.Vec3
	// Ended is set when the body was merged away before the horizon.
	Ended bool
	// Escaped is set when sampling stopped because the body moved further
	// than the forecaster's MaxDistance from where it started.
	Escaped bool
}

func (t *Trajectory) Len() int { return len(t.Points) }

// Last returns the final sampled point; for an ended trajectory this is the
// last known position before the predicted collision.
func (t *Trajectory) Last() (mgl64.Vec3, bool) {
	if len(t.Points) == 0 {
		return mgl64.Vec3{}, false
	}
	return t.Points[len(t.Points)-1], true
}

// Length is the summed distance between consecutive points.
func (t *Trajectory) Length() float64 {
	total := 0.0
	for i := 1; i < len(t.Points); i++ {
		total += t.Points[i].Sub(t.Points[i-1]).Len()
	}
	return total
}
