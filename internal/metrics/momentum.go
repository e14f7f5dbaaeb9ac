package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/body"
)

// MomentumDrift tracks the largest absolute change of total linear momentum.
// Gravity and merges both conserve it, so anything above rounding noise
// points at an integration bug.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(reg *body.Registry, t float64) {
	p := reg.Momentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}

// MassDrift is the largest absolute change of total mass.
type MassDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (m *MassDrift) Name() string { return m.name }

func (m *MassDrift) Observe(reg *body.Registry, t float64) {
	mass := reg.TotalMass()
	if m.samples == 0 {
		m.initial = mass
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, math.Abs(mass-m.initial))
}

func (m *MassDrift) Value() float64 { return m.maxDrift }

func (m *MassDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// BodyCount reports the number of bodies at the last observation.
type BodyCount struct {
	count int
}

func NewBodyCount() *BodyCount { return &BodyCount{} }

func (b *BodyCount) Name() string { return "body_count" }

func (b *BodyCount) Observe(reg *body.Registry, t float64) { b.count = reg.Len() }

func (b *BodyCount) Value() float64 { return float64(b.count) }

func (b *BodyCount) Reset() { b.count = 0 }
