package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/body"
)

// Merge records one resolved collision.
type Merge struct {
	A, B     uint64
	Result   uint64
	Mass     float64
	Position mgl64.Vec3
}

// Resolve merges the first overlapping pair it finds and reports it. Bodies
// with id ignore take no part, which keeps a body that is still being placed
// from being swallowed. At most one merge happens per call; the next step
// picks up whatever overlaps remain.
func Resolve(reg *body.Registry, ignore uint64) (Merge, bool) {
	for _, a := range reg.Bodies() {
		if a.ID == ignore {
			continue
		}

		for o := range reg.BodiesInRadius(a.Position, a.Radius).All() {
			if o.ID == a.ID || o.ID == ignore {
				continue
			}
			if a.SurfaceDistance(*o) >= 0 {
				continue
			}

			merged := Combine(a, *o)
			id := reg.Insert(merged)
			reg.Remove(a.ID)
			reg.Remove(o.ID)

			return Merge{
				A:        a.ID,
				B:        o.ID,
				Result:   id,
				Mass:     merged.Mass,
				Position: merged.Position,
			}, true
		}
	}
	return Merge{}, false
}

// Combine builds the body that replaces a and b after a perfectly inelastic
// collision. The heavier body keeps its position and colour (a wins ties);
// the lighter one tints the colour, from barely at all up to an even blend
// for equal masses.
// The result is unregistered.
func Combine(a, b body.Body) body.Body {
	large, small := a, b
	if b.Mass > a.Mass {
		large, small = b, a
	}

	mass := a.Mass + b.Mass

	var vel mgl64.Vec3
	if mass > 0 {
		vel = a.Momentum().Add(b.Momentum()).Mul(1 / mass)
	} else {
		vel = a.Velocity.Add(b.Velocity).Mul(0.5)
	}

	// the lighter colour carries weight small/large against 1 for the heavier
	tint := 0.0
	if large.Mass > 0 {
		w := small.Mass / large.Mass
		tint = w / (1 + w)
	}

	return body.New(
		large.Position,
		vel,
		mass,
		a.Radius+b.Radius,
		large.Color.BlendRgb(small.Color, tint),
	)
}
