package physics

import "github.com/san-kum/gravsim/internal/body"

func KineticEnergy(reg *body.Registry) float64 {
	ke := 0.0
	for b := range reg.All() {
		ke += 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
	}
	return ke
}

// PotentialEnergy sums -G·mi·mj/r over distinct pairs. Coincident pairs are
// skipped, matching the zero force they exert.
func PotentialEnergy(reg *body.Registry, g float64) float64 {
	bodies := reg.Bodies()
	pe := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[j].Position.Sub(bodies[i].Position).Len()
			if r == 0 {
				continue
			}
			pe -= g * bodies[i].Mass * bodies[j].Mass / r
		}
	}
	return pe
}

func TotalEnergy(reg *body.Registry, g float64) float64 {
	return KineticEnergy(reg) + PotentialEnergy(reg, g)
}
