// Package physics is the gravity kernel: force model, collision resolution
// and the fixed-step engine.
//
//   - [GravitationalForce], [VelocityDelta], [Displacement]: pure force math
//   - [Resolve], [Combine]: overlap detection and momentum-conserving merges
//   - [Engine]: one semi-implicit Euler step followed by collision resolution
//   - [KineticEnergy], [PotentialEnergy]: conserved quantities for monitoring
//
// Degenerate inputs (coincident bodies, zero mass, zero timestep) produce the
// zero vector instead of an error, so callers never have to special-case
// them.
//
// # Example
//
//	reg := body.NewRegistry()
//	reg.Insert(body.New(mgl64.Vec3{}, mgl64.Vec3{}, 10, 0.5, colorful.Color{R: 1}))
//	eng := physics.NewEngine(1.0, 0.01)
//	if m, ok := eng.Advance(reg); ok {
//	    // m.A and m.B are gone, m.Result replaced them
//	}
package physics
