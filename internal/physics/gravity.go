package physics

import "github.com/go-gl/mathgl/mgl64"

// GravitationalForce returns the force on body A from body B, where d points
// from A to B. Coincident bodies exert no force on each other.
func GravitationalForce(ma, mb, g float64, d mgl64.Vec3) mgl64.Vec3 {
	r2 := d.Dot(d)
	if r2 == 0 {
		return mgl64.Vec3{}
	}
	return d.Normalize().Mul(g * ma * mb / r2)
}

// VelocityDelta converts a force applied for dt into a change of velocity.
func VelocityDelta(f mgl64.Vec3, mass, dt float64) mgl64.Vec3 {
	if mass == 0 || dt == 0 {
		return mgl64.Vec3{}
	}
	return f.Mul(dt / mass)
}

// Displacement is f/m*dt². The stepper integrates through velocity instead;
// this is kept for comparison against the closed form.
func Displacement(f mgl64.Vec3, mass, dt float64) mgl64.Vec3 {
	if mass == 0 || dt == 0 {
		return mgl64.Vec3{}
	}
	return f.Mul(dt * dt / mass)
}
