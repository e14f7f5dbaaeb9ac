package body

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Unassigned is the id carried by bodies that have not been inserted yet.
const Unassigned uint64 = 0

type Body struct {
	ID       uint64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64
	Radius   float64
	Color    colorful.Color
}

// New returns an unregistered body.
func New(pos, vel mgl64.Vec3, mass, radius float64, color colorful.Color) Body {
	return Body{
		Position: pos,
		Velocity: vel,
		Mass:     mass,
		Radius:   radius,
		Color:    color,
	}
}

// Default mirrors the sandbox's starting body: unit mass and radius at the origin.
func Default() Body {
	return New(mgl64.Vec3{}, mgl64.Vec3{}, 1, 1, colorful.Color{R: 1, G: 1, B: 1})
}

func (b *Body) Translate(d mgl64.Vec3) *Body {
	b.Position = b.Position.Add(d)
	return b
}

func (b *Body) AddVelocity(dv mgl64.Vec3) *Body {
	b.Velocity = b.Velocity.Add(dv)
	return b
}

// Integrate moves the body along its current velocity for dt.
func (b *Body) Integrate(dt float64) *Body {
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	return b
}

func (b Body) Momentum() mgl64.Vec3 {
	return b.Velocity.Mul(b.Mass)
}

// SurfaceDistance is the gap between the two spheres; negative when they overlap.
func (b Body) SurfaceDistance(o Body) float64 {
	return b.Position.Sub(o.Position).Len() - (b.Radius + o.Radius)
}

func (b Body) String() string {
	return fmt.Sprintf("#%d m=%.4f r=%.3f p=[%.2f, %.2f, %.2f] v=[%.2f, %.2f, %.2f]",
		b.ID, b.Mass, b.Radius,
		b.Position[0], b.Position[1], b.Position[2],
		b.Velocity[0], b.Velocity[1], b.Velocity[2])
}
