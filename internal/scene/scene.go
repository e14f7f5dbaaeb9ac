// Package scene turns a config.Config into a populated body registry.
//
// Explicit bodies are inserted first, in file order, so they receive the
// lowest ids. Generated bodies follow and are reproducible for a given seed.
package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/exp/rand"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
)

func Build(cfg *config.Config) (*body.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := body.NewRegistry()
	for i, bc := range cfg.Bodies {
		b, err := fromConfig(bc)
		if err != nil {
			return nil, fmt.Errorf("scene %s: body %d: %w", cfg.Scene, i, err)
		}
		reg.Insert(b)
	}

	if cfg.Generator != nil {
		rnd := rand.New(rand.NewSource(uint64(cfg.Seed)))
		switch cfg.Generator.Kind {
		case config.GeneratorDisk:
			Disk(reg, rnd, cfg.G, *cfg.Generator)
		case config.GeneratorCluster:
			Cluster(reg, rnd, *cfg.Generator)
		}
	}

	return reg, nil
}

func fromConfig(bc config.BodyConfig) (body.Body, error) {
	col := colorful.Color{R: 1, G: 1, B: 1}
	if bc.Color != "" {
		c, err := colorful.Hex(bc.Color)
		if err != nil {
			return body.Body{}, err
		}
		col = c
	}
	return body.New(
		mgl64.Vec3(bc.Pos),
		mgl64.Vec3(bc.Vel),
		bc.Mass,
		bc.Radius,
		col,
	), nil
}

// Disk places a central mass at the origin and scatters bodies uniformly over
// a disk in the XZ plane, each on a circular orbit around the centre.
func Disk(reg *body.Registry, rnd *rand.Rand, g float64, gc config.GeneratorConfig) {
	center := mgl64.Vec3{}
	inner := 0.0
	if gc.CentralMass > 0 {
		radius := math.Max(gc.BodyRadius*4, 1)
		reg.Insert(body.New(center, mgl64.Vec3{}, gc.CentralMass, radius, colorful.Color{R: 1, G: 0.87, B: 0.33}))
		inner = radius * 2
	}

	for range gc.Count {
		x, z := sampleDisk(rnd, inner, gc.Radius)
		pos := mgl64.Vec3{x, rnd.NormFloat64() * gc.Thickness, z}
		reg.Insert(body.New(pos, orbitalVelocity(pos, center, g, gc.CentralMass), gc.BodyMass, gc.BodyRadius, randomColor(rnd)))
	}
}

// Cluster scatters bodies at rest in a gaussian blob around the origin.
func Cluster(reg *body.Registry, rnd *rand.Rand, gc config.GeneratorConfig) {
	sigma := gc.Radius / 2
	for range gc.Count {
		pos := mgl64.Vec3{rnd.NormFloat64() * sigma, rnd.NormFloat64() * sigma, rnd.NormFloat64() * sigma}
		mass := math.Abs(gc.BodyMass * (1 + 0.2*rnd.NormFloat64()))
		reg.Insert(body.New(pos, mgl64.Vec3{}, mass, gc.BodyRadius, randomColor(rnd)))
	}
}

// sampleDisk picks a point uniformly over the annulus [inner, outer].
func sampleDisk(rnd *rand.Rand, inner, outer float64) (x, z float64) {
	if inner > outer {
		inner = outer
	}
	u := rnd.Float64()
	r := math.Sqrt(inner*inner + u*(outer*outer-inner*inner))
	theta := 2 * math.Pi * rnd.Float64()
	sin, cos := math.Sincos(theta)
	return r * cos, r * sin
}

// orbitalVelocity returns the circular orbit velocity around center, in the
// plane perpendicular to the Y axis.
func orbitalVelocity(pos, center mgl64.Vec3, g, mass float64) mgl64.Vec3 {
	d := pos.Sub(center)
	d[1] = 0
	r := d.Len()
	if r == 0 || mass <= 0 {
		return mgl64.Vec3{}
	}
	v := math.Sqrt(g * mass / r)
	return mgl64.Vec3{0, 1, 0}.Cross(d).Normalize().Mul(v)
}

func randomColor(rnd *rand.Rand) colorful.Color {
	return colorful.Hsv(rnd.Float64()*360, 0.5+0.4*rnd.Float64(), 0.95).Clamped()
}
