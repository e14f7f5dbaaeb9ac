package analysis

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrbitalPeriod estimates the period of a trajectory circling center from
// the dominant frequency of its X and Z offsets. The series must span at
// least one full orbit for the result to mean anything.
func OrbitalPeriod(points []mgl64.Vec3, center mgl64.Vec3, dt float64) (float64, bool) {
	if len(points) < 4 {
		return 0, false
	}

	xs := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		d := p.Sub(center)
		xs[i], zs[i] = d[0], d[2]
	}

	px, powX, okX := DominantPeriod(xs, dt)
	pz, powZ, okZ := DominantPeriod(zs, dt)
	switch {
	case okX && (!okZ || powX >= powZ):
		return px, true
	case okZ:
		return pz, true
	}
	return 0, false
}

// Apsides returns the smallest and largest distance from center along the
// trajectory.
func Apsides(points []mgl64.Vec3, center mgl64.Vec3) (peri, apo float64) {
	if len(points) == 0 {
		return 0, 0
	}
	peri = math.Inf(1)
	for _, p := range points {
		d := p.Sub(center).Len()
		peri = math.Min(peri, d)
		apo = math.Max(apo, d)
	}
	return peri, apo
}

func Eccentricity(peri, apo float64) float64 {
	if apo+peri == 0 {
		return 0
	}
	return (apo - peri) / (apo + peri)
}
