package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/forecast"
)

// SeparationExponent estimates the growth rate λ of the distance between two
// trajectories that started d0 apart, from λ ≈ (1/t) ln(|δx(t)|/d0) fitted
// over every common sample. dt is the time between samples.
func SeparationExponent(a, b []mgl64.Vec3, d0, dt float64) float64 {
	n := min(len(a), len(b))
	if n == 0 || d0 <= 0 || dt <= 0 {
		return 0
	}

	// least squares slope through the origin of ln(sep/d0) against t
	var num, den float64
	for i := range n {
		sep := a[i].Sub(b[i]).Len()
		if sep <= 0 {
			continue
		}
		t := float64(i+1) * dt
		num += t * math.Log(sep/d0)
		den += t * t
	}

	if den == 0 {
		return 0
	}
	return num / den
}

// Divergence forecasts body id twice, once as-is and once nudged by
// perturbation along X, and returns the SeparationExponent of the two
// paths. A clearly positive value marks a chaotic encounter.
func Divergence(ctx context.Context, f *forecast.Forecaster, reg *body.Registry, id uint64, perturbation float64) (float64, error) {
	tracked, ok := reg.Get(id)
	if !ok {
		return 0, fmt.Errorf("body %d not found", id)
	}

	nudged := reg.Duplicate()
	pb, _ := nudged.Get(id)
	pb.Translate(mgl64.Vec3{perturbation, 0, 0})

	nominal, err := f.Forecast(ctx, *tracked, reg)
	if err != nil {
		return 0, err
	}
	perturbed, err := f.Forecast(ctx, *pb, nudged)
	if err != nil {
		return 0, err
	}

	return SeparationExponent(nominal.Points, perturbed.Points, perturbation, f.SampleInterval()), nil
}
