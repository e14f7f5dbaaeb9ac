package forecast

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/physics"
)

func benchRegistry(n int) *body.Registry {
	reg := body.NewRegistry()
	reg.Insert(body.New(mgl64.Vec3{}, mgl64.Vec3{}, 1000, 2, colorful.Color{R: 1}))
	for i := 1; i < n; i++ {
		r := float64(10 + 3*i)
		reg.Insert(body.New(mgl64.Vec3{r, 0, 0}, mgl64.Vec3{0, 0, 10}, 1, 0.2, colorful.Color{B: 1}))
	}
	return reg
}

func BenchmarkForecast(b *testing.B) {
	reg := benchRegistry(8)
	f := New(physics.DefaultEngine(), 1000, DefaultStride)
	ghost := body.New(mgl64.Vec3{0, 0, 30}, mgl64.Vec3{5, 0, 0}, 1, 0.2, colorful.Color{G: 1})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.Forecast(context.Background(), ghost, reg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkForecastAll(b *testing.B) {
	reg := benchRegistry(8)
	f := New(physics.DefaultEngine(), 1000, DefaultStride)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.ForecastAll(context.Background(), reg); err != nil {
			b.Fatal(err)
		}
	}
}
