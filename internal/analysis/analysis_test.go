package analysis

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/forecast"
	"github.com/san-kum/gravsim/internal/physics"
)

func sine(n int, dt, period float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 3 + math.Sin(2*math.Pi*float64(i)*dt/period)
	}
	return out
}

func TestPowerSpectrumPeak(t *testing.T) {
	ps := PowerSpectrum(sine(256, 1, 32))
	if len(ps) != 128 {
		t.Fatalf("expected 128 bins, got %d", len(ps))
	}

	peak := 0
	for k := range ps {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if peak != 8 {
		t.Errorf("expected peak at bin 8, got %d", peak)
	}
	if ps[0] > 1e-9 {
		t.Errorf("mean should be removed, DC bin %g", ps[0])
	}
}

func TestDominantPeriod(t *testing.T) {
	tests := []struct {
		name   string
		data   []float64
		dt     float64
		want   float64
		wantOK bool
	}{
		{"whole cycles", sine(200, 0.1, 2), 0.1, 2, true},
		{"odd length", sine(150, 0.1, 3), 0.1, 3, true},
		{"flat", make([]float64, 64), 0.1, 0, false},
		{"too short", []float64{1}, 0.1, 0, false},
		{"bad dt", sine(64, 0.1, 2), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, ok := DominantPeriod(tt.data, tt.dt)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("period = %f, want %f", got, tt.want)
			}
		})
	}
}

func circle(n int, dt, period, radius float64, center mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, n)
	for i := range out {
		s, c := math.Sincos(2 * math.Pi * float64(i) * dt / period)
		out[i] = center.Add(mgl64.Vec3{radius * c, 0, radius * s})
	}
	return out
}

func TestOrbitalPeriod(t *testing.T) {
	center := mgl64.Vec3{5, 1, -3}
	got, ok := OrbitalPeriod(circle(400, 0.05, 5, 10, center), center, 0.05)
	if !ok {
		t.Fatal("expected a period")
	}
	if math.Abs(got-5) > 1e-6 {
		t.Errorf("period = %f, want 5", got)
	}

	if _, ok := OrbitalPeriod(circle(3, 0.05, 5, 10, center), center, 0.05); ok {
		t.Error("three points should not yield a period")
	}
}

func TestApsides(t *testing.T) {
	points := []mgl64.Vec3{{2, 0, 0}, {0, 0, 4}, {-6, 0, 0}, {0, 0, -4}}
	peri, apo := Apsides(points, mgl64.Vec3{})
	if peri != 2 || apo != 6 {
		t.Errorf("apsides = %f, %f", peri, apo)
	}
	if e := Eccentricity(peri, apo); e != 0.5 {
		t.Errorf("eccentricity = %f, want 0.5", e)
	}

	if peri, apo := Apsides(nil, mgl64.Vec3{}); peri != 0 || apo != 0 {
		t.Error("empty trajectory should have zero apsides")
	}
	if Eccentricity(0, 0) != 0 {
		t.Error("degenerate eccentricity should be zero")
	}
}

func TestSeparationExponent(t *testing.T) {
	const (
		d0     = 1e-3
		dt     = 0.1
		lambda = 0.7
	)

	a := make([]mgl64.Vec3, 50)
	b := make([]mgl64.Vec3, 50)
	for i := range a {
		tm := float64(i+1) * dt
		a[i] = mgl64.Vec3{tm, 0, 0}
		b[i] = a[i].Add(mgl64.Vec3{d0 * math.Exp(lambda*tm), 0, 0})
	}

	if got := SeparationExponent(a, b, d0, dt); math.Abs(got-lambda) > 1e-6 {
		t.Errorf("exponent = %f, want %f", got, lambda)
	}
	if got := SeparationExponent(a, a, d0, dt); got != 0 {
		t.Errorf("identical paths should give 0, got %f", got)
	}
	if got := SeparationExponent(nil, b, d0, dt); got != 0 {
		t.Errorf("empty path should give 0, got %f", got)
	}
}

func newBody(pos, vel mgl64.Vec3, mass, radius float64) body.Body {
	return body.New(pos, vel, mass, radius, colorful.Color{R: 1, G: 1, B: 1})
}

func TestDivergenceFreeBody(t *testing.T) {
	reg := body.NewRegistry()
	id := reg.Insert(newBody(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1, 0.1))

	f := forecast.New(physics.NewEngine(1, 0.01), 100, 2)
	got, err := Divergence(context.Background(), f, reg, id, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got) > 1e-6 {
		t.Errorf("free bodies should not diverge, got %g", got)
	}

	b, _ := reg.Get(id)
	if b.Position != (mgl64.Vec3{}) {
		t.Error("registry must not be modified")
	}

	if _, err := Divergence(context.Background(), f, reg, 42, 1e-3); err == nil {
		t.Error("expected error for unknown body")
	}
}

func TestSpeedSweep(t *testing.T) {
	reg := body.NewRegistry()
	reg.Insert(newBody(mgl64.Vec3{}, mgl64.Vec3{}, 100, 1))

	f := forecast.New(physics.NewEngine(1, 0.01), 1000, 2)
	f.MaxDistance = 50

	probe := newBody(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 0, 1}, 0.01, 0.2)
	points, err := SpeedSweep(context.Background(), f, reg, probe, mgl64.Vec3{}, 0.5, 6, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	want := []Outcome{Collided, Bound, Escaped}
	for i, pt := range points {
		if pt.Outcome != want[i] {
			t.Errorf("speed %.2f: outcome %s, want %s", pt.Speed, pt.Outcome, want[i])
		}
	}
	if math.Abs(points[1].Speed-3.25) > 1e-12 {
		t.Errorf("unexpected middle speed %f", points[1].Speed)
	}
	if points[1].Peri <= 1 || points[1].Apo >= 50 {
		t.Errorf("bound orbit apsides out of range: %f, %f", points[1].Peri, points[1].Apo)
	}
	if reg.Len() != 1 {
		t.Error("sweep must not modify the registry")
	}
}

func TestSpeedSweepProbeFromRegistry(t *testing.T) {
	reg := body.NewRegistry()
	reg.Insert(newBody(mgl64.Vec3{}, mgl64.Vec3{}, 100, 1))
	id := reg.Insert(newBody(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 0, 1}, 0.01, 0.2))
	probe, _ := reg.Get(id)

	f := forecast.New(physics.NewEngine(1, 0.01), 1000, 2)
	f.MaxDistance = 50

	points, err := SpeedSweep(context.Background(), f, reg, *probe, mgl64.Vec3{}, 0.5, 6, 3)
	if err != nil {
		t.Fatal(err)
	}

	want := []Outcome{Collided, Bound, Escaped}
	for i, pt := range points {
		if pt.Outcome != want[i] {
			t.Errorf("speed %.2f: outcome %s, want %s", pt.Speed, pt.Outcome, want[i])
		}
	}
	if points[1].Peri <= 1 || points[1].Apo >= 50 {
		t.Errorf("launch from the body's own position should orbit, got apsides %f, %f", points[1].Peri, points[1].Apo)
	}
	if reg.Len() != 2 || !reg.Contains(id) {
		t.Error("sweep must not modify the registry")
	}
}

func TestOrbitToASCII(t *testing.T) {
	if OrbitToASCII(nil, 40, 20) != "" {
		t.Error("expected empty plot for no tracks")
	}

	track := circle(100, 0.1, 10, 5, mgl64.Vec3{})
	out := OrbitToASCII([]Track{{Points: track}}, 40, 20)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
	if !strings.ContainsRune(out, '@') || !strings.ContainsRune(out, '•') {
		t.Error("expected track glyphs and end marker")
	}
	if !strings.ContainsRune(out, '┼') {
		t.Error("expected axes to cross inside a centred orbit")
	}
	if strings.ContainsRune(out, 'X') {
		t.Error("open track should not get a merge marker")
	}
}

func TestOrbitToASCIIMarksMerge(t *testing.T) {
	tracks := []Track{
		{Points: circle(100, 0.1, 10, 5, mgl64.Vec3{})},
		{Points: []mgl64.Vec3{{1, 0, 1}, {2, 0, 2}, {3, 0, 3}}, Ended: true},
	}
	out := OrbitToASCII(tracks, 40, 20)

	if strings.Count(out, "X") != 1 {
		t.Errorf("expected one merge marker, got %d", strings.Count(out, "X"))
	}
	if !strings.ContainsRune(out, '@') {
		t.Error("open track should still end with '@'")
	}
}
