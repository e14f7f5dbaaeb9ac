package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
)

func newSceneCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	sceneFlags(cmd)
	forecastFlags(cmd)
	return cmd
}

func TestLoadSceneKeepsPresetWhenFlagsUnset(t *testing.T) {
	cmd := newSceneCmd()
	cfg, err := loadScene(cmd, experiment.NewRegistry(), "binary")
	if err != nil {
		t.Fatal(err)
	}
	want := config.GetPreset("binary")
	if cfg.G != want.G || cfg.Timestep != want.Timestep || cfg.Forecast != want.Forecast {
		t.Errorf("unset flags changed the preset: %+v", cfg)
	}
}

func TestLoadSceneAppliesChangedFlags(t *testing.T) {
	cmd := newSceneCmd()
	for name, value := range map[string]string{"g": "2.5", "dt": "0.005", "points": "300", "stride": "3"} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := loadScene(cmd, experiment.NewRegistry(), "collision")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.G != 2.5 || cfg.Timestep != 0.005 {
		t.Errorf("g=%v dt=%v", cfg.G, cfg.Timestep)
	}
	if cfg.Forecast.Points != 300 || cfg.Forecast.Stride != 3 {
		t.Errorf("forecast = %+v", cfg.Forecast)
	}
	if cfg.Forecast.MaxDistance != config.DefaultMaxDistance {
		t.Errorf("max distance = %v", cfg.Forecast.MaxDistance)
	}
}

func TestLoadSceneRejectsInvalidOverride(t *testing.T) {
	cmd := newSceneCmd()
	if err := cmd.Flags().Set("dt", "-1"); err != nil {
		t.Fatal(err)
	}
	_, err := loadScene(cmd, experiment.NewRegistry(), "collision")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadSceneUnknown(t *testing.T) {
	if _, err := loadScene(newSceneCmd(), experiment.NewRegistry(), "nope"); err == nil {
		t.Error("expected error for unknown scene")
	}
}

func TestPrimary(t *testing.T) {
	white := colorful.Color{R: 1, G: 1, B: 1}
	reg := body.NewRegistry()
	sun := reg.Insert(body.New(mgl64.Vec3{1, 0, 2}, mgl64.Vec3{}, 100, 1, white))
	planet := reg.Insert(body.New(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{}, 1, 0.1, white))

	if got := primary(reg, planet); got != (mgl64.Vec3{1, 0, 2}) {
		t.Errorf("primary of planet = %v", got)
	}
	if got := primary(reg, sun); got != (mgl64.Vec3{10, 0, 0}) {
		t.Errorf("primary of sun = %v", got)
	}

	lone := body.NewRegistry()
	id := lone.Insert(body.Default())
	if got := primary(lone, id); got != (mgl64.Vec3{}) {
		t.Errorf("lone body primary = %v", got)
	}
}

func TestRegistryOf(t *testing.T) {
	bodies := []body.Body{body.Default(), body.Default()}
	bodies[1].Mass = 3
	reg := registryOf(bodies)
	if reg.Len() != 2 || reg.TotalMass() != 4 {
		t.Errorf("len=%d mass=%v", reg.Len(), reg.TotalMass())
	}
}

func TestSelectMetrics(t *testing.T) {
	registry := experiment.NewRegistry()
	defer func() { metricList = nil }()

	metricList = nil
	ms, err := selectMetrics(registry, 1)
	if err != nil || len(ms) != len(registry.DefaultMetrics(1)) {
		t.Fatalf("defaults: %d metrics, err %v", len(ms), err)
	}

	metricList = []string{"energy", "body_count"}
	ms, err = selectMetrics(registry, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != 2 || ms[1].Name() != "body_count" {
		t.Errorf("got %d metrics", len(ms))
	}

	metricList = []string{"bogus"}
	if _, err := selectMetrics(registry, 1); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestWriteSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.svg")
	paths := []export.Path{{ID: 1, Points: []mgl64.Vec3{{0, 0, 0}, {1, 0, 1}}, Ended: true}}
	if err := writeSVG(path, []body.Body{body.Default()}, paths); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "</svg>\n") || !strings.Contains(string(data), `class="collision"`) {
		t.Error("svg file incomplete")
	}

	if err := writeSVG(filepath.Join(t.TempDir(), "missing", "scene.svg"), nil, nil); err == nil {
		t.Error("expected error for an unwritable path")
	}
}
