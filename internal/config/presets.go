package config

import "sort"

// Presets are ready-made scenes. Use GetPreset to obtain a modifiable copy.
var Presets = map[string]*Config{
	"sandbox": withBodies("sandbox",
		BodyConfig{Mass: 1, Radius: 1, Color: "#ffffff"},
	),
	"collision": withBodies("collision",
		BodyConfig{Pos: [3]float64{0, 0, 0}, Mass: 10, Radius: 0.5, Color: "#ff8800"},
		BodyConfig{Pos: [3]float64{5, 0, 0}, Mass: 10, Radius: 0.5, Color: "#0088ff"},
	),
	"binary": withBodies("binary",
		BodyConfig{Pos: [3]float64{-5, 0, 0}, Vel: [3]float64{0, 0, -1}, Mass: 20, Radius: 0.5, Color: "#ffcc00"},
		BodyConfig{Pos: [3]float64{5, 0, 0}, Vel: [3]float64{0, 0, 1}, Mass: 20, Radius: 0.5, Color: "#ff4466"},
	),
	"solar": withBodies("solar",
		BodyConfig{Mass: 1000, Radius: 3, Color: "#ffdd55"},
		BodyConfig{Pos: [3]float64{20, 0, 0}, Vel: [3]float64{0, 0, 7.0711}, Mass: 1, Radius: 0.4, Color: "#aaaaaa"},
		BodyConfig{Pos: [3]float64{35, 0, 0}, Vel: [3]float64{0, 0, 5.3452}, Mass: 2, Radius: 0.6, Color: "#ddaa66"},
		BodyConfig{Pos: [3]float64{50, 0, 0}, Vel: [3]float64{0, 0, 4.4721}, Mass: 3, Radius: 0.7, Color: "#3377ff"},
		BodyConfig{Pos: [3]float64{80, 0, 0}, Vel: [3]float64{0, 0, 3.5355}, Mass: 5, Radius: 1.2, Color: "#cc5533"},
	),
	"disk": withGenerator("disk", &GeneratorConfig{
		Kind:        GeneratorDisk,
		Count:       40,
		Radius:      60,
		Thickness:   0.5,
		CentralMass: 1000,
		BodyMass:    0.5,
		BodyRadius:  0.3,
	}),
	"cluster": withGenerator("cluster", &GeneratorConfig{
		Kind:       GeneratorCluster,
		Count:      30,
		Radius:     25,
		BodyMass:   5,
		BodyRadius: 0.5,
	}),
}

func withBodies(name string, bodies ...BodyConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scene = name
	cfg.Bodies = bodies
	return cfg
}

func withGenerator(name string, g *GeneratorConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scene = name
	cfg.Seed = 42
	cfg.Generator = g
	return cfg
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
