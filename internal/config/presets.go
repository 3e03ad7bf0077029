package config

import "sort"

var Presets = map[string]*Config{
	"unit": {
		Name:   "unit",
		Mesh:   MeshConfig{Cells: 5, Length: 1.0},
		Medium: MediumConfig{Rho: 1.0, C: 1.0},
		Solver: SolverConfig{Nev: 12, Tolerance: 1e-8},
		Target: Complex{Re: 3.0},
	},
	"fine": {
		Name:   "fine",
		Mesh:   MeshConfig{Cells: 40, Length: 1.0},
		Medium: MediumConfig{Rho: 1.0, C: 1.0},
		Solver: SolverConfig{Nev: 20, Tolerance: 1e-8, Shift: Complex{Re: 6.0}},
		Target: Complex{Re: 6.0},
	},
	"air": {
		Name:   "air",
		Mesh:   MeshConfig{Cells: 30, Length: 0.5},
		Medium: MediumConfig{Rho: 1.2, C: 343.0},
		Solver: SolverConfig{Nev: 10, Tolerance: 1e-8, Shift: Complex{Re: 2155}},
		Target: Complex{Re: 2155},
	},
	"damped": {
		Name:   "damped",
		Mesh:   MeshConfig{Cells: 20, Length: 1.0},
		Medium: MediumConfig{Rho: 1.0, C: 1.0, Damping: 0.5},
		Solver: SolverConfig{Nev: 10, Tolerance: 1e-8, Shift: Complex{Re: 3.0, Im: 0.25}},
		Target: Complex{Re: 3.0, Im: 0.25},
	},
}

// GetPreset returns a copy of the named preset, nil when unknown.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
