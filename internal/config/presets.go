package config

import "sort"

var Presets = map[string]SolverConfig{
	"standard": DefaultSolver(),
	"precise": {
		InitialGuess: 1.0, Step: 1e-8, Tolerance: 1e-13, MaxIterations: 500,
		MinDerivative: 1e-14, Precision: 6,
	},
	"quick": {
		InitialGuess: 1.0, Step: 1e-6, Tolerance: 1e-6, MaxIterations: 25,
		MinDerivative: 1e-12, Precision: 3,
	},
	// large roots such as orbital radii and stellar luminosities
	"astronomical": {
		InitialGuess: 1e6, Step: 1e-7, Tolerance: 1e-6, MaxIterations: 1000,
		MinDerivative: 1e-30, RelativeStep: true, Precision: 3,
	},
}

func GetPreset(name string) *SolverConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
