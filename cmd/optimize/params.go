package main

import (
	"github.com/pthm-cable/biome/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Defaults are taken from base so the search starts where the user is.
func NewParamVector(base *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "max_plants", Path: "plants.max", Min: 200, Max: 2000, Default: float64(base.Plants.Max)},
			{Name: "initial_plants", Path: "plants.initial", Min: 50, Max: 1000, Default: float64(base.Plants.Initial)},
			{Name: "regen_per_second", Path: "plants.regen_per_second", Min: 2, Max: 40, Default: base.Plants.RegenPerSecond},
			{Name: "mutation_rate", Path: "mutation.rate", Min: 0, Max: 0.3, Default: base.Mutation.Rate},
			{Name: "initial_herbivores", Path: "population.initial_herbivores", Min: 10, Max: 200, Default: float64(base.Population.InitialHerbivores)},
			{Name: "initial_carnivores", Path: "population.initial_carnivores", Min: 2, Max: 80, Default: float64(base.Population.InitialCarnivores)},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Plants.Max = int(c[0])
	cfg.Plants.Initial = min(int(c[1]), cfg.Plants.Max)
	cfg.Plants.RegenPerSecond = c[2]
	cfg.Mutation.Rate = c[3]
	cfg.Population.InitialHerbivores = int(c[4])
	cfg.Population.InitialCarnivores = int(c[5])
}
