package main

import (
	"math"

	"github.com/pthm-cable/petri/config"
)

// ParamSpec defines a single searchable dosing parameter.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// Regimen is a decoded parameter vector: a train of identical doses
// aimed at one point.
type Regimen struct {
	Strength float64
	Radius   float64
	Doses    int
	Spacing  float64 // Seconds between doses
}

// ParamVector holds the searchable dosing parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard dosing search space. Bounds follow
// the control panel slider ranges.
func NewParamVector(base *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "strength", Min: 0.05, Max: 1, Default: base.Antibiotic.DefaultStrength},
			{Name: "radius", Min: 10, Max: 200, Default: base.Antibiotic.DefaultRadius},
			{Name: "doses", Min: 1, Max: 6, Default: 3},
			{Name: "spacing", Min: 0.1, Max: 4, Default: 1},
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
	return pv.Clamp(v)
}

// Normalize converts raw parameter values to the [0,1] range.
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

// Decode clamps raw values and maps them onto a Regimen.
func (pv *ParamVector) Decode(raw []float64) Regimen {
	c := pv.Clamp(raw)
	return Regimen{
		Strength: c[0],
		Radius:   c[1],
		Doses:    int(math.Round(c[2])),
		Spacing:  c[3],
	}
}

// Cost is the total drug used by the regimen, relative to one full
// strength dose at the largest radius.
func (r Regimen) Cost() float64 {
	area := r.Radius / 200
	return float64(r.Doses) * r.Strength * area * area
}

// Schedule expands the regimen into doses starting at start, aimed at (x, y).
func (r Regimen) Schedule(start, x, y float64) []config.DoseConfig {
	doses := make([]config.DoseConfig, r.Doses)
	for i := range doses {
		doses[i] = config.DoseConfig{
			At:       start + float64(i)*r.Spacing,
			X:        x,
			Y:        y,
			Strength: r.Strength,
			Radius:   r.Radius,
		}
	}
	return doses
}

// End returns the time of the last dose.
func (r Regimen) End(start float64) float64 {
	return start + float64(r.Doses-1)*r.Spacing
}

// ApplyToConfig replaces the config's dosing schedule with the regimen.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64, start float64) {
	x, y := seedCentre(cfg)
	sched := pv.Decode(values).Schedule(start, x, y)
	cfg.Antibiotic.Schedule = sched
	cfg.Derived.Schedule = append([]config.DoseConfig(nil), sched...)
}

// seedCentre returns the count-weighted centre of the seeded batches.
func seedCentre(cfg *config.Config) (x, y float64) {
	var n int
	for _, s := range cfg.Derived.Seeds {
		x += float64(s.X) * float64(s.Count)
		y += float64(s.Y) * float64(s.Count)
		n += s.Count
	}
	if n == 0 {
		return 0, 0
	}
	return x / float64(n), y / float64(n)
}
