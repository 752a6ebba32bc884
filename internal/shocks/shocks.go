// Package shocks generates a seeded, reproducible exogenous shock schedule:
// smooth ambient inflation noise, scripted step shocks, and BAU-peak-year
// jitter across Monte-Carlo members. Simplex noise keeps the ambient
// schedule smooth year-over-year while staying fully determined by the seed.
package shocks

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Generator produces deterministic per-year shock values from independent
// noise layers keyed off the run seed, so the same seed always produces
// the same shock schedule regardless of how the rest of the tick consumes
// randomness.
type Generator struct {
	inflationNoise opensimplex.Noise
	peakJitterNoise opensimplex.Noise
}

// NewGenerator builds a shock generator for the given run seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		inflationNoise:  opensimplex.NewNormalized(seed + 1000),
		peakJitterNoise: opensimplex.NewNormalized(seed + 1001),
	}
}

// AmbientInflationShock returns a smooth, small exogenous inflation nudge
// for the given simulation year, in [-0.005, 0.005] (half a percentage
// point either way), used in scenarios that model ambient macro noise
// rather than an explicit step shock.
func (g *Generator) AmbientInflationShock(year int) float64 {
	n := g.inflationNoise.Eval2(float64(year)*0.3, 0) // 0..1
	return (n - 0.5) * 0.01
}

// BAUPeakYearJitter returns a deterministic per-ensemble-member jitter (in
// years, roughly [-1, 1]) for the BAU emissions peak-year calibration
// constant. RunEnsemble does not apply it: its members differ only in
// their RNG seed.
func (g *Generator) BAUPeakYearJitter(memberIndex int) float64 {
	n := g.peakJitterNoise.Eval2(float64(memberIndex)*1.7, 0) // 0..1
	return (n - 0.5) * 2.0
}

// StepShock is a deterministic, scenario-authored discrete inflation shock
// applied at an exact year. It is not randomized; it models a
// scripted scenario event rather than ambient noise.
type StepShock struct {
	Year            int
	InflationDeltaPP float64 // percentage points, e.g. 0.01 for +1%
}

// Apply returns the inflation delta a step shock contributes on the given
// year: the full delta from the shock's year onward, zero before it. Step
// shocks persist once triggered (the
// scenario models a permanent regime change at that year, matching "annual
// +1% inflation shock" rather than a one-tick blip).
func (s StepShock) Apply(year int) float64 {
	if year >= s.Year {
		return s.InflationDeltaPP
	}
	return 0
}
