// Package carbon implements the four-reservoir carbon cycle and
// temperature model. It advances atmospheric, surface-ocean, deep-ocean,
// and land carbon stocks one simulated year at a time; callers keep a
// second instance as the business-as-usual twin for counterfactual
// reporting.
package carbon

import "github.com/gcrsim/gcrsim/internal/fluxguard"

// GtCPerPPM is the project convention for converting atmospheric carbon
// mass to parts-per-million: 1 ppm ≈ 2.13 GtC.
const GtCPerPPM = 2.13

// TCRE is the transient climate response to cumulative emissions,
// °C per 1000 GtC.
const TCRE = 0.45

// PreIndustrialPPM and PreIndustrialGtC anchor the land-flux logarithm and
// the ppm<->GtC conversion.
const (
	PreIndustrialPPM = 280.0
	PreIndustrialGtC = PreIndustrialPPM * GtCPerPPM // ≈ 596.4 GtC
)

// State is CarbonCycleState: the four reservoirs, temperature anomaly,
// cumulative emissions, and remaining vulnerable permafrost carbon.
type State struct {
	AtmGtC           float64 // C_atm
	OceanSurfaceGtC  float64 // C_ocean_s
	OceanDeepGtC     float64 // C_ocean_d
	LandGtC          float64 // C_land
	TemperatureAnom  float64 // T, °C above pre-industrial
	CumulativeEmGtC  float64 // E_cum
	PermafrostGtC    float64 // vulnerable permafrost remaining

	// RemainingHumanEmissionsGtC is the running counter conventional
	// mitigation is capped against, so a tick can never mitigate more than
	// gross human emissions.
	RemainingHumanEmissionsGtC float64

	yearsSinceStart int // drives T_committed in Step
}

// NewState builds a State from an initial atmospheric ppm reading, holding
// ocean/land/permafrost stocks at their calibrated pre-industrial-adjacent
// defaults. ppm->GtC uses the project convention.
func NewState(initialPPM float64) State {
	return State{
		AtmGtC:          initialPPM * GtCPerPPM,
		OceanSurfaceGtC: 900.0,
		OceanDeepGtC:    37000.0,
		LandGtC:         2000.0,
		TemperatureAnom: 0,
		CumulativeEmGtC: 0,
		PermafrostGtC:   1400.0,
	}
}

// PPM reports the atmospheric stock in parts-per-million.
func (s State) PPM() float64 { return s.AtmGtC / GtCPerPPM }

// clipNonNegative guards every reservoir against going negative, returning
// whether any guard fired (recorded by the caller as a diagnostic).
func (s *State) clipNonNegative() bool {
	clipped := false
	for _, v := range []*float64{&s.AtmGtC, &s.OceanSurfaceGtC, &s.OceanDeepGtC, &s.LandGtC, &s.PermafrostGtC} {
		nv, did := fluxguard.NonNegative(*v)
		*v = nv
		clipped = clipped || did
	}
	return clipped
}
