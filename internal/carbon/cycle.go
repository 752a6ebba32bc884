package carbon

import (
	"math"

	"github.com/gcrsim/gcrsim/internal/fluxguard"
)

// Config holds the calibration constants for one CarbonCycle instance.
// Both the GCR-driving cycle and its BAU twin share the same Config so the
// sink model is identical between them.
type Config struct {
	KOcean float64 // k_o, ocean uptake rate
	KMix   float64 // k_mix, deep-ocean mixing rate
	KLand  float64 // k_l, land-flux log coefficient

	BAUPeakYear      int     // year (1-indexed from run start) BAU emissions peak
	BaseEmissionsGtC float64 // gross human emissions flow at run start, GtC/yr
}

// DefaultConfig returns the calibration the named scenario presets build on.
func DefaultConfig() Config {
	return Config{
		KOcean:           0.30,
		KMix:             0.01,
		KLand:            0.8,
		BAUPeakYear:      6,
		BaseEmissionsGtC: 11.0,
	}
}

// Cycle wraps a State with the model's calibration constants and exposes
// Step. It is pure and numerical — it never fails.
type Cycle struct {
	Config Config
	State  State
}

// NewCycle creates a Cycle from an initial atmospheric ppm reading.
func NewCycle(cfg Config, initialPPM float64) *Cycle {
	return &Cycle{Config: cfg, State: NewState(initialPPM)}
}

// Delta is the per-tick diagnostic and flow output of Step.
type Delta struct {
	NetAnthropogenicGtC float64
	OceanUptakeGtC      float64
	LandUptakeGtC       float64
	PermafrostGtC       float64
	FireEmissionsGtC    float64
	AirborneFraction    float64
	Clipped             bool
}

// beta is the temperature-dependent ocean-uptake efficiency factor.
func beta(t float64) float64 { return 1 - 0.03*(t-1.0) }

// gamma is the carbonate-saturation dampening factor on ocean uptake.
func gamma(atmGtC float64) float64 {
	return 1 / (1 + 0.0015*(atmGtC-590))
}

// Step advances the carbon cycle by one year given the year's flows, in
// GtC/year: net anthropogenic flux, ocean and land uptake, feedbacks,
// stock updates, then temperature.
func (c *Cycle) Step(bauEmissions, cdrRemoval, convMitigation, avdefGtC, reversalGtC float64) Delta {
	s := &c.State
	s.yearsSinceStart++

	// Step 1: net anthropogenic flux. Conventional mitigation is capped at
	// remaining human emissions so it can never over-mitigate.
	grossHumanEmissions := bauEmissions - avdefGtC
	if grossHumanEmissions < 0 {
		grossHumanEmissions = 0
	}
	s.RemainingHumanEmissionsGtC = grossHumanEmissions
	cappedMitigation := convMitigation
	if cappedMitigation > grossHumanEmissions {
		cappedMitigation = grossHumanEmissions
	}
	if cappedMitigation < 0 {
		cappedMitigation = 0
	}
	netE := bauEmissions - cappedMitigation - avdefGtC

	// Step 2: ocean uptake.
	fOcean := c.Config.KOcean * netE * beta(s.TemperatureAnom) * gamma(s.AtmGtC)
	oceanSurfaceEq := 900.0
	fMix := c.Config.KMix * (s.OceanSurfaceGtC - oceanSurfaceEq)

	// Step 3: land net flux.
	ratio := s.AtmGtC / PreIndustrialGtC
	if ratio < fluxguard.Epsilon {
		ratio = fluxguard.Epsilon
	}
	fResp := 2.0 * math.Pow(2.0, (s.TemperatureAnom-1.0)/10.0)
	fireOvershoot := s.TemperatureAnom - 1.5
	if fireOvershoot < 0 {
		fireOvershoot = 0
	}
	fFire := 0.5 * (1 + 0.3*fireOvershoot*fireOvershoot)
	fLUC := 0.0 // avoided-deforestation already reduces E upstream; no separate land-use term.
	fLand := c.Config.KLand*math.Log(ratio) - fResp - fFire - fLUC

	// Step 4: permafrost feedback.
	fPermafrost := 0.0
	if s.TemperatureAnom >= 1.5 {
		fPermafrost = 0.005 * (s.TemperatureAnom - 1.5) * s.PermafrostGtC
		if fPermafrost > s.PermafrostGtC {
			fPermafrost = s.PermafrostGtC
		}
		s.PermafrostGtC -= fPermafrost
	}

	// Step 8 (applied before the stock update): invariant guard — total
	// uptake may not exceed available flux.
	available := netE + fPermafrost + reversalGtC + cdrRemoval
	clipped := false
	if fOcean+fLand > available && available >= 0 {
		scale := 0.0
		if fOcean+fLand > fluxguard.Epsilon {
			scale = available / (fOcean + fLand)
		}
		fOcean *= scale
		fLand *= scale
		clipped = true
	}

	// Step 5: atmospheric stock update.
	atmChange := netE - fOcean - fLand + fPermafrost - cdrRemoval + reversalGtC
	s.AtmGtC += atmChange
	if nv, did := fluxguard.NonNegative(s.AtmGtC); did {
		s.AtmGtC = nv
		clipped = true
	}

	// Step 6: transfer ocean flows.
	s.OceanSurfaceGtC += fOcean - fMix
	s.OceanDeepGtC += fMix
	s.LandGtC += fLand

	// Step 7: cumulative emissions and temperature.
	s.CumulativeEmGtC += netE + fPermafrost + reversalGtC - cdrRemoval
	tCommitted := 0.5 * (1 - math.Exp(-float64(s.yearsSinceStart)/30.0))
	s.TemperatureAnom = (TCRE/1000.0)*s.CumulativeEmGtC + tCommitted

	if s.clipNonNegative() {
		clipped = true
	}

	airborne := 0.0
	if netE > fluxguard.Epsilon {
		airborne = fluxguard.Clamp(atmChange/netE, 0, 1)
	}

	return Delta{
		NetAnthropogenicGtC: netE,
		OceanUptakeGtC:      fOcean,
		LandUptakeGtC:       fLand,
		PermafrostGtC:       fPermafrost,
		FireEmissionsGtC:    fFire,
		AirborneFraction:    airborne,
		Clipped:             clipped,
	}
}

// BAUEmissions returns the business-as-usual gross emissions flow (GtC/yr)
// for the given simulation year (1-indexed): 1%/year growth to the peak
// year, a plateau to year 60, then a slow decline.
func BAUEmissions(year int, peakYear int, baseGtC float64) float64 {
	if peakYear < 1 {
		peakYear = 1
	}
	switch {
	case year <= peakYear:
		return baseGtC * math.Pow(1.01, float64(year-1))
	case year <= 60:
		peak := baseGtC * math.Pow(1.01, float64(peakYear-1))
		return peak
	default:
		peak := baseGtC * math.Pow(1.01, float64(peakYear-1))
		return peak * math.Pow(0.998, float64(year-60))
	}
}
