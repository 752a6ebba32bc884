// Package policy implements the CEA controller: the brake factor, the
// price-floor revision cadence, the stability ratio and warning flag, the
// net-zero latch, and the climate-risk multiplier consumed by the
// project-advancement phase.
package policy

import (
	"math"

	"github.com/gcrsim/gcrsim/internal/fluxguard"
)

// State is the CEA's mutable per-run state.
type State struct {
	Warning               bool
	BrakeFactor           float64
	YearsSinceFloorRev    int
	LockedFloorGrowthRate float64
	NetZeroEverReached    bool

	co2DeclineStreak int
	co2Peak          float64
	co2PeakSet       bool
	CDRBuildoutStop  bool
}

// NewState returns a controller with brake factor at full issuance and no
// floor-growth rate locked yet.
func NewState() *State {
	return &State{BrakeFactor: 1.0}
}

// InflationAdjustment implements ρ = max(π,0)/0.02 and the piecewise adj(ρ)
// curve.
func InflationAdjustment(realizedInflation float64) (rho, adj float64) {
	rho = math.Max(realizedInflation, 0) / 0.02
	switch {
	case rho < 0.5:
		adj = 2.0
	case rho < 2.0:
		adj = 2.0 - 1.0*(rho-0.5)
	default:
		adj = math.Max(0.3, 0.5-0.05*(rho-2.0))
	}
	return rho, adj
}

// HeavyBrakeFloor implements the ρ-dependent floor of the brake factor
func HeavyBrakeFloor(rho float64) float64 {
	switch {
	case rho < 0.5:
		return 0.30
	case rho <= 2.0:
		frac := (rho - 0.5) / 1.5
		return 0.30 + frac*(0.055-0.30)
	default:
		return math.Max(0.01, 0.05-0.01*(rho-2.0))
	}
}

// RatioBrake implements the stability-ratio piecewise brake curve:
// flat at 1.0 below brake_start, linear to 0.5 through brake_mid,
// quadratic to the heavy-brake floor through brake_heavy, and clamped at
// the floor above.
func RatioBrake(r, brakeStart, brakeMid, brakeHeavy, heavyFloor float64) float64 {
	switch {
	case r < brakeStart:
		return 1.0
	case r < brakeMid:
		frac := (r - brakeStart) / (brakeMid - brakeStart)
		return 1.0 + frac*(0.5-1.0)
	case r < brakeHeavy:
		frac := (r - brakeMid) / (brakeHeavy - brakeMid)
		return 0.5 + frac*frac*(heavyFloor-0.5)
	default:
		return heavyFloor
	}
}

// BudgetBrake implements b(u).
func BudgetBrake(utilization float64) float64 {
	if utilization < 0.9 {
		return 1.0
	}
	return math.Max(0.25, 1.0-(utilization-0.9)/0.1)
}

// InflationPenalty implements p(ρ).
func InflationPenalty(rho float64) float64 {
	if rho > 1.0 {
		return math.Max(0.2, 1.0-0.4*(rho-1.0))
	}
	return 1.0
}

// BrakeInputs carries the per-tick signals UpdateBrake consumes.
type BrakeInputs struct {
	StabilityRatio      float64
	RealizedInflation   float64
	BudgetUtilization   float64
	VeryLowInflationTgt bool // widens thresholds by 2.0x
	VeryHighInflationTgt bool // contracts thresholds to 0.3x
}

// UpdateBrake recomputes the stability warning flag and brake factor for
// this tick.
func (s *State) UpdateBrake(in BrakeInputs) {
	rho, adj := InflationAdjustment(in.RealizedInflation)

	thresholdScale := 1.0
	if in.VeryLowInflationTgt {
		thresholdScale = 2.0
	} else if in.VeryHighInflationTgt {
		thresholdScale = 0.3
	}

	warningThreshold := 8 * adj * thresholdScale
	brakeStart := 10 * adj * thresholdScale
	brakeMid := 12 * adj * thresholdScale
	brakeHeavy := 15 * adj * thresholdScale

	s.Warning = in.StabilityRatio >= warningThreshold

	heavyFloor := HeavyBrakeFloor(rho)
	ratioBrake := RatioBrake(in.StabilityRatio, brakeStart, brakeMid, brakeHeavy, heavyFloor)
	budgetBrake := BudgetBrake(in.BudgetUtilization)
	inflationPenalty := InflationPenalty(rho)

	beta := ratioBrake * budgetBrake * inflationPenalty
	s.BrakeFactor = fluxguard.Clamp(beta, heavyFloor, 1.0)
}

// StabilityRatio implements stability_ratio = (supply*price)/max(budget,ε)
func StabilityRatio(supply, marketPrice, annualCQEBudget float64) float64 {
	return fluxguard.SafeDiv(supply*marketPrice, math.Max(annualCQEBudget, fluxguard.Epsilon))
}

// ClimateRiskMultiplier implements m(T), used to scale
// project failure probability during advancement.
func ClimateRiskMultiplier(temperatureAnom float64) float64 {
	switch {
	case temperatureAnom < 1.5:
		return 1.0
	case temperatureAnom < 2.0:
		return 1 + 0.2*(temperatureAnom-1.5)
	case temperatureAnom < 3.0:
		return 1.1 + 0.3*(temperatureAnom-2.0)
	default:
		return 1.4 + 0.5*(temperatureAnom-3.0)
	}
}

// FloorRevisionInputs carries the signals the every-5-years floor revision
// consumes.
type FloorRevisionInputs struct {
	CurrentCO2PPM     float64
	RoadmapCO2PPM     float64 // linear_roadmap(year, initial, target)
	RealizedInflation float64
	InflationTarget   float64
	TemperatureAnom   float64
}

// MaybeReviseFloor advances YearsSinceFloorRev and, every 5th year, derives
// a new locked annual growth rate μ from roadmap gap attenuated by
// inflation and temperature overshoot, then compounds the floor over the
// elapsed 5 years. In between revisions the floor grows yearly at the
// already-locked μ.
func (s *State) MaybeReviseFloor(priceFloor float64, in FloorRevisionInputs) float64 {
	s.YearsSinceFloorRev++

	if s.YearsSinceFloorRev < 5 {
		return priceFloor * (1 + s.LockedFloorGrowthRate)
	}

	roadmapGap := in.CurrentCO2PPM - in.RoadmapCO2PPM
	mu := 0.01 * roadmapGap / 10.0 // positive when behind schedule

	if in.InflationTarget > 0 && in.RealizedInflation > in.InflationTarget {
		overshoot := (in.RealizedInflation - in.InflationTarget) / in.InflationTarget
		mu *= math.Max(0, 1-0.5*overshoot)
	}
	if in.TemperatureAnom > 1.5 {
		mu *= math.Max(0, 1-0.2*(in.TemperatureAnom-1.5))
	}

	mu = fluxguard.Clamp(mu, -0.02, 0.10)
	s.LockedFloorGrowthRate = mu
	s.YearsSinceFloorRev = 0

	return priceFloor * math.Pow(1+mu, 5)
}

// LinearRoadmap implements linear_roadmap(year, initial, target): a
// straight-line CO2 ppm glidepath from the run's starting ppm to its
// target ppm over the run's horizon.
func LinearRoadmap(year, horizonYears int, initialPPM, targetPPM float64) float64 {
	if horizonYears <= 0 {
		return initialPPM
	}
	frac := fluxguard.Clamp(float64(year)/float64(horizonYears), 0, 1)
	return initialPPM + frac*(targetPPM-initialPPM)
}

// UpdateCO2PeakDetector tracks consecutive-year declines after a first
// peak, for the CDR-buildout-stop-on-CO2-peak condition.
func (s *State) UpdateCO2PeakDetector(currentPPM float64) {
	if !s.co2PeakSet || currentPPM > s.co2Peak {
		s.co2Peak = currentPPM
		s.co2PeakSet = true
		s.co2DeclineStreak = 0
		return
	}
	if currentPPM < s.co2Peak {
		s.co2DeclineStreak++
	} else {
		s.co2DeclineStreak = 0
	}
}

// CO2DeclinedTwoYearsAfterPeak reports whether CO2 has declined for 2
// consecutive years after first reaching a peak.
func (s *State) CO2DeclinedTwoYearsAfterPeak() bool {
	return s.co2PeakSet && s.co2DeclineStreak >= 2
}

// CheckNetZeroLatch sets the permanent CONVENTIONAL-crediting-termination
// latch the first time E:S ratio reaches <= 1.0. The latch
// never resets.
func (s *State) CheckNetZeroLatch(emissionsToSinkRatio float64) {
	if !s.NetZeroEverReached && emissionsToSinkRatio <= 1.0 {
		s.NetZeroEverReached = true
	}
}

// BrakePolicy is the swappable brake-factor decision seam: the
// default rule-based implementation is RuleBasedBrake below, which
// delegates to State.UpdateBrake; an alternative
// decision engine can satisfy the same interface.
type BrakePolicy interface {
	UpdateBrake(prev float64, in BrakeInputs) float64
}

// RuleBasedBrake is the default BrakePolicy, delegating to a scratch State
// so it can be used statelessly by callers that track BrakeFactor
// themselves.
type RuleBasedBrake struct{}

// UpdateBrake computes the brake factor without retaining warning/latch
// state (callers needing those should use *State directly).
func (RuleBasedBrake) UpdateBrake(prev float64, in BrakeInputs) float64 {
	s := &State{BrakeFactor: prev}
	s.UpdateBrake(in)
	return s.BrakeFactor
}
