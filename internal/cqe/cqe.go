// Package cqe implements the CentralBankAlliance: the annual CQE budget,
// price-floor defense through token purchases, and the defense's feedback
// into realized inflation.
package cqe

import (
	"math"

	"github.com/gcrsim/gcrsim/internal/fluxguard"
)

// State is the CentralBankAlliance's mutable per-run state: the annual
// budget and the annual and cumulative spend against it.
type State struct {
	AnnualBudgetUSD    float64
	AnnualSpentUSD     float64
	CumulativeSpentUSD float64
}

// RolloverYear resets the annual budget accounting at a year boundary
func (s *State) RolloverYear() {
	s.AnnualBudgetUSD = 0
	s.AnnualSpentUSD = 0
}

// ComputeBudget implements total_cqe_budget = min(0.05 * annual private
// capital inflow, 0.005 * Σ active country GDP). GDP is
// expressed in the same USD units as capital inflow (trillions converted
// to dollars by the caller).
func (s *State) ComputeBudget(annualPrivateCapitalInflowUSD, activeGDPTotalUSD float64) {
	byFlow := 0.05 * annualPrivateCapitalInflowUSD
	byGDP := 0.005 * activeGDPTotalUSD
	s.AnnualBudgetUSD = math.Min(byFlow, byGDP)
	if s.AnnualBudgetUSD < 0 {
		s.AnnualBudgetUSD = 0
	}
}

// DefenseInputs carries the per-tick signals the floor-defense decision
// consumes.
type DefenseInputs struct {
	MarketPrice        float64
	PriceFloor         float64
	RealizedInflation  float64
	InflationTarget    float64
	OutstandingSupply  float64
	InterventionSizing float64 // bounded fraction of outstanding supply per step
}

// DefenseResult reports one tick's floor-defense outcome.
type DefenseResult struct {
	SpendUSD        float64
	XCRPurchased    float64
	InflationImpact float64
	Willingness     float64
	Defended        bool
}

// CQEPolicy is the swappable floor-defense decision seam: the
// default rule-based implementation is State.Defend below; an alternative
// decision engine can satisfy the same interface.
type CQEPolicy interface {
	Defend(in DefenseInputs) DefenseResult
}

const willingnessK = 12.0

// Willingness implements W = 1/(1+exp(k*(π - 1.5*π_target))); W = 0 when
// π_target = 0.
func Willingness(realizedInflation, inflationTarget float64) float64 {
	if inflationTarget == 0 {
		return 0
	}
	return 1 / (1 + math.Exp(willingnessK*(realizedInflation-1.5*inflationTarget)))
}

// Defend implements the floor-defense decision: if market price is below
// the floor, spend up to the remaining annual budget scaled by willingness
// and the price gap, purchasing XCR at market price. Purchases are central-
// bank holdings, not burns. Exhaustion of the budget is a normal outcome,
// not an error.
func (s *State) Defend(in DefenseInputs) DefenseResult {
	result := DefenseResult{}
	if in.MarketPrice >= in.PriceFloor {
		return result
	}

	w := Willingness(in.RealizedInflation, in.InflationTarget)
	result.Willingness = w
	if w <= 0 {
		return result
	}

	remaining := fluxguard.ClampMin(s.AnnualBudgetUSD-s.AnnualSpentUSD, 0)
	gap := in.PriceFloor - in.MarketPrice
	sizingCapUSD := in.InterventionSizing * in.OutstandingSupply * in.MarketPrice
	proposed := w * gap * in.InterventionSizing * in.OutstandingSupply

	spend := math.Min(remaining, math.Min(proposed, sizingCapUSD))
	if spend <= 0 {
		return result
	}

	s.AnnualSpentUSD += spend
	s.CumulativeSpentUSD += spend

	result.SpendUSD = spend
	result.XCRPurchased = fluxguard.SafeDiv(spend, in.MarketPrice)
	result.Defended = true

	if in.RealizedInflation >= 0 {
		// Inflation impact is one percentage point per $1B spent
		// (spend/1e11), capped at 2 percentage points. The caller adds it
		// to realized inflation as is; it is not scaled by GDP.
		result.InflationImpact = fluxguard.Clamp(spend/1e11, 0, 0.02)
	}
	return result
}

// MeanRevertInflation mean-reverts realized inflation toward the target at
// a 25-40% annual rate, applied every tick regardless of intervention
func MeanRevertInflation(realized, target, revertRate float64) float64 {
	revertRate = fluxguard.Clamp(revertRate, 0.25, 0.40)
	return realized + (target-realized)*revertRate
}
