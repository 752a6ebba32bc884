package cqe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWillingnessZeroTarget(t *testing.T) {
	// pi_target = 0 disables CQE entirely.
	assert.Zero(t, Willingness(0.02, 0))
	assert.Zero(t, Willingness(0, 0))
}

func TestWillingnessDampensWithInflation(t *testing.T) {
	low := Willingness(0.01, 0.02)
	at := Willingness(0.03, 0.02) // pi = 1.5*target, the logistic midpoint
	high := Willingness(0.08, 0.02)

	// k = 12: 1/(1+e^-0.24) and 1/(1+e^0.6).
	assert.InDelta(t, 0.5597, low, 1e-4)
	assert.InDelta(t, 0.5, at, 1e-9)
	assert.InDelta(t, 0.3543, high, 1e-4)
}

func TestComputeBudgetTakesMin(t *testing.T) {
	s := &State{}

	// Flow-limited: 5% of inflow below 0.5% of GDP.
	s.ComputeBudget(100e9, 100e12)
	assert.InDelta(t, 5e9, s.AnnualBudgetUSD, 1e-3)

	// GDP-limited.
	s.ComputeBudget(100e12, 100e12)
	assert.InDelta(t, 0.5e12, s.AnnualBudgetUSD, 1e-3)

	// Negative inflow clips to zero.
	s.ComputeBudget(-10e9, 100e12)
	assert.Zero(t, s.AnnualBudgetUSD)
}

func TestDefendNoActionAtOrAboveFloor(t *testing.T) {
	s := &State{AnnualBudgetUSD: 1e9}
	res := s.Defend(DefenseInputs{
		MarketPrice: 100, PriceFloor: 100,
		RealizedInflation: 0.02, InflationTarget: 0.02,
		OutstandingSupply: 1e9, InterventionSizing: 0.05,
	})
	assert.False(t, res.Defended)
	assert.Zero(t, res.SpendUSD)
	assert.Zero(t, s.AnnualSpentUSD)
}

func TestDefendSpendsWithinBudget(t *testing.T) {
	s := &State{AnnualBudgetUSD: 1e6}
	res := s.Defend(DefenseInputs{
		MarketPrice: 80, PriceFloor: 100,
		RealizedInflation: 0.02, InflationTarget: 0.02,
		OutstandingSupply: 1e9, InterventionSizing: 0.05,
	})
	assert.True(t, res.Defended)
	assert.Greater(t, res.SpendUSD, 0.0)
	assert.LessOrEqual(t, s.AnnualSpentUSD, s.AnnualBudgetUSD)
	assert.Greater(t, res.XCRPurchased, 0.0)
	assert.InDelta(t, res.SpendUSD/80, res.XCRPurchased, 1e-6)
}

func TestDefendBudgetExhaustionStopsDefense(t *testing.T) {
	s := &State{AnnualBudgetUSD: 1e6, AnnualSpentUSD: 1e6}
	res := s.Defend(DefenseInputs{
		MarketPrice: 80, PriceFloor: 100,
		RealizedInflation: 0.02, InflationTarget: 0.02,
		OutstandingSupply: 1e9, InterventionSizing: 0.05,
	})
	assert.False(t, res.Defended)
	assert.Equal(t, 1e6, s.AnnualSpentUSD)
}

func TestDefendZeroWillingnessNoSpend(t *testing.T) {
	s := &State{AnnualBudgetUSD: 1e9}
	res := s.Defend(DefenseInputs{
		MarketPrice: 80, PriceFloor: 100,
		RealizedInflation: 0.02, InflationTarget: 0, // target zero kills willingness
		OutstandingSupply: 1e9, InterventionSizing: 0.05,
	})
	assert.False(t, res.Defended)
	assert.Zero(t, s.AnnualSpentUSD)
}

func TestDefendInflationImpactCapped(t *testing.T) {
	s := &State{AnnualBudgetUSD: 1e15}
	res := s.Defend(DefenseInputs{
		MarketPrice: 50, PriceFloor: 1000,
		RealizedInflation: 0.0, InflationTarget: 0.02,
		OutstandingSupply: 1e12, InterventionSizing: 0.05,
	})
	assert.True(t, res.Defended)
	assert.LessOrEqual(t, res.InflationImpact, 0.02)
}

func TestRolloverYearResetsAnnualOnly(t *testing.T) {
	s := &State{AnnualBudgetUSD: 1e9, AnnualSpentUSD: 5e8, CumulativeSpentUSD: 3e9}
	s.RolloverYear()
	assert.Zero(t, s.AnnualBudgetUSD)
	assert.Zero(t, s.AnnualSpentUSD)
	assert.Equal(t, 3e9, s.CumulativeSpentUSD)
}

func TestMeanRevertInflation(t *testing.T) {
	// Moves toward target, never past it.
	got := MeanRevertInflation(0.06, 0.02, 0.30)
	assert.Less(t, got, 0.06)
	assert.Greater(t, got, 0.02)
	assert.InDelta(t, 0.048, got, 1e-9)

	// Revert rate clamps into the 25-40% band.
	fast := MeanRevertInflation(0.06, 0.02, 0.90)
	assert.InDelta(t, MeanRevertInflation(0.06, 0.02, 0.40), fast, 1e-9)

	// Converges upward too.
	up := MeanRevertInflation(0.0, 0.02, 0.30)
	assert.Greater(t, up, 0.0)
	assert.Less(t, up, 0.02)
}
