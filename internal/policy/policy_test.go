package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInflationAdjustment(t *testing.T) {
	// Low inflation widens thresholds.
	_, adj := InflationAdjustment(0.005) // rho = 0.25
	assert.Equal(t, 2.0, adj)

	// rho = 1 sits on the linear segment: adj = 2.0 - (1.0 - 0.5) = 1.5.
	rho, adj := InflationAdjustment(0.02)
	assert.InDelta(t, 1.0, rho, 1e-9)
	assert.InDelta(t, 1.5, adj, 1e-9)

	// rho = 2 boundary: adj = 0.5.
	_, adj = InflationAdjustment(0.04)
	assert.InDelta(t, 0.5, adj, 1e-9)

	// High inflation contracts toward the 0.3 floor.
	_, adj = InflationAdjustment(0.20) // rho = 10
	assert.InDelta(t, 0.3, adj, 1e-9)

	// Negative realized inflation treated as zero.
	rho, adj = InflationAdjustment(-0.01)
	assert.Zero(t, rho)
	assert.Equal(t, 2.0, adj)
}

func TestHeavyBrakeFloor(t *testing.T) {
	assert.InDelta(t, 0.30, HeavyBrakeFloor(0.25), 1e-9)
	assert.InDelta(t, 0.055, HeavyBrakeFloor(2.0), 1e-9)
	assert.InDelta(t, 0.04, HeavyBrakeFloor(3.0), 1e-9)
	assert.InDelta(t, 0.01, HeavyBrakeFloor(50), 1e-9) // floor never below 0.01
}

func TestRatioBrakeSegments(t *testing.T) {
	const start, mid, heavy, floor = 10.0, 12.0, 15.0, 0.1

	assert.Equal(t, 1.0, RatioBrake(5, start, mid, heavy, floor))
	assert.InDelta(t, 0.75, RatioBrake(11, start, mid, heavy, floor), 1e-9)
	assert.InDelta(t, 0.5, RatioBrake(12, start, mid, heavy, floor), 1e-9)

	// Quadratic segment: halfway through gives 0.5 + 0.25*(floor-0.5).
	assert.InDelta(t, 0.5+0.25*(floor-0.5), RatioBrake(13.5, start, mid, heavy, floor), 1e-9)
	assert.Equal(t, floor, RatioBrake(20, start, mid, heavy, floor))
}

func TestBudgetBrake(t *testing.T) {
	assert.Equal(t, 1.0, BudgetBrake(0.5))
	assert.Equal(t, 1.0, BudgetBrake(0.89))
	assert.InDelta(t, 0.5, BudgetBrake(0.95), 1e-9)
	assert.InDelta(t, 0.25, BudgetBrake(2.0), 1e-9)
}

func TestInflationPenalty(t *testing.T) {
	assert.Equal(t, 1.0, InflationPenalty(0.5))
	assert.Equal(t, 1.0, InflationPenalty(1.0))
	assert.InDelta(t, 0.8, InflationPenalty(1.5), 1e-9)
	assert.InDelta(t, 0.2, InflationPenalty(10), 1e-9)
}

func TestUpdateBrakeBounds(t *testing.T) {
	s := NewState()
	floor := HeavyBrakeFloor(1.0) // rho = 1 at 2% realized inflation
	for _, ratio := range []float64{0, 5, 11, 20, 100, 1e6} {
		s.UpdateBrake(BrakeInputs{StabilityRatio: ratio, RealizedInflation: 0.02})
		assert.GreaterOrEqual(t, s.BrakeFactor, floor)
		assert.LessOrEqual(t, s.BrakeFactor, 1.0)
	}
}

func TestUpdateBrakeWarningThreshold(t *testing.T) {
	s := NewState()

	// At rho=1, adj=1.5, warning threshold is 12.
	s.UpdateBrake(BrakeInputs{StabilityRatio: 11, RealizedInflation: 0.02})
	assert.False(t, s.Warning)

	s.UpdateBrake(BrakeInputs{StabilityRatio: 13, RealizedInflation: 0.02})
	assert.True(t, s.Warning)
}

func TestUpdateBrakeThresholdScaling(t *testing.T) {
	low := NewState()
	high := NewState()

	// Same stability ratio: a very low inflation target widens thresholds
	// (brake stays off), a very high one contracts them (brake engages).
	low.UpdateBrake(BrakeInputs{StabilityRatio: 20, RealizedInflation: 0.02, VeryLowInflationTgt: true})
	high.UpdateBrake(BrakeInputs{StabilityRatio: 20, RealizedInflation: 0.02, VeryHighInflationTgt: true})

	assert.Greater(t, low.BrakeFactor, high.BrakeFactor)
}

func TestClimateRiskMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, ClimateRiskMultiplier(1.0))
	assert.InDelta(t, 1.05, ClimateRiskMultiplier(1.75), 1e-9)
	assert.InDelta(t, 1.25, ClimateRiskMultiplier(2.5), 1e-9)
	assert.InDelta(t, 1.9, ClimateRiskMultiplier(4.0), 1e-9)
}

func TestStabilityRatio(t *testing.T) {
	assert.InDelta(t, 10.0, StabilityRatio(1000, 100, 10000), 1e-9)
	// Zero budget divides by epsilon instead of blowing up.
	assert.Greater(t, StabilityRatio(1000, 100, 0), 1e10)
}

func TestMaybeReviseFloorCadence(t *testing.T) {
	s := NewState()
	floor := 100.0
	in := FloorRevisionInputs{
		CurrentCO2PPM:   420,
		RoadmapCO2PPM:   400, // 20 ppm behind schedule
		InflationTarget: 0.02,
		TemperatureAnom: 1.0,
	}

	// Years 1-4: no locked growth yet, floor stays flat.
	for year := 1; year <= 4; year++ {
		floor = s.MaybeReviseFloor(floor, in)
		assert.InDelta(t, 100.0, floor, 1e-9)
	}

	// Year 5: revision. Behind schedule means mu > 0, floor compounds up.
	floor = s.MaybeReviseFloor(floor, in)
	assert.Greater(t, floor, 100.0)
	assert.Greater(t, s.LockedFloorGrowthRate, 0.0)

	// Between revisions the floor grows yearly at the locked rate.
	next := s.MaybeReviseFloor(floor, in)
	assert.InDelta(t, floor*(1+s.LockedFloorGrowthRate), next, 1e-9)
}

func TestMaybeReviseFloorMuClamped(t *testing.T) {
	s := NewState()
	s.YearsSinceFloorRev = 4
	in := FloorRevisionInputs{
		CurrentCO2PPM:   900, // absurdly behind schedule
		RoadmapCO2PPM:   300,
		InflationTarget: 0.02,
	}
	s.MaybeReviseFloor(100, in)
	assert.LessOrEqual(t, s.LockedFloorGrowthRate, 0.10)

	s2 := NewState()
	s2.YearsSinceFloorRev = 4
	in.CurrentCO2PPM = 200 // far ahead of schedule
	s2.MaybeReviseFloor(100, in)
	assert.GreaterOrEqual(t, s2.LockedFloorGrowthRate, -0.02)
}

func TestCO2PeakDetector(t *testing.T) {
	s := NewState()

	s.UpdateCO2PeakDetector(415)
	s.UpdateCO2PeakDetector(418)
	s.UpdateCO2PeakDetector(420)
	assert.False(t, s.CO2DeclinedTwoYearsAfterPeak())

	s.UpdateCO2PeakDetector(419)
	assert.False(t, s.CO2DeclinedTwoYearsAfterPeak())

	s.UpdateCO2PeakDetector(417)
	assert.True(t, s.CO2DeclinedTwoYearsAfterPeak())
}

func TestNetZeroLatchIsPermanent(t *testing.T) {
	s := NewState()

	s.CheckNetZeroLatch(3.0)
	assert.False(t, s.NetZeroEverReached)

	s.CheckNetZeroLatch(0.9)
	assert.True(t, s.NetZeroEverReached)

	// Ratio recovering above 1 never resets the latch.
	s.CheckNetZeroLatch(5.0)
	assert.True(t, s.NetZeroEverReached)
}

func TestLinearRoadmap(t *testing.T) {
	assert.InDelta(t, 415.0, LinearRoadmap(0, 50, 415, 350), 1e-9)
	assert.InDelta(t, 350.0, LinearRoadmap(50, 50, 415, 350), 1e-9)
	assert.InDelta(t, 382.5, LinearRoadmap(25, 50, 415, 350), 1e-9)
	// Past the horizon the roadmap holds at target.
	assert.InDelta(t, 350.0, LinearRoadmap(80, 50, 415, 350), 1e-9)
}
