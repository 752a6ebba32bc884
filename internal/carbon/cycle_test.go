package carbon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPPMConversion(t *testing.T) {
	s := NewState(415)
	assert.InDelta(t, 415.0, s.PPM(), 1e-9)
	assert.InDelta(t, 415*GtCPerPPM, s.AtmGtC, 1e-9)
}

func TestStepStocksStayNonNegative(t *testing.T) {
	c := NewCycle(DefaultConfig(), 415)
	for year := 0; year < 200; year++ {
		c.Step(11.0, 0, 0, 0, 0)
		assert.GreaterOrEqual(t, c.State.AtmGtC, 0.0)
		assert.GreaterOrEqual(t, c.State.OceanSurfaceGtC, 0.0)
		assert.GreaterOrEqual(t, c.State.OceanDeepGtC, 0.0)
		assert.GreaterOrEqual(t, c.State.LandGtC, 0.0)
		assert.GreaterOrEqual(t, c.State.PermafrostGtC, 0.0)
	}
}

func TestStepEmissionsRaiseAtmosphere(t *testing.T) {
	c := NewCycle(DefaultConfig(), 415)
	before := c.State.AtmGtC
	delta := c.Step(11.0, 0, 0, 0, 0)

	assert.Greater(t, c.State.AtmGtC, before)
	assert.InDelta(t, 11.0, delta.NetAnthropogenicGtC, 1e-9)
	assert.Greater(t, delta.OceanUptakeGtC, 0.0)
	assert.GreaterOrEqual(t, delta.AirborneFraction, 0.0)
	assert.LessOrEqual(t, delta.AirborneFraction, 1.0)
}

func TestStepCDRRemovalLowersAtmosphere(t *testing.T) {
	withRemoval := NewCycle(DefaultConfig(), 415)
	without := NewCycle(DefaultConfig(), 415)

	withRemoval.Step(11.0, 3.0, 0, 0, 0)
	without.Step(11.0, 0, 0, 0, 0)

	assert.Less(t, withRemoval.State.AtmGtC, without.State.AtmGtC)
	assert.Less(t, withRemoval.State.CumulativeEmGtC, without.State.CumulativeEmGtC)
}

func TestStepConventionalMitigationCappedAtHumanEmissions(t *testing.T) {
	c := NewCycle(DefaultConfig(), 415)
	// Mitigation far above gross emissions: net flux must not go negative.
	delta := c.Step(10.0, 0, 50.0, 0, 0)
	assert.GreaterOrEqual(t, delta.NetAnthropogenicGtC, 0.0)
	assert.InDelta(t, 10.0, c.State.RemainingHumanEmissionsGtC, 1e-9)
}

func TestStepAvoidedDeforestationReducesEmissions(t *testing.T) {
	withAvdef := NewCycle(DefaultConfig(), 415)
	without := NewCycle(DefaultConfig(), 415)

	d1 := withAvdef.Step(11.0, 0, 0, 2.0, 0)
	d2 := without.Step(11.0, 0, 0, 0, 0)

	assert.InDelta(t, d2.NetAnthropogenicGtC-2.0, d1.NetAnthropogenicGtC, 1e-9)
}

func TestStepReversalRaisesAtmosphere(t *testing.T) {
	withReversal := NewCycle(DefaultConfig(), 415)
	without := NewCycle(DefaultConfig(), 415)

	withReversal.Step(11.0, 0, 0, 0, 1.5)
	without.Step(11.0, 0, 0, 0, 0)

	assert.Greater(t, withReversal.State.AtmGtC, without.State.AtmGtC)
}

func TestTemperatureTracksCumulativeEmissions(t *testing.T) {
	c := NewCycle(DefaultConfig(), 415)
	for year := 0; year < 50; year++ {
		c.Step(11.0, 0, 0, 0, 0)
	}
	// T = (TCRE/1000)*E_cum + T_committed, with T_committed in [0, 0.5).
	tcreTerm := (TCRE / 1000.0) * c.State.CumulativeEmGtC
	require.Greater(t, c.State.TemperatureAnom, tcreTerm)
	assert.Less(t, c.State.TemperatureAnom, tcreTerm+0.5)
}

func TestPermafrostReleasesAboveThreshold(t *testing.T) {
	c := NewCycle(DefaultConfig(), 415)
	before := c.State.PermafrostGtC

	// Below 1.5 °C no permafrost carbon moves.
	d := c.Step(11.0, 0, 0, 0, 0)
	assert.Zero(t, d.PermafrostGtC)
	assert.Equal(t, before, c.State.PermafrostGtC)

	// Push temperature past the threshold and the feedback kicks in.
	c.State.TemperatureAnom = 2.0
	d = c.Step(11.0, 0, 0, 0, 0)
	assert.Greater(t, d.PermafrostGtC, 0.0)
	assert.Less(t, c.State.PermafrostGtC, before)
}

func TestFireEmissionsGrowWithOvershoot(t *testing.T) {
	cool := NewCycle(DefaultConfig(), 415)
	hot := NewCycle(DefaultConfig(), 415)
	hot.State.TemperatureAnom = 2.5

	dCool := cool.Step(11.0, 0, 0, 0, 0)
	dHot := hot.Step(11.0, 0, 0, 0, 0)

	assert.InDelta(t, 0.5, dCool.FireEmissionsGtC, 1e-9)
	assert.Greater(t, dHot.FireEmissionsGtC, dCool.FireEmissionsGtC)
}

func TestBAUEmissionsProfile(t *testing.T) {
	base := 11.0
	peakYear := 6

	// Growth of 1%/yr to the peak.
	assert.InDelta(t, base, BAUEmissions(1, peakYear, base), 1e-9)
	assert.Greater(t, BAUEmissions(peakYear, peakYear, base), BAUEmissions(1, peakYear, base))

	// Plateau from peak to year 60.
	peak := BAUEmissions(peakYear, peakYear, base)
	assert.InDelta(t, peak, BAUEmissions(30, peakYear, base), 1e-9)
	assert.InDelta(t, peak, BAUEmissions(60, peakYear, base), 1e-9)

	// Slow decline afterwards.
	assert.Less(t, BAUEmissions(61, peakYear, base), peak)
	assert.Less(t, BAUEmissions(100, peakYear, base), BAUEmissions(61, peakYear, base))
}

func TestBAUTwinMatchesIdenticalInputs(t *testing.T) {
	a := NewCycle(DefaultConfig(), 415)
	b := NewCycle(DefaultConfig(), 415)
	for year := 1; year <= 80; year++ {
		e := BAUEmissions(year, 6, 11.0)
		a.Step(e, 0, 0, 0, 0)
		b.Step(e, 0, 0, 0, 0)
	}
	assert.InDelta(t, a.State.AtmGtC, b.State.AtmGtC, 1e-9)
	assert.InDelta(t, a.State.TemperatureAnom, b.State.TemperatureAnom, 1e-9)
}
