package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidateRejectsBadParameters(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"zero years", func(s *Scenario) { s.Years = 0 }},
		{"negative initial co2", func(s *Scenario) { s.InitialCO2PPM = -1 }},
		{"zero price floor", func(s *Scenario) { s.InitialPriceFloor = 0 }},
		{"negative inflation target", func(s *Scenario) { s.InflationTarget = -0.01 }},
		{"negative adoption rate", func(s *Scenario) { s.AdoptionRate = -1 }},
		{"negative monte carlo runs", func(s *Scenario) { s.MonteCarloRuns = -1 }},
		{"negative cdr stop year", func(s *Scenario) { s.CDRBuildoutStopYear = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultScenario()
			tc.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestDefaultScenarioValid(t *testing.T) {
	assert.NoError(t, DefaultScenario().Validate())
}

func TestPresetsParameterization(t *testing.T) {
	b := Baseline()
	assert.Equal(t, 50, b.Years)
	assert.Equal(t, 100.0, b.InitialPriceFloor)
	assert.Equal(t, 0.02, b.InflationTarget)
	assert.Equal(t, 3.5, b.AdoptionRate)
	assert.True(t, b.EnableAudits)
	assert.EqualValues(t, 42, b.Seed)

	assert.Equal(t, 0.06, HighInflation().InflationTarget)

	low := LowInflation()
	assert.Equal(t, 0.005, low.InflationTarget)
	assert.Equal(t, 30, low.Years)

	assert.Equal(t, 25, CDRBuildoutStop().CDRBuildoutStopYear)

	assert.Zero(t, EmptyAdoption().AdoptionRate)

	shock := ShockTest()
	assert.Equal(t, 100, shock.Years)
	assert.Equal(t, 10, shock.StepShockYear)
	assert.Equal(t, 0.01, shock.StepShockInflationDeltaPP)
	assert.False(t, shock.AmbientShocksEnabled)

	twin := BAUTwin()
	assert.False(t, twin.EnableAudits)
	assert.Zero(t, twin.OneTimeSeedCapitalUSD)
	assert.Zero(t, twin.AdoptionRate)

	for name, s := range map[string]Scenario{
		"baseline": b, "high-inflation": HighInflation(), "low-inflation": low,
		"cdr-stop": CDRBuildoutStop(), "empty-adoption": EmptyAdoption(),
		"shock": shock, "zero-shock": ZeroShock(), "bau-twin": twin,
	} {
		assert.NoError(t, s.Validate(), name)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	src := `
years: 25
initial_co2_ppm: 420
target_co2_ppm: 350
initial_price_floor: 120
inflation_target: 0.03
adoption_rate: 2.5
enable_audits: true
seed: 7
cdr_buildout_stop_year: 15
`
	s := DefaultScenario()
	require.NoError(t, yaml.Unmarshal([]byte(src), &s))

	assert.Equal(t, 25, s.Years)
	assert.Equal(t, 420.0, s.InitialCO2PPM)
	assert.Equal(t, 120.0, s.InitialPriceFloor)
	assert.Equal(t, 0.03, s.InflationTarget)
	assert.Equal(t, 2.5, s.AdoptionRate)
	assert.EqualValues(t, 7, s.Seed)
	assert.Equal(t, 15, s.CDRBuildoutStopYear)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, DefaultScenario().CDRMaterialBudgetGt, s.CDRMaterialBudgetGt)
	assert.NoError(t, s.Validate())
}
