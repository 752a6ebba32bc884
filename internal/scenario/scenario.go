// Package scenario defines the run-level input parameters and a handful of
// named presets for the standard experiment set. Presets layer on top of
// DefaultScenario; YAML files layer on top of the defaults the same way.
package scenario

import (
	"fmt"
)

// Scenario is the complete set of parameters a run needs.
type Scenario struct {
	Years             int     `yaml:"years"`
	InitialCO2PPM     float64 `yaml:"initial_co2_ppm"`
	TargetCO2PPM      float64 `yaml:"target_co2_ppm"`
	InitialPriceFloor float64 `yaml:"initial_price_floor"`
	InflationTarget   float64 `yaml:"inflation_target"`
	AdoptionRate      float64 `yaml:"adoption_rate"` // countries/year, fractional
	EnableAudits      bool    `yaml:"enable_audits"`
	Seed              int64   `yaml:"seed"`

	BAUPeakYear int `yaml:"bau_peak_year"`

	OneTimeSeedCapitalUSD float64 `yaml:"one_time_seed_capital_usd"`

	CDRMaterialBudgetGt   float64 `yaml:"cdr_material_budget_gt"`
	CDRMaterialMultiplier float64 `yaml:"cdr_material_multiplier"`
	CDRMaterialFloor      float64 `yaml:"cdr_material_floor"`

	CDRBuildoutStopYear      int  `yaml:"cdr_buildout_stop_year"`
	CDRBuildoutStopOnCO2Peak bool `yaml:"cdr_buildout_stop_on_co2_peak"`

	CDRLearningRate          float64 `yaml:"cdr_learning_rate"`
	ConventionalLearningRate float64 `yaml:"conventional_learning_rate"`

	ScaleDamperFullScaleThresholdGt float64 `yaml:"scale_damper_full_scale_threshold_gt"`
	ScaleDamperSlope                float64 `yaml:"scale_damper_slope"`

	CDRCapacityCapGt float64 `yaml:"cdr_capacity_cap_gt"`

	MonteCarloRuns int `yaml:"monte_carlo_runs"`

	// StepShockYear/StepShockInflationDeltaPP configure an optional
	// deterministic inflation step shock; zero
	// year means disabled.
	StepShockYear            int     `yaml:"step_shock_year"`
	StepShockInflationDeltaPP float64 `yaml:"step_shock_inflation_delta_pp"`

	// AmbientShocksEnabled toggles the smooth opensimplex-driven inflation
	// noise.
	AmbientShocksEnabled bool `yaml:"ambient_shocks_enabled"`
}

// Validate reports configuration errors at construction.
func (s Scenario) Validate() error {
	if s.Years <= 0 {
		return fmt.Errorf("scenario: years must be positive, got %d", s.Years)
	}
	if s.InitialCO2PPM <= 0 {
		return fmt.Errorf("scenario: initial_co2_ppm must be positive, got %f", s.InitialCO2PPM)
	}
	if s.InitialPriceFloor <= 0 {
		return fmt.Errorf("scenario: initial_price_floor must be positive, got %f", s.InitialPriceFloor)
	}
	if s.InflationTarget < 0 {
		return fmt.Errorf("scenario: inflation_target cannot be negative, got %f", s.InflationTarget)
	}
	if s.AdoptionRate < 0 {
		return fmt.Errorf("scenario: adoption_rate cannot be negative, got %f", s.AdoptionRate)
	}
	if s.MonteCarloRuns < 0 {
		return fmt.Errorf("scenario: monte_carlo_runs cannot be negative, got %d", s.MonteCarloRuns)
	}
	if s.CDRBuildoutStopYear < 0 {
		return fmt.Errorf("scenario: cdr_buildout_stop_year cannot be negative, got %d", s.CDRBuildoutStopYear)
	}
	return nil
}

// DefaultScenario returns the calibration baseline all presets start from.
func DefaultScenario() Scenario {
	return Scenario{
		Years:             50,
		InitialCO2PPM:     415.0,
		TargetCO2PPM:      350.0,
		InitialPriceFloor: 100.0,
		InflationTarget:   0.02,
		AdoptionRate:      3.5,
		EnableAudits:      true,
		Seed:              42,

		BAUPeakYear: 6,

		OneTimeSeedCapitalUSD: 20e9,

		CDRMaterialBudgetGt:   500,
		CDRMaterialMultiplier: 4.0,
		CDRMaterialFloor:      0.25,

		// The buildout stops once year >= stop_year; a stop year of 0 means
		// no CDR project ever initiates, so "never stop" is any year past
		// the horizon.
		CDRBuildoutStopYear:      9999,
		CDRBuildoutStopOnCO2Peak: false,

		CDRLearningRate:          0.20,
		ConventionalLearningRate: 0.12,

		ScaleDamperFullScaleThresholdGt: 35.0,
		ScaleDamperSlope:                0, // 0 derives the slope from the full-scale threshold

		CDRCapacityCapGt: 20.0,

		MonteCarloRuns: 1,

		AmbientShocksEnabled: true,
	}
}

// Baseline is the standard 50-year reference run.
func Baseline() Scenario {
	s := DefaultScenario()
	s.Years = 50
	s.InitialPriceFloor = 100
	s.InflationTarget = 0.02
	s.AdoptionRate = 3.5
	s.EnableAudits = true
	return s
}

// HighInflation raises the inflation target to 6%, throttling issuance.
func HighInflation() Scenario {
	s := Baseline()
	s.InflationTarget = 0.06
	return s
}

// LowInflation drops the inflation target to 0.5% over a 30-year horizon.
func LowInflation() Scenario {
	s := Baseline()
	s.InflationTarget = 0.005
	s.Years = 30
	return s
}

// CDRBuildoutStop halts CDR buildout at year 25 with the default material
// budget.
func CDRBuildoutStop() Scenario {
	s := Baseline()
	s.CDRBuildoutStopYear = 25
	return s
}

// EmptyAdoption disables adoption, restricting the run to the 5 founding
// countries.
func EmptyAdoption() Scenario {
	s := Baseline()
	s.AdoptionRate = 0
	return s
}

// ShockTest is a 100-year run with a deterministic annual +1% inflation
// shock starting at year 10.
func ShockTest() Scenario {
	s := Baseline()
	s.Years = 100
	s.StepShockYear = 10
	s.StepShockInflationDeltaPP = 0.01
	s.AmbientShocksEnabled = false
	return s
}

// ZeroShock disables all shock sources, so realized inflation converges
// monotonically to target.
func ZeroShock() Scenario {
	s := Baseline()
	s.AmbientShocksEnabled = false
	s.StepShockYear = 0
	return s
}

// BAUTwin disables audits, seed capital, and adoption so the GCR run
// degenerates to the BAU carbon-cycle trajectory.
func BAUTwin() Scenario {
	s := Baseline()
	s.EnableAudits = false
	s.OneTimeSeedCapitalUSD = 0
	s.AdoptionRate = 0
	return s
}
