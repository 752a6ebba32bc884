// Package sim is the Simulation driver. It owns the single
// authoritative state and runs the yearly tick as a fixed, ordering-
// sensitive sequence of phases, each phase getting exclusive access to the
// slice of state it mutates. No sub-component holds a reference to another;
// cross-component reads all flow through the tick.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gcrsim/gcrsim/internal/carbon"
	"github.com/gcrsim/gcrsim/internal/country"
	"github.com/gcrsim/gcrsim/internal/cqe"
	"github.com/gcrsim/gcrsim/internal/market"
	"github.com/gcrsim/gcrsim/internal/policy"
	"github.com/gcrsim/gcrsim/internal/projects"
	"github.com/gcrsim/gcrsim/internal/rng"
	"github.com/gcrsim/gcrsim/internal/scenario"
	"github.com/gcrsim/gcrsim/internal/shocks"
	"github.com/gcrsim/gcrsim/internal/token"
)

// Simulation holds the complete run state and wires the six sub-systems
// together.
type Simulation struct {
	RunID    uuid.UUID
	Scenario scenario.Scenario

	Carbon *carbon.Cycle // GCR-driving cycle
	BAU    *carbon.Cycle // counterfactual twin, driven by emissions only

	Countries *country.Pool
	Broker    *projects.Broker
	Ledger    *token.Ledger
	CQE       *cqe.State
	Policy    *policy.State

	Sentiment market.Sentiment
	Capital   market.CapitalState

	MarketPrice float64
	PriceFloor  float64
	Inflation   float64

	SentimentPolicy SentimentPolicy
	CapitalPolicy   CapitalPolicy
	CQEPolicyImpl   CQEPolicy

	ShockGen *shocks.Generator
	RNG      *rng.Set

	Diagnostics []Diagnostic
	Snapshots   []Snapshot

	unspentCapitalUSD    float64
	seedCapitalSpent     bool
	prevWarning          bool
	prevCO2PPM           float64
	lastDelta            carbon.Delta
	lastBudgetUtilization float64
	cumulativeBudgetUSD  float64
	floorRevisedUpThisTick bool
	netZeroReachedYear   int // 0 until the net-zero latch first trips
}

// New constructs a Simulation from a scenario, validating configuration up
// front and aborting construction on error.
func New(s scenario.Scenario) (*Simulation, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("sim: invalid scenario: %w", err)
	}

	carbonCfg := carbon.DefaultConfig()
	carbonCfg.BAUPeakYear = s.BAUPeakYear

	brokerCfg := projects.DefaultConfig()
	if s.CDRMaterialBudgetGt > 0 {
		brokerCfg.CDRMaterialBudgetGt = s.CDRMaterialBudgetGt
	}
	if s.CDRMaterialMultiplier > 0 {
		brokerCfg.CDRMaterialCostMultiplier = s.CDRMaterialMultiplier
	}
	if s.CDRMaterialFloor > 0 {
		brokerCfg.CDRMaterialCapacityFloor = s.CDRMaterialFloor
	}
	brokerCfg.CDRLearningRate = s.CDRLearningRate
	brokerCfg.ConventionalLearningRate = s.ConventionalLearningRate
	if s.CDRCapacityCapGt > 0 {
		brokerCfg.CDRCapacityGtPerYear = s.CDRCapacityCapGt
	}
	if s.ScaleDamperFullScaleThresholdGt > 0 {
		brokerCfg.FullScaleGt = s.ScaleDamperFullScaleThresholdGt
	}
	if s.ScaleDamperSlope > 0 {
		brokerCfg.DamperSlope = s.ScaleDamperSlope
	}

	cqeState := &cqe.State{}

	sim := &Simulation{
		RunID:    uuid.New(),
		Scenario: s,

		Carbon: carbon.NewCycle(carbonCfg, s.InitialCO2PPM),
		BAU:    carbon.NewCycle(carbonCfg, s.InitialCO2PPM),

		Countries: country.NewPool(),
		Broker:    projects.NewBroker(brokerCfg),
		Ledger:    &token.Ledger{},
		CQE:       cqeState,
		Policy:    policy.NewState(),

		Sentiment: market.Sentiment(1.0).Clamp(),
		Capital:   market.CapitalState{},

		MarketPrice: s.InitialPriceFloor,
		PriceFloor:  s.InitialPriceFloor,
		Inflation:   s.InflationTarget,

		SentimentPolicy: market.RuleBasedSentiment{},
		CapitalPolicy:   market.RuleBasedCapital{},
		CQEPolicyImpl:   cqeState,

		ShockGen: shocks.NewGenerator(s.Seed),
		RNG:      rng.NewSet(s.Seed),
	}

	sim.prevCO2PPM = s.InitialCO2PPM

	return sim, nil
}

func (s *Simulation) diag(component, message string) {
	s.Diagnostics = append(s.Diagnostics, Diagnostic{
		Tick:      len(s.Snapshots) + 1,
		Component: component,
		Message:   message,
	})
	slog.Debug("diagnostic", "component", component, "message", message)
}

// RunResult is the outcome of a completed or aborted run.
type RunResult struct {
	RunID              uuid.UUID
	Scenario           scenario.Scenario
	Snapshots          []Snapshot
	Diagnostics        []Diagnostic
	CountryAttribution []CountryAttribution

	Aborted       bool
	AbortedAtTick int
	AbortReason   string
}

// Run executes the scenario's full horizon, one year per tick. It never
// returns a partially-recorded tick: either the tick completes and its
// snapshot is appended, or the run aborts at the tick boundary with the
// failing tick index and cause.
func (s *Simulation) Run() RunResult {
	for year := 1; year <= s.Scenario.Years; year++ {
		snap := s.tick(year)
		if err := s.checkInvariants(snap); err != nil {
			return RunResult{
				RunID:       s.RunID,
				Scenario:    s.Scenario,
				Snapshots:   s.Snapshots,
				Diagnostics: s.Diagnostics,
				Aborted:     true,
				AbortedAtTick: year,
				AbortReason: err.Error(),
			}
		}
		s.Snapshots = append(s.Snapshots, snap)
	}

	return RunResult{
		RunID:              s.RunID,
		Scenario:           s.Scenario,
		Snapshots:          s.Snapshots,
		Diagnostics:        s.Diagnostics,
		CountryAttribution: s.countryAttribution(),
	}
}

func (s *Simulation) countryAttribution() []CountryAttribution {
	out := make([]CountryAttribution, 0, len(s.Countries.Countries))
	for _, c := range s.Countries.Countries {
		out = append(out, CountryAttribution{
			CountryID:             c.ID,
			Name:                  c.Name,
			CumulativeXCREarned:   c.CumulativeXCREarned,
			CumulativePurchaseUSD: c.CumulativePurchaseEquivUSD,
		})
	}
	return out
}

// checkInvariants asserts the per-tick invariants that must never be
// violated by correctly-behaving sub-components; a violation here is a
// fatal bug, aborting the run rather than continuing on corrupted state.
func (s *Simulation) checkInvariants(snap Snapshot) error {
	if snap.XCRSupply < 0 {
		return fmt.Errorf("invariant violated: XCR supply negative (%f)", snap.XCRSupply)
	}
	if snap.Sentiment < 0.1 || snap.Sentiment > 1.0 {
		return fmt.Errorf("invariant violated: sentiment out of range (%f)", snap.Sentiment)
	}
	if snap.BrakeFactor > 1.0 {
		return fmt.Errorf("invariant violated: brake factor above 1.0 (%f)", snap.BrakeFactor)
	}
	if snap.AnnualCQESpent > snap.AnnualCQEBudget+1e-6 {
		return fmt.Errorf("invariant violated: annual CQE spent exceeds budget (%f > %f)", snap.AnnualCQESpent, snap.AnnualCQEBudget)
	}
	if snap.CO2PPM < 0 {
		return fmt.Errorf("invariant violated: negative CO2 ppm (%f)", snap.CO2PPM)
	}
	return nil
}
