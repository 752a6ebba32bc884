package sim

import (
	"math"

	"github.com/gcrsim/gcrsim/internal/audit"
	"github.com/gcrsim/gcrsim/internal/carbon"
	"github.com/gcrsim/gcrsim/internal/country"
	"github.com/gcrsim/gcrsim/internal/cqe"
	"github.com/gcrsim/gcrsim/internal/fluxguard"
	"github.com/gcrsim/gcrsim/internal/market"
	"github.com/gcrsim/gcrsim/internal/policy"
	"github.com/gcrsim/gcrsim/internal/projects"
	"github.com/gcrsim/gcrsim/internal/rng"
	"github.com/gcrsim/gcrsim/internal/shocks"
)

const tonnesPerGt = 1e9

// inflationMeanRevertRate is the annual mean-reversion rate applied to
// realized inflation regardless of CQE intervention.
const inflationMeanRevertRate = 0.30

// cqeInterventionSizing bounds one year's CQE purchase to this fraction of
// outstanding XCR supply.
const cqeInterventionSizing = 0.05

// tick advances the simulation by exactly one year. The phase order is
// significant and must not be reordered: shocks, inflation correction,
// country adoption, carbon-cycle pre-step (BAU twin), investor sentiment,
// capital market, CQE budget, CEA policy, project initiation, project
// advancement, audit and mint/burn, reversals, CQE floor defense,
// carbon-cycle step, snapshot.
func (s *Simulation) tick(year int) Snapshot {
	// Phase 0: rollover. Annual counters reset at the year boundary.
	s.Ledger.RolloverYear()
	s.CQE.RolloverYear()
	for _, c := range s.Countries.Countries {
		c.RolloverYear()
	}

	// Phase 1: shocks.
	shockDeltaPP := 0.0
	if s.Scenario.AmbientShocksEnabled {
		shockDeltaPP += s.ShockGen.AmbientInflationShock(year)
	}
	if s.Scenario.StepShockYear > 0 {
		step := shocks.StepShock{Year: s.Scenario.StepShockYear, InflationDeltaPP: s.Scenario.StepShockInflationDeltaPP}
		shockDeltaPP += step.Apply(year)
	}
	s.Inflation += shockDeltaPP

	// Phase 2: inflation correction. Mean reversion toward target applies
	// every tick, intervention or not.
	s.Inflation = cqe.MeanRevertInflation(s.Inflation, s.Scenario.InflationTarget, inflationMeanRevertRate)
	if s.Inflation < 0 {
		s.Inflation = 0
		s.diag("inflation", "realized inflation clipped at zero")
	}
	inflationRatio := 0.0
	if s.Scenario.InflationTarget > 0 {
		inflationRatio = s.Inflation / s.Scenario.InflationTarget
	}

	// Phase 3: country adoption (monotonic: active only ever flips on).
	s.Countries.AdoptNext(s.Scenario.AdoptionRate, s.RNG.Stream(rng.PhaseCountryAdoption))

	// Phase 4: carbon-cycle pre-step — BAU twin, driven by emissions only.
	peakYear := s.Scenario.BAUPeakYear
	if peakYear <= 0 {
		peakYear = 6
	}
	bauEmissions := carbon.BAUEmissions(year, peakYear, s.Carbon.Config.BaseEmissionsGtC)
	s.BAU.Step(bauEmissions, 0, 0, 0, 0)

	// Sink estimate for this tick's E:S ratio and net-zero latch check.
	// The authoritative carbon-cycle step runs at the end of the tick once
	// this year's final operational flows are known (post-advancement); the
	// gating decisions upstream of that (net-zero latch, initiation
	// economics) use last year's realized ocean/land uptake as a one-tick-
	// lagged proxy for this year's sinks.
	cdrRemovalGt := s.Broker.SequestrationByChannel(projects.CDR) / tonnesPerGt
	convGt := s.Broker.SequestrationByChannel(projects.CONVENTIONAL) / tonnesPerGt
	avdefGt := s.Broker.SequestrationByChannel(projects.AVOIDED_DEFORESTATION) / tonnesPerGt
	humanEmissionsGt := math.Max(bauEmissions-convGt-avdefGt, 0)
	sinksGt := cdrRemovalGt + s.lastDelta.OceanUptakeGtC + s.lastDelta.LandUptakeGtC
	esRatio := fluxguard.SafeDiv(humanEmissionsGt, sinksGt)
	wasNetZero := s.Policy.NetZeroEverReached
	s.Policy.CheckNetZeroLatch(esRatio)
	if !wasNetZero && s.Policy.NetZeroEverReached {
		s.netZeroReachedYear = year
	}

	// Phase 5: investor sentiment update.
	co2Decreased := s.Carbon.State.PPM() < s.prevCO2PPM
	sentimentIn := market.SentimentInputs{
		NewWarning:        s.Policy.Warning && !s.prevWarning,
		PersistentWarning: s.Policy.Warning && s.prevWarning,
		RealizedInflation: s.Inflation,
		InflationTarget:   s.Scenario.InflationTarget,
		CO2Decreased:      co2Decreased,
		StrongGuidance:    s.Capital.ForwardGuidance >= 0.75,
		FloorRevisedUp:    s.floorRevisedUpThisTick,
	}
	s.Sentiment = s.SentimentPolicy.UpdateSentiment(s.Sentiment, sentimentIn)

	// Phase 6: capital-market update.
	climateUrgency := fluxguard.Clamp((s.Carbon.State.PPM()-s.Scenario.TargetCO2PPM)/150.0, 0, 1)
	capitalIn := market.CapitalInputs{
		YearsSinceXCRStart: year,
		ClimateUrgency:     climateUrgency,
		RealizedInflation:  s.Inflation,
		InflationTarget:    s.Scenario.InflationTarget,
		Sentiment:          s.Sentiment,
		MarketCapUSD:       s.Ledger.MarketCap(s.MarketPrice),
		OneTimeSeedCapital: s.Scenario.OneTimeSeedCapitalUSD,
		SeedCapitalSpent:   s.seedCapitalSpent,
	}
	capitalOut, seedSpent := s.CapitalPolicy.UpdateCapital(s.Capital, capitalIn)
	s.Capital = capitalOut
	if seedSpent {
		s.seedCapitalSpent = true
	}
	if s.Capital.NetFlowUSD > 0 {
		s.unspentCapitalUSD += s.Capital.NetFlowUSD
	}

	s.MarketPrice = market.PriceDiscovery(s.PriceFloor, s.Sentiment, s.Capital.DemandPremium)

	// Phase 7: CQE budget recalculation.
	s.CQE.ComputeBudget(math.Max(s.Capital.NetFlowUSD, 0), s.Countries.ActiveGDPTotal()*1e12)
	s.cumulativeBudgetUSD += s.CQE.AnnualBudgetUSD

	// Phase 8: CEA policy update — brake factor and (every 5 years) the
	// price-floor revision.
	stabilityRatio := policy.StabilityRatio(s.Ledger.Supply, s.MarketPrice, s.CQE.AnnualBudgetUSD)
	s.prevWarning = s.Policy.Warning
	s.Policy.UpdateBrake(policy.BrakeInputs{
		StabilityRatio:       stabilityRatio,
		RealizedInflation:    s.Inflation,
		BudgetUtilization:    s.lastBudgetUtilization,
		VeryLowInflationTgt:  s.Scenario.InflationTarget <= 0.002,
		VeryHighInflationTgt: s.Scenario.InflationTarget >= 0.10,
	})

	roadmap := policy.LinearRoadmap(year, s.Scenario.Years, s.Scenario.InitialCO2PPM, s.Scenario.TargetCO2PPM)
	newFloor := s.Policy.MaybeReviseFloor(s.PriceFloor, policy.FloorRevisionInputs{
		CurrentCO2PPM:     s.Carbon.State.PPM(),
		RoadmapCO2PPM:     roadmap,
		RealizedInflation: s.Inflation,
		InflationTarget:   s.Scenario.InflationTarget,
		TemperatureAnom:   s.Carbon.State.TemperatureAnom,
	})
	s.floorRevisedUpThisTick = newFloor > s.PriceFloor
	s.PriceFloor = newFloor

	s.Policy.UpdateCO2PeakDetector(s.Carbon.State.PPM())
	// Stop-year semantics: the buildout stops once year >= stop_year, so a
	// stop year of 0 means no CDR project ever initiates; scenarios that
	// never stop use a year beyond the horizon.
	cdrStopped := year >= s.Scenario.CDRBuildoutStopYear
	if s.Scenario.CDRBuildoutStopOnCO2Peak && s.Policy.CO2DeclinedTwoYearsAfterPeak() {
		cdrStopped = true
	}
	s.Policy.CDRBuildoutStop = s.Policy.CDRBuildoutStop || cdrStopped

	// Phase 9: project initiation. With audits disabled no project can ever
	// be credited, so nothing is initiated and the run degenerates to the
	// BAU trajectory.
	var initRes projects.InitiationResult
	if s.Scenario.EnableAudits {
		initRes = s.Broker.Initiate(projects.InitiationInput{
			Year:                year,
			MarketPrice:         s.MarketPrice,
			BrakeFactor:         s.Policy.BrakeFactor,
			CapitalAvailableUSD: s.unspentCapitalUSD,
			ActiveCountries:     s.Countries.Active(),
			ESRatio:             esRatio,
			CO2PPM:              s.Carbon.State.PPM(),
			InflationRatio:      inflationRatio,
			CDRBuildoutStopped:  s.Policy.CDRBuildoutStop,
			Stream:              s.RNG.Stream(rng.PhaseProjectInitiation),
		})
		s.unspentCapitalUSD -= initRes.CapitalSpentUSD
	}

	// Phase 10: project advancement.
	climateRisk := policy.ClimateRiskMultiplier(s.Carbon.State.TemperatureAnom)
	advRes := s.Broker.Advance(climateRisk, s.RNG.Stream(rng.PhaseProjectAdvancement))
	retired := s.Broker.RetireIntensified(s.Carbon.State.PPM(), inflationRatio, s.RNG.Stream(rng.PhaseRetirement))
	if len(retired) > 0 {
		s.diag("projects", "intensified retirement sweep retired projects below 350ppm overshoot")
	}

	// Phase 11: audit and mint/burn. Mints scale by each channel's current
	// capacity fraction.
	capacityFrac := map[projects.Channel]float64{}
	for _, ch := range projects.InitiationOrder {
		_, capFrac, _ := s.Broker.MarginalCost(ch, esRatio)
		capacityFrac[ch] = capFrac
	}
	auditRes := audit.Run(s.Broker, s.Ledger, s.Countries, s.Scenario.EnableAudits, s.Policy.BrakeFactor, s.Policy.NetZeroEverReached, capacityFrac, s.RNG.Stream(rng.PhaseAudit))
	for _, msg := range auditRes.Diagnostics {
		s.diag("audit", msg)
	}

	// Phase 12: reversals — failed projects (advancement + audit clawback)
	// feed atmospheric carbon back in via the final carbon-cycle step
	// below.
	reversalGt := advRes.ReversalGt + auditRes.ReversalTonnes/tonnesPerGt

	// Phase 13: CQE floor defense.
	defenseRes := s.CQEPolicyImpl.Defend(cqe.DefenseInputs{
		MarketPrice:        s.MarketPrice,
		PriceFloor:         s.PriceFloor,
		RealizedInflation:  s.Inflation,
		InflationTarget:    s.Scenario.InflationTarget,
		OutstandingSupply:  s.Ledger.Supply,
		InterventionSizing: cqeInterventionSizing,
	})
	if defenseRes.Defended {
		s.Inflation += defenseRes.InflationImpact
		attributeCQEPurchase(s.Countries.Active(), defenseRes.SpendUSD)
	} else {
		s.diag("cqe", "no floor defense this tick (price at/above floor, zero willingness, or budget exhausted)")
	}
	s.lastBudgetUtilization = fluxguard.SafeDiv(s.CQE.AnnualSpentUSD, s.CQE.AnnualBudgetUSD)

	// Phase 14: carbon-cycle step — authoritative update using this tick's
	// realized operational flows.
	cdrFinalGt := s.Broker.SequestrationByChannel(projects.CDR) / tonnesPerGt
	convFinalGt := s.Broker.SequestrationByChannel(projects.CONVENTIONAL) / tonnesPerGt
	avdefFinalGt := s.Broker.SequestrationByChannel(projects.AVOIDED_DEFORESTATION) / tonnesPerGt
	delta := s.Carbon.Step(bauEmissions, cdrFinalGt, convFinalGt, avdefFinalGt, reversalGt)
	if delta.Clipped {
		s.diag("carbon", "flux guard clipped a carbon-cycle flow this tick")
	}
	s.lastDelta = delta

	snap := s.buildSnapshot(year, initRes, advRes, auditRes, delta, defenseRes, reversalGt)
	s.prevCO2PPM = s.Carbon.State.PPM()
	return snap
}

// buildSnapshot assembles the tick's output record from the simulation's
// post-tick state plus the per-phase results that aren't otherwise
// recoverable from state alone.
func (s *Simulation) buildSnapshot(year int, initRes projects.InitiationResult, advRes projects.AdvanceResult, auditRes audit.Result, delta carbon.Delta, defenseRes cqe.DefenseResult, reversalGt float64) Snapshot {
	total, operational, development, failed := s.Broker.Counts()

	cdrTonnes := s.Broker.SequestrationByChannel(projects.CDR)
	convTonnes := s.Broker.SequestrationByChannel(projects.CONVENTIONAL)
	avdefTonnes := s.Broker.SequestrationByChannel(projects.AVOIDED_DEFORESTATION)

	co2PPM := s.Carbon.State.PPM()
	bauPPM := s.BAU.State.PPM()

	return Snapshot{
		Year: year,

		CO2PPM:     co2PPM,
		BAUCO2PPM:  bauPPM,
		CO2Avoided: bauPPM - co2PPM,

		TemperatureAnomaly: s.Carbon.State.TemperatureAnom,
		Inflation:          s.Inflation,

		MarketPrice: s.MarketPrice,
		PriceFloor:  s.PriceFloor,
		Sentiment:   float64(s.Sentiment),
		BrakeFactor: s.Policy.BrakeFactor,

		XCRSupply:           s.Ledger.Supply,
		XCRMinted:           s.Ledger.AnnualMinted,
		XCRBurnedAnnual:     s.Ledger.AnnualBurned,
		XCRBurnedCumulative: s.Ledger.CumulativeBurned,
		CobenefitBonusXCR:   s.Ledger.CobenefitMintedYr,

		ProjectsTotal:       total,
		ProjectsOperational: operational,
		ProjectsDevelopment: development,
		ProjectsFailed:      failed,

		SequestrationTonnes:          cdrTonnes + convTonnes + avdefTonnes,
		CDRSequestrationTonnes:       cdrTonnes,
		ConventionalMitigationTonnes: convTonnes,
		AvoidedDeforestationTonnes:   avdefTonnes,
		ReversalTonnes:               reversalGt * tonnesPerGt,

		CQESpent:             s.CQE.CumulativeSpentUSD,
		AnnualCQESpent:       s.CQE.AnnualSpentUSD,
		AnnualCQEBudget:      s.CQE.AnnualBudgetUSD,
		CQEBudgetUtilization: s.lastBudgetUtilization,
		XCRPurchased:         defenseRes.XCRPurchased,
		CQEBudgetTotal:       s.cumulativeBudgetUSD,

		ActiveCountries: len(s.Countries.Active()),

		OceanUptakeGtC:         delta.OceanUptakeGtC,
		LandUptakeGtC:          delta.LandUptakeGtC,
		AirborneFraction:       delta.AirborneFraction,
		PermafrostEmissionsGtC: delta.PermafrostGtC,
		FireEmissionsGtC:       delta.FireEmissionsGtC,
		CumulativeEmissionsGtC: s.Carbon.State.CumulativeEmGtC,
		ClimateRiskMultiplier:  policy.ClimateRiskMultiplier(s.Carbon.State.TemperatureAnom),

		NetCapitalFlow:       s.Capital.NetFlowUSD,
		CapitalDemandPremium: s.Capital.DemandPremium,
		ForwardGuidance:      s.Capital.ForwardGuidance,

		CDRCostPerTonne:                 initRes.CDRCostPerTonne,
		ConventionalCostPerTonne:        initRes.ConvCostPerTonne,
		CDRCumulativeGtCO2:              s.Broker.CumulativeDeployGt[projects.CDR],
		ConventionalCumulativeGtCO2:     s.Broker.CumulativeDeployGt[projects.CONVENTIONAL],
		CDRREffective:                   s.Broker.REffectiveAverage(projects.CDR),
		ConventionalREffective:          s.Broker.REffectiveAverage(projects.CONVENTIONAL),
		ConventionalCapacityUtilization: initRes.ConvCapacityFrac,
		CDRMaterialUtilization:          initRes.CDRMaterialFrac,
		CDRBuildoutStopped:              s.Policy.CDRBuildoutStop,
	}
}

// attributeCQEPurchase distributes a floor-defense spend across active
// countries by their co-benefit weight, for reporting only.
func attributeCQEPurchase(active []*country.Country, spendUSD float64) {
	total := 0.0
	for _, c := range active {
		total += c.CobenefitWeight
	}
	if total <= 0 {
		return
	}
	for _, c := range active {
		c.AttributePurchase(spendUSD * c.CobenefitWeight / total)
	}
}
