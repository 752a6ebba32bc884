package projects

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/gcrsim/gcrsim/internal/country"
	"github.com/gcrsim/gcrsim/internal/rng"
)

const tonnesPerGt = 1e9

// Config holds the ProjectsBroker's configurable calibration knobs, all of
// them settable from the run scenario.
type Config struct {
	CDRMaterialBudgetGt       float64
	CDRMaterialCostMultiplier float64 // default 4
	CDRMaterialCapacityFloor  float64 // default 0.25
	CDRCapacityGtPerYear      float64 // default 20
	CDRLearningTaperMidpoint  float64
	CDRLearningTaperSlope     float64

	// CDRLearningRate / ConventionalLearningRate override the channel-table
	// defaults when nonzero.
	CDRLearningRate          float64
	ConventionalLearningRate float64

	FullScaleGt float64 // default 35 (within the 25-45 band)
	DamperSlope float64 // 0 = derive from FullScaleGt

	MaxStartsPerChannelPerYear int // "potential" starts before damping; default 40
}

// DefaultConfig returns the calibration the named scenario presets build on.
func DefaultConfig() Config {
	return Config{
		CDRMaterialBudgetGt:        500,
		CDRMaterialCostMultiplier:  4,
		CDRMaterialCapacityFloor:   0.25,
		CDRCapacityGtPerYear:       20,
		CDRLearningTaperMidpoint:   150,
		CDRLearningTaperSlope:      50,
		FullScaleGt:                35,
		MaxStartsPerChannelPerYear: 40,
	}
}

// Broker is the ProjectsBroker: it owns the single ordered
// project collection and advances it through initiation, advancement, and
// retirement each tick. Iteration order is insertion order.
type Broker struct {
	Config   Config
	Projects []*Project

	nextID int

	// CumulativeDeployGt tracks lifetime deployed capacity per channel, in
	// GtCO2e, driving the learning/depletion/scarcity curves.
	CumulativeDeployGt map[Channel]float64
	projectCountByCh   map[Channel]int
}

// NewBroker constructs an empty broker.
func NewBroker(cfg Config) *Broker {
	return &Broker{
		Config:             cfg,
		CumulativeDeployGt: map[Channel]float64{},
		projectCountByCh:   map[Channel]int{},
	}
}

// currentOperationalRateGt returns the combined operational+development
// annual sequestration for a channel, in Gt/yr, used for the capacity
// check.
func (b *Broker) currentOperationalRateGt(ch Channel) float64 {
	total := 0.0
	for _, p := range b.Projects {
		if p.Channel == ch && p.Status != FAILED {
			total += p.AnnualSequestrationT
		}
	}
	return total / tonnesPerGt
}

func (b *Broker) capacityCapGt(ch Channel, esRatio float64, cdrUtilization float64) float64 {
	switch ch {
	case CONVENTIONAL:
		_, capFloor := conventionalScarcity(b.CumulativeDeployGt[CONVENTIONAL])
		return 30.0 * capFloor
	case AVOIDED_DEFORESTATION:
		return 5.0
	case CDR:
		_, capFloor, _ := cdrScarcity(b.CumulativeDeployGt[CDR], b.Config.CDRMaterialBudgetGt, b.Config.CDRMaterialCostMultiplier, b.Config.CDRMaterialCapacityFloor)
		return b.Config.CDRCapacityGtPerYear * capFloor
	}
	return 0
}

// MarginalCost computes the current marginal cost per tonne for a channel:
// the base cost times the learning, depletion, scarcity, and (for
// CONVENTIONAL) net-zero-proximity multipliers.
func (b *Broker) MarginalCost(ch Channel, esRatio float64) (costPerTonne float64, capacityFrac float64, materialUtil float64) {
	static := channelTable[ch]
	cum := b.CumulativeDeployGt[ch]
	n := b.projectCountByCh[ch]

	learningRate := static.LearningRate
	switch {
	case ch == CDR && b.Config.CDRLearningRate > 0:
		learningRate = b.Config.CDRLearningRate
	case ch == CONVENTIONAL && b.Config.ConventionalLearningRate > 0:
		learningRate = b.Config.ConventionalLearningRate
	}
	learn := learningMultiplier(cum, static.LearningXRef, learningRate)
	if ch == CDR {
		learn = 1 + (learn-1)*cdrLearningTaper(cum, b.Config.CDRLearningTaperMidpoint, b.Config.CDRLearningTaperSlope)
	}
	dep := depletion(n)

	scarcityMult := 1.0
	switch ch {
	case CONVENTIONAL:
		scarcityMult, capacityFrac = conventionalScarcity(cum)
	case CDR:
		scarcityMult, capacityFrac, materialUtil = cdrScarcity(cum, b.Config.CDRMaterialBudgetGt, b.Config.CDRMaterialCostMultiplier, b.Config.CDRMaterialCapacityFloor)
	default:
		capacityFrac = 1.0
	}

	netZeroPenalty := 1.0
	if ch == CONVENTIONAL {
		netZeroPenalty = netZeroProximityPenalty(esRatio)
	}

	cost := static.BaseCostPerTonne * learn * dep * scarcityMult * netZeroPenalty
	return cost, capacityFrac, materialUtil
}

// InitiationInput carries the per-tick context the initiation phase needs
// from the rest of the simulation.
type InitiationInput struct {
	Year                int
	MarketPrice         float64
	BrakeFactor         float64
	CapitalAvailableUSD float64
	ActiveCountries     []*country.Country
	ESRatio             float64
	CO2PPM              float64
	InflationRatio      float64
	CDRBuildoutStopped  bool
	Stream              *rng.Stream
}

// InitiationResult reports what the initiation phase did this tick.
type InitiationResult struct {
	NewProjects        []*Project
	CapitalSpentUSD    float64
	CDRCostPerTonne    float64
	ConvCostPerTonne   float64
	ConvCapacityFrac   float64
	CDRCapacityFrac    float64
	CDRMaterialFrac    float64
}

func preferenceFor(ch Channel) func(*country.Country) bool {
	switch ch {
	case CDR:
		return func(c *country.Country) bool { return c.Region == country.RegionTropical || c.Tier != country.Tier1 }
	case CONVENTIONAL:
		return func(c *country.Country) bool { return c.Tier == country.Tier1 }
	case AVOIDED_DEFORESTATION:
		return func(c *country.Country) bool { return c.Region == country.RegionTropical }
	}
	return nil
}

// Initiate runs the strict-order (AVDEF → CONVENTIONAL → CDR) initiation
// phase for one tick.
func (b *Broker) Initiate(in InitiationInput) InitiationResult {
	result := InitiationResult{}
	remainingCapital := in.CapitalAvailableUSD
	cumGlobalGt := b.totalCumulativeGt()

	// Current marginal costs are reported even on ticks where no project
	// clears the gate.
	result.CDRCostPerTonne, result.CDRCapacityFrac, result.CDRMaterialFrac = b.MarginalCost(CDR, in.ESRatio)
	result.ConvCostPerTonne, result.ConvCapacityFrac, _ = b.MarginalCost(CONVENTIONAL, in.ESRatio)

	for _, ch := range InitiationOrder {
		if ch == CDR && in.CDRBuildoutStopped {
			continue
		}

		potential := float64(b.Config.MaxStartsPerChannelPerYear)
		damped := potential * countDamper(cumGlobalGt, b.Config.FullScaleGt, 0.3)
		damped *= urgencyMultiplier(in.CO2PPM, in.InflationRatio)
		maxStarts := int(damped)

		started := 0
		for started < maxStarts {
			cost, capFrac, matFrac := b.MarginalCost(ch, in.ESRatio)
			if ch == CDR {
				result.CDRCostPerTonne = cost
				result.CDRCapacityFrac = capFrac
				result.CDRMaterialFrac = matFrac
			}
			if ch == CONVENTIONAL {
				result.ConvCostPerTonne = cost
				result.ConvCapacityFrac = capFrac
			}

			// Initiation gate: market_price * brake_factor >= C_ch(t).
			if in.MarketPrice*in.BrakeFactor < cost {
				break
			}

			capCapGt := b.capacityCapGt(ch, in.ESRatio, matFrac)
			if b.currentOperationalRateGt(ch) >= capCapGt {
				break
			}

			p := b.tryInitiateOne(ch, in, cost, &remainingCapital, cumGlobalGt)
			if p == nil {
				break
			}
			result.NewProjects = append(result.NewProjects, p)
			started++
			cumGlobalGt = b.totalCumulativeGt()
		}
	}

	result.CapitalSpentUSD = in.CapitalAvailableUSD - remainingCapital
	return result
}

func (b *Broker) totalCumulativeGt() float64 {
	total := 0.0
	for _, v := range b.CumulativeDeployGt {
		total += v
	}
	return total
}

// DeployedChannels returns the channels with any recorded cumulative
// deployment, in deterministic ascending order, for reporting callers that
// need a stable iteration order over the per-channel deployment map.
func (b *Broker) DeployedChannels() []Channel {
	chs := maps.Keys(b.CumulativeDeployGt)
	slices.Sort(chs)
	return chs
}

func (b *Broker) tryInitiateOne(ch Channel, in InitiationInput, costPerTonne float64, remainingCapital *float64, cumGlobalGt float64) *Project {
	host := country.SelectHost(in.ActiveCountries, preferenceFor(ch), in.Stream)
	if host == nil {
		return nil
	}

	annualSeqTonnes := in.Stream.Uniform(10e6, 100e6) * scaleDamper(cumGlobalGt, b.Config.FullScaleGt, b.Config.DamperSlope)

	static := channelTable[ch]
	devYears := 1 + in.Stream.Intn(4) // 1-4 development years

	// Estimated front-loaded capital cost: annual output × per-tonne cost ×
	// development period, deducted from the shared capital pool at
	// initiation.
	estimatedCost := annualSeqTonnes * costPerTonne * float64(devYears)
	if estimatedCost > *remainingCapital {
		return nil
	}
	*remainingCapital -= estimatedCost

	baseR := 1.0
	if ch != CDR {
		marginalCDRCost, _, _ := b.MarginalCost(CDR, in.ESRatio)
		if marginalCDRCost <= 0 {
			marginalCDRCost = channelTable[CDR].BaseCostPerTonne
		}
		baseR = costPerTonne / marginalCDRCost
	}

	b.nextID++
	p := &Project{
		ID:                   b.nextID,
		Channel:              ch,
		HostCountryID:        host.ID,
		StartYear:            in.Year,
		DevelopmentYears:     devYears,
		AnnualSequestrationT: annualSeqTonnes,
		MarginalCostPerTonne: costPerTonne,
		BaseRValue:           baseR,
		EffectiveRValue:      baseR,
		Status:               DEVELOPMENT,
		Health:               1.0,
		maxOperationalYears:  static.MaxOperationalYears,
	}
	b.Projects = append(b.Projects, p)
	b.projectCountByCh[ch]++
	return p
}

// AdvanceResult reports the flows produced by the advancement phase.
type AdvanceResult struct {
	Transitioned []*Project
	Failed       []*Project
	ReversalGt   float64
}

// Advance ages every project one year, transitions DEVELOPMENT→OPERATIONAL
// once development_years elapse, rolls stochastic-failure checks for
// OPERATIONAL projects, and retires projects at their operational ceiling
func (b *Broker) Advance(climateRiskMultiplier float64, stream *rng.Stream) AdvanceResult {
	result := AdvanceResult{}
	for _, p := range b.Projects {
		switch p.Status {
		case DEVELOPMENT:
			p.developmentAge++
			if p.developmentAge >= p.DevelopmentYears {
				p.Status = OPERATIONAL
				b.CumulativeDeployGt[p.Channel] += p.AnnualSequestrationT / tonnesPerGt
				result.Transitioned = append(result.Transitioned, p)
			}
		case OPERATIONAL:
			static := channelTable[p.Channel]
			failProb := 0.02 * climateRiskMultiplier * static.FailureSensitivity
			if stream.Bool(failProb) {
				p.Status = FAILED
				reversalT := 0.0
				if p.Channel == CDR {
					reversalT = 0.10 * p.lifetimeTonnes()
				} else {
					reversalT = 0.50 * p.lifetimeTonnes()
				}
				result.ReversalGt += reversalT / tonnesPerGt
				result.Failed = append(result.Failed, p)
				continue
			}
			p.YearsOperational++
			if p.YearsOperational >= p.maxOperationalYears {
				p.Status = FAILED // retirement, no reversal
			}
		}
	}
	return result
}

func (p *Project) lifetimeTonnes() float64 {
	return p.AnnualSequestrationT * float64(p.YearsOperational+1)
}

// RetireIntensified applies the below-350-ppm intensified retirement sweep
// and returns the projects retired. No reversal: intensified retirement is
// a planned wind-down, not a failure.
func (b *Broker) RetireIntensified(co2PPM, inflationRatio float64, stream *rng.Stream) []*Project {
	prob := retirementIntensification(co2PPM, inflationRatio)
	if prob <= 0 {
		return nil
	}
	var retired []*Project
	for _, p := range b.Projects {
		if p.Status == OPERATIONAL && stream.Bool(prob) {
			p.Status = FAILED
			retired = append(retired, p)
		}
	}
	return retired
}

// Counts returns the current project counts by status, in a stable order.
func (b *Broker) Counts() (total, operational, development, failed int) {
	for _, p := range b.Projects {
		total++
		switch p.Status {
		case OPERATIONAL:
			operational++
		case DEVELOPMENT:
			development++
		case FAILED:
			failed++
		}
	}
	return
}

// OperationalByChannel returns the currently-operational projects for a
// channel, in insertion order.
func (b *Broker) OperationalByChannel(ch Channel) []*Project {
	var out []*Project
	for _, p := range b.Projects {
		if p.Channel == ch && p.Status == OPERATIONAL {
			out = append(out, p)
		}
	}
	return out
}

// SequestrationByChannel sums operational annual sequestration tonnes.
func (b *Broker) SequestrationByChannel(ch Channel) float64 {
	total := 0.0
	for _, p := range b.Projects {
		if p.Channel == ch && p.IsGenerating() {
			total += p.AnnualSequestrationT
		}
	}
	return total
}

// REffectiveAverage returns the sequestration-weighted average effective
// R-value for operational projects in a channel (0 if none).
func (b *Broker) REffectiveAverage(ch Channel) float64 {
	var weighted, weight float64
	for _, p := range b.Projects {
		if p.Channel == ch && p.IsGenerating() {
			weighted += p.EffectiveRValue * p.AnnualSequestrationT
			weight += p.AnnualSequestrationT
		}
	}
	if weight == 0 {
		return 0
	}
	return weighted / weight
}
