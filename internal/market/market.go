// Package market implements the InvestorMarket and CapitalMarket: investor
// sentiment, net capital flow, the capital demand premium, forward
// guidance, and price discovery for the global XCR market.
package market

import "github.com/gcrsim/gcrsim/internal/fluxguard"

// Sentiment is the InvestorMarket's scalar trust state, bounded to
// [0.1, 1.0].
type Sentiment float64

// Clamp bounds sentiment to its valid range.
func (s Sentiment) Clamp() Sentiment {
	return Sentiment(fluxguard.Clamp(float64(s), 0.1, 1.0))
}

// SentimentInputs carries the per-tick signals the default sentiment rule
// consumes.
type SentimentInputs struct {
	NewWarning        bool
	PersistentWarning bool
	RealizedInflation float64
	InflationTarget   float64
	CO2Decreased      bool
	StrongGuidance    bool
	FloorRevisedUp    bool
}

// SentimentPolicy is the swappable sentiment-decision seam:
// the default rule-based implementation lives here; an alternative
// decision engine can satisfy the same interface.
type SentimentPolicy interface {
	UpdateSentiment(prev Sentiment, in SentimentInputs) Sentiment
}

// RuleBasedSentiment is the default SentimentPolicy.
type RuleBasedSentiment struct{}

// UpdateSentiment applies warnings, inflation penalties, recovery, the
// CO2-progress bonus, and guidance/floor bonuses, in that order, then
// clamps to [0.1, 1.0].
func (RuleBasedSentiment) UpdateSentiment(prev Sentiment, in SentimentInputs) Sentiment {
	s := float64(prev)

	if in.NewWarning {
		s *= 0.97
	} else if in.PersistentWarning {
		s *= 0.995
	}

	if in.InflationTarget > 0 && in.RealizedInflation > 0 {
		ratio := in.RealizedInflation / in.InflationTarget
		switch {
		case ratio >= 3:
			s *= 0.94
		case ratio >= 2:
			s *= 0.97
		case ratio >= 1.5:
			s *= 0.995
		}
	}

	if !in.NewWarning && !in.PersistentWarning && in.InflationTarget > 0 {
		gap := in.RealizedInflation - in.InflationTarget
		if gap < 0 {
			gap = -gap
		}
		if gap <= 0.5*in.InflationTarget {
			s += 0.02 * (1.0 - s)
		}
	}

	if in.CO2Decreased {
		s += 0.01
	}
	if in.StrongGuidance {
		s += 0.01
	}
	if in.FloorRevisedUp {
		s += 0.01
	}

	return Sentiment(s).Clamp()
}

// CapitalState is the CapitalMarket's mutable output state.
type CapitalState struct {
	CumulativeInflowUSD float64
	NetFlowUSD          float64
	DemandPremium       float64
	ForwardGuidance     float64
}

// CapitalInputs carries the per-tick signals the default capital-flow rule
// consumes.
type CapitalInputs struct {
	YearsSinceXCRStart int
	ClimateUrgency     float64 // 0..1
	RealizedInflation  float64
	InflationTarget    float64
	Sentiment          Sentiment
	MarketCapUSD       float64
	OneTimeSeedCapital float64
	SeedCapitalSpent   bool
}

// CapitalPolicy is the swappable capital-flow decision seam.
type CapitalPolicy interface {
	UpdateCapital(prev CapitalState, in CapitalInputs) (CapitalState, bool /* seedSpentThisTick */)
}

// RuleBasedCapital is the default CapitalPolicy.
type RuleBasedCapital struct{}

// UpdateCapital computes combined attractiveness from climate urgency,
// inflation-hedge demand, sentiment, and forward guidance; compares it
// against a neutrality threshold that ramps from ~0.6 to ~0.3 over the
// first ~10 years; and derives net flow, demand premium, and guidance
func (RuleBasedCapital) UpdateCapital(prev CapitalState, in CapitalInputs) (CapitalState, bool) {
	out := prev

	inflationHedge := 0.0
	if in.InflationTarget > 0 {
		ratio := in.RealizedInflation / in.InflationTarget
		if ratio > 1 {
			inflationHedge = fluxguard.Clamp((ratio-1)/3.0, 0, 0.4)
		}
	}

	attractiveness := 0.35*in.ClimateUrgency + 0.25*inflationHedge + 0.25*float64(in.Sentiment) + 0.15*out.ForwardGuidance
	attractiveness = fluxguard.Clamp(attractiveness, 0, 1)

	rampYears := 10.0
	progress := fluxguard.Clamp(float64(in.YearsSinceXCRStart)/rampYears, 0, 1)
	threshold := 0.6 - 0.3*progress

	netFlowFraction := attractiveness - threshold
	baseScaleUSD := 5e9 // calibration: $5B per year at full scale per unit of excess attractiveness
	out.NetFlowUSD = netFlowFraction * baseScaleUSD

	seedSpentThisTick := false
	if !in.SeedCapitalSpent && in.MarketCapUSD < 50e9 {
		out.NetFlowUSD += in.OneTimeSeedCapital
		seedSpentThisTick = true
	}

	if out.NetFlowUSD > 0 {
		out.CumulativeInflowUSD += out.NetFlowUSD
	}

	out.DemandPremium = fluxguard.ClampMin(netFlowFraction, 0) * 30.0 // USD/XCR, calibration constant
	out.ForwardGuidance = fluxguard.Clamp(0.5+0.5*netFlowFraction, 0, 1)

	return out, seedSpentThisTick
}

// PriceDiscovery implements market_price = price_floor + 50*sentiment +
// capital_demand_premium.
func PriceDiscovery(priceFloor float64, sentiment Sentiment, capitalDemandPremium float64) float64 {
	return priceFloor + 50*float64(sentiment) + capitalDemandPremium
}
