// Package country implements Country entities, the fixed 50-country
// adoption pool, and weighted host-country selection for new projects.
package country

import (
	"math"
	"sort"

	"github.com/gcrsim/gcrsim/internal/rng"
)

// Tier is the country development tier.
type Tier int

const (
	Tier1 Tier = 1 // OECD / developed
	Tier2 Tier = 2 // emerging
	Tier3 Tier = 3 // developing
)

// Region groups countries for channel host-preference weighting.
type Region int

const (
	RegionTemperate Region = iota
	RegionTropical
)

// Country is one member of the adoption pool. Created once at simulation
// start; mutated only by adoption (active false→true, monotonic) and
// per-tick attribution accumulation.
type Country struct {
	ID                  int
	Name                string
	GDPTrillionsUSD     float64
	Tier                Tier
	Region              Region
	OECD                bool
	HistoricalEmissions float64
	CobenefitWeight     float64 // base_cqe: used for attribution, not budget
	Active              bool

	CumulativeXCREarned        float64
	CumulativePurchaseEquivUSD float64

	// AnnualXCREarned / AnnualPurchaseEquivUSD are reset each tick and
	// folded into the cumulative totals, giving a year-by-year series in
	// addition to the end-of-run totals.
	AnnualXCREarned        float64
	AnnualPurchaseEquivUSD float64
}

// AttributeXCR records minted XCR attributed to this country.
func (c *Country) AttributeXCR(amount float64) {
	c.AnnualXCREarned += amount
	c.CumulativeXCREarned += amount
}

// AttributePurchase records a CQE-purchase-equivalent attribution in USD.
func (c *Country) AttributePurchase(amountUSD float64) {
	c.AnnualPurchaseEquivUSD += amountUSD
	c.CumulativePurchaseEquivUSD += amountUSD
}

// RolloverYear resets the per-tick attribution accumulators.
func (c *Country) RolloverYear() {
	c.AnnualXCREarned = 0
	c.AnnualPurchaseEquivUSD = 0
}

// Pool owns the fixed roster of countries created at simulation start
type Pool struct {
	Countries []*Country
}

// NewFoundingPool returns the five founding (always-active) countries, used
// as the base of every scenario.
func NewFoundingPool() []*Country {
	return []*Country{
		{ID: 1, Name: "United States", GDPTrillionsUSD: 26.9, Tier: Tier1, Region: RegionTemperate, OECD: true, CobenefitWeight: 0.8, Active: true},
		{ID: 2, Name: "Germany", GDPTrillionsUSD: 4.4, Tier: Tier1, Region: RegionTemperate, OECD: true, CobenefitWeight: 0.8, Active: true},
		{ID: 3, Name: "China", GDPTrillionsUSD: 17.7, Tier: Tier2, Region: RegionTemperate, OECD: false, CobenefitWeight: 0.6, Active: true},
		{ID: 4, Name: "Brazil", GDPTrillionsUSD: 2.1, Tier: Tier2, Region: RegionTropical, OECD: false, CobenefitWeight: 0.9, Active: true},
		{ID: 5, Name: "Indonesia", GDPTrillionsUSD: 1.4, Tier: Tier3, Region: RegionTropical, OECD: false, CobenefitWeight: 0.9, Active: true},
	}
}

// NewPool builds the full 50-country pool: the five founders plus 45
// synthetic countries spanning tiers and regions, deterministic given the
// pool's construction order (no RNG consumed — composition is fixed, only
// GDP jitter at selection time is stochastic).
func NewPool() *Pool {
	countries := NewFoundingPool()
	tiers := []Tier{Tier1, Tier2, Tier3}
	regions := []Region{RegionTemperate, RegionTropical}
	names := []string{
		"Canada", "France", "Japan", "UK", "Italy", "Spain", "Poland", "Australia",
		"South Korea", "Netherlands", "Mexico", "India", "Turkey", "Saudi Arabia",
		"Argentina", "South Africa", "Nigeria", "Vietnam", "Thailand", "Egypt",
		"Kenya", "Colombia", "Philippines", "Pakistan", "Bangladesh", "Peru",
		"Chile", "Malaysia", "Morocco", "Ghana", "Ethiopia", "DR Congo",
		"Cambodia", "Laos", "Myanmar", "Ecuador", "Bolivia", "Paraguay",
		"Tanzania", "Uganda", "Zambia", "Angola", "Madagascar", "Gabon", "Papua New Guinea",
	}
	for i, name := range names {
		id := len(countries) + 1
		tier := tiers[i%len(tiers)]
		region := regions[i%len(regions)]
		gdp := 0.05 + math.Mod(float64(i*37), 300)/10.0
		countries = append(countries, &Country{
			ID:                  id,
			Name:                name,
			GDPTrillionsUSD:     gdp,
			Tier:                tier,
			Region:              region,
			OECD:                tier == Tier1,
			HistoricalEmissions: gdp * 0.4,
			CobenefitWeight:     0.5 + 0.4*float64(region),
			Active:              false,
		})
	}
	return &Pool{Countries: countries}
}

// Active returns the currently active countries, in stable ID order.
func (p *Pool) Active() []*Country {
	out := make([]*Country, 0, len(p.Countries))
	for _, c := range p.Countries {
		if c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActiveGDPTotal sums GDP across active countries, the base of the CQE
// budget's GDP cap.
func (p *Pool) ActiveGDPTotal() float64 {
	total := 0.0
	for _, c := range p.Active() {
		total += c.GDPTrillionsUSD
	}
	return total
}

// AdoptNext activates up to n inactive countries, ordered by descending GDP
// (larger economies adopt first). A fractional rate is handled
// probabilistically: the fractional part adopts one extra country with
// that probability. Adoption is monotonic: Active only ever flips
// false→true.
func (p *Pool) AdoptNext(rate float64, stream *rng.Stream) []*Country {
	whole := int(rate)
	frac := rate - float64(whole)
	count := whole
	if frac > 0 && stream.Bool(frac) {
		count++
	}
	if count <= 0 {
		return nil
	}

	candidates := make([]*Country, 0)
	for _, c := range p.Countries {
		if !c.Active {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].GDPTrillionsUSD != candidates[j].GDPTrillionsUSD {
			return candidates[i].GDPTrillionsUSD > candidates[j].GDPTrillionsUSD
		}
		return candidates[i].ID < candidates[j].ID
	})

	if count > len(candidates) {
		count = len(candidates)
	}
	adopted := make([]*Country, 0, count)
	for i := 0; i < count; i++ {
		candidates[i].Active = true
		adopted = append(adopted, candidates[i])
	}
	return adopted
}

// SelectHost picks an active country for a new project, weighted by
// sqrt(GDP) with ±50% jitter and a per-channel region/tier preference
// predicate. Preferred countries are weighted 3x to express the bias
// without excluding the rest of the active pool.
func SelectHost(active []*Country, prefers func(*Country) bool, stream *rng.Stream) *Country {
	if len(active) == 0 {
		return nil
	}
	weights := make([]float64, len(active))
	total := 0.0
	for i, c := range active {
		w := math.Sqrt(c.GDPTrillionsUSD) * (0.5 + stream.Float64())
		if prefers != nil && prefers(c) {
			w *= 3.0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return active[stream.Intn(len(active))]
	}
	pick := stream.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if pick <= cum {
			return active[i]
		}
	}
	return active[len(active)-1]
}
