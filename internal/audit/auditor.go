// Package audit implements the Auditor: per-project verification draws,
// XCR minting with the co-benefit overlay, and clawback on audit failure.
package audit

import (
	"github.com/gcrsim/gcrsim/internal/country"
	"github.com/gcrsim/gcrsim/internal/projects"
	"github.com/gcrsim/gcrsim/internal/rng"
	"github.com/gcrsim/gcrsim/internal/token"
)

// CobenefitFraction is the share of each mint reserved into the shared
// overlay pool.
const CobenefitFraction = 0.15

// ClawbackFraction is the share of a failed project's lifetime mint burned
// from supply.
const ClawbackFraction = 0.50

// Result reports what the audit phase did this tick, for the snapshot
// record and diagnostics.
type Result struct {
	MintedXCR          float64
	CobenefitMintedXCR float64
	ClawedBackXCR      float64
	ReversalTonnes     float64
	NewlyFailed        []*projects.Project
	Diagnostics        []string
}

// healthDecayOnMiss is how much a missed (but not failed) verification
// erodes project health, raising the next pass's failure odds.
const healthDecayOnMiss = 0.05

// Run performs one tick's audit phase: for each OPERATIONAL project,
// verification passes with probability 1 - 0.01*(1-health), independently
// fails 1% of the time; on pass it mints XCR scaled by the channel's
// capacity fraction (zero for CONVENTIONAL once the net-zero latch has
// tripped); on failure it claws back 50% of lifetime XCR and marks the
// project FAILED, emitting reversal tonnes.
func Run(broker *projects.Broker, ledger *token.Ledger, pool *country.Pool, enabled bool, brakeFactor float64, netZeroEverReached bool, capacityFrac map[projects.Channel]float64, stream *rng.Stream) Result {
	result := Result{}
	if !enabled {
		return result
	}

	byID := map[int]*country.Country{}
	for _, c := range pool.Countries {
		byID[c.ID] = c
	}

	var reversalTonnes float64

	for _, p := range broker.Projects {
		if p.Status != projects.OPERATIONAL {
			continue
		}

		failureDraw := stream.Bool(0.01)
		passDraw := stream.Bool(1 - 0.01*(1-p.Health))

		if failureDraw {
			clawback := ClawbackFraction * p.TotalXCRMinted
			burned, clipped := ledger.Burn(clawback)
			result.ClawedBackXCR += burned
			if clipped {
				result.Diagnostics = append(result.Diagnostics, "clawback exceeded outstanding supply; clipped at zero")
			}
			p.Status = projects.FAILED
			if p.Channel == projects.CDR {
				reversalTonnes += 0.10 * p.AnnualSequestrationT * float64(p.YearsOperational+1)
			} else {
				reversalTonnes += 0.50 * p.AnnualSequestrationT * float64(p.YearsOperational+1)
			}
			result.NewlyFailed = append(result.NewlyFailed, p)
			continue
		}

		if !passDraw {
			p.Health -= healthDecayOnMiss
			if p.Health < 0 {
				p.Health = 0
			}
			continue
		}

		capFrac := 1.0
		if f, ok := capacityFrac[p.Channel]; ok && f > 0 {
			capFrac = f
		}
		mintAmount := 0.0
		if !(p.Channel == projects.CONVENTIONAL && netZeroEverReached) {
			mintAmount = p.AnnualSequestrationT * p.EffectiveRValue * brakeFactor * capFrac
		}
		if mintAmount <= 0 {
			continue
		}

		reserved := ledger.ReserveCobenefit(mintAmount, CobenefitFraction)
		netMint := mintAmount - reserved
		ledger.Mint(netMint)
		p.TotalXCRMinted += netMint
		result.MintedXCR += netMint

		if host, ok := byID[p.HostCountryID]; ok {
			host.AttributeXCR(netMint)
		}
	}

	result.ReversalTonnes = reversalTonnes
	result.CobenefitMintedXCR = redistributeCobenefit(broker, ledger, pool)

	return result
}

// redistributeCobenefit drains the ledger's overlay pool and redistributes
// it across currently-operational projects weighted by host co-benefit
// weight.
func redistributeCobenefit(broker *projects.Broker, ledger *token.Ledger, pool *country.Pool) float64 {
	amount := ledger.DrainCobenefitPool()
	if amount <= 0 {
		return 0
	}

	byID := map[int]*country.Country{}
	for _, c := range pool.Countries {
		byID[c.ID] = c
	}

	type weighted struct {
		p *projects.Project
		w float64
	}
	var entries []weighted
	totalW := 0.0
	for _, p := range broker.Projects {
		if p.Status != projects.OPERATIONAL {
			continue
		}
		w := 0.5
		if host, ok := byID[p.HostCountryID]; ok {
			w = host.CobenefitWeight
		}
		entries = append(entries, weighted{p, w})
		totalW += w
	}
	if totalW <= 0 {
		return 0
	}

	distributed := 0.0
	for _, e := range entries {
		share := amount * (e.w / totalW)
		ledger.MintCobenefit(share)
		e.p.TotalXCRMinted += share
		distributed += share
		if host, ok := byID[e.p.HostCountryID]; ok {
			host.AttributeXCR(share)
		}
	}
	return distributed
}
