// Package token implements the TokenLedger: total XCR supply,
// minting, burning, and the co-benefit overlay pool.
package token

// Ledger tracks the XCR token supply. Invariant: Supply = Σmints - Σburns,
// and Supply ≥ 0 at all times.
type Ledger struct {
	Supply            float64
	AnnualMinted      float64
	AnnualBurned      float64
	CumulativeBurned  float64
	CobenefitPool     float64
	CobenefitMintedYr float64
}

// RolloverYear resets the annual counters at a tick's year boundary
func (l *Ledger) RolloverYear() {
	l.AnnualMinted = 0
	l.AnnualBurned = 0
	l.CobenefitMintedYr = 0
}

// Mint credits amount XCR to supply, recording it against the annual
// minted counter. Negative or zero amounts are no-ops.
func (l *Ledger) Mint(amount float64) {
	if amount <= 0 {
		return
	}
	l.Supply += amount
	l.AnnualMinted += amount
}

// MintCobenefit records an overlay mint: it increases supply and the
// annual-minted counter exactly like Mint, but is tracked separately as
// Cobenefit_Bonus_XCR since it does not correspond to sequestered tonnes
func (l *Ledger) MintCobenefit(amount float64) {
	if amount <= 0 {
		return
	}
	l.Supply += amount
	l.AnnualMinted += amount
	l.CobenefitMintedYr += amount
}

// Burn removes amount XCR from supply, clipping at zero and reporting
// whether clipping occurred (an under-run is a diagnostic, never an
// error).
func (l *Ledger) Burn(amount float64) (burned float64, clipped bool) {
	if amount <= 0 {
		return 0, false
	}
	burned = amount
	if burned > l.Supply {
		burned = l.Supply
		clipped = true
	}
	l.Supply -= burned
	l.AnnualBurned += burned
	l.CumulativeBurned += burned
	return burned, clipped
}

// ReserveCobenefit moves a fraction of newly minted XCR into the shared
// overlay pool, returning the amount reserved. Reserving does not change
// Supply: the reserved amount enters supply only when the pool is
// redistributed through MintCobenefit.
func (l *Ledger) ReserveCobenefit(mintedAmount, fraction float64) float64 {
	reserved := mintedAmount * fraction
	l.CobenefitPool += reserved
	return reserved
}

// DrainCobenefitPool empties the pool, returning the amount available for
// redistribution this tick.
func (l *Ledger) DrainCobenefitPool() float64 {
	amt := l.CobenefitPool
	l.CobenefitPool = 0
	return amt
}

// MarketCap returns Supply * marketPrice, the market capitalization the
// stability ratio is built on.
func (l *Ledger) MarketCap(marketPrice float64) float64 {
	return l.Supply * marketPrice
}
