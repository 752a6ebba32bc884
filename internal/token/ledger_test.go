package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMintAndBurnTrackSupply(t *testing.T) {
	l := &Ledger{}
	l.Mint(100)
	l.Mint(50)
	burned, clipped := l.Burn(30)

	assert.Equal(t, 30.0, burned)
	assert.False(t, clipped)
	assert.Equal(t, 120.0, l.Supply)
	assert.Equal(t, 150.0, l.AnnualMinted)
	assert.Equal(t, 30.0, l.AnnualBurned)
	assert.Equal(t, 30.0, l.CumulativeBurned)

	// supply = mints - burns, always.
	assert.Equal(t, l.AnnualMinted-l.AnnualBurned, l.Supply)
}

func TestBurnClipsAtZero(t *testing.T) {
	l := &Ledger{}
	l.Mint(10)
	burned, clipped := l.Burn(25)

	assert.Equal(t, 10.0, burned)
	assert.True(t, clipped)
	assert.Zero(t, l.Supply)
}

func TestMintIgnoresNonPositive(t *testing.T) {
	l := &Ledger{}
	l.Mint(0)
	l.Mint(-5)
	assert.Zero(t, l.Supply)
	assert.Zero(t, l.AnnualMinted)
}

func TestRolloverYearKeepsSupplyAndCumulative(t *testing.T) {
	l := &Ledger{}
	l.Mint(100)
	l.MintCobenefit(10)
	l.Burn(20)
	l.RolloverYear()

	assert.Equal(t, 90.0, l.Supply)
	assert.Zero(t, l.AnnualMinted)
	assert.Zero(t, l.AnnualBurned)
	assert.Zero(t, l.CobenefitMintedYr)
	assert.Equal(t, 20.0, l.CumulativeBurned)
}

func TestCobenefitPoolReserveAndDrain(t *testing.T) {
	l := &Ledger{}
	reserved := l.ReserveCobenefit(100, 0.15)
	assert.Equal(t, 15.0, reserved)
	assert.Equal(t, 15.0, l.CobenefitPool)

	drained := l.DrainCobenefitPool()
	assert.Equal(t, 15.0, drained)
	assert.Zero(t, l.CobenefitPool)
}

func TestMintCobenefitTracksSeparately(t *testing.T) {
	l := &Ledger{}
	l.MintCobenefit(25)
	assert.Equal(t, 25.0, l.Supply)
	assert.Equal(t, 25.0, l.AnnualMinted)
	assert.Equal(t, 25.0, l.CobenefitMintedYr)
}

func TestMarketCap(t *testing.T) {
	l := &Ledger{}
	l.Mint(1000)
	assert.Equal(t, 120_000.0, l.MarketCap(120))
}
