package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcrsim/gcrsim/internal/scenario"
	"github.com/gcrsim/gcrsim/internal/sim"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "gcrsim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func fabricatedResult() sim.RunResult {
	return sim.RunResult{
		RunID:    uuid.New(),
		Scenario: scenario.Baseline(),
		Snapshots: []sim.Snapshot{
			{Year: 1, CO2PPM: 416.2, BAUCO2PPM: 416.9, TemperatureAnomaly: 1.1, Inflation: 0.02, MarketPrice: 152, PriceFloor: 100, Sentiment: 0.98, BrakeFactor: 1.0, XCRSupply: 1e6},
			{Year: 2, CO2PPM: 417.0, BAUCO2PPM: 418.4, TemperatureAnomaly: 1.12, Inflation: 0.021, MarketPrice: 154, PriceFloor: 100, Sentiment: 0.97, BrakeFactor: 0.9, XCRSupply: 2.5e6},
		},
		Diagnostics: []sim.Diagnostic{
			{Tick: 1, Component: "cqe", Message: "no floor defense this tick"},
		},
		CountryAttribution: []sim.CountryAttribution{
			{CountryID: 1, Name: "United States", CumulativeXCREarned: 1e5, CumulativePurchaseUSD: 2e6},
			{CountryID: 4, Name: "Brazil", CumulativeXCREarned: 3e5, CumulativePurchaseUSD: 0},
		},
	}
}

func TestSaveAndReadRun(t *testing.T) {
	db := newTestDB(t)
	result := fabricatedResult()

	require.NoError(t, db.SaveRun(result))

	rows, err := db.RunSnapshots(result.RunID.String())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Year)
	assert.Equal(t, 2, rows[1].Year)
	assert.InDelta(t, 416.2, rows[0].CO2PPM, 1e-9)
	assert.InDelta(t, 2.5e6, rows[1].XCRSupply, 1e-9)
}

func TestSaveRunIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	result := fabricatedResult()

	require.NoError(t, db.SaveRun(result))
	require.NoError(t, db.SaveRun(result))

	rows, err := db.RunSnapshots(result.RunID.String())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRunSnapshotsUnknownRunEmpty(t *testing.T) {
	db := newTestDB(t)
	rows, err := db.RunSnapshots(uuid.New().String())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
