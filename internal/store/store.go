// Package store provides SQLite-based persistence for completed simulation
// runs: the per-year snapshot sequence, diagnostics, and end-of-run country
// attribution, saved transactionally per run.
package store

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/gcrsim/gcrsim/internal/sim"
)

// DB wraps a SQLite connection for run-result persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path and applies the
// schema migration.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		years INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		aborted INTEGER NOT NULL,
		aborted_at_tick INTEGER NOT NULL,
		abort_reason TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		co2_ppm REAL NOT NULL,
		bau_co2_ppm REAL NOT NULL,
		temperature_anomaly REAL NOT NULL,
		inflation REAL NOT NULL,
		market_price REAL NOT NULL,
		price_floor REAL NOT NULL,
		sentiment REAL NOT NULL,
		brake_factor REAL NOT NULL,
		xcr_supply REAL NOT NULL,
		xcr_minted REAL NOT NULL,
		xcr_burned_annual REAL NOT NULL,
		projects_total INTEGER NOT NULL,
		projects_operational INTEGER NOT NULL,
		sequestration_tonnes REAL NOT NULL,
		annual_cqe_spent REAL NOT NULL,
		annual_cqe_budget REAL NOT NULL,
		active_countries INTEGER NOT NULL,
		PRIMARY KEY (run_id, year)
	);

	CREATE TABLE IF NOT EXISTS diagnostics (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		component TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS country_attribution (
		run_id TEXT NOT NULL,
		country_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		cumulative_xcr_earned REAL NOT NULL,
		cumulative_purchase_usd REAL NOT NULL,
		PRIMARY KEY (run_id, country_id)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots(run_id);
	CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id);
	CREATE INDEX IF NOT EXISTS idx_country_attribution_run ON country_attribution(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun persists a completed (or aborted) run: its header row, every
// year's snapshot, its diagnostics, and the end-of-run country attribution
// ledger, all inside one transaction so a crash mid-save never leaves a run
// partially recorded.
func (db *DB) SaveRun(result sim.RunResult) error {
	slog.Info("saving run", "run_id", result.RunID, "years", len(result.Snapshots), "aborted", result.Aborted)

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO runs
		(run_id, years, seed, aborted, aborted_at_tick, abort_reason)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.RunID.String(), result.Scenario.Years, result.Scenario.Seed,
		boolToInt(result.Aborted), result.AbortedAtTick, result.AbortReason,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM snapshots WHERE run_id = ?", result.RunID.String()); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO snapshots
		(run_id, year, co2_ppm, bau_co2_ppm, temperature_anomaly, inflation,
		 market_price, price_floor, sentiment, brake_factor, xcr_supply,
		 xcr_minted, xcr_burned_annual, projects_total, projects_operational,
		 sequestration_tonnes, annual_cqe_spent, annual_cqe_budget, active_countries)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, snap := range result.Snapshots {
		if _, err := stmt.Exec(
			result.RunID.String(), snap.Year, snap.CO2PPM, snap.BAUCO2PPM,
			snap.TemperatureAnomaly, snap.Inflation, snap.MarketPrice,
			snap.PriceFloor, snap.Sentiment, snap.BrakeFactor, snap.XCRSupply,
			snap.XCRMinted, snap.XCRBurnedAnnual, snap.ProjectsTotal,
			snap.ProjectsOperational, snap.SequestrationTonnes,
			snap.AnnualCQESpent, snap.AnnualCQEBudget, snap.ActiveCountries,
		); err != nil {
			return fmt.Errorf("insert snapshot year %d: %w", snap.Year, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM diagnostics WHERE run_id = ?", result.RunID.String()); err != nil {
		return err
	}
	for _, d := range result.Diagnostics {
		if _, err := tx.Exec(
			"INSERT INTO diagnostics (run_id, tick, component, message) VALUES (?, ?, ?, ?)",
			result.RunID.String(), d.Tick, d.Component, d.Message,
		); err != nil {
			return fmt.Errorf("insert diagnostic: %w", err)
		}
	}

	if _, err := tx.Exec("DELETE FROM country_attribution WHERE run_id = ?", result.RunID.String()); err != nil {
		return err
	}
	for _, c := range result.CountryAttribution {
		if _, err := tx.Exec(`INSERT INTO country_attribution
			(run_id, country_id, name, cumulative_xcr_earned, cumulative_purchase_usd)
			VALUES (?, ?, ?, ?, ?)`,
			result.RunID.String(), c.CountryID, c.Name, c.CumulativeXCREarned, c.CumulativePurchaseUSD,
		); err != nil {
			return fmt.Errorf("insert country attribution %d: %w", c.CountryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("run saved", "run_id", result.RunID)
	return nil
}

// SnapshotRow is one year's persisted snapshot, as read back from the
// database (a narrower projection of sim.Snapshot matching the schema
// above).
type SnapshotRow struct {
	Year               int     `db:"year"`
	CO2PPM             float64 `db:"co2_ppm"`
	BAUCO2PPM          float64 `db:"bau_co2_ppm"`
	TemperatureAnomaly float64 `db:"temperature_anomaly"`
	Inflation          float64 `db:"inflation"`
	MarketPrice        float64 `db:"market_price"`
	PriceFloor         float64 `db:"price_floor"`
	Sentiment          float64 `db:"sentiment"`
	BrakeFactor        float64 `db:"brake_factor"`
	XCRSupply          float64 `db:"xcr_supply"`
}

// RunSnapshots returns every persisted year for a run, in year order.
func (db *DB) RunSnapshots(runID string) ([]SnapshotRow, error) {
	var rows []SnapshotRow
	err := db.conn.Select(&rows,
		"SELECT year, co2_ppm, bau_co2_ppm, temperature_anomaly, inflation, market_price, price_floor, sentiment, brake_factor, xcr_supply FROM snapshots WHERE run_id = ? ORDER BY year",
		runID,
	)
	return rows, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
