// Package results persists simulation output to SQLite: one row per
// timestep plus per-run metadata, so runs can be compared after the fact.
package results

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/rlmcdaniel/ngen/model"
)

// Store wraps a SQLite connection.
type Store struct {
	conn *sqlx.DB
}

// StepRecord is one timestep's fluxes and storages.
type StepRecord struct {
	Step               int       `db:"step"`
	Time               time.Time `db:"time"`
	Input              float64   `db:"input"`
	EtLoss             float64   `db:"et_loss"`
	SurfaceRunoff      float64   `db:"surface_runoff"`
	SoilLateralFlow    float64   `db:"soil_lateral_flow"`
	PercolationFlow    float64   `db:"percolation_flow"`
	GroundwaterFlow    float64   `db:"groundwater_flow"`
	SoilStorage        float64   `db:"soil_storage"`
	GroundwaterStorage float64   `db:"groundwater_storage"`
}

// Record builds a StepRecord from a completed step.
func Record(step int, t time.Time, input float64, fx model.Fluxes, st model.State) StepRecord {
	return StepRecord{
		Step:               step,
		Time:               t,
		Input:              input,
		EtLoss:             fx.EtLoss,
		SurfaceRunoff:      fx.SurfaceRunoff,
		SoilLateralFlow:    fx.SoilLateralFlow,
		PercolationFlow:    fx.SoilPercolationFlow,
		GroundwaterFlow:    fx.GroundwaterFlow,
		SoilStorage:        st.SoilStorage,
		GroundwaterStorage: st.GroundwaterStorage,
	}
}

// Open opens or creates a results database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("results.Open: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("results.Open: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.conn.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		catchment TEXT NOT NULL,
		started TEXT NOT NULL,
		nsteps INTEGER NOT NULL,
		mass_errors INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS steps (
		run_id INTEGER NOT NULL,
		step INTEGER NOT NULL,
		time TEXT NOT NULL,
		input REAL NOT NULL,
		et_loss REAL NOT NULL,
		surface_runoff REAL NOT NULL,
		soil_lateral_flow REAL NOT NULL,
		percolation_flow REAL NOT NULL,
		groundwater_flow REAL NOT NULL,
		soil_storage REAL NOT NULL,
		groundwater_storage REAL NOT NULL,
		PRIMARY KEY (run_id, step)
	);

	CREATE INDEX IF NOT EXISTS idx_steps_run ON steps(run_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveRun writes one run's metadata and step records, returning the run id.
func (s *Store) SaveRun(catchment string, massErrors int, recs []StepRecord) (int64, error) {
	slog.Info("saving run", "catchment", catchment, "steps", len(recs), "mass_errors", massErrors)

	tx, err := s.conn.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO runs (catchment, started, nsteps, mass_errors) VALUES (?, ?, ?, ?)",
		catchment, time.Now().UTC().Format(time.RFC3339), len(recs), massErrors,
	)
	if err != nil {
		return 0, fmt.Errorf("results.SaveRun: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Preparex(`INSERT INTO steps
		(run_id, step, time, input, et_loss, surface_runoff, soil_lateral_flow,
		 percolation_flow, groundwater_flow, soil_storage, groundwater_storage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.Exec(
			runID, r.Step, r.Time.UTC().Format(time.RFC3339), r.Input, r.EtLoss,
			r.SurfaceRunoff, r.SoilLateralFlow, r.PercolationFlow, r.GroundwaterFlow,
			r.SoilStorage, r.GroundwaterStorage,
		); err != nil {
			return 0, fmt.Errorf("results.SaveRun: step %d: %w", r.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	slog.Info("run saved", "run_id", runID)
	return runID, nil
}

// Steps reads back a run's records in step order.
func (s *Store) Steps(runID int64) ([]StepRecord, error) {
	rows, err := s.conn.Queryx(
		`SELECT step, time, input, et_loss, surface_runoff, soil_lateral_flow,
		 percolation_flow, groundwater_flow, soil_storage, groundwater_storage
		 FROM steps WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StepRecord
	for rows.Next() {
		var r StepRecord
		var ts string
		if err := rows.Scan(&r.Step, &ts, &r.Input, &r.EtLoss, &r.SurfaceRunoff,
			&r.SoilLateralFlow, &r.PercolationFlow, &r.GroundwaterFlow,
			&r.SoilStorage, &r.GroundwaterStorage); err != nil {
			return nil, err
		}
		if r.Time, err = time.Parse(time.RFC3339, ts); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
