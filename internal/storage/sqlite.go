package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/vinagrid/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		ligand TEXT NOT NULL,
		ligand_id TEXT,
		receptor TEXT NOT NULL,
		params TEXT NOT NULL,
		with_rmsd INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_ligand_id ON runs(ligand_id);

	CREATE TABLE IF NOT EXISTS points (
		run_id TEXT NOT NULL,
		point_index INTEGER NOT NULL,
		center_x REAL NOT NULL,
		center_y REAL NOT NULL,
		center_z REAL NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		has_pose INTEGER NOT NULL,
		mean_affinity REAL,
		std_dev REAL,
		affinities TEXT,
		rmsds TEXT,
		PRIMARY KEY (run_id, point_index),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveRun inserts a run and all of its points in one transaction. Saving a run ID that already
// exists replaces it.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *models.Run) error {
	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, ligand, ligand_id, receptor, params, with_rmsd, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Params.Ligand, run.LigandID, run.Params.Receptor, string(paramsJSON),
		run.WithRMSD, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO points (run_id, point_index, center_x, center_y, center_z, timestamp,
		 has_pose, mean_affinity, std_dev, affinities, rmsds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range run.Points {
		affinities, err := json.Marshal(nonNil(p.Affinities))
		if err != nil {
			return err
		}
		rmsds, err := json.Marshal(nonNil(p.RMSDs))
		if err != nil {
			return err
		}
		var mean, std sql.NullFloat64
		if p.HasPose {
			mean = sql.NullFloat64{Float64: p.Mean, Valid: true}
			std = sql.NullFloat64{Float64: p.StdDev, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, p.Center.X, p.Center.Y, p.Center.Z, p.Timestamp,
			p.HasPose, mean, std, string(affinities), string(rmsds)); err != nil {
			return fmt.Errorf("failed to insert point %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// GetRun returns a run with its points ordered by index.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	var paramsJSON string
	var ligandID sql.NullString
	var finished sql.NullTime

	err := s.db.QueryRowContext(ctx,
		`SELECT id, ligand_id, params, with_rmsd, started_at, finished_at FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &ligandID, &paramsJSON, &run.WithRMSD, &run.StartedAt, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	run.LigandID = ligandID.String
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	if err := json.Unmarshal([]byte(paramsJSON), &run.Params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT point_index, center_x, center_y, center_z, timestamp, has_pose,
		 mean_affinity, std_dev, affinities, rmsds
		 FROM points WHERE run_id = ? ORDER BY point_index`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.PointResult
		var mean, std sql.NullFloat64
		var affinities, rmsds sql.NullString
		if err := rows.Scan(&p.Index, &p.Center.X, &p.Center.Y, &p.Center.Z, &p.Timestamp, &p.HasPose,
			&mean, &std, &affinities, &rmsds); err != nil {
			return nil, err
		}
		p.Mean, p.StdDev = mean.Float64, std.Float64
		if err := unmarshalScores(affinities, &p.Affinities); err != nil {
			return nil, err
		}
		if err := unmarshalScores(rmsds, &p.RMSDs); err != nil {
			return nil, err
		}
		run.Points = append(run.Points, &p)
	}
	return &run, rows.Err()
}

// DeleteRun removes a run and its points.
func (s *SQLiteStorage) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListRuns returns run summaries, newest first, with offset and limit.
func (s *SQLiteStorage) ListRuns(ctx context.Context, offset, limit int) ([]*models.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.ligand, r.ligand_id, r.receptor, r.started_at, r.finished_at,
		 COUNT(p.point_index), COALESCE(SUM(p.has_pose), 0), MIN(p.mean_affinity)
		 FROM runs r LEFT JOIN points p ON p.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.started_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RunSummary
	for rows.Next() {
		var sum models.RunSummary
		var ligandID sql.NullString
		var finished sql.NullTime
		var best sql.NullFloat64
		if err := rows.Scan(&sum.ID, &sum.Ligand, &ligandID, &sum.Receptor, &sum.StartedAt, &finished,
			&sum.Points, &sum.WithPose, &best); err != nil {
			return nil, err
		}
		sum.LigandID = ligandID.String
		if finished.Valid {
			sum.FinishedAt = finished.Time
		}
		if best.Valid {
			v := best.Float64
			sum.BestMean = &v
		}
		out = append(out, &sum)
	}
	return out, rows.Err()
}

// HasLigand reports whether any stored run docked the ligand with this ID.
func (s *SQLiteStorage) HasLigand(ctx context.Context, ligandID string) (bool, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE ligand_id = ?`, ligandID).Scan(&n)
	return n > 0, err
}

// CountRuns returns the total number of runs.
func (s *SQLiteStorage) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count)
	return count, err
}

// CountPoints returns the total number of stored grid points.
func (s *SQLiteStorage) CountPoints(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM points`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func nonNil(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}

func unmarshalScores(s sql.NullString, dst *[]float64) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	var v []float64
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	if len(v) > 0 {
		*dst = v
	}
	return nil
}

var _ Storage = (*SQLiteStorage)(nil)
