// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/emer/leabrasim/errs"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Sink persisting runs and epoch errors to a sqlite database.
// Path ":memory:" gives a private in-memory database.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errs.Configf("metrics: sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errors.Wrap(err, "metrics: open sqlite")
	}
	// one connection, so that :memory: is a single database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return errors.Wrap(err, "metrics: ping sqlite")
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return errors.Wrap(err, "metrics: create tables")
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) BeginRun(ctx context.Context, info RunInfo) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, name, network, param_sets, seed, started)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			network = excluded.network,
			param_sets = excluded.param_sets,
			seed = excluded.seed,
			started = excluded.started
	`, info.ID, info.Name, info.Network, strings.Join(info.ParamSets, ","), info.Seed, info.Started.UTC().Format(time.RFC3339Nano))
	return errors.Wrap(err, "metrics: insert run")
}

func (s *SQLiteStore) RecordEpoch(ctx context.Context, recs []EpochRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "metrics: begin")
	}
	for _, rc := range recs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO epoch_errors (run_id, epoch, layer, value, elapsed_ns)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(run_id, epoch, layer) DO UPDATE SET
				value = excluded.value,
				elapsed_ns = excluded.elapsed_ns
		`, rc.RunID, rc.Epoch, rc.Layer, rc.Value, int64(rc.Elapsed))
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "metrics: insert epoch error")
		}
	}
	return errors.Wrap(tx.Commit(), "metrics: commit")
}

func (s *SQLiteStore) EpochErrors(ctx context.Context, runID, layer string) ([]float64, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT value FROM epoch_errors
		WHERE run_id = ? AND layer = ?
		ORDER BY epoch
	`, runID, layer)
	if err != nil {
		return nil, errors.Wrap(err, "metrics: query epoch errors")
	}
	defer rows.Close()

	var vals []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "metrics: scan epoch error")
		}
		vals = append(vals, v)
	}
	return vals, errors.Wrap(rows.Err(), "metrics: epoch errors")
}

// RunIDs returns the ids of all runs, oldest first.
func (s *SQLiteStore) RunIDs(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM runs ORDER BY started, id`)
	if err != nil {
		return nil, errors.Wrap(err, "metrics: query runs")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "metrics: scan run")
		}
		ids = append(ids, id)
	}
	return ids, errors.Wrap(rows.Err(), "metrics: runs")
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errs.Sequencef("metrics: sqlite store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			network TEXT NOT NULL,
			param_sets TEXT NOT NULL,
			seed INTEGER NOT NULL,
			started TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS epoch_errors (
			run_id TEXT NOT NULL REFERENCES runs(id),
			epoch INTEGER NOT NULL,
			layer TEXT NOT NULL,
			value REAL NOT NULL,
			elapsed_ns INTEGER NOT NULL,
			PRIMARY KEY (run_id, epoch, layer)
		);
	`)
	return err
}
