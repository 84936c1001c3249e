/*
DESCRIPTION
  store.go provides Store, a sqlite database of flow extraction runs holding
  each run's flow series, segmentation labels and interval tables.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package store provides persistence of flow series and segmentation results
// between the flow and segmentation stages.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"github.com/ausocean/flowseg/flow"
	"github.com/ausocean/flowseg/segment"
)

// Interval table kinds.
const (
	KindView  = "view"
	KindVisit = "visit"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		input TEXT,
		grid_rows INTEGER,
		grid_cols INTEGER,
		frames INTEGER,
		created INTEGER
	);
	CREATE TABLE IF NOT EXISTS flows (
		run_id TEXT,
		idx INTEGER,
		flow BLOB,
		PRIMARY KEY (run_id, idx),
		FOREIGN KEY(run_id) REFERENCES runs(run_id)
	);
	CREATE TABLE IF NOT EXISTS labels (
		run_id TEXT,
		idx INTEGER,
		new_segment BOOLEAN,
		in_visit BOOLEAN,
		view INTEGER,
		magnitude DOUBLE,
		estimate DOUBLE,
		fit_failed BOOLEAN,
		PRIMARY KEY (run_id, idx),
		FOREIGN KEY(run_id) REFERENCES runs(run_id)
	);
	CREATE TABLE IF NOT EXISTS intervals (
		run_id TEXT,
		kind TEXT,
		idx INTEGER,
		start_frame INTEGER,
		end_frame INTEGER,
		type TEXT,
		PRIMARY KEY (run_id, kind, idx),
		FOREIGN KEY(run_id) REFERENCES runs(run_id)
	);
`

// Store is a sqlite backed store of runs.
type Store struct {
	*sql.DB
}

// Run describes a stored flow series.
type Run struct {
	ID         uuid.UUID
	Input      string // Path of the frame source.
	Rows, Cols int    // Grid shape.
	Frames     int    // Number of transitions in the series.
	Created    time.Time
}

// Open opens, creating if needed, the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create schema: %w", err)
	}
	return &Store{db}, nil
}

// SaveSeries stores series as a new run and returns its ID.
func (s *Store) SaveSeries(input string, rows, cols int, series flow.Series) (uuid.UUID, error) {
	id := uuid.New()
	tx, err := s.Begin()
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO runs (run_id, input, grid_rows, grid_cols, frames, created) VALUES (?, ?, ?, ?, ?, ?)",
		id.String(), input, rows, cols, len(series), time.Now().UnixNano())
	if err != nil {
		return uuid.Nil, fmt.Errorf("could not insert run: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO flows (run_id, idx, flow) VALUES (?, ?, ?)")
	if err != nil {
		return uuid.Nil, err
	}
	defer stmt.Close()
	for i, f := range series {
		b, err := msgpack.Marshal(f)
		if err != nil {
			return uuid.Nil, fmt.Errorf("could not encode flow %d: %w", i, err)
		}
		_, err = stmt.Exec(id.String(), i, b)
		if err != nil {
			return uuid.Nil, fmt.Errorf("could not insert flow %d: %w", i, err)
		}
	}
	return id, tx.Commit()
}

// Run returns the run with the given ID.
func (s *Store) Run(id uuid.UUID) (Run, error) {
	row := s.QueryRow("SELECT run_id, input, grid_rows, grid_cols, frames, created FROM runs WHERE run_id = ?", id.String())
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return r, err
}

// Runs returns all runs, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.Query("SELECT run_id, input, grid_rows, grid_cols, frames, created FROM runs ORDER BY created DESC, rowid DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r       Run
		id      string
		created int64
	)
	err := sc.Scan(&id, &r.Input, &r.Rows, &r.Cols, &r.Frames, &created)
	if err != nil {
		return Run{}, err
	}
	r.ID, err = uuid.Parse(id)
	if err != nil {
		return Run{}, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	r.Created = time.Unix(0, created)
	return r, nil
}

// Series returns the flow series of a run.
func (s *Store) Series(id uuid.UUID) (flow.Series, error) {
	_, err := s.Run(id)
	if err != nil {
		return nil, err
	}

	rows, err := s.Query("SELECT flow FROM flows WHERE run_id = ? ORDER BY idx", id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series flow.Series
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		var f flow.Flow
		err = msgpack.Unmarshal(b, &f)
		if err != nil {
			return nil, fmt.Errorf("could not decode flow %d: %w", len(series), err)
		}
		series = append(series, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return series, nil
}

// SaveLabels replaces the segmentation labels of a run.
func (s *Store) SaveLabels(id uuid.UUID, labels []segment.Label) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM labels WHERE run_id = ?", id.String())
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO labels (run_id, idx, new_segment, in_visit, view, magnitude, estimate, fit_failed) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, l := range labels {
		_, err = stmt.Exec(id.String(), i, l.NewSegment, l.InVisit, l.View, l.Magnitude, l.Estimate, l.FitFailed)
		if err != nil {
			return fmt.Errorf("could not insert label %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Labels returns the segmentation labels of a run.
func (s *Store) Labels(id uuid.UUID) ([]segment.Label, error) {
	rows, err := s.Query("SELECT new_segment, in_visit, view, magnitude, estimate, fit_failed FROM labels WHERE run_id = ? ORDER BY idx", id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []segment.Label
	for rows.Next() {
		var l segment.Label
		if err := rows.Scan(&l.NewSegment, &l.InVisit, &l.View, &l.Magnitude, &l.Estimate, &l.FitFailed); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

// SaveIntervals replaces the interval table of the given kind for a run.
func (s *Store) SaveIntervals(id uuid.UUID, kind string, intervals []segment.Interval) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM intervals WHERE run_id = ? AND kind = ?", id.String(), kind)
	if err != nil {
		return err
	}
	for i, iv := range intervals {
		_, err = tx.Exec("INSERT INTO intervals (run_id, kind, idx, start_frame, end_frame, type) VALUES (?, ?, ?, ?, ?, ?)",
			id.String(), kind, i, iv.Start, iv.End, iv.Type)
		if err != nil {
			return fmt.Errorf("could not insert interval %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Intervals returns the interval table of the given kind for a run.
func (s *Store) Intervals(id uuid.UUID, kind string) ([]segment.Interval, error) {
	rows, err := s.Query("SELECT start_frame, end_frame, type FROM intervals WHERE run_id = ? AND kind = ? ORDER BY idx", id.String(), kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intervals []segment.Interval
	for rows.Next() {
		var iv segment.Interval
		if err := rows.Scan(&iv.Start, &iv.End, &iv.Type); err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return intervals, nil
}
