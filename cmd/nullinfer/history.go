package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// History is a CLI-only cache of past analysis runs, backed by
// modernc.org/sqlite. It lives entirely outside the engine's stateless
// library boundary (SPEC_FULL.md §4): pkg/inferapi never imports it, and
// nothing about Analyze's result depends on whether a History is present.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) a sqlite database at path and
// ensures its schema exists.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	pattern     TEXT NOT NULL,
	diagnostics INTEGER NOT NULL,
	max_flow    INTEGER NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL
);`
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: creating schema: %w", err)
	}
	return &History{db: db}, nil
}

// Record inserts one completed run.
func (h *History) Record(ctx context.Context, runID, pattern string, diagnostics, maxFlow int, startedAt, finishedAt string) error {
	const stmt = `INSERT OR REPLACE INTO runs (run_id, pattern, diagnostics, max_flow, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := h.db.ExecContext(ctx, stmt, runID, pattern, diagnostics, maxFlow, startedAt, finishedAt)
	return err
}

// Recent returns the n most recently finished runs, newest first.
func (h *History) Recent(ctx context.Context, n int) ([]RunRecord, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT run_id, pattern, diagnostics, max_flow, started_at, finished_at FROM runs ORDER BY finished_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Pattern, &r.Diagnostics, &r.MaxFlow, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying sqlite connection.
func (h *History) Close() error { return h.db.Close() }

// RunRecord is one row of run history.
type RunRecord struct {
	RunID       string
	Pattern     string
	Diagnostics int
	MaxFlow     int
	StartedAt   string
	FinishedAt  string
}
