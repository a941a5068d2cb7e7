package engine

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ScanRecord is one completed scan in the history log.
type ScanRecord struct {
	ID         int64  `json:"id"`
	Source     string `json:"source"`
	Videos     int    `json:"videos"`
	Warning    string `json:"warning,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// History is a SQLite-backed log of completed scans. It records outcomes
// only — the per-scan dedup state is never persisted.
type History struct {
	db *sql.DB
}

// OpenHistory opens (or creates) the scan history database. An empty path
// defaults to ~/.tubescan/history.db.
func OpenHistory(path string) (*History, error) {
	if path == "" {
		dir := filepath.Join(os.Getenv("HOME"), ".tubescan")
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("history: mkdir %s: %w", dir, err)
		}
		path = filepath.Join(dir, "history.db")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initHistorySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}
	return &History{db: db}, nil
}

func initHistorySchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS scans (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		source      TEXT NOT NULL,
		videos      INTEGER NOT NULL,
		warning     TEXT,
		error       TEXT,
		duration_ms INTEGER NOT NULL,
		created_at  TEXT NOT NULL
	)`)
	return err
}

// Record appends one completed scan to the log.
func (h *History) Record(ctx context.Context, source string, res ScanResult, took time.Duration) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO scans (source, videos, warning, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		source, len(res.Videos), res.Warning, res.Error,
		took.Milliseconds(), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// List returns the most recent scans, newest first.
func (h *History) List(ctx context.Context, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, source, videos, COALESCE(warning, ''), COALESCE(error, ''), duration_ms, created_at
		 FROM scans ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScanRecord
	for rows.Next() {
		var r ScanRecord
		if err := rows.Scan(&r.ID, &r.Source, &r.Videos, &r.Warning, &r.Error, &r.DurationMS, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (h *History) Close() error {
	return h.db.Close()
}
