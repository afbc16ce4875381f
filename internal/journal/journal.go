// Package journal records finished conversions in a local SQLite
// database so past runs can be listed and searched.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded conversion.
type Entry struct {
	ID           int64     `json:"id"`
	Source       string    `json:"source"`
	Output       string    `json:"output"`
	Mode         string    `json:"mode"`   // "rewrap" or "transcode"
	Status       string    `json:"status"` // "ok" or "failed"
	Title        string    `json:"title"`
	DurationSecs float64   `json:"duration_secs"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Store provides access to the conversion journal.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path and
// applies the schema. Use ":memory:" for an ephemeral journal.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %q: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a finished conversion and fills in e.ID.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.FinishedAt.IsZero() {
		e.FinishedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO conversions (source, output, mode, status, title, duration_secs, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Source, e.Output, e.Mode, e.Status, e.Title, e.DurationSecs, e.FinishedAt)
	if err != nil {
		return fmt.Errorf("record conversion: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("record conversion: %w", err)
	}
	return nil
}

// Recent returns the latest conversions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, output, mode, status, title, duration_secs, finished_at
		FROM conversions
		ORDER BY finished_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.Source, &e.Output, &e.Mode, &e.Status,
			&e.Title, &e.DurationSecs, &e.FinishedAt)
		if err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
