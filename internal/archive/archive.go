// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive catalogs saved journal artifacts in SQLite.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrClosed is returned after the archive has been closed.
var ErrClosed = errors.New("archive is closed")

// =============================================================================
// ENTRY TYPE
// =============================================================================

// Entry is one cataloged artifact. The conversation itself is never stored
// here, only what the user explicitly accepted and exported.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // "entry" or "transcript"
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// ARCHIVE
// =============================================================================

// Archive is a SQLite-backed catalog of exported journal artifacts.
type Archive struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	title      TEXT NOT NULL,
	location   TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);
`

// Open opens (or creates) the archive database at the given path.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// DefaultPath returns the archive location under the config directory.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "archive.db")
}

// Close releases the database handle.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Record catalogs one saved artifact and returns the stored entry.
func (a *Archive) Record(kind, title, location string) (Entry, error) {
	if a.db == nil {
		return Entry{}, ErrClosed
	}

	e := Entry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     strings.TrimSpace(title),
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}
	if e.Title == "" {
		e.Title = "Untitled"
	}

	_, err := a.db.Exec(
		`INSERT INTO entries (id, kind, title, location, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.Title, e.Location, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record entry: %w", err)
	}
	return e, nil
}

// List returns all entries, newest first.
func (a *Archive) List() ([]Entry, error) {
	if a.db == nil {
		return nil, ErrClosed
	}

	rows, err := a.db.Query(
		`SELECT id, kind, title, location, created_at FROM entries ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Title, &e.Location, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of cataloged artifacts.
func (a *Archive) Count() (int, error) {
	if a.db == nil {
		return 0, ErrClosed
	}
	var n int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}
