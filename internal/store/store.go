// Package store persists the image catalog in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint would be violated.
var ErrDuplicate = errors.New("already exists")

// Store wraps the SQLite connection pool.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS images (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	location      TEXT NOT NULL UNIQUE,
	hash          TEXT NOT NULL,
	format        TEXT NOT NULL,
	description   TEXT,
	author        TEXT,
	camera        TEXT,
	orientation   INTEGER NOT NULL DEFAULT 1,
	x_resolution  REAL,
	y_resolution  REAL,
	date_taken    TEXT,
	exposure_time REAL,
	f_number      REAL,
	iso           INTEGER,
	focal_length  REAL,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_images_hash ON images(hash);

CREATE TABLE IF NOT EXISTS locations (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	directory TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS embeddings (
	image_id INTEGER PRIMARY KEY REFERENCES images(id) ON DELETE CASCADE,
	dim      INTEGER NOT NULL,
	vector   BLOB NOT NULL
);
`

// Open opens (creating if necessary) the catalog database at path and runs
// the idempotent schema migration. Use ":memory:" for an ephemeral catalog.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty database path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer; a second connection would fail with
	// SQLITE_BUSY under concurrent scans.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// isUniqueViolation recognizes SQLite unique-constraint failures across
// driver error representations.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
