// Package sqlite implements diagram.Store on an embedded SQLite database,
// for single-user installs that keep their diagrams in a local file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store implements diagram.Store using SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. Use ":memory:" for a
// throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("diagram: open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("diagram: configure database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS diagrams (
    id    TEXT PRIMARY KEY,
    model TEXT NOT NULL DEFAULT 'kaos'
);

CREATE TABLE IF NOT EXISTS diagram_nodes (
    id         TEXT PRIMARY KEY,
    diagram_id TEXT NOT NULL REFERENCES diagrams(id) ON DELETE CASCADE,
    type       TEXT NOT NULL,
    pos_x      REAL NOT NULL DEFAULT 0,
    pos_y      REAL NOT NULL DEFAULT 0,
    width      REAL,
    height     REAL,
    data       TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS diagram_edges (
    id         TEXT PRIMARY KEY,
    diagram_id TEXT NOT NULL REFERENCES diagrams(id) ON DELETE CASCADE,
    source_id  TEXT NOT NULL REFERENCES diagram_nodes(id) ON DELETE CASCADE,
    target_id  TEXT NOT NULL REFERENCES diagram_nodes(id) ON DELETE CASCADE,
    type       TEXT NOT NULL,
    data       TEXT
);

CREATE TABLE IF NOT EXISTS custom_nodes (
    id  TEXT PRIMARY KEY,
    ord INTEGER NOT NULL DEFAULT 0,
    doc TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS custom_connections (
    id  TEXT PRIMARY KEY,
    ord INTEGER NOT NULL DEFAULT 0,
    doc TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_diagram_nodes_diagram_id ON diagram_nodes(diagram_id);
CREATE INDEX IF NOT EXISTS idx_diagram_edges_diagram_id ON diagram_edges(diagram_id);
CREATE INDEX IF NOT EXISTS idx_diagram_edges_source     ON diagram_edges(source_id);
CREATE INDEX IF NOT EXISTS idx_diagram_edges_target     ON diagram_edges(target_id);
`

// CreateSchema creates the diagram and catalog tables if they don't exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

// DropSchema drops every table created by CreateSchema.
func (s *Store) DropSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
DROP TABLE IF EXISTS diagram_edges;
DROP TABLE IF EXISTS diagram_nodes;
DROP TABLE IF EXISTS diagrams;
DROP TABLE IF EXISTS custom_nodes;
DROP TABLE IF EXISTS custom_connections;`)
	return err
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
