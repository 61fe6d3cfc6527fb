package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS diagrams (
    id         TEXT PRIMARY KEY,
    model      TEXT NOT NULL DEFAULT 'kaos',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS diagram_nodes (
    id         TEXT PRIMARY KEY,
    seq        BIGSERIAL,
    diagram_id TEXT NOT NULL REFERENCES diagrams(id) ON DELETE CASCADE,
    type       TEXT NOT NULL,
    pos_x      DOUBLE PRECISION NOT NULL DEFAULT 0,
    pos_y      DOUBLE PRECISION NOT NULL DEFAULT 0,
    width      DOUBLE PRECISION,
    height     DOUBLE PRECISION,
    data       JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS diagram_edges (
    id         TEXT PRIMARY KEY,
    seq        BIGSERIAL,
    diagram_id TEXT NOT NULL REFERENCES diagrams(id) ON DELETE CASCADE,
    source_id  TEXT NOT NULL REFERENCES diagram_nodes(id) ON DELETE CASCADE,
    target_id  TEXT NOT NULL REFERENCES diagram_nodes(id) ON DELETE CASCADE,
    type       TEXT NOT NULL,
    data       JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS custom_nodes (
    id  TEXT PRIMARY KEY,
    ord INTEGER NOT NULL DEFAULT 0,
    doc JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS custom_connections (
    id  TEXT PRIMARY KEY,
    ord INTEGER NOT NULL DEFAULT 0,
    doc JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_diagram_nodes_diagram_id ON diagram_nodes(diagram_id);
CREATE INDEX IF NOT EXISTS idx_diagram_edges_diagram_id ON diagram_edges(diagram_id);
CREATE INDEX IF NOT EXISTS idx_diagram_edges_source     ON diagram_edges(source_id);
CREATE INDEX IF NOT EXISTS idx_diagram_edges_target     ON diagram_edges(target_id);
`

// CreateSchema creates the diagram and catalog tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops every table created by CreateSchema.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS diagram_edges, diagram_nodes, diagrams, custom_nodes, custom_connections CASCADE;`)
	return err
}
