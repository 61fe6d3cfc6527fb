package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/diagram"
)

const edgeColumns = `id, source_id, target_id, type, data`

func scanEdge(row scanner) (diagram.Edge, error) {
	var (
		e    diagram.Edge
		data sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Source, &e.Target, &e.Type, &data); err != nil {
		return e, err
	}
	if data.Valid && data.String != "" {
		e.Data = json.RawMessage(data.String)
	}
	return e, nil
}

func edgeData(e *diagram.Edge) sql.NullString {
	if len(e.Data) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(e.Data), Valid: true}
}

func insertEdge(ctx context.Context, db execer, diagramID string, e *diagram.Edge) error {
	if _, err := db.ExecContext(ctx,
		`INSERT INTO diagram_edges (id, diagram_id, source_id, target_id, type, data) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, diagramID, e.Source, e.Target, e.Type, edgeData(e),
	); err != nil {
		return fmt.Errorf("diagram: insert edge %s: %w", e.ID, err)
	}
	return nil
}

// AddEdge inserts a single edge after validating the connection with the
// rules of the diagram's model. A refused connection returns a
// *diagram.ConnectionError and nothing is written.
// If edge.ID is empty, a UUID is auto-generated.
func (s *Store) AddEdge(ctx context.Context, diagramID string, edge *diagram.Edge) (string, error) {
	if edge.ID == "" {
		edge.ID = uuid.NewString()
	}

	snap, err := diagram.LoadSnapshot(ctx, s, diagramID)
	if err != nil {
		return "", err
	}
	if err := diagram.CheckEdge(snap, *edge); err != nil {
		return "", err
	}

	if err := insertEdge(ctx, s.db, diagramID, edge); err != nil {
		return "", err
	}
	return edge.ID, nil
}

// GetEdge fetches a single edge by its ID.
// Returns nil, nil if not found.
func (s *Store) GetEdge(ctx context.Context, edgeID string) (*diagram.Edge, error) {
	e, err := scanEdge(s.db.QueryRowContext(ctx,
		`SELECT `+edgeColumns+` FROM diagram_edges WHERE id = ?`, edgeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("diagram: get edge: %w", err)
	}
	return &e, nil
}

// UpdateEdge updates an existing edge's endpoints, type and data.
// The new connection is validated like AddEdge.
// Returns ErrEdgeNotFound if the edge doesn't exist.
func (s *Store) UpdateEdge(ctx context.Context, edge *diagram.Edge) error {
	var diagramID string
	err := s.db.QueryRowContext(ctx, `SELECT diagram_id FROM diagram_edges WHERE id = ?`, edge.ID).Scan(&diagramID)
	if errors.Is(err, sql.ErrNoRows) {
		return diagram.ErrEdgeNotFound
	}
	if err != nil {
		return fmt.Errorf("diagram: find edge: %w", err)
	}

	snap, err := diagram.LoadSnapshot(ctx, s, diagramID)
	if err != nil {
		return err
	}
	if err := diagram.CheckEdge(snap, *edge); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE diagram_edges SET source_id = ?, target_id = ?, type = ?, data = ? WHERE id = ?`,
		edge.Source, edge.Target, edge.Type, edgeData(edge), edge.ID,
	); err != nil {
		return fmt.Errorf("diagram: update edge: %w", err)
	}
	return nil
}

// DeleteEdge deletes an edge by its ID.
// No error if the edge doesn't exist.
func (s *Store) DeleteEdge(ctx context.Context, edgeID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM diagram_edges WHERE id = ?`, edgeID); err != nil {
		return fmt.Errorf("diagram: delete edge: %w", err)
	}
	return nil
}

// ListEdges returns all edges for a diagramID in insertion order.
// Returns an empty slice (not nil) if none found.
func (s *Store) ListEdges(ctx context.Context, diagramID string) ([]diagram.Edge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+edgeColumns+` FROM diagram_edges WHERE diagram_id = ? ORDER BY rowid`, diagramID)
	if err != nil {
		return nil, fmt.Errorf("diagram: list edges: %w", err)
	}
	defer rows.Close()

	edges := []diagram.Edge{}
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("diagram: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("diagram: rows edges: %w", err)
	}
	return edges, nil
}
