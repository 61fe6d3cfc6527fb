package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/diagram"
)

const edgeColumns = `id, source_id, target_id, type, data`

func scanEdge(row scanner) (diagram.Edge, error) {
	var e diagram.Edge
	err := row.Scan(&e.ID, &e.Source, &e.Target, &e.Type, &e.Data)
	return e, err
}

func insertEdge(ctx context.Context, db execer, diagramID string, e *diagram.Edge) error {
	if _, err := db.Exec(ctx,
		`INSERT INTO diagram_edges (id, diagram_id, source_id, target_id, type, data) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, diagramID, e.Source, e.Target, e.Type, e.Data,
	); err != nil {
		return fmt.Errorf("diagram: insert edge %s: %w", e.ID, err)
	}
	return nil
}

// AddEdge inserts a single edge into a diagram.
// If edge.ID is empty, a UUID is auto-generated.
// The connection is validated with the rules of the diagram's model; a
// refused connection returns a *diagram.ConnectionError and nothing is written.
// Returns the edge ID (generated or provided).
func (s *PGStore) AddEdge(ctx context.Context, diagramID string, edge *diagram.Edge) (string, error) {
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
func (s *PGStore) GetEdge(ctx context.Context, edgeID string) (*diagram.Edge, error) {
	e, err := scanEdge(s.db.QueryRow(ctx,
		`SELECT `+edgeColumns+` FROM diagram_edges WHERE id = $1`, edgeID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("diagram: get edge: %w", err)
	}
	return &e, nil
}

// UpdateEdge updates an existing edge's endpoints, type and data.
// The new connection is validated like AddEdge.
// Returns ErrEdgeNotFound if the edge doesn't exist.
func (s *PGStore) UpdateEdge(ctx context.Context, edge *diagram.Edge) error {
	// First find the edge's diagram_id.
	var diagramID string
	err := s.db.QueryRow(ctx,
		`SELECT diagram_id FROM diagram_edges WHERE id = $1`, edge.ID,
	).Scan(&diagramID)
	if err != nil {
		if isNoRows(err) {
			return diagram.ErrEdgeNotFound
		}
		return fmt.Errorf("diagram: find edge: %w", err)
	}

	snap, err := diagram.LoadSnapshot(ctx, s, diagramID)
	if err != nil {
		return err
	}
	if err := diagram.CheckEdge(snap, *edge); err != nil {
		return err
	}

	ct, err := s.db.Exec(ctx,
		`UPDATE diagram_edges SET source_id = $1, target_id = $2, type = $3, data = $4 WHERE id = $5`,
		edge.Source, edge.Target, edge.Type, edge.Data, edge.ID,
	)
	if err != nil {
		return fmt.Errorf("diagram: update edge: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return diagram.ErrEdgeNotFound
	}
	return nil
}

// DeleteEdge deletes an edge by its ID.
// No error if the edge doesn't exist.
func (s *PGStore) DeleteEdge(ctx context.Context, edgeID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM diagram_edges WHERE id = $1`, edgeID)
	if err != nil {
		return fmt.Errorf("diagram: delete edge: %w", err)
	}
	return nil
}

// ListEdges returns all edges for a diagramID, in insertion order.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListEdges(ctx context.Context, diagramID string) ([]diagram.Edge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+edgeColumns+` FROM diagram_edges WHERE diagram_id = $1 ORDER BY seq`, diagramID)
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
