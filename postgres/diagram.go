package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/meikuraledutech/diagram"
)

// CreateDiagram saves a full diagram (nodes + edges) in one transaction.
// Nodes/edges without IDs get auto-generated UUIDs, edge refs are resolved
// and every edge is validated against the current catalog.
// Returns the diagram with all IDs filled in.
func (s *PGStore) CreateDiagram(ctx context.Context, d *diagram.Diagram) (*diagram.Diagram, error) {
	cat, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := diagram.PrepareDiagram(d, cat); err != nil {
		return nil, err
	}

	// Persist in a single transaction.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("diagram: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Replace semantics: nodes and edges cascade with the diagram row.
	if _, err := tx.Exec(ctx, `DELETE FROM diagrams WHERE id = $1`, d.ID); err != nil {
		return nil, fmt.Errorf("diagram: delete diagram: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO diagrams (id, model) VALUES ($1, $2)`, d.ID, d.Model); err != nil {
		return nil, fmt.Errorf("diagram: insert diagram: %w", err)
	}

	for i := range d.Nodes {
		if err := insertNode(ctx, tx, d.ID, &d.Nodes[i]); err != nil {
			return nil, err
		}
	}
	for i := range d.Edges {
		if err := insertEdge(ctx, tx, d.ID, &d.Edges[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("diagram: commit: %w", err)
	}

	diagram.ClearRefs(d)
	return d, nil
}

// GetDiagram retrieves a full diagram (nodes + edges) by its ID.
// Returns nil, nil if the diagram doesn't exist.
func (s *PGStore) GetDiagram(ctx context.Context, diagramID string) (*diagram.Diagram, error) {
	model, err := s.GetModel(ctx, diagramID)
	if errors.Is(err, diagram.ErrDiagramNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	d := &diagram.Diagram{ID: diagramID, Model: model}
	if d.Nodes, err = s.ListNodes(ctx, diagramID); err != nil {
		return nil, err
	}
	if d.Edges, err = s.ListEdges(ctx, diagramID); err != nil {
		return nil, err
	}
	return d, nil
}

// GetModel returns the model id of a diagram.
// Returns ErrDiagramNotFound if the diagram doesn't exist.
func (s *PGStore) GetModel(ctx context.Context, diagramID string) (string, error) {
	var model string
	err := s.db.QueryRow(ctx, `SELECT model FROM diagrams WHERE id = $1`, diagramID).Scan(&model)
	if err != nil {
		if isNoRows(err) {
			return "", diagram.ErrDiagramNotFound
		}
		return "", fmt.Errorf("diagram: get model: %w", err)
	}
	return model, nil
}

// DeleteDiagram removes a diagram with all its nodes and edges.
// No error if the diagramID doesn't exist.
func (s *PGStore) DeleteDiagram(ctx context.Context, diagramID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM diagrams WHERE id = $1`, diagramID); err != nil {
		return fmt.Errorf("diagram: delete diagram: %w", err)
	}
	return nil
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
