package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meikuraledutech/diagram"
)

// CreateDiagram saves a full diagram (nodes + edges) in one transaction,
// replacing any diagram with the same ID. See diagram.PrepareDiagram for
// id assignment, ref resolution and validation.
func (s *Store) CreateDiagram(ctx context.Context, d *diagram.Diagram) (*diagram.Diagram, error) {
	cat, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := diagram.PrepareDiagram(d, cat); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("diagram: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := deleteDiagram(ctx, tx, d.ID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO diagrams (id, model) VALUES (?, ?)`, d.ID, d.Model); err != nil {
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

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("diagram: commit: %w", err)
	}

	diagram.ClearRefs(d)
	return d, nil
}

// GetDiagram retrieves a full diagram by its ID.
// Returns nil, nil if the diagram doesn't exist.
func (s *Store) GetDiagram(ctx context.Context, diagramID string) (*diagram.Diagram, error) {
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
func (s *Store) GetModel(ctx context.Context, diagramID string) (string, error) {
	var model string
	err := s.db.QueryRowContext(ctx, `SELECT model FROM diagrams WHERE id = ?`, diagramID).Scan(&model)
	if errors.Is(err, sql.ErrNoRows) {
		return "", diagram.ErrDiagramNotFound
	}
	if err != nil {
		return "", fmt.Errorf("diagram: get model: %w", err)
	}
	return model, nil
}

// DeleteDiagram removes a diagram with all its nodes and edges.
// No error if the diagramID doesn't exist.
func (s *Store) DeleteDiagram(ctx context.Context, diagramID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("diagram: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := deleteDiagram(ctx, tx, diagramID); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteDiagram(ctx context.Context, db execer, diagramID string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM diagram_edges WHERE diagram_id = ?`, diagramID); err != nil {
		return fmt.Errorf("diagram: delete edges: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM diagram_nodes WHERE diagram_id = ?`, diagramID); err != nil {
		return fmt.Errorf("diagram: delete nodes: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM diagrams WHERE id = ?`, diagramID); err != nil {
		return fmt.Errorf("diagram: delete diagram: %w", err)
	}
	return nil
}
