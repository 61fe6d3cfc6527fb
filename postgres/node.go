package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/diagram"
)

const nodeColumns = `id, type, pos_x, pos_y, width, height, data`

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (diagram.Node, error) {
	var (
		n   diagram.Node
		raw []byte
	)
	if err := row.Scan(&n.ID, &n.Type, &n.Position.X, &n.Position.Y, &n.Width, &n.Height, &raw); err != nil {
		return n, err
	}
	data, err := diagram.DecodeNodeData(n.Type, raw)
	if err != nil {
		return n, fmt.Errorf("diagram: node %s: %w", n.ID, err)
	}
	n.Data = data
	return n, nil
}

func insertNode(ctx context.Context, db execer, diagramID string, n *diagram.Node) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("diagram: encode node %s: %w", n.ID, err)
	}
	if _, err := db.Exec(ctx,
		`INSERT INTO diagram_nodes (id, diagram_id, type, pos_x, pos_y, width, height, data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, diagramID, n.Type, n.Position.X, n.Position.Y, n.Width, n.Height, json.RawMessage(data),
	); err != nil {
		return fmt.Errorf("diagram: insert node %s: %w", n.ID, err)
	}
	return nil
}

// AddNode inserts a single node into a diagram.
// If node.ID is empty, a UUID is auto-generated.
// Returns the node ID (generated or provided).
func (s *PGStore) AddNode(ctx context.Context, diagramID string, node *diagram.Node) (string, error) {
	if _, err := s.GetModel(ctx, diagramID); err != nil {
		return "", err
	}
	if node.ID == "" {
		node.ID = uuid.NewString()
	}
	if err := insertNode(ctx, s.db, diagramID, node); err != nil {
		return "", err
	}
	return node.ID, nil
}

// GetNode fetches a single node by its ID.
// Returns nil, nil if not found.
func (s *PGStore) GetNode(ctx context.Context, nodeID string) (*diagram.Node, error) {
	n, err := scanNode(s.db.QueryRow(ctx,
		`SELECT `+nodeColumns+` FROM diagram_nodes WHERE id = $1`, nodeID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("diagram: get node: %w", err)
	}
	return &n, nil
}

// UpdateNode updates the type, position, size and data of an existing node.
// Returns ErrNodeNotFound if the node doesn't exist.
func (s *PGStore) UpdateNode(ctx context.Context, node *diagram.Node) error {
	data, err := json.Marshal(node.Data)
	if err != nil {
		return fmt.Errorf("diagram: encode node %s: %w", node.ID, err)
	}
	ct, err := s.db.Exec(ctx,
		`UPDATE diagram_nodes SET type = $1, pos_x = $2, pos_y = $3, width = $4, height = $5, data = $6 WHERE id = $7`,
		node.Type, node.Position.X, node.Position.Y, node.Width, node.Height, json.RawMessage(data), node.ID,
	)
	if err != nil {
		return fmt.Errorf("diagram: update node: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return diagram.ErrNodeNotFound
	}
	return nil
}

// DeleteNode deletes a node by its ID.
// Associated edges are cascade-deleted by the DB.
// No error if the node doesn't exist.
func (s *PGStore) DeleteNode(ctx context.Context, nodeID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM diagram_nodes WHERE id = $1`, nodeID)
	if err != nil {
		return fmt.Errorf("diagram: delete node: %w", err)
	}
	return nil
}

// ListNodes returns all nodes for a diagramID, in insertion order.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListNodes(ctx context.Context, diagramID string) ([]diagram.Node, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+nodeColumns+` FROM diagram_nodes WHERE diagram_id = $1 ORDER BY seq`, diagramID)
	if err != nil {
		return nil, fmt.Errorf("diagram: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []diagram.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("diagram: scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("diagram: rows nodes: %w", err)
	}

	return nodes, nil
}
