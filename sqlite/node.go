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

const nodeColumns = `id, type, pos_x, pos_y, width, height, data`

func scanNode(row scanner) (diagram.Node, error) {
	var (
		n             diagram.Node
		width, height sql.NullFloat64
		raw           string
	)
	if err := row.Scan(&n.ID, &n.Type, &n.Position.X, &n.Position.Y, &width, &height, &raw); err != nil {
		return n, err
	}
	if width.Valid {
		n.Width = &width.Float64
	}
	if height.Valid {
		n.Height = &height.Float64
	}
	data, err := diagram.DecodeNodeData(n.Type, []byte(raw))
	if err != nil {
		return n, fmt.Errorf("diagram: node %s: %w", n.ID, err)
	}
	n.Data = data
	return n, nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func insertNode(ctx context.Context, db execer, diagramID string, n *diagram.Node) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("diagram: encode node %s: %w", n.ID, err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO diagram_nodes (id, diagram_id, type, pos_x, pos_y, width, height, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, diagramID, n.Type, n.Position.X, n.Position.Y, nullable(n.Width), nullable(n.Height), string(data),
	); err != nil {
		return fmt.Errorf("diagram: insert node %s: %w", n.ID, err)
	}
	return nil
}

// AddNode inserts a single node into an existing diagram.
// If node.ID is empty, a UUID is auto-generated.
func (s *Store) AddNode(ctx context.Context, diagramID string, node *diagram.Node) (string, error) {
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
func (s *Store) GetNode(ctx context.Context, nodeID string) (*diagram.Node, error) {
	n, err := scanNode(s.db.QueryRowContext(ctx,
		`SELECT `+nodeColumns+` FROM diagram_nodes WHERE id = ?`, nodeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("diagram: get node: %w", err)
	}
	return &n, nil
}

// UpdateNode updates the type, position, size and data of an existing node.
// Returns ErrNodeNotFound if the node doesn't exist.
func (s *Store) UpdateNode(ctx context.Context, node *diagram.Node) error {
	data, err := json.Marshal(node.Data)
	if err != nil {
		return fmt.Errorf("diagram: encode node %s: %w", node.ID, err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE diagram_nodes SET type = ?, pos_x = ?, pos_y = ?, width = ?, height = ?, data = ? WHERE id = ?`,
		node.Type, node.Position.X, node.Position.Y, nullable(node.Width), nullable(node.Height), string(data), node.ID,
	)
	if err != nil {
		return fmt.Errorf("diagram: update node: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return diagram.ErrNodeNotFound
	}
	return nil
}

// DeleteNode deletes a node and every edge touching it.
// No error if the node doesn't exist.
func (s *Store) DeleteNode(ctx context.Context, nodeID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("diagram: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM diagram_edges WHERE source_id = ? OR target_id = ?`, nodeID, nodeID); err != nil {
		return fmt.Errorf("diagram: delete node edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM diagram_nodes WHERE id = ?`, nodeID); err != nil {
		return fmt.Errorf("diagram: delete node: %w", err)
	}
	return tx.Commit()
}

// ListNodes returns all nodes for a diagramID in insertion order.
// Returns an empty slice (not nil) if none found.
func (s *Store) ListNodes(ctx context.Context, diagramID string) ([]diagram.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM diagram_nodes WHERE diagram_id = ? ORDER BY rowid`, diagramID)
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
