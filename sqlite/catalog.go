package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meikuraledutech/diagram"
)

// LoadCatalog returns every custom node and connection definition in the
// order they were saved.
func (s *Store) LoadCatalog(ctx context.Context) (*diagram.Catalog, error) {
	cat := &diagram.Catalog{
		CustomNodes:       []diagram.CustomNodeDefinition{},
		CustomConnections: []diagram.CustomConnectionDefinition{},
	}

	nodes, err := s.loadDocs(ctx, `SELECT doc FROM custom_nodes ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("diagram: load custom nodes: %w", err)
	}
	for _, raw := range nodes {
		var def diagram.CustomNodeDefinition
		if err := json.Unmarshal([]byte(raw), &def); err != nil {
			return nil, fmt.Errorf("diagram: decode custom node: %w", err)
		}
		cat.CustomNodes = append(cat.CustomNodes, def)
	}

	conns, err := s.loadDocs(ctx, `SELECT doc FROM custom_connections ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("diagram: load custom connections: %w", err)
	}
	for _, raw := range conns {
		var def diagram.CustomConnectionDefinition
		if err := json.Unmarshal([]byte(raw), &def); err != nil {
			return nil, fmt.Errorf("diagram: decode custom connection: %w", err)
		}
		cat.CustomConnections = append(cat.CustomConnections, def)
	}

	return cat, nil
}

func (s *Store) loadDocs(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// SaveCatalog replaces the stored catalog with c in one transaction.
func (s *Store) SaveCatalog(ctx context.Context, c *diagram.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("diagram: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM custom_nodes`); err != nil {
		return fmt.Errorf("diagram: clear custom nodes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM custom_connections`); err != nil {
		return fmt.Errorf("diagram: clear custom connections: %w", err)
	}

	for i, def := range c.CustomNodes {
		doc, err := json.Marshal(def)
		if err != nil {
			return fmt.Errorf("diagram: encode custom node %s: %w", def.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO custom_nodes (id, ord, doc) VALUES (?, ?, ?)`, def.ID, i, string(doc)); err != nil {
			return fmt.Errorf("diagram: insert custom node %s: %w", def.ID, err)
		}
	}
	for i, def := range c.CustomConnections {
		doc, err := json.Marshal(def)
		if err != nil {
			return fmt.Errorf("diagram: encode custom connection %s: %w", def.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO custom_connections (id, ord, doc) VALUES (?, ?, ?)`, def.ID, i, string(doc)); err != nil {
			return fmt.Errorf("diagram: insert custom connection %s: %w", def.ID, err)
		}
	}

	return tx.Commit()
}
