package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meikuraledutech/diagram"
)

// LoadCatalog returns every custom node and connection definition, oldest first.
func (s *PGStore) LoadCatalog(ctx context.Context) (*diagram.Catalog, error) {
	cat := &diagram.Catalog{
		CustomNodes:       []diagram.CustomNodeDefinition{},
		CustomConnections: []diagram.CustomConnectionDefinition{},
	}

	if err := s.loadDocs(ctx, `SELECT doc FROM custom_nodes ORDER BY ord`, func(raw []byte) error {
		var def diagram.CustomNodeDefinition
		if err := json.Unmarshal(raw, &def); err != nil {
			return err
		}
		cat.CustomNodes = append(cat.CustomNodes, def)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("diagram: load custom nodes: %w", err)
	}

	if err := s.loadDocs(ctx, `SELECT doc FROM custom_connections ORDER BY ord`, func(raw []byte) error {
		var def diagram.CustomConnectionDefinition
		if err := json.Unmarshal(raw, &def); err != nil {
			return err
		}
		cat.CustomConnections = append(cat.CustomConnections, def)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("diagram: load custom connections: %w", err)
	}

	return cat, nil
}

func (s *PGStore) loadDocs(ctx context.Context, query string, each func([]byte) error) error {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		if err := each(raw); err != nil {
			return err
		}
	}
	return rows.Err()
}

// SaveCatalog replaces the stored catalog with c in one transaction.
func (s *PGStore) SaveCatalog(ctx context.Context, c *diagram.Catalog) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("diagram: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM custom_nodes`); err != nil {
		return fmt.Errorf("diagram: clear custom nodes: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM custom_connections`); err != nil {
		return fmt.Errorf("diagram: clear custom connections: %w", err)
	}

	for i, def := range c.CustomNodes {
		doc, err := json.Marshal(def)
		if err != nil {
			return fmt.Errorf("diagram: encode custom node %s: %w", def.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO custom_nodes (id, ord, doc) VALUES ($1, $2, $3)`,
			def.ID, i, json.RawMessage(doc),
		); err != nil {
			return fmt.Errorf("diagram: insert custom node %s: %w", def.ID, err)
		}
	}
	for i, def := range c.CustomConnections {
		doc, err := json.Marshal(def)
		if err != nil {
			return fmt.Errorf("diagram: encode custom connection %s: %w", def.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO custom_connections (id, ord, doc) VALUES ($1, $2, $3)`,
			def.ID, i, json.RawMessage(doc),
		); err != nil {
			return fmt.Errorf("diagram: insert custom connection %s: %w", def.ID, err)
		}
	}

	return tx.Commit(ctx)
}
