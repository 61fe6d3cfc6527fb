package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/diagram"
	"github.com/meikuraledutech/diagram/postgres"
	"github.com/meikuraledutech/diagram/sqlite"
)

// openStore connects the backend selected by cfg. The returned func
// releases it.
func openStore(ctx context.Context, cfg StoreConfig) (diagram.Store, func(), error) {
	switch cfg.Driver {
	case driverPostgres:
		if cfg.DSN == "" {
			return nil, nil, fmt.Errorf("postgres store: DATABASE_URL is not set")
		}
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		return postgres.New(pool), pool.Close, nil
	default:
		s, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
}
