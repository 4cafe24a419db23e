// Package db opens and verifies connections to the durable cache backends.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgMaxConns        = 4
	pgHealthCheck     = time.Minute
	pgConnectAttempts = 3
)

// NewPostgresPool parses databaseURL, opens a pool and pings it, retrying the
// ping a few times while the database comes up.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = pgMaxConns
	poolCfg.HealthCheckPeriod = pgHealthCheck

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	var pingErr error
	for attempt := 1; attempt <= pgConnectAttempts; attempt++ {
		if pingErr = pool.Ping(ctx); pingErr == nil {
			return pool, nil
		}
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, fmt.Errorf("postgres ping: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	pool.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", pgConnectAttempts, pingErr)
}
