package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jobpilot/aggregator/internal/model"
)

const jobCacheKey = "jobpilot-job-cache"

// PGConn is the subset of *pgxpool.Pool the store needs.
type PGConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the entry in the job_cache table as JSONB.
type PostgresStore struct {
	db PGConn
}

// NewPostgresStore returns a store over db. Call EnsureSchema once at startup.
func NewPostgresStore(db PGConn) *PostgresStore { return &PostgresStore{db: db} }

// EnsureSchema creates the job_cache table if needed.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS job_cache (
		   cache_key  TEXT PRIMARY KEY,
		   fetched_at TIMESTAMPTZ NOT NULL,
		   payload    JSONB NOT NULL
		 )`)
	if err != nil {
		return fmt.Errorf("create job_cache: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (model.CacheEntry, bool, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT payload FROM job_cache WHERE cache_key = $1`, jobCacheKey,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CacheEntry{}, false, nil
	}
	if err != nil {
		return model.CacheEntry{}, false, fmt.Errorf("select job_cache: %w", err)
	}
	var entry model.CacheEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return model.CacheEntry{}, false, fmt.Errorf("decode job_cache payload: %w", err)
	}
	return entry, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, entry model.CacheEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO job_cache (cache_key, fetched_at, payload)
		 VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (cache_key) DO UPDATE
		   SET fetched_at = EXCLUDED.fetched_at, payload = EXCLUDED.payload`,
		jobCacheKey, time.UnixMilli(entry.Timestamp).UTC(), string(payload),
	)
	if err != nil {
		return fmt.Errorf("upsert job_cache: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM job_cache WHERE cache_key = $1`, jobCacheKey); err != nil {
		return fmt.Errorf("delete job_cache: %w", err)
	}
	return nil
}
