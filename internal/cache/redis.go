package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
)

const (
	// DefaultRedisKey is the key holding the serialized cache entry.
	DefaultRedisKey = "jobpilot-job-cache"
	// RefreshedChannel receives an event every time a new snapshot is saved.
	RefreshedChannel = "EVENT_JOBS_REFRESHED"
)

// RedisStore keeps the entry as a JSON string under a single key.
type RedisStore struct {
	rdb *redis.Client
	key string
	log logger.Logger
}

// NewRedisStore returns a store using DefaultRedisKey.
func NewRedisStore(rdb *redis.Client, log logger.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, key: DefaultRedisKey, log: log.With(logger.String("store", "redis"))}
}

func (s *RedisStore) Load(ctx context.Context) (model.CacheEntry, bool, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.CacheEntry{}, false, nil
	}
	if err != nil {
		return model.CacheEntry{}, false, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	var entry model.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return model.CacheEntry{}, false, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return entry, true, nil
}

// Save stores the entry and publishes a refresh event (non-fatal).
func (s *RedisStore) Save(ctx context.Context, entry model.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}

	event, _ := json.Marshal(map[string]any{
		"type":          RefreshedChannel,
		"timestamp":     entry.Timestamp,
		"jobs":          len(entry.Data.Jobs),
		"failedSources": entry.Data.FailedSources,
	})
	if err := s.rdb.Publish(ctx, RefreshedChannel, event).Err(); err != nil {
		s.log.Warn("publish "+RefreshedChannel+" failed", logger.Error(err))
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}
