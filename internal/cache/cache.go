// Package cache puts a weekly-epoch cache in front of the aggregator. A
// snapshot fetched since the most recent Sunday 00:00 local time is served
// as is; older snapshots are discarded and refetched.
package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/metrics"
	"jobpilot/aggregator/internal/model"
)

// Fetcher produces a fresh fetch result.
type Fetcher interface {
	FetchJobs(ctx context.Context) (model.FetchResult, error)
}

// Store is a durable cache backend holding at most one entry.
// Load reports false on a miss.
type Store interface {
	Load(ctx context.Context) (model.CacheEntry, bool, error)
	Save(ctx context.Context, entry model.CacheEntry) error
	Delete(ctx context.Context) error
}

// Layer coordinates the in-process slot, the durable store and the fetcher.
type Layer struct {
	fetcher Fetcher
	store   Store
	slot    Slot
	now     func() time.Time
	loc     *time.Location
	group   singleflight.Group
	log     logger.Logger
	metrics *metrics.Metrics
}

// Option customizes a Layer.
type Option func(*Layer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(l *Layer) { l.now = now } }

// WithLocation sets the zone in which the weekly boundary is computed.
func WithLocation(loc *time.Location) Option { return func(l *Layer) { l.loc = loc } }

// WithSlot replaces the default in-process slot.
func WithSlot(s Slot) Option { return func(l *Layer) { l.slot = s } }

// New constructs a Layer.
func New(fetcher Fetcher, store Store, log logger.Logger, m *metrics.Metrics, opts ...Option) *Layer {
	l := &Layer{
		fetcher: fetcher,
		store:   store,
		slot:    NewLocalSlot(),
		now:     time.Now,
		loc:     time.Local,
		log:     log.With(logger.String("component", "cache")),
		metrics: m,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WeekStart returns the most recent Sunday 00:00 in loc at or before now.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	t := now.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, loc)
}

// Fresh reports whether entry was fetched in the current week.
func (l *Layer) Fresh(entry model.CacheEntry) bool {
	return entry.Timestamp >= WeekStart(l.now(), l.loc).UnixMilli()
}

// Get returns the current snapshot, fetching when the cache is empty or
// stale or when forceRefresh is set. Concurrent callers share one
// resolution; it runs detached from any single caller's cancellation.
//
// When the fetch fails nothing is persisted, and a forced refresh puts the
// previous snapshot back, so a failed refresh leaves the cache unchanged.
func (l *Layer) Get(ctx context.Context, forceRefresh bool) (model.FetchResult, error) {
	if !forceRefresh {
		if entry, ok := l.slot.Get(); ok && l.Fresh(entry) {
			l.metrics.RecordCacheLookup(metrics.CacheSlotHit)
			return entry.Data, nil
		}
	}

	key := "get"
	if forceRefresh {
		key = "refresh"
	}
	detached := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		if forceRefresh {
			return l.refresh(detached)
		}
		return l.resolve(detached)
	})

	select {
	case <-ctx.Done():
		return model.FetchResult{}, ctx.Err()
	case res := <-ch:
		result, _ := res.Val.(model.FetchResult)
		return result, res.Err
	}
}

// Peek returns the current snapshot without fetching.
func (l *Layer) Peek(ctx context.Context) (model.CacheEntry, bool) {
	if entry, ok := l.slot.Get(); ok {
		return entry, true
	}
	entry, ok, err := l.store.Load(ctx)
	if err != nil {
		l.log.Warn("Cache store load failed", logger.Error(err))
		l.metrics.RecordStoreError("load")
		return model.CacheEntry{}, false
	}
	return entry, ok
}

func (l *Layer) resolve(ctx context.Context) (model.FetchResult, error) {
	if entry, ok := l.slot.Get(); ok {
		if l.Fresh(entry) {
			l.metrics.RecordCacheLookup(metrics.CacheSlotHit)
			return entry.Data, nil
		}
		// A long-running process crosses week boundaries.
		l.slot.Clear()
	}

	entry, ok, err := l.store.Load(ctx)
	if err != nil {
		l.log.Warn("Cache store load failed, treating as miss", logger.Error(err))
		l.metrics.RecordStoreError("load")
		ok = false
	}
	if ok {
		if l.Fresh(entry) {
			l.metrics.RecordCacheLookup(metrics.CacheStoreHit)
			l.log.Debug("Serving snapshot from store", logger.Time("fetched_at", entry.FetchedAt()))
			l.slot.Set(entry)
			return entry.Data, nil
		}
		l.metrics.RecordCacheLookup(metrics.CacheStale)
		l.log.Info("Cached snapshot is from a previous week, refetching",
			logger.Time("fetched_at", entry.FetchedAt()))
		l.deleteStore(ctx)
	} else {
		l.metrics.RecordCacheLookup(metrics.CacheMiss)
	}

	return l.fetchAndPersist(ctx, nil)
}

func (l *Layer) refresh(ctx context.Context) (model.FetchResult, error) {
	l.metrics.RecordCacheLookup(metrics.CacheForced)
	l.log.Info("Forced refresh, clearing caches")

	prev, hasPrev := l.Peek(ctx)
	l.slot.Clear()
	l.deleteStore(ctx)

	if hasPrev {
		return l.fetchAndPersist(ctx, &prev)
	}
	return l.fetchAndPersist(ctx, nil)
}

func (l *Layer) fetchAndPersist(ctx context.Context, prev *model.CacheEntry) (model.FetchResult, error) {
	result, err := l.fetcher.FetchJobs(ctx)
	if err != nil {
		l.log.Error("Fetch failed, keeping previous snapshot", logger.Error(err))
		if prev != nil {
			l.slot.Set(*prev)
			l.saveStore(ctx, *prev)
		}
		return result, err
	}

	entry := model.CacheEntry{Timestamp: l.now().UnixMilli(), Data: result}
	l.saveStore(ctx, entry)
	l.slot.Set(entry)
	return result, nil
}

func (l *Layer) saveStore(ctx context.Context, entry model.CacheEntry) {
	if err := l.store.Save(ctx, entry); err != nil {
		l.log.Warn("Cache store save failed", logger.Error(err))
		l.metrics.RecordStoreError("save")
	}
}

func (l *Layer) deleteStore(ctx context.Context) {
	if err := l.store.Delete(ctx); err != nil {
		l.log.Warn("Cache store delete failed", logger.Error(err))
		l.metrics.RecordStoreError("delete")
	}
}
