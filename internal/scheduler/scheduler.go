// Package scheduler wires up the cron job that keeps the weekly job
// snapshot warm.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
)

// Refresher is the read-through cache the scheduler drives.
type Refresher interface {
	Get(ctx context.Context, forceRefresh bool) (model.FetchResult, error)
}

// Scheduler wraps robfig/cron and runs the refresh cycle.
type Scheduler struct {
	cron   *cron.Cron
	cache  Refresher
	log    logger.Logger
	spec   string // cron spec, e.g. "0 0 * * 0"
	warmup bool
}

// New creates a Scheduler firing on spec in loc. A nil loc means local time.
func New(cache Refresher, spec string, loc *time.Location, log logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	log = log.With(logger.String("component", "scheduler"))
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		cache:  cache,
		log:    log,
		spec:   spec,
		warmup: true,
	}
}

// WithoutWarmup disables the refresh that Start otherwise runs immediately.
func (s *Scheduler) WithoutWarmup() *Scheduler {
	s.warmup = false
	return s
}

// Start registers the job and starts the scheduler. Unless disabled, it also
// runs one refresh right away so the snapshot is populated before the first
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRefresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("Cron started", logger.String("spec", s.spec))

	if s.warmup {
		go s.runRefresh(ctx)
	}
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Cron stopped")
}

// runRefresh reads through the cache. A fresh snapshot is a no-op; a stale
// or missing one triggers a fetch.
func (s *Scheduler) runRefresh(ctx context.Context) {
	start := time.Now()
	s.log.Info("Refresh cycle started")

	res, err := s.cache.Get(ctx, false)
	if err != nil {
		s.log.Error("Refresh cycle failed", logger.Error(err), logger.Duration("duration", time.Since(start)))
		return
	}

	failed := make([]string, len(res.FailedSources))
	for i, src := range res.FailedSources {
		failed[i] = string(src)
	}
	s.log.Info("Refresh cycle complete",
		logger.Int("jobs", len(res.Jobs)),
		logger.Strings("failed_sources", failed),
		logger.Duration("duration", time.Since(start)),
	)
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, logger.Any(key, kv[i+1]))
	}
	return fields
}
