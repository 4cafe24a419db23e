// Package app assembles the aggregator's components from a Config.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"jobpilot/aggregator/internal/aggregator"
	"jobpilot/aggregator/internal/cache"
	"jobpilot/aggregator/internal/config"
	"jobpilot/aggregator/internal/db"
	"jobpilot/aggregator/internal/letter"
	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/metrics"
	"jobpilot/aggregator/internal/normalize"
	"jobpilot/aggregator/internal/ranking"
	"jobpilot/aggregator/internal/scraper"
	"jobpilot/aggregator/internal/stats"
)

// App holds the wired components shared by every command.
type App struct {
	Config     *config.Config
	Log        logger.Logger
	Metrics    *metrics.Metrics
	Aggregator *aggregator.Aggregator
	Cache      *cache.Layer
	Stats      *stats.Service
	// Letters is nil when no LLM provider is configured.
	Letters *letter.Generator

	closers []func()
}

// New builds the component graph. Call Close when done.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(reg)

	sources, err := cfg.EnabledSources()
	if err != nil {
		return nil, err
	}
	fetchers, err := scraper.NewFetchers(scraper.Options{
		Sources:          sources,
		Queries:          cfg.Fetch.SearchQueries,
		QueryConcurrency: cfg.Fetch.QueryConcurrency,
		Request: scraper.RequestConfig{
			Attempts:          cfg.Fetch.RetryAttempts,
			Backoff:           cfg.Fetch.RetryBackoff,
			Timeout:           cfg.Fetch.RequestTimeout,
			RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		},
		AdzunaAppID:          cfg.Sources.AdzunaAppID,
		AdzunaAppKey:         cfg.Sources.AdzunaAppKey,
		AdzunaCountry:        cfg.Sources.AdzunaCountry,
		JoobleAPIKey:         cfg.Sources.JoobleAPIKey,
		ArbeitsagenturAPIKey: cfg.Sources.ArbeitsagenturAPIKey,
	}, log, a.Metrics)
	if err != nil {
		return nil, err
	}
	a.Aggregator = aggregator.New(fetchers, normalize.New(normalize.DefaultClassifier(), log), log, a.Metrics)

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Cache = cache.New(a.Aggregator, store, log, a.Metrics)
	a.Stats = stats.NewService(a.Cache)

	a.Letters = newLetters(ctx, cfg, log)
	return a, nil
}

// Weights returns the configured relevance weights.
func (a *App) Weights() ranking.Weights {
	r := a.Config.Ranking
	return ranking.Weights{
		Favorite:     r.FavoriteWeight,
		ExactMatch:   r.ExactMatchWeight,
		Skill:        r.SkillWeight,
		Junior:       r.JuniorWeight,
		CareerSwitch: r.CareerSwitchWeight,
	}
}

// Close releases database connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openStore(ctx context.Context) (cache.Store, error) {
	cc := a.Config.Cache
	switch cc.Backend {
	case config.CacheBackendMemory:
		return cache.NewMemoryStore(), nil

	case config.CacheBackendFile:
		return cache.NewFileStore(cc.FilePath), nil

	case config.CacheBackendRedis:
		a.Log.Info("Connecting to Redis")
		rdb, err := db.NewRedisClient(ctx, cc.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { rdb.Close() })
		a.Log.Info("Redis connected")
		return cache.NewRedisStore(rdb, a.Log), nil

	case config.CacheBackendPostgres:
		a.Log.Info("Connecting to PostgreSQL")
		pool, err := db.NewPostgresPool(ctx, cc.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		store := cache.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		a.Log.Info("PostgreSQL connected")
		return store, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownCacheBackend, cc.Backend)
}

// newLetters returns nil when the provider has no API key or the client
// cannot be built; letter routes then report that generation is unavailable.
func newLetters(ctx context.Context, cfg *config.Config, log logger.Logger) *letter.Generator {
	if cfg.LLMAPIKey() == "" {
		log.Warn("No LLM API key configured, letter generation disabled",
			logger.String("provider", cfg.LLM.Provider))
		return nil
	}
	m, err := letter.NewModel(ctx, cfg)
	if err != nil {
		log.Warn("LLM client unavailable, letter generation disabled", logger.Error(err))
		return nil
	}
	return letter.NewGenerator(m, log)
}
