package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/aggregator/internal/app"
	"jobpilot/aggregator/internal/config"
	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/ranking"
)

func TestNew_FileBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.FilePath = filepath.Join(t.TempDir(), "cache.json")

	a, err := app.New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, model.AllSources(), a.Aggregator.Sources())
	assert.NotNil(t, a.Cache)
	assert.NotNil(t, a.Stats)
	assert.Nil(t, a.Letters, "no API key means no letter generator")
	assert.Equal(t, ranking.DefaultWeights(), a.Weights())
}

func TestNew_SubsetOfSources(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheBackendMemory
	cfg.Sources.Enabled = []string{"Jobicy", "Arbeitnow", "Jobicy"}

	a, err := app.New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []model.Source{model.SourceJobicy, model.SourceArbeitnow}, a.Aggregator.Sources())
}

func TestNew_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheBackendRedis
	cfg.Cache.RedisURL = "redis://" + mr.Addr()

	a, err := app.New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	a.Close()
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown source", func(c *config.Config) { c.Sources.Enabled = []string{"Monster"} }},
		{"unknown backend", func(c *config.Config) { c.Cache.Backend = "s3" }},
		{"bad redis url", func(c *config.Config) {
			c.Cache.Backend = config.CacheBackendRedis
			c.Cache.RedisURL = "not-a-url"
		}},
		{"bad postgres url", func(c *config.Config) {
			c.Cache.Backend = config.CacheBackendPostgres
			c.Cache.DatabaseURL = "postgres://%zz"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			_, err := app.New(context.Background(), cfg, logger.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestNew_LettersEnabledWithKey(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheBackendMemory
	cfg.LLM.Provider = config.LLMProviderAnthropic
	cfg.LLM.AnthropicAPIKey = "test-key"

	a, err := app.New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.Letters)
}
