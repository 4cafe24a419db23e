// Package config loads and validates configuration at startup.
// Fail-fast: an invalid or incomplete configuration stops the process.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file (CONFIG_PATH), then environment variables (a .env file is loaded
// first when present).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jobpilot/aggregator/internal/keyword"
	"jobpilot/aggregator/internal/model"
)

// Cache backends.
const (
	CacheBackendMemory   = "memory"
	CacheBackendFile     = "file"
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
)

// LLM providers.
const (
	LLMProviderGoogleAI  = "googleai"
	LLMProviderAnthropic = "anthropic"
)

var (
	ErrRedisURLRequired    = errors.New("REDIS_URL is required for the redis cache backend")
	ErrDatabaseURLRequired = errors.New("DATABASE_URL is required for the postgres cache backend")
	ErrUnknownCacheBackend = errors.New("unknown cache backend")
	ErrUnknownLLMProvider  = errors.New("unknown LLM provider")
	ErrNoSources           = errors.New("at least one job source must be enabled")
	ErrNoSearchQueries     = errors.New("at least one search query is required")
)

// Config holds all runtime configuration for the aggregator.
type Config struct {
	LogLevel string `yaml:"log_level"`
	HTTPPort string `yaml:"http_port"`
	GRPCPort string `yaml:"grpc_port"`

	Cache   CacheConfig   `yaml:"cache"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Sources SourcesConfig `yaml:"sources"`
	Ranking RankingConfig `yaml:"ranking"`
	LLM     LLMConfig     `yaml:"llm"`

	// RefreshSchedule is the cron spec of the weekly warm-up job.
	RefreshSchedule string `yaml:"refresh_schedule"`
}

// CacheConfig selects and configures the durable cache store.
type CacheConfig struct {
	Backend     string `yaml:"backend"`
	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`
	FilePath    string `yaml:"file_path"`
}

// FetchConfig tunes outbound calls to the job boards.
type FetchConfig struct {
	RetryAttempts  int           `yaml:"retry_attempts"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// RequestsPerSecond is the per-source rate limit; 0 disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	// QueryConcurrency bounds concurrent keyword queries of multi-query sources.
	QueryConcurrency int      `yaml:"query_concurrency"`
	SearchQueries    []string `yaml:"search_queries"`
}

// SourcesConfig lists the enabled sources and their credentials.
type SourcesConfig struct {
	Enabled              []string `yaml:"enabled"`
	AdzunaAppID          string   `yaml:"adzuna_app_id"`
	AdzunaAppKey         string   `yaml:"adzuna_app_key"`
	AdzunaCountry        string   `yaml:"adzuna_country"`
	JoobleAPIKey         string   `yaml:"jooble_api_key"`
	ArbeitsagenturAPIKey string   `yaml:"arbeitsagentur_api_key"`
}

// RankingConfig holds the relevance score weights.
type RankingConfig struct {
	FavoriteWeight     int `yaml:"favorite_weight"`
	ExactMatchWeight   int `yaml:"exact_match_weight"`
	SkillWeight        int `yaml:"skill_weight"`
	JuniorWeight       int `yaml:"junior_weight"`
	CareerSwitchWeight int `yaml:"career_switch_weight"`
}

// LLMConfig configures the letter generator.
type LLMConfig struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
}

// Default returns the built-in configuration.
func Default() *Config {
	enabled := make([]string, 0, len(model.AllSources()))
	for _, s := range model.AllSources() {
		enabled = append(enabled, string(s))
	}
	return &Config{
		LogLevel: "info",
		HTTPPort: "8080",
		GRPCPort: "9090",
		Cache: CacheConfig{
			Backend:  CacheBackendFile,
			FilePath: "data/jobpilot-job-cache.json",
		},
		Fetch: FetchConfig{
			RetryAttempts:     3,
			RetryBackoff:      300 * time.Millisecond,
			RequestTimeout:    30 * time.Second,
			RequestsPerSecond: 5,
			QueryConcurrency:  4,
			SearchQueries:     append([]string(nil), keyword.SearchQueries...),
		},
		Sources: SourcesConfig{
			Enabled:              enabled,
			AdzunaCountry:        "de",
			ArbeitsagenturAPIKey: "jobboerse-jobsuche",
		},
		Ranking: RankingConfig{
			FavoriteWeight:     1000,
			ExactMatchWeight:   100,
			SkillWeight:        10,
			JuniorWeight:       20,
			CareerSwitchWeight: 20,
		},
		LLM: LLMConfig{
			Provider: LLMProviderGoogleAI,
		},
		RefreshSchedule: "0 0 * * 0",
	}
}

// Load reads .env, the optional YAML file and the environment, and returns a
// validated Config.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.HTTPPort, "HTTP_PORT")
	setString(&c.GRPCPort, "GRPC_PORT")
	setString(&c.RefreshSchedule, "REFRESH_SCHEDULE")

	setString(&c.Cache.Backend, "CACHE_BACKEND")
	setString(&c.Cache.RedisURL, "REDIS_URL")
	setString(&c.Cache.DatabaseURL, "DATABASE_URL")
	setString(&c.Cache.FilePath, "CACHE_FILE")

	setList(&c.Sources.Enabled, "JOB_SOURCES")
	setString(&c.Sources.AdzunaAppID, "ADZUNA_APP_ID")
	setString(&c.Sources.AdzunaAppKey, "ADZUNA_APP_KEY")
	setString(&c.Sources.AdzunaCountry, "ADZUNA_COUNTRY")
	setString(&c.Sources.JoobleAPIKey, "JOOBLE_API_KEY")
	setString(&c.Sources.ArbeitsagenturAPIKey, "ARBEITSAGENTUR_API_KEY")
	setList(&c.Fetch.SearchQueries, "SEARCH_QUERIES")

	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")

	if err := setInt(&c.Fetch.RetryAttempts, "FETCH_RETRY_ATTEMPTS", 1); err != nil {
		return err
	}
	if err := setInt(&c.Fetch.QueryConcurrency, "FETCH_QUERY_CONCURRENCY", 1); err != nil {
		return err
	}
	if err := setDuration(&c.Fetch.RetryBackoff, "FETCH_RETRY_BACKOFF"); err != nil {
		return err
	}
	if err := setDuration(&c.Fetch.RequestTimeout, "FETCH_REQUEST_TIMEOUT"); err != nil {
		return err
	}
	if s := os.Getenv("FETCH_REQUESTS_PER_SECOND"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("FETCH_REQUESTS_PER_SECOND must be a non-negative number, got %q", s)
		}
		c.Fetch.RequestsPerSecond = v
	}
	return nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendFile:
	case CacheBackendRedis:
		if c.Cache.RedisURL == "" {
			return ErrRedisURLRequired
		}
	case CacheBackendPostgres:
		if c.Cache.DatabaseURL == "" {
			return ErrDatabaseURLRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCacheBackend, c.Cache.Backend)
	}

	if len(c.Sources.Enabled) == 0 {
		return ErrNoSources
	}
	if _, err := c.EnabledSources(); err != nil {
		return err
	}
	if len(c.Fetch.SearchQueries) == 0 {
		return ErrNoSearchQueries
	}
	if c.Fetch.RetryAttempts < 1 {
		return fmt.Errorf("fetch.retry_attempts must be at least 1, got %d", c.Fetch.RetryAttempts)
	}

	switch c.LLM.Provider {
	case LLMProviderGoogleAI, LLMProviderAnthropic:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLLMProvider, c.LLM.Provider)
	}
	return nil
}

// EnabledSources parses the enabled source tags, preserving order and
// dropping repeats.
func (c *Config) EnabledSources() ([]model.Source, error) {
	out := make([]model.Source, 0, len(c.Sources.Enabled))
	seen := make(map[model.Source]struct{}, len(c.Sources.Enabled))
	for _, raw := range c.Sources.Enabled {
		src, err := model.ParseSource(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("sources.enabled: %w", err)
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out, nil
}

// LLMModel returns the configured model name or the provider default.
func (c *Config) LLMModel() string {
	if c.LLM.Model != "" {
		return c.LLM.Model
	}
	if c.LLM.Provider == LLMProviderAnthropic {
		return "claude-3-5-haiku-latest"
	}
	return "gemini-2.5-flash"
}

// LLMAPIKey returns the key of the configured provider.
func (c *Config) LLMAPIKey() string {
	if c.LLM.Provider == LLMProviderAnthropic {
		return c.LLM.AnthropicAPIKey
	}
	return c.LLM.GeminiAPIKey
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

func setInt(dst *int, key string, minValue int) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < minValue {
		return fmt.Errorf("%s must be an integer >= %d, got %q", key, minValue, s)
	}
	*dst = v
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil || v < 0 {
		return fmt.Errorf("%s must be a non-negative duration, got %q", key, s)
	}
	*dst = v
	return nil
}
