package scraper

import (
	"fmt"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/metrics"
	"jobpilot/aggregator/internal/model"
)

// Options configures the set of adapters built by NewFetchers.
type Options struct {
	Sources          []model.Source
	Queries          []string
	QueryConcurrency int
	Request          RequestConfig

	AdzunaAppID          string
	AdzunaAppKey         string
	AdzunaCountry        string
	JoobleAPIKey         string
	ArbeitsagenturAPIKey string
}

// NewFetchers builds one adapter per enabled source, in the order given.
// Each adapter gets its own Requester so rate limits are per source.
func NewFetchers(opts Options, log logger.Logger, m *metrics.Metrics) ([]Fetcher, error) {
	fetchers := make([]Fetcher, 0, len(opts.Sources))
	for _, src := range opts.Sources {
		req := NewRequester(src, opts.Request, log, m)
		switch src {
		case model.SourceArbeitnow:
			fetchers = append(fetchers, NewArbeitnowFetcher(req, log))
		case model.SourceAdzuna:
			fetchers = append(fetchers, NewAdzunaFetcher(req, log, opts.AdzunaAppID, opts.AdzunaAppKey, opts.AdzunaCountry, opts.Queries))
		case model.SourceJooble:
			fetchers = append(fetchers, NewJoobleFetcher(req, log, opts.JoobleAPIKey, opts.Queries))
		case model.SourceGermanTechJobs:
			fetchers = append(fetchers, NewGermanTechJobsFetcher(req, log))
		case model.SourceJobicy:
			fetchers = append(fetchers, NewJobicyFetcher(req, log))
		case model.SourceArbeitsagentur:
			fetchers = append(fetchers, NewArbeitsagenturFetcher(req, log, opts.ArbeitsagenturAPIKey, opts.Queries, opts.QueryConcurrency))
		default:
			return nil, fmt.Errorf("no adapter for source %q", src)
		}
	}
	return fetchers, nil
}
