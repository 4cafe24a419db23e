package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/settle"
)

const (
	arbeitsagenturURL      = "https://rest.arbeitsagentur.de/jobboerse/jobsuche-service/pc/v4/jobs"
	arbeitsagenturPageSize = 50
	arbeitsagenturMaxPages = 20
	// angebotsart=1 restricts results to regular employment ("Arbeit").
	arbeitsagenturOfferType = "1"
)

// ArbeitsagenturFetcher queries the Bundesagentur für Arbeit job search once
// per search keyword, running the keyword queries concurrently.
type ArbeitsagenturFetcher struct {
	URL         string
	APIKey      string
	Queries     []string
	Concurrency int
	req         *Requester
	log         logger.Logger
}

// NewArbeitsagenturFetcher constructs the Arbeitsagentur adapter.
func NewArbeitsagenturFetcher(req *Requester, log logger.Logger, apiKey string, queries []string, concurrency int) *ArbeitsagenturFetcher {
	return &ArbeitsagenturFetcher{
		URL:         arbeitsagenturURL,
		APIKey:      apiKey,
		Queries:     queries,
		Concurrency: concurrency,
		req:         req,
		log:         log.With(logger.String("source", string(model.SourceArbeitsagentur))),
	}
}

func (f *ArbeitsagenturFetcher) Source() model.Source { return model.SourceArbeitsagentur }

// Fetch runs every keyword query and merges the results in query order.
// Failed queries are logged and skipped; it never returns an error itself,
// zero records is reported upstream as a failed source.
func (f *ArbeitsagenturFetcher) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	tasks := make([]settle.Task[[]model.RawRecord], 0, len(f.Queries))
	for _, q := range f.Queries {
		tasks = append(tasks, func(ctx context.Context) ([]model.RawRecord, error) {
			return f.fetchQuery(ctx, q)
		})
	}

	var records []model.RawRecord
	for i, out := range settle.All(ctx, f.Concurrency, tasks) {
		if !out.OK() {
			f.log.Error("Query failed", logger.String("query", f.Queries[i]), logger.Error(out.Err))
			continue
		}
		records = append(records, out.Value...)
	}
	f.log.Info("Fetched raw records",
		logger.Int("count", len(records)),
		logger.Int("queries", len(f.Queries)),
	)
	return records, nil
}

func (f *ArbeitsagenturFetcher) fetchQuery(ctx context.Context, query string) ([]model.RawRecord, error) {
	log := f.log.With(logger.String("query", query))
	records, err := paginate(ctx, log, arbeitsagenturMaxPages, func(ctx context.Context, page int) ([]model.RawRecord, error) {
		return f.fetchPage(ctx, query, page)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("Query done", logger.Int("count", len(records)))
	return records, nil
}

func (f *ArbeitsagenturFetcher) fetchPage(ctx context.Context, query string, page int) ([]model.RawRecord, error) {
	params := url.Values{}
	params.Set("was", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(arbeitsagenturPageSize))
	params.Set("angebotsart", arbeitsagenturOfferType)

	header := http.Header{}
	header.Set("X-API-Key", f.APIKey)
	body, err := f.req.Do(ctx, Request{URL: f.URL + "?" + params.Encode(), Header: header})
	if err != nil {
		return nil, err
	}

	var env struct {
		Stellenangebote []json.RawMessage `json:"stellenangebote"`
	}
	if err := decodeEnvelope(f.Source(), body, &env); err != nil {
		return nil, err
	}
	return decodeRecords[model.ArbeitsagenturRecord](f.log, env.Stellenangebote), nil
}
