package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
	adzunaMaxPages = 20
)

// AdzunaFetcher queries the Adzuna search API with every search keyword
// combined into one what_or query.
// If AppID or AppKey is empty, Fetch returns (nil, nil) and logs a warning;
// the source is then reported as failed for the cycle.
type AdzunaFetcher struct {
	BaseURL string
	AppID   string
	AppKey  string
	Country string
	Queries []string
	req     *Requester
	log     logger.Logger
}

// NewAdzunaFetcher constructs the Adzuna adapter.
func NewAdzunaFetcher(req *Requester, log logger.Logger, appID, appKey, country string, queries []string) *AdzunaFetcher {
	if country == "" {
		country = "de"
	}
	return &AdzunaFetcher{
		BaseURL: adzunaBaseURL,
		AppID:   appID,
		AppKey:  appKey,
		Country: country,
		Queries: queries,
		req:     req,
		log:     log.With(logger.String("source", string(model.SourceAdzuna))),
	}
}

func (f *AdzunaFetcher) Source() model.Source { return model.SourceAdzuna }

// Fetch pages through the combined query until an empty page, a failing
// page or adzunaMaxPages.
func (f *AdzunaFetcher) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	if f.AppID == "" || f.AppKey == "" {
		f.log.Warn("ADZUNA_APP_ID / ADZUNA_APP_KEY not set, skipping source")
		return nil, nil
	}

	combined := strings.Join(f.Queries, " ")
	records, err := paginate(ctx, f.log, adzunaMaxPages, func(ctx context.Context, page int) ([]model.RawRecord, error) {
		return f.fetchPage(ctx, combined, page)
	})
	if err != nil {
		return nil, err
	}
	f.log.Info("Fetched raw records", logger.Int("count", len(records)))
	return records, nil
}

func (f *AdzunaFetcher) fetchPage(ctx context.Context, query string, page int) ([]model.RawRecord, error) {
	params := url.Values{}
	params.Set("app_id", f.AppID)
	params.Set("app_key", f.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what_or", query)
	params.Set("content-type", "application/json")

	endpoint := fmt.Sprintf("%s/%s/search/%d?%s", f.BaseURL, f.Country, page, params.Encode())
	body, err := f.req.Do(ctx, Request{URL: endpoint})
	if err != nil {
		return nil, err
	}

	var env struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := decodeEnvelope(f.Source(), body, &env); err != nil {
		return nil, err
	}
	return decodeRecords[model.AdzunaRecord](f.log, env.Results), nil
}
