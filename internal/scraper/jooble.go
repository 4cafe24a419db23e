package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
)

const (
	joobleBaseURL  = "https://de.jooble.org/api"
	joobleMaxPages = 50
	joobleLocation = "Deutschland"
)

// JoobleFetcher queries the Jooble POST search API with the search keywords
// joined by " | ".
type JoobleFetcher struct {
	BaseURL string
	APIKey  string
	Queries []string
	req     *Requester
	log     logger.Logger
}

type joobleQuery struct {
	Keywords string `json:"keywords"`
	Location string `json:"location"`
	Page     int    `json:"page"`
}

// NewJoobleFetcher constructs the Jooble adapter.
func NewJoobleFetcher(req *Requester, log logger.Logger, apiKey string, queries []string) *JoobleFetcher {
	return &JoobleFetcher{
		BaseURL: joobleBaseURL,
		APIKey:  apiKey,
		Queries: queries,
		req:     req,
		log:     log.With(logger.String("source", string(model.SourceJooble))),
	}
}

func (f *JoobleFetcher) Source() model.Source { return model.SourceJooble }

// Fetch pages through the combined query. Without an API key it returns
// (nil, nil) and logs a warning.
func (f *JoobleFetcher) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	if f.APIKey == "" {
		f.log.Warn("JOOBLE_API_KEY not set, skipping source")
		return nil, nil
	}

	combined := strings.Join(f.Queries, " | ")
	records, err := paginate(ctx, f.log, joobleMaxPages, func(ctx context.Context, page int) ([]model.RawRecord, error) {
		return f.fetchPage(ctx, combined, page)
	})
	if err != nil {
		return nil, err
	}
	f.log.Info("Fetched raw records", logger.Int("count", len(records)))
	return records, nil
}

func (f *JoobleFetcher) fetchPage(ctx context.Context, query string, page int) ([]model.RawRecord, error) {
	payload, err := json.Marshal(joobleQuery{Keywords: query, Location: joobleLocation, Page: page})
	if err != nil {
		return nil, fmt.Errorf("encode jooble query: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	body, err := f.req.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    f.BaseURL + "/" + f.APIKey,
		Body:   payload,
		Header: header,
	})
	if err != nil {
		return nil, err
	}

	var env struct {
		Jobs []json.RawMessage `json:"jobs"`
	}
	if err := decodeEnvelope(f.Source(), body, &env); err != nil {
		return nil, err
	}
	return decodeRecords[model.JoobleRecord](f.log, env.Jobs), nil
}
