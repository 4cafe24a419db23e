package scraper

import (
	"context"
	"encoding/json"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
)

const arbeitnowURL = "https://www.arbeitnow.com/api/job-board-api"

// ArbeitnowFetcher reads the Arbeitnow job board in a single call.
type ArbeitnowFetcher struct {
	URL string
	req *Requester
	log logger.Logger
}

// NewArbeitnowFetcher constructs the Arbeitnow adapter.
func NewArbeitnowFetcher(req *Requester, log logger.Logger) *ArbeitnowFetcher {
	return &ArbeitnowFetcher{
		URL: arbeitnowURL,
		req: req,
		log: log.With(logger.String("source", string(model.SourceArbeitnow))),
	}
}

func (f *ArbeitnowFetcher) Source() model.Source { return model.SourceArbeitnow }

// Fetch returns every listing of the board's feed.
func (f *ArbeitnowFetcher) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	body, err := f.req.Do(ctx, Request{URL: f.URL})
	if err != nil {
		return nil, err
	}
	var env struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := decodeEnvelope(f.Source(), body, &env); err != nil {
		return nil, err
	}
	records := decodeRecords[model.ArbeitnowRecord](f.log, env.Data)
	f.log.Info("Fetched raw records", logger.Int("count", len(records)))
	return records, nil
}
