package scraper

import (
	"context"
	"encoding/json"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
)

const germanTechJobsURL = "https://germantechjobs.de/api/jobs"

// GermanTechJobsFetcher reads the GermanTechJobs feed, a bare JSON array.
type GermanTechJobsFetcher struct {
	URL string
	req *Requester
	log logger.Logger
}

// NewGermanTechJobsFetcher constructs the GermanTechJobs adapter.
func NewGermanTechJobsFetcher(req *Requester, log logger.Logger) *GermanTechJobsFetcher {
	return &GermanTechJobsFetcher{
		URL: germanTechJobsURL,
		req: req,
		log: log.With(logger.String("source", string(model.SourceGermanTechJobs))),
	}
}

func (f *GermanTechJobsFetcher) Source() model.Source { return model.SourceGermanTechJobs }

// Fetch returns every listing of the feed.
func (f *GermanTechJobsFetcher) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	body, err := f.req.Do(ctx, Request{URL: f.URL})
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := decodeEnvelope(f.Source(), body, &items); err != nil {
		return nil, err
	}
	records := decodeRecords[model.GermanTechJobsRecord](f.log, items)
	f.log.Info("Fetched raw records", logger.Int("count", len(records)))
	return records, nil
}
