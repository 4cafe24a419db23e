package scraper

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
)

const (
	jobicyURL   = "https://jobicy.com/api/v2/remote-jobs"
	jobicyCount = "500"
)

// jobicyTags narrows the remote feed to infrastructure and support roles.
var jobicyTags = []string{
	"sysadmin", "support", "devops", "administrator", "netzwerk", "cloud",
	"it-support", "linux", "windows", "security", "infrastructure",
}

// JobicyFetcher reads the Jobicy remote-jobs API in a single call.
type JobicyFetcher struct {
	URL string
	req *Requester
	log logger.Logger
}

// NewJobicyFetcher constructs the Jobicy adapter.
func NewJobicyFetcher(req *Requester, log logger.Logger) *JobicyFetcher {
	return &JobicyFetcher{
		URL: jobicyURL,
		req: req,
		log: log.With(logger.String("source", string(model.SourceJobicy))),
	}
}

func (f *JobicyFetcher) Source() model.Source { return model.SourceJobicy }

// Fetch returns the IT listings matching jobicyTags. Location filtering is
// left to normalization.
func (f *JobicyFetcher) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	params := url.Values{}
	params.Set("count", jobicyCount)
	params.Set("industry", "it")
	params.Set("tag", strings.Join(jobicyTags, ","))

	body, err := f.req.Do(ctx, Request{URL: f.URL + "?" + params.Encode()})
	if err != nil {
		return nil, err
	}
	var env struct {
		Jobs []json.RawMessage `json:"jobs"`
	}
	if err := decodeEnvelope(f.Source(), body, &env); err != nil {
		return nil, err
	}
	records := decodeRecords[model.JobicyRecord](f.log, env.Jobs)
	f.log.Info("Fetched raw records", logger.Int("count", len(records)))
	return records, nil
}
