// Package scraper implements the job-board source adapters: one Fetcher per
// external API, all built on the retrying Requester.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
)

// Fetcher retrieves the raw postings of one job board.
//
// Fetch returns an error only when the source produced nothing because of a
// failure; an empty result without error is an ordinary outcome.
type Fetcher interface {
	Source() model.Source
	Fetch(ctx context.Context) ([]model.RawRecord, error)
}

// pageFunc fetches one 1-based page.
type pageFunc func(ctx context.Context, page int) ([]model.RawRecord, error)

// paginate requests pages 1..maxPages strictly in order and stops on the
// first empty page or the first failing page, keeping what was collected.
// The page error is returned only when nothing was collected at all.
func paginate(ctx context.Context, log logger.Logger, maxPages int, fetchPage pageFunc) ([]model.RawRecord, error) {
	var records []model.RawRecord
	for page := 1; page <= maxPages; page++ {
		batch, err := fetchPage(ctx, page)
		if err != nil {
			log.Error("Page fetch failed, stopping pagination",
				logger.Int("page", page),
				logger.Int("collected", len(records)),
				logger.Error(err),
			)
			if len(records) == 0 {
				return nil, fmt.Errorf("page %d: %w", page, err)
			}
			return records, nil
		}
		if len(batch) == 0 {
			log.Debug("No more results", logger.Int("page", page))
			break
		}
		records = append(records, batch...)
	}
	return records, nil
}

// decodeRecords decodes each element into T independently so one malformed
// posting does not discard its whole page.
func decodeRecords[T model.RawRecord](log logger.Logger, items []json.RawMessage) []model.RawRecord {
	out := make([]model.RawRecord, 0, len(items))
	for i, item := range items {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			log.Debug("Skipping malformed record", logger.Int("index", i), logger.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out
}

// decodeEnvelope unmarshals body into env, wrapping the error with the source.
func decodeEnvelope(source model.Source, body []byte, env any) error {
	if err := json.Unmarshal(body, env); err != nil {
		return fmt.Errorf("%s: decode response: %w", source, err)
	}
	return nil
}
