// Package aggregator runs every source adapter concurrently and merges their
// records into one normalized, deduplicated, newest-first job list.
package aggregator

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/metrics"
	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/scraper"
	"jobpilot/aggregator/internal/settle"
)

// ErrAllSourcesFailed is returned when every source failed and no job
// survived. The (empty) result is still returned alongside it.
var ErrAllSourcesFailed = errors.New("all job sources failed")

// Normalizer maps one raw record to a canonical job.
type Normalizer interface {
	Normalize(rec model.RawRecord) (model.Job, bool)
}

// Aggregator runs one fetch cycle over a fixed set of adapters.
type Aggregator struct {
	fetchers   []scraper.Fetcher
	normalizer Normalizer
	log        logger.Logger
	metrics    *metrics.Metrics
}

// New constructs an Aggregator.
func New(fetchers []scraper.Fetcher, normalizer Normalizer, log logger.Logger, m *metrics.Metrics) *Aggregator {
	return &Aggregator{
		fetchers:   fetchers,
		normalizer: normalizer,
		log:        log.With(logger.String("component", "aggregator")),
		metrics:    m,
	}
}

// Sources lists the configured sources in adapter order.
func (a *Aggregator) Sources() []model.Source {
	out := make([]model.Source, 0, len(a.fetchers))
	for _, f := range a.fetchers {
		out = append(out, f.Source())
	}
	return out
}

type sourceResult struct {
	records  []model.RawRecord
	duration time.Duration
}

// FetchJobs runs every adapter, waits for all of them, and returns the
// merged result. A source counts as failed when it errored or returned no
// records. Siblings are never cancelled when one source fails.
func (a *Aggregator) FetchJobs(ctx context.Context) (model.FetchResult, error) {
	start := time.Now()
	log := a.log.With(logger.String("run_id", uuid.NewString()))
	log.Info("Starting fetch cycle", logger.Int("sources", len(a.fetchers)))

	tasks := make([]settle.Task[sourceResult], 0, len(a.fetchers))
	for _, f := range a.fetchers {
		tasks = append(tasks, func(ctx context.Context) (sourceResult, error) {
			t0 := time.Now()
			records, err := f.Fetch(ctx)
			return sourceResult{records: records, duration: time.Since(t0)}, err
		})
	}
	outcomes := settle.All(ctx, 0, tasks)

	failed := make([]model.Source, 0)
	var records []model.RawRecord
	for i, out := range outcomes {
		src := a.fetchers[i].Source()
		n := len(out.Value.records)
		isFailed := out.Err != nil || n == 0
		a.metrics.RecordSourceFetch(string(src), n, isFailed, out.Value.duration)

		switch {
		case out.Err != nil:
			log.Error("Source failed", logger.String("source", string(src)), logger.Error(out.Err))
			failed = append(failed, src)
		case n == 0:
			log.Warn("Source returned no records", logger.String("source", string(src)))
			failed = append(failed, src)
		default:
			log.Info("Source fetched", logger.String("source", string(src)), logger.Int("records", n))
			records = append(records, out.Value.records...)
		}
	}

	admitted := make([]model.Job, 0, len(records))
	for _, rec := range records {
		if job, ok := a.normalizer.Normalize(rec); ok {
			admitted = append(admitted, job)
		}
	}
	jobs := Dedupe(admitted)
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	rejected := len(records) - len(admitted)
	duplicates := len(admitted) - len(jobs)
	elapsed := time.Since(start)
	a.metrics.RecordCycle(len(admitted), rejected, duplicates, len(jobs), elapsed)

	log.Info("Fetch cycle done",
		logger.Int("raw", len(records)),
		logger.Int("admitted", len(admitted)),
		logger.Int("rejected", rejected),
		logger.Int("duplicates", duplicates),
		logger.Int("jobs", len(jobs)),
		logger.Strings("failed_sources", sourceStrings(failed)),
		logger.Duration("elapsed", elapsed),
	)

	result := model.FetchResult{Jobs: jobs, FailedSources: failed}
	if len(failed) == len(a.fetchers) && len(jobs) == 0 {
		return result, ErrAllSourcesFailed
	}
	return result, nil
}

func sourceStrings(sources []model.Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = string(s)
	}
	return out
}
