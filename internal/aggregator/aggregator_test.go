package aggregator_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/aggregator/internal/aggregator"
	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/metrics"
	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/normalize"
	"jobpilot/aggregator/internal/scraper"
)

type fakeFetcher struct {
	source  model.Source
	records []model.RawRecord
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (f *fakeFetcher) Source() model.Source { return f.source }

func (f *fakeFetcher) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.records, f.err
}

func gtj(id, title, company, location string, epoch int64) model.RawRecord {
	return model.GermanTechJobsRecord{
		ID: model.NativeID(id), Title: title, Company: company, Location: location, Remote: "office", Epoch: epoch,
	}
}

func newAggregator(fetchers ...scraper.Fetcher) (*aggregator.Aggregator, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	norm := normalize.New(normalize.DefaultClassifier(), logger.NewNop())
	return aggregator.New(fetchers, norm, logger.NewNop(), m), m
}

// ── Partial failure ──

func TestFetchJobs_TwoOfFiveSourcesFail(t *testing.T) {
	ok1 := &fakeFetcher{source: model.SourceGermanTechJobs, records: []model.RawRecord{
		gtj("1", "Admin", "A", "Berlin", 1_700_000_000),
		gtj("2", "Helpdesk", "B", "Hamburg", 1_700_000_500),
	}}
	ok2 := &fakeFetcher{source: model.SourceArbeitnow, records: []model.RawRecord{
		model.ArbeitnowRecord{Slug: "x", Title: "Sysadmin", CompanyName: "C", Location: "Köln", CreatedAt: 1_700_000_100},
	}}
	ok3 := &fakeFetcher{source: model.SourceJobicy, records: []model.RawRecord{
		model.JobicyRecord{ID: "9", JobTitle: "Support", CompanyName: "D", JobGeo: "Paris", PubDate: "2023-11-14"},
	}, delay: 20 * time.Millisecond}
	failing := &fakeFetcher{source: model.SourceAdzuna, err: errors.New("boom")}
	empty := &fakeFetcher{source: model.SourceJooble}

	agg, m := newAggregator(ok1, failing, ok2, empty, ok3)
	result, err := agg.FetchJobs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.Source{model.SourceAdzuna, model.SourceJooble}, result.FailedSources)
	require.Len(t, result.Jobs, 3, "Paris posting is not admitted")
	assert.Equal(t, "GermanTechJobs-2", result.Jobs[0].ID)
	assert.Equal(t, "Arbeitnow-x", result.Jobs[1].ID)
	assert.Equal(t, "GermanTechJobs-1", result.Jobs[2].ID)

	assert.InDelta(t, 1, testutil.ToFloat64(m.JobsRejected), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SourceFetches.WithLabelValues("Adzuna", metrics.OutcomeFailed)), 0)
	for _, f := range []*fakeFetcher{ok1, ok2, ok3, failing, empty} {
		assert.Equal(t, int32(1), f.calls.Load(), "every adapter runs once")
	}
}

// ── Total failure ──

func TestFetchJobs_AllSourcesFail(t *testing.T) {
	agg, _ := newAggregator(
		&fakeFetcher{source: model.SourceAdzuna, err: errors.New("down")},
		&fakeFetcher{source: model.SourceJooble},
	)

	result, err := agg.FetchJobs(context.Background())
	assert.ErrorIs(t, err, aggregator.ErrAllSourcesFailed)
	assert.Empty(t, result.Jobs)
	assert.Len(t, result.FailedSources, 2)
}

func TestFetchJobs_AllRecordsRejectedIsNotTotalFailure(t *testing.T) {
	agg, _ := newAggregator(&fakeFetcher{source: model.SourceGermanTechJobs, records: []model.RawRecord{
		gtj("1", "Admin", "A", "London", 1_700_000_000),
	}})

	result, err := agg.FetchJobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Jobs)
	assert.Empty(t, result.FailedSources)
}

// ── Dedupe and ordering ──

func TestFetchJobs_DeduplicatesAcrossSources(t *testing.T) {
	first := &fakeFetcher{source: model.SourceGermanTechJobs, records: []model.RawRecord{
		gtj("1", "IT-Support", "ACME", "Berlin", 1_700_000_000),
	}}
	second := &fakeFetcher{source: model.SourceArbeitnow, records: []model.RawRecord{
		model.ArbeitnowRecord{Slug: "dup", Title: " it-support ", CompanyName: "acme", Location: "BERLIN", CreatedAt: 1_800_000_000},
	}}

	agg, m := newAggregator(first, second)
	result, err := agg.FetchJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)
	assert.Equal(t, "GermanTechJobs-1", result.Jobs[0].ID, "first-seen in adapter order wins")
	assert.InDelta(t, 1, testutil.ToFloat64(m.JobsDuplicate), 0)
}

func TestFetchJobs_StableOnEqualTimestamps(t *testing.T) {
	agg, _ := newAggregator(&fakeFetcher{source: model.SourceGermanTechJobs, records: []model.RawRecord{
		gtj("a", "Admin A", "A", "Berlin", 1_700_000_000),
		gtj("b", "Admin B", "B", "Berlin", 1_700_000_000),
		gtj("c", "Admin C", "C", "Berlin", 1_700_000_000),
	}})

	result, err := agg.FetchJobs(context.Background())
	require.NoError(t, err)
	ids := []string{result.Jobs[0].ID, result.Jobs[1].ID, result.Jobs[2].ID}
	assert.Equal(t, []string{"GermanTechJobs-a", "GermanTechJobs-b", "GermanTechJobs-c"}, ids)
}

func TestSources(t *testing.T) {
	agg, _ := newAggregator(&fakeFetcher{source: model.SourceJobicy}, &fakeFetcher{source: model.SourceAdzuna})
	assert.Equal(t, []model.Source{model.SourceJobicy, model.SourceAdzuna}, agg.Sources())
}
