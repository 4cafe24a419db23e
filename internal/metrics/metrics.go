// Package metrics exports Prometheus metrics for the fetch pipeline and the
// cache. All recording methods are safe on a nil *Metrics so components can
// run without instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jobpilot"

// Source fetch outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Cache lookup results.
const (
	CacheSlotHit  = "slot_hit"
	CacheStoreHit = "store_hit"
	CacheStale    = "stale"
	CacheMiss     = "miss"
	CacheForced   = "forced"
)

// Metrics holds all aggregator Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Source metrics
	SourceFetches       *prometheus.CounterVec
	SourceRecords       *prometheus.CounterVec
	SourceFetchDuration *prometheus.HistogramVec
	RequestRetries      *prometheus.CounterVec

	// Pipeline metrics
	JobsAdmitted  prometheus.Counter
	JobsRejected  prometheus.Counter
	JobsDuplicate prometheus.Counter
	CycleDuration prometheus.Histogram
	SnapshotJobs  prometheus.Gauge

	// Cache metrics
	CacheLookups     *prometheus.CounterVec
	CacheStoreErrors *prometheus.CounterVec
}

// New registers every metric on reg. Pass prometheus.NewRegistry() in tests
// to keep registrations isolated.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{registry: reg}
	initSourceMetrics(m, factory)
	initPipelineMetrics(m, factory)
	initCacheMetrics(m, factory)
	return m
}

// Handler returns the /metrics handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func initSourceMetrics(m *Metrics, f promauto.Factory) {
	m.SourceFetches = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_fetches_total",
		Help:      "Source fetches by outcome (ok, failed)",
	}, []string{"source", "outcome"})

	m.SourceRecords = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_raw_records_total",
		Help:      "Raw records returned per source",
	}, []string{"source"})

	m.SourceFetchDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_fetch_duration_seconds",
		Help:      "Time to fetch all pages of one source",
		Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"source"})

	m.RequestRetries = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_retries_total",
		Help:      "HTTP request attempts that were retried",
	}, []string{"source"})
}

func initPipelineMetrics(m *Metrics, f promauto.Factory) {
	m.JobsAdmitted = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_admitted_total",
		Help:      "Records that passed normalization and admission",
	})

	m.JobsRejected = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_rejected_total",
		Help:      "Records dropped as malformed or outside the locale filter",
	})

	m.JobsDuplicate = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_duplicate_total",
		Help:      "Admitted jobs collapsed by deduplication",
	})

	m.CycleDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_cycle_duration_seconds",
		Help:      "Duration of one full aggregation cycle",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})

	m.SnapshotJobs = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_jobs",
		Help:      "Jobs in the most recently produced snapshot",
	})
}

func initCacheMetrics(m *Metrics, f promauto.Factory) {
	m.CacheLookups = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by result (slot_hit, store_hit, stale, miss, forced)",
	}, []string{"result"})

	m.CacheStoreErrors = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_store_errors_total",
		Help:      "Durable cache store failures by operation",
	}, []string{"op"})
}

// RecordSourceFetch records one source fetch.
func (m *Metrics) RecordSourceFetch(source string, records int, failed bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if failed {
		outcome = OutcomeFailed
	}
	m.SourceFetches.WithLabelValues(source, outcome).Inc()
	m.SourceRecords.WithLabelValues(source).Add(float64(records))
	m.SourceFetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordRetry records one retried request attempt.
func (m *Metrics) RecordRetry(source string) {
	if m == nil {
		return
	}
	m.RequestRetries.WithLabelValues(source).Inc()
}

// RecordCycle records the tallies of one aggregation cycle.
func (m *Metrics) RecordCycle(admitted, rejected, duplicates, jobs int, d time.Duration) {
	if m == nil {
		return
	}
	m.JobsAdmitted.Add(float64(admitted))
	m.JobsRejected.Add(float64(rejected))
	m.JobsDuplicate.Add(float64(duplicates))
	m.CycleDuration.Observe(d.Seconds())
	m.SnapshotJobs.Set(float64(jobs))
}

// RecordCacheLookup records one cache lookup result.
func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordStoreError records one failed durable store operation.
func (m *Metrics) RecordStoreError(op string) {
	if m == nil {
		return
	}
	m.CacheStoreErrors.WithLabelValues(op).Inc()
}
