package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/metrics"
	"jobpilot/aggregator/internal/model"
)

const (
	userAgent          = "JobPilot/1.0"
	defaultAttempts    = 3
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 512
)

// FetchError is returned once every attempt of a request has failed.
type FetchError struct {
	Source     model.Source
	URL        string
	Attempts   int
	StatusCode int // 0 for transport errors
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s failed after %d attempts with status %d: %v",
			e.Source, e.URL, e.Attempts, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s failed after %d attempts: %v", e.Source, e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RequestConfig tunes a Requester. Zero Attempts and Timeout take the
// defaults; a zero Backoff retries immediately.
type RequestConfig struct {
	Attempts          int
	Backoff           time.Duration
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Request is one outbound HTTP call.
type Request struct {
	Method string
	URL    string
	Body   []byte
	Header http.Header
}

// Requester performs HTTP calls for one source with retry, linear backoff
// and a politeness rate limit.
type Requester struct {
	source   model.Source
	client   *http.Client
	attempts int
	backoff  time.Duration
	limiter  *rate.Limiter
	log      logger.Logger
	metrics  *metrics.Metrics
}

// NewRequester builds a Requester for source.
func NewRequester(source model.Source, cfg RequestConfig, log logger.Logger, m *metrics.Metrics) *Requester {
	if cfg.Attempts < 1 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Requester{
		source:   source,
		client:   &http.Client{Timeout: cfg.Timeout},
		attempts: cfg.Attempts,
		backoff:  cfg.Backoff,
		limiter:  rate.NewLimiter(limit, 1),
		log:      log.With(logger.String("source", string(source))),
		metrics:  m,
	}
}

// Do sends req and returns the body of the first 2xx response. Non-2xx
// statuses and transport errors are retried; after the last attempt a
// *FetchError is returned. Context cancellation aborts immediately.
func (r *Requester) Do(ctx context.Context, req Request) ([]byte, error) {
	var lastErr error
	var lastStatus int

	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		body, status, err := r.once(ctx, req)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr, lastStatus = err, status

		if attempt == r.attempts {
			break
		}
		delay := r.backoff * time.Duration(attempt)
		r.log.Warn("Request attempt failed, retrying",
			logger.String("url", req.URL),
			logger.Int("attempt", attempt),
			logger.Duration("retry_in", delay),
			logger.Error(err),
		)
		r.metrics.RecordRetry(string(r.source))
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, &FetchError{
		Source:     r.source,
		URL:        req.URL,
		Attempts:   r.attempts,
		StatusCode: lastStatus,
		Err:        lastErr,
	}
}

func (r *Requester) once(ctx context.Context, req Request) ([]byte, int, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("User-Agent", userAgent)
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("http %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, resp.StatusCode, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
