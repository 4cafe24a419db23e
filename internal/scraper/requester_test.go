package scraper_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/scraper"
)

func newRequester(attempts int) *scraper.Requester {
	return scraper.NewRequester(model.SourceArbeitnow, scraper.RequestConfig{
		Attempts: attempts,
		Backoff:  time.Millisecond,
		Timeout:  2 * time.Second,
	}, logger.NewNop(), nil)
}

// ── Retry ──

func TestRequester_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	body, err := newRequester(3).Do(context.Background(), scraper.Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestRequester_FetchErrorAfterLastAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newRequester(3).Do(context.Background(), scraper.Request{URL: srv.URL})
	require.Error(t, err)

	var fe *scraper.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Attempts)
	assert.Equal(t, http.StatusTooManyRequests, fe.StatusCode)
	assert.Equal(t, model.SourceArbeitnow, fe.Source)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRequester_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newRequester(2).Do(context.Background(), scraper.Request{URL: url})

	var fe *scraper.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 0, fe.StatusCode)
}

func TestRequester_SetsUserAgentAndHeaders(t *testing.T) {
	var gotUA, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotKey = r.Header.Get("X-API-Key")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("X-API-Key", "secret")
	_, err := newRequester(1).Do(context.Background(), scraper.Request{URL: srv.URL, Header: header})
	require.NoError(t, err)
	assert.Equal(t, "JobPilot/1.0", gotUA)
	assert.Equal(t, "secret", gotKey)
}

func TestRequester_ContextCancelStopsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	req := scraper.NewRequester(model.SourceJooble, scraper.RequestConfig{
		Attempts: 5,
		Backoff:  time.Hour,
	}, logger.NewNop(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := req.Do(ctx, scraper.Request{URL: srv.URL})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
