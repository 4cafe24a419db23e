package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/aggregator/internal/aggregator"
	"jobpilot/aggregator/internal/api"
	"jobpilot/aggregator/internal/letter"
	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/ranking"
)

// ── Fakes ──

type fakeCache struct {
	result   model.FetchResult
	err      error
	previous *model.CacheEntry
	forced   []bool
}

func (f *fakeCache) Get(_ context.Context, force bool) (model.FetchResult, error) {
	f.forced = append(f.forced, force)
	return f.result, f.err
}

func (f *fakeCache) Peek(context.Context) (model.CacheEntry, bool) {
	if f.previous == nil {
		return model.CacheEntry{}, false
	}
	return *f.previous, true
}

type fakeLetters struct {
	coverJob  model.Job
	suitJobs  []model.Job
	suitTitle string
}

func (f *fakeLetters) CoverLetter(_ context.Context, job model.Job, uc letter.UserContext) string {
	f.coverJob = job
	return "Bewerbung als " + job.Title + " / " + uc.Skills
}

func (f *fakeLetters) SuitabilityLetter(_ context.Context, _ letter.Participant, jobs []model.Job, c letter.Course) string {
	f.suitJobs = jobs
	f.suitTitle = c.Title
	return "Antrag"
}

func snapshot() model.FetchResult {
	now := time.Now()
	return model.FetchResult{
		Jobs: []model.Job{
			{ID: "a", Source: model.SourceArbeitnow, Title: "Linux Admin", Company: "Acme", Location: "Berlin",
				CreatedAt: now.Add(-24 * time.Hour), ExactMatch: true, Requirements: []string{"Linux"}},
			{ID: "b", Source: model.SourceJobicy, Title: "IT Support Klinik", Company: "Care", Location: "Remote",
				Remote: true, CreatedAt: now.Add(-48 * time.Hour), CareerSwitch: true, IsJunior: true, Requirements: []string{"Windows"}},
			{ID: "c", Source: model.SourceAdzuna, Title: "Netzwerkadministrator", Company: "Acme", Location: "Hamburg",
				CreatedAt: now.Add(-30 * 24 * time.Hour), ExactMatch: true, CareerSwitch: true, Requirements: []string{"Linux", "Cisco"}},
		},
		FailedSources: []model.Source{model.SourceJooble},
	}
}

func newServer(t *testing.T, fc *fakeCache, fl api.LetterWriter) *httptest.Server {
	t.Helper()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, "# metrics") })
	h := api.NewHandler(fc, fl, ranking.DefaultWeights(), metrics, logger.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, v any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func jobIDs(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

// ── Health and metrics ──

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t, &fakeCache{}, nil)

	var body map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/health", &body))
	assert.Equal(t, "ok", body["status"])

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newServer(t, &fakeCache{}, &fakeLetters{})

	var body map[string]string
	assert.Equal(t, http.StatusMethodNotAllowed, postJSON(t, srv.URL+"/jobs", "{}", &body))
	assert.Equal(t, "method not allowed", body["error"])

	assert.Equal(t, http.StatusMethodNotAllowed, getJSON(t, srv.URL+"/letters/cover", &body))
}

// ── Jobs ──

func TestJobs_DefaultSortAndEnvelope(t *testing.T) {
	fc := &fakeCache{result: snapshot()}
	srv := newServer(t, fc, nil)

	var body api.JobsResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/jobs", &body))
	assert.Equal(t, []string{"a", "b", "c"}, jobIDs(body.Jobs))
	assert.Equal(t, []model.Source{model.SourceJooble}, body.FailedSources)
	assert.Equal(t, 3, body.Total)
	assert.Nil(t, body.NewJobs)
	assert.Equal(t, []bool{false}, fc.forced)
}

func TestJobs_FiltersAndSort(t *testing.T) {
	srv := newServer(t, &fakeCache{result: snapshot()}, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"?q=admin", []string{"a", "c"}},
		{"?days=7", []string{"a", "b"}},
		{"?careerChange=true", []string{"b", "c"}},
		{"?junior=1", []string{"b"}},
		{"?remote=false", []string{"a", "c"}},
		{"?skills=Linux,Cisco", []string{"c"}},
		{"?skills=Cisco,Windows&skillLogic=OR", []string{"b", "c"}},
		{"?sources=Adzuna,Jobicy", []string{"b", "c"}},
		{"?location=hamb", []string{"c"}},
		{"?exclude=acme", []string{"b"}},
		{"?favorites=c", []string{"c", "a", "b"}},
		{"?favorites=b&favoritesOnly=true", []string{"b"}},
		{"?sort=relevance", []string{"a", "c", "b"}},
		{"?sort=relevance&favorites=b", []string{"b", "a", "c"}},
		{"?sort=careerChanger", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var body api.JobsResponse
			require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/jobs"+tt.query, &body))
			assert.Equal(t, tt.want, jobIDs(body.Jobs))
		})
	}
}

func TestJobs_CareerChangerRanksBySnapshotCompanies(t *testing.T) {
	now := time.Now()
	fc := &fakeCache{result: model.FetchResult{Jobs: []model.Job{
		{ID: "b1", Title: "Linux Support", Company: "B", CreatedAt: now.Add(-time.Hour)},
		{ID: "a1", Title: "Linux Admin", Company: "A", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "a2", Title: "Quereinsteiger IT", Company: "A", CareerSwitch: true, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "a3", Title: "Quereinsteiger Support", Company: "A", CareerSwitch: true, CreatedAt: now.Add(-4 * time.Hour)},
	}}}
	srv := newServer(t, fc, nil)

	var body api.JobsResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/jobs?q=linux&sort=careerChanger", &body))
	// A stays friendly although its career-switch postings are filtered out.
	assert.Equal(t, []string{"a1", "b1"}, jobIDs(body.Jobs))
	assert.Equal(t, 4, body.Total)
}

func TestJobs_InvalidQuery(t *testing.T) {
	srv := newServer(t, &fakeCache{result: snapshot()}, nil)

	for _, q := range []string{"?sort=salary", "?days=-1", "?remote=maybe", "?sources=Monster", "?refresh=x", "?skillLogic=XOR"} {
		var body map[string]string
		assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/jobs"+q, &body), q)
		assert.NotEmpty(t, body["error"], q)
	}
}

func TestJobs_RefreshReportsNewJobs(t *testing.T) {
	fc := &fakeCache{
		result: snapshot(),
		previous: &model.CacheEntry{Data: model.FetchResult{
			Jobs: []model.Job{{ID: "a"}, {ID: "gone"}},
		}},
	}
	srv := newServer(t, fc, nil)

	var body api.JobsResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/jobs?refresh=true", &body))
	require.NotNil(t, body.NewJobs)
	assert.Equal(t, 2, *body.NewJobs)
	assert.Equal(t, []bool{true}, fc.forced)
}

func TestJobs_TotalFailureIs503(t *testing.T) {
	srv := newServer(t, &fakeCache{err: aggregator.ErrAllSourcesFailed}, nil)

	var body map[string]string
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/jobs", &body))
	assert.Equal(t, aggregator.ErrAllSourcesFailed.Error(), body["error"])
}

func TestJobs_UnexpectedErrorIs500(t *testing.T) {
	srv := newServer(t, &fakeCache{err: errors.New("disk on fire")}, nil)

	var body map[string]string
	assert.Equal(t, http.StatusInternalServerError, getJSON(t, srv.URL+"/jobs", &body))
	assert.Equal(t, "internal server error", body["error"])
}

// ── Statistics, companies, counseling ──

func TestStatistics(t *testing.T) {
	srv := newServer(t, &fakeCache{result: snapshot()}, nil)

	var body struct {
		TotalJobs         int `json:"totalJobs"`
		RequirementCounts []struct {
			Key   string `json:"key"`
			Count int    `json:"count"`
		} `json:"requirementCounts"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/statistics", &body))
	assert.Equal(t, 2, body.TotalJobs)
	require.NotEmpty(t, body.RequirementCounts)
	assert.Equal(t, "Linux", body.RequirementCounts[0].Key)
	assert.Equal(t, 2, body.RequirementCounts[0].Count)

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/statistics?careerChangeOnly=true", &body))
	assert.Equal(t, 1, body.TotalJobs)
}

func TestCompaniesAndCounseling(t *testing.T) {
	srv := newServer(t, &fakeCache{result: snapshot()}, nil)

	var companies []ranking.CompanyStats
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/companies", &companies))
	require.Len(t, companies, 2)
	assert.Equal(t, ranking.CompanyStats{Company: "Acme", Total: 2, CareerSwitch: 1, Friendly: true}, companies[0])

	var shortlist []ranking.ScoredJob
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/counseling/jobs", &shortlist))
	require.Len(t, shortlist, 1)
	assert.Equal(t, "b", shortlist[0].ID)
	assert.Equal(t, 4, shortlist[0].Score)
}

// ── Letters ──

func TestCoverLetter(t *testing.T) {
	fl := &fakeLetters{}
	srv := newServer(t, &fakeCache{result: snapshot()}, fl)

	var body api.LetterResponse
	code := postJSON(t, srv.URL+"/letters/cover", `{"jobId":"a","userContext":{"skills":"Bash"}}`, &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bewerbung als Linux Admin / Bash", body.Letter)
	assert.Equal(t, "a", fl.coverJob.ID)
}

func TestCoverLetter_Errors(t *testing.T) {
	srv := newServer(t, &fakeCache{result: snapshot()}, &fakeLetters{})

	tests := []struct {
		body string
		code int
	}{
		{`{"jobId":"zzz"}`, http.StatusNotFound},
		{`{"userContext":{}}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		var body map[string]string
		assert.Equal(t, tt.code, postJSON(t, srv.URL+"/letters/cover", tt.body, &body), tt.body)
		assert.NotEmpty(t, body["error"])
	}
}

func TestLetters_NotConfigured(t *testing.T) {
	srv := newServer(t, &fakeCache{result: snapshot()}, nil)

	var body map[string]string
	assert.Equal(t, http.StatusServiceUnavailable, postJSON(t, srv.URL+"/letters/cover", `{"jobId":"a"}`, &body))
	assert.Equal(t, http.StatusServiceUnavailable, postJSON(t, srv.URL+"/letters/suitability", `{}`, &body))
}

func TestSuitabilityLetter(t *testing.T) {
	fl := &fakeLetters{}
	srv := newServer(t, &fakeCache{result: snapshot()}, fl)

	var body api.LetterResponse
	code := postJSON(t, srv.URL+"/letters/suitability",
		`{"participant":{"name":"Alex"},"jobIds":["b","c"],"course":{"title":"IT im Gesundheitswesen"}}`, &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Antrag", body.Letter)
	assert.Equal(t, []string{"b", "c"}, jobIDs(fl.suitJobs))
	assert.Equal(t, "IT im Gesundheitswesen", fl.suitTitle)

	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, postJSON(t, srv.URL+"/letters/suitability",
		`{"jobIds":["nope"],"course":{"title":"x"}}`, &errBody))
	assert.Equal(t, http.StatusBadRequest, postJSON(t, srv.URL+"/letters/suitability", `{"course":{}}`, &errBody))
}
