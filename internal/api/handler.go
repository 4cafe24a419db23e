// Package api implements the HTTP handlers of the job aggregator.
//
// Routes:
//
//	GET  /health                → liveness probe
//	GET  /metrics               → Prometheus metrics
//	GET  /jobs                  → filtered, sorted job snapshot
//	GET  /statistics            → requirement statistics
//	GET  /companies             → per-company career-changer stats
//	GET  /counseling/jobs       → healthcare shortlist for education counseling
//	POST /letters/cover         → generate a cover letter for one job
//	POST /letters/suitability   → generate an education-voucher letter
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jobpilot/aggregator/internal/aggregator"
	"jobpilot/aggregator/internal/keyword"
	"jobpilot/aggregator/internal/letter"
	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/ranking"
	"jobpilot/aggregator/internal/stats"
)

const maxBodyBytes = 1 << 20

// JobCache is the read-through snapshot cache.
type JobCache interface {
	Get(ctx context.Context, forceRefresh bool) (model.FetchResult, error)
	Peek(ctx context.Context) (model.CacheEntry, bool)
}

// LetterWriter generates application letters.
type LetterWriter interface {
	CoverLetter(ctx context.Context, job model.Job, uc letter.UserContext) string
	SuitabilityLetter(ctx context.Context, p letter.Participant, jobs []model.Job, c letter.Course) string
}

// ─── Response types ───────────────────────────────────────────────────────────

// JobsResponse is the body of GET /jobs.
type JobsResponse struct {
	Jobs          []model.Job    `json:"jobs"`
	FailedSources []model.Source `json:"failedSources"`
	Total         int            `json:"total"`
	NewJobs       *int           `json:"newJobs,omitempty"`
}

// LetterResponse is the body of both letter routes.
type LetterResponse struct {
	Letter string `json:"letter"`
}

type coverRequest struct {
	JobID       string             `json:"jobId"`
	UserContext letter.UserContext `json:"userContext"`
}

type suitabilityRequest struct {
	Participant letter.Participant `json:"participant"`
	JobIDs      []string           `json:"jobIds"`
	Course      letter.Course      `json:"course"`
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	jobs    JobCache
	stats   *stats.Service
	letters LetterWriter
	weights ranking.Weights
	metrics http.Handler
	log     logger.Logger
	now     func() time.Time
}

// NewHandler returns a configured Handler. letters and metrics may be nil, in
// which case their routes answer 503 and 404 respectively.
func NewHandler(jobs JobCache, letters LetterWriter, weights ranking.Weights, metrics http.Handler, log logger.Logger) *Handler {
	return &Handler{
		jobs:    jobs,
		stats:   stats.NewService(jobs),
		letters: letters,
		weights: weights,
		metrics: metrics,
		log:     log.With(logger.String("component", "api")),
		now:     time.Now,
	}
}

// RegisterRoutes mounts all routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	if h.metrics != nil {
		mux.Handle("/metrics", h.metrics)
	}
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/statistics", h.handleStatistics)
	mux.HandleFunc("/companies", h.handleCompanies)
	mux.HandleFunc("/counseling/jobs", h.handleCounseling)
	mux.HandleFunc("/letters/cover", h.handleCoverLetter)
	mux.HandleFunc("/letters/suitability", h.handleSuitabilityLetter)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, map[string]string{"status": "ok"})
}

// handleJobs handles GET /jobs. With refresh=true the snapshot is rebuilt
// and newJobs counts the ids the previous snapshot did not have.
func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q, err := parseJobsQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, err)
		return
	}

	var previous *model.CacheEntry
	if q.refresh {
		if prev, ok := h.jobs.Peek(r.Context()); ok {
			previous = &prev
		}
	}

	res, err := h.jobs.Get(r.Context(), q.refresh)
	if err != nil {
		h.writeError(w, err)
		return
	}

	jobs := ranking.Apply(res.Jobs, q.filters, q.favorites, h.now())
	ranking.Sort(jobs, q.sort, q.filters, q.favorites, ranking.FriendlyCompanies(res.Jobs), h.weights)

	resp := JobsResponse{
		Jobs:          jobs,
		FailedSources: nonNilSources(res.FailedSources),
		Total:         len(res.Jobs),
	}
	if previous != nil {
		n := ranking.NewJobs(previous.Data.Jobs, res.Jobs)
		resp.NewJobs = &n
	}
	jsonOK(w, resp)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	careerOnly, err := parseBool(r.URL.Query(), "careerChangeOnly")
	if err != nil {
		h.writeError(w, err)
		return
	}
	st, err := h.stats.Statistics(r.Context(), careerOnly)
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, st)
}

func (h *Handler) handleCompanies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res, err := h.jobs.Get(r.Context(), false)
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, ranking.Companies(res.Jobs))
}

func (h *Handler) handleCounseling(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res, err := h.jobs.Get(r.Context(), false)
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, ranking.Counseling(res.Jobs, keyword.Healthcare))
}

// handleCoverLetter handles POST /letters/cover {jobId, userContext}.
func (h *Handler) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.letters == nil {
		jsonError(w, "letter generation is not configured", http.StatusServiceUnavailable)
		return
	}

	var body coverRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	if body.JobID == "" {
		jsonError(w, "jobId is required", http.StatusBadRequest)
		return
	}

	res, err := h.jobs.Get(r.Context(), false)
	if err != nil {
		h.writeError(w, err)
		return
	}
	job, ok := res.JobByID(body.JobID)
	if !ok {
		jsonError(w, fmt.Sprintf("job %q not found", body.JobID), http.StatusNotFound)
		return
	}

	jsonOK(w, LetterResponse{Letter: h.letters.CoverLetter(r.Context(), job, body.UserContext)})
}

// handleSuitabilityLetter handles POST /letters/suitability
// {participant, jobIds, course}.
func (h *Handler) handleSuitabilityLetter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.letters == nil {
		jsonError(w, "letter generation is not configured", http.StatusServiceUnavailable)
		return
	}

	var body suitabilityRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	if body.Course.Title == "" {
		jsonError(w, "course.title is required", http.StatusBadRequest)
		return
	}

	var selected []model.Job
	if len(body.JobIDs) > 0 {
		res, err := h.jobs.Get(r.Context(), false)
		if err != nil {
			h.writeError(w, err)
			return
		}
		for _, id := range body.JobIDs {
			job, ok := res.JobByID(id)
			if !ok {
				jsonError(w, fmt.Sprintf("job %q not found", id), http.StatusNotFound)
				return
			}
			selected = append(selected, job)
		}
	}

	text := h.letters.SuitabilityLetter(r.Context(), body.Participant, selected, body.Course)
	jsonOK(w, LetterResponse{Letter: text})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// writeError maps domain errors onto HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *ranking.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, aggregator.ErrAllSourcesFailed):
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		jsonError(w, "request cancelled", http.StatusGatewayTimeout)
	default:
		h.log.Error("Request failed", logger.Error(err))
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ranking.ValidationError{Msg: "invalid JSON body"}
	}
	return nil
}

func nonNilSources(s []model.Source) []model.Source {
	if s == nil {
		return []model.Source{}
	}
	return s
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
