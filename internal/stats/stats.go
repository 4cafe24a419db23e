// Package stats reduces a job list to requirement frequencies, example
// postings and a month-bucketed trend series.
package stats

import (
	"context"
	"encoding/json"
	"sort"

	"jobpilot/aggregator/internal/model"
)

const (
	maxRequirements = 100
	maxExamples     = 10
	monthLayout     = "2006-01"
)

// RequirementCount is one taxonomy key and the number of jobs requiring it.
type RequirementCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Example is a sample posting listed under a requirement.
type Example struct {
	JobID   string `json:"jobId"`
	Title   string `json:"title"`
	Company string `json:"company"`
	URL     string `json:"url"`
}

// MonthPoint holds per-requirement counts for one calendar month.
// It serializes flat: {"month": "2025-03", "Linux": 4, ...}.
type MonthPoint struct {
	Month  string
	Counts map[string]int
}

// MarshalJSON flattens Counts next to the month field.
func (p MonthPoint) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(p.Counts)+1)
	for k, v := range p.Counts {
		flat[k] = v
	}
	flat["month"] = p.Month
	return json.Marshal(flat)
}

// Stats is the statistics report.
type Stats struct {
	TotalJobs         int                  `json:"totalJobs"`
	RequirementCounts []RequirementCount   `json:"requirementCounts"`
	TimeSeries        []MonthPoint         `json:"timeSeries"`
	Examples          map[string][]Example `json:"examples"`
}

// Compute builds the report over exact-match jobs, additionally restricted to
// career-switch jobs when onlyCareerChange is set. Requirement counts are
// sorted by count descending, ties in first-seen order, and capped at 100.
func Compute(jobs []model.Job, onlyCareerChange bool) Stats {
	counts := make(map[string]int)
	order := make([]string, 0)
	examples := make(map[string][]Example)
	months := make(map[string]map[string]int)
	total := 0

	for _, job := range jobs {
		if !job.ExactMatch || (onlyCareerChange && !job.CareerSwitch) {
			continue
		}
		total++

		month := job.CreatedAt.UTC().Format(monthLayout)
		bucket, ok := months[month]
		if !ok {
			bucket = make(map[string]int)
			months[month] = bucket
		}

		for _, req := range job.Requirements {
			if _, seen := counts[req]; !seen {
				order = append(order, req)
				examples[req] = make([]Example, 0, 1)
			}
			counts[req]++
			bucket[req]++
			if len(examples[req]) < maxExamples {
				examples[req] = append(examples[req], Example{
					JobID:   job.ID,
					Title:   job.Title,
					Company: job.Company,
					URL:     job.URL,
				})
			}
		}
	}

	ranked := make([]RequirementCount, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, RequirementCount{Key: key, Count: counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > maxRequirements {
		ranked = ranked[:maxRequirements]
	}

	series := make([]MonthPoint, 0, len(months))
	for month, bucket := range months {
		series = append(series, MonthPoint{Month: month, Counts: bucket})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })

	return Stats{
		TotalJobs:         total,
		RequirementCounts: ranked,
		TimeSeries:        series,
		Examples:          examples,
	}
}

// JobSource yields the current job list, normally the cache layer.
type JobSource interface {
	Get(ctx context.Context, forceRefresh bool) (model.FetchResult, error)
}

// Service computes statistics over the cached job list.
type Service struct {
	jobs JobSource
}

// NewService constructs a Service.
func NewService(jobs JobSource) *Service { return &Service{jobs: jobs} }

// Statistics reads the current snapshot and reduces it.
func (s *Service) Statistics(ctx context.Context, onlyCareerChange bool) (Stats, error) {
	result, err := s.jobs.Get(ctx, false)
	if err != nil {
		return Stats{}, err
	}
	return Compute(result.Jobs, onlyCareerChange), nil
}
