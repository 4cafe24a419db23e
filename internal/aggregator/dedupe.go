package aggregator

import (
	"strings"

	"jobpilot/aggregator/internal/model"
)

// DedupeKey identifies a posting across sources by its normalized
// title, company and location.
func DedupeKey(j model.Job) string {
	return norm(j.Title) + "|" + norm(j.Company) + "|" + norm(j.Location)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Dedupe keeps the first job for every DedupeKey, preserving input order.
func Dedupe(jobs []model.Job) []model.Job {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		key := DedupeKey(j)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, j)
	}
	return out
}
