package ranking

import (
	"sort"

	"jobpilot/aggregator/internal/keyword"
	"jobpilot/aggregator/internal/model"
)

// ScoredJob is a job with its counseling score.
type ScoredJob struct {
	model.Job
	Score int `json:"score"`
}

// Counseling shortlists healthcare-sector jobs for education counseling.
// A job qualifies when its title or description mentions a healthcare
// keyword; it scores 2 for career switch, 1 for junior and 1 for remote.
// The list is sorted by score, highest first, ties in input order.
func Counseling(jobs []model.Job, keywords []string) []ScoredJob {
	out := make([]ScoredJob, 0)
	for _, job := range jobs {
		if !keyword.ContainsAny(job.Title+" "+job.Description, keywords) {
			continue
		}
		score := 0
		if job.CareerSwitch {
			score += 2
		}
		if job.IsJunior {
			score++
		}
		if job.Remote {
			score++
		}
		out = append(out, ScoredJob{Job: job, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// NewJobs counts the jobs in current whose id is absent from previous.
func NewJobs(previous, current []model.Job) int {
	seen := make(map[string]struct{}, len(previous))
	for _, j := range previous {
		seen[j.ID] = struct{}{}
	}
	n := 0
	for _, j := range current {
		if _, ok := seen[j.ID]; !ok {
			n++
		}
	}
	return n
}
