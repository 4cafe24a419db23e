// Package ranking filters and orders a job list for browsing.
//
// Sort modes:
//
//	date          favorites first, then newest
//	relevance     relevance score desc, then newest
//	careerChanger career-changer-friendly companies first, then newest
//
// All sorts are stable.
package ranking

import (
	"fmt"
	"sort"

	"jobpilot/aggregator/internal/model"
)

// SortMode selects the order of a browsing result.
type SortMode string

const (
	SortDate          SortMode = "date"
	SortRelevance     SortMode = "relevance"
	SortCareerChanger SortMode = "careerChanger"
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// ParseSortMode converts a raw string to a SortMode. The empty string
// selects SortDate.
func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return SortDate, nil
	}
	mode := SortMode(s)
	switch mode {
	case SortDate, SortRelevance, SortCareerChanger:
		return mode, nil
	}
	return "", &ValidationError{Msg: fmt.Sprintf("unknown sort mode %q", s)}
}

// Weights are the relevance score contributions.
type Weights struct {
	Favorite     int
	ExactMatch   int
	Skill        int
	Junior       int
	CareerSwitch int
}

// DefaultWeights returns the standard relevance weights.
func DefaultWeights() Weights {
	return Weights{Favorite: 1000, ExactMatch: 100, Skill: 10, Junior: 20, CareerSwitch: 20}
}

// Score computes the relevance of job under the active filters. Skill points
// count the job's requirements that are among the filter skills; junior and
// career-switch points only apply while that filter is active.
func Score(job model.Job, f Filters, favorites Favorites, w Weights) int {
	score := 0
	if favorites.Has(job.ID) {
		score += w.Favorite
	}
	if job.ExactMatch {
		score += w.ExactMatch
	}
	if len(f.Skills) > 0 {
		for _, req := range job.Requirements {
			if contains(f.Skills, req) {
				score += w.Skill
			}
		}
	}
	if f.JuniorOnly && job.IsJunior {
		score += w.Junior
	}
	if f.CareerChangeOnly && job.CareerSwitch {
		score += w.CareerSwitch
	}
	return score
}

// Sort orders jobs in place according to mode. friendly is the
// career-changer-friendly company set of the whole snapshot, see
// FriendlyCompanies; only SortCareerChanger reads it.
func Sort(jobs []model.Job, mode SortMode, f Filters, favorites Favorites, friendly map[string]bool, w Weights) {
	newer := func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) }

	switch mode {
	case SortRelevance:
		scores := make(map[string]int, len(jobs))
		for _, j := range jobs {
			scores[j.ID] = Score(j, f, favorites, w)
		}
		sort.SliceStable(jobs, func(i, j int) bool {
			si, sj := scores[jobs[i].ID], scores[jobs[j].ID]
			if si != sj {
				return si > sj
			}
			return newer(i, j)
		})

	case SortCareerChanger:
		sort.SliceStable(jobs, func(i, j int) bool {
			fi, fj := friendly[jobs[i].Company], friendly[jobs[j].Company]
			if fi != fj {
				return fi
			}
			return newer(i, j)
		})

	default:
		sort.SliceStable(jobs, func(i, j int) bool {
			fi, fj := favorites.Has(jobs[i].ID), favorites.Has(jobs[j].ID)
			if fi != fj {
				return fi
			}
			return newer(i, j)
		})
	}
}
