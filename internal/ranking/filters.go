package ranking

import (
	"fmt"
	"strings"
	"time"

	"jobpilot/aggregator/internal/keyword"
	"jobpilot/aggregator/internal/model"
)

// SkillLogic combines multiple skill filters.
type SkillLogic string

const (
	SkillsAll SkillLogic = "AND"
	SkillsAny SkillLogic = "OR"
)

// ParseSkillLogic converts a raw string to a SkillLogic; empty means AND.
func ParseSkillLogic(s string) (SkillLogic, error) {
	switch strings.ToUpper(s) {
	case "", string(SkillsAll):
		return SkillsAll, nil
	case string(SkillsAny):
		return SkillsAny, nil
	}
	return "", &ValidationError{Msg: fmt.Sprintf("unknown skill logic %q", s)}
}

// Filters narrows a job list. Zero values disable a filter.
type Filters struct {
	SearchTerm       string
	Days             int
	CareerChangeOnly bool
	JuniorOnly       bool
	Remote           *bool
	Skills           []string
	SkillLogic       SkillLogic
	Sources          []model.Source
	Location         string
	FavoritesOnly    bool
	// Exclude drops jobs whose title, company or description contains any
	// of these terms.
	Exclude []string
}

// Favorites is the set of job ids the user starred.
type Favorites map[string]struct{}

// NewFavorites builds a set from ids.
func NewFavorites(ids ...string) Favorites {
	f := make(Favorites, len(ids))
	for _, id := range ids {
		if id != "" {
			f[id] = struct{}{}
		}
	}
	return f
}

// Has reports whether id is a favorite. Safe on a nil set.
func (f Favorites) Has(id string) bool {
	_, ok := f[id]
	return ok
}

// Apply returns the jobs matching every active filter, in input order.
// Days keeps jobs created at most that many days before now; SearchTerm
// matches the title and Location the location, both case-insensitively.
// An empty Sources list admits every source.
func Apply(jobs []model.Job, f Filters, favorites Favorites, now time.Time) []model.Job {
	term := strings.ToLower(f.SearchTerm)
	exclude := lowerAll(f.Exclude)
	location := strings.ToLower(f.Location)
	maxAge := time.Duration(f.Days) * 24 * time.Hour

	out := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if f.FavoritesOnly && !favorites.Has(job.ID) {
			continue
		}
		if f.Days > 0 && now.Sub(job.CreatedAt) > maxAge {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(job.Title), term) {
			continue
		}
		if f.CareerChangeOnly && !job.CareerSwitch {
			continue
		}
		if f.JuniorOnly && !job.IsJunior {
			continue
		}
		if f.Remote != nil && job.Remote != *f.Remote {
			continue
		}
		if len(f.Skills) > 0 && !matchSkills(job.Requirements, f.Skills, f.SkillLogic) {
			continue
		}
		if len(f.Sources) > 0 && !containsSource(f.Sources, job.Source) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(job.Location), location) {
			continue
		}
		if ContainsRedFlag(job, exclude) {
			continue
		}
		out = append(out, job)
	}
	return out
}

// ContainsRedFlag reports whether any of the lowercase terms appears in the
// job's title, company or description.
func ContainsRedFlag(job model.Job, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	return keyword.ContainsAny(job.Title+" "+job.Company+" "+job.Description, terms)
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = keyword.Normalize(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func matchSkills(requirements, skills []string, logic SkillLogic) bool {
	if logic == SkillsAny {
		for _, s := range skills {
			if contains(requirements, s) {
				return true
			}
		}
		return false
	}
	for _, s := range skills {
		if !contains(requirements, s) {
			return false
		}
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsSource(list []model.Source, v model.Source) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
