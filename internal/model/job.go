// Package model defines the canonical job record and the shapes exchanged
// between the source adapters, the aggregation pipeline and the cache.
package model

import (
	"fmt"
	"time"
)

// Source tags one external job board.
type Source string

const (
	SourceArbeitnow      Source = "Arbeitnow"
	SourceAdzuna         Source = "Adzuna"
	SourceJooble         Source = "Jooble"
	SourceGermanTechJobs Source = "GermanTechJobs"
	SourceJobicy         Source = "Jobicy"
	SourceArbeitsagentur Source = "Arbeitsagentur"
)

// AllSources lists every known source in display order.
func AllSources() []Source {
	return []Source{
		SourceArbeitnow,
		SourceAdzuna,
		SourceJooble,
		SourceGermanTechJobs,
		SourceJobicy,
		SourceArbeitsagentur,
	}
}

// ParseSource converts a raw tag to a Source. Matching is case-sensitive.
func ParseSource(s string) (Source, error) {
	src := Source(s)
	switch src {
	case SourceArbeitnow, SourceAdzuna, SourceJooble, SourceGermanTechJobs, SourceJobicy, SourceArbeitsagentur:
		return src, nil
	}
	return "", fmt.Errorf("unknown job source %q", s)
}

// Job is the canonical, normalized posting.
type Job struct {
	ID           string    `json:"id"`
	Source       Source    `json:"source"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Remote       bool      `json:"remote"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_at"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	JobTypes     []string  `json:"job_types"`
	ExactMatch   bool      `json:"exact_match"`
	CareerSwitch bool      `json:"career_switch"`
	IsJunior     bool      `json:"is_junior"`
	Requirements []string  `json:"requirements"`
}

// HasRequirement reports whether key is among the job's extracted requirements.
func (j Job) HasRequirement(key string) bool {
	for _, r := range j.Requirements {
		if r == key {
			return true
		}
	}
	return false
}

// FetchResult is one complete aggregation outcome: jobs newest first plus
// the sources that produced nothing usable.
type FetchResult struct {
	Jobs          []Job    `json:"jobs"`
	FailedSources []Source `json:"failedSources"`
}

// JobByID returns the job with the given id.
func (r FetchResult) JobByID(id string) (Job, bool) {
	for _, j := range r.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return Job{}, false
}

// CacheEntry is the persisted snapshot. Timestamp is epoch milliseconds.
type CacheEntry struct {
	Timestamp int64       `json:"timestamp"`
	Data      FetchResult `json:"data"`
}

// FetchedAt returns the entry timestamp as a time.Time.
func (e CacheEntry) FetchedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}
