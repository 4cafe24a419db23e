// Package normalize maps provider-native records onto the canonical Job,
// applies the German-locale admission filter and derives the keyword
// classification tags.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"jobpilot/aggregator/internal/keyword"
	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
)

const arbeitsagenturDetailURL = "https://www.arbeitsagentur.de/jobsuche/jobdetail/"

// Classifier holds the keyword lists used to tag admitted jobs.
type Classifier struct {
	TargetRole   []string
	CareerSwitch []string
	Junior       []string
	Taxonomy     []keyword.Skill
}

// DefaultClassifier uses the built-in keyword lists and taxonomy.
func DefaultClassifier() Classifier {
	return Classifier{
		TargetRole:   keyword.TargetRole,
		CareerSwitch: keyword.CareerSwitch,
		Junior:       keyword.Junior,
		Taxonomy:     keyword.Taxonomy,
	}
}

// Normalizer turns raw records into admitted canonical jobs.
type Normalizer struct {
	classifier Classifier
	log        logger.Logger
}

// New constructs a Normalizer.
func New(classifier Classifier, log logger.Logger) *Normalizer {
	return &Normalizer{classifier: classifier, log: log.With(logger.String("component", "normalize"))}
}

// Normalize maps rec to a Job. It returns false when the record lacks a
// required field or fails the admission filter. A record type without a
// mapping panics.
func (n *Normalizer) Normalize(rec model.RawRecord) (model.Job, bool) {
	job, nativeID := mapRecord(rec)

	if job.Title == "" || job.Company == "" || job.Location == "" || job.CreatedAt.IsZero() || nativeID == "" {
		n.log.Debug("Dropping incomplete record",
			logger.String("source", string(job.Source)),
			logger.String("native_id", nativeID),
			logger.String("title", job.Title),
		)
		return model.Job{}, false
	}
	if !Admit(job.Location, job.Remote) {
		return model.Job{}, false
	}

	job.ID = string(job.Source) + "-" + nativeID
	n.classify(&job)
	return job, true
}

func (n *Normalizer) classify(job *model.Job) {
	fullText := job.Title + " " + job.Description
	job.ExactMatch = keyword.ContainsAny(job.Title, n.classifier.TargetRole)
	job.CareerSwitch = keyword.ContainsAny(fullText, n.classifier.CareerSwitch)
	job.IsJunior = keyword.ContainsAny(fullText, n.classifier.Junior)
	job.Requirements = keyword.ExtractSkills(job.Description, n.classifier.Taxonomy)
}

// mapRecord applies the per-source field table. Optional sequences are
// never nil and description defaults to "".
func mapRecord(rec model.RawRecord) (model.Job, string) {
	job := model.Job{Tags: []string{}, JobTypes: []string{}}
	var nativeID string

	switch r := rec.(type) {
	case model.ArbeitnowRecord:
		nativeID = r.Slug
		job.Title = r.Title
		job.Company = r.CompanyName
		job.Location = r.Location
		job.Remote = r.Remote
		job.URL = r.URL
		job.CreatedAt = fromEpochSeconds(r.CreatedAt)
		job.Description = r.Description
		job.Tags = nonNil(r.Tags)
		job.JobTypes = nonNil(r.JobTypes)

	case model.AdzunaRecord:
		nativeID = string(r.ID)
		job.Title = r.Title
		job.Company = r.Company.DisplayName
		job.Location = r.Location.DisplayName
		job.Remote = strings.Contains(strings.ToLower(r.Title), "remote")
		job.URL = r.RedirectURL
		job.CreatedAt = parseTime(r.Created)
		job.Description = r.Description
		if r.Category != nil && r.Category.Label != "" {
			job.Tags = []string{r.Category.Label}
		}

	case model.JoobleRecord:
		nativeID = string(r.ID)
		job.Title = r.Title
		job.Company = r.Company
		job.Location = r.Location
		job.Remote = strings.Contains(keyword.Normalize(r.Title), "remote") ||
			strings.Contains(keyword.Normalize(r.Snippet), "remote")
		job.URL = r.Link
		job.CreatedAt = parseTime(r.Updated)
		job.Description = r.Snippet
		if r.Type != "" {
			job.Tags = []string{r.Type}
		}

	case model.GermanTechJobsRecord:
		nativeID = string(r.ID)
		job.Title = r.Title
		job.Company = r.Company
		job.Location = r.Location
		job.Remote = strings.ToLower(r.Remote) != "office"
		job.URL = r.URL
		job.CreatedAt = fromEpochSeconds(r.Epoch)
		job.Description = r.Description
		job.Tags = nonNil(r.Tags)

	case model.JobicyRecord:
		nativeID = string(r.ID)
		job.Title = r.JobTitle
		job.Company = r.CompanyName
		job.Location = r.JobGeo
		if job.Location == "" {
			job.Location = "Remote"
		}
		job.Remote = true
		job.URL = r.URL
		job.CreatedAt = parseTime(r.PubDate)
		job.Description = r.JobDescription
		job.Tags = nonNil(r.JobTag)
		job.JobTypes = nonNil(r.JobType)

	case model.ArbeitsagenturRecord:
		nativeID = r.HashID
		job.Title = r.Titel
		job.Company = r.Arbeitgeber
		job.Location = "N/A"
		if r.Arbeitsort != nil && r.Arbeitsort.Ort != "" {
			job.Location = r.Arbeitsort.Ort + ", " + r.Arbeitsort.PLZ
		}
		job.Remote = r.Arbeitszeit.Contains("ho")
		if r.HashID != "" {
			job.URL = arbeitsagenturDetailURL + r.HashID
		}
		job.CreatedAt = parseTime(r.AktuelleVeroeffentlichungsdatum)
		job.Description = r.Stellenbeschreibung

	default:
		panic(fmt.Sprintf("normalize: no field mapping for record type %T", rec))
	}

	job.Source = rec.Source()
	return job, nativeID
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func fromEpochSeconds(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts the date formats the providers emit. Values without a
// zone are read as UTC. Unparseable input yields the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
