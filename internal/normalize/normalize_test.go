package normalize_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/normalize"
)

func newNormalizer() *normalize.Normalizer {
	return normalize.New(normalize.DefaultClassifier(), logger.NewNop())
}

// ── Field mapping ──

func TestNormalize_Arbeitnow(t *testing.T) {
	job, ok := newNormalizer().Normalize(model.ArbeitnowRecord{
		Slug:        "it-admin-berlin-123",
		CompanyName: "ACME GmbH",
		Title:       "IT-Administrator (m/w/d)",
		Location:    "Berlin",
		URL:         "https://example.org/1",
		CreatedAt:   1700000000,
		Tags:        []string{"IT"},
	})
	require.True(t, ok)

	assert.Equal(t, "Arbeitnow-it-admin-berlin-123", job.ID)
	assert.Equal(t, model.SourceArbeitnow, job.Source)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), job.CreatedAt)
	assert.Equal(t, "", job.Description)
	assert.Equal(t, []string{"IT"}, job.Tags)
	assert.Equal(t, []string{}, job.JobTypes)
	assert.True(t, job.ExactMatch)
}

func TestNormalize_AdzunaRemoteFromTitle(t *testing.T) {
	job, ok := newNormalizer().Normalize(model.AdzunaRecord{
		ID:       "42",
		Title:    "Remote Linux Admin",
		Company:  model.AdzunaName{DisplayName: "Foo"},
		Location: model.AdzunaName{DisplayName: "Europe"},
		Category: &model.AdzunaCategory{Label: "IT Jobs"},
		Created:  "2025-03-04T10:00:00Z",
	})
	require.True(t, ok)
	assert.True(t, job.Remote)
	assert.Equal(t, []string{"IT Jobs"}, job.Tags)
	assert.Equal(t, "Adzuna-42", job.ID)
}

func TestNormalize_JoobleSnippetAndZonelessDate(t *testing.T) {
	job, ok := newNormalizer().Normalize(model.JoobleRecord{
		ID:       "-77",
		Title:    "Helpdesk Mitarbeiter",
		Company:  "Bar AG",
		Location: "Hamburg",
		Snippet:  "Wir bieten Remote-Arbeit",
		Type:     "Vollzeit",
		Link:     "https://jooble.org/x",
		Updated:  "2025-03-04T10:00:00.0000000",
	})
	require.True(t, ok)
	assert.True(t, job.Remote)
	assert.Equal(t, "Wir bieten Remote-Arbeit", job.Description)
	assert.Equal(t, []string{"Vollzeit"}, job.Tags)
	assert.Equal(t, time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC), job.CreatedAt)
}

func TestNormalize_GermanTechJobsRemote(t *testing.T) {
	base := model.GermanTechJobsRecord{ID: "9", Title: "DevOps", Company: "X", Location: "München", Epoch: 1700000000}

	office := base
	office.Remote = "Office"
	job, ok := newNormalizer().Normalize(office)
	require.True(t, ok)
	assert.False(t, job.Remote)

	partly := base
	partly.Remote = "Partly remote"
	job, ok = newNormalizer().Normalize(partly)
	require.True(t, ok)
	assert.True(t, job.Remote)
}

func TestNormalize_JobicyDefaults(t *testing.T) {
	job, ok := newNormalizer().Normalize(model.JobicyRecord{
		ID:          "5",
		JobTitle:    "Support Engineer",
		CompanyName: "Remote Co",
		JobTag:      model.StringList{"linux"},
		JobType:     model.StringList{"full-time"},
		PubDate:     "2025-03-04 10:00:00",
	})
	require.True(t, ok)
	assert.Equal(t, "Remote", job.Location)
	assert.True(t, job.Remote)
	assert.Equal(t, []string{"linux"}, job.Tags)
	assert.Equal(t, []string{"full-time"}, job.JobTypes)
}

func TestNormalize_Arbeitsagentur(t *testing.T) {
	job, ok := newNormalizer().Normalize(model.ArbeitsagenturRecord{
		HashID:                          "abc=",
		Titel:                           "Systemadministrator",
		Arbeitgeber:                     "Stadtwerke",
		Arbeitsort:                      &model.ArbeitsagenturAddress{Ort: "Köln", PLZ: "50667"},
		Arbeitszeit:                     model.ArrayList{"vz", "ho"},
		AktuelleVeroeffentlichungsdatum: "2025-03-04",
	})
	require.True(t, ok)
	assert.Equal(t, "Köln, 50667", job.Location)
	assert.True(t, job.Remote)
	assert.Equal(t, "https://www.arbeitsagentur.de/jobsuche/jobdetail/abc=", job.URL)
	assert.Equal(t, "Arbeitsagentur-abc=", job.ID)
}

func TestNormalize_ArbeitsagenturScalarWorkingTimeIsNotRemote(t *testing.T) {
	var rec model.ArbeitsagenturRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"hashId": "def=",
		"titel": "Systemadministrator",
		"arbeitgeber": "Stadtwerke",
		"arbeitsort": {"ort": "Köln", "plz": "50667"},
		"arbeitszeit": "ho",
		"aktuelleVeroeffentlichungsdatum": "2025-03-04"
	}`), &rec))

	job, ok := newNormalizer().Normalize(rec)
	require.True(t, ok)
	assert.False(t, job.Remote)
}

func TestNormalize_ArbeitsagenturWithoutAddressIsRejected(t *testing.T) {
	// "N/A" is neither German nor remote.
	_, ok := newNormalizer().Normalize(model.ArbeitsagenturRecord{
		HashID:                          "x",
		Titel:                           "Admin",
		Arbeitgeber:                     "Y",
		AktuelleVeroeffentlichungsdatum: "2025-03-04",
	})
	assert.False(t, ok)
}

// ── Required fields ──

func TestNormalize_MissingRequiredFields(t *testing.T) {
	valid := model.GermanTechJobsRecord{ID: "1", Title: "Admin", Company: "X", Location: "Berlin", Epoch: 1700000000}

	tests := []struct {
		name   string
		mutate func(*model.GermanTechJobsRecord)
	}{
		{"no id", func(r *model.GermanTechJobsRecord) { r.ID = "" }},
		{"no title", func(r *model.GermanTechJobsRecord) { r.Title = "" }},
		{"no company", func(r *model.GermanTechJobsRecord) { r.Company = "" }},
		{"no location", func(r *model.GermanTechJobsRecord) { r.Location = "" }},
		{"zero epoch", func(r *model.GermanTechJobsRecord) { r.Epoch = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mutate(&rec)
			_, ok := newNormalizer().Normalize(rec)
			assert.False(t, ok)
		})
	}
}

func TestNormalize_UnparseableDateIsRejected(t *testing.T) {
	_, ok := newNormalizer().Normalize(model.AdzunaRecord{
		ID:       "1",
		Title:    "Admin",
		Company:  model.AdzunaName{DisplayName: "X"},
		Location: model.AdzunaName{DisplayName: "Berlin"},
		Created:  "last tuesday",
	})
	assert.False(t, ok)
}

func TestNormalize_UnmappedRecordPanics(t *testing.T) {
	assert.Panics(t, func() { newNormalizer().Normalize(nil) })
}

// ── Classification ──

func TestNormalize_Classification(t *testing.T) {
	job, ok := newNormalizer().Normalize(model.ArbeitnowRecord{
		Slug:        "s",
		CompanyName: "C",
		Title:       "Junior Systemadministrator – Quereinsteiger willkommen",
		Location:    "Berlin",
		CreatedAt:   1700000000,
		Description: "Sie betreuen unser Active Directory und Linux-Server.",
	})
	require.True(t, ok)
	assert.True(t, job.ExactMatch)
	assert.True(t, job.IsJunior)
	assert.True(t, job.CareerSwitch)
	assert.True(t, job.HasRequirement("Active Directory"))
	assert.True(t, job.HasRequirement("Linux"))
}

func TestNormalize_JuniorCareerChangerTitle(t *testing.T) {
	job, ok := newNormalizer().Normalize(model.ArbeitnowRecord{
		Slug: "s2", CompanyName: "C", Location: "Dresden", CreatedAt: 1700000000,
		Title: "Junior Linux Administrator (Quereinsteiger willkommen)",
	})
	require.True(t, ok)
	assert.True(t, job.CareerSwitch)
	assert.True(t, job.IsJunior)
}

func TestNormalize_Idempotent(t *testing.T) {
	rec := model.ArbeitnowRecord{Slug: "s", CompanyName: "C", Title: "Helpdesk", Location: "Remote", Remote: true, CreatedAt: 1700000000}
	n := newNormalizer()
	first, ok1 := n.Normalize(rec)
	second, ok2 := n.Normalize(rec)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}
