package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RawRecord is one provider-native posting as returned by a source adapter.
// The set of implementations is closed: every variant lives in this file.
type RawRecord interface {
	Source() Source
	rawRecord()
}

// NativeID is a provider id that may arrive as a JSON string or number.
type NativeID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *NativeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = NativeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = NativeID(n.String())
	return nil
}

// StringList decodes either a single string or an array of strings.
type StringList []string

// UnmarshalJSON accepts a string, an array of strings or null.
func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*l = nil
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = nil
			return nil
		}
		*l = StringList{s}
		return nil
	}
	var ss []string
	if err := json.Unmarshal(b, &ss); err != nil {
		return err
	}
	*l = ss
	return nil
}

// Contains reports whether v is an element of the list.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// ArrayList decodes a JSON array of strings. Any other value decodes to nil.
type ArrayList []string

// UnmarshalJSON keeps arrays and drops scalars and null.
func (l *ArrayList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		*l = nil
		return nil
	}
	var ss []string
	if err := json.Unmarshal(b, &ss); err != nil {
		return err
	}
	*l = ss
	return nil
}

// Contains reports whether v is an element of the list.
func (l ArrayList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// ArbeitnowRecord mirrors one entry of the Arbeitnow job-board API.
type ArbeitnowRecord struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	JobTypes    []string `json:"job_types"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"`
}

// AdzunaRecord mirrors one Adzuna search result.
type AdzunaRecord struct {
	ID          NativeID        `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Company     AdzunaName      `json:"company"`
	Location    AdzunaName      `json:"location"`
	Category    *AdzunaCategory `json:"category"`
	RedirectURL string          `json:"redirect_url"`
	Created     string          `json:"created"`
}

// AdzunaName is the {display_name} object Adzuna uses for company and location.
type AdzunaName struct {
	DisplayName string `json:"display_name"`
}

// AdzunaCategory is the optional category object of an Adzuna result.
type AdzunaCategory struct {
	Label string `json:"label"`
	Tag   string `json:"tag"`
}

// JoobleRecord mirrors one Jooble search result.
type JoobleRecord struct {
	ID       NativeID `json:"id"`
	Title    string   `json:"title"`
	Location string   `json:"location"`
	Snippet  string   `json:"snippet"`
	Salary   string   `json:"salary"`
	Board    string   `json:"source"`
	Type     string   `json:"type"`
	Link     string   `json:"link"`
	Company  string   `json:"company"`
	Updated  string   `json:"updated"`
}

// GermanTechJobsRecord mirrors one GermanTechJobs listing.
type GermanTechJobsRecord struct {
	ID          NativeID `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Remote      string   `json:"remote"`
	URL         string   `json:"url"`
	Epoch       int64    `json:"epoch"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// JobicyRecord mirrors one Jobicy remote-jobs entry.
type JobicyRecord struct {
	ID             NativeID   `json:"id"`
	URL            string     `json:"url"`
	JobTitle       string     `json:"jobTitle"`
	CompanyName    string     `json:"companyName"`
	JobGeo         string     `json:"jobGeo"`
	JobType        StringList `json:"jobType"`
	JobTag         StringList `json:"jobTag"`
	JobDescription string     `json:"jobDescription"`
	PubDate        string     `json:"pubDate"`
}

// ArbeitsagenturRecord mirrors one Bundesagentur für Arbeit "Stellenangebot".
type ArbeitsagenturRecord struct {
	HashID                          string                 `json:"hashId"`
	Titel                           string                 `json:"titel"`
	Beruf                           string                 `json:"beruf"`
	Arbeitgeber                     string                 `json:"arbeitgeber"`
	Arbeitsort                      *ArbeitsagenturAddress `json:"arbeitsort"`
	Arbeitszeit                     ArrayList              `json:"arbeitszeit"`
	AktuelleVeroeffentlichungsdatum string                 `json:"aktuelleVeroeffentlichungsdatum"`
	Stellenbeschreibung             string                 `json:"stellenbeschreibung"`
}

// ArbeitsagenturAddress is the work-place address of an Arbeitsagentur posting.
type ArbeitsagenturAddress struct {
	Ort string `json:"ort"`
	PLZ string `json:"plz"`
}

func (ArbeitnowRecord) Source() Source      { return SourceArbeitnow }
func (AdzunaRecord) Source() Source         { return SourceAdzuna }
func (JoobleRecord) Source() Source         { return SourceJooble }
func (GermanTechJobsRecord) Source() Source { return SourceGermanTechJobs }
func (JobicyRecord) Source() Source         { return SourceJobicy }
func (ArbeitsagenturRecord) Source() Source { return SourceArbeitsagentur }

func (ArbeitnowRecord) rawRecord()      {}
func (AdzunaRecord) rawRecord()         {}
func (JoobleRecord) rawRecord()         {}
func (GermanTechJobsRecord) rawRecord() {}
func (JobicyRecord) rawRecord()         {}
func (ArbeitsagenturRecord) rawRecord() {}
