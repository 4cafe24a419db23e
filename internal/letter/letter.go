// Package letter generates German application letters through a
// langchaingo language model.
//
// Generation never fails loudly: provider errors, empty responses and failed
// validation come back as a readable German message in place of the letter.
package letter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
)

// introWindow is how many leading characters of a cover letter must contain
// the exact job title.
const introWindow = 400

const (
	coverSystemPrompt = "Du bist ein Experte für die Erstellung von überzeugenden, professionellen deutschen " +
		"Motivationsschreiben. Deine Aufgabe ist es, die Jobanforderungen und die Daten des Bewerbers zu einer " +
		"kohärenten und überzeugenden Geschichte zu verweben. Halte dich strikt an die vorgegebene Struktur und " +
		"die Regeln im Prompt."

	suitabilitySystemPrompt = "Du bist ein Experte für das Verfassen von offiziellen Dokumenten für deutsche " +
		"Behörden, insbesondere für die Agentur für Arbeit. Deine Aufgabe ist es, aus den gegebenen Informationen " +
		"ein sachliches, strukturiertes und überzeugendes Eignungsfeststellungs- und Motivationsschreiben zu " +
		"erstellen. Halte dich exakt an die vorgegebene Struktur und den sachlichen Ton."

	unknownFailure = "Ein unbekannter Fehler ist bei der Generierung aufgetreten."
)

var errEmptyResponse = errors.New("empty response from the language model")

// UserContext is what the applicant tells about themselves for a cover letter.
type UserContext struct {
	Skills     string `json:"skills"`
	Knowledge  string `json:"knowledge"`
	Background string `json:"background"`
}

// Participant is the applicant of an education voucher.
type Participant struct {
	Name          string `json:"name"`
	BirthDate     string `json:"birthDate"`
	Address       string `json:"address"`
	Background    string `json:"background"`
	Skills        string `json:"skills"`
	Motivation    string `json:"motivation"`
	FundingReason string `json:"fundingReason"`
	Preferences   string `json:"preferences"`
}

// Course describes the further-education course being applied for.
type Course struct {
	Title    string   `json:"title"`
	Provider string   `json:"provider"`
	Duration string   `json:"duration"`
	Degree   string   `json:"degree"`
	Goal     string   `json:"goal"`
	Modules  []string `json:"modules"`
	Value    string   `json:"value"`
}

// Generator writes letters with an LLM.
type Generator struct {
	model llms.Model
	log   logger.Logger
}

// NewGenerator wraps an llms.Model.
func NewGenerator(m llms.Model, log logger.Logger) *Generator {
	return &Generator{model: m, log: log.With(logger.String("component", "letter"))}
}

// CoverLetter writes a motivation letter for job. The exact job title must
// appear within the first 400 characters or the letter is rejected.
func (g *Generator) CoverLetter(ctx context.Context, job model.Job, uc UserContext) string {
	g.log.Info("Generating cover letter", logger.String("job_id", job.ID), logger.String("title", job.Title))

	text, err := g.generate(ctx, coverSystemPrompt, coverPrompt(job, uc))
	if err == nil {
		err = g.validateCover(text, job.Title)
	}
	if err != nil {
		g.log.Error("Failed to generate cover letter", logger.String("job_id", job.ID), logger.Error(err))
		return "Fehler bei der Generierung des Motivationsschreibens: " + err.Error()
	}
	return text
}

// SuitabilityLetter writes an aptitude and motivation letter for an
// education voucher, citing the selected jobs as labour-market evidence.
func (g *Generator) SuitabilityLetter(ctx context.Context, p Participant, jobs []model.Job, c Course) string {
	g.log.Info("Generating suitability letter",
		logger.String("participant", p.Name),
		logger.String("course", c.Title),
		logger.Int("jobs", len(jobs)),
	)

	text, err := g.generate(ctx, suitabilitySystemPrompt, suitabilityPrompt(p, jobs, c))
	if err != nil {
		g.log.Error("Failed to generate suitability letter", logger.Error(err))
		return "Fehler bei der Generierung des Schreibens: " + err.Error()
	}
	return text
}

func (g *Generator) generate(ctx context.Context, system, prompt string) (text string, err error) {
	if g.model == nil {
		return "", errors.New("kein Sprachmodell konfiguriert")
	}
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("LLM call panicked", logger.Any("panic", r))
			text, err = "", errors.New(unknownFailure)
		}
	}()

	resp, err := g.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

func (g *Generator) validateCover(text, title string) error {
	lowerTitle := strings.ToLower(title)

	subject, _, _ := strings.Cut(text, "\n")
	if !strings.Contains(strings.ToLower(subject), lowerTitle) {
		g.log.Warn("Job title may be missing from subject line", logger.String("title", title))
	}

	if !strings.Contains(strings.ToLower(leading(text, introWindow)), lowerTitle) {
		return fmt.Errorf("Validierung fehlgeschlagen: Der exakte Jobtitel %q wurde nicht im Einleitungsabschnitt "+
			"des Schreibens gefunden. Bitte versuchen Sie es erneut.", title)
	}
	return nil
}

// leading returns the first n characters of s.
func leading(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
