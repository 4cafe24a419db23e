package letter

import (
	"fmt"
	"strings"

	"jobpilot/aggregator/internal/model"
)

const coverTemplate = `
Aufgabe: Erstelle ein überzeugendes und professionelles Motivationsschreiben in deutscher Sprache.
Struktur:
1.  **Betreff:** "Bewerbung als %[1]s"
2.  **Einleitung:** Nenne die exakte Position "%[1]s" und die Firma "%[2]s". Zeige sofortiges Interesse.
3.  **Hauptteil:** Gehe auf 2-3 Kernanforderungen aus der Stellenbeschreibung ein. Verknüpfe jede Anforderung direkt mit den Informationen des Bewerbers. Nutze das "Vorwissen" und den "Hintergrund", um zu belegen, warum der Bewerber passt. Begründe die Motivation, besonders bei Quereinsteigern.
4.  **Schluss:** Formuliere einen klaren Call-to-Action (Einladung zum Gespräch) und schließe professionell ab.

**Regeln:**
- **Ton:** Selbstbewusst, professionell und prägnant.
- **Vermeiden:** Floskeln, Gehaltsvorstellungen, zu lange Sätze.
- **Fokus:** Mache die Verbindung zwischen Job und Bewerber so klar und logisch wie möglich.

**Job Details:**
- Jobtitel: %[1]s
- Firma: %[2]s
- Standort: %[3]s
- Wichtige Anforderungen aus der Beschreibung: %[4]s

**Stellenbeschreibung (zur Analyse):**
---
%[5]s
---

**Informationen über den Bewerber:**
- **Skills / Stärken:** %[6]s
- **Vorwissen:** %[7]s
- **Hintergrund / Motivation:** %[8]s
---
`

const suitabilityTemplate = `
Aufgabe: Erstelle ein sachliches und professionelles Eignungsfeststellungs- und Motivationsschreiben aus der Ich-Perspektive des Teilnehmers für einen Bildungsgutschein.
Struktur und Inhalt (strikt einhalten):

1.  **Betreff:** "Antrag auf Förderung einer beruflichen Weiterbildung – Eignungsfeststellung und Motivation"
2.  **Einleitung:** "Sehr geehrte Damen und Herren, hiermit beantrage ich die Förderung für die Weiterbildung '%[1]s' bei %[2]s und möchte nachfolgend meine Motivation sowie Eignung für dieses Vorhaben darlegen."
3.  **Ausgangslage:** Beschreibe kurz die aktuelle Situation, bisherige Ausbildung und Berufserfahrung basierend auf: "%[3]s".
4.  **Fachliche Kompetenzen & Stärken:** Fasse die fachlichen Kompetenzen und Stärken zusammen: "%[4]s".
5.  **Motivation & berufliches Ziel:** Erläutere die Motivation und das berufliche Ziel basierend auf: "%[5]s". Formuliere ein klares Ziel im Bereich der IT im Gesundheitswesen, das zum gewählten Kurs passt.
6.  **Warum diese Weiterbildung?:** Begründe, warum genau dieser Kurs (%[1]s) mit seinen Inhalten (%[6]s) und dem Abschluss (%[7]s) ideal passt, um die Lücke zwischen den vorhandenen Fähigkeiten und dem beruflichen Ziel zu schließen.
7.  **Begründung der Förderfähigkeit und Arbeitsmarktrelevanz (§ 81 SGB III):** Formuliere die Begründung für den Bildungsgutschein basierend auf: "%[8]s". Ergänze, dass die Digitalisierung im Gesundheitswesen einen hohen und steigenden Bedarf an Fachkräften mit dem im Kurs vermittelten Profil schafft.
8.  **Konkrete Jobperspektiven:** Integriere den folgenden Textabschnitt über Jobperspektiven: "%[9]s"
9.  **Schluss:** Bekräftige die Entschlossenheit für die erfolgreiche Teilnahme. Beende das Schreiben mit:
Mit freundlichen Grüßen,
%[10]s
%[11]s


**Regeln:**
- Schreibe aus der Ich-Perspektive des Teilnehmers.
- Verwende ausschließlich die bereitgestellten Informationen. Erfinde keine Details.
- Halte den Ton sachlich, prägnant und überzeugend.
- Formatiere den Text als professionellen, zusammenhängenden Brief, nicht als Stichpunktliste.
`

const noJobsEvidence = "Aktuelle Stellenrecherchen zeigen eine hohe Nachfrage für IT-Fachkräfte im " +
	"Gesundheitswesen, was meine Jobperspektiven nach der Weiterbildung untermauert."

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Keine Angabe"
	}
	return s
}

func coverPrompt(job model.Job, uc UserContext) string {
	reqs := job.Requirements
	if len(reqs) > 5 {
		reqs = reqs[:5]
	}
	return fmt.Sprintf(coverTemplate,
		job.Title, job.Company, job.Location, strings.Join(reqs, ", "), job.Description,
		orUnknown(uc.Skills), orUnknown(uc.Knowledge), orUnknown(uc.Background),
	)
}

func jobsEvidence(jobs []model.Job) string {
	if len(jobs) == 0 {
		return noJobsEvidence
	}
	var b strings.Builder
	b.WriteString("Zur Untermauerung meiner Jobaussichten habe ich folgende passende Stellenanzeigen identifiziert:")
	for _, j := range jobs {
		fmt.Fprintf(&b, "\n- %q bei %s (Link: %s)", j.Title, j.Company, j.URL)
		b.WriteString("\n  - Begründung der Passung: Diese Stelle erfordert Kenntnisse, die direkt in der " +
			"Weiterbildung vermittelt werden.")
	}
	return b.String()
}

func suitabilityPrompt(p Participant, jobs []model.Job, c Course) string {
	provider := c.Provider
	if provider == "" {
		provider = "dem Bildungsträger"
	}
	return fmt.Sprintf(suitabilityTemplate,
		c.Title, provider, p.Background, p.Skills, p.Motivation,
		strings.Join(c.Modules, ", "), c.Degree, p.FundingReason,
		jobsEvidence(jobs), p.Name, p.Address,
	)
}
