// Package keyword implements the substring classifier used to tag job
// postings and to extract skill requirements from free text.
//
// Matching is plain case-insensitive substring containment, never word
// matching: "erp" also matches inside "Interpreter".
package keyword

import "strings"

// Normalize lowercases and trims text the same way for texts and keywords.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ContainsAny returns true if any keyword occurs in text. Keywords are
// expected in lowercase; empty keywords never match.
func ContainsAny(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	normalized := Normalize(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// ExtractSkills returns the taxonomy keys whose aliases occur in text, in
// taxonomy order and without duplicates.
func ExtractSkills(text string, taxonomy []Skill) []string {
	normalized := Normalize(text)
	keys := make([]string, 0)
	if normalized == "" {
		return keys
	}
	seen := make(map[string]struct{}, len(taxonomy))
	for _, skill := range taxonomy {
		if _, ok := seen[skill.Key]; ok {
			continue
		}
		for _, alias := range skill.Aliases {
			if alias != "" && strings.Contains(normalized, alias) {
				keys = append(keys, skill.Key)
				seen[skill.Key] = struct{}{}
				break
			}
		}
	}
	return keys
}
