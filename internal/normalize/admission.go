package normalize

import "jobpilot/aggregator/internal/keyword"

var germanLocations = []string{
	"deutschland", "germany", "berlin", "hamburg", "münchen", "munich",
	"köln", "cologne", "frankfurt", "stuttgart", "düsseldorf", "dortmund",
	"essen", "leipzig", "bremen", "dresden", "hannover", "nürnberg",
}

var forbiddenRegions = []string{
	"usa only", "u.s. only", "canada only", "uk only", "united states", "united kingdom",
	"north america", "south america", "africa", "asia",
}

var nonGermanCities = []string{
	"paris", "warsaw", "amsterdam", "london", "madrid", "vienna", "zurich", "wien", "zürich",
}

// Admit reports whether a posting at location passes the locale filter.
// Explicitly German locations are always admitted. Remote postings (by flag
// or by "remote" in the location) are admitted unless they name a forbidden
// region or a non-German city. Everything else is rejected.
func Admit(location string, remote bool) bool {
	if keyword.ContainsAny(location, germanLocations) {
		return true
	}
	if !remote && !keyword.ContainsAny(location, []string{"remote"}) {
		return false
	}
	if keyword.ContainsAny(location, forbiddenRegions) {
		return false
	}
	return !keyword.ContainsAny(location, nonGermanCities)
}
