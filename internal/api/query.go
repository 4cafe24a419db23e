package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/ranking"
)

type jobsQuery struct {
	refresh   bool
	filters   ranking.Filters
	favorites ranking.Favorites
	sort      ranking.SortMode
}

// parseJobsQuery reads the GET /jobs query string. Malformed values yield a
// *ranking.ValidationError.
func parseJobsQuery(v url.Values) (jobsQuery, error) {
	var (
		q   jobsQuery
		err error
	)
	if q.refresh, err = parseBool(v, "refresh"); err != nil {
		return q, err
	}
	if q.sort, err = ranking.ParseSortMode(v.Get("sort")); err != nil {
		return q, err
	}

	f := ranking.Filters{
		SearchTerm: strings.TrimSpace(v.Get("q")),
		Location:   strings.TrimSpace(v.Get("location")),
		Skills:     splitList(v.Get("skills")),
		Exclude:    splitList(v.Get("exclude")),
	}
	if f.CareerChangeOnly, err = parseBool(v, "careerChange"); err != nil {
		return q, err
	}
	if f.JuniorOnly, err = parseBool(v, "junior"); err != nil {
		return q, err
	}
	if f.FavoritesOnly, err = parseBool(v, "favoritesOnly"); err != nil {
		return q, err
	}
	if raw := v.Get("remote"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, &ranking.ValidationError{Msg: fmt.Sprintf("invalid remote value %q", raw)}
		}
		f.Remote = &b
	}
	if raw := v.Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, &ranking.ValidationError{Msg: fmt.Sprintf("invalid days value %q", raw)}
		}
		f.Days = n
	}
	if f.SkillLogic, err = ranking.ParseSkillLogic(v.Get("skillLogic")); err != nil {
		return q, err
	}
	for _, raw := range splitList(v.Get("sources")) {
		src, err := model.ParseSource(raw)
		if err != nil {
			return q, &ranking.ValidationError{Msg: err.Error()}
		}
		f.Sources = append(f.Sources, src)
	}

	q.filters = f
	q.favorites = ranking.NewFavorites(splitList(v.Get("favorites"))...)
	return q, nil
}

func parseBool(v url.Values, key string) (bool, error) {
	raw := v.Get(key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ranking.ValidationError{Msg: fmt.Sprintf("invalid %s value %q", key, raw)}
	}
	return b, nil
}

// splitList splits a comma-separated parameter, dropping empty items.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
