package ranking

import (
	"sort"

	"jobpilot/aggregator/internal/model"
)

// CompanyStats counts a company's postings and how many welcome career
// changers.
type CompanyStats struct {
	Company      string `json:"company"`
	Total        int    `json:"total"`
	CareerSwitch int    `json:"careerSwitch"`
	Friendly     bool   `json:"friendly"`
}

// IsFriendly reports whether the company counts as career-changer friendly:
// at least two such postings, or at least one making up half its postings.
func (c CompanyStats) IsFriendly() bool {
	if c.CareerSwitch >= 2 {
		return true
	}
	return c.CareerSwitch > 0 && float64(c.CareerSwitch)/float64(c.Total) >= 0.5
}

// Companies aggregates per-company stats, most career-switch postings first,
// then by total, then by name.
func Companies(jobs []model.Job) []CompanyStats {
	index := make(map[string]int)
	out := make([]CompanyStats, 0)
	for _, job := range jobs {
		i, ok := index[job.Company]
		if !ok {
			i = len(out)
			index[job.Company] = i
			out = append(out, CompanyStats{Company: job.Company})
		}
		out[i].Total++
		if job.CareerSwitch {
			out[i].CareerSwitch++
		}
	}
	for i := range out {
		out[i].Friendly = out[i].IsFriendly()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CareerSwitch != out[j].CareerSwitch {
			return out[i].CareerSwitch > out[j].CareerSwitch
		}
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Company < out[j].Company
	})
	return out
}

// FriendlyCompanies returns the set of career-changer-friendly company names.
func FriendlyCompanies(jobs []model.Job) map[string]bool {
	friendly := make(map[string]bool)
	for _, c := range Companies(jobs) {
		if c.Friendly {
			friendly[c.Company] = true
		}
	}
	return friendly
}
