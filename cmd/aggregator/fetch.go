package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/stats"
)

func newFetchCommand() *cobra.Command {
	var (
		refresh bool
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Print the current job snapshot",
		Long:  `Reads the weekly snapshot through the cache, fetching from every source when it is stale or --refresh is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.Cache.Get(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			renderJobs(cmd.OutOrStdout(), res, limit)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and fetch every source")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of rows to print (0 for all)")
	return cmd
}

func newStatsCommand() *cobra.Command {
	var (
		careerChange bool
		top          int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print requirement statistics for exact-match jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := a.Stats.Statistics(cmd.Context(), careerChange)
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), st, top)
			return nil
		},
	}
	cmd.Flags().BoolVar(&careerChange, "career-change", false, "only count career-changer-friendly jobs")
	cmd.Flags().IntVar(&top, "top", 20, "number of requirements to print (0 for all)")
	return cmd
}

// renderJobs writes the snapshot as a table followed by a summary line.
func renderJobs(w io.Writer, res model.FetchResult, limit int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Source", "Title", "Company", "Location", "Created", "Flags"})

	for i, j := range res.Jobs {
		if limit > 0 && i >= limit {
			break
		}
		t.AppendRow(table.Row{j.ID, j.Source, truncate(j.Title, 60), truncate(j.Company, 30),
			truncate(j.Location, 30), j.CreatedAt.Format(time.DateOnly), flags(j)})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Total", len(res.Jobs)})
	t.Render()

	if len(res.FailedSources) > 0 {
		failed := make([]string, len(res.FailedSources))
		for i, s := range res.FailedSources {
			failed[i] = string(s)
		}
		fmt.Fprintf(w, "Failed sources: %s\n", strings.Join(failed, ", "))
	}
}

// renderStats writes the requirement ranking as a table.
func renderStats(w io.Writer, st stats.Stats, top int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Requirement", "Jobs"})
	for i, rc := range st.RequirementCounts {
		if top > 0 && i >= top {
			break
		}
		t.AppendRow(table.Row{i + 1, rc.Key, rc.Count})
	}
	t.AppendFooter(table.Row{"", "Total jobs", st.TotalJobs})
	t.Render()

	if len(st.TimeSeries) > 0 {
		first, last := st.TimeSeries[0].Month, st.TimeSeries[len(st.TimeSeries)-1].Month
		fmt.Fprintf(w, "Months covered: %s to %s\n", first, last)
	}
}

func flags(j model.Job) string {
	var f []string
	if j.ExactMatch {
		f = append(f, "match")
	}
	if j.CareerSwitch {
		f = append(f, "career")
	}
	if j.IsJunior {
		f = append(f, "junior")
	}
	if j.Remote {
		f = append(f, "remote")
	}
	return strings.Join(f, ",")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
