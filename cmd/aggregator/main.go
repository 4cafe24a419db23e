// jobpilot aggregator
//
// Collects German IT job postings from six job boards, normalizes and
// classifies them, and keeps a weekly snapshot that is served over HTTP and
// gRPC or inspected from the command line.
//
//	aggregator serve                  HTTP + gRPC servers with the weekly scheduler
//	aggregator fetch [--refresh]      print the current snapshot
//	aggregator stats [--career-change] print requirement statistics
//	aggregator letter --job ID        generate a cover letter for one job
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobpilot/aggregator/internal/app"
	"jobpilot/aggregator/internal/config"
	"jobpilot/aggregator/internal/logger"
)

const version = "1.0.0"

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "aggregator",
		Short:         "German IT job aggregator",
		Long:          `Fetches, normalizes and ranks IT job postings from German job boards.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aggregator version %s\n", version)
		},
	})
	root.AddCommand(newServeCommand())
	root.AddCommand(newFetchCommand())
	root.AddCommand(newStatsCommand())
	root.AddCommand(newLetterCommand())
	return root
}

// bootstrap loads config, builds the logger and wires the app. The returned
// cleanup syncs the logger and closes connections.
func bootstrap(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(ctx, cfg, log.With(logger.String("version", version)))
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return a, func() {
		a.Close()
		_ = log.Sync()
	}, nil
}
