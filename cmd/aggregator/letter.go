package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"jobpilot/aggregator/internal/letter"
)

func newLetterCommand() *cobra.Command {
	var (
		jobID string
		uc    letter.UserContext
	)
	cmd := &cobra.Command{
		Use:   "letter",
		Short: "Generate a cover letter for one job of the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if a.Letters == nil {
				return errors.New("letter generation is not configured: set GEMINI_API_KEY or ANTHROPIC_API_KEY")
			}
			res, err := a.Cache.Get(cmd.Context(), false)
			if err != nil {
				return err
			}
			job, ok := res.JobByID(jobID)
			if !ok {
				return fmt.Errorf("job %q not found in the current snapshot", jobID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.Letters.CoverLetter(cmd.Context(), job, uc))
			return nil
		},
	}
	cmd.Flags().StringVar(&jobID, "job", "", "job id from the snapshot")
	cmd.Flags().StringVar(&uc.Skills, "skills", "", "your skills and strengths")
	cmd.Flags().StringVar(&uc.Knowledge, "knowledge", "", "prior knowledge to cite as evidence")
	cmd.Flags().StringVar(&uc.Background, "background", "", "background and motivation")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}
