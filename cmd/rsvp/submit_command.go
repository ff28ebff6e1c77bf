package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rsvpd/internal/api"
	"rsvpd/internal/jobs"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	params := newParamFlags()

	cmd := &cobra.Command{
		Use:   "submit <document>",
		Short: "Submit a document and run it through the job pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				job, err := svc.Submit(cmd.Context(), args[0], params.params)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "submitted job %s (%s)\n", job.ID, job.Filename)

				svc.Wait()

				final, err := svc.Query(cmd.Context(), job.ID)
				if err != nil {
					return err
				}
				printJob(cmd, final)
				if final.Status == jobs.StatusFailed {
					return fmt.Errorf("job %s failed: %s", final.ID, final.ErrorMessage)
				}
				return nil
			})
		},
	}

	params.register(cmd)
	return cmd
}
