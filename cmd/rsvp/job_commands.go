package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rsvpd/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var showPaths bool

	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the current state of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				job, err := svc.Query(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printJob(cmd, job)
				if showPaths {
					for _, name := range job.OutputFiles {
						path, err := svc.FetchOutput(cmd.Context(), job.ID, name)
						if err != nil {
							fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, err)
							continue
						}
						fmt.Fprintln(cmd.OutOrStdout(), path)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showPaths, "paths", false, "Print resolved output file paths")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				listed, total, err := svc.List(cmd.Context(), limit, offset)
				if err != nil {
					return err
				}
				if total == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no jobs")
					return nil
				}
				rows := make([][]string, 0, len(listed))
				for _, job := range listed {
					rows = append(rows, jobSummaryRow(job))
				}
				renderRows(cmd,
					[]string{"ID", "Status", "Filename", "Progress", "Step", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft})
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d jobs\n", len(listed), total)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum jobs to show (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Jobs to skip from the top")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a job, its upload, and its outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				if err := svc.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted job %s\n", args[0])
				return nil
			})
		},
	}
}

func newPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThanHours int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete finished jobs older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			hours := olderThanHours
			if hours <= 0 {
				hours = cfg.Limits.RetentionHours
			}
			return ctx.withService(func(svc *api.Service) error {
				pruned, err := svc.Prune(cmd.Context(), time.Duration(hours)*time.Hour)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d job(s) older than %dh\n", pruned, hours)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&olderThanHours, "older-than", 0, "Retention window in hours (default from config)")
	return cmd
}
