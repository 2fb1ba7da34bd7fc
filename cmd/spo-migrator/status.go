package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/spo-migrator/internal/services"
)

func newStatusCmd(a *app) *cobra.Command {
	var limit uint64

	cmd := &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show the recorded jobs, or the events and logs of one job",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.cfg.Agent.DataFolder == "" {
				zap.S().Warn("no data folder configured, the run history is empty")
			}

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			jobs := services.NewJobService(st)

			if len(args) == 0 {
				res, err := jobs.List(ctx, services.JobListParams{Limit: limit})
				if err != nil {
					return err
				}
				printJobs(cmd.OutOrStdout(), res.Jobs, res.Total)
				return nil
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id %q: %w", args[0], err)
			}
			job, err := jobs.Get(ctx, id)
			if err != nil {
				return err
			}
			events, err := jobs.Events(ctx, id)
			if err != nil {
				return err
			}
			logs, err := jobs.Logs(ctx, id)
			if err != nil {
				return err
			}
			printJob(cmd.OutOrStdout(), *job, events, logs)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&limit, "limit", 20, "maximum number of jobs listed")
	return cmd
}
