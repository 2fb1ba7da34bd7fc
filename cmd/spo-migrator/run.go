package main

import (
	"github.com/spf13/cobra"

	"github.com/kubev2v/spo-migrator/internal/provision"
	"github.com/kubev2v/spo-migrator/internal/services"
	"github.com/kubev2v/spo-migrator/pkg/scheduler"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Provision, package, start a migration job and monitor it until it ends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.ValidateRun(); err != nil {
				return err
			}
			ctx := cmd.Context()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			source, manifest, err := a.containers(ctx)
			if err != nil {
				return err
			}
			q, err := a.reportQueue(ctx)
			if err != nil {
				return err
			}

			sched := scheduler.NewScheduler(a.cfg.Agent.NumWorkers)
			defer sched.Close()

			provisioner := provision.NewProvisioner(source, sched)
			items, err := a.items(provisioner)
			if err != nil {
				return err
			}

			monitor := services.NewJobMonitor(q, manifest, st, services.MonitorConfig{
				InitialInterval: a.cfg.Monitor.InitialInterval,
				MaxInterval:     a.cfg.Monitor.MaxInterval,
				IdleTimeout:     a.cfg.Monitor.IdleTimeout,
				LogFolder:       a.cfg.Monitor.LogFolder,
			})
			migration := services.NewMigration(source, manifest, q, a.cfg.TargetModel(),
				provisioner,
				services.NewPackageService(manifest, sched),
				a.apiClient(),
				monitor,
			)

			report, runErr := migration.Run(ctx, items)
			printRunReport(cmd.OutOrStdout(), report, runErr)
			return runErr
		},
	}

	flags := cmd.Flags()
	flags.Int("count", 10, "number of generated test files")
	flags.String("workbook", "", "xlsx inventory of the files to migrate, replaces generated files")
	flags.String("log-folder", "logs", "folder receiving the report logs of the job")
	configKey(flags, "count", "provision.count")
	configKey(flags, "workbook", "provision.workbook")
	configKey(flags, "log-folder", "monitor.log-folder")

	return cmd
}
