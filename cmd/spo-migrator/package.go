package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/spo-migrator/internal/models"
	"github.com/kubev2v/spo-migrator/internal/provision"
	srvErrors "github.com/kubev2v/spo-migrator/pkg/errors"
	"github.com/kubev2v/spo-migrator/pkg/manifest"
)

func newPackageCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Write the migration package of the test files to a local folder",
		Long: `package builds the same package as run, without reaching any remote service.
The source files are generated or read from the workbook but not uploaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			if err := a.cfg.ValidatePackage(); err != nil {
				return err
			}

			items, err := a.items(provision.NewProvisioner(nil, nil))
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return srvErrors.NewNoSourceFilesError()
			}

			files := make([]models.SourceFile, 0, len(items))
			for _, item := range items {
				files = append(files, item.File)
			}

			pkg, err := manifest.NewPackage(files, a.cfg.TargetModel())
			if err != nil {
				return err
			}
			if err := pkg.WriteDir(out); err != nil {
				return err
			}

			zap.S().Named("package").Infow("package written", "folder", out, "blobs", len(pkg.Blobs), "files", len(files))
			printPackage(cmd.OutOrStdout(), out, pkg)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&out, "out", "", "folder receiving the package")
	flags.Int("count", 10, "number of generated test files")
	flags.String("workbook", "", "xlsx inventory of the files, replaces generated files")
	configKey(flags, "count", "provision.count")
	configKey(flags, "workbook", "provision.workbook")

	return cmd
}
