package main

import (
	"fmt"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubev2v/spo-migrator/internal/config"
)

// app holds what the persistent pre-run resolved for the subcommands.
type app struct {
	v   *viper.Viper
	cfg *config.Configuration
}

func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "spo-migrator",
		Short: "Migrate files to SharePoint Online through the migration API",
		Long: `spo-migrator provisions test files in a source container, packages them into a
SharePoint migration manifest package, starts a migration job and follows it
through its report queue until it ends.`,
		Example: `  spo-migrator run --config spo.yaml
  spo-migrator package --out ./package --count 5
  spo-migrator status
  spo-migrator serve --http-port 8000`,
		SilenceUsage:      true,
		PersistentPreRunE: cobrautil.CommandStack(cobrautil.SyncViperPreRunE(config.EnvPrefix), a.setup),
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to a configuration file (yaml, json or toml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "console", "log format: console or json")
	flags.String("data-folder", "", "folder of the run history database, in memory when empty")
	flags.Int("num-workers", 4, "number of concurrent uploads")

	configKey(flags, "log-level", "log-level")
	configKey(flags, "log-format", "log-format")
	configKey(flags, "data-folder", "agent.data-folder")
	configKey(flags, "num-workers", "agent.num-workers")

	cmd.AddCommand(
		newRunCmd(a),
		newPackageCmd(a),
		newStatusCmd(a),
		newServeCmd(a),
	)

	return cmd
}

const configKeyAnnotation = "spo-migrator/config-key"

// configKey marks flag as overriding the configuration key.
func configKey(fs *pflag.FlagSet, flag, key string) {
	if err := fs.SetAnnotation(flag, configKeyAnnotation, []string{key}); err != nil {
		panic(fmt.Sprintf("failed to annotate flag %s: %v", flag, err))
	}
}

// bindFlags binds the flags of the executed command to their configuration keys.
func (a *app) bindFlags(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys, ok := f.Annotations[configKeyAnnotation]
		if !ok || err != nil {
			return
		}
		err = a.v.BindPFlag(keys[0], f)
	})
	return err
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.bindFlags(cmd); err != nil {
		return err
	}

	file, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.v, file)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	zap.S().Debugw("configuration loaded", "config", cfg.DebugMap())
	a.cfg = cfg
	return nil
}

func newLogger(format, level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = lvl
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zc.Build()
}
