package main

import (
	"fmt"
	"strings"

	"github.com/dalemusser/storehub/internal/app/bootstrap"
	"github.com/dalemusser/storehub/internal/app/lifecycle"
	"github.com/dalemusser/storehub/internal/app/system/logging"
	"github.com/dalemusser/storehub/internal/app/system/timeouts"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// newRootCmd builds the storehub command. Running it without a subcommand
// starts the server.
//
// Every flag can also be set through the environment with a STOREHUB_
// prefix, e.g. STOREHUB_SECRET_ID or STOREHUB_LOG_LEVEL. Flags win over the
// environment.
func newRootCmd(v *viper.Viper) *cobra.Command {
	v.SetEnvPrefix("STOREHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "storehub",
		Short: "storehub API server",
		Long: `storehub serves the store API used by the admin dashboard and the public site.

On start it loads configuration (local .env overrides, then the remote secret
bundle), connects to MongoDB and only then begins listening. Any failure
stops the process with a non-zero exit status.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}

	defaults := bootstrap.DefaultSettings()
	flags := root.PersistentFlags()
	flags.String("env-file", defaults.EnvFile, "dotenv file with local overrides (optional)")
	flags.String("secret-id", defaults.SecretID, "secret store id holding the credential bundle")
	flags.String("secret-region", defaults.SecretRegion, "secret store region")
	flags.String("secret-endpoint", "", "secret store endpoint override (e.g. localstack)")
	flags.String("secret-version-stage", defaults.SecretVersionStage, "secret version stage to read")
	flags.String("log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	flags.String("log-format", defaults.LogFormat, "log format: json or console")
	flags.Duration("secret-timeout", defaults.SecretTimeout, "timeout for the secret fetch")
	flags.Duration("connect-timeout", defaults.ConnectTimeout, "timeout for the MongoDB connection")
	flags.Duration("shutdown-timeout", defaults.ShutdownTimeout, "timeout for graceful shutdown")

	if err := v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	root.AddCommand(newServeCmd(v), newConfigCmd(v))
	return root
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load configuration, connect to MongoDB and serve HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}
}

// settingsFrom reads Settings out of the bound flags and environment.
func settingsFrom(v *viper.Viper) bootstrap.Settings {
	return bootstrap.Settings{
		EnvFile:            v.GetString("env-file"),
		SecretID:           v.GetString("secret-id"),
		SecretRegion:       v.GetString("secret-region"),
		SecretEndpoint:     v.GetString("secret-endpoint"),
		SecretVersionStage: v.GetString("secret-version-stage"),
		LogLevel:           v.GetString("log-level"),
		LogFormat:          v.GetString("log-format"),
		SecretTimeout:      v.GetDuration("secret-timeout"),
		ConnectTimeout:     v.GetDuration("connect-timeout"),
		ShutdownTimeout:    v.GetDuration("shutdown-timeout"),
	}
}

// setup builds the logger and applies timeouts for a command run.
func setup(v *viper.Viper) (bootstrap.Settings, *zap.Logger, error) {
	settings := settingsFrom(v)
	logger, err := logging.New(settings.LogLevel, settings.LogFormat)
	if err != nil {
		return settings, nil, err
	}
	timeouts.Configure(settings.Timeouts())
	return settings, logger, nil
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	settings, logger, err := setup(v)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("starting storehub",
		zap.String("secret_id", settings.SecretID),
		zap.String("secret_region", settings.SecretRegion),
		zap.String("env_file", settings.EnvFile))

	logTimeouts(logger)

	app := &bootstrap.App{Settings: settings}
	return lifecycle.Run(cmd.Context(), app.Hooks(), logger,
		lifecycle.WithShutdownTimeout(settings.ShutdownTimeout))
}

func logTimeouts(logger *zap.Logger) {
	t := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("secret_fetch", t.SecretFetch),
		zap.Duration("connect", t.Connect),
		zap.Duration("ping", t.Ping),
		zap.Duration("read_header", t.ReadHeader),
		zap.Duration("shutdown", t.Shutdown))
}
