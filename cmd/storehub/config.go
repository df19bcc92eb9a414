package main

import (
	"fmt"

	"github.com/dalemusser/storehub/internal/app/bootstrap"
	"github.com/dalemusser/storehub/internal/app/lifecycle"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newConfigCmd runs only the configuration stage and prints the effective
// keys. Values are never printed.
func newConfigCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Resolve configuration and list the effective keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := setup(v)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			app := &bootstrap.App{Settings: settings}
			cfg, err := app.ResolveConfig(cmd.Context(), logger)
			if err != nil {
				return &lifecycle.StageError{Stage: lifecycle.StageConfig, Err: err}
			}

			out := cmd.OutOrStdout()
			for _, key := range cfg.Values.Keys() {
				state := "set"
				if cfg.Values.Get(key) == "" {
					state = "empty"
				}
				if desc := bootstrap.DescribeKey(key); desc != "" {
					fmt.Fprintf(out, "%s=<%s>\t# %s\n", key, state, desc)
				} else {
					fmt.Fprintf(out, "%s=<%s>\n", key, state)
				}
			}
			fmt.Fprintf(out, "listen address: %s\n", cfg.ListenAddr())
			return nil
		},
	}
}
