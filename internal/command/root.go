// Package command contains the CLI command constructors.
package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockroom/inventory-system/internal/pkg/config"
	"github.com/stockroom/inventory-system/pkg/logger"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "inventory [command] [flags]",
		Short:        "Inventory and stock request service",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log := logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.Development(),
				Service: "inventory",
				Output:  cmd.ErrOrStderr(),
			})
			log.Debug().
				Str("env", cfg.Env).
				Str("store", cfg.Store.Driver).
				Bool("redis", cfg.Redis.Enabled).
				Msg("configuration loaded")
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.AddCommand(
		serveCommand(),
		userCommand(),
	)

	return cmd
}
