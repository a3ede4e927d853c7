package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Load the configuration and report every problem found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.resolveConfigPath()
			if err != nil {
				return err
			}
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			source := path
			if source == "" {
				source = "environment only"
			}
			fmt.Fprintf(out, "Configuration OK (%s)\n", source)
			fmt.Fprintf(out, "  listen:          %s\n", cfg.Server.Addr())
			fmt.Fprintf(out, "  radarr schedule: %s (enabled: %t)\n", cfg.Radarr.Schedule, cfg.Radarr.Enabled)
			fmt.Fprintf(out, "  flush schedule:  %s\n", cfg.Discord.FlushSchedule)
			fmt.Fprintf(out, "  history limit:   %d\n", cfg.Notifications.HistoryLimit)
			return nil
		},
	}
}
