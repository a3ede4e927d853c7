package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"radarr-notify/internal/config"
	"radarr-notify/internal/observability/logging"
)

const defaultConfigPath = "config.json"

// commandContext carries the persistent flags shared by all subcommands.
type commandContext struct {
	configPath string
	// configSet reports whether --config was given explicitly.
	configSet bool
	dryRun    bool
	stdout    io.Writer
}

// resolveConfigPath returns the file to load. A missing default file is
// tolerated so the service can be configured from the environment alone.
func (c *commandContext) resolveConfigPath() (string, error) {
	if c.configSet {
		return c.configPath, nil
	}
	if _, err := os.Stat(c.configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("check config path: %w", err)
	}
	return c.configPath, nil
}

// loadConfig loads the configuration, reporting environment fallbacks
// through a bootstrap logger on stderr.
func (c *commandContext) loadConfig() (*config.Config, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return nil, err
	}
	bootstrap := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return config.Load(path, bootstrap)
}

// newLogger builds the service logger from cfg and installs it as the default.
func newLogger(cfg *config.Config, out io.Writer) (*slog.Logger, io.Closer, error) {
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Output: out,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(logger)
	return logger, closer, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{stdout: os.Stdout}

	rootCmd := &cobra.Command{
		Use:           "notifier",
		Short:         "Radarr health notifier for Discord",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx.configSet = cmd.Flags().Changed("config")
			ctx.stdout = cmd.OutOrStdout()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", defaultConfigPath, "Configuration file path (.json, .yaml or .yml)")
	addDryRunFlag(rootCmd, ctx)

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newValidateConfigCommand(ctx))

	return rootCmd
}
