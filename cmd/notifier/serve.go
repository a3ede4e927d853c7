package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the poller, the notification dispatcher and the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
	addDryRunFlag(cmd, ctx)
	return cmd
}

// addDryRunFlag registers --dry-run, which logs notifications instead of
// posting them. The webhook URL is still required and validated.
func addDryRunFlag(cmd *cobra.Command, ctx *commandContext) {
	cmd.Flags().BoolVar(&ctx.dryRun, "dry-run", false, "Log notifications instead of posting them to Discord")
}

func runServe(parent context.Context, cc *commandContext) error {
	cfg, err := cc.loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg, cc.stdout)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	a, err := newApp(cfg, cc.dryRun, logger)
	if err != nil {
		logger.Error("startup failed", slog.Any("error", err))
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.run(ctx, nil)
}
