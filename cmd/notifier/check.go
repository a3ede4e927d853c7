package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"radarr-notify/internal/infra/radarr"
	"radarr-notify/internal/usecase/monitor"
)

// checkItem is one line of the check output.
type checkItem struct {
	Severity string `json:"severity"`
	Known    bool   `json:"known"`
	radarr.HealthItem
}

// checkOutput is printed by the check command.
type checkOutput struct {
	Endpoint  string      `json:"endpoint"`
	CheckedAt time.Time   `json:"checked_at"`
	Items     []checkItem `json:"items"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Query the Radarr health endpoint once and print the items as JSON",
		Long: "Query the Radarr health endpoint once and print each item with the\n" +
			"severity it would be notified with. Nothing is sent to Discord.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			client, err := newRadarrClient(cfg, logger)
			if err != nil {
				return err
			}

			items, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("radarr health: %w", err)
			}
			return writeCheck(cmd.OutOrStdout(), client.Endpoint(), items)
		},
	}
}

func writeCheck(w io.Writer, endpoint string, items []radarr.HealthItem) error {
	out := checkOutput{Endpoint: endpoint, CheckedAt: time.Now().UTC(), Items: make([]checkItem, 0, len(items))}
	for _, item := range items {
		severity, known := monitor.MapSeverity(item.Type)
		out.Items = append(out.Items, checkItem{Severity: severity.String(), Known: known, HealthItem: item})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
