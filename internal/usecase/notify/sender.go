package notify

import (
	"log/slog"

	"radarr-notify/internal/infra/notifier"
)

// NewSender builds the webhook transport for cfg.
//
// Parameters:
//   - cfg: Discord webhook settings; the webhook URL is mandatory
//   - dryRun: Return a no-op sender that logs each message instead of posting
//   - logger: Structured logger; nil uses slog.Default()
//
// Returns:
//   - error: notifier.ErrMissingWebhookURL if the URL is empty (even in dry
//     run), notifier.ErrInvalidWebhookURL if it is malformed
func NewSender(cfg notifier.DiscordConfig, dryRun bool, logger *slog.Logger) (Sender, error) {
	if logger == nil {
		logger = slog.Default()
	}

	d, err := notifier.NewDiscordNotifier(cfg, logger)
	if err != nil {
		return nil, err
	}
	if dryRun {
		logger.Warn("dry run: notifications will be logged, not sent", slog.String("endpoint", d.Endpoint()))
		return notifier.NewNoOpNotifier(logger), nil
	}
	logger.Info("Discord webhook configured", slog.String("endpoint", d.Endpoint()))
	return d, nil
}
