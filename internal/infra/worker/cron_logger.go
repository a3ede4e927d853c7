package worker

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// cronLogger adapts *slog.Logger to cron.Logger so the cron runtime's own
// messages (skipped runs, recovered panics) land in the structured log.
type cronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = cronLogger{}

// Info logs routine cron events at debug level; robfig emits one per
// wake-up, which is too chatty for info.
func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{slog.Any("error", err)}, keysAndValues...)
	l.logger.Error(msg, args...)
}
