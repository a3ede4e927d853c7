// Package monitor polls an upstream service's health endpoint on a schedule
// and turns each reported item into a notification.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"radarr-notify/internal/domain/entity"
	"radarr-notify/internal/infra/radarr"
	"radarr-notify/internal/infra/worker"
	"radarr-notify/internal/observability/tracing"
	"radarr-notify/internal/resilience/circuitbreaker"
)

// DefaultSchedule polls every ten seconds.
const DefaultSchedule = "*/10 * * * * *"

// HealthChecker returns the current health items of a monitored service.
type HealthChecker interface {
	Health(ctx context.Context) ([]radarr.HealthItem, error)
}

// Submitter accepts alerts for deduplication and delivery.
type Submitter interface {
	Submit(ctx context.Context, bare entity.BareNotification) (entity.Notification, bool)
}

// JobScheduler is the subset of worker.Scheduler the poller needs.
type JobScheduler interface {
	Add(job worker.Job) error
	Cancel(name string) bool
	Has(name string) bool
}

// Config configures a Poller.
//
// Fields:
//   - Source: Name of the monitored service, used in the job name and metrics (default "radarr")
//   - Schedule: Cron expression for the poll job (default DefaultSchedule)
//   - Timeout: Per-tick bound; zero uses the scheduler default
type Config struct {
	Source   string
	Schedule string
	Timeout  time.Duration
}

// Result is the outcome of the last successful tick.
type Result struct {
	Source    string              `json:"source"`
	CheckedAt time.Time           `json:"checked_at"`
	Items     []radarr.HealthItem `json:"items"`
	Created   int                 `json:"created"`
	Duplicate int                 `json:"duplicate"`
	Skipped   int                 `json:"skipped"`
}

// Poller binds a HealthChecker to the notification manager through a
// scheduler job.
type Poller struct {
	checker   HealthChecker
	submitter Submitter
	scheduler JobScheduler
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time

	mu   sync.RWMutex
	last *Result
}

// NewPoller creates a disabled poller.
//
// Parameters:
//   - checker: Status source
//   - submitter: Notification manager
//   - scheduler: Job table the poll job is added to on Enable
//   - cfg: Source name, schedule and timeout
//   - logger: Structured logger; nil uses slog.Default()
func NewPoller(checker HealthChecker, submitter Submitter, scheduler JobScheduler, cfg Config, logger *slog.Logger) (*Poller, error) {
	if checker == nil {
		return nil, ErrNilChecker
	}
	if submitter == nil {
		return nil, ErrNilSubmitter
	}
	if scheduler == nil {
		return nil, ErrNilScheduler
	}
	if cfg.Source == "" {
		cfg.Source = "radarr"
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		checker:   checker,
		submitter: submitter,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "monitor"), slog.String("source", cfg.Source)),
		now:       time.Now,
	}, nil
}

// JobName is the scheduler key of the poll job, e.g. "radarr:poll".
func (p *Poller) JobName() string {
	return p.cfg.Source + ":poll"
}

// Schedule returns the cron expression of the poll job.
func (p *Poller) Schedule() string {
	return p.cfg.Schedule
}

// Tick runs one poll: fetch the health items and submit each of them in the
// order the service reported them. When the fetch fails nothing is
// submitted and the previous result is kept.
func (p *Poller) Tick(ctx context.Context) (err error) {
	ctx, span := tracing.Tracer().Start(ctx, "monitor.Tick",
		trace.WithAttributes(attribute.String("monitor.source", p.cfg.Source)))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	start := time.Now()
	items, err := p.checker.Health(ctx)
	elapsed := time.Since(start)
	if err != nil {
		if circuitbreaker.IsRejection(err) {
			recordPoll(p.cfg.Source, pollRejected, elapsed.Seconds())
			p.logger.WarnContext(ctx, "health poll skipped, circuit breaker open", slog.Any("error", err))
			return fmt.Errorf("%s health: %w", p.cfg.Source, err)
		}
		recordPoll(p.cfg.Source, pollFailure, elapsed.Seconds())
		p.logger.WarnContext(ctx, "health poll failed", slog.Any("error", err))
		return fmt.Errorf("%s health: %w", p.cfg.Source, err)
	}

	result := Result{
		Source:    p.cfg.Source,
		CheckedAt: p.now(),
		Items:     items,
	}
	for _, item := range items {
		severity, known := MapSeverity(item.Type)
		if !known {
			unknownSeverityTotal.WithLabelValues(p.cfg.Source, item.Type).Inc()
			p.logger.WarnContext(ctx, "unknown health type, treating as warning",
				slog.String("type", item.Type),
				slog.String("check", item.Source))
		}

		bare := entity.BareNotification{Severity: severity, Message: item.Message}
		if verr := bare.Validate(); verr != nil {
			result.Skipped++
			p.logger.DebugContext(ctx, "health item skipped",
				slog.String("check", item.Source),
				slog.Any("error", verr))
			continue
		}

		if _, created := p.submitter.Submit(ctx, bare); created {
			result.Created++
		} else {
			result.Duplicate++
		}
	}

	p.mu.Lock()
	p.last = &result
	p.mu.Unlock()

	recordPoll(p.cfg.Source, pollSuccess, elapsed.Seconds())
	pollItems.WithLabelValues(p.cfg.Source).Set(float64(len(items)))
	span.SetAttributes(
		attribute.Int("monitor.items", len(items)),
		attribute.Int("monitor.created", result.Created))
	p.logger.DebugContext(ctx, "health poll completed",
		slog.Int("items", len(items)),
		slog.Int("created", result.Created),
		slog.Int("duplicate", result.Duplicate),
		slog.Int("skipped", result.Skipped))
	return nil
}

// Enable registers the poll job.
//
// Returns:
//   - ErrAlreadyEnabled: the job is already registered
//   - other: the scheduler rejected the job (e.g. invalid schedule)
func (p *Poller) Enable() error {
	err := p.scheduler.Add(worker.Job{
		Name:     p.JobName(),
		Schedule: p.cfg.Schedule,
		Run:      p.Tick,
		Overlap:  worker.OverlapSkip,
		Timeout:  p.cfg.Timeout,
	})
	if errors.Is(err, worker.ErrJobExists) {
		return ErrAlreadyEnabled
	}
	if err != nil {
		return fmt.Errorf("enable %s poller: %w", p.cfg.Source, err)
	}
	p.logger.Info("poller enabled", slog.String("schedule", p.cfg.Schedule))
	return nil
}

// Disable removes the poll job. Disabling an absent job is not an error.
// A tick already running is not interrupted.
func (p *Poller) Disable() error {
	if !p.scheduler.Cancel(p.JobName()) {
		p.logger.Debug("poller already disabled")
		return nil
	}
	p.logger.Info("poller disabled")
	return nil
}

// Enabled reports whether the poll job is registered.
func (p *Poller) Enabled() bool {
	return p.scheduler.Has(p.JobName())
}

// LastResult returns the result of the last successful tick.
func (p *Poller) LastResult() (Result, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return Result{}, false
	}
	r := *p.last
	r.Items = slices.Clone(r.Items)
	return r, true
}

// Status returns the last result, or performs a live check when no tick has
// succeeded yet. A live check does not submit notifications.
func (p *Poller) Status(ctx context.Context) (Result, error) {
	if last, ok := p.LastResult(); ok {
		return last, nil
	}
	items, err := p.checker.Health(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%s health: %w", p.cfg.Source, err)
	}
	return Result{Source: p.cfg.Source, CheckedAt: p.now(), Items: items}, nil
}
