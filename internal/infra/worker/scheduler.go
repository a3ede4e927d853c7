// Package worker runs named recurring jobs on cron schedules.
//
// A Scheduler owns a table of jobs keyed by unique name. Jobs can be added
// and cancelled at runtime, before or after Start. Each run receives a
// context that is cancelled when the scheduler stops (or when the job's
// timeout elapses). Failed runs are logged and counted but never retried;
// the next scheduled tick is the retry.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"radarr-notify/internal/pkg/config"
)

// OverlapPolicy decides what happens when a job fires while its previous
// run is still in progress.
type OverlapPolicy int

const (
	// OverlapSkip drops the new firing. This is the zero value.
	OverlapSkip OverlapPolicy = iota
	// OverlapAllow starts the new firing concurrently with the old one.
	OverlapAllow
)

// String returns the policy name used in logs and JobInfo.
func (p OverlapPolicy) String() string {
	if p == OverlapAllow {
		return "allow"
	}
	return "skip"
}

// Job describes a named recurring unit of work.
//
// Fields:
//   - Name: Unique key in the scheduler table
//   - Schedule: Cron expression accepted by config.CronParser
//   - Run: Body invoked on each firing
//   - Overlap: Policy for firings that arrive while a run is in progress
//   - Timeout: Per-run bound; zero uses Config.DefaultTimeout
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
	Overlap  OverlapPolicy
	Timeout  time.Duration
}

// JobInfo is a read-only view of a registered job.
type JobInfo struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	Overlap  string    `json:"overlap"`
	Next     time.Time `json:"next,omitempty"`
	Prev     time.Time `json:"prev,omitempty"`
}

type entry struct {
	job     Job
	id      cron.EntryID
	wrapped cron.Job
}

// Scheduler is a named-job table on top of robfig/cron.
// All methods are safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]*entry
	cfg     Config
	logger  *slog.Logger
	cl      cron.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	stopped bool
}

// NewScheduler creates a stopped scheduler.
//
// Parameters:
//   - cfg: Timezone and default timeout for jobs
//   - logger: Structured logger; nil uses slog.Default()
//
// Returns:
//   - *Scheduler: Ready to accept jobs
//   - error: Non-nil if cfg is invalid
func NewScheduler(cfg Config, logger *slog.Logger) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "scheduler"))
	cl := cronLogger{logger: logger}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithParser(config.CronParser),
			cron.WithLocation(loc),
			cron.WithLogger(cl),
		),
		entries: make(map[string]*entry),
		cfg:     cfg,
		logger:  logger,
		cl:      cl,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Add registers job under job.Name.
//
// Returns:
//   - ErrEmptyJobName, ErrNilJobFunc: job is incomplete
//   - ErrInvalidSchedule: job.Schedule does not parse
//   - ErrJobExists: a job with the same name is registered
//   - ErrSchedulerStopped: Stop has been called
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" {
		return ErrEmptyJobName
	}
	if job.Run == nil {
		return fmt.Errorf("%w: %s", ErrNilJobFunc, job.Name)
	}
	schedule, err := config.CronParser.Parse(job.Schedule)
	if err != nil {
		return fmt.Errorf("%w '%s' for job %s: %v", ErrInvalidSchedule, job.Schedule, job.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrSchedulerStopped
	}
	if _, ok := s.entries[job.Name]; ok {
		return fmt.Errorf("%w: %s", ErrJobExists, job.Name)
	}

	wrapped := s.wrap(job)
	id := s.cron.Schedule(schedule, wrapped)
	s.entries[job.Name] = &entry{job: job, id: id, wrapped: wrapped}
	jobsRegistered.Set(float64(len(s.entries)))

	s.logger.Info("job added",
		slog.String("job", job.Name),
		slog.String("schedule", job.Schedule),
		slog.String("overlap", job.Overlap.String()))
	return nil
}

// Cancel removes the named job. A run already in progress is not
// interrupted. Returns false if no such job is registered.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return false
	}
	s.cron.Remove(e.id)
	delete(s.entries, name)
	jobsRegistered.Set(float64(len(s.entries)))

	s.logger.Info("job cancelled", slog.String("job", name))
	return true
}

// Has reports whether a job with the given name is registered.
func (s *Scheduler) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[name]
	return ok
}

// Jobs returns the registered jobs sorted by name. Next and Prev are zero
// until the scheduler has started and the job has fired.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.entries))
	for name, e := range s.entries {
		ce := s.cron.Entry(e.id)
		infos = append(infos, JobInfo{
			Name:     name,
			Schedule: e.job.Schedule,
			Overlap:  e.job.Overlap.String(),
			Next:     ce.Next,
			Prev:     ce.Prev,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Trigger runs the named job once in the caller's goroutine, outside its
// schedule. The job's overlap policy applies, so a trigger that collides
// with a running OverlapSkip job is dropped.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	e.wrapped.Run()
	return nil
}

// Start begins firing jobs in the background. Calling Start more than once,
// or after Stop, has no effect.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	s.cron.Start()
	s.logger.Info("scheduler started",
		slog.String("timezone", s.cron.Location().String()),
		slog.Int("jobs", len(s.entries)))
}

// Stop cancels the context passed to running jobs, stops firing new ones,
// and waits for in-flight runs to return or for ctx to be done.
// The scheduler cannot be restarted.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.cancel()
	done := s.cron.Stop()
	s.mu.Unlock()

	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out waiting for running jobs", slog.Any("error", ctx.Err()))
		return ctx.Err()
	}
}

// wrap builds the cron.Job for a registration: panic recovery outermost,
// then the overlap policy, then the instrumented body.
func (s *Scheduler) wrap(job Job) cron.Job {
	wrappers := []cron.JobWrapper{cron.Recover(s.cl)}
	if job.Overlap == OverlapSkip {
		wrappers = append(wrappers, cron.SkipIfStillRunning(s.cl))
	}
	return cron.NewChain(wrappers...).Then(cron.FuncJob(func() { s.run(job) }))
}

// run executes one firing of job with metrics and logging.
func (s *Scheduler) run(job Job) {
	ctx := s.ctx
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = s.cfg.DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			recordRun(job.Name, statusPanic, time.Since(start).Seconds())
			panic(r)
		}
	}()

	err := job.Run(ctx)
	elapsed := time.Since(start)

	if err != nil {
		recordRun(job.Name, statusFailure, elapsed.Seconds())
		level := slog.LevelError
		if errors.Is(err, context.Canceled) && s.ctx.Err() != nil {
			level = slog.LevelInfo
		}
		s.logger.Log(ctx, level, "job failed",
			slog.String("job", job.Name),
			slog.Duration("duration", elapsed),
			slog.Any("error", err))
		return
	}

	recordRun(job.Name, statusSuccess, elapsed.Seconds())
	s.logger.Debug("job completed",
		slog.String("job", job.Name),
		slog.Duration("duration", elapsed))
}
