package worker

import "errors"

// Sentinel errors returned by Scheduler.
var (
	// ErrEmptyJobName is returned when a job is registered without a name.
	ErrEmptyJobName = errors.New("job name is required")

	// ErrNilJobFunc is returned when a job is registered without a body.
	ErrNilJobFunc = errors.New("job run function is required")

	// ErrJobExists is returned when a job with the same name is already registered.
	ErrJobExists = errors.New("job already exists")

	// ErrJobNotFound is returned when triggering a job that is not registered.
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidSchedule is returned when a cron expression cannot be parsed.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrSchedulerStopped is returned when registering jobs after Stop.
	ErrSchedulerStopped = errors.New("scheduler stopped")
)
