package monitor

import "errors"

var (
	// ErrAlreadyEnabled is returned by Enable when the poll job is registered.
	ErrAlreadyEnabled = errors.New("poller already enabled")

	// ErrNilChecker is returned when no status source is supplied.
	ErrNilChecker = errors.New("monitor: health checker is required")

	// ErrNilSubmitter is returned when no notification manager is supplied.
	ErrNilSubmitter = errors.New("monitor: notification submitter is required")

	// ErrNilScheduler is returned when no scheduler is supplied.
	ErrNilScheduler = errors.New("monitor: scheduler is required")
)
