package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scheduler metrics, labelled by job name.
//
//   - scheduler_job_runs_total: Runs by job and status (success, failure, panic)
//   - scheduler_job_duration_seconds: Run duration histogram by job
//   - scheduler_job_last_success_timestamp: Unix time of the last successful run
//   - scheduler_jobs_registered: Number of jobs currently registered
var (
	jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_job_runs_total",
		Help: "Total number of scheduled job runs by job and status",
	}, []string{"job", "status"})

	jobDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduler_job_duration_seconds",
		Help:    "Duration of scheduled job runs in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	}, []string{"job"})

	jobLastSuccessTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scheduler_job_last_success_timestamp",
		Help: "Unix timestamp of the last successful run of each job",
	}, []string{"job"})

	jobsRegistered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scheduler_jobs_registered",
		Help: "Number of jobs currently registered with the scheduler",
	})
)

// Job run statuses.
const (
	statusSuccess = "success"
	statusFailure = "failure"
	statusPanic   = "panic"
)

func recordRun(job, status string, seconds float64) {
	jobRunsTotal.WithLabelValues(job, status).Inc()
	jobDurationSeconds.WithLabelValues(job).Observe(seconds)
	if status == statusSuccess {
		jobLastSuccessTimestamp.WithLabelValues(job).SetToCurrentTime()
	}
}
