// Package http provides the control surface of the notifier: health and
// metrics endpoints, the Radarr poller switches and the notification
// history, plus the middleware that wraps them.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"radarr-notify/internal/domain/entity"
	"radarr-notify/internal/handler/http/respond"
	"radarr-notify/internal/infra/worker"
	"radarr-notify/internal/resilience/circuitbreaker"
	"radarr-notify/internal/usecase/monitor"
)

// PollerControl is the part of monitor.Poller exposed over HTTP.
type PollerControl interface {
	Enable() error
	Disable() error
	Enabled() bool
	JobName() string
	Status(ctx context.Context) (monitor.Result, error)
}

// HistoryReader exposes the notification history.
type HistoryReader interface {
	History() []entity.Notification
	Len() int
}

// QueueInspector reports the outbound queue depth.
type QueueInspector interface {
	Name() string
	Pending() int
}

// JobLister lists scheduled jobs.
type JobLister interface {
	Jobs() []worker.JobInfo
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string           `json:"status"`
	Timestamp     string           `json:"timestamp"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Version       string           `json:"version"`
	Notifications int              `json:"notifications"`
	Pending       int              `json:"pending"`
	Channel       string           `json:"channel"`
	Radarr        RadarrHealthInfo `json:"radarr"`
	Jobs          []worker.JobInfo `json:"jobs"`
}

// RadarrHealthInfo summarizes the poller in the health response.
type RadarrHealthInfo struct {
	Enabled        bool   `json:"enabled"`
	CircuitBreaker string `json:"circuit_breaker,omitempty"`
}

// HealthHandler serves GET /health. It always answers 200 while the process
// is serving; the Radarr fields describe the poller, not the process.
type HealthHandler struct {
	Poller    PollerControl
	History   HistoryReader
	Queue     QueueInspector
	Jobs      JobLister
	Breaker   *circuitbreaker.CircuitBreaker
	Version   string
	StartedAt time.Time
	now       func() time.Time
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if h.now != nil {
		now = h.now()
	}

	resp := HealthResponse{
		Status:        "ok",
		Timestamp:     now.UTC().Format(time.RFC3339),
		UptimeSeconds: int64(now.Sub(h.StartedAt).Seconds()),
		Version:       h.Version,
		Notifications: h.History.Len(),
		Pending:       h.Queue.Pending(),
		Channel:       h.Queue.Name(),
		Radarr:        RadarrHealthInfo{Enabled: h.Poller.Enabled()},
		Jobs:          h.Jobs.Jobs(),
	}
	if h.Breaker != nil {
		resp.Radarr.CircuitBreaker = h.Breaker.State().String()
	}

	respond.JSON(w, http.StatusOK, resp)
}

// RadarrHandler serves the /radarr routes.
type RadarrHandler struct {
	Poller PollerControl
	Logger *slog.Logger
}

// Health serves GET /radarr/health: the last poll result, or a live check
// when no poll has succeeded yet.
func (h *RadarrHandler) Health(w http.ResponseWriter, r *http.Request) {
	result, err := h.Poller.Status(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// PollerStateResponse is the body of the enable and disable endpoints.
type PollerStateResponse struct {
	Job     string `json:"job"`
	Enabled bool   `json:"enabled"`
}

// Enable serves POST /radarr/enable.
func (h *RadarrHandler) Enable(w http.ResponseWriter, r *http.Request) {
	if err := h.Poller.Enable(); err != nil {
		if errors.Is(err, monitor.ErrAlreadyEnabled) {
			respond.Fail(w, http.StatusInternalServerError,
				respond.NewAppError(http.StatusInternalServerError, err.Error(), nil))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	h.Logger.InfoContext(r.Context(), "radarr poller enabled via http")
	respond.JSON(w, http.StatusOK, PollerStateResponse{Job: h.Poller.JobName(), Enabled: true})
}

// Disable serves POST /radarr/disable.
func (h *RadarrHandler) Disable(w http.ResponseWriter, r *http.Request) {
	if err := h.Poller.Disable(); err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	h.Logger.InfoContext(r.Context(), "radarr poller disabled via http")
	respond.JSON(w, http.StatusOK, PollerStateResponse{Job: h.Poller.JobName(), Enabled: false})
}

// NotificationsResponse is the body of GET /notifications.
type NotificationsResponse struct {
	Count         int                   `json:"count"`
	Notifications []entity.Notification `json:"notifications"`
}

// NotificationsHandler serves GET /notifications, oldest first.
type NotificationsHandler struct {
	History HistoryReader
}

func (h *NotificationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	history := h.History.History()
	if history == nil {
		history = []entity.Notification{}
	}
	respond.JSON(w, http.StatusOK, NotificationsResponse{Count: len(history), Notifications: history})
}

// NotFound answers every unmatched route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Text(w, http.StatusNotFound, "nothing to see here")
}
