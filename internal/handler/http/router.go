package http

import (
	"log/slog"
	"net/http"
	"time"

	"radarr-notify/internal/handler/http/requestid"
	"radarr-notify/internal/observability/tracing"
	"radarr-notify/internal/resilience/circuitbreaker"
)

// maxRequestBody bounds request bodies; no route reads one.
const maxRequestBody = 1 << 20

// RouterDeps are the collaborators the routes need.
type RouterDeps struct {
	Poller    PollerControl
	History   HistoryReader
	Queue     QueueInspector
	Jobs      JobLister
	Breaker   *circuitbreaker.CircuitBreaker
	Version   string
	StartedAt time.Time
	Logger    *slog.Logger
}

// NewRouter builds the complete handler:
//
//	GET  /health          service status
//	GET  /metrics         Prometheus exposition
//	GET  /notifications   notification history
//	GET  /radarr/health   last poll result
//	POST /radarr/enable   register the poll job
//	POST /radarr/disable  cancel the poll job
//	*                     404 "nothing to see here"
func NewRouter(d RouterDeps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if d.StartedAt.IsZero() {
		d.StartedAt = time.Now()
	}

	radarrHandler := &RadarrHandler{Poller: d.Poller, Logger: logger}

	mux := http.NewServeMux()
	mux.Handle("GET /health", &HealthHandler{
		Poller:    d.Poller,
		History:   d.History,
		Queue:     d.Queue,
		Jobs:      d.Jobs,
		Breaker:   d.Breaker,
		Version:   d.Version,
		StartedAt: d.StartedAt,
	})
	mux.Handle("GET /metrics", MetricsHandler())
	mux.Handle("GET /notifications", &NotificationsHandler{History: d.History})
	mux.HandleFunc("GET /radarr/health", radarrHandler.Health)
	mux.HandleFunc("POST /radarr/enable", radarrHandler.Enable)
	mux.HandleFunc("POST /radarr/disable", radarrHandler.Disable)
	mux.HandleFunc("/", NotFound)

	return Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		Logging(logger),
		Recover(logger),
		LimitRequestBody(maxRequestBody),
		MetricsMiddleware,
	)
}
