// Package observability groups the notifier's logging, tracing and SLO
// infrastructure.
//
// Subpackages:
//   - logging: slog setup and request-scoped loggers
//   - tracing: OpenTelemetry tracer access and HTTP middleware
//   - slo: Service level gauges computed from Prometheus counters
//
// Component metrics live next to the code they measure and are registered
// with the Prometheus default registry via promauto.
package observability
