// Package tracing wires OpenTelemetry spans into the notifier.
//
// Spans are created for inbound HTTP requests (Middleware), each Radarr poll
// tick and each dispatcher flush. The package never installs an exporter;
// without a configured TracerProvider the global no-op provider is used and
// spans cost almost nothing.
//
// Example usage:
//
//	ctx, span := tracing.Tracer().Start(ctx, "monitor.Tick")
//	defer span.End()
package tracing
