// Package resilience holds fault-tolerance helpers for calls to services the
// notifier depends on.
//
// The circuitbreaker subpackage wraps sony/gobreaker. It guards the Radarr
// health client so that a Radarr instance that is down is not hammered
// every poll tick.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.RadarrConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return client.fetch(ctx)
//	})
package resilience
