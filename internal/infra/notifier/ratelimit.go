package notifier

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outgoing webhook requests with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter allowing requestsPerSecond on average with
// bursts of up to burst requests. A non-positive rate disables limiting.
//
// Discord allows roughly five webhook requests per two seconds, so
// NewRateLimiter(2, 5) keeps well inside the limit.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may proceed or ctx is done.
// It returns how long the caller was held back.
func (r *RateLimiter) Wait(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	err := r.limiter.Wait(ctx)
	return time.Since(start), err
}
