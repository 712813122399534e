package service

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles jobs with a token-bucket limiter. Decoding
// attacker-supplied JSON is the resource-exhaustion-prone direction (an
// unbounded nested array costs the caller one small request but the server
// a deep parse/build walk), so this is the middleware worth keeping metered
// end to end rather than dropping.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, job *Job) *Result {
			if !limiter.Allow() {
				return &Result{Err: errRateLimited}
			}
			return next(ctx, job)
		}
	}
}
