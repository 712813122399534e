package service

import (
	"context"
	"time"
)

// TimeoutMiddleware bounds how long a single job may run: the handler runs
// on its own goroutine, raced against ctx's deadline.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, job *Job) *Result {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan *Result, 1)
			go func() {
				done <- next(ctx, job)
			}()

			select {
			case res := <-done:
				return res
			case <-ctx.Done():
				return &Result{Err: errTimedOut}
			}
		}
	}
}
