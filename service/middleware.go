package service

import "context"

// HandlerFunc processes one Job and returns its Result.
type HandlerFunc func(ctx context.Context, job *Job) *Result

// Middleware wraps a HandlerFunc with cross-cutting behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares in the onion model:
// Chain(A, B, C)(handler) runs A.before → B.before → C.before → handler →
// C.after → B.after → A.after.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
