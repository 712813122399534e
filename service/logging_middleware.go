package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingMiddleware logs each job's operation, payload size, and outcome as
// structured fields (op, bytes, duration) rather than a formatted line.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, job *Job) *Result {
			start := time.Now()
			res := next(ctx, job)
			fields := []zap.Field{
				zap.String("op", job.Op.String()),
				zap.Duration("duration", time.Since(start)),
			}
			if res != nil && res.Err != nil {
				fields = append(fields, zap.Error(res.Err))
				logger.Error("job failed", fields...)
			} else {
				if res != nil {
					fields = append(fields, zap.Int("bytes", len(res.Bytes)))
				}
				logger.Info("job completed", fields...)
			}
			return res
		}
	}
}
