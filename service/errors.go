package service

import "errors"

var (
	errRateLimited = errors.New("service: rate limit exceeded")
	errTimedOut    = errors.New("service: job timed out")
)
