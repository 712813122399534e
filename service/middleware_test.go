package service

import (
	"context"
	"testing"
	"time"
)

func echoHandler(ctx context.Context, job *Job) *Result {
	return &Result{Bytes: []byte("ok")}
}

func slowHandler(ctx context.Context, job *Job) *Result {
	time.Sleep(200 * time.Millisecond)
	return &Result{Bytes: []byte("ok")}
}

func TestTimeoutPass(t *testing.T) {
	handler := TimeoutMiddleware(500 * time.Millisecond)(echoHandler)
	res := handler(context.Background(), &Job{Op: OpEncode})
	if res.Err != nil {
		t.Fatalf("expect no error, got %v", res.Err)
	}
}

func TestTimeoutExceeded(t *testing.T) {
	handler := TimeoutMiddleware(50 * time.Millisecond)(slowHandler)
	res := handler(context.Background(), &Job{Op: OpEncode})
	if res.Err != errTimedOut {
		t.Fatalf("expect timeout error, got %v", res.Err)
	}
}

func TestRateLimit(t *testing.T) {
	handler := RateLimitMiddleware(1, 2)(echoHandler)
	job := &Job{Op: OpEncode}

	for i := 0; i < 2; i++ {
		res := handler(context.Background(), job)
		if res.Err != nil {
			t.Fatalf("request %d should pass, got error: %v", i, res.Err)
		}
	}

	res := handler(context.Background(), job)
	if res.Err != errRateLimited {
		t.Fatalf("request 3 should be rate limited, got: %v", res.Err)
	}
}

func TestChain(t *testing.T) {
	chained := Chain(RateLimitMiddleware(100, 10), TimeoutMiddleware(500*time.Millisecond))
	handler := chained(echoHandler)

	res := handler(context.Background(), &Job{Op: OpEncode})
	if res == nil {
		t.Fatal("expect non-nil result")
	}
	if res.Err != nil {
		t.Fatalf("expect no error, got %v", res.Err)
	}
}
