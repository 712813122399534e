package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zenobiuszeto/json-io/codec"
)

// Queue runs submitted Jobs through a middleware chain on a bounded pool of
// worker goroutines: the chain is built once at startup, in-flight work is
// tracked with a sync.WaitGroup, and a shutdown flag lets a closed queue
// tell "closed on purpose" apart from a genuine failure.
type Queue struct {
	jobs     chan queued
	wg       sync.WaitGroup
	shutdown atomic.Bool
	handler  HandlerFunc
}

type queued struct {
	job  *Job
	resC chan *Result
}

// NewQueue starts workers worker goroutines, each running submitted jobs
// through the given middleware chain in order.
func NewQueue(workers int, middlewares ...Middleware) *Queue {
	q := &Queue{
		jobs:    make(chan queued, workers*4),
		handler: Chain(middlewares...)(businessHandler),
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.run()
	}
	return q
}

func (q *Queue) run() {
	defer q.wg.Done()
	for qd := range q.jobs {
		qd.resC <- q.handler(context.Background(), qd.job)
	}
}

// Submit enqueues job and blocks until a worker has produced a Result, or
// ctx is done first.
func (q *Queue) Submit(ctx context.Context, job *Job) (*Result, error) {
	if q.shutdown.Load() {
		return nil, fmt.Errorf("service: queue is shut down")
	}
	qd := queued{job: job, resC: make(chan *Result, 1)}
	select {
	case q.jobs <- qd:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-qd.resC:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops accepting new jobs and waits up to timeout for in-flight
// and already-queued jobs to drain: flag first, then close, then bounded
// wait.
func (q *Queue) Shutdown(timeout time.Duration) error {
	q.shutdown.Store(true)
	close(q.jobs)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("service: timeout waiting for jobs to drain")
	}
}

// businessHandler is the innermost HandlerFunc: it actually runs the codec,
// beneath whatever middleware chain wraps it.
func businessHandler(ctx context.Context, job *Job) *Result {
	switch job.Op {
	case OpEncode:
		var data []byte
		var err error
		if job.Registry != nil {
			data, err = codec.MarshalWithRegistry(job.Graph, job.Registry)
		} else {
			data, err = codec.Marshal(job.Graph)
		}
		return &Result{Bytes: data, Err: err}
	case OpDecode:
		var err error
		if job.Registry != nil {
			err = codec.UnmarshalWithRegistry(job.Data, job.Target, job.Registry)
		} else {
			err = codec.Unmarshal(job.Data, job.Target)
		}
		return &Result{Err: err}
	default:
		return &Result{Err: fmt.Errorf("service: unknown op %v", job.Op)}
	}
}
