package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/codes"
)

// LocalQueue is an in-process bounded queue drained by a fixed number of
// worker goroutines. Tasks still queued at shutdown are dropped and their
// jobs stay pending.
type LocalQueue struct {
	tasks   chan Task
	workers int
	handler Handler
	logger  *slog.Logger
}

// NewLocalQueue creates a queue holding up to size tasks, processed by
// workers goroutines once Run is called
func NewLocalQueue(size, workers int, handler Handler, logger *slog.Logger) *LocalQueue {
	if size <= 0 {
		size = 100
	}
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalQueue{
		tasks:   make(chan Task, size),
		workers: workers,
		handler: handler,
		logger:  logger.With("component", "local_queue"),
	}
}

// Submit enqueues task without blocking
func (q *LocalQueue) Submit(ctx context.Context, task Task) error {
	task.stamp(ctx)
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len returns the number of tasks waiting for a worker
func (q *LocalQueue) Len() int {
	return len(q.tasks)
}

// Run processes tasks until ctx is cancelled, then waits for in-flight
// tasks to finish. In-flight tasks are not cancelled with ctx.
func (q *LocalQueue) Run(ctx context.Context) error {
	q.logger.Info("starting local worker pool", "workers", q.workers, "capacity", cap(q.tasks))

	taskCtx := context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task := <-q.tasks:
					q.process(taskCtx, task)
				}
			}
		}()
	}

	wg.Wait()
	q.logger.Info("local worker pool stopped", "dropped", len(q.tasks))
	return nil
}

func (q *LocalQueue) process(ctx context.Context, task Task) {
	ctx, span := startSpan(ctx, task, 0)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			span.RecordError(err)
			span.SetStatus(codes.Error, "task panicked")
			q.logger.Error("task panicked", "job_id", task.JobID, "error", err)
		}
	}()

	if err := q.handler(ctx, task); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "task failed")
		q.logger.Error("task processing error", "job_id", task.JobID, "error", err)
	}
}
