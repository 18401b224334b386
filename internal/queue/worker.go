package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/codes"
)

// retryDelays is the backoff between attempts of a failed task
var retryDelays = []time.Duration{
	10 * time.Second,
	30 * time.Second,
	1 * time.Minute,
}

// Worker wraps the Asynq server for processing tasks
type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	handler     Handler
	concurrency int
	logger      *slog.Logger
}

// WorkerConfig contains configuration for the queue worker
type WorkerConfig struct {
	RedisAddr   string
	Concurrency int
}

// NewWorker creates a new queue worker that passes each task to handler
func NewWorker(cfg WorkerConfig, handler Handler, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "asynq_worker")

	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	serverCfg := asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueExtraction: 1,
		},
		RetryDelayFunc:  retryDelay,
		ShutdownTimeout: 30 * time.Second,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)

			logger.Error("task processing error",
				"task_type", task.Type(),
				"error", err,
				"retry_count", retried,
				"max_retries", maxRetry,
			)
		}),
	}

	w := &Worker{
		server:      asynq.NewServer(redisOpt, serverCfg),
		mux:         asynq.NewServeMux(),
		handler:     handler,
		concurrency: cfg.Concurrency,
		logger:      logger,
	}
	w.mux.HandleFunc(TypeProcessFile, w.handleProcessFile)

	return w
}

// Run processes tasks until ctx is cancelled, then shuts the server down
// gracefully
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("starting asynq worker",
		"concurrency", w.concurrency,
		"queue", QueueExtraction,
	)

	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("asynq server error: %w", err)
	}

	<-ctx.Done()
	w.logger.Info("shutting down asynq worker")
	w.server.Shutdown()
	return nil
}

func (w *Worker) handleProcessFile(ctx context.Context, t *asynq.Task) error {
	var task Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		return fmt.Errorf("invalid task payload: %v: %w", err, asynq.SkipRetry)
	}

	retryCount, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	w.logger.Info("processing file",
		"job_id", task.JobID,
		"file_type", task.FileType,
		"retry_count", retryCount,
		"max_retries", maxRetry,
		"queue_wait_seconds", task.WaitTime().Seconds(),
	)

	ctx, span := startSpan(ctx, task, retryCount)
	defer span.End()

	if err := w.handler(ctx, task); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "task failed")
		return err
	}
	return nil
}

// retryDelay returns the backoff before retry n, holding at the last step
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < len(retryDelays) {
		return retryDelays[n]
	}
	return retryDelays[len(retryDelays)-1]
}
