// Package queue moves processing tasks from the HTTP layer to workers,
// either in process or through Redis with asynq.
package queue

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/contentanalyzer/internal/models"
)

// Task type and queue names
const (
	TypeProcessFile = "contentanalyzer:process_file"
	QueueExtraction = "extraction"
)

// ErrQueueFull is returned when a task cannot be accepted without blocking
var ErrQueueFull = errors.New("processing queue is full")

// Task asks a worker to extract and analyze one staged file
type Task struct {
	JobID    string          `json:"job_id"`
	FilePath string          `json:"file_path"`
	FileType models.FileType `json:"file_type"`
	Language string          `json:"language,omitempty"`
	// Tracing and timing fields
	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix timestamp in nanoseconds
}

// Handler processes a task. A returned error marks the attempt as failed.
type Handler func(ctx context.Context, task Task) error

// Submitter accepts tasks for asynchronous processing
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// stamp records the enqueue time and the caller's span so the worker can
// continue the trace
func (t *Task) stamp(ctx context.Context) {
	t.EnqueuedAt = time.Now().UnixNano()

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		t.TraceID = spanCtx.TraceID().String()
		t.SpanID = spanCtx.SpanID().String()

		span.AddEvent("task_enqueued", trace.WithAttributes(
			attribute.String("task.type", TypeProcessFile),
			attribute.String("job.id", t.JobID),
			attribute.Int64("enqueued_at", t.EnqueuedAt),
		))
	}
}

// WaitTime is how long the task sat in the queue
func (t Task) WaitTime() time.Duration {
	if t.EnqueuedAt <= 0 {
		return 0
	}
	return time.Since(time.Unix(0, t.EnqueuedAt))
}

// startSpan opens the consumer span for a task, parented on the span that
// enqueued it when the payload carries one
func startSpan(ctx context.Context, task Task, retryCount int) (context.Context, trace.Span) {
	if task.TraceID != "" && task.SpanID != "" {
		traceID, err := trace.TraceIDFromHex(task.TraceID)
		if err == nil {
			spanID, err := trace.SpanIDFromHex(task.SpanID)
			if err == nil {
				remoteSpanCtx := trace.NewSpanContext(trace.SpanContextConfig{
					TraceID:    traceID,
					SpanID:     spanID,
					TraceFlags: trace.FlagsSampled,
					Remote:     true,
				})
				ctx = trace.ContextWithRemoteSpanContext(ctx, remoteSpanCtx)
			}
		}
	}

	wait := task.WaitTime()
	ctx, span := otel.Tracer("contentanalyzer/queue").Start(ctx, "queue.task.process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.type", TypeProcessFile),
			attribute.String("job.id", task.JobID),
			attribute.String("file.type", string(task.FileType)),
			attribute.Int("retry_count", retryCount),
			attribute.Float64("queue.wait_time_seconds", wait.Seconds()),
			attribute.Int64("enqueued_at", task.EnqueuedAt),
		),
	)
	span.AddEvent("task_processing_started", trace.WithAttributes(
		attribute.Float64("wait_time_seconds", wait.Seconds()),
	))
	return ctx, span
}
