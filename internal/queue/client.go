package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Client wraps the Asynq client for enqueueing tasks
type Client struct {
	client *asynq.Client
}

// ClientConfig contains configuration for the queue client
type ClientConfig struct {
	RedisAddr string
}

var _ Submitter = (*Client)(nil)

// NewClient creates a new queue client
func NewClient(cfg ClientConfig) *Client {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	return &Client{
		client: asynq.NewClient(redisOpt),
	}
}

// Submit enqueues a file processing task. The job ID doubles as the task
// ID so a job can only be enqueued once.
func (c *Client) Submit(ctx context.Context, task Task) error {
	task.stamp(ctx)

	t, opts, err := newProcessFileTask(task)
	if err != nil {
		return err
	}

	if _, err := c.client.EnqueueContext(ctx, t, opts...); err != nil {
		return fmt.Errorf("failed to enqueue process file task: %w", err)
	}
	return nil
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}

func newProcessFileTask(task Task) (*asynq.Task, []asynq.Option, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	opts := []asynq.Option{
		asynq.TaskID(task.JobID),
		asynq.MaxRetry(3),
		asynq.Timeout(5 * time.Minute),
		asynq.Queue(QueueExtraction),
		asynq.Retention(24 * time.Hour),
	}
	return asynq.NewTask(TypeProcessFile, payload), opts, nil
}
