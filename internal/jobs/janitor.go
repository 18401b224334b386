package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// FileRemover deletes a staged upload
type FileRemover interface {
	Remove(path string) error
}

// Janitor periodically purges finished jobs and their staged files
type Janitor struct {
	store     Store
	files     FileRemover
	retention time.Duration
	schedule  string
	logger    *slog.Logger
	now       func() time.Time
}

// NewJanitor creates a janitor that removes completed and failed jobs last
// updated more than retention ago. schedule uses cron syntax, including
// descriptors such as "@every 15m".
func NewJanitor(store Store, files FileRemover, retention time.Duration, schedule string, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		store:     store,
		files:     files,
		retention: retention,
		schedule:  schedule,
		logger:    logger.With("component", "janitor"),
		now:       time.Now,
	}
}

// Run schedules Sweep and blocks until ctx is cancelled. It waits for a
// running sweep to finish before returning.
func (j *Janitor) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(j.schedule, func() {
		if _, err := j.Sweep(ctx); err != nil {
			j.logger.Error("sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", j.schedule, err)
	}

	j.logger.Info("janitor started", "schedule", j.schedule, "retention", j.retention.String())
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	j.logger.Info("janitor stopped")
	return nil
}

// Sweep deletes expired terminal jobs and returns how many were removed.
// Jobs still pending or processing are never touched.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	list, err := j.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	cutoff := j.now().Add(-j.retention)
	removed := 0
	for _, job := range list {
		if !job.Status.Terminal() || job.UpdatedAt.After(cutoff) {
			continue
		}

		if j.files != nil && job.FilePath != "" {
			if err := j.files.Remove(job.FilePath); err != nil {
				j.logger.Warn("failed to remove file", "job_id", job.ID, "error", err)
			}
		}
		if err := j.store.Delete(ctx, job.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return removed, fmt.Errorf("failed to delete job %s: %w", job.ID, err)
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("purged expired jobs", "count", removed)
	}
	return removed, nil
}
