package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/contentanalyzer/internal/models"
)

type recordingRemover struct {
	removed []string
}

func (r *recordingRemover) Remove(path string) error {
	r.removed = append(r.removed, path)
	return nil
}

func TestJanitorSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour)
	recent := now.Add(-time.Hour)

	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, newJob("old-completed", "f1", models.JobCompleted, old)))
	require.NoError(t, store.Save(ctx, newJob("old-failed", "f2", models.JobFailed, old)))
	require.NoError(t, store.Save(ctx, newJob("old-processing", "f3", models.JobProcessing, old)))
	require.NoError(t, store.Save(ctx, newJob("old-pending", "f4", models.JobPending, old)))
	require.NoError(t, store.Save(ctx, newJob("recent-completed", "f5", models.JobCompleted, recent)))

	files := &recordingRemover{}
	janitor := NewJanitor(store, files, 24*time.Hour, "@every 1h", nil)
	janitor.now = func() time.Time { return now }

	removed, err := janitor.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.ElementsMatch(t, []string{"/uploads/f1.pdf", "/uploads/f2.pdf"}, files.removed)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old-processing", "old-pending", "recent-completed"}, ids(list))

	removed, err = janitor.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestJanitorRun(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		janitor := NewJanitor(NewMemoryStore(), nil, time.Hour, "not a schedule", nil)
		assert.Error(t, janitor.Run(context.Background()))
	})

	t.Run("stops with context", func(t *testing.T) {
		janitor := NewJanitor(NewMemoryStore(), nil, time.Hour, "@every 1h", nil)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- janitor.Run(ctx) }()
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("janitor did not stop")
		}
	})
}
