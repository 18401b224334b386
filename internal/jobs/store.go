// Package jobs tracks the lifecycle of asynchronous processing jobs.
package jobs

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/zombar/contentanalyzer/internal/models"
)

// ErrNotFound is returned when a job ID is unknown
var ErrNotFound = errors.New("job not found")

// Store persists jobs. Implementations must be safe for concurrent use and
// must not let callers mutate stored state through returned values.
type Store interface {
	Get(ctx context.Context, id string) (*models.Job, error)
	Save(ctx context.Context, job *models.Job) error
	List(ctx context.Context) ([]*models.Job, error)
	ListByFile(ctx context.Context, fileID string) ([]*models.Job, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps jobs in a map. Jobs are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.Job
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*models.Job)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(job), nil
}

// Save inserts or replaces the job with the same ID
func (s *MemoryStore) Save(_ context.Context, job *models.Job) error {
	if job == nil || job.ID == "" {
		return errors.New("job id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = clone(job)
	return nil
}

// List returns all jobs, newest first
func (s *MemoryStore) List(_ context.Context) ([]*models.Job, error) {
	return s.collect(func(*models.Job) bool { return true }), nil
}

// ListByFile returns the jobs created for one uploaded file, newest first
func (s *MemoryStore) ListByFile(_ context.Context, fileID string) ([]*models.Job, error) {
	return s.collect(func(j *models.Job) bool { return j.FileID == fileID }), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

func (s *MemoryStore) collect(keep func(*models.Job) bool) []*models.Job {
	s.mu.RLock()
	out := make([]*models.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if keep(job) {
			out = append(out, clone(job))
		}
	}
	s.mu.RUnlock()

	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders jobs by creation time descending, ties broken by ID
func SortNewestFirst(list []*models.Job) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// clone copies the job and its result header. Analysis and suggestions are
// never modified after a job completes, so they are shared.
func clone(job *models.Job) *models.Job {
	c := *job
	if job.Result != nil {
		r := *job.Result
		c.Result = &r
	}
	return &c
}
