package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zombar/contentanalyzer/internal/jobs"
	"github.com/zombar/contentanalyzer/internal/models"
)

const jobColumns = "id, file_id, file_path, status, type, result, error, created_at, updated_at"

// JobStore persists jobs in SQL. Results are stored as JSON.
type JobStore struct {
	db *DB
}

var _ jobs.Store = (*JobStore)(nil)

// NewJobStore creates a job store on a migrated database
func NewJobStore(db *DB) *JobStore {
	return &JobStore{db: db}
}

// Save inserts the job or replaces the stored row with the same ID
func (s *JobStore) Save(ctx context.Context, job *models.Job) error {
	if job == nil || job.ID == "" {
		return errors.New("job id is required")
	}

	var result sql.NullString
	if job.Result != nil {
		data, err := json.Marshal(job.Result)
		if err != nil {
			return fmt.Errorf("failed to marshal job result: %w", err)
		}
		result = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.conn.ExecContext(ctx, s.db.rebind(`
		INSERT INTO jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			file_id = excluded.file_id,
			file_path = excluded.file_path,
			status = excluded.status,
			type = excluded.type,
			result = excluded.result,
			error = excluded.error,
			updated_at = excluded.updated_at
	`), job.ID, job.FileID, job.FilePath, string(job.Status), string(job.Type), result, job.Error,
		job.CreatedAt.UTC(), job.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// Get retrieves a job by ID
func (s *JobStore) Get(ctx context.Context, id string) (*models.Job, error) {
	row := s.db.conn.QueryRowContext(ctx, s.db.rebind(`
		SELECT `+jobColumns+`
		FROM jobs
		WHERE id = ?
	`), id)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, jobs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// List retrieves all jobs, newest first
func (s *JobStore) List(ctx context.Context) ([]*models.Job, error) {
	return s.query(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		ORDER BY created_at DESC, id ASC
	`)
}

// ListByFile retrieves the jobs created for one uploaded file, newest first
func (s *JobStore) ListByFile(ctx context.Context, fileID string) ([]*models.Job, error) {
	return s.query(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE file_id = ?
		ORDER BY created_at DESC, id ASC
	`, fileID)
}

// Delete deletes a job by ID
func (s *JobStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.conn.ExecContext(ctx, s.db.rebind("DELETE FROM jobs WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return jobs.ErrNotFound
	}
	return nil
}

func (s *JobStore) query(ctx context.Context, query string, args ...any) ([]*models.Job, error) {
	rows, err := s.db.conn.QueryContext(ctx, s.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	list := []*models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		list = append(list, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return list, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*models.Job, error) {
	var (
		job       models.Job
		status    string
		jobType   string
		result    sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&job.ID, &job.FileID, &job.FilePath, &status, &jobType, &result, &job.Error, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	job.Status = models.JobStatus(status)
	job.Type = models.JobType(jobType)
	job.CreatedAt = createdAt.UTC()
	job.UpdatedAt = updatedAt.UTC()

	if result.Valid && result.String != "" {
		var r models.JobResult
		if err := json.Unmarshal([]byte(result.String), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal job result: %w", err)
		}
		job.Result = &r
	}
	return &job, nil
}
