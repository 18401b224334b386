// Package processor runs uploaded files through extraction, analysis and
// suggestion generation, recording progress on the job.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zombar/contentanalyzer/internal/analyzer"
	"github.com/zombar/contentanalyzer/internal/extract"
	"github.com/zombar/contentanalyzer/internal/jobs"
	"github.com/zombar/contentanalyzer/internal/metrics"
	"github.com/zombar/contentanalyzer/internal/models"
	"github.com/zombar/contentanalyzer/internal/queue"
	"github.com/zombar/contentanalyzer/internal/suggest"
)

// Extractor pulls text out of a staged file
type Extractor interface {
	Extract(ctx context.Context, path string, fileType models.FileType, opts extract.Options) (*extract.Result, error)
}

// Processor executes processing tasks
type Processor struct {
	store     jobs.Store
	extractor Extractor
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a processor. m must not be nil.
func New(store jobs.Store, extractor Extractor, m *metrics.Metrics, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		store:     store,
		extractor: extractor,
		metrics:   m,
		logger:    logger.With("component", "processor"),
		now:       time.Now,
	}
}

// AnalyzeText analyzes text and derives suggestions from the analysis
func (p *Processor) AnalyzeText(ctx context.Context, source, text string) (models.ContentAnalysis, models.ContentSuggestions) {
	_, span := otel.Tracer("contentanalyzer/processor").Start(ctx, "content.analyze")
	defer span.End()

	start := time.Now()
	analysis := analyzer.Analyze(text)
	suggestions := suggest.Generate(analysis)
	p.metrics.ObserveAnalysis(ctx, source, time.Since(start))

	span.SetAttributes(
		attribute.String("analysis.source", source),
		attribute.Int("text.length", len(text)),
		attribute.Int("text.word_count", analysis.Metrics.WordCount),
		attribute.Int("suggestions.overall_score", suggestions.Overall.Score),
	)
	return analysis, suggestions
}

// Process moves a job from pending through processing to completed or
// failed. Extraction failures are recorded on the job and are not returned;
// only store errors are returned, so a queue may retry them.
func (p *Processor) Process(ctx context.Context, task queue.Task) error {
	ctx, span := otel.Tracer("contentanalyzer/processor").Start(ctx, "processor.process_job")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", task.JobID),
		attribute.String("file.type", string(task.FileType)),
	)

	logger := p.logger.With("job_id", task.JobID, "file_type", task.FileType)

	job, err := p.store.Get(ctx, task.JobID)
	if errors.Is(err, jobs.ErrNotFound) {
		logger.Warn("job no longer exists, skipping")
		return nil
	}
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to load job: %w", err)
	}
	if job.Status.Terminal() {
		logger.Info("job already finished, skipping", "status", job.Status)
		return nil
	}

	job.Status = models.JobProcessing
	job.UpdatedAt = p.now().UTC()
	if err := p.store.Save(ctx, job); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to mark job processing: %w", err)
	}
	logger.Info("processing job")

	start := time.Now()
	result, err := p.extractor.Extract(ctx, task.FilePath, task.FileType, extract.Options{Language: task.Language})
	if err != nil {
		p.metrics.ObserveExtraction(ctx, string(task.FileType), "error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		logger.Error("extraction failed", "error", err)
		return p.finish(ctx, job, models.JobFailed, nil, err.Error())
	}
	p.metrics.ObserveExtraction(ctx, string(task.FileType), "success", time.Since(start))

	analysis, suggestions := p.AnalyzeText(ctx, metrics.SourceJob, result.Text)
	jobResult := &models.JobResult{
		Text:        result.Text,
		Metadata:    result.Metadata,
		Analysis:    &analysis,
		Suggestions: &suggestions,
	}

	logger.Info("job completed",
		"text_length", len(result.Text),
		"word_count", analysis.Metrics.WordCount,
		"overall_score", suggestions.Overall.Score,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return p.finish(ctx, job, models.JobCompleted, jobResult, "")
}

func (p *Processor) finish(ctx context.Context, job *models.Job, status models.JobStatus, result *models.JobResult, message string) error {
	job.Status = status
	job.Result = result
	job.Error = message
	job.UpdatedAt = p.now().UTC()

	if err := p.store.Save(ctx, job); err != nil {
		return fmt.Errorf("failed to mark job %s: %w", status, err)
	}
	p.metrics.JobsTotal.WithLabelValues(string(status)).Inc()
	return nil
}
