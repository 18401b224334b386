package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zombar/contentanalyzer/internal/extract"
	"github.com/zombar/contentanalyzer/internal/metrics"
	"github.com/zombar/contentanalyzer/internal/models"
	"github.com/zombar/contentanalyzer/internal/queue"
	"github.com/zombar/contentanalyzer/internal/tracing"
	"github.com/zombar/contentanalyzer/internal/upload"
	"github.com/zombar/contentanalyzer/pkg/logging"
)

// multipartOverhead is the slack allowed on top of the file size limit for
// multipart boundaries and other form fields
const multipartOverhead = 1 << 20

// handleUpload stages a file and queues it for extraction and analysis
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.limiter.allow(getClientIP(r, h.proxied)) {
		h.metrics.UploadsTotal.WithLabelValues(metrics.UploadRejected).Inc()
		respondError(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	file, ok := h.stageUpload(w, r)
	if !ok {
		return
	}
	language := h.languageFor(r)

	now := time.Now().UTC()
	job := &models.Job{
		ID:        uuid.NewString(),
		FileID:    file.ID,
		FilePath:  file.Path,
		Status:    models.JobPending,
		Type:      models.JobTypeFor(file.FileType),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.Save(r.Context(), job); err != nil {
		h.discard(file)
		h.metrics.UploadsTotal.WithLabelValues(metrics.UploadError).Inc()
		h.serverError(w, r, "Failed to create job", err)
		return
	}

	err := h.queue.Submit(r.Context(), queue.Task{
		JobID:    job.ID,
		FilePath: file.Path,
		FileType: file.FileType,
		Language: language,
	})
	if err != nil {
		h.store.Delete(r.Context(), job.ID)
		h.discard(file)
		if errors.Is(err, queue.ErrQueueFull) {
			h.metrics.UploadsTotal.WithLabelValues(metrics.UploadQueueFull).Inc()
			respondError(w, "Server is busy, please retry shortly", http.StatusServiceUnavailable)
			return
		}
		h.metrics.UploadsTotal.WithLabelValues(metrics.UploadError).Inc()
		h.serverError(w, r, "Failed to queue file for processing", err)
		return
	}

	h.metrics.UploadsTotal.WithLabelValues(metrics.UploadAccepted).Inc()
	tracing.SetSpanAttributes(r.Context(),
		attribute.String("job.id", job.ID),
		attribute.String("file.type", string(file.FileType)),
		attribute.Int64("file.size", file.Size),
	)
	logging.LogRequest(h.logger, r, "file uploaded",
		slog.String("file_id", file.ID),
		slog.String("job_id", job.ID),
		slog.String("file_type", string(file.FileType)),
		slog.Int64("size", file.Size),
	)

	respondJSON(w, map[string]interface{}{
		"file":    file,
		"job_id":  job.ID,
		"status":  job.Status,
		"message": "File uploaded successfully and processing started",
	}, http.StatusAccepted)
}

// handleExtract extracts the text of an uploaded file synchronously. The
// file is not kept.
func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.limiter.allow(getClientIP(r, h.proxied)) {
		respondError(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	file, ok := h.stageUpload(w, r)
	if !ok {
		return
	}
	defer h.discard(file)

	start := time.Now()
	result, err := h.extractor.Extract(r.Context(), file.Path, file.FileType, extract.Options{Language: h.languageFor(r)})
	if err != nil {
		h.metrics.ObserveExtraction(r.Context(), string(file.FileType), "error", time.Since(start))

		var extractErr *extract.Error
		switch {
		case errors.As(err, &extractErr):
			logging.HTTPErrorLogger(h.logger, http.StatusUnprocessableEntity, err, r)
			respondError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, extract.ErrUnsupportedType):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			h.serverError(w, r, "Failed to extract text", err)
		}
		return
	}
	h.metrics.ObserveExtraction(r.Context(), string(file.FileType), "success", time.Since(start))

	respondJSON(w, map[string]interface{}{
		"file_type": file.FileType,
		"text":      result.Text,
		"metadata":  result.Metadata,
	}, http.StatusOK)
}

// stageUpload reads the multipart "file" field and stages it. On failure
// the error response has been written and ok is false.
func (h *Handler) stageUpload(w http.ResponseWriter, r *http.Request) (*models.UploadedFile, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.stager.MaxSize()+multipartOverhead)

	src, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.metrics.UploadsTotal.WithLabelValues(metrics.UploadRejected).Inc()
			respondError(w, "File too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		h.metrics.UploadsTotal.WithLabelValues(metrics.UploadRejected).Inc()
		respondError(w, "No file uploaded", http.StatusBadRequest)
		return nil, false
	}
	defer src.Close()

	file, err := h.stager.Stage(header.Filename, src)
	switch {
	case err == nil:
		return file, true
	case errors.Is(err, upload.ErrFileTooLarge):
		h.metrics.UploadsTotal.WithLabelValues(metrics.UploadRejected).Inc()
		respondError(w, err.Error(), http.StatusRequestEntityTooLarge)
	case upload.IsValidationError(err):
		h.metrics.UploadsTotal.WithLabelValues(metrics.UploadRejected).Inc()
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		h.metrics.UploadsTotal.WithLabelValues(metrics.UploadError).Inc()
		h.serverError(w, r, "Failed to store upload", err)
	}
	return nil, false
}

func (h *Handler) languageFor(r *http.Request) string {
	if lang := r.FormValue("language"); lang != "" {
		return lang
	}
	return h.language
}

func (h *Handler) discard(file *models.UploadedFile) {
	if err := h.stager.Remove(file.Path); err != nil {
		h.logger.Warn("failed to remove staged file", "file_id", file.ID, "error", err)
	}
}
