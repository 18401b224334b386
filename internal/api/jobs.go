package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/zombar/contentanalyzer/internal/jobs"
)

// handleListJobs lists all jobs, newest first
func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	list, err := h.store.List(r.Context())
	if err != nil {
		h.serverError(w, r, "Failed to list jobs", err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	}, http.StatusOK)
}

// handleJobOperations routes GET and DELETE on /api/jobs/{id}
func (h *Handler) handleJobOperations(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/jobs/"), "/")
	if id == "" {
		respondError(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getJob(w, r, id)
	case http.MethodDelete:
		h.deleteJob(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request, id string) {
	job, err := h.store.Get(r.Context(), id)
	if errors.Is(err, jobs.ErrNotFound) {
		respondError(w, "Job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, r, "Failed to get job", err)
		return
	}

	respondJSON(w, job, http.StatusOK)
}

// deleteJob removes the job and its staged file
func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request, id string) {
	job, err := h.store.Get(r.Context(), id)
	if errors.Is(err, jobs.ErrNotFound) {
		respondError(w, "Job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, r, "Failed to get job", err)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			respondError(w, "Job not found", http.StatusNotFound)
			return
		}
		h.serverError(w, r, "Failed to delete job", err)
		return
	}

	if job.FilePath != "" {
		if err := h.stager.Remove(job.FilePath); err != nil {
			h.logger.Warn("failed to remove staged file", "job_id", id, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFileJobs lists the jobs for one uploaded file: /api/files/{id}/jobs
func (h *Handler) handleFileJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/files/")
	fileID, suffix, found := strings.Cut(rest, "/")
	if !found || strings.Trim(suffix, "/") != "jobs" || fileID == "" {
		respondError(w, "Not found", http.StatusNotFound)
		return
	}

	list, err := h.store.ListByFile(r.Context(), fileID)
	if err != nil {
		h.serverError(w, r, "Failed to list jobs", err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	}, http.StatusOK)
}
