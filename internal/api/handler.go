package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/zombar/contentanalyzer/internal/extract"
	"github.com/zombar/contentanalyzer/internal/jobs"
	"github.com/zombar/contentanalyzer/internal/metrics"
	"github.com/zombar/contentanalyzer/internal/models"
	"github.com/zombar/contentanalyzer/internal/queue"
	"github.com/zombar/contentanalyzer/internal/tracing"
	"github.com/zombar/contentanalyzer/pkg/logging"
)

// Analyzer produces the analysis and suggestions for a piece of text
type Analyzer interface {
	AnalyzeText(ctx context.Context, source, text string) (models.ContentAnalysis, models.ContentSuggestions)
}

// Extractor pulls text out of a staged file
type Extractor interface {
	Extract(ctx context.Context, path string, fileType models.FileType, opts extract.Options) (*extract.Result, error)
}

// Stager validates and stores uploaded files
type Stager interface {
	Stage(originalName string, r io.Reader) (*models.UploadedFile, error)
	Remove(path string) error
	MaxSize() int64
}

// Config wires the handler's collaborators
type Config struct {
	Store     jobs.Store
	Queue     queue.Submitter
	Stager    Stager
	Extractor Extractor
	Analyzer  Analyzer
	Metrics   *metrics.Metrics
	// Gatherer serves /metrics; the default registry when nil
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger

	// DefaultLanguage is used for OCR when an upload names none
	DefaultLanguage string
	// RateLimit and RateBurst bound uploads and extractions per client IP.
	// A zero RateLimit disables limiting.
	RateLimit rate.Limit
	RateBurst int
	// TrustProxy takes the client IP from X-Forwarded-For or X-Real-IP.
	// Only enable it behind a reverse proxy that sets those headers.
	TrustProxy bool
}

// Handler handles HTTP requests
type Handler struct {
	store     jobs.Store
	queue     queue.Submitter
	stager    Stager
	extractor Extractor
	analyzer  Analyzer
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	language  string
	limiter   *ipLimiter
	proxied   bool
	mux       *http.ServeMux
}

// NewHandler creates a new API handler with CORS support and metrics
func NewHandler(cfg Config) http.Handler {
	return newHandler(cfg).withCORS()
}

func newHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "eng"
	}

	h := &Handler{
		store:     cfg.Store,
		queue:     cfg.Queue,
		stager:    cfg.Stager,
		extractor: cfg.Extractor,
		analyzer:  cfg.Analyzer,
		metrics:   cfg.Metrics,
		gatherer:  cfg.Gatherer,
		logger:    cfg.Logger.With("component", "api"),
		language:  cfg.DefaultLanguage,
		limiter:   newIPLimiter(cfg.RateLimit, cfg.RateBurst),
		proxied:   cfg.TrustProxy,
		mux:       http.NewServeMux(),
	}
	h.setupRoutes()
	return h
}

func (h *Handler) withCORS() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(h.mux)
}

// setupRoutes configures all API routes
func (h *Handler) setupRoutes() {
	h.mux.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	h.mux.HandleFunc("/health", h.handleHealth)
	h.mux.HandleFunc("/api/health", h.handleHealth)
	h.mux.HandleFunc("/api/analyze", h.handleAnalyze)
	h.mux.HandleFunc("/api/upload", h.handleUpload)
	h.mux.HandleFunc("/api/extract", h.handleExtract)
	h.mux.HandleFunc("/api/jobs", h.handleListJobs)
	h.mux.HandleFunc("/api/jobs/", h.handleJobOperations)
	h.mux.HandleFunc("/api/files/", h.handleFileJobs)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status":  "ok",
		"message": "Content analyzer API is running",
		"time":    time.Now().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleAnalyze analyzes free text synchronously
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == nil {
		respondError(w, "Text field is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(*req.Text) == "" {
		respondError(w, "Text must not be empty", http.StatusBadRequest)
		return
	}

	tracing.SetSpanAttributes(r.Context(), attribute.Int("text.length", len(*req.Text)))

	analysis, suggestions := h.analyzer.AnalyzeText(r.Context(), metrics.SourceText, *req.Text)
	respondJSON(w, map[string]interface{}{
		"analysis":    analysis,
		"suggestions": suggestions,
	}, http.StatusOK)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// serverError logs err with request context and sends a generic 500
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	logging.HTTPErrorLogger(h.logger, http.StatusInternalServerError, err, r)
	respondError(w, message, http.StatusInternalServerError)
}
