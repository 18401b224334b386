package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/zombar/contentanalyzer/internal/api"
	"github.com/zombar/contentanalyzer/internal/config"
	"github.com/zombar/contentanalyzer/internal/database"
	"github.com/zombar/contentanalyzer/internal/extract"
	"github.com/zombar/contentanalyzer/internal/jobs"
	"github.com/zombar/contentanalyzer/internal/metrics"
	"github.com/zombar/contentanalyzer/internal/ollama"
	"github.com/zombar/contentanalyzer/internal/processor"
	"github.com/zombar/contentanalyzer/internal/queue"
	"github.com/zombar/contentanalyzer/internal/tracing"
	"github.com/zombar/contentanalyzer/internal/upload"
	"github.com/zombar/contentanalyzer/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var (
		port       = flag.String("port", cfg.Port, "Server port (env: PORT)")
		uploadDir  = flag.String("upload-dir", cfg.UploadDir, "Directory for staged uploads (env: UPLOAD_DIR)")
		dbDriver   = flag.String("db-driver", cfg.DBDriver, "Job store: memory, sqlite or postgres (env: DB_DRIVER)")
		dbDSN      = flag.String("db", cfg.DBDSN, "Database file path or DSN (env: DB_DSN)")
		redisAddr  = flag.String("redis", cfg.RedisAddr, "Redis address; empty uses the in-process queue (env: REDIS_ADDR)")
		ollamaURL  = flag.String("ollama-url", cfg.OllamaURL, "Ollama API URL (env: OLLAMA_URL)")
		ocrModel   = flag.String("ocr-model", cfg.OCRModel, "Ollama vision model used for OCR (env: OCR_MODEL)")
		ocrEnabled = flag.Bool("ocr", cfg.OCREnabled, "Enable OCR for image uploads (env: OCR_ENABLED)")
		logLevel   = flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error (env: LOG_LEVEL)")
		runWorker  = flag.Bool("worker", cfg.RunWorker, "Process queued jobs in this process when using Redis (env: RUN_WORKER)")
	)
	flag.Parse()

	cfg.Port = *port
	cfg.UploadDir = *uploadDir
	cfg.DBDriver = *dbDriver
	cfg.DBDSN = *dbDSN
	cfg.RedisAddr = *redisAddr
	cfg.OllamaURL = *ollamaURL
	cfg.OCRModel = *ocrModel
	cfg.OCREnabled = *ocrEnabled
	cfg.LogLevel = *logLevel
	cfg.RunWorker = *runWorker

	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("contentanalyzer stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("contentanalyzer stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("contentanalyzer service initializing", "service", cfg.ServiceName)

	tp, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
	}

	reg := newRegistry()
	m := metrics.New("contentanalyzer", reg)

	store, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	stager, err := upload.NewStager(cfg.UploadDir, cfg.MaxFileSize)
	if err != nil {
		return err
	}

	extractor := extract.NewService(extract.NewPDFExtractor(), newOCR(cfg, logger), cfg.OCRLanguage, logger)
	proc := processor.New(store, extractor, m, logger)

	g, gctx := errgroup.WithContext(ctx)

	var submitter queue.Submitter
	if cfg.RedisAddr != "" {
		client := queue.NewClient(queue.ClientConfig{RedisAddr: cfg.RedisAddr})
		defer client.Close()
		submitter = client

		if cfg.RunWorker {
			worker := queue.NewWorker(queue.WorkerConfig{
				RedisAddr:   cfg.RedisAddr,
				Concurrency: cfg.WorkerConcurrency,
			}, proc.Process, logger)
			g.Go(func() error { return worker.Run(gctx) })
		}
		logger.Info("using redis task queue", "redis_addr", cfg.RedisAddr, "worker", cfg.RunWorker)
	} else {
		local := queue.NewLocalQueue(cfg.QueueSize, cfg.WorkerConcurrency, proc.Process, logger)
		m.RegisterQueueDepth(local.Len)
		submitter = local
		g.Go(func() error { return local.Run(gctx) })
	}

	if db != nil {
		g.Go(func() error {
			m.CollectDBStats(gctx, db.Conn(), 15*time.Second)
			return nil
		})
	}

	janitor := jobs.NewJanitor(store, stager, cfg.JobRetention, cfg.JanitorSchedule, logger)
	g.Go(func() error { return janitor.Run(gctx) })

	apiHandler := api.NewHandler(api.Config{
		Store:           store,
		Queue:           submitter,
		Stager:          stager,
		Extractor:       extractor,
		Analyzer:        proc,
		Metrics:         m,
		Gatherer:        reg,
		Logger:          logger,
		DefaultLanguage: cfg.OCRLanguage,
		RateLimit:       rate.Limit(cfg.RateLimitRPS),
		RateBurst:       cfg.RateLimitBurst,
		TrustProxy:      cfg.TrustProxy,
	})

	// Wrap handler with middleware chain: HTTP logging -> tracing -> handlers
	handler := logging.HTTPLoggingMiddleware(logger)(
		tracing.HTTPMiddleware(cfg.ServiceName)(apiHandler),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 420 * time.Second, // synchronous OCR on /api/extract
		IdleTimeout:  120 * time.Second,
	}

	g.Go(func() error {
		logger.Info("contentanalyzer service starting",
			"port", cfg.Port,
			"db_driver", cfg.DBDriver,
			"upload_dir", cfg.UploadDir,
			"ocr_enabled", cfg.OCREnabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// newRegistry returns a registry with the Go runtime and process collectors
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// openStore returns the configured job store. db is nil for the memory store.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (jobs.Store, *database.DB, error) {
	if cfg.DBDriver == "memory" {
		logger.Info("using in-memory job store")
		return jobs.NewMemoryStore(), nil, nil
	}

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("using sql job store", "driver", cfg.DBDriver)
	return database.NewJobStore(db), db, nil
}

// newOCR returns the image extractor, or nil when OCR is disabled or the
// Ollama client cannot be created
func newOCR(cfg *config.Config, logger *slog.Logger) extract.Extractor {
	if !cfg.OCREnabled {
		logger.Info("OCR disabled, image uploads will fail extraction")
		return nil
	}

	client, err := ollama.New(cfg.OllamaURL, cfg.OCRModel)
	if err != nil {
		logger.Warn("failed to initialize Ollama client, disabling OCR",
			"error", err,
			"ollama_url", cfg.OllamaURL,
			"ocr_model", cfg.OCRModel,
		)
		return nil
	}
	logger.Info("Ollama client initialized", "model", cfg.OCRModel, "url", cfg.OllamaURL)
	return extract.NewOCRExtractor(client)
}
