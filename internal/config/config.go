// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"contentanalyzer"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	UploadDir   string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	MaxFileSize int64  `env:"MAX_FILE_SIZE" envDefault:"10485760"`

	DBDriver string `env:"DB_DRIVER" envDefault:"memory"`
	DBDSN    string `env:"DB_DSN" envDefault:"contentanalyzer.db"`

	RedisAddr         string `env:"REDIS_ADDR"`
	WorkerConcurrency int    `env:"WORKER_CONCURRENCY" envDefault:"4"`
	QueueSize         int    `env:"QUEUE_SIZE" envDefault:"100"`
	// RunWorker processes Redis tasks in this process. With it off, the
	// workers live elsewhere and must share a SQL job store.
	RunWorker         bool   `env:"RUN_WORKER" envDefault:"true"`

	OllamaURL   string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OCRModel    string `env:"OCR_MODEL" envDefault:"llama3.2-vision"`
	OCRLanguage string `env:"OCR_LANGUAGE" envDefault:"eng"`
	OCREnabled  bool   `env:"OCR_ENABLED" envDefault:"true"`

	JobRetention    time.Duration `env:"JOB_RETENTION" envDefault:"24h"`
	JanitorSchedule string        `env:"JANITOR_SCHEDULE" envDefault:"@every 15m"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"2"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"5"`
	TrustProxy     bool    `env:"TRUST_PROXY" envDefault:"false"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}
	return cfg, nil
}

// Validate reports settings that cannot work together
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case "memory", "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be memory, sqlite or postgres, got %q", c.DBDriver))
	}
	if c.DBDriver != "memory" && c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required for sql drivers"))
	}
	if c.RedisAddr != "" && !c.RunWorker && c.DBDriver == "memory" {
		errs = append(errs, errors.New("RUN_WORKER=false needs a shared job store: set DB_DRIVER to sqlite or postgres"))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, errors.New("MAX_FILE_SIZE must be positive"))
	}
	if c.WorkerConcurrency <= 0 {
		errs = append(errs, errors.New("WORKER_CONCURRENCY must be positive"))
	}
	if c.QueueSize <= 0 {
		errs = append(errs, errors.New("QUEUE_SIZE must be positive"))
	}
	if c.JobRetention <= 0 {
		errs = append(errs, errors.New("JOB_RETENTION must be positive"))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limits cannot be negative"))
	}

	return errors.Join(errs...)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
