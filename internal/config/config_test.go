package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, int64(10485760), cfg.MaxFileSize)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
	assert.Equal(t, 100, cfg.QueueSize)
	assert.Equal(t, "llama3.2-vision", cfg.OCRModel)
	assert.Equal(t, "eng", cfg.OCRLanguage)
	assert.True(t, cfg.OCREnabled)
	assert.Equal(t, 24*time.Hour, cfg.JobRetention)
	assert.Equal(t, "@every 15m", cfg.JanitorSchedule)
	assert.Equal(t, 2.0, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Empty(t, cfg.RedisAddr)
	assert.True(t, cfg.RunWorker)
	assert.False(t, cfg.TrustProxy)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "/var/lib/contentanalyzer/jobs.db")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("OCR_ENABLED", "false")
	t.Setenv("JOB_RETENTION", "90m")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/var/lib/contentanalyzer/jobs.db", cfg.DBDSN)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.False(t, cfg.OCREnabled)
	assert.Equal(t, 90*time.Minute, cfg.JobRetention)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WORKER_CONCURRENCY", "many")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DBDriver:          "memory",
			MaxFileSize:       1,
			WorkerConcurrency: 1,
			QueueSize:         1,
			JobRetention:      time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, "DB_DRIVER"},
		{"sql without dsn", func(c *Config) { c.DBDriver = "postgres" }, "DB_DSN"},
		{"zero file size", func(c *Config) { c.MaxFileSize = 0 }, "MAX_FILE_SIZE"},
		{"zero workers", func(c *Config) { c.WorkerConcurrency = 0 }, "WORKER_CONCURRENCY"},
		{"zero queue", func(c *Config) { c.QueueSize = 0 }, "QUEUE_SIZE"},
		{"zero retention", func(c *Config) { c.JobRetention = 0 }, "JOB_RETENTION"},
		{"negative rate", func(c *Config) { c.RateLimitRPS = -1 }, "rate limits"},
		{"redis api without worker on memory store", func(c *Config) { c.RedisAddr = "redis:6379" }, "RUN_WORKER"},
		{"redis api without worker on sql store", func(c *Config) {
			c.RedisAddr = "redis:6379"
			c.DBDriver = "postgres"
			c.DBDSN = "host=db"
		}, ""},
		{"redis with worker on memory store", func(c *Config) {
			c.RedisAddr = "redis:6379"
			c.RunWorker = true
		}, ""},
		{"local queue ignores worker switch", func(c *Config) { c.RunWorker = false }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), "LOG_LEVEL=%q", in)
	}
}
