// Package metrics defines the service's Prometheus collectors.
package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/trace"
)

// Analysis sources
const (
	SourceText = "text"
	SourceJob  = "job"
)

// Upload outcomes
const (
	UploadAccepted  = "accepted"
	UploadRejected  = "rejected"
	UploadQueueFull = "queue_full"
	UploadError     = "error"
)

// Metrics holds the business and database collectors
type Metrics struct {
	AnalysesTotal      *prometheus.CounterVec
	AnalysisDuration   *prometheus.HistogramVec
	JobsTotal          *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	UploadsTotal       *prometheus.CounterVec

	dbOpenConnections prometheus.Gauge
	dbInUse           prometheus.Gauge
	dbIdle            prometheus.Gauge
	dbWaitCount       prometheus.Gauge

	factory   promauto.Factory
	namespace string
}

// New registers all collectors on reg under namespace
func New(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Content analyses performed, by source",
		}, []string{"source"}),
		AnalysisDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analyzing text and generating suggestions",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"source"}),
		JobsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Processing jobs reaching a status",
		}, []string{"status"}),
		ExtractionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time spent extracting text from uploaded files",
			Buckets:   []float64{.05, .1, .5, 1, 2.5, 5, 10, 30, 60, 180},
		}, []string{"file_type", "outcome"}),
		UploadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "File uploads received, by outcome",
		}, []string{"outcome"}),

		dbOpenConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "open_connections",
			Help:      "Established database connections",
		}),
		dbInUse: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "in_use_connections",
			Help:      "Database connections currently in use",
		}),
		dbIdle: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "idle_connections",
			Help:      "Idle database connections",
		}),
		dbWaitCount: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "wait_count",
			Help:      "Total number of connections waited for",
		}),

		factory:   f,
		namespace: namespace,
	}
}

// RegisterQueueDepth exposes the number of tasks waiting for a worker
func (m *Metrics) RegisterQueueDepth(depth func() int) {
	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "queue_depth",
		Help:      "Tasks waiting in the local processing queue",
	}, func() float64 { return float64(depth()) })
}

// UpdateDBStats copies connection pool statistics into the db gauges
func (m *Metrics) UpdateDBStats(stats sql.DBStats) {
	m.dbOpenConnections.Set(float64(stats.OpenConnections))
	m.dbInUse.Set(float64(stats.InUse))
	m.dbIdle.Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}

// CollectDBStats updates the db gauges every interval until ctx is done
func (m *Metrics) CollectDBStats(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.UpdateDBStats(db.Stats())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.UpdateDBStats(db.Stats())
		}
	}
}

// ObserveAnalysis records one analysis from source
func (m *Metrics) ObserveAnalysis(ctx context.Context, source string, d time.Duration) {
	m.AnalysesTotal.WithLabelValues(source).Inc()
	ObserveWithExemplar(ctx, m.AnalysisDuration.WithLabelValues(source), d.Seconds())
}

// ObserveExtraction records one extraction attempt
func (m *Metrics) ObserveExtraction(ctx context.Context, fileType, outcome string, d time.Duration) {
	ObserveWithExemplar(ctx, m.ExtractionDuration.WithLabelValues(fileType, outcome), d.Seconds())
}

// ObserveWithExemplar records v, attaching the trace ID from ctx as an
// exemplar when the context carries a sampled span
func ObserveWithExemplar(ctx context.Context, obs prometheus.Observer, v float64) {
	sc := trace.SpanContextFromContext(ctx)
	if eo, ok := obs.(prometheus.ExemplarObserver); ok && sc.IsSampled() {
		eo.ObserveWithExemplar(v, prometheus.Labels{"trace_id": sc.TraceID().String()})
		return
	}
	obs.Observe(v)
}
