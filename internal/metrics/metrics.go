package metrics

import (
	"errors"
	"time"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// StatusSuccess status label of calls returning no error
const StatusSuccess = "success"

// Metrics codec call counters and latencies
type Metrics struct {
	Logger *zap.Logger

	latency *prometheus.HistogramVec
	calls   *prometheus.CounterVec
	bytes   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Metrics{
		Logger: logger,
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bmpcodec_operation_duration_seconds",
				Help:    "A histogram of latencies for codec operations",
				Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation", "status"},
		),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bmpcodec_operations_total",
				Help: "Total number of codec operations",
			},
			[]string{"operation", "status"},
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bmpcodec_bytes_total",
				Help: "Total number of bytes moved through sources and sinks",
			},
			[]string{"direction"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.latency, m.calls, m.bytes)
	}
	return m
}

// Status label for err: success, the bmp error kind, or error
func Status(err error) string {
	if err == nil {
		return StatusSuccess
	}
	var e bmp.Error
	if errors.As(err, &e) {
		return e.Kind.String()
	}
	return "error"
}

// Timer measures one operation
type Timer struct {
	metrics   *Metrics
	operation string
	start     time.Time
}

// NewTimer starts timing operation
func (m *Metrics) NewTimer(operation string) *Timer {
	return &Timer{
		metrics:   m,
		operation: operation,
		start:     time.Now(),
	}
}

// ObserveDuration records latency and count under the status of err
func (t *Timer) ObserveDuration(err error) {
	status := Status(err)
	duration := time.Since(t.start)
	t.metrics.latency.WithLabelValues(t.operation, status).Observe(duration.Seconds())
	t.metrics.calls.WithLabelValues(t.operation, status).Inc()
	if ce := t.metrics.Logger.Check(zap.DebugLevel, "operation"); ce != nil {
		ce.Write(
			zap.String("operation", t.operation),
			zap.String("status", status),
			zap.Duration("duration", duration),
		)
	}
}

// AddBytes counts n bytes read ("in") or written ("out")
func (m *Metrics) AddBytes(direction string, n int) {
	if n > 0 {
		m.bytes.WithLabelValues(direction).Add(float64(n))
	}
}
