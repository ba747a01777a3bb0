// Package metrics exposes Prometheus instruments for the detection service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	inferenceLatency *prometheus.HistogramVec
	detections       *prometheus.CounterVec
	uploads          *prometheus.CounterVec
	robotDispatches  *prometheus.CounterVec
}

// NewManager registers every instrument on its own registry so the Go runtime
// collectors of the default registry are not mixed in.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ecovision",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"route", "method"},
	)

	m.inferenceLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "inference_duration_seconds",
			Help:      "Time spent in the inference engine per image",
			Buckets:   m.histogramBuckets,
		},
		[]string{"engine"},
	)

	m.detections = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "detections_total",
			Help:      "Detected trash objects by label",
		},
		[]string{"label"},
	)

	m.uploads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "uploads_total",
			Help:      "Image uploads by outcome",
		},
		[]string{"outcome"},
	)

	m.robotDispatches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "robot_dispatches_total",
			Help:      "Robot requests by dispatch status",
		},
		[]string{"status"},
	)
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Manager) ObserveInference(engine string, elapsed time.Duration) {
	if !m.enabled {
		return
	}
	m.inferenceLatency.WithLabelValues(engine).Observe(elapsed.Seconds())
}

func (m *Manager) AddDetections(labels []string) {
	if !m.enabled {
		return
	}
	for _, label := range labels {
		m.detections.WithLabelValues(label).Inc()
	}
}

func (m *Manager) RecordUpload(outcome string) {
	if !m.enabled {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
}

func (m *Manager) RecordDispatch(status string) {
	if !m.enabled {
		return
	}
	m.robotDispatches.WithLabelValues(status).Inc()
}
