// Package metrics provides Prometheus metrics for the OneShot profile service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Manager owns every collector of the service. A nil *Manager is valid and
// records nothing, which keeps unit tests free of registry plumbing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	profilesGenerated  *prometheus.CounterVec
	generationDuration prometheus.Histogram
	qrEncoded          *prometheus.CounterVec
	imageDerivatives   *prometheus.CounterVec
	imageProcessing    prometheus.Histogram
	uploads            *prometheus.CounterVec
	uploadRejections   *prometheus.CounterVec
	vcardsServed       prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager with its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "oneshot",
		subsystem:        "api",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.profilesGenerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profiles_generated_total",
		Help:      "Profile generation attempts by outcome (ok, degraded, failed)",
	}, []string{"outcome"})

	m.generationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_generation_duration_milliseconds",
		Help:      "End to end profile generation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.qrEncoded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "qr_codes_encoded_total",
		Help:      "QR codes encoded by result",
	}, []string{"result"})

	m.imageDerivatives = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "image_derivatives_total",
		Help:      "Image derivatives written by kind (thumbnail, mobile, desktop)",
	}, []string{"kind"})

	m.imageProcessing = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "image_processing_duration_milliseconds",
		Help:      "Time spent deriving all renditions of one uploaded image",
		Buckets:   m.histogramBuckets,
	})

	m.uploads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "uploads_total",
		Help:      "Accepted uploads by form field",
	}, []string{"field"})

	m.uploadRejections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upload_rejections_total",
		Help:      "Rejected uploads by form field",
	}, []string{"field"})

	m.vcardsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vcards_served_total",
		Help:      "Contact cards built for download or preview",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) RecordGeneration(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.profilesGenerated.WithLabelValues(outcome).Inc()
	m.generationDuration.Observe(float64(took.Milliseconds()))
}

func (m *Manager) RecordQREncode(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.qrEncoded.WithLabelValues(result).Inc()
}

func (m *Manager) RecordDerivative(kind string) {
	if m == nil {
		return
	}
	m.imageDerivatives.WithLabelValues(kind).Inc()
}

func (m *Manager) RecordImageProcessing(took time.Duration) {
	if m == nil {
		return
	}
	m.imageProcessing.Observe(float64(took.Milliseconds()))
}

func (m *Manager) RecordUpload(field string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(field).Inc()
}

func (m *Manager) RecordUploadRejection(field string) {
	if m == nil {
		return
	}
	m.uploadRejections.WithLabelValues(field).Inc()
}

func (m *Manager) RecordVCard() {
	if m == nil {
		return
	}
	m.vcardsServed.Inc()
}

func (m *Manager) RecordHTTPRequest(endpoint, method string, status int, took time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(float64(took.Milliseconds()))
}
