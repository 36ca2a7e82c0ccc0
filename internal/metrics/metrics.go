package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa os contadores Prometheus do pipeline de reconhecimento.
type Metrics struct {
	registry *prometheus.Registry

	TicksTotal        *prometheus.CounterVec
	FacesDetected     prometheus.Counter
	MatchesTotal      *prometheus.CounterVec
	MarksTotal        *prometheus.CounterVec
	CacheRefreshes    *prometheus.CounterVec
	StorageFailures   prometheus.Counter
	TickDuration      prometheus.Histogram
	KnownFaces        prometheus.Gauge
	SessionsActive    prometheus.Gauge
	WebhookDeliveries *prometheus.CounterVec
	EncoderRequests   *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TicksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "presenca",
			Name:      "recognition_ticks_total",
			Help:      "Recognition cycles executed, by result.",
		}, []string{"result"}),
		FacesDetected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "presenca",
			Name:      "faces_detected_total",
			Help:      "Faces found across all processed frames.",
		}),
		MatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "presenca",
			Name:      "matches_total",
			Help:      "Match attempts, by outcome (matched/unknown).",
		}, []string{"outcome"}),
		MarksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "presenca",
			Name:      "attendance_marks_total",
			Help:      "Attendance mark attempts, by outcome.",
		}, []string{"outcome"}),
		CacheRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "presenca",
			Name:      "face_cache_refreshes_total",
			Help:      "Known-face cache refreshes, by result (ok/error).",
		}, []string{"result"}),
		StorageFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "presenca",
			Name:      "storage_failures_total",
			Help:      "Database operations that failed during recognition.",
		}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "presenca",
			Name:      "tick_duration_seconds",
			Help:      "Wall time of a full recognition cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
		KnownFaces: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "presenca",
			Name:      "known_faces",
			Help:      "Students with embeddings in the current cache snapshot.",
		}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "presenca",
			Name:      "sessions_active",
			Help:      "Recognition sessions currently running.",
		}),
		WebhookDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "presenca",
			Name:      "webhook_deliveries_total",
			Help:      "Webhook delivery attempts, by result (ok/error).",
		}, []string{"result"}),
		EncoderRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "presenca",
			Name:      "encoder_requests_total",
			Help:      "Calls to the face encoder, by result (ok/error).",
		}, []string{"result"}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
