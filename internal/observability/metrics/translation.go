package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/doc-translator/internal/core/domain"
)

// TranslationMetrics records document pipeline and remote call measurements.
type TranslationMetrics struct {
	service string

	documentTotal    *prometheus.CounterVec
	documentDuration *prometheus.HistogramVec
	documentInFlight prometheus.Gauge
	chunksPerText    *prometheus.HistogramVec
	remoteTotal      *prometheus.CounterVec
	remoteDuration   *prometheus.HistogramVec
}

func NewTranslationMetrics(service string, registerer prometheus.Registerer) *TranslationMetrics {
	documentTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "documents_total",
			Help:      "Total translated documents by direction and status.",
		},
		[]string{"service", "direction", "status"},
	)
	documentDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "document_duration_seconds",
			Help:      "Document translation duration in seconds by status.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service", "status"},
	)
	documentInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "documents_in_flight",
			Help:      "Number of documents currently being translated.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	chunksPerText := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "chunks",
			Help:      "Distribution of chunks per translated text.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)
	remoteTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "calls_total",
			Help:      "Total calls to the translation API by operation and status.",
		},
		[]string{"service", "operation", "status"},
	)
	remoteDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "call_duration_seconds",
			Help:      "Translation API call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	if registerer != nil {
		registerer.MustRegister(documentTotal, documentDuration, documentInFlight, chunksPerText, remoteTotal, remoteDuration)
	}

	return &TranslationMetrics{
		service:          service,
		documentTotal:    documentTotal,
		documentDuration: documentDuration,
		documentInFlight: documentInFlight,
		chunksPerText:    chunksPerText,
		remoteTotal:      remoteTotal,
		remoteDuration:   remoteDuration,
	}
}

func (m *TranslationMetrics) StartDocument() {
	m.documentInFlight.Inc()
}

func (m *TranslationMetrics) FinishDocument(direction domain.Direction, duration time.Duration, err error) {
	m.documentInFlight.Dec()

	label := direction.String()
	if label == "" {
		label = "unknown"
	}
	status := statusOf(err)
	m.documentTotal.WithLabelValues(m.service, label, status).Inc()
	m.documentDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

func (m *TranslationMetrics) ObserveChunks(count int) {
	if count <= 0 {
		return
	}
	m.chunksPerText.WithLabelValues(m.service).Observe(float64(count))
}

func (m *TranslationMetrics) ObserveRemoteCall(operation string, duration time.Duration, err error) {
	if operation == "" {
		operation = "unknown"
	}
	m.remoteTotal.WithLabelValues(m.service, operation, statusOf(err)).Inc()
	m.remoteDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
