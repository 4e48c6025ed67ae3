package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ActiveSessions    prometheus.Gauge
	SessionEvents     *prometheus.CounterVec
	Turns             *prometheus.CounterVec
	ResponseSources   *prometheus.CounterVec
	IdentityFailures  *prometheus.CounterVec
	ConversationRuns  *prometheus.CounterVec
	WSMessages        *prometheus.CounterVec
	RespondLatency    prometheus.Histogram
	TranscriptFailure prometheus.Counter
}

// NewMetrics registers instruments on the default registry; use NewMetricsOn
// where an isolated registry is needed (tests).
func NewMetrics(namespace string) *Metrics {
	return NewMetricsOn(namespace, prometheus.DefaultRegisterer)
}

func NewMetricsOn(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of active chat sessions.",
		}),
		SessionEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session events by type.",
		}, []string{"event"}),
		Turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Completed turns by identity.",
		}, []string{"identity"}),
		ResponseSources: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_sources_total",
			Help:      "Responses by engine path (rule, memory, fallback, greeting).",
		}, []string{"source"}),
		IdentityFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_failures_total",
			Help:      "Identity invocation failures by identity.",
		}, []string{"identity"}),
		ConversationRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversation_runs_total",
			Help:      "Orchestrated conversation runs by stop reason.",
		}, []string{"reason"}),
		WSMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages by direction and type.",
		}, []string{"direction", "type"}),
		RespondLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "respond_latency_ms",
			Help:      "Identity respond latency in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		TranscriptFailure: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcript_save_failures_total",
			Help:      "Turns that could not be persisted to the transcript store.",
		}),
	}
}

func (m *Metrics) ObserveRespondLatency(d time.Duration) {
	m.RespondLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
