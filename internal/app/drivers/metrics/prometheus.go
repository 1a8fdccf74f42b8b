package metrics

import (
	"time"

	"questionnaire-builder/internal/pkg/constvars"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SessionMetrics counts what happens to an editing session.
type SessionMetrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Version    prometheus.Gauge
	Items      prometheus.Gauge
	Findings   prometheus.Gauge
}

func NewSessionMetrics(registerer prometheus.Registerer) *SessionMetrics {
	factory := promauto.With(registerer)
	return &SessionMetrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: constvars.MetricsNamespace,
			Subsystem: constvars.MetricsSubsystem,
			Name:      "operations_total",
			Help:      "Session operations by name and outcome.",
		}, []string{constvars.LoggingOperationKey, "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: constvars.MetricsNamespace,
			Subsystem: constvars.MetricsSubsystem,
			Name:      "operation_duration_seconds",
			Help:      "Time spent in session operations.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{constvars.LoggingOperationKey}),
		Version: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: constvars.MetricsNamespace,
			Subsystem: constvars.MetricsSubsystem,
			Name:      "version",
			Help:      "Current version of the session state.",
		}),
		Items: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: constvars.MetricsNamespace,
			Subsystem: constvars.MetricsSubsystem,
			Name:      "items",
			Help:      "Items held by the session state.",
		}),
		Findings: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: constvars.MetricsNamespace,
			Subsystem: constvars.MetricsSubsystem,
			Name:      "findings",
			Help:      "Findings reported by the last validation.",
		}),
	}
}

func (m *SessionMetrics) Observe(operation string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := constvars.LoggingOutcomeOK
	if !success {
		outcome = constvars.LoggingOutcomeError
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.Duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *SessionMetrics) SetState(version uint64, items int) {
	if m == nil {
		return
	}
	m.Version.Set(float64(version))
	m.Items.Set(float64(items))
}

func (m *SessionMetrics) SetFindings(count int) {
	if m == nil {
		return
	}
	m.Findings.Set(float64(count))
}
