package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"team_rotator/internal/app"
)

// PrometheusCollector implements app.Metrics backed by Prometheus.
type PrometheusCollector struct {
	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	rotations     prometheus.Counter
	failures      prometheus.Counter
	announcements *prometheus.CounterVec
}

var _ app.Metrics = (*PrometheusCollector)(nil)

// NewPrometheus creates the collector and registers it with reg
// (prometheus.DefaultRegisterer if nil). Namespace defaults to "rotator".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "rotator"
	}

	p := &PrometheusCollector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total service operations by operation and result.",
		}, []string{"operation", "result"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of service operations in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms .. ~10s
		}, []string{"operation"}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotations_total",
			Help:      "Assignments handed to a new member.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_failures_total",
			Help:      "Assignments that could not be evaluated or saved.",
		}),
		announcements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announcements_total",
			Help:      "Announcement attempts by result (sent, empty, unconfigured, failed).",
		}, []string{"result"}),
	}
	reg.MustRegister(p.runs, p.runDuration, p.rotations, p.failures, p.announcements)
	return p
}

func (p *PrometheusCollector) RecordRun(operation, result string, seconds float64) {
	p.runs.WithLabelValues(operation, result).Inc()
	p.runDuration.WithLabelValues(operation).Observe(seconds)
}

func (p *PrometheusCollector) RecordRotations(count int) {
	if count > 0 {
		p.rotations.Add(float64(count))
	}
}

func (p *PrometheusCollector) RecordAssignmentFailures(count int) {
	if count > 0 {
		p.failures.Add(float64(count))
	}
}

func (p *PrometheusCollector) RecordAnnouncement(result string) {
	p.announcements.WithLabelValues(result).Inc()
}
