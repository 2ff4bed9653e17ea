package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "")

	p.RecordRun("advance", "ok", 0.02)
	p.RecordRun("advance", "ok", 0.03)
	p.RecordRun("announce", "error", 0.1)
	p.RecordRotations(3)
	p.RecordRotations(0)
	p.RecordAssignmentFailures(1)
	p.RecordAnnouncement("sent")

	require.Equal(t, 2.0, testutil.ToFloat64(p.runs.WithLabelValues("advance", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.runs.WithLabelValues("announce", "error")))
	require.Equal(t, 3.0, testutil.ToFloat64(p.rotations))
	require.Equal(t, 1.0, testutil.ToFloat64(p.failures))
	require.Equal(t, 1.0, testutil.ToFloat64(p.announcements.WithLabelValues("sent")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "rotator_runs_total")
	require.Contains(t, names, "rotator_run_duration_seconds")
}

func TestPrometheusCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg, "rotator")
	require.Panics(t, func() { NewPrometheus(reg, "rotator") })
}

func TestNopMetrics(t *testing.T) {
	n := NewNop()
	require.NotPanics(t, func() {
		n.RecordRun("advance", "ok", 1)
		n.RecordRotations(2)
		n.RecordAssignmentFailures(1)
		n.RecordAnnouncement("sent")
	})
}
