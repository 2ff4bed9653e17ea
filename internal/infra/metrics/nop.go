package metrics

import "team_rotator/internal/app"

// NopMetrics discards every measurement. Used in tests and when metrics are not scraped.
type NopMetrics struct{}

var _ app.Metrics = (*NopMetrics)(nil)

func NewNop() *NopMetrics {
	return &NopMetrics{}
}

func (n *NopMetrics) RecordRun(_ /* operation */, _ /* result */ string, _ /* seconds */ float64) {}

func (n *NopMetrics) RecordRotations(_ /* count */ int) {}

func (n *NopMetrics) RecordAssignmentFailures(_ /* count */ int) {}

func (n *NopMetrics) RecordAnnouncement(_ /* result */ string) {}
