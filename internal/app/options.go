package app

import (
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// Metrics receives service-level measurements.
type Metrics interface {
	RecordRun(operation, result string, seconds float64)
	RecordRotations(count int)
	RecordAssignmentFailures(count int)
	RecordAnnouncement(result string)
}

type nopMetrics struct{}

func (nopMetrics) RecordRun(string, string, float64) {}
func (nopMetrics) RecordRotations(int)               {}
func (nopMetrics) RecordAssignmentFailures(int)      {}
func (nopMetrics) RecordAnnouncement(string)         {}

// Option configures a RotationService.
type Option func(*RotationService)

// WithLogger sets the entry used for service logs.
func WithLogger(log *logrus.Entry) Option {
	return func(s *RotationService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *RotationService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *RotationService) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithClock overrides the wall clock used to derive today's date.
func WithClock(now func() time.Time) Option {
	return func(s *RotationService) {
		if now != nil {
			s.now = now
		}
	}
}
