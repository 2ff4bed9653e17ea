package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"team_rotator/internal/app"
)

// Runner is the scheduled rotation job.
type Runner interface {
	RunScheduled(ctx context.Context, checkWorkingDay bool) (*app.ScheduledReport, error)
}

type RotationScheduler struct {
	cronEngine      *cron.Cron
	runner          Runner
	logger          *logrus.Entry
	cronSpec        string // e.g. "0 9 * * *" (9:00 AM daily)
	checkWorkingDay bool
	jobTimeout      time.Duration
}

func NewRotationScheduler(
	runner Runner,
	logger *logrus.Entry,
	location *time.Location,
	cronSpec string,
	checkWorkingDay bool,
	jobTimeout time.Duration,
) *RotationScheduler {
	if location == nil {
		location = time.Local
	}
	return &RotationScheduler{
		cronEngine:      cron.New(cron.WithLocation(location)),
		runner:          runner,
		logger:          logger,
		cronSpec:        cronSpec,
		checkWorkingDay: checkWorkingDay,
		jobTimeout:      jobTimeout,
	}
}

// Start registers the rotation job and starts the cron engine.
func (s *RotationScheduler) Start() error {
	s.logger.WithField("cron_spec", s.cronSpec).Info("Starting rotation scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.runJob); err != nil {
		return fmt.Errorf("could not add rotation cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Info("Rotation scheduler started.")
	return nil
}

func (s *RotationScheduler) runJob() {
	s.logger.Info("Cron job triggered for rotation.")
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	report, err := s.runner.RunScheduled(ctx, s.checkWorkingDay)
	if err != nil {
		s.logger.WithError(err).Error("Error during scheduled rotation run")
		return
	}
	fields := logrus.Fields{
		"run_id":          report.RunID,
		"not_working_day": report.NotWorkingDay,
		"announced":       report.Announced,
	}
	if report.Advance != nil {
		fields["updated"] = len(report.Advance.Updated)
		fields["failures"] = len(report.Advance.Failures)
	}
	s.logger.WithFields(fields).Info("Scheduled rotation run finished.")
}

func (s *RotationScheduler) Stop() {
	s.logger.Info("Stopping rotation scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Rotation scheduler gracefully stopped.")
}
