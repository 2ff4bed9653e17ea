package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"team_rotator/internal/app"
)

type runnerFunc func(ctx context.Context, checkWorkingDay bool) (*app.ScheduledReport, error)

func (f runnerFunc) RunScheduled(ctx context.Context, checkWorkingDay bool) (*app.ScheduledReport, error) {
	return f(ctx, checkWorkingDay)
}

func TestRunJob_PassesSettingsAndDeadline(t *testing.T) {
	log, hook := test.NewNullLogger()
	var gotCheck, hadDeadline bool
	runner := runnerFunc(func(ctx context.Context, check bool) (*app.ScheduledReport, error) {
		gotCheck = check
		_, hadDeadline = ctx.Deadline()
		return &app.ScheduledReport{RunID: "run-1", Announced: true, Advance: &app.PassReport{Updated: make([]app.AssignmentChange, 2)}}, nil
	})

	s := NewRotationScheduler(runner, logrus.NewEntry(log), time.UTC, "0 9 * * *", true, time.Minute)
	s.runJob()

	require.True(t, gotCheck)
	require.True(t, hadDeadline)
	last := hook.LastEntry()
	require.Equal(t, "Scheduled rotation run finished.", last.Message)
	require.Equal(t, "run-1", last.Data["run_id"])
	require.Equal(t, 2, last.Data["updated"])
}

func TestRunJob_LogsErrors(t *testing.T) {
	log, hook := test.NewNullLogger()
	runner := runnerFunc(func(context.Context, bool) (*app.ScheduledReport, error) {
		return nil, errors.New("database unavailable")
	})

	NewRotationScheduler(runner, logrus.NewEntry(log), nil, "0 9 * * *", false, time.Minute).runJob()

	require.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	require.EqualError(t, hook.LastEntry().Data[logrus.ErrorKey].(error), "database unavailable")
}

func TestStart_InvalidSpec(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := NewRotationScheduler(runnerFunc(nil), logrus.NewEntry(log), time.UTC, "not a cron spec", true, time.Minute)
	require.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := NewRotationScheduler(runnerFunc(nil), logrus.NewEntry(log), time.UTC, "0 9 * * *", true, time.Minute)
	require.NoError(t, s.Start())
	s.Stop()
}
