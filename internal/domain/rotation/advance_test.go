package rotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/task"
)

func TestAdvanceAll_WeeklyCatchUp(t *testing.T) {
	tasks := []task.Task{{ID: 1, Name: "Tech huddle", RotationRule: "weekly_friday"}}
	roster := members(10, 20, 30, 40, 50)
	asg := assignment.Assignment{ID: 7, TaskID: 1, MemberID: 30, PeriodStart: date("2024-01-04"), PeriodEnd: date("2024-01-10")}

	res := NewAdvancer(StepPolicyMulti).AdvanceAll(tasks, roster, []assignment.Assignment{asg}, date("2024-01-24"), WeekdaysOnly)

	require.Empty(t, res.Failures)
	require.Len(t, res.Changes, 1)
	c := res.Changes[0]
	require.Equal(t, 2, c.Rotations)
	require.Equal(t, int64(50), c.Updated.MemberID)
	require.Equal(t, date("2024-01-13"), c.Updated.PeriodStart)
	require.Equal(t, date("2024-01-19"), c.Updated.PeriodEnd)
	require.Equal(t, asg, c.Previous)
	require.Equal(t, int64(7), c.Updated.ID)
	require.Equal(t, []assignment.Assignment{c.Updated}, res.Updated())
}

func TestAdvanceAll_SinglePolicyMovesOneStep(t *testing.T) {
	tasks := []task.Task{{ID: 1, Name: "Tech huddle", RotationRule: "weekly_friday"}}
	asg := assignment.Assignment{ID: 7, TaskID: 1, MemberID: 30, PeriodStart: date("2024-01-04"), PeriodEnd: date("2024-01-10")}

	res := NewAdvancer(StepPolicySingle).AdvanceAll(tasks, members(10, 20, 30, 40, 50), []assignment.Assignment{asg}, date("2024-01-24"), WeekdaysOnly)

	require.Len(t, res.Changes, 1)
	require.Equal(t, int64(40), res.Changes[0].Updated.MemberID)
	require.Equal(t, 2, res.Changes[0].Rotations)
}

func TestAdvanceAll_CurrentPeriodUnchanged(t *testing.T) {
	tasks := []task.Task{{ID: 1, Name: "Standup", RotationRule: "daily"}}
	asg := assignment.Assignment{ID: 1, TaskID: 1, MemberID: 1, PeriodStart: date("2024-01-08"), PeriodEnd: date("2024-01-08")}

	res := NewAdvancer("").AdvanceAll(tasks, members(1, 2), []assignment.Assignment{asg}, date("2024-01-08"), WeekdaysOnly)

	require.Empty(t, res.Changes)
	require.Equal(t, []int64{1}, res.Unchanged)
}

func TestAdvanceAll_DailyAfterWeekend(t *testing.T) {
	tasks := []task.Task{{ID: 1, Name: "Standup", RotationRule: "daily"}}
	asg := assignment.Assignment{ID: 1, TaskID: 1, MemberID: 2, PeriodStart: date("2024-01-05"), PeriodEnd: date("2024-01-05")}

	res := NewAdvancer(StepPolicyMulti).AdvanceAll(tasks, members(1, 2, 3), []assignment.Assignment{asg}, date("2024-01-08"), WeekdaysOnly)

	require.Len(t, res.Changes, 1)
	require.Equal(t, int64(3), res.Changes[0].Updated.MemberID)
	require.Equal(t, date("2024-01-08"), res.Changes[0].Updated.PeriodStart)
	require.Equal(t, date("2024-01-08"), res.Changes[0].Updated.PeriodEnd)
}

func TestAdvanceAll_DueButNoElapsedRotation(t *testing.T) {
	tasks := []task.Task{{ID: 1, Name: "Standup", RotationRule: "daily"}}
	// Friday period, evaluated on Sunday: no working day has passed yet.
	asg := assignment.Assignment{ID: 1, TaskID: 1, MemberID: 2, PeriodStart: date("2024-01-05"), PeriodEnd: date("2024-01-05")}

	res := NewAdvancer(StepPolicyMulti).AdvanceAll(tasks, members(1, 2, 3), []assignment.Assignment{asg}, date("2024-01-07"), WeekdaysOnly)

	require.Empty(t, res.Changes)
	require.Equal(t, []int64{1}, res.Unchanged)
}

func TestAdvanceAll_FailuresDoNotAbortBatch(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Name: "Standup", RotationRule: "daily"},
		{ID: 2, Name: "Retro", RotationRule: "fortnightly_monday"},
		{ID: 3, Name: "Huddle", RotationRule: "weekly_friday"},
	}
	assignments := []assignment.Assignment{
		{ID: 1, TaskID: 1, MemberID: 99, PeriodStart: date("2024-01-05"), PeriodEnd: date("2024-01-05")},
		{ID: 2, TaskID: 2, MemberID: 1, PeriodStart: date("2024-01-01"), PeriodEnd: date("2024-01-14")},
		{ID: 3, TaskID: 3, MemberID: 1, PeriodStart: date("2024-01-04"), PeriodEnd: date("2024-01-10")},
		{ID: 4, TaskID: 42, MemberID: 1, PeriodStart: date("2024-01-04"), PeriodEnd: date("2024-01-10")},
	}

	res := NewAdvancer(StepPolicyMulti).AdvanceAll(tasks, members(1, 2), assignments, date("2024-01-24"), WeekdaysOnly)

	require.Len(t, res.Changes, 1)
	require.Equal(t, int64(3), res.Changes[0].Updated.ID)
	require.Equal(t, []Skip{{AssignmentID: 4, TaskID: 42}}, res.Skipped)
	require.Len(t, res.Failures, 2)

	var notFound *MemberNotFoundError
	require.Equal(t, int64(1), res.Failures[0].AssignmentID)
	require.True(t, errors.As(res.Failures[0], &notFound))
	require.Equal(t, int64(99), notFound.MemberID)

	var ruleErr *InvalidRuleError
	require.Equal(t, int64(2), res.Failures[1].AssignmentID)
	require.Equal(t, "fortnightly_monday", res.Failures[1].Rule)
	require.True(t, errors.As(res.Failures[1], &ruleErr))
}

func TestAdvanceAll_OrderIndependent(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Name: "Standup", RotationRule: "daily"},
		{ID: 2, Name: "Huddle", RotationRule: "weekly_friday"},
	}
	a := assignment.Assignment{ID: 1, TaskID: 1, MemberID: 1, PeriodStart: date("2024-01-05"), PeriodEnd: date("2024-01-05")}
	b := assignment.Assignment{ID: 2, TaskID: 2, MemberID: 2, PeriodStart: date("2024-01-04"), PeriodEnd: date("2024-01-10")}
	adv := NewAdvancer(StepPolicyMulti)

	forward := adv.AdvanceAll(tasks, members(1, 2, 3), []assignment.Assignment{a, b}, date("2024-01-24"), WeekdaysOnly)
	backward := adv.AdvanceAll(tasks, members(3, 2, 1), []assignment.Assignment{b, a}, date("2024-01-24"), WeekdaysOnly)

	require.ElementsMatch(t, forward.Updated(), backward.Updated())
}

func TestReanchor_KeepsAssignee(t *testing.T) {
	tasks := []task.Task{{ID: 1, Name: "Huddle", RotationRule: "weekly_friday"}, {ID: 2, Name: "Bad", RotationRule: "hourly"}}
	assignments := []assignment.Assignment{
		{ID: 1, TaskID: 1, MemberID: 3, PeriodStart: date("2023-01-01"), PeriodEnd: date("2023-01-07")},
		{ID: 2, TaskID: 2, MemberID: 3},
		{ID: 3, TaskID: 9, MemberID: 3},
	}

	res := Reanchor(tasks, assignments, date("2024-01-03"), WeekdaysOnly)

	require.Len(t, res.Changes, 1)
	require.Equal(t, int64(3), res.Changes[0].Updated.MemberID)
	require.Equal(t, date("2024-01-06"), res.Changes[0].Updated.PeriodStart)
	require.Len(t, res.Failures, 1)
	require.Len(t, res.Skipped, 1)
}

func TestParseStepPolicy(t *testing.T) {
	p, err := ParseStepPolicy(" Single ")
	require.NoError(t, err)
	require.Equal(t, StepPolicySingle, p)

	_, err = ParseStepPolicy("double")
	require.Error(t, err)
}
