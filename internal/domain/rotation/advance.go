package rotation

import (
	"fmt"
	"strings"
	"time"

	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/member"
	"team_rotator/internal/domain/task"
)

// StepPolicy decides how many roster steps a due assignment moves.
type StepPolicy string

const (
	// StepPolicyMulti advances by the number of elapsed rotations (catch-up).
	StepPolicyMulti StepPolicy = "multi"
	// StepPolicySingle always advances exactly one member.
	StepPolicySingle StepPolicy = "single"
)

// ParseStepPolicy accepts "multi" or "single" (case-insensitive).
func ParseStepPolicy(s string) (StepPolicy, error) {
	switch p := StepPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case StepPolicyMulti, StepPolicySingle:
		return p, nil
	default:
		return "", fmt.Errorf("unknown step policy %q", s)
	}
}

func (p StepPolicy) steps(rotations int) int {
	if p == StepPolicySingle && rotations > 0 {
		return 1
	}
	return rotations
}

// Change describes one advanced assignment.
type Change struct {
	Previous  assignment.Assignment
	Updated   assignment.Assignment
	Rotations int
}

// Skip records an assignment that was left untouched because its task is unknown.
type Skip struct {
	AssignmentID int64
	TaskID       int64
}

// Result is the outcome of a batch pass. Failures never stop the remaining assignments.
type Result struct {
	Changes   []Change
	Unchanged []int64
	Skipped   []Skip
	Failures  []*AssignmentError
}

// Updated returns the assignments that must be written back.
func (r Result) Updated() []assignment.Assignment {
	out := make([]assignment.Assignment, 0, len(r.Changes))
	for _, c := range r.Changes {
		out = append(out, c.Updated)
	}
	return out
}

// Advancer computes rotations for a batch of assignments.
type Advancer struct {
	Policy StepPolicy
}

// NewAdvancer returns an Advancer; an empty policy means StepPolicyMulti.
func NewAdvancer(policy StepPolicy) *Advancer {
	if policy == "" {
		policy = StepPolicyMulti
	}
	return &Advancer{Policy: policy}
}

// AdvanceAll evaluates every assignment independently against today.
func (a *Advancer) AdvanceAll(tasks []task.Task, members []member.Member, assignments []assignment.Assignment, today time.Time, isWorkingDay WorkingDayFunc) Result {
	today = DateOf(today)
	roster := NewRoster(members)
	byID := make(map[int64]task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	var res Result
	for _, asg := range assignments {
		t, ok := byID[asg.TaskID]
		if !ok {
			res.Skipped = append(res.Skipped, Skip{AssignmentID: asg.ID, TaskID: asg.TaskID})
			continue
		}

		updated, rotations, err := a.advanceOne(t, roster, asg, today, isWorkingDay)
		if err != nil {
			res.Failures = append(res.Failures, &AssignmentError{
				AssignmentID: asg.ID,
				TaskID:       t.ID,
				Rule:         t.RotationRule,
				Err:          err,
			})
			continue
		}
		if rotations == 0 {
			res.Unchanged = append(res.Unchanged, asg.ID)
			continue
		}
		res.Changes = append(res.Changes, Change{Previous: asg, Updated: updated, Rotations: rotations})
	}
	return res
}

func (a *Advancer) advanceOne(t task.Task, roster Roster, asg assignment.Assignment, today time.Time, isWorkingDay WorkingDayFunc) (assignment.Assignment, int, error) {
	rule, err := ParseRule(t.RotationRule)
	if err != nil {
		return asg, 0, err
	}

	periodEnd := DateOf(asg.PeriodEnd)
	if !today.After(periodEnd) {
		return asg, 0, nil
	}

	rotations := CountAdvances(rule, periodEnd, today, isWorkingDay)
	if rotations == 0 {
		return asg, 0, nil
	}

	next, err := NextPeriod(rule, periodEnd, isWorkingDay)
	if err != nil {
		return asg, 0, err
	}

	m, err := roster.Advance(asg.MemberID, a.Policy.steps(rotations))
	if err != nil {
		return asg, 0, err
	}

	updated := asg
	updated.MemberID = m.ID
	updated.PeriodStart = next.Start
	updated.PeriodEnd = next.End
	return updated, rotations, nil
}

// Reanchor recomputes every assignment's period as the next period after from, keeping the assignee.
// Assignments whose task is unknown are skipped; rule errors are collected.
func Reanchor(tasks []task.Task, assignments []assignment.Assignment, from time.Time, isWorkingDay WorkingDayFunc) Result {
	from = DateOf(from)
	byID := make(map[int64]task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	var res Result
	for _, asg := range assignments {
		t, ok := byID[asg.TaskID]
		if !ok {
			res.Skipped = append(res.Skipped, Skip{AssignmentID: asg.ID, TaskID: asg.TaskID})
			continue
		}
		rule, err := ParseRule(t.RotationRule)
		if err == nil {
			var next Period
			next, err = NextPeriod(rule, from, isWorkingDay)
			if err == nil {
				updated := asg
				updated.PeriodStart = next.Start
				updated.PeriodEnd = next.End
				res.Changes = append(res.Changes, Change{Previous: asg, Updated: updated})
				continue
			}
		}
		res.Failures = append(res.Failures, &AssignmentError{
			AssignmentID: asg.ID,
			TaskID:       t.ID,
			Rule:         t.RotationRule,
			Err:          err,
		})
	}
	return res
}
