package rotation

import (
	"errors"
	"fmt"
)

// ErrNoWorkingDay is returned when no working day exists within the forward scan window.
var ErrNoWorkingDay = errors.New("no working day found within scan window")

// InvalidRuleError reports rotation rule text that cannot be parsed.
type InvalidRuleError struct {
	Text   string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid rotation rule %q: %s", e.Text, e.Reason)
}

// MemberNotFoundError reports an assignment pointing at a member missing from the roster.
type MemberNotFoundError struct {
	MemberID int64
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("member %d not found in roster", e.MemberID)
}

// AssignmentError ties a failure to the assignment and task it occurred on.
type AssignmentError struct {
	AssignmentID int64
	TaskID       int64
	Rule         string
	Err          error
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("assignment %d (task %d, rule %q): %v", e.AssignmentID, e.TaskID, e.Rule, e.Err)
}

func (e *AssignmentError) Unwrap() error { return e.Err }
