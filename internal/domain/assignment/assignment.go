package assignment

import "time"

// DateLayout is the ISO-8601 calendar date format used for persisted periods.
const DateLayout = "2006-01-02"

// Assignment is the current holder of a task for an inclusive date period.
// Exactly one assignment exists per task; it is overwritten in place on rotation.
type Assignment struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"taskId"`
	MemberID    int64     `json:"memberId"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
}
