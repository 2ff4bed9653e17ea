package rotation

import "time"

// WorkingDayFunc reports whether a calendar date is a working day.
type WorkingDayFunc func(day time.Time) bool

// DateOf truncates t to its calendar date, expressed at midnight UTC.
// The wall-clock date in t's own location is kept.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a date by n calendar days.
func AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// DaysBetween returns the number of whole calendar days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// IsWeekend reports whether day falls on Saturday or Sunday.
func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekdaysOnly treats Monday to Friday as working days.
func WeekdaysOnly(day time.Time) bool { return !IsWeekend(day) }
