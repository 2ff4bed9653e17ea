package rotation

import "time"

// maxWorkingDayScan bounds the forward search for a working day.
const maxWorkingDayScan = 366

// Period is an inclusive [Start, End] range of calendar dates.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day lies within the period.
func (p Period) Contains(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(p.Start) && !d.After(p.End)
}

// NextPeriod computes the assignment period that follows anchor.
//
// Daily periods are the first working day strictly after anchor. Weekly periods start the day after the
// next occurrence of the target weekday and last 7 days. Biweekly periods start the day after the second
// such occurrence and last 14 days. The result always starts after anchor.
func NextPeriod(rule Rule, anchor time.Time, isWorkingDay WorkingDayFunc) (Period, error) {
	anchor = DateOf(anchor)

	switch rule.Cadence {
	case CadenceDaily:
		day, err := nextWorkingDay(anchor, isWorkingDay)
		if err != nil {
			return Period{}, err
		}
		return Period{Start: day, End: day}, nil
	case CadenceWeekly:
		start := dayAfterNextTarget(anchor, rule.Day)
		return Period{Start: start, End: AddDays(start, 6)}, nil
	case CadenceBiweekly:
		first := dayAfterNextTarget(anchor, rule.Day)
		start := dayAfterNextTarget(first, rule.Day)
		return Period{Start: start, End: AddDays(start, 13)}, nil
	default:
		return Period{}, &InvalidRuleError{Text: rule.String(), Reason: "unknown cadence"}
	}
}

// nextTarget returns the first date strictly after from that falls on target.
func nextTarget(from time.Time, target time.Weekday) time.Time {
	delta := (int(target) - int(from.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return AddDays(from, delta)
}

func dayAfterNextTarget(from time.Time, target time.Weekday) time.Time {
	return AddDays(nextTarget(from, target), 1)
}

func nextWorkingDay(anchor time.Time, isWorkingDay WorkingDayFunc) (time.Time, error) {
	if isWorkingDay == nil {
		isWorkingDay = WeekdaysOnly
	}
	candidate := AddDays(anchor, 1)
	for i := 0; i < maxWorkingDayScan; i++ {
		if isWorkingDay(candidate) {
			return candidate, nil
		}
		candidate = AddDays(candidate, 1)
	}
	return time.Time{}, ErrNoWorkingDay
}
