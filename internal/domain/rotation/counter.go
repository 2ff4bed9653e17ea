package rotation

import "time"

// CountAdvances returns how many rotation steps fall in (from, to].
// Daily rules count working days; weekly and biweekly rules count whole elapsed periods.
func CountAdvances(rule Rule, from, to time.Time, isWorkingDay WorkingDayFunc) int {
	from, to = DateOf(from), DateOf(to)
	if !to.After(from) {
		return 0
	}

	switch rule.Cadence {
	case CadenceDaily:
		if isWorkingDay == nil {
			isWorkingDay = WeekdaysOnly
		}
		n := 0
		for d := AddDays(from, 1); !d.After(to); d = AddDays(d, 1) {
			if isWorkingDay(d) {
				n++
			}
		}
		return n
	case CadenceWeekly:
		return DaysBetween(from, to) / 7
	case CadenceBiweekly:
		return DaysBetween(from, to) / 14
	default:
		return 0
	}
}
