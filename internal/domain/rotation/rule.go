package rotation

import (
	"strings"
	"time"
)

// Cadence is the rotation frequency class of a task.
type Cadence int

const (
	CadenceDaily Cadence = iota + 1
	CadenceWeekly
	CadenceBiweekly
)

func (c Cadence) String() string {
	switch c {
	case CadenceDaily:
		return "daily"
	case CadenceWeekly:
		return "weekly"
	case CadenceBiweekly:
		return "biweekly"
	default:
		return "unknown"
	}
}

// Rule is a parsed rotation rule. Day is only meaningful for weekly and biweekly cadences.
type Rule struct {
	Cadence Cadence
	Day     time.Weekday
}

// Daily returns the daily rule.
func Daily() Rule { return Rule{Cadence: CadenceDaily} }

// Weekly returns a weekly rule targeting day.
func Weekly(day time.Weekday) Rule { return Rule{Cadence: CadenceWeekly, Day: day} }

// Biweekly returns a biweekly rule targeting day.
func Biweekly(day time.Weekday) Rule { return Rule{Cadence: CadenceBiweekly, Day: day} }

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseRule parses "daily", "weekly_<day>" or "biweekly_<day>".
// Day names are case-insensitive English weekday names. Any other shape is an *InvalidRuleError.
func ParseRule(text string) (Rule, error) {
	if text == "daily" {
		return Daily(), nil
	}

	parts := strings.Split(text, "_")
	if len(parts) != 2 {
		return Rule{}, &InvalidRuleError{Text: text, Reason: "expected daily or <frequency>_<day>"}
	}

	day, ok := weekdayNames[strings.ToLower(parts[1])]
	if !ok {
		return Rule{}, &InvalidRuleError{Text: text, Reason: "unknown day " + parts[1]}
	}

	switch parts[0] {
	case "weekly":
		return Weekly(day), nil
	case "biweekly":
		return Biweekly(day), nil
	default:
		return Rule{}, &InvalidRuleError{Text: text, Reason: "unsupported frequency " + parts[0]}
	}
}

// String renders the canonical rule text accepted by ParseRule.
func (r Rule) String() string {
	if r.Cadence == CadenceDaily {
		return "daily"
	}
	return r.Cadence.String() + "_" + strings.ToLower(r.Day.String())
}
