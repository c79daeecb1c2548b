package event

import (
	"fmt"
	"time"

	"binclock/internal/datetime"
	"binclock/internal/fault"
)

// MaxNth is the largest 0-based occurrence a WeekdayRule may ask for.
// Every month has at least four of each weekday.
const MaxNth = 3

// Rule is the recurrence of an event. The set of rules is closed:
// DayOfMonth, WeekdayRule and DayOfYear.
type Rule interface {
	resolve(year int) (Details, error)
	fmt.Stringer
}

// Details is a rule resolved for one particular year.
type Details struct {
	Month   time.Month
	Day     int
	Weekday time.Weekday
}

// Before orders details by month, then day.
func (d Details) Before(month time.Month, day int) bool {
	if d.Month != month {
		return d.Month < month
	}
	return d.Day < day
}

// DayOfMonth is a fixed date, e.g. December 25.
type DayOfMonth struct {
	Month time.Month
	Day   int
}

// WeekdayRule is the Nth (0-based) weekday of a month, counted from the
// first or the last day, e.g. "4th Thursday of November" is {November,
// Thursday, 3, false} and "last Friday of July" is {July, Friday, 0, true}.
type WeekdayRule struct {
	Month   time.Month
	Weekday time.Weekday
	Nth     int
	FromEnd bool
}

// DayOfYear is the ordinal day of the year, January 1 being 1.
type DayOfYear struct {
	Ordinal int
}

// Resolve computes the date rule falls on in year.
func Resolve(rule Rule, year int) (Details, error) {
	if rule == nil {
		return Details{}, fault.InvalidArgument("nil rule")
	}
	return rule.resolve(year)
}

func (r DayOfMonth) resolve(year int) (Details, error) {
	days, err := datetime.DaysInMonth(year, r.Month)
	if err != nil {
		return Details{}, err
	}
	if r.Day < 1 || r.Day > days {
		return Details{}, fault.Range("day %d does not exist in %s %d", r.Day, r.Month, year)
	}
	return Details{Month: r.Month, Day: r.Day, Weekday: datetime.DayOfWeek(year, r.Month, r.Day)}, nil
}

func (r DayOfMonth) String() string {
	return fmt.Sprintf("%s %d", r.Month, r.Day)
}

func (r WeekdayRule) resolve(year int) (Details, error) {
	last, err := datetime.DaysInMonth(year, r.Month)
	if err != nil {
		return Details{}, err
	}
	if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
		return Details{}, fault.Range("weekday %d should be in [0..6]", r.Weekday)
	}
	if r.Nth < 0 || r.Nth > MaxNth {
		return Details{}, fault.Range("occurrence %d should be in [0..%d]", r.Nth, MaxNth)
	}

	target := int(r.Weekday)
	nth := r.Nth
	var day int
	if r.FromEnd {
		anchor := int(datetime.DayOfWeek(year, r.Month, last))
		if anchor < target {
			nth++
		}
		day = last - nth*7 - (anchor - target)
	} else {
		anchor := int(datetime.DayOfWeek(year, r.Month, 1))
		if anchor > target {
			nth++
		}
		day = 1 + nth*7 + (target - anchor)
	}

	if day < 1 || day > last {
		return Details{}, fault.Range("%s resolves to day %d outside %s %d", r, day, r.Month, year)
	}
	return Details{Month: r.Month, Day: day, Weekday: r.Weekday}, nil
}

func (r WeekdayRule) String() string {
	switch {
	case !r.FromEnd:
		return fmt.Sprintf("%s %d in %s", r.Weekday, r.Nth+1, r.Month)
	case r.Nth == 0:
		return fmt.Sprintf("last %s in %s", r.Weekday, r.Month)
	default:
		return fmt.Sprintf("%s %d from last in %s", r.Weekday, r.Nth+1, r.Month)
	}
}

func (r DayOfYear) resolve(year int) (Details, error) {
	total := 365
	if datetime.IsLeapYear(year) {
		total = 366
	}
	if r.Ordinal < 1 || r.Ordinal > total {
		return Details{}, fault.Range("day of year %d should be in [1..%d] for %d", r.Ordinal, total, year)
	}

	month, remaining := time.January, r.Ordinal
	for d, _ := datetime.DaysInMonth(year, month); remaining > d; d, _ = datetime.DaysInMonth(year, month) {
		remaining -= d
		month++
	}
	return Details{Month: month, Day: remaining, Weekday: datetime.DayOfWeek(year, month, remaining)}, nil
}

func (r DayOfYear) String() string {
	return fmt.Sprintf("day %d of the year", r.Ordinal)
}
