// Package datetime keeps a calendar date and time of day as plain signed
// fields and rolls excesses between them.
//
// Fields may hold any value between normalizations: a negative minute or a
// day of 400 is legal input to Normalize, which folds it back into range.
// The leap year rule is year%4 == 0 for every year.
package datetime

import (
	"fmt"
	"time"

	"binclock/internal/fault"
)

const (
	MillisInSecond = 1000
	MillisInMinute = 60 * MillisInSecond
	MillisInHour   = 60 * MillisInMinute
	MillisInDay    = 24 * MillisInHour

	HoursInDay      = 24
	MinutesInHour   = 60
	SecondsInMinute = 60

	// MaxDisplayYear is the last year TimeString/DateString accept.
	MaxDisplayYear = 9999
)

// DateTime is a date and time of day. Month uses time.Month numbering
// (January == 1), so the zero value is not a valid date until normalized.
type DateTime struct {
	Year        int
	Month       time.Month
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// Date returns a DateTime at midnight of the given day.
func Date(year int, month time.Month, day int) DateTime {
	return DateTime{Year: year, Month: month, Day: day}
}

// FromTime copies the wall clock fields of t.
func FromTime(t time.Time) DateTime {
	return DateTime{
		Year:        t.Year(),
		Month:       t.Month(),
		Day:         t.Day(),
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Millisecond: t.Nanosecond() / int(time.Millisecond),
	}
}

// IsLeapYear reports whether February of year has 29 days.
func IsLeapYear(year int) bool {
	return year%4 == 0
}

// DaysInMonth returns the length of month in year.
func DaysInMonth(year int, month time.Month) (int, error) {
	if month < time.January || month > time.December {
		return 0, fault.Range("month %d should be in [%d..%d]", month, time.January, time.December)
	}
	return daysInMonth(year, month), nil
}

func daysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// DayOfWeek returns the weekday of a calendar date using Gauss's congruence
// with the month origin shifted to March. The date is not validated.
func DayOfWeek(year int, month time.Month, day int) time.Weekday {
	// March == 1 ... February == 12, with January and February counted
	// as the last months of the previous year.
	m := (int(month)+9)%12 + 1
	y := year
	if month < time.March {
		y--
	}
	century, yy := floorDiv(y, 100), floorMod(y, 100)

	w := day + (26*m-2)/10 + yy + yy/4 + floorDiv(century, 4) - 2*century
	return time.Weekday(floorMod(w, 7))
}

// Normalize rolls millisecond overflow into seconds, seconds into minutes
// and so on up to years. Negative values borrow from the next larger field,
// so day 0 is the last day of the previous month.
func (dt *DateTime) Normalize() {
	carry := func(v *int, base int, next *int) {
		*next += floorDiv(*v, base)
		*v = floorMod(*v, base)
	}

	carry(&dt.Millisecond, MillisInSecond, &dt.Second)
	carry(&dt.Second, SecondsInMinute, &dt.Minute)
	carry(&dt.Minute, MinutesInHour, &dt.Hour)
	carry(&dt.Hour, HoursInDay, &dt.Day)

	// Months before days: the length of a month depends on both.
	m := int(dt.Month) - 1
	dt.Year += floorDiv(m, 12)
	dt.Month = time.Month(floorMod(m, 12) + 1)

	for d := daysInMonth(dt.Year, dt.Month); dt.Day > d; d = daysInMonth(dt.Year, dt.Month) {
		dt.Day -= d
		dt.Month++
		if dt.Month > time.December {
			dt.Month = time.January
			dt.Year++
		}
	}

	for dt.Day < 1 {
		dt.Month--
		if dt.Month < time.January {
			dt.Month = time.December
			dt.Year--
		}
		dt.Day += daysInMonth(dt.Year, dt.Month)
	}
}

// AddMillis advances dt by millis and normalizes the result. Whole days are
// split off first so the millisecond field never overflows an int.
func (dt *DateTime) AddMillis(millis uint64) {
	dt.Day += int(millis / MillisInDay)
	dt.Millisecond += int(millis % MillisInDay)
	dt.Normalize()
}

// SameTime reports whether hour, minute and second match.
func (dt DateTime) SameTime(other DateTime) bool {
	return dt.Hour == other.Hour && dt.Minute == other.Minute && dt.Second == other.Second
}

// SameDate reports whether year, month and day match.
func (dt DateTime) SameDate(other DateTime) bool {
	return dt.Year == other.Year && dt.Month == other.Month && dt.Day == other.Day
}

// Weekday returns the day of week of dt.
func (dt DateTime) Weekday() time.Weekday {
	return DayOfWeek(dt.Year, dt.Month, dt.Day)
}

// TimeString formats the time of day as "HH:MM:SS".
func (dt DateTime) TimeString() (string, error) {
	if dt.Hour < 0 || dt.Hour >= HoursInDay {
		return "", fault.Range("hour %d should be in [0..%d)", dt.Hour, HoursInDay)
	}
	if dt.Minute < 0 || dt.Minute >= MinutesInHour {
		return "", fault.Range("minute %d should be in [0..%d)", dt.Minute, MinutesInHour)
	}
	if dt.Second < 0 || dt.Second >= SecondsInMinute {
		return "", fault.Range("second %d should be in [0..%d)", dt.Second, SecondsInMinute)
	}
	return fmt.Sprintf("%02d:%02d:%02d", dt.Hour, dt.Minute, dt.Second), nil
}

// DateString formats the date as "MMM DD YYYY Weekday", e.g.
// "Nov 28 2013 Thursday".
func (dt DateTime) DateString() (string, error) {
	if dt.Year < 0 || dt.Year > MaxDisplayYear {
		return "", fault.Range("year %d should be in [0..%d]", dt.Year, MaxDisplayYear)
	}
	days, err := DaysInMonth(dt.Year, dt.Month)
	if err != nil {
		return "", err
	}
	if dt.Day < 1 || dt.Day > days {
		return "", fault.Range("day %d should be in [1..%d] for %s %d", dt.Day, days, dt.Month, dt.Year)
	}
	return fmt.Sprintf("%s %02d %04d %s", dt.Month.String()[:3], dt.Day, dt.Year, dt.Weekday()), nil
}

func (dt DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%03d",
		dt.Year, int(dt.Month), dt.Day, dt.Hour, dt.Minute, dt.Second, dt.Millisecond)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
