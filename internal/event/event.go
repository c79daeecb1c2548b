// Package event resolves recurring calendar events to concrete dates and
// keeps a small table of them sorted and rolling forward with the calendar.
//
// A table must be passed through InitList once before UpdateList or
// FindClosest are used on it.
package event

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/mo"

	"binclock/internal/datetime"
	"binclock/internal/fault"
)

// Event is one entry of the recurring event table.
type Event struct {
	Name        string
	YearStarted int
	Rule        Rule

	// YearCalculated is the year Details were resolved for.
	YearCalculated mo.Option[int]
	Details
}

// New returns an unresolved event.
func New(name string, yearStarted int, rule Rule) Event {
	return Event{Name: name, YearStarted: yearStarted, Rule: rule, YearCalculated: mo.None[int]()}
}

func (e *Event) resolveFor(year int) error {
	d, err := Resolve(e.Rule, year)
	if err != nil {
		return fmt.Errorf("event %q: %w", e.Name, err)
	}
	e.Details = d
	e.YearCalculated = mo.Some(year)
	return nil
}

// Date returns the resolved date of e.
func (e Event) Date() (datetime.DateTime, error) {
	year, ok := e.YearCalculated.Get()
	if !ok {
		return datetime.DateTime{}, fault.InvalidArgument("event %q is not resolved", e.Name)
	}
	return datetime.Date(year, e.Month, e.Day), nil
}

// InitList resolves every event for year and sorts the table. On error the
// events resolved so far keep their new dates and the table is still sorted.
func InitList(events []Event, year int) error {
	defer sortList(events)
	for i := range events {
		if err := events[i].resolveFor(year); err != nil {
			return err
		}
	}
	return nil
}

// UpdateList rolls events that already happened this year over to the next
// one. It is idempotent and meant to be called once per day change; cur is
// the current date.
//
// An event cached for next year moves back to cur's year when that year's
// occurrence has not passed yet, which happens after the clock is set back.
//
// The table is sorted on return even when an event fails to resolve.
func UpdateList(events []Event, cur datetime.DateTime) error {
	changed, err := rollList(events, cur)
	if changed {
		sortList(events)
	}
	return err
}

func rollList(events []Event, cur datetime.DateTime) (bool, error) {
	changed := false
	for i := range events {
		e := &events[i]
		year, ok := e.YearCalculated.Get()

		if ok && year == cur.Year+1 {
			d, err := Resolve(e.Rule, cur.Year)
			if err != nil {
				return changed, fmt.Errorf("event %q: %w", e.Name, err)
			}
			if !d.Before(cur.Month, cur.Day) {
				e.Details, e.YearCalculated = d, mo.Some(cur.Year)
				changed = true
			}
			continue
		}

		if !ok || year != cur.Year {
			if err := e.resolveFor(cur.Year); err != nil {
				return changed, err
			}
			changed = true
		}

		if !e.Before(cur.Month, cur.Day) {
			continue
		}
		d, err := Resolve(e.Rule, cur.Year+1)
		if err != nil {
			return changed, fmt.Errorf("event %q: %w", e.Name, err)
		}
		if dateBefore(cur.Year+1, d, cur) {
			continue
		}
		e.Details, e.YearCalculated = d, mo.Some(cur.Year+1)
		changed = true
	}

	return changed, nil
}

// FindClosest returns the index of the first event not before month/day,
// wrapping to the earliest one when every event already passed.
func FindClosest(events []Event, month time.Month, day int) (int, error) {
	if len(events) == 0 {
		return 0, fault.InvalidArgument("empty event list")
	}
	for i, e := range events {
		if !e.Before(month, day) {
			return i, nil
		}
	}
	return 0, nil
}

// String renders "<name> - <date>" and fails with ErrOverflow when the
// result is longer than limit bytes.
func (e Event) String(limit int) (string, error) {
	dt, err := e.Date()
	if err != nil {
		return "", err
	}
	date, err := dt.DateString()
	if err != nil {
		return "", err
	}
	return fit(fmt.Sprintf("%s - %s", e.Name, date), limit)
}

// LongestDate is the width of the longest date String renders after the
// name.
const LongestDate = len("Sep 30 2013 Wednesday")

// HasYearInfo reports whether the event carries a starting year.
func (e Event) HasYearInfo() bool {
	return e.YearStarted > 0
}

// YearInfo renders "<N> years - started in <year>", N counted up to the
// year the event is resolved for.
func (e Event) YearInfo(limit int) (string, error) {
	year, ok := e.YearCalculated.Get()
	if !ok {
		return "", fault.InvalidArgument("event %q is not resolved", e.Name)
	}
	return fit(fmt.Sprintf("%d years - started in %d", year-e.YearStarted, e.YearStarted), limit)
}

func fit(s string, limit int) (string, error) {
	if len(s) > limit {
		return "", fault.Overflow("%d bytes do not fit in %d", len(s), limit)
	}
	return s, nil
}

func dateBefore(year int, d Details, cur datetime.DateTime) bool {
	if year != cur.Year {
		return year < cur.Year
	}
	return d.Before(cur.Month, cur.Day)
}

func sortList(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		if a.Month != b.Month {
			return int(a.Month) - int(b.Month)
		}
		return a.Day - b.Day
	})
}
