package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"binclock/internal/event"
)

// Mismatch is a year in which the resolver and the RRULE expansion
// disagree about an event.
type Mismatch struct {
	Event    string
	Year     int
	Resolved string // "" when the resolver rejected the year
	Expanded string // "" when the RRULE has no occurrence
}

func (m Mismatch) String() string {
	or := func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	}
	return fmt.Sprintf("%s %d: resolved %s, rrule %s", m.Event, m.Year, or(m.Resolved), or(m.Expanded))
}

// Verify expands every event's RRULE for the years [from, to] and compares
// each occurrence with the resolver. A year the resolver rejects agrees
// with an RRULE that has no occurrence in it.
//
// The resolver uses the year%4 leap rule, so century years such as 2100
// are reported for day-of-year rules past February.
func Verify(events []event.Event, from, to int) ([]Mismatch, error) {
	var out []Mismatch
	for _, e := range events {
		opt, err := ruleOption(e.Rule, time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC))
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", e.Name, err)
		}
		r, err := rrule.NewRRule(opt)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", e.Name, err)
		}

		for year := from; year <= to; year++ {
			m := Mismatch{Event: e.Name, Year: year}
			if d, err := event.Resolve(e.Rule, year); err == nil {
				m.Resolved = fmt.Sprintf("%04d-%02d-%02d", year, int(d.Month), d.Day)
			}

			lo := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
			hits := r.Between(lo, lo.AddDate(1, 0, -1), true)
			if len(hits) > 0 {
				m.Expanded = hits[0].Format(time.DateOnly)
			}
			if m.Resolved != m.Expanded || len(hits) > 1 {
				out = append(out, m)
			}
		}
	}
	return out, nil
}
