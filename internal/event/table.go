package event

import (
	"strings"
	"time"

	"binclock/internal/fault"
)

// Personal returns the compiled-in event table, unresolved.
func Personal() []Event {
	return []Event{
		New("New year", 0, DayOfMonth{Month: time.January, Day: 1}),
		New("Fool's day", 1392, DayOfMonth{Month: time.April, Day: 1}),
		New("Sysadmin day", 2000, WeekdayRule{Month: time.July, Weekday: time.Friday, Nth: 0, FromEnd: true}),
		New("Programmer's day", 2009, DayOfYear{Ordinal: 256}),
		New("Thanksgiving", 1574, WeekdayRule{Month: time.November, Weekday: time.Thursday, Nth: 3}),
		New("Christmas", 0, DayOfMonth{Month: time.December, Day: 25}),
	}
}

// Spec is the configuration form of an event. When several kinds are set
// the day of year wins over a weekday rule, which wins over a day of month.
type Spec struct {
	Name        string `yaml:"name" toml:"name" json:"name"`
	YearStarted int    `yaml:"year_started" toml:"year_started" json:"year_started"`
	Month       int    `yaml:"month" toml:"month" json:"month"`
	Day         int    `yaml:"day" toml:"day" json:"day"`
	Weekday     string `yaml:"weekday" toml:"weekday" json:"weekday"`
	Nth         int    `yaml:"nth" toml:"nth" json:"nth"`
	FromEnd     bool   `yaml:"from_end" toml:"from_end" json:"from_end"`
	DayOfYear   int    `yaml:"day_of_year" toml:"day_of_year" json:"day_of_year"`
}

// Rule returns the rule s describes.
func (s Spec) Rule() (Rule, error) {
	switch {
	case s.DayOfYear != 0:
		return DayOfYear{Ordinal: s.DayOfYear}, nil
	case s.Weekday != "":
		wd, err := ParseWeekday(s.Weekday)
		if err != nil {
			return nil, err
		}
		return WeekdayRule{Month: time.Month(s.Month), Weekday: wd, Nth: s.Nth, FromEnd: s.FromEnd}, nil
	default:
		return DayOfMonth{Month: time.Month(s.Month), Day: s.Day}, nil
	}
}

// FromSpecs builds an unresolved table. A rule that fails to resolve in
// either a common or a leap year is rejected, so a table that loads can
// always be resolved later.
func FromSpecs(specs []Spec) ([]Event, error) {
	events := make([]Event, 0, len(specs))
	for i, s := range specs {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fault.InvalidArgument("event #%d has no name", i)
		}
		rule, err := s.Rule()
		if err != nil {
			return nil, err
		}
		for _, year := range []int{2001, 2004} {
			if _, err := Resolve(rule, year); err != nil {
				return nil, err
			}
		}
		events = append(events, New(s.Name, s.YearStarted, rule))
	}
	return events, nil
}

// ParseWeekday accepts an English weekday name or its three letter prefix.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || s == name[:3] {
			return wd, nil
		}
	}
	return 0, fault.Range("unknown weekday %q", s)
}
