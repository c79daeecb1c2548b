package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"binclock/internal/event"
)

var weekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// ruleOption translates an event rule into a yearly RRULE starting at
// dtstart.
func ruleOption(rule event.Rule, dtstart time.Time) (rrule.ROption, error) {
	opt := rrule.ROption{Freq: rrule.YEARLY, Dtstart: dtstart}

	switch r := rule.(type) {
	case event.DayOfMonth:
		opt.Bymonth = []int{int(r.Month)}
		opt.Bymonthday = []int{r.Day}
	case event.WeekdayRule:
		if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
			return opt, fmt.Errorf("ics: weekday %d out of range", r.Weekday)
		}
		n := r.Nth + 1
		if r.FromEnd {
			n = -n
		}
		opt.Bymonth = []int{int(r.Month)}
		opt.Byweekday = []rrule.Weekday{weekdays[r.Weekday].Nth(n)}
	case event.DayOfYear:
		opt.Byyearday = []int{r.Ordinal}
	default:
		return opt, fmt.Errorf("ics: unsupported rule %T", rule)
	}
	return opt, nil
}

// RRule returns the RRULE value (without DTSTART) for rule.
func RRule(rule event.Rule) (string, error) {
	opt, err := ruleOption(rule, time.Time{})
	if err != nil {
		return "", err
	}
	return opt.RRuleString(), nil
}

// ruleFromOption maps a yearly RRULE back onto an event.Spec. Only the
// shapes RRule produces are accepted.
func ruleFromOption(opt *rrule.ROption) (event.Spec, error) {
	var spec event.Spec
	if opt.Freq != rrule.YEARLY {
		return spec, fmt.Errorf("ics: only yearly rules are supported, got %s", opt.Freq)
	}

	switch {
	case len(opt.Byyearday) == 1:
		spec.DayOfYear = opt.Byyearday[0]
	case len(opt.Bymonth) == 1 && len(opt.Byweekday) == 1:
		wd := opt.Byweekday[0]
		n := wd.N()
		if n == 0 {
			return spec, fmt.Errorf("ics: BYDAY needs an occurrence, e.g. 4TH")
		}
		spec.Month = opt.Bymonth[0]
		spec.Weekday = weekdayName(wd)
		spec.Nth = n - 1
		if n < 0 {
			spec.FromEnd = true
			spec.Nth = -n - 1
		}
	case len(opt.Bymonth) == 1 && len(opt.Bymonthday) == 1:
		spec.Month = opt.Bymonth[0]
		spec.Day = opt.Bymonthday[0]
	default:
		return spec, fmt.Errorf("ics: unsupported rule shape %q", opt.RRuleString())
	}
	return spec, nil
}

func weekdayName(wd rrule.Weekday) string {
	for i, w := range weekdays {
		if w.Day() == wd.Day() {
			return time.Weekday(i).String()
		}
	}
	return ""
}
