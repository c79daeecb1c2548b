package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"binclock/internal/event"
	"binclock/internal/glyph"
	appLog "binclock/internal/log"
)

// Parse reads the VEVENTs of an iCalendar document as event specs.
//
//   - RRULE는 YEARLY 형태만 받는다 (BYMONTH+BYMONTHDAY, BYMONTH+BYDAY, BYYEARDAY).
//   - Without RRULE the DTSTART month and day repeat every year.
//   - Events that cannot be mapped or shown are logged and skipped.
func Parse(body []byte) ([]event.Spec, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err)
		return nil, err
	}

	specs := make([]event.Spec, 0)
	for _, ve := range cal.Events() {
		spec, perr := parseVEvent(ve)
		if perr != nil {
			appLog.Error("ics vevent skipped", perr, "uid", ve.Id())
			continue
		}
		specs = append(specs, spec)
	}

	appLog.Info("ics parse completed", "event_count", len(specs))
	return specs, nil
}

func parseVEvent(ve *ical.VEvent) (event.Spec, error) {
	var spec event.Spec

	name := ""
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		name = strings.TrimSpace(p.Value)
	}
	if name == "" {
		return spec, errors.New("missing SUMMARY")
	}
	if !glyph.Printable(name) {
		return spec, fmt.Errorf("SUMMARY %q cannot be shown on the face", name)
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		opt, err := rrule.StrToROption(p.Value)
		if err != nil {
			return spec, fmt.Errorf("RRULE %q: %w", p.Value, err)
		}
		if spec, err = ruleFromOption(opt); err != nil {
			return spec, err
		}
	} else {
		start, err := ve.GetAllDayStartAt()
		if err != nil {
			if start, err = ve.GetStartAt(); err != nil {
				return spec, fmt.Errorf("DTSTART: %w", err)
			}
		}
		spec.Month = int(start.Month())
		spec.Day = start.Day()
	}
	spec.Name = name

	if p := ve.GetProperty(PropYearStarted); p != nil {
		n, err := strconv.Atoi(strings.TrimSpace(p.Value))
		if err != nil {
			return spec, fmt.Errorf("%s: %w", PropYearStarted, err)
		}
		spec.YearStarted = n
	}
	return spec, nil
}
