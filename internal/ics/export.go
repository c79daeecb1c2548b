// Package ics moves event tables in and out of iCalendar files.
//
// Export writes one yearly recurring all-day VEVENT per event, Parse reads
// such a calendar back into event specs, and Verify cross-checks the
// resolver against an independent RRULE expansion.
package ics

import (
	"fmt"
	"slices"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"binclock/internal/event"
)

const (
	ProductID = "-//binclock//event table//EN"

	// PropYearStarted carries event.Event.YearStarted.
	PropYearStarted = ical.ComponentProperty("X-BINCLOCK-YEAR-STARTED")
)

// uidSpace namespaces the name-based event UIDs.
var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("binclock:event"))

// UID returns a stable identifier for e, derived from its name and rule.
func UID(e event.Event) string {
	return uuid.NewSHA1(uidSpace, []byte(e.Name+"\x00"+e.Rule.String())).String() + "@binclock"
}

// Export renders events as an iCalendar document whose DTSTART values fall
// in year. stamp becomes DTSTAMP of every VEVENT.
func Export(events []event.Event, year int, stamp time.Time) ([]byte, error) {
	table := slices.Clone(events)
	if err := event.InitList(table, year); err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ical.MethodPublish)

	for _, e := range table {
		dt, err := e.Date()
		if err != nil {
			return nil, err
		}
		rrule, err := RRule(e.Rule)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", e.Name, err)
		}

		start := time.Date(dt.Year, dt.Month, dt.Day, 0, 0, 0, 0, time.UTC)
		ve := cal.AddEvent(UID(e))
		ve.SetSummary(e.Name)
		ve.SetDescription(e.Rule.String())
		ve.SetDtStampTime(stamp.UTC())
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(start.AddDate(0, 0, 1))
		ve.AddRrule(rrule)
		if e.HasYearInfo() {
			ve.SetProperty(PropYearStarted, fmt.Sprint(e.YearStarted))
		}
	}
	return []byte(cal.Serialize()), nil
}
