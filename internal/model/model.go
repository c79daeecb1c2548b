package model

import (
	"fmt"
	"strings"

	"binclock/internal/clock"
	"binclock/internal/event"
	"binclock/internal/glyph"
	"binclock/internal/screen"
)

// Event is the JSON view of one resolved entry of the event table.
type Event struct {
	Name string `json:"name"`
	Rule string `json:"rule"`

	// YearStarted is zero for events without a known first year.
	YearStarted int `json:"year_started,omitempty"`
	Years       int `json:"years,omitempty"`

	// Date is the next occurrence as YYYY-MM-DD.
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
}

// Screen is the JSON view of the clock face.
type Screen struct {
	State    string `json:"state"`
	DateTime string `json:"datetime"`
	Text     string `json:"text,omitempty"`
	Cursor   int    `json:"cursor"`

	// Rows holds one "#"/"." line per pixel row.
	Rows []string `json:"rows"`
}

// Events converts a resolved event table. Unresolved entries are skipped.
func Events(events []event.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		year, ok := e.YearCalculated.Get()
		if !ok {
			continue
		}
		v := Event{
			Name:        e.Name,
			Rule:        e.Rule.String(),
			YearStarted: e.YearStarted,
			Date:        fmt.Sprintf("%04d-%02d-%02d", year, int(e.Month), e.Day),
			Weekday:     e.Weekday.String(),
		}
		if e.HasYearInfo() {
			v.Years = year - e.YearStarted
		}
		out = append(out, v)
	}
	return out
}

// ScreenFrom combines a clock snapshot with the pixels currently shown.
func ScreenFrom(snap clock.Snapshot, rows glyph.Pattern) Screen {
	return Screen{
		State:    snap.State.String(),
		DateTime: snap.DateTime.String(),
		Text:     strings.TrimSpace(snap.Text),
		Cursor:   snap.Cursor,
		Rows:     strings.Split(strings.TrimSuffix(screen.Dump(rows), "\n"), "\n"),
	}
}
