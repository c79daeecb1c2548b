package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binclock/internal/event"
)

var stamp = time.Date(2013, time.November, 28, 12, 0, 0, 0, time.UTC)

func TestRRule(t *testing.T) {
	s, err := RRule(event.DayOfMonth{Month: time.December, Day: 25})
	require.NoError(t, err)
	assert.Equal(t, "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25", s)

	s, err = RRule(event.DayOfYear{Ordinal: 256})
	require.NoError(t, err)
	assert.Equal(t, "FREQ=YEARLY;BYYEARDAY=256", s)

	s, err = RRule(event.WeekdayRule{Month: time.July, Weekday: time.Friday, FromEnd: true})
	require.NoError(t, err)
	assert.Contains(t, s, "BYMONTH=7")
	assert.Contains(t, s, "-1FR")

	_, err = RRule(event.WeekdayRule{Month: time.July, Weekday: 9})
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	body, err := Export(event.Personal(), 2013, stamp)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, ProductID)
	assert.Equal(t, 6, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:Thanksgiving")
	assert.Contains(t, out, "20131128")
	assert.Contains(t, out, "X-BINCLOCK-YEAR-STARTED:1574")
	assert.Contains(t, out, "RRULE:FREQ=YEARLY;BYYEARDAY=256")
}

func TestExport_StableUIDs(t *testing.T) {
	a, err := Export(event.Personal(), 2013, stamp)
	require.NoError(t, err)
	b, err := Export(event.Personal(), 2013, stamp)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	xmas := event.New("Christmas", 0, event.DayOfMonth{Month: time.December, Day: 25})
	assert.Equal(t, UID(xmas), UID(xmas))
	assert.NotEqual(t, UID(xmas), UID(event.New("Christmas eve", 0, xmas.Rule)))
}

func TestExport_DoesNotTouchInput(t *testing.T) {
	events := event.Personal()
	_, err := Export(events, 2013, stamp)
	require.NoError(t, err)
	assert.False(t, events[0].YearCalculated.IsPresent())
}

func TestExportParse_RoundTrip(t *testing.T) {
	body, err := Export(event.Personal(), 2013, stamp)
	require.NoError(t, err)

	specs, err := Parse(body)
	require.NoError(t, err)

	want := []event.Spec{
		{Name: "New year", Month: 1, Day: 1},
		{Name: "Fool's day", YearStarted: 1392, Month: 4, Day: 1},
		{Name: "Sysadmin day", YearStarted: 2000, Month: 7, Weekday: "Friday", FromEnd: true},
		{Name: "Programmer's day", YearStarted: 2009, DayOfYear: 256},
		{Name: "Thanksgiving", YearStarted: 1574, Month: 11, Weekday: "Thursday", Nth: 3},
		{Name: "Christmas", Month: 12, Day: 25},
	}
	assert.Equal(t, want, specs)

	events, err := event.FromSpecs(specs)
	require.NoError(t, err)
	for i, e := range events {
		assert.Equal(t, event.Personal()[i].Rule, e.Rule, e.Name)
	}
}

func TestParse_WithoutRRule(t *testing.T) {
	body := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:a@test",
		"DTSTAMP:20130101T000000Z",
		"DTSTART;VALUE=DATE:19830517",
		"SUMMARY:Birthday",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:b@test",
		"DTSTAMP:20130101T000000Z",
		"DTSTART;VALUE=DATE:20130101",
		"RRULE:FREQ=MONTHLY;BYMONTHDAY=1",
		"SUMMARY:Rent",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:d@test",
		"DTSTAMP:20130101T000000Z",
		"DTSTART;VALUE=DATE:20130301",
		"SUMMARY:50% off",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:c@test",
		"DTSTAMP:20130101T000000Z",
		"DTSTART;VALUE=DATE:20130101",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	specs, err := Parse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, []event.Spec{{Name: "Birthday", Month: 5, Day: 17}}, specs)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)
}

func TestVerify_Personal(t *testing.T) {
	mismatches, err := Verify(event.Personal(), 2000, 2099)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestVerify_LeapDay(t *testing.T) {
	leap := []event.Event{event.New("Leap day", 0, event.DayOfMonth{Month: time.February, Day: 29})}
	mismatches, err := Verify(leap, 2000, 2010)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestVerify_CenturyYear(t *testing.T) {
	prog := []event.Event{event.New("Programmer's day", 2009, event.DayOfYear{Ordinal: 256})}
	mismatches, err := Verify(prog, 2099, 2101)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, Mismatch{Event: "Programmer's day", Year: 2100, Resolved: "2100-09-12", Expanded: "2100-09-13"}, mismatches[0])
	assert.Equal(t, "Programmer's day 2100: resolved 2100-09-12, rrule 2100-09-13", mismatches[0].String())
}

func TestFetch_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cal.ics" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("BEGIN:VCALENDAR"))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second)
	body, err := f.Fetch(context.Background(), srv.URL+"/cal.ics")
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR", string(body))

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.ics")
	assert.ErrorContains(t, err, "404")
}

func TestFetch_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cal.ics")
	require.NoError(t, os.WriteFile(path, []byte("local"), 0o600))

	body, err := NewFetcher(0).Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "local", string(body))

	_, err = NewFetcher(0).Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://example.com/...(redacted)", redactURL("https://example.com/private/abc.ics?token=x"))
	assert.Equal(t, "ics://...(redacted)", redactURL("not a url"))
}
