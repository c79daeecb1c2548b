package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binclock/internal/clock"
	"binclock/internal/datetime"
	"binclock/internal/event"
	"binclock/internal/glyph"
)

func TestEvents(t *testing.T) {
	events := event.Personal()
	require.NoError(t, event.InitList(events, 2013))
	events = append(events, event.New("Unresolved", 0, event.DayOfYear{Ordinal: 1}))

	got := Events(events)
	require.Len(t, got, 6)
	assert.Equal(t, Event{
		Name:        "Thanksgiving",
		Rule:        "Thursday 4 in November",
		YearStarted: 1574,
		Years:       439,
		Date:        "2013-11-28",
		Weekday:     "Thursday",
	}, got[4])

	data, err := json.Marshal(got[5])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Christmas","rule":"December 25","date":"2013-12-25","weekday":"Wednesday"}`, string(data))
}

func TestScreenFrom(t *testing.T) {
	snap := clock.Snapshot{
		State:    clock.ShowEvents,
		DateTime: datetime.DateTime{Year: 2013, Month: time.November, Day: 28, Hour: 13, Minute: 37, Second: 42},
		Text:     " Christmas - Dec 25 2013 Wednesday ",
		Cursor:   5,
	}
	one, _ := glyph.Lookup('1')

	got := ScreenFrom(snap, one)
	assert.Equal(t, "show_events", got.State)
	assert.Equal(t, "2013-11-28 13:37:42.000", got.DateTime)
	assert.Equal(t, "Christmas - Dec 25 2013 Wednesday", got.Text)
	assert.Equal(t, []string{
		"....#...",
		"...##...",
		"..#.#...",
		"....#...",
		"....#...",
		"....#...",
		"....#...",
		"........",
	}, got.Rows)
}
