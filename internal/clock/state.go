package clock

import "fmt"

// State is the active face of the clock.
type State int

const (
	Hello State = iota
	ShowTime
	ShowDate
	ShowTimeText
	ShowDateText
	SetTime
	SetDate
	ShowEvents
	ShowEventInfo

	numStates
)

var stateNames = [numStates]string{
	Hello:         "hello",
	ShowTime:      "show_time",
	ShowDate:      "show_date",
	ShowTimeText:  "show_time_text",
	ShowDateText:  "show_date_text",
	SetTime:       "set_time",
	SetDate:       "set_date",
	ShowEvents:    "show_events",
	ShowEventInfo: "show_event_info",
}

func (s State) String() string {
	if s < 0 || s >= numStates {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Valid reports whether s names one of the clock faces.
func (s State) Valid() bool {
	return s >= 0 && s < numStates
}

// handler runs one tick of a state and returns the state for the next tick.
type handler func(*Clock) (State, error)

var handlers = [numStates]handler{
	Hello:         (*Clock).hello,
	ShowTime:      (*Clock).showTime,
	ShowDate:      (*Clock).showDate,
	ShowTimeText:  (*Clock).showTimeText,
	ShowDateText:  (*Clock).showDateText,
	SetTime:       (*Clock).setTime,
	SetDate:       (*Clock).setDate,
	ShowEvents:    (*Clock).showEvents,
	ShowEventInfo: (*Clock).showEventInfo,
}
