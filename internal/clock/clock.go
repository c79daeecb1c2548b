// Package clock is the tick-driven state machine behind the clock face.
//
// A Clock owns its date, its event table and its button state. The host
// calls Update (or Tick) once per loop iteration from a single goroutine;
// the clock never reads the wall clock and never blocks.
package clock

import (
	"fmt"
	"slices"

	"binclock/internal/button"
	"binclock/internal/datetime"
	"binclock/internal/event"
	"binclock/internal/fault"
	"binclock/internal/screen"
)

const (
	DefaultGreeting      = " Hello \x01"
	DefaultAnimationStep = 100
	DefaultBlinkStep     = 500
	DefaultTextLimit     = 64

	// NoEvent is the cursor value that makes the events face seek the
	// event closest to today.
	NoEvent = -1
)

// EventNameLimit returns the longest event name the events face can show
// when scrolled text is limited to textLimit bytes.
func EventNameLimit(textLimit int) int {
	return textLimit - len("  ") - len(" - ") - event.LongestDate
}

// Options configures a Clock. Display is required.
type Options struct {
	Display screen.Display

	// Uptime is a monotonic millisecond counter read by Tick.
	Uptime func() uint32

	// InitDateTime seeds the date. Without it the clock starts at
	// midnight of January 1, screen.MinYear.
	InitDateTime func(*datetime.DateTime)

	// Events is the recurring event table. A nil slice selects
	// event.Personal; an empty one disables events.
	Events []event.Event

	// Greeting scrolls once at start-up. Empty skips the greeting.
	Greeting string

	AnimationStep uint32
	BlinkStep     uint32
	TextLimit     int
}

// Clock is the runtime state of the clock face.
type Clock struct {
	display   screen.Display
	uptime    func() uint32
	greeting  string
	animation uint32
	blink     uint32
	textLimit int

	state       State
	step        int
	frameMillis uint32
	stepMillis  uint32
	lastUptime  uint32
	redraw      bool

	dateTime    datetime.DateTime
	oldDateTime datetime.DateTime
	edit        datetime.DateTime
	buttons     button.Buttons

	text   string
	events []event.Event
	cursor int
}

// New builds a clock, resolves its event table for the current year and
// takes the first uptime reading.
func New(opts Options) (*Clock, error) {
	if opts.Display == nil {
		return nil, fault.InvalidArgument("nil display")
	}

	c := &Clock{
		display:   opts.Display,
		uptime:    opts.Uptime,
		greeting:  opts.Greeting,
		animation: opts.AnimationStep,
		blink:     opts.BlinkStep,
		textLimit: opts.TextLimit,
		cursor:    NoEvent,
		redraw:    true,
		dateTime:  datetime.Date(screen.MinYear, 1, 1),
	}
	if c.animation == 0 {
		c.animation = DefaultAnimationStep
	}
	if c.blink == 0 {
		c.blink = DefaultBlinkStep
	}
	if c.textLimit <= 0 {
		c.textLimit = DefaultTextLimit
	}
	if len(c.greeting) > c.textLimit {
		return nil, fault.Overflow("greeting of %d bytes exceeds %d", len(c.greeting), c.textLimit)
	}

	if opts.InitDateTime != nil {
		opts.InitDateTime(&c.dateTime)
		c.dateTime.Normalize()
	}
	c.oldDateTime = c.dateTime

	if opts.Events == nil {
		c.events = event.Personal()
	} else {
		c.events = slices.Clone(opts.Events)
	}
	if err := event.InitList(c.events, c.dateTime.Year); err != nil {
		return nil, err
	}
	if err := event.UpdateList(c.events, c.dateTime); err != nil {
		return nil, err
	}

	c.state = ShowTime
	if c.greeting != "" {
		c.state = Hello
	}
	if c.uptime != nil {
		c.lastUptime = c.uptime()
	}
	return c, nil
}

// Tick reads the uptime counter and runs Update with the elapsed time.
func (c *Clock) Tick(levels [button.MaxButtons]bool) error {
	if c.uptime == nil {
		return fault.InvalidArgument("no uptime source")
	}
	now := c.uptime()
	delta := UptimeDelta(c.lastUptime, now)
	c.lastUptime = now
	return c.Update(delta, levels)
}

// Update advances the clock by delta milliseconds with the given button
// levels and runs the active state once.
func (c *Clock) Update(delta uint32, levels [button.MaxButtons]bool) error {
	if err := c.buttons.PressAll(levels); err != nil {
		return err
	}

	c.dateTime.AddMillis(uint64(delta))
	c.frameMillis += delta
	c.stepMillis += delta

	if !c.dateTime.SameDate(c.oldDateTime) {
		if err := event.UpdateList(c.events, c.dateTime); err != nil {
			return err
		}
	}

	if !c.state.Valid() {
		return fault.InvalidArgument("%s is not implemented", c.state)
	}
	next, err := handlers[c.state](c)
	if err != nil {
		return fmt.Errorf("%s: %w", c.state, err)
	}
	if next != c.state {
		c.enter(next)
	}

	c.oldDateTime = c.dateTime
	return nil
}

// SetDateTime replaces the current date and time, re-resolving the event
// table when the year changes.
func (c *Clock) SetDateTime(dt datetime.DateTime) error {
	dt.Normalize()
	if dt.Year != c.dateTime.Year {
		if err := event.InitList(c.events, dt.Year); err != nil {
			return err
		}
	}
	if err := event.UpdateList(c.events, dt); err != nil {
		return err
	}
	c.dateTime = dt
	c.redraw = true
	return nil
}

// State returns the active state.
func (c *Clock) State() State { return c.state }

// DateTime returns the current date and time.
func (c *Clock) DateTime() datetime.DateTime { return c.dateTime }

// Snapshot is a copy of the clock's observable state.
type Snapshot struct {
	State    State
	Step     int
	DateTime datetime.DateTime
	Text     string
	Cursor   int
	Events   []event.Event
}

// Snapshot copies the observable state.
func (c *Clock) Snapshot() Snapshot {
	return Snapshot{
		State:    c.state,
		Step:     c.step,
		DateTime: c.dateTime,
		Text:     c.text,
		Cursor:   c.cursor,
		Events:   slices.Clone(c.events),
	}
}

func (c *Clock) enter(next State) {
	if next == ShowEvents && c.state != ShowEventInfo {
		c.cursor = NoEvent
	}
	if next == SetTime || next == SetDate {
		c.edit = c.dateTime
	}
	c.state = next
	c.step = 0
	c.frameMillis = 0
	c.stepMillis = 0
	c.text = ""
	c.redraw = true
}

// click returns the first button released this tick. Only one click is
// acted upon per tick.
func (c *Clock) click() (int, bool) {
	for i := 0; i < button.MaxButtons; i++ {
		if c.buttons.WasClicked(i) {
			return i, true
		}
	}
	return 0, false
}

func (c *Clock) setText(s string) error {
	if len(s) > c.textLimit {
		return fault.Overflow("text of %d bytes exceeds %d", len(s), c.textLimit)
	}
	c.text = s
	c.step = 0
	return nil
}

// scroll draws the next column of c.text when an animation step is due.
// The first call after a transition draws immediately.
func (c *Clock) scroll() (done bool, err error) {
	switch {
	case c.redraw:
		c.redraw = false
	case c.frameMillis < c.animation:
		return false, nil
	default:
		c.frameMillis %= c.animation
	}

	p, last, err := screen.SlideText(c.text, c.step)
	if err != nil {
		return false, err
	}
	if err := screen.DrawPattern(c.display, p); err != nil {
		return false, err
	}
	if last {
		c.step = 0
		return true, nil
	}
	c.step++
	return false, nil
}
