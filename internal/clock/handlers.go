package clock

import (
	"time"

	"binclock/internal/button"
	"binclock/internal/datetime"
	"binclock/internal/event"
	"binclock/internal/glyph"
	"binclock/internal/screen"
)

// Fields edited by SetTime and SetDate, in the order SET walks them.
const editFields = 3

func (c *Clock) hello() (State, error) {
	if c.text == "" {
		if err := c.setText(c.greeting); err != nil {
			return c.state, err
		}
	}
	done, err := c.scroll()
	if err != nil || !done {
		return c.state, err
	}
	return ShowTime, nil
}

func (c *Clock) showTime() (State, error) {
	if b, ok := c.click(); ok {
		switch b {
		case button.Mode:
			return ShowDate, nil
		case button.Set:
			return SetTime, nil
		}
	}
	if !c.redraw && c.dateTime.SameTime(c.oldDateTime) {
		return c.state, nil
	}
	if c.redraw {
		if err := c.display.Clear(); err != nil {
			return c.state, err
		}
		c.redraw = false
	}
	return c.state, screen.DisplayTime(c.display, c.dateTime)
}

func (c *Clock) showDate() (State, error) {
	if b, ok := c.click(); ok {
		switch b {
		case button.Mode:
			return ShowTimeText, nil
		case button.Set:
			return SetDate, nil
		}
	}
	if !c.redraw && c.dateTime.SameDate(c.oldDateTime) {
		return c.state, nil
	}
	if c.redraw {
		if err := c.display.Clear(); err != nil {
			return c.state, err
		}
		c.redraw = false
	}
	return c.state, screen.DisplayDate(c.display, c.dateTime)
}

func (c *Clock) showTimeText() (State, error) {
	if b, ok := c.click(); ok {
		switch b {
		case button.Mode:
			return ShowDateText, nil
		case button.Set:
			return SetTime, nil
		}
	}
	return c.state, c.scrollClock(datetime.DateTime.TimeString)
}

func (c *Clock) showDateText() (State, error) {
	if b, ok := c.click(); ok {
		switch b {
		case button.Mode:
			return ShowEvents, nil
		case button.Set:
			return SetDate, nil
		}
	}
	return c.state, c.scrollClock(datetime.DateTime.DateString)
}

// scrollClock scrolls the current time or date, formatting it afresh each
// time the previous text has scrolled off.
func (c *Clock) scrollClock(format func(datetime.DateTime) (string, error)) error {
	if c.text == "" {
		s, err := format(c.dateTime)
		if err != nil {
			return err
		}
		if err := c.setText(" " + s + " "); err != nil {
			return err
		}
	}
	done, err := c.scroll()
	if done {
		c.text = ""
	}
	return err
}

func (c *Clock) setTime() (State, error) {
	if b, ok := c.click(); ok {
		switch b {
		case button.Mode:
			return ShowTime, nil
		case button.Left, button.Right:
			c.adjustTime(b == button.Right)
		case button.Set:
			c.step += 2
			if c.step > 2*editFields-1 {
				c.dateTime.Hour = c.edit.Hour
				c.dateTime.Minute = c.edit.Minute
				c.dateTime.Second = c.edit.Second
				c.dateTime.Millisecond = 0
				return ShowTime, nil
			}
			c.redraw = true
		}
	}
	return c.state, c.drawEdit(screen.DisplayTime)
}

func (c *Clock) adjustTime(up bool) {
	d := -1
	if up {
		d = 1
	}
	switch c.step / 2 {
	case 0:
		c.edit.Hour = wrap(c.edit.Hour+d, 0, datetime.HoursInDay-1)
	case 1:
		c.edit.Minute = wrap(c.edit.Minute+d, 0, datetime.MinutesInHour-1)
	case 2:
		c.edit.Second = wrap(c.edit.Second+d, 0, datetime.SecondsInMinute-1)
	}
	c.redraw = true
}

func (c *Clock) setDate() (State, error) {
	if b, ok := c.click(); ok {
		switch b {
		case button.Mode:
			return ShowDate, nil
		case button.Left, button.Right:
			if err := c.adjustDate(b == button.Right); err != nil {
				return c.state, err
			}
		case button.Set:
			c.step += 2
			if c.step > 2*editFields-1 {
				return ShowDate, c.commitDate()
			}
			c.redraw = true
		}
	}
	return c.state, c.drawEdit(screen.DisplayDate)
}

func (c *Clock) adjustDate(up bool) error {
	d := -1
	if up {
		d = 1
	}
	switch c.step / 2 {
	case 0:
		c.edit.Month = time.Month(wrap(int(c.edit.Month)+d, int(time.January), int(time.December)))
	case 1:
		days, err := datetime.DaysInMonth(c.edit.Year, c.edit.Month)
		if err != nil {
			return err
		}
		c.edit.Day = wrap(c.edit.Day+d, 1, days)
	case 2:
		c.edit.Year = wrap(c.edit.Year+d, screen.MinYear, screen.MaxYear)
	}

	days, err := datetime.DaysInMonth(c.edit.Year, c.edit.Month)
	if err != nil {
		return err
	}
	c.edit.Day = min(c.edit.Day, days)
	c.redraw = true
	return nil
}

func (c *Clock) commitDate() error {
	yearChanged := c.edit.Year != c.dateTime.Year
	c.dateTime.Year = c.edit.Year
	c.dateTime.Month = c.edit.Month
	c.dateTime.Day = c.edit.Day

	if yearChanged {
		if err := event.InitList(c.events, c.dateTime.Year); err != nil {
			return err
		}
	}
	return event.UpdateList(c.events, c.dateTime)
}

// drawEdit shows the value being edited and blanks the selected field on
// odd steps.
func (c *Clock) drawEdit(draw func(screen.Display, datetime.DateTime) error) error {
	if c.stepMillis >= c.blink {
		c.stepMillis %= c.blink
		c.step ^= 1
		c.redraw = true
	}
	if !c.redraw {
		return nil
	}
	c.redraw = false

	if err := c.display.Clear(); err != nil {
		return err
	}
	if err := draw(c.display, c.edit); err != nil {
		return err
	}
	if c.step%2 == 1 {
		pos := (c.step / 2) * (screen.BinaryWidth + 1)
		return screen.DisplayBinaryNumber(c.display, 0, screen.BinaryWidth, pos)
	}
	return nil
}

func (c *Clock) showEvents() (State, error) {
	if len(c.events) == 0 {
		return c.noEvents()
	}
	if c.cursor == NoEvent {
		i, err := event.FindClosest(c.events, c.dateTime.Month, c.dateTime.Day)
		if err != nil {
			return c.state, err
		}
		c.cursor = i
	}

	if b, ok := c.click(); ok {
		switch b {
		case button.Mode:
			return ShowTime, nil
		case button.Set:
			return ShowEventInfo, nil
		case button.Left, button.Right:
			c.moveCursor(b == button.Right)
		}
	}

	if c.text == "" {
		s, err := c.events[c.cursor].String(c.textLimit - 2)
		if err != nil {
			return c.state, err
		}
		if err := c.setText(" " + s + " "); err != nil {
			return c.state, err
		}
	}
	done, err := c.scroll()
	if err != nil {
		return c.state, err
	}
	if done {
		c.moveCursor(true)
	}
	return c.state, nil
}

func (c *Clock) showEventInfo() (State, error) {
	if len(c.events) == 0 || c.cursor == NoEvent {
		return ShowEvents, nil
	}

	if b, ok := c.click(); ok {
		switch b {
		case button.Mode, button.Set:
			return ShowEvents, nil
		case button.Left, button.Right:
			c.moveCursor(b == button.Right)
		}
	}

	if c.text == "" {
		e := c.events[c.cursor]
		s := e.Rule.String()
		if e.HasYearInfo() {
			var err error
			if s, err = e.YearInfo(c.textLimit - 2); err != nil {
				return c.state, err
			}
		}
		if err := c.setText(" " + s + " "); err != nil {
			return c.state, err
		}
	}
	done, err := c.scroll()
	if err != nil || !done {
		return c.state, err
	}
	return ShowEvents, nil
}

func (c *Clock) noEvents() (State, error) {
	if b, ok := c.click(); ok && b == button.Mode {
		return ShowTime, nil
	}
	if !c.redraw {
		return c.state, nil
	}
	c.redraw = false
	sad, _ := glyph.Lookup(glyph.Sad)
	return c.state, screen.DrawPattern(c.display, sad)
}

func (c *Clock) moveCursor(forward bool) {
	n := len(c.events)
	if forward {
		c.cursor = (c.cursor + 1) % n
	} else {
		c.cursor = (c.cursor - 1 + n) % n
	}
	c.text = ""
	c.redraw = true
}

// wrap folds v into [lo, hi] when it steps one past either end.
func wrap(v, lo, hi int) int {
	switch {
	case v < lo:
		return hi
	case v > hi:
		return lo
	default:
		return v
	}
}
