package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binclock/internal/fault"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2012, time.February, 29},
		{2013, time.February, 28},
		{2013, time.January, 31},
		{2013, time.April, 30},
		{2013, time.December, 31},
		// year%4 rule without the century exception.
		{1900, time.February, 29},
	}
	for _, tt := range tests {
		got, err := DaysInMonth(tt.year, tt.month)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%d-%s", tt.year, tt.month)
	}
}

func TestDaysInMonth_RejectsBadMonth(t *testing.T) {
	_, err := DaysInMonth(2013, 0)
	assert.ErrorIs(t, err, fault.ErrRange)

	_, err = DaysInMonth(2013, 13)
	assert.ErrorIs(t, err, fault.ErrRange)
}

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, time.Saturday, DayOfWeek(2000, time.January, 1))
	assert.Equal(t, time.Monday, DayOfWeek(1582, time.October, 4))
	assert.Equal(t, time.Friday, DayOfWeek(2013, time.September, 13))
	assert.Equal(t, time.Friday, DayOfWeek(2013, time.November, 1))
	assert.Equal(t, time.Wednesday, DayOfWeek(2013, time.July, 31))
	assert.Equal(t, time.Tuesday, DayOfWeek(2013, time.January, 1))
}

func TestDayOfWeek_MatchesTimePackage(t *testing.T) {
	start := time.Date(1999, time.December, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i)
		assert.Equal(t, d.Weekday(), DayOfWeek(d.Year(), d.Month(), d.Day()), d.Format("2006-01-02"))
	}
}

func TestAddMillis(t *testing.T) {
	dt := DateTime{Year: 2013, Month: time.November, Day: 18, Hour: 22, Minute: 6, Second: 34}
	want := dt

	dt.AddMillis(0)
	assert.Equal(t, want, dt)

	dt.AddMillis(1000 * (26 + 53*60))
	want.Hour, want.Minute, want.Second = 23, 0, 0
	assert.Equal(t, want, dt)

	dt.AddMillis(1000*((((40*24+20)*60+15)*60)+35) + 999)
	want = DateTime{Year: 2013, Month: time.December, Day: 29, Hour: 19, Minute: 15, Second: 35, Millisecond: 999}
	assert.Equal(t, want, dt)

	dt.AddMillis(MillisInDay*34 + 1)
	want = DateTime{Year: 2014, Month: time.February, Day: 1, Hour: 19, Minute: 15, Second: 36}
	assert.Equal(t, want, dt)

	dt.AddMillis(MillisInDay * 28)
	want.Month, want.Day = time.March, 1
	assert.Equal(t, want, dt)

	leap := Date(2012, time.February, 1)
	leap.AddMillis(MillisInDay * 28)
	assert.Equal(t, Date(2012, time.February, 29), leap)
}

func TestAddMillis_ManyDays(t *testing.T) {
	dt := Date(2013, time.January, 1)
	dt.AddMillis(MillisInDay * 400)
	assert.Equal(t, Date(2014, time.February, 5), dt)
}

func TestNormalize_Overflows(t *testing.T) {
	dt := DateTime{Year: 2013, Month: time.November, Day: 18, Hour: 22, Minute: 6, Second: 120}
	dt.Normalize()
	assert.Equal(t, DateTime{Year: 2013, Month: time.November, Day: 18, Hour: 22, Minute: 8}, dt)

	dt = DateTime{Year: 2013, Month: 31, Day: 180, Hour: 220, Minute: 68, Second: 10000, Millisecond: 5001}
	dt.Normalize()
	assert.Equal(t, DateTime{Year: 2016, Month: time.January, Day: 5, Hour: 7, Minute: 54, Second: 45, Millisecond: 1}, dt)
}

func TestNormalize_Underflows(t *testing.T) {
	dt := Date(2013, time.February, 0)
	dt.Normalize()
	assert.Equal(t, Date(2013, time.January, 31), dt)

	dt = Date(2013, time.March, -1)
	dt.Normalize()
	assert.Equal(t, Date(2013, time.February, 27), dt)

	dt = DateTime{Year: 2014, Month: time.January, Day: 1, Millisecond: -1}
	dt.Normalize()
	assert.Equal(t, DateTime{Year: 2013, Month: time.December, Day: 31, Hour: 23, Minute: 59, Second: 59, Millisecond: 999}, dt)

	dt = DateTime{Year: 2013, Month: -1, Day: 1, Minute: -61}
	dt.Normalize()
	assert.Equal(t, DateTime{Year: 2012, Month: time.October, Day: 31, Hour: 22, Minute: 59}, dt)
}

func TestNormalize_Idempotent(t *testing.T) {
	values := []int{-1000, -367, -61, -25, -13, -1, 0, 1, 11, 12, 13, 24, 59, 60, 61, 400, 1001}
	for _, v := range values {
		for _, field := range []string{"month", "day", "hour", "minute", "second", "ms"} {
			dt := Date(2013, time.June, 15)
			switch field {
			case "month":
				dt.Month = time.Month(v)
			case "day":
				dt.Day = v
			case "hour":
				dt.Hour = v
			case "minute":
				dt.Minute = v
			case "second":
				dt.Second = v
			case "ms":
				dt.Millisecond = v
			}

			once := dt
			once.Normalize()
			twice := once
			twice.Normalize()
			assert.Equal(t, once, twice, "%s=%d", field, v)

			_, err := once.DateString()
			assert.NoError(t, err, "%s=%d normalized to %s", field, v, once)
		}
	}
}

func TestTimeString(t *testing.T) {
	s, err := DateTime{Hour: 7, Minute: 5, Second: 9}.TimeString()
	require.NoError(t, err)
	assert.Equal(t, "07:05:09", s)

	_, err = DateTime{Hour: 24}.TimeString()
	assert.ErrorIs(t, err, fault.ErrRange)

	_, err = DateTime{Minute: -1}.TimeString()
	assert.ErrorIs(t, err, fault.ErrRange)

	_, err = DateTime{Second: 60}.TimeString()
	assert.ErrorIs(t, err, fault.ErrRange)
}

func TestDateString(t *testing.T) {
	s, err := Date(2013, time.November, 28).DateString()
	require.NoError(t, err)
	assert.Equal(t, "Nov 28 2013 Thursday", s)

	_, err = Date(2013, time.February, 29).DateString()
	assert.ErrorIs(t, err, fault.ErrRange)

	_, err = Date(10000, time.January, 1).DateString()
	assert.ErrorIs(t, err, fault.ErrRange)

	_, err = Date(2013, 13, 1).DateString()
	assert.ErrorIs(t, err, fault.ErrRange)
}

func TestFromTime(t *testing.T) {
	ts := time.Date(2013, time.November, 18, 22, 6, 34, 250*int(time.Millisecond), time.UTC)
	assert.Equal(t, DateTime{Year: 2013, Month: time.November, Day: 18, Hour: 22, Minute: 6, Second: 34, Millisecond: 250}, FromTime(ts))
}
