package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binclock/internal/button"
	"binclock/internal/clock"
	"binclock/internal/config"
	"binclock/internal/datetime"
	"binclock/internal/fault"
	"binclock/internal/glyph"
	"binclock/internal/screen"
)

type fakeWall struct{ t time.Time }

func (f *fakeWall) Now() time.Time          { return f.t }
func (f *fakeWall) Advance(d time.Duration) { f.t = f.t.Add(d) }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Greeting = ""
	cfg.Timezone = "Asia/Seoul"
	return cfg
}

func newRunner(t *testing.T, opts Options) (*Runner, *fakeWall) {
	t.Helper()
	wall := &fakeWall{t: time.Date(2013, time.November, 28, 4, 37, 42, 0, time.UTC)}
	if opts.Config == nil {
		opts.Config = testConfig()
	}
	opts.Now = wall.Now
	r, err := New(opts)
	require.NoError(t, err)
	return r, wall
}

func TestNew_SeedsLocalTime(t *testing.T) {
	r, _ := newRunner(t, Options{})
	snap := r.Snapshot()
	assert.Equal(t, datetime.DateTime{Year: 2013, Month: time.November, Day: 28, Hour: 13, Minute: 37, Second: 42}, snap.DateTime)
	assert.Equal(t, clock.ShowTime, snap.State)
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
}

func TestStep_AdvancesAndDraws(t *testing.T) {
	r, wall := newRunner(t, Options{})
	wall.Advance(1500 * time.Millisecond)
	require.NoError(t, r.Step())

	assert.Equal(t, datetime.DateTime{Year: 2013, Month: time.November, Day: 28, Hour: 13, Minute: 37, Second: 43, Millisecond: 500}, r.Snapshot().DateTime)
	assert.NotEqual(t, glyph.Blank, r.Rows())
}

func TestStep_MirrorsDisplay(t *testing.T) {
	hw := screen.NewFrame()
	r, _ := newRunner(t, Options{Display: hw})
	require.NoError(t, r.Step())
	assert.Equal(t, r.Rows(), hw.Rows())
}

func TestClick_PressThenRelease(t *testing.T) {
	r, _ := newRunner(t, Options{})
	require.NoError(t, r.Click(button.Mode))

	require.NoError(t, r.Step())
	assert.Equal(t, clock.ShowTime, r.Snapshot().State)

	require.NoError(t, r.Step())
	assert.Equal(t, clock.ShowDate, r.Snapshot().State)
}

func TestClick_Errors(t *testing.T) {
	r, _ := newRunner(t, Options{})
	assert.ErrorIs(t, r.Click(button.MaxButtons), fault.ErrRange)
	assert.ErrorIs(t, r.Click(-1), fault.ErrRange)

	for i := 0; i < ClickQueue; i++ {
		require.NoError(t, r.Click(button.Left))
	}
	assert.ErrorIs(t, r.Click(button.Left), fault.ErrOverflow)
}

func TestStep_HardwareLevels(t *testing.T) {
	var levels [button.MaxButtons]bool
	r, _ := newRunner(t, Options{Levels: func() [button.MaxButtons]bool { return levels }})

	levels[button.Set] = true
	require.NoError(t, r.Step())
	levels[button.Set] = false
	require.NoError(t, r.Step())
	assert.Equal(t, clock.SetTime, r.Snapshot().State)
}

func TestResync(t *testing.T) {
	r, wall := newRunner(t, Options{})
	require.NoError(t, r.clk.SetDateTime(datetime.Date(2000, time.January, 1)))

	r.Resync()
	r.Resync()
	wall.Advance(time.Second)
	require.NoError(t, r.Step())
	assert.Equal(t, datetime.DateTime{Year: 2013, Month: time.November, Day: 28, Hour: 13, Minute: 37, Second: 43}, r.Snapshot().DateTime)
	assert.Len(t, r.Snapshot().Events, len(r.clk.Snapshot().Events))
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.TickMillis = 1
	r, err := New(Options{Config: cfg})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, r.Run(ctx))
}

func TestRun_BadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Resync = "not a schedule"
	r, err := New(Options{Config: cfg})
	require.NoError(t, err)
	assert.Error(t, r.Run(context.Background()))
}
