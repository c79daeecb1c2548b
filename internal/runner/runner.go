// Package runner hosts a clock.Clock: it feeds it uptime and button levels
// on a fixed tick, resyncs it with the wall clock on a cron schedule and
// publishes snapshots for the web API and the terminal emulator.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"binclock/internal/button"
	"binclock/internal/clock"
	"binclock/internal/config"
	"binclock/internal/convert"
	"binclock/internal/datetime"
	"binclock/internal/fault"
	"binclock/internal/glyph"
	appLog "binclock/internal/log"
	"binclock/internal/screen"
)

// ClickQueue is how many virtual clicks may wait for the tick loop.
const ClickQueue = 16

// Options configures a Runner. Config is required.
type Options struct {
	Config *config.Config

	// Display receives every pixel in addition to the in-memory frame.
	Display screen.Display

	// Levels samples hardware buttons once per tick.
	Levels func() [button.MaxButtons]bool

	// Now is the wall clock, time.Now by default.
	Now func() time.Time
}

// Runner owns a clock and its frame. Step and Run must be called from one
// goroutine; Snapshot, Rows, Click and Resync are safe from any.
type Runner struct {
	cfg    *config.Config
	loc    *time.Location
	now    func() time.Time
	start  time.Time
	levels func() [button.MaxButtons]bool

	frame *screen.Frame
	clk   *clock.Clock

	clicks chan int
	held   int
	resync chan struct{}

	mu   sync.RWMutex
	snap clock.Snapshot
}

// New builds the clock from cfg, seeded with the wall clock in the
// configured time zone.
func New(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, fault.InvalidArgument("nil config")
	}
	r := &Runner{
		cfg:    opts.Config,
		loc:    opts.Config.Location(),
		now:    opts.Now,
		levels: opts.Levels,
		frame:  screen.NewFrame(),
		clicks: make(chan int, ClickQueue),
		held:   -1,
		resync: make(chan struct{}, 1),
	}
	if r.now == nil {
		r.now = time.Now
	}
	r.start = r.now()

	events, err := r.cfg.EventTable()
	if err != nil {
		return nil, err
	}

	var display screen.Display = r.frame
	if opts.Display != nil {
		display = screen.Tee{r.frame, opts.Display}
	}

	r.clk, err = clock.New(clock.Options{
		Display:       display,
		Uptime:        r.uptime,
		InitDateTime:  func(dt *datetime.DateTime) { *dt = r.wallClock() },
		Events:        events,
		Greeting:      r.cfg.Greeting,
		AnimationStep: uint32(r.cfg.AnimationMillis),
		BlinkStep:     uint32(r.cfg.BlinkMillis),
	})
	if err != nil {
		return nil, err
	}
	r.publish()
	return r, nil
}

// uptime wraps like a 32-bit millisecond counter.
func (r *Runner) uptime() uint32 {
	return uint32(r.now().Sub(r.start).Milliseconds())
}

func (r *Runner) wallClock() datetime.DateTime {
	return datetime.FromTime(r.now().In(r.loc))
}

// Step runs one tick of the clock.
func (r *Runner) Step() error {
	var levels [button.MaxButtons]bool
	if r.levels != nil {
		levels = r.levels()
	}

	// 가상 클릭: 한 틱 동안 누르고 다음 틱에 뗀다.
	if r.held >= 0 {
		r.held = -1
	} else {
		select {
		case i := <-r.clicks:
			r.held = i
			levels[i] = true
		default:
		}
	}

	before := r.clk.State()
	if err := r.clk.Tick(levels); err != nil {
		return err
	}
	if after := r.clk.State(); after != before {
		appLog.Debug("state changed", "from", before.String(), "to", after.String())
	}

	// Tick 이후에 맞춰야 경과 시간이 두 번 더해지지 않는다.
	select {
	case <-r.resync:
		if err := r.clk.SetDateTime(r.wallClock()); err != nil {
			return err
		}
		appLog.Info("clock resynced", "datetime", r.clk.DateTime().String())
	default:
	}
	r.publish()
	return nil
}

// Run ticks the clock every cfg.TickMillis until ctx is cancelled or a
// tick fails.
func (r *Runner) Run(ctx context.Context) error {
	if r.cfg.Resync != "" {
		c := cron.New(cron.WithLocation(r.loc))
		if _, err := c.AddFunc(r.cfg.Resync, r.Resync); err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
		appLog.Info("resync scheduled", "cron", r.cfg.Resync, "timezone", r.loc.String())
	}

	ticker := time.NewTicker(time.Duration(r.cfg.TickMillis) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Step(); err != nil {
				appLog.Error("clock tick failed", err, "state", r.clk.State().String())
				return err
			}
		}
	}
}

// Resync asks the tick loop to reload the wall clock after its next tick.
func (r *Runner) Resync() {
	select {
	case r.resync <- struct{}{}:
	default:
	}
}

// Click queues a press and release of button i.
func (r *Runner) Click(i int) error {
	if i < 0 || i >= button.MaxButtons {
		return fault.Range("button %d should be in [0..%d)", i, button.MaxButtons)
	}
	select {
	case r.clicks <- i:
		return nil
	default:
		return fault.Overflow("click queue full")
	}
}

// Snapshot returns the state published by the last tick.
func (r *Runner) Snapshot() clock.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Rows packs the framebuffer into row bytes.
func (r *Runner) Rows() glyph.Pattern {
	rows, err := convert.PackRows(r.frame.Image())
	if err != nil {
		appLog.Error("frame pack failed", err)
		return r.frame.Rows()
	}
	return rows
}

func (r *Runner) publish() {
	snap := r.clk.Snapshot()
	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()
}
