package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"binclock/internal/config"
	appLog "binclock/internal/log"
	"binclock/internal/matrix"
	"binclock/internal/runner"
	"binclock/internal/web"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	Listen     string
	NoHardware bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the LED matrix and buttons",
		Long: `Run the clock on the configured hardware until SIGINT or SIGTERM.

The status API is served on the configured listen address unless it is
empty.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = opts.Listen
			}
			if opts.NoHardware {
				cfg.Display.Driver = config.DriverNone
				cfg.Buttons.Driver = config.DriverNone
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runClock(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "HTTP listen address (overrides config; empty disables)")
	cmd.Flags().BoolVar(&opts.NoHardware, "no-hardware", false, "do not touch SPI or GPIO")

	return cmd
}

func runClock(ctx context.Context, cfg *config.Config) (err error) {
	appLog.Info("binclock starting",
		"listen", cfg.Listen,
		"timezone", cfg.Timezone,
		"display", cfg.Display.Driver,
		"buttons", cfg.Buttons.Driver,
		"tick_millis", cfg.TickMillis,
		"events", len(cfg.Events),
	)

	opts := runner.Options{Config: cfg}

	if cfg.Display.Driver == config.DriverMAX7219 {
		m, oerr := matrix.Open(cfg.Display.SPIPort, cfg.Display.Brightness)
		if oerr != nil {
			return oerr
		}
		defer func() {
			if cerr := m.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}()
		opts.Display = m
	}
	if cfg.Buttons.Driver == config.DriverGPIO {
		b, oerr := matrix.OpenButtons(cfg.Buttons.Pins)
		if oerr != nil {
			return oerr
		}
		opts.Levels = b.Levels
	}

	r, err := runner.New(opts)
	if err != nil {
		return err
	}

	// 둘 중 하나가 끝나면 나머지도 멈춘다.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := 1
	errCh := make(chan error, 2)
	go func() { errCh <- r.Run(ctx) }()
	if cfg.Listen != "" {
		n++
		go func() { errCh <- web.StartServer(ctx, cfg, r) }()
	}

	var errs []error
	for i := 0; i < n; i++ {
		if e := <-errCh; e != nil {
			errs = append(errs, e)
		}
		cancel()
	}
	appLog.Info("binclock exiting")
	return errors.Join(errs...)
}
