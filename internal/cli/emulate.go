package cli

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/spf13/cobra"

	appLog "binclock/internal/log"
	"binclock/internal/runner"
	"binclock/internal/tui"
	"binclock/internal/web"
)

// EmulateOptions holds flags for the emulate command.
type EmulateOptions struct {
	Listen string
}

// NewEmulateCommand creates the emulate command.
func NewEmulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmulateOptions{}

	cmd := &cobra.Command{
		Use:   "emulate",
		Short: "Run the clock in the terminal",
		Long: `Emulate the LED matrix in the terminal. Keys 1-4 (or m, arrows, enter)
act as the mode, left, right and set buttons; q quits.

With --listen the status API runs alongside, so its button endpoints
drive the emulated clock too.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			r, err := runner.New(runner.Options{Config: cfg})
			if err != nil {
				return err
			}

			// 주소가 이미 쓰이고 있으면 화면을 띄우기 전에 실패한다.
			var ln net.Listener
			if opts.Listen != "" {
				cfg.Listen = opts.Listen
				if ln, err = web.Listen(cfg); err != nil {
					return err
				}
			}

			// 로그가 화면을 깨뜨리지 않도록 에뮬레이션 중에는 버린다.
			appLog.SetOutput(io.Discard)
			defer appLog.SetOutput(cmd.ErrOrStderr())

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			errCh := make(chan error, 1)
			if ln != nil {
				go func() { errCh <- web.Serve(ctx, cfg, r, ln) }()
			} else {
				errCh <- nil
			}

			err = tui.Run(r, time.Duration(cfg.TickMillis)*time.Millisecond)
			cancel()
			return errors.Join(err, <-errCh)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "also serve the status API on this address")

	return cmd
}
