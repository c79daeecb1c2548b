package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"binclock/internal/datetime"
	"binclock/internal/event"
	"binclock/internal/ics"
	"binclock/internal/model"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	Date   string
	Format string // "text" | "json"
	Verify int
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List upcoming events",
		Long: `Resolve the event table the way the clock does on a given day and list
it in display order.

--verify N cross-checks every rule against an RRULE expansion for N
years starting with the selected one.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			events, err := eventTable(cfg)
			if err != nil {
				return err
			}
			today, err := parseDay(opts.Date, cfg.Location())
			if err != nil {
				return err
			}

			if opts.Verify > 0 {
				return verifyEvents(cmd.OutOrStdout(), events, today.Year, opts.Verify)
			}

			if err := event.InitList(events, today.Year); err != nil {
				return err
			}
			if err := event.UpdateList(events, today); err != nil {
				return err
			}
			return printEvents(cmd.OutOrStdout(), opts.Format, model.Events(events))
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "day to resolve for, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.Flags().IntVar(&opts.Verify, "verify", 0, "cross-check rules against RRULE for this many years")

	return cmd
}

func parseDay(s string, loc *time.Location) (datetime.DateTime, error) {
	if s == "" {
		now := datetime.FromTime(time.Now().In(loc))
		return datetime.Date(now.Year, now.Month, now.Day), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return datetime.DateTime{}, fmt.Errorf("invalid --date %q: %w", s, err)
	}
	return datetime.Date(t.Year(), t.Month(), t.Day()), nil
}

func printEvents(w io.Writer, format string, events []model.Event) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	case "text":
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("DATE", "DAY", "EVENT", "RULE", "YEARS")
		for _, e := range events {
			years := ""
			if e.YearStarted > 0 {
				years = fmt.Sprint(e.Years)
			}
			t.Row(e.Date, e.Weekday, e.Name, e.Rule, years)
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	}
	return fmt.Errorf("invalid format %q: must be text or json", format)
}

func verifyEvents(w io.Writer, events []event.Event, from, years int) error {
	to := from + years - 1
	mismatches, err := ics.Verify(events, from, to)
	if err != nil {
		return err
	}
	for _, m := range mismatches {
		fmt.Fprintln(w, m)
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%d mismatches between %d and %d", len(mismatches), from, to)
	}
	fmt.Fprintf(w, "✓ %d events agree with RRULE from %d to %d\n", len(events), from, to)
	return nil
}
