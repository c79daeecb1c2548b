package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"binclock/internal/ics"
	appLog "binclock/internal/log"
)

// ExportOptions holds flags for the export-ics command.
type ExportOptions struct {
	Year   int
	Output string
}

// NewExportCommand creates the export-ics command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:          "export-ics",
		Short:        "Write the event table as an iCalendar file",
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

			now := time.Now().In(cfg.Location())
			year := opts.Year
			if year == 0 {
				year = now.Year()
			}
			body, err := ics.Export(events, year, now)
			if err != nil {
				return err
			}

			if opts.Output == "" || opts.Output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(opts.Output, body, 0o644); err != nil {
				return err
			}
			appLog.Info("calendar exported", "path", opts.Output, "year", year, "events", len(events))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Year, "year", 0, "year of the first occurrences (default: this year)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// ImportOptions holds flags for the import-ics command.
type ImportOptions struct {
	DryRun  bool
	Append  bool
	Timeout time.Duration
}

// NewImportCommand creates the import-ics command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import-ics <url-or-file>",
		Short: "Replace the event table with the yearly events of a calendar",
		Long: `Fetch an iCalendar file from an http(s) URL or a local path and store its
yearly events in the config file. Events whose recurrence cannot be shown
by the clock are skipped.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			body, err := ics.NewFetcher(opts.Timeout).Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			specs, err := ics.Parse(body)
			if err != nil {
				return err
			}
			if len(specs) == 0 {
				return fmt.Errorf("no usable events in %s", args[0])
			}
			if opts.Append {
				specs = append(cfg.Events, specs...)
			}
			next := *cfg
			next.Events = specs
			if err := next.Validate(); err != nil {
				return err
			}

			if opts.DryRun {
				out, err := yaml.Marshal(map[string]any{"events": specs})
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}

			if err := next.Save(rootOpts.ConfigPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %d events saved to %s\n", len(specs), rootOpts.ConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the events instead of saving them")
	cmd.Flags().BoolVar(&opts.Append, "append", false, "keep the configured events")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 15*time.Second, "HTTP timeout")

	return cmd
}
