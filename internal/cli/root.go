// Package cli wires the binclock commands together.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"binclock/internal/config"
	"binclock/internal/event"
	appLog "binclock/internal/log"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "/etc/binclock/config.yaml"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string // overrides the config file when set
}

// NewRootCommand creates the root command of the binclock CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "binclock",
		Short: "binclock - an 8x8 binary pixel clock",
		Long: `A clock for an 8x8 LED matrix with four buttons. It shows the time and
date as binary columns, scrolls text faces and counts down to recurring
calendar events.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.LogLevel == "" {
				return nil
			}
			lvl, err := appLog.ParseLevel(opts.LogLevel)
			if err != nil {
				return err
			}
			appLog.SetLevel(lvl)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", DefaultConfigPath, "path to config file (.yaml or .toml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|error)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewEmulateCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))

	return cmd
}

// loadConfig loads and validates the config, then applies its log level
// unless --log-level was given.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", opts.ConfigPath)
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", opts.ConfigPath, err)
	}
	if opts.LogLevel == "" {
		lvl, _ := appLog.ParseLevel(cfg.LogLevel)
		appLog.SetLevel(lvl)
	}
	return cfg, nil
}

// eventTable returns the configured events or the compiled-in table.
func eventTable(cfg *config.Config) ([]event.Event, error) {
	events, err := cfg.EventTable()
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = event.Personal()
	}
	return events, nil
}
