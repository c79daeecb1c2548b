package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binclock/internal/event"
	"binclock/internal/fault"
)

func TestLoad_FirstRunWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen = ":9090"
timezone = "UTC"
greeting = " Hi"
resync = ""

[display]
driver = "MAX7219"
brightness = 40

[buttons]
driver = "gpio"
pins = ["GPIO17", "GPIO27", "GPIO22", "GPIO23"]

[[events]]
name = "Birthday"
year_started = 1984
month = 3
day = 14

[[events]]
name = "Mother's day"
month = 5
weekday = "sunday"
nth = 1
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, DriverMAX7219, cfg.Display.Driver)
	assert.Equal(t, 15, cfg.Display.Brightness)
	assert.Equal(t, []string{"GPIO17", "GPIO27", "GPIO22", "GPIO23"}, cfg.Buttons.Pins)
	assert.Equal(t, 20, cfg.TickMillis)
	assert.Equal(t, time.UTC, cfg.Location())

	events, err := cfg.EventTable()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, event.WeekdayRule{Month: time.May, Weekday: time.Sunday, Nth: 1}, events[1].Rule)
}

func TestSave_TOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.BasicAuth = &BasicAuthConfig{Username: "admin", Password: "secret"}
	cfg.Events = []event.Spec{{Name: "Programmer's day", YearStarted: 2009, DayOfYear: 256}}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, Save(path, DefaultConfig()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BINCLOCK_TIMEZONE=Europe/Berlin\nBINCLOCK_LOG_LEVEL=debug\n"), 0o600))

	t.Setenv(EnvListen, "")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvTimezone, "")
	os.Unsetenv(EnvTimezone)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Listen)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"resync", func(c *Config) { c.Resync = "every day" }},
		{"display", func(c *Config) { c.Display.Driver = "lcd" }},
		{"buttons", func(c *Config) { c.Buttons.Driver = "usb" }},
		{"pins", func(c *Config) { c.Buttons = ButtonsConfig{Driver: DriverGPIO, Pins: []string{"GPIO5"}} }},
		{"events", func(c *Config) { c.Events = []event.Spec{{Name: "Leap", Month: 2, Day: 29}} }},
		{"greeting", func(c *Config) { c.Greeting = "50% off" }},
		{"event name", func(c *Config) { c.Events = []event.Spec{{Name: "Pay day $", Month: 1, Day: 25}} }},
		{"event name length", func(c *Config) { c.Events = []event.Spec{{Name: strings.Repeat("A", 45), Month: 12, Day: 1}} }},
		{"greeting length", func(c *Config) { c.Greeting = strings.Repeat("A", 65) }},
		{"year started", func(c *Config) { c.Events = []event.Spec{{Name: "Future", YearStarted: 12345, Month: 1, Day: 1}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Events = []event.Spec{{Name: "Leap", Month: 2, Day: 29}}
	assert.ErrorIs(t, cfg.Validate(), fault.ErrRange)
}

func TestEventTable_DefaultIsNil(t *testing.T) {
	events, err := DefaultConfig().EventTable()
	require.NoError(t, err)
	assert.Nil(t, events)
}
