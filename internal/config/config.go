package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"binclock/internal/clock"
	"binclock/internal/datetime"
	"binclock/internal/event"
	"binclock/internal/glyph"
)

// NOTE: the file format follows the extension: ".toml" is TOML, anything
// else is YAML. First run writes a default file with 0600 permissions.

const (
	DriverNone    = "none"
	DriverMAX7219 = "max7219"
	DriverGPIO    = "gpio"

	// ButtonCount is the number of pins a gpio button driver needs,
	// in MODE, LEFT, RIGHT, SET order.
	ButtonCount = 4
)

// Environment overrides, applied after the file is decoded.
const (
	EnvListen   = "BINCLOCK_LISTEN"
	EnvLogLevel = "BINCLOCK_LOG_LEVEL"
	EnvTimezone = "BINCLOCK_TIMEZONE"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the status API.
type BasicAuthConfig struct {
	Username string `yaml:"username" toml:"username" json:"username"`
	Password string `yaml:"password" toml:"password" json:"password"`
}

// DisplayConfig selects the LED matrix driver.
type DisplayConfig struct {
	// Driver is "none" or "max7219".
	Driver string `yaml:"driver" toml:"driver" json:"driver"`
	// SPIPort is a periph spireg name; empty picks the first port.
	SPIPort string `yaml:"spi_port" toml:"spi_port" json:"spi_port"`
	// Brightness is the MAX7219 intensity, 0..15.
	Brightness int `yaml:"brightness" toml:"brightness" json:"brightness"`
}

// ButtonsConfig selects the button driver.
type ButtonsConfig struct {
	// Driver is "none" or "gpio".
	Driver string `yaml:"driver" toml:"driver" json:"driver"`
	// Pins are periph gpioreg names, e.g. "GPIO5".
	Pins []string `yaml:"pins" toml:"pins" json:"pins"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address of the status API. Empty disables it.
	Listen string `yaml:"listen" toml:"listen" json:"listen"`

	// Timezone is the IANA zone the clock is seeded from (e.g. "Asia/Seoul").
	Timezone string `yaml:"timezone" toml:"timezone" json:"timezone"`

	LogLevel string `yaml:"log_level" toml:"log_level" json:"log_level"`

	// Greeting scrolls once at start-up.
	Greeting string `yaml:"greeting" toml:"greeting" json:"greeting"`

	TickMillis      int `yaml:"tick_millis" toml:"tick_millis" json:"tick_millis"`
	AnimationMillis int `yaml:"animation_millis" toml:"animation_millis" json:"animation_millis"`
	BlinkMillis     int `yaml:"blink_millis" toml:"blink_millis" json:"blink_millis"`

	// Resync is a cron schedule (e.g. "0 3 * * *") for re-reading the wall
	// clock. Empty disables it.
	Resync string `yaml:"resync" toml:"resync" json:"resync"`

	Display DisplayConfig `yaml:"display" toml:"display" json:"display"`
	Buttons ButtonsConfig `yaml:"buttons" toml:"buttons" json:"buttons"`

	// BasicAuth, if non-nil, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" toml:"basic_auth,omitempty" json:"basic_auth,omitempty"`

	// Events replaces the compiled-in event table when non-empty.
	Events []event.Spec `yaml:"events,omitempty" toml:"events,omitempty" json:"events,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:8080",
		Timezone:        "Asia/Seoul",
		LogLevel:        "info",
		Greeting:        " Hello \x01",
		TickMillis:      20,
		AnimationMillis: 100,
		BlinkMillis:     500,
		Resync:          "0 3 * * *",
		Display:         DisplayConfig{Driver: DriverNone, Brightness: 4},
		Buttons: ButtonsConfig{
			Driver: DriverNone,
			Pins:   []string{"GPIO5", "GPIO6", "GPIO13", "GPIO19"},
		},
	}
}

// Normalize fills in missing/zero values so that partially-filled configs
// still behave.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.TickMillis <= 0 {
		c.TickMillis = def.TickMillis
	}
	if c.AnimationMillis <= 0 {
		c.AnimationMillis = def.AnimationMillis
	}
	if c.BlinkMillis <= 0 {
		c.BlinkMillis = def.BlinkMillis
	}

	c.Display.Driver = strings.ToLower(strings.TrimSpace(c.Display.Driver))
	if c.Display.Driver == "" {
		c.Display.Driver = DriverNone
	}
	c.Display.Brightness = min(max(c.Display.Brightness, 0), 15)

	c.Buttons.Driver = strings.ToLower(strings.TrimSpace(c.Buttons.Driver))
	if c.Buttons.Driver == "" {
		c.Buttons.Driver = DriverNone
	}
	if len(c.Buttons.Pins) == 0 {
		c.Buttons.Pins = def.Buttons.Pins
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	if c.Resync != "" {
		if _, err := cron.ParseStandard(c.Resync); err != nil {
			return fmt.Errorf("config: resync %q: %w", c.Resync, err)
		}
	}
	switch c.Display.Driver {
	case DriverNone, DriverMAX7219:
	default:
		return fmt.Errorf("config: unknown display driver %q", c.Display.Driver)
	}
	switch c.Buttons.Driver {
	case DriverNone:
	case DriverGPIO:
		if len(c.Buttons.Pins) != ButtonCount {
			return fmt.Errorf("config: gpio buttons need %d pins, got %d", ButtonCount, len(c.Buttons.Pins))
		}
	default:
		return fmt.Errorf("config: unknown buttons driver %q", c.Buttons.Driver)
	}
	if !glyph.Printable(c.Greeting) {
		return fmt.Errorf("config: greeting %q has characters the face cannot show", c.Greeting)
	}
	if len(c.Greeting) > clock.DefaultTextLimit {
		return fmt.Errorf("config: greeting is %d bytes, at most %d fit", len(c.Greeting), clock.DefaultTextLimit)
	}
	nameLimit := clock.EventNameLimit(clock.DefaultTextLimit)
	for _, e := range c.Events {
		if !glyph.Printable(e.Name) {
			return fmt.Errorf("config: event name %q has characters the face cannot show", e.Name)
		}
		if len(e.Name) > nameLimit {
			return fmt.Errorf("config: event name %q is %d bytes, at most %d fit", e.Name, len(e.Name), nameLimit)
		}
		// "N years - started in YYYY"
		if e.YearStarted < 0 || e.YearStarted > datetime.MaxDisplayYear {
			return fmt.Errorf("config: event %q: year_started %d should be in [0..%d]", e.Name, e.YearStarted, datetime.MaxDisplayYear)
		}
	}
	if _, err := c.EventTable(); err != nil {
		return fmt.Errorf("config: events: %w", err)
	}
	return nil
}

// EventTable builds the configured event table. It returns nil when no
// events are configured, which selects the compiled-in table.
func (c *Config) EventTable() ([]event.Event, error) {
	if len(c.Events) == 0 {
		return nil, nil
	}
	return event.FromSpecs(c.Events)
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from path.
//
// Behavior:
//   - If the file does not exist, a default config is written (0600) and
//     returned.
//   - Otherwise the file is decoded by extension and normalized.
//   - .env files next to the config and in the working directory are loaded
//     and BINCLOCK_* variables override the file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env"); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := unmarshal(path, data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.Normalize()
	cfg.applyEnv()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvListen); ok {
		c.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
}

// Save writes cfg to path atomically (temp file + rename, 0600).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := marshal(path, cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".binclock-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func marshal(path string, cfg *Config) ([]byte, error) {
	if isTOML(path) {
		return toml.Marshal(cfg)
	}
	return yaml.Marshal(cfg)
}
