// Package config loads runtime settings from TOML or YAML files, a .env file and
// GRIDTERM_* environment variables, and can watch the file for live changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/gridterm/schedule"
	"github.com/lixenwraith/gridterm/terminal"
)

// ErrUnknownFormat is returned for config files whose extension has no decoder
var ErrUnknownFormat = errors.New("unknown config format")

const envPrefix = "GRIDTERM_"

// dotEnvFile is read before environment overrides; missing is not an error
var dotEnvFile = ".env"

// Duration decodes from strings like "250ms" in both TOML and YAML
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Terminal  TerminalConfig  `toml:"terminal" yaml:"terminal"`
	Scheduler SchedulerConfig `toml:"scheduler" yaml:"scheduler"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

type TerminalConfig struct {
	Backend   string `toml:"backend" yaml:"backend"` // "unix" or "tcell"
	AltScreen bool   `toml:"alt_screen" yaml:"alt_screen"`
}

type SchedulerConfig struct {
	ProbeInterval Duration     `toml:"probe_interval" yaml:"probe_interval"`
	ProbeTimeout  Duration     `toml:"probe_timeout" yaml:"probe_timeout"`
	DefaultFPS    int          `toml:"default_fps" yaml:"default_fps"` // Ceiling while RTT is unknown
	FloorFPS      int          `toml:"floor_fps" yaml:"floor_fps"`
	Tiers         []TierConfig `toml:"tiers" yaml:"tiers"`
}

type TierConfig struct {
	Below Duration `toml:"below" yaml:"below"`
	FPS   int      `toml:"fps" yaml:"fps"`
}

type LogConfig struct {
	File string `toml:"file" yaml:"file"` // Empty disables logging
}

// Default returns the built-in configuration
func Default() *Config {
	p := schedule.DefaultPolicy()
	tiers := make([]TierConfig, len(p.Tiers))
	for i, t := range p.Tiers {
		tiers[i] = TierConfig{Below: Duration(t.Below), FPS: t.FPS}
	}
	return &Config{
		Terminal: TerminalConfig{
			Backend:   terminal.BackendUnix,
			AltScreen: true,
		},
		Scheduler: SchedulerConfig{
			ProbeInterval: Duration(schedule.DefaultProbeInterval),
			ProbeTimeout:  Duration(schedule.DefaultProbeTimeout),
			DefaultFPS:    p.Unknown,
			FloorFPS:      p.Floor,
			Tiers:         tiers,
		},
	}
}

// Policy converts the scheduler section into a frame-rate policy
func (c *Config) Policy() schedule.Policy {
	p := schedule.Policy{
		Tiers:   make([]schedule.Tier, len(c.Scheduler.Tiers)),
		Unknown: c.Scheduler.DefaultFPS,
		Floor:   c.Scheduler.FloorFPS,
	}
	for i, t := range c.Scheduler.Tiers {
		p.Tiers[i] = schedule.Tier{Below: t.Below.Std(), FPS: t.FPS}
	}
	return p
}

// Validate checks the configuration for values the runtime cannot use
func (c *Config) Validate() error {
	switch c.Terminal.Backend {
	case "", terminal.BackendUnix, terminal.BackendTcell:
	default:
		return fmt.Errorf("terminal.backend: unknown backend %q", c.Terminal.Backend)
	}
	if c.Scheduler.ProbeInterval <= 0 {
		return fmt.Errorf("scheduler.probe_interval must be positive, got %v", c.Scheduler.ProbeInterval.Std())
	}
	if c.Scheduler.ProbeTimeout <= 0 {
		return fmt.Errorf("scheduler.probe_timeout must be positive, got %v", c.Scheduler.ProbeTimeout.Std())
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}

// Load builds a configuration from defaults, the file at path, .env and the environment
// An empty path or a missing file yields defaults plus environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	// File tiers replace the defaults rather than merging element-wise
	defaults := c.Scheduler.Tiers
	c.Scheduler.Tiers = nil

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if len(c.Scheduler.Tiers) == 0 {
		c.Scheduler.Tiers = defaults
	}
	return nil
}

// loadDotEnv fills unset environment variables from path
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("BACKEND"); ok {
		c.Terminal.Backend = v
	}
	if v, ok := lookupEnv("ALT_SCREEN"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sALT_SCREEN: %w", envPrefix, err)
		}
		c.Terminal.AltScreen = b
	}
	if v, ok := lookupEnv("LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := lookupEnv("PROBE_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sPROBE_INTERVAL: %w", envPrefix, err)
		}
		c.Scheduler.ProbeInterval = Duration(d)
	}
	if v, ok := lookupEnv("PROBE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sPROBE_TIMEOUT: %w", envPrefix, err)
		}
		c.Scheduler.ProbeTimeout = Duration(d)
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}
