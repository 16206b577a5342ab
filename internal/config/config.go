// Package config loads the application configuration from HCL.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the resolved application configuration.
type Config struct {
	Game     GameSettings
	Autosave AutosaveSettings
	Storage  StorageSettings
	Log      LogSettings
}

// GameSettings describes the game to start.
type GameSettings struct {
	Players    int
	Names      []string
	Seed       string
	TotalYears int
	Catalog    string
}

// AutosaveSettings controls the store's persistence timers.
type AutosaveSettings struct {
	Enabled      bool
	Interval     time.Duration
	Debounce     time.Duration
	Attempts     int
	RetryDelay   time.Duration
	HistoryLimit int
}

// StorageSettings selects the save backend.
type StorageSettings struct {
	Backend string
	Path    string
	Slot    string
}

// LogSettings controls logging.
type LogSettings struct {
	Level string
	File  string
}

type fileConfig struct {
	Game     *gameBlock     `hcl:"game,block"`
	Autosave *autosaveBlock `hcl:"autosave,block"`
	Storage  *storageBlock  `hcl:"storage,block"`
	Log      *logBlock      `hcl:"log,block"`
}

type gameBlock struct {
	Players    int      `hcl:"players,optional"`
	Names      []string `hcl:"names,optional"`
	Seed       string   `hcl:"seed,optional"`
	TotalYears int      `hcl:"total_years,optional"`
	Catalog    string   `hcl:"catalog,optional"`
}

type autosaveBlock struct {
	Enabled      *bool  `hcl:"enabled,optional"`
	Interval     string `hcl:"interval,optional"`
	Debounce     string `hcl:"debounce,optional"`
	Attempts     int    `hcl:"attempts,optional"`
	RetryDelay   string `hcl:"retry_delay,optional"`
	HistoryLimit int    `hcl:"history_limit,optional"`
}

type storageBlock struct {
	Backend string `hcl:"backend,optional"`
	Path    string `hcl:"path,optional"`
	Slot    string `hcl:"slot,optional"`
}

type logBlock struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Game: GameSettings{
			Players:    3,
			Names:      []string{"Demo Player", "AI Alice", "AI Bob"},
			Seed:       "demo-seed",
			TotalYears: 3,
		},
		Autosave: AutosaveSettings{
			Enabled:      true,
			Interval:     30 * time.Second,
			Debounce:     2 * time.Second,
			Attempts:     3,
			RetryDelay:   100 * time.Millisecond,
			HistoryLimit: 50,
		},
		Storage: StorageSettings{
			Backend: "file",
			Path:    "saves",
			Slot:    "autosave",
		},
		Log: LogSettings{
			Level: "info",
			File:  "publishorperish.log",
		},
	}
}

// Load reads filename, filling anything it leaves out from Default. A
// missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if g := fc.Game; g != nil {
		if g.Players != 0 {
			cfg.Game.Players = g.Players
		}
		if g.Names != nil {
			cfg.Game.Names = g.Names
		}
		if g.Seed != "" {
			cfg.Game.Seed = g.Seed
		}
		if g.TotalYears != 0 {
			cfg.Game.TotalYears = g.TotalYears
		}
		cfg.Game.Catalog = g.Catalog
	}
	if a := fc.Autosave; a != nil {
		if a.Enabled != nil {
			cfg.Autosave.Enabled = *a.Enabled
		}
		if err := parseDuration("autosave.interval", a.Interval, &cfg.Autosave.Interval); err != nil {
			return nil, err
		}
		if err := parseDuration("autosave.debounce", a.Debounce, &cfg.Autosave.Debounce); err != nil {
			return nil, err
		}
		if err := parseDuration("autosave.retry_delay", a.RetryDelay, &cfg.Autosave.RetryDelay); err != nil {
			return nil, err
		}
		if a.Attempts != 0 {
			cfg.Autosave.Attempts = a.Attempts
		}
		if a.HistoryLimit != 0 {
			cfg.Autosave.HistoryLimit = a.HistoryLimit
		}
	}
	if s := fc.Storage; s != nil {
		if s.Backend != "" {
			cfg.Storage.Backend = s.Backend
		}
		if s.Path != "" {
			cfg.Storage.Path = s.Path
		}
		if s.Slot != "" {
			cfg.Storage.Slot = s.Slot
		}
	}
	if l := fc.Log; l != nil {
		if l.Level != "" {
			cfg.Log.Level = l.Level
		}
		if l.File != "" {
			cfg.Log.File = l.File
		}
	}
	return cfg, nil
}

func parseDuration(field, value string, dst *time.Duration) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	*dst = d
	return nil
}

var validBackends = []string{"file", "sqlite"}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if c.Game.Players < 2 {
		return fmt.Errorf("game.players must be at least 2, got %d", c.Game.Players)
	}
	if c.Game.TotalYears < 1 {
		return fmt.Errorf("game.total_years must be positive, got %d", c.Game.TotalYears)
	}
	if c.Autosave.Interval < 0 || c.Autosave.Debounce < 0 || c.Autosave.RetryDelay < 0 {
		return fmt.Errorf("autosave durations must not be negative")
	}
	if c.Autosave.Attempts < 1 {
		return fmt.Errorf("autosave.attempts must be positive, got %d", c.Autosave.Attempts)
	}
	if c.Autosave.HistoryLimit < 1 {
		return fmt.Errorf("autosave.history_limit must be positive, got %d", c.Autosave.HistoryLimit)
	}
	if !slices.Contains(validBackends, c.Storage.Backend) {
		return fmt.Errorf("invalid storage.backend %q", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
