package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/graphvinci/graphvinci/internal/layout"
)

// Config holds graphvinci configuration. Values are resolved from defaults,
// then the TOML file, then GRAPHVINCI_* environment variables.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Explorer ExplorerConfig `toml:"explorer"`
	History  HistoryConfig  `toml:"history"`
	Log      LogConfig      `toml:"log"`
	Layout   LayoutConfig   `toml:"layout"`

	// Domains maps a GraphQL type name to its domain for types that carry
	// no @domain directive.
	Domains map[string]string `toml:"domains"`
}

// DatabaseConfig locates the history store.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ExplorerConfig controls the visualizer.
type ExplorerConfig struct {
	PrimaryDomain string `toml:"primary_domain"`
	SettleMs      int    `toml:"settle_ms"`
	MaxTicks      int    `toml:"max_ticks"`
}

// HistoryConfig controls saved operations.
type HistoryConfig struct {
	Endpoint string `toml:"endpoint"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// LayoutConfig overrides table metrics. Zero values keep the defaults.
type LayoutConfig struct {
	CharWidth   float64 `toml:"char_width"`
	RowHeight   float64 `toml:"row_height"`
	MinRowWidth float64 `toml:"min_row_width"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: defaultDBPath()},
		Explorer: ExplorerConfig{PrimaryDomain: "default", SettleMs: 2500, MaxTicks: 300},
		Log:      LogConfig{Level: "warn"},
		Domains:  map[string]string{},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "graphvinci.db"
	}
	return filepath.Join(home, ".graphvinci", "graphvinci.db")
}

// ConfigDir returns the graphvinci config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "graphvinci")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path (Path() when empty) and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	if cfg.Domains == nil {
		cfg.Domains = map[string]string{}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GRAPHVINCI_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GRAPHVINCI_SETTLE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Explorer.SettleMs = n
		}
	}
	if v := os.Getenv("GRAPHVINCI_PRIMARY_DOMAIN"); v != "" {
		cfg.Explorer.PrimaryDomain = v
	}
	if v := os.Getenv("GRAPHVINCI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GRAPHVINCI_ENDPOINT"); v != "" {
		cfg.History.Endpoint = v
	}
}

// SettleDelay returns the deferred re-render delay.
func (c *Config) SettleDelay() time.Duration {
	if c.Explorer.SettleMs < 0 {
		return 0
	}
	return time.Duration(c.Explorer.SettleMs) * time.Millisecond
}

// SlogLevel parses Log.Level, falling back to warn for unknown names.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelWarn
	}
	return lvl
}

// Metrics returns the table metrics with any configured overrides applied.
func (c *Config) Metrics() layout.Metrics {
	m := layout.DefaultMetrics()
	if c.Layout.CharWidth > 0 {
		m.CharWidth = c.Layout.CharWidth
	}
	if c.Layout.RowHeight > 0 {
		m.RowHeight = c.Layout.RowHeight
	}
	if c.Layout.MinRowWidth > 0 {
		m.MinRowWidth = c.Layout.MinRowWidth
	}
	return m
}
