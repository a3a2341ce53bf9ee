package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/swaytile/internal/layout"
	"github.com/1broseidon/swaytile/internal/sway"
)

// Event names accepted under daemon.events.
const (
	EventWorkspace = "workspace"
	EventOutput    = "output"
)

// DaemonConfig controls the renumbering daemon.
type DaemonConfig struct {
	Events         []string `yaml:"events"`
	ReorderOnStart bool     `yaml:"reorder_on_start"`
}

// Config is the effective configuration.
type Config struct {
	MaxGroups    int          `yaml:"max_groups"`
	MaxPositions int          `yaml:"max_positions"`
	LogLevel     string       `yaml:"log_level"`
	SocketPath   string       `yaml:"socket_path"`
	DryRun       bool         `yaml:"dry_run"`
	Daemon       DaemonConfig `yaml:"daemon"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		MaxGroups:    layout.MaxDigit,
		MaxPositions: layout.MaxDigit,
		LogLevel:     "info",
		Daemon: DaemonConfig{
			Events:         []string{EventWorkspace, EventOutput},
			ReorderOnStart: true,
		},
	}
}

// Validate checks every field and reports the first problem with its path.
func (c *Config) Validate() error {
	if c.MaxGroups < 1 || c.MaxGroups > layout.MaxDigit {
		return &ValidationError{Path: "max_groups", Err: fmt.Errorf("max_groups must be between 1 and %d", layout.MaxDigit)}
	}
	if c.MaxPositions < 1 || c.MaxPositions > layout.MaxDigit {
		return &ValidationError{Path: "max_positions", Err: fmt.Errorf("max_positions must be between 1 and %d", layout.MaxDigit)}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	if len(c.Daemon.Events) == 0 {
		return &ValidationError{Path: "daemon.events", Err: fmt.Errorf("daemon.events must not be empty")}
	}
	seen := make(map[string]bool, len(c.Daemon.Events))
	for _, ev := range c.Daemon.Events {
		switch ev {
		case EventWorkspace, EventOutput:
		default:
			return &ValidationError{Path: "daemon.events", Err: fmt.Errorf("unknown event %q, must be one of: workspace, output", ev)}
		}
		if seen[ev] {
			return &ValidationError{Path: "daemon.events", Err: fmt.Errorf("event %q listed twice", ev)}
		}
		seen[ev] = true
	}
	return nil
}

// Limits returns the numbering limits.
func (c *Config) Limits() layout.Limits {
	return layout.Limits{Groups: c.MaxGroups, Positions: c.MaxPositions}
}

// Level returns the slog level for log_level.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Events returns the daemon subscriptions.
func (c *Config) Events() []sway.EventType {
	out := make([]sway.EventType, 0, len(c.Daemon.Events))
	for _, ev := range c.Daemon.Events {
		out = append(out, sway.EventType(ev))
	}
	return out
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}
}
