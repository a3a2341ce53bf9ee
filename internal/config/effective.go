package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies the set fields of raw over the defaults and
// validates the result.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.MaxGroups != nil {
		cfg.MaxGroups = *raw.MaxGroups
	}
	if raw.MaxPositions != nil {
		cfg.MaxPositions = *raw.MaxPositions
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.SocketPath != nil {
		cfg.SocketPath = *raw.SocketPath
	}
	if raw.DryRun != nil {
		cfg.DryRun = *raw.DryRun
	}
	if raw.Daemon != nil {
		if raw.Daemon.Events != nil {
			cfg.Daemon.Events = append([]string(nil), raw.Daemon.Events...)
		}
		if raw.Daemon.ReorderOnStart != nil {
			cfg.Daemon.ReorderOnStart = *raw.Daemon.ReorderOnStart
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
