package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawDaemonConfig struct {
	Events         []string `yaml:"events"`
	ReorderOnStart *bool    `yaml:"reorder_on_start"`
}

// RawConfig mirrors a config file. Nil fields were not set by the file.
type RawConfig struct {
	Include      IncludeList      `yaml:"include"`
	MaxGroups    *int             `yaml:"max_groups"`
	MaxPositions *int             `yaml:"max_positions"`
	LogLevel     *string          `yaml:"log_level"`
	SocketPath   *string          `yaml:"socket_path"`
	DryRun       *bool            `yaml:"dry_run"`
	Daemon       *RawDaemonConfig `yaml:"daemon"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.MaxGroups != nil {
		out.MaxGroups = overlay.MaxGroups
	}
	if overlay.MaxPositions != nil {
		out.MaxPositions = overlay.MaxPositions
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.SocketPath != nil {
		out.SocketPath = overlay.SocketPath
	}
	if overlay.DryRun != nil {
		out.DryRun = overlay.DryRun
	}
	if overlay.Daemon != nil {
		daemon := RawDaemonConfig{}
		if out.Daemon != nil {
			daemon = *out.Daemon
		}
		if overlay.Daemon.Events != nil {
			daemon.Events = overlay.Daemon.Events
		}
		if overlay.Daemon.ReorderOnStart != nil {
			daemon.ReorderOnStart = overlay.Daemon.ReorderOnStart
		}
		out.Daemon = &daemon
	}
	return out
}
