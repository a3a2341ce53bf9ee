package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/swaytile/internal/layout"
	"github.com/1broseidon/swaytile/internal/sway"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Limits() != layout.DefaultLimits() {
		t.Fatalf("expected default limits, got %+v", cfg.Limits())
	}
	if want := []sway.EventType{sway.EventWorkspace, sway.EventOutput}; !reflect.DeepEqual(cfg.Events(), want) {
		t.Fatalf("expected events %v, got %v", want, cfg.Events())
	}
	if !cfg.Daemon.ReorderOnStart {
		t.Fatal("expected reorder_on_start by default")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(res.Config, DefaultConfig()) {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.MaxPositions != layout.MaxDigit {
		t.Fatalf("expected max_positions %d, got %d", layout.MaxDigit, res.Config.MaxPositions)
	}
}

func TestLoadFromPath_AllKeys(t *testing.T) {
	data := strings.Join([]string{
		"max_groups: 3",
		"max_positions: 5",
		"log_level: debug",
		"socket_path: /run/user/1000/sway-ipc.sock",
		"dry_run: true",
		"daemon:",
		"  events: [output]",
		"  reorder_on_start: false",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := &Config{
		MaxGroups:    3,
		MaxPositions: 5,
		LogLevel:     "debug",
		SocketPath:   "/run/user/1000/sway-ipc.sock",
		DryRun:       true,
		Daemon:       DaemonConfig{Events: []string{"output"}, ReorderOnStart: false},
	}
	if !reflect.DeepEqual(res.Config, want) {
		t.Fatalf("got %+v, want %+v", res.Config, want)
	}
	if got := res.Config.Limits(); got != (layout.Limits{Groups: 3, Positions: 5}) {
		t.Fatalf("unexpected limits %+v", got)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "gap_size: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "gap_size") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "log_level: info\nmax_positions: 12\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "max_positions" {
		t.Fatalf("expected path max_positions, got %q", verr.Path)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected line 2, got %d", verr.Source.Line)
	}
	if !strings.HasPrefix(err.Error(), verr.Source.File+":2:") {
		t.Fatalf("expected file:line:col prefix, got %v", err)
	}
}

func TestBuildEffectiveConfig(t *testing.T) {
	positions := 4
	cfg, err := BuildEffectiveConfig(RawConfig{MaxPositions: &positions})
	if err != nil {
		t.Fatalf("BuildEffectiveConfig: %v", err)
	}
	if cfg.MaxPositions != 4 || cfg.MaxGroups != DefaultConfig().MaxGroups {
		t.Fatalf("unexpected config %+v", cfg)
	}

	level := "loud"
	_, err = BuildEffectiveConfig(RawConfig{LogLevel: &level})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "log_level" {
		t.Fatalf("expected log_level validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"groups zero", func(c *Config) { c.MaxGroups = 0 }, "max_groups"},
		{"groups above nine", func(c *Config) { c.MaxGroups = 10 }, "max_groups"},
		{"positions negative", func(c *Config) { c.MaxPositions = -1 }, "max_positions"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"no events", func(c *Config) { c.Daemon.Events = nil }, "daemon.events"},
		{"unknown event", func(c *Config) { c.Daemon.Events = []string{"window"} }, "daemon.events"},
		{"duplicate event", func(c *Config) { c.Daemon.Events = []string{"output", "output"} }, "daemon.events"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	cfg := DefaultConfig()
	for in, want := range map[string]string{"debug": "DEBUG", "warning": "WARN", "warn": "WARN", "ERROR": "ERROR"} {
		cfg.LogLevel = in
		if got := cfg.Level().String(); got != want {
			t.Errorf("Level(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "max_positions: 5\nlog_level: warn\n")
	writeConfig(t, configD, "20-override.yaml", "max_positions: 6\n")

	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"max_positions: 7",
		"",
	}, "\n")
	path := writeConfig(t, dir, "config.yaml", main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.MaxPositions != 7 {
		t.Fatalf("expected max_positions to be 7, got %d", res.Config.MaxPositions)
	}
	if res.Config.LogLevel != "warn" {
		t.Fatalf("expected log_level from include, got %q", res.Config.LogLevel)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMergesDaemonSection(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", "daemon:\n  events: [workspace]\n")
	path := writeConfig(t, dir, "config.yaml", "include: base.yaml\ndaemon:\n  reorder_on_start: false\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DaemonConfig{Events: []string{"workspace"}, ReorderOnStart: false}
	if !reflect.DeepEqual(res.Config.Daemon, want) {
		t.Fatalf("got %+v, want %+v", res.Config.Daemon, want)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "max_groups: 2\ndaemon:\n  events: [output]\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "max_groups")
	if err != nil {
		t.Fatalf("explain max_groups: %v", err)
	}
	if val != 2 || src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("unexpected max_groups explain: %#v %#v", val, src)
	}

	val, src, err = Explain(res, "daemon.events")
	if err != nil {
		t.Fatalf("explain daemon.events: %v", err)
	}
	if !reflect.DeepEqual(val, []string{"output"}) || src.Kind != SourceFile {
		t.Fatalf("unexpected daemon.events explain: %#v %#v", val, src)
	}

	val, src, err = Explain(res, "daemon.reorder_on_start")
	if err != nil {
		t.Fatalf("explain daemon.reorder_on_start: %v", err)
	}
	if val != true || src.Kind != SourceDefault {
		t.Fatalf("unexpected reorder_on_start explain: %#v %#v", val, src)
	}

	if _, _, err := Explain(res, "max_groups.extra"); err == nil {
		t.Fatal("expected error for unknown path")
	}
	if _, _, err := Explain(res, "daemon.nope"); err == nil {
		t.Fatal("expected error for unknown daemon key")
	}
}

func TestMarshal_RoundTripsThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPositions = 4
	cfg.SocketPath = "/tmp/sway.sock"

	out, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := writeConfig(t, t.TempDir(), "config.yaml", string(out))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load printed config: %v", err)
	}
	if !reflect.DeepEqual(res.Config, cfg) {
		t.Fatalf("got %+v, want %+v", res.Config, cfg)
	}
}

func TestDefaultConfigPath_HonoursXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if want := filepath.Join(dir, "swaytile", "config.yaml"); path != want {
		t.Fatalf("got %q, want %q", path, want)
	}
}
