package main

import (
	"fmt"
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/swaytile/internal/config"
	"github.com/1broseidon/swaytile/internal/daemon"
	"github.com/1broseidon/swaytile/internal/manager"
	"github.com/1broseidon/swaytile/internal/runtimepath"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	dryRun     bool

	loaded *config.LoadResult
	cfg    *config.Config
	logger *slog.Logger
	// dial and subscribe are resolved from the config unless preset.
	dial      manager.Dialer
	subscribe daemon.Subscriber
	socket    string
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "swaytile",
		Short: "Group-aware workspace numbering for sway",
		Long: `swaytile keeps sway workspaces numbered as group*10+position, where the
group is the output (top-to-bottom, left-to-right) and the position is the
workspace's rank on that output. Navigation commands open new workspaces at the
edges of a group instead of jumping to unrelated numbers.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              noArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup() },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.config/swaytile/config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&a.dryRun, "dry-run", false, "print compositor commands instead of running them")

	root.AddCommand(newDaemonCmd(a))
	root.AddCommand(newReorderCmd(a))
	root.AddCommand(newNavigateCmd(a, "focus", "Focus a workspace in the current group", (*manager.Manager).Focus))
	root.AddCommand(newNavigateCmd(a, "move", "Move the focused container within the current group", (*manager.Manager).Move))
	root.AddCommand(newNavigateCmd(a, "focus-group", "Focus the same position on another group", (*manager.Manager).FocusGroup))
	root.AddCommand(newNavigateCmd(a, "move-group", "Move the focused container to another group", (*manager.Manager).MoveGroup))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newMCPCmd(a))

	return root
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("unknown command %q", args[0])
	}
	return nil
}

// setup loads the config and builds the logger. Config problems are
// reported before any compositor I/O.
func (a *app) setup() error {
	var (
		res *config.LoadResult
		err error
	)
	if a.configPath != "" {
		res, err = config.LoadFromPath(a.configPath)
	} else {
		res, err = config.LoadWithSources()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.loaded = res
	a.cfg = res.Config
	if a.dryRun {
		a.cfg.DryRun = true
	}

	level := a.cfg.Level()
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(newLogHandler(a.stderr, level))
	return nil
}

func newLogHandler(w io.Writer, level slog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           charmlog.Level(level),
		Prefix:          "swaytile",
	})
}

// managerOptions derives Manager options from the loaded config.
func (a *app) managerOptions() manager.Options {
	opts := manager.Options{
		Limits: a.cfg.Limits(),
		Logger: a.logger,
	}
	if a.cfg.DryRun {
		opts.DryRun = a.stdout
	}
	return opts
}

// dialer resolves the compositor socket on first use.
func (a *app) dialer() (manager.Dialer, error) {
	if a.dial != nil {
		return a.dial, nil
	}
	socket, err := runtimepath.CompositorSocket(a.cfg.SocketPath)
	if err != nil {
		return nil, err
	}
	a.socket = socket
	a.dial = manager.SocketDialer(socket)
	return a.dial, nil
}
