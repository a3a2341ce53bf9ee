// Package manager is the only place swaytile talks to the compositor. A
// Manager reads one snapshot of workspaces, outputs and the container tree,
// then turns navigation requests into compositor commands.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/swaytile/internal/layout"
	"github.com/1broseidon/swaytile/internal/sway"
)

// Conn is the compositor connection a Manager drives.
type Conn interface {
	GetWorkspaces(ctx context.Context) ([]sway.Workspace, error)
	GetOutputs(ctx context.Context) ([]sway.Output, error)
	GetTree(ctx context.Context) (*sway.Node, error)
	RunCommand(ctx context.Context, command string) error
}

// ClosableConn is a Conn the Manager owns and closes.
type ClosableConn interface {
	Conn
	Close() error
}

// Dialer opens a fresh compositor connection.
type Dialer func(ctx context.Context) (ClosableConn, error)

// SocketDialer dials the compositor IPC socket at path.
func SocketDialer(path string) Dialer {
	return func(ctx context.Context) (ClosableConn, error) {
		return sway.Dial(ctx, path)
	}
}

// Options configures a Manager.
type Options struct {
	Limits layout.Limits
	Logger *slog.Logger
	// DryRun, when non-nil, receives every command instead of the
	// compositor. Queries still go to the compositor.
	DryRun io.Writer
}

// InvariantError reports compositor state that contradicts itself between
// two queries of the same snapshot. It is not retried.
type InvariantError struct {
	Reason string
	Err    error
}

func (e *InvariantError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inconsistent compositor state: %s: %v", e.Reason, e.Err)
	}
	return "inconsistent compositor state: " + e.Reason
}

func (e *InvariantError) Unwrap() error { return e.Err }

// IsInvariant reports whether err is or wraps an InvariantError.
func IsInvariant(err error) bool {
	var inv *InvariantError
	return errors.As(err, &inv)
}

// Manager orchestrates a Positioner and a Numberer over one snapshot.
type Manager struct {
	conn   Conn
	closer io.Closer
	logger *slog.Logger
	limits layout.Limits

	workspaces []sway.Workspace
	outputs    []sway.Output
	focused    sway.Workspace
	alone      bool

	numberer    *layout.Numberer
	positioner  *layout.Positioner
	positionErr error
}

// resolve fills in option defaults and wraps conn for a dry run.
func (o Options) resolve(conn Conn) (Conn, *slog.Logger, layout.Limits) {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limits := o.Limits
	if limits == (layout.Limits{}) {
		limits = layout.DefaultLimits()
	}
	if o.DryRun != nil {
		conn = &dryRunConn{Conn: conn, w: o.DryRun, logger: logger}
	}
	return conn, logger, limits
}

// New snapshots the compositor state through conn. Any query failure aborts
// construction.
func New(ctx context.Context, conn Conn, opts Options) (*Manager, error) {
	conn, logger, limits := opts.resolve(conn)

	workspaces, err := conn.GetWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspaces: %w", err)
	}
	outputs, err := conn.GetOutputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get outputs: %w", err)
	}
	tree, err := conn.GetTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	m := &Manager{
		conn:       conn,
		logger:     logger,
		limits:     limits,
		workspaces: workspaces,
		outputs:    outputs,
	}

	found := false
	for _, ws := range workspaces {
		if ws.Focused {
			m.focused = ws
			found = true
			break
		}
	}
	if !found {
		return nil, &InvariantError{Reason: "no focused workspace"}
	}

	node := tree.Find(func(n *sway.Node) bool {
		return n.Type == sway.NodeWorkspace && n.ID == m.focused.ID
	})
	if node == nil {
		return nil, &InvariantError{Reason: fmt.Sprintf("focused workspace %q missing from tree", m.focused.Name)}
	}
	m.alone = len(node.Nodes) <= 1

	m.numberer, err = layout.NewNumberer(workspaces, outputs, limits)
	if err != nil {
		if errors.Is(err, layout.ErrUnknownOutput) {
			return nil, &InvariantError{Reason: "workspace output missing from outputs", Err: err}
		}
		return nil, err
	}

	// Navigation needs a numbered focus; a reorder does not.
	m.positioner, m.positionErr = layout.NewPositioner(workspaces, limits)
	return m, nil
}

// Open dials a fresh connection and builds a Manager that owns it.
func Open(ctx context.Context, dial Dialer, opts Options) (*Manager, error) {
	conn, err := dial(ctx)
	if err != nil {
		return nil, err
	}
	m, err := New(ctx, conn, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}
	m.closer = conn
	return m, nil
}

// Close releases the connection when the Manager owns it.
func (m *Manager) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}

// Renumber dials a fresh connection and renames every workspace to its
// canonical number. Unlike Open it reads neither focus nor the layout tree,
// so a focus change racing the snapshot cannot fail it.
func Renumber(ctx context.Context, dial Dialer, opts Options) (int, error) {
	closable, err := dial(ctx)
	if err != nil {
		return 0, err
	}
	defer closable.Close()
	conn, logger, limits := opts.resolve(closable)

	workspaces, err := conn.GetWorkspaces(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get workspaces: %w", err)
	}
	outputs, err := conn.GetOutputs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get outputs: %w", err)
	}
	numberer, err := layout.NewNumberer(workspaces, outputs, limits)
	if err != nil {
		return 0, err
	}
	renamed, err := numberer.Reorder(ctx, conn)
	if err != nil {
		return renamed, err
	}
	if renamed > 0 {
		logger.Info("workspaces renumbered", "renames", renamed)
	}
	return renamed, nil
}

// Reorder renames every workspace to its canonical number and returns the
// number of renames issued.
func (m *Manager) Reorder(ctx context.Context) (int, error) {
	renamed, err := m.numberer.Reorder(ctx, m.conn)
	if err != nil {
		return renamed, err
	}
	if renamed > 0 {
		m.logger.Info("workspaces renumbered", "renames", renamed)
	}
	return renamed, nil
}

// Workspaces returns the snapshot's workspaces.
func (m *Manager) Workspaces() []sway.Workspace { return m.workspaces }

// Outputs returns the snapshot's outputs.
func (m *Manager) Outputs() []sway.Output { return m.outputs }

// Focused returns the focused workspace.
func (m *Manager) Focused() sway.Workspace { return m.focused }

// Positioner returns the focus coordinates, or the reason there are none.
func (m *Manager) Positioner() (*layout.Positioner, error) {
	if m.positionErr != nil {
		return nil, m.positionErr
	}
	return m.positioner, nil
}
