package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/swaytile/internal/manager"
	"github.com/1broseidon/swaytile/internal/sway"
)

// Reconciler heals workspace numbering. Every pass opens its own connection
// so no state survives between events.
type Reconciler struct {
	dial   manager.Dialer
	opts   manager.Options
	logger *slog.Logger
}

// NewReconciler creates a reconciler that dials the compositor through dial.
func NewReconciler(dial manager.Dialer, opts manager.Options, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &Reconciler{dial: dial, opts: opts, logger: logger}
}

// ShouldReorder reports whether an event can change which workspaces exist
// or how outputs are arranged.
func ShouldReorder(ev sway.Event) bool {
	switch ev.Type {
	case sway.EventWorkspace:
		return ev.Change == sway.WorkspaceInit || ev.Change == sway.WorkspaceEmpty
	case sway.EventOutput:
		return true
	default:
		return false
	}
}

// HandleEvent reorders when ev calls for it.
func (r *Reconciler) HandleEvent(ctx context.Context, ev sway.Event) error {
	r.logger.Debug("event received", "kind", ev.Type, "change", ev.Change)
	if !ShouldReorder(ev) {
		return nil
	}
	_, err := r.Reconcile(ctx)
	return err
}

// Reconcile performs a single reorder pass and returns the number of renames.
func (r *Reconciler) Reconcile(ctx context.Context) (renamed int, err error) {
	// Recover from panics to keep the event loop alive
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("reorder panicked: %v", p)
		}
	}()

	return manager.Renumber(ctx, r.dial, r.opts)
}
