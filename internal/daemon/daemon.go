// Package daemon keeps workspace numbering canonical while the compositor
// runs. It listens on one subscription connection and reorders after every
// event that creates or removes a workspace or changes the outputs.
package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/swaytile/internal/manager"
	"github.com/1broseidon/swaytile/internal/sway"
)

// EventSource yields compositor events until closed.
type EventSource interface {
	Next() (sway.Event, error)
	Close() error
}

// Subscriber opens an event subscription.
type Subscriber func(ctx context.Context, events ...sway.EventType) (EventSource, error)

// SocketSubscriber subscribes through the compositor IPC socket at path.
func SocketSubscriber(path string) Subscriber {
	return func(ctx context.Context, events ...sway.EventType) (EventSource, error) {
		sub, err := sway.Subscribe(ctx, path, events...)
		if err != nil {
			return nil, err
		}
		return sub, nil
	}
}

// Config holds configuration for the daemon.
type Config struct {
	Events         []sway.EventType
	ReorderOnStart bool
	Manager        manager.Options
	Logger         *slog.Logger
}

// Daemon runs the event loop.
type Daemon struct {
	events         []sway.EventType
	reorderOnStart bool
	subscribe      Subscriber
	reconciler     *Reconciler
	logger         *slog.Logger
}

// New creates a daemon. dial opens a connection per event; subscribe opens
// the long-lived event connection.
func New(cfg Config, dial manager.Dialer, subscribe Subscriber) *Daemon {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	events := cfg.Events
	if len(events) == 0 {
		events = []sway.EventType{sway.EventWorkspace, sway.EventOutput}
	}
	return &Daemon{
		events:         events,
		reorderOnStart: cfg.ReorderOnStart,
		subscribe:      subscribe,
		reconciler:     NewReconciler(dial, cfg.Manager, logger),
		logger:         logger,
	}
}

// Run reorders once if configured, then handles events until ctx is
// cancelled or the subscription breaks. Per-event failures are logged and
// the loop continues.
func (d *Daemon) Run(ctx context.Context) error {
	if d.reorderOnStart {
		renamed, err := d.reconciler.Reconcile(ctx)
		if err != nil {
			d.logger.Error("initial reorder failed", "error", err)
		} else {
			d.logger.Info("initial reorder done", "renames", renamed)
		}
	}

	sub, err := d.subscribe(ctx, d.events...)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Close()

	d.logger.Info("daemon started", "events", d.events)

	for {
		ev, err := sub.Next()
		if err != nil {
			if ctx.Err() != nil {
				d.logger.Info("daemon stopped")
				return nil
			}
			return fmt.Errorf("event stream closed: %w", err)
		}

		if err := d.reconciler.HandleEvent(ctx, ev); err != nil {
			d.logger.Error("failed to process event", "kind", ev.Type, "change", ev.Change, "error", err)
		}
	}
}
