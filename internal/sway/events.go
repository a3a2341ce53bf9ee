package sway

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	gosway "github.com/joshuarubin/go-sway"
)

// EventType names a subscribable event class.
type EventType string

const (
	EventWorkspace EventType = "workspace"
	EventOutput    EventType = "output"
)

// Workspace event changes that alter which workspaces exist.
const (
	WorkspaceInit  = "init"
	WorkspaceEmpty = "empty"
)

// Event is a compositor notification.
type Event struct {
	Type   EventType
	Change string
}

// Subscription is a dedicated connection receiving events.
type Subscription struct {
	ctx    context.Context
	events chan Event
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// Subscribe opens a new connection to socketPath and subscribes it to
// events. Connection failures are reported by the first Next.
func Subscribe(ctx context.Context, socketPath string, events ...EventType) (*Subscription, error) {
	types := make([]gosway.EventType, 0, len(events))
	for _, ev := range events {
		switch ev {
		case EventWorkspace:
			types = append(types, gosway.EventTypeWorkspace)
		case EventOutput:
			types = append(types, gosway.EventTypeOutput)
		default:
			return nil, fmt.Errorf("unsupported event type %q", ev)
		}
	}

	// go-sway subscribes through $SWAYSOCK.
	if socketPath != "" && os.Getenv("SWAYSOCK") != socketPath {
		if err := os.Setenv("SWAYSOCK", socketPath); err != nil {
			return nil, fmt.Errorf("failed to select compositor socket: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		ctx:    ctx,
		events: make(chan Event),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	h := &handler{EventHandler: gosway.NoOpEventHandler(), events: s.events}
	go func() {
		defer close(s.done)
		err := gosway.Subscribe(ctx, h, types...)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}()
	return s, nil
}

// Next blocks until the next event of a subscribed type arrives. Once the
// subscription ends, Next returns why, or io.EOF when it ended cleanly.
func (s *Subscription) Next() (Event, error) {
	select {
	case ev := <-s.events:
		return ev, nil
	case <-s.ctx.Done():
		return Event{}, s.ctx.Err()
	case <-s.done:
		if err := s.ctx.Err(); err != nil {
			return Event{}, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.err != nil {
			return Event{}, fmt.Errorf("subscription ended: %w", s.err)
		}
		return Event{}, io.EOF
	}
}

// Close ends the subscription.
func (s *Subscription) Close() error {
	if s == nil {
		return nil
	}
	s.cancel()
	return nil
}

// handler forwards the events swaytile cares about to a Subscription.
type handler struct {
	gosway.EventHandler
	events chan<- Event
}

func (h *handler) Workspace(ctx context.Context, e gosway.WorkspaceEvent) {
	h.send(ctx, Event{Type: EventWorkspace, Change: string(e.Change)})
}

func (h *handler) Output(ctx context.Context, _ gosway.OutputEvent) {
	h.send(ctx, Event{Type: EventOutput, Change: "unspecified"})
}

func (h *handler) send(ctx context.Context, ev Event) {
	select {
	case h.events <- ev:
	case <-ctx.Done():
	}
}
