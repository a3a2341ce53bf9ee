package manager

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// TargetKind selects how a navigation target is resolved.
type TargetKind int

const (
	TargetNext TargetKind = iota
	TargetPrev
	TargetIndex
)

// Target is a parsed navigation argument: next, prev, or an index.
type Target struct {
	Kind  TargetKind
	Index int
}

func (t Target) String() string {
	switch t.Kind {
	case TargetNext:
		return "next"
	case TargetPrev:
		return "prev"
	default:
		return strconv.Itoa(t.Index)
	}
}

// ParseTarget accepts "next", "prev" or an integer. Integers outside 1..9
// are accepted and clamped by the operation.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next":
		return Target{Kind: TargetNext}, nil
	case "prev":
		return Target{Kind: TargetPrev}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Target{}, fmt.Errorf("invalid target %q: want next, prev or a number 1-9", s)
	}
	return Target{Kind: TargetIndex, Index: n}, nil
}

// Focus focuses a position of the current group.
func (m *Manager) Focus(ctx context.Context, t Target) error {
	switch t.Kind {
	case TargetNext:
		return m.PositionFocusNext(ctx)
	case TargetPrev:
		return m.PositionFocusPrev(ctx)
	default:
		return m.PositionFocusTo(ctx, t.Index)
	}
}

// Move moves the focused container to a position of the current group.
func (m *Manager) Move(ctx context.Context, t Target) error {
	switch t.Kind {
	case TargetNext:
		return m.PositionMoveNext(ctx)
	case TargetPrev:
		return m.PositionMovePrev(ctx)
	default:
		return m.PositionMoveTo(ctx, t.Index)
	}
}

// FocusGroup focuses the current position on another group.
func (m *Manager) FocusGroup(ctx context.Context, t Target) error {
	switch t.Kind {
	case TargetNext:
		return m.GroupFocusNext(ctx)
	case TargetPrev:
		return m.GroupFocusPrev(ctx)
	default:
		return m.GroupFocusTo(ctx, t.Index)
	}
}

// MoveGroup moves the focused container to another group.
func (m *Manager) MoveGroup(ctx context.Context, t Target) error {
	switch t.Kind {
	case TargetNext:
		return m.GroupMoveNext(ctx)
	case TargetPrev:
		return m.GroupMovePrev(ctx)
	default:
		return m.GroupMoveTo(ctx, t.Index)
	}
}
