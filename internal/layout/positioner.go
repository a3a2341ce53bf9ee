// Package layout holds the pure numbering math: where the focused workspace
// sits in the group × position grid, which number a workspace should carry,
// and how to rename workspaces to reach that numbering.
//
// A workspace number packs two single base-10 digits:
//
//	number = group*10 + position
//
// Groups map 1:1 to outputs (ordered top-to-bottom, left-to-right) and
// positions rank workspaces within their output starting at 1.
package layout

import (
	"errors"

	"github.com/1broseidon/swaytile/internal/sway"
)

// MaxDigit is the largest group or position a single digit can encode.
const MaxDigit = 9

// ErrNoFocus is returned when a snapshot has no focused workspace.
var ErrNoFocus = errors.New("no focused workspace")

// ErrFocusUnnumbered is returned when the focused workspace has no number to
// derive coordinates from.
var ErrFocusUnnumbered = errors.New("focused workspace is not numbered")

// Limits caps the number of groups and positions in use. Both are at most MaxDigit.
type Limits struct {
	Groups    int
	Positions int
}

// DefaultLimits uses the full single-digit range on both axes.
func DefaultLimits() Limits {
	return Limits{Groups: MaxDigit, Positions: MaxDigit}
}

func (l Limits) normalized() Limits {
	if l.Groups <= 0 || l.Groups > MaxDigit {
		l.Groups = MaxDigit
	}
	if l.Positions <= 0 || l.Positions > MaxDigit {
		l.Positions = MaxDigit
	}
	return l
}

// Number packs group and position into a workspace number.
func Number(group, position int) int {
	return group*10 + position
}

// Split unpacks a workspace number into group and position.
func Split(num int) (group, position int) {
	return num / 10, num % 10
}

// Positioner is an immutable view of where the focused workspace sits.
// Every method returns a target number and never changes the receiver.
type Positioner struct {
	Group           int
	GroupHighest    int
	Position        int
	PositionHighest int

	limits Limits
}

// NewPositioner derives coordinates from a snapshot whose numbers are
// assumed canonical. Unnumbered workspaces do not count towards the bounds.
func NewPositioner(workspaces []sway.Workspace, limits Limits) (*Positioner, error) {
	var focused *sway.Workspace
	for i := range workspaces {
		if workspaces[i].Focused {
			focused = &workspaces[i]
			break
		}
	}
	if focused == nil {
		return nil, ErrNoFocus
	}
	if !focused.Numbered() {
		return nil, ErrFocusUnnumbered
	}

	p := &Positioner{limits: limits.normalized()}
	p.Group, p.Position = Split(focused.Num)

	for _, ws := range workspaces {
		if !ws.Numbered() {
			continue
		}
		group, position := Split(ws.Num)
		if group > p.GroupHighest {
			p.GroupHighest = group
		}
		if group == p.Group && position > p.PositionHighest {
			p.PositionHighest = position
		}
	}
	return p, nil
}

// Num is the focused workspace's number.
func (p *Positioner) Num() int {
	return Number(p.Group, p.Position)
}

// SaturatingPositionTo clamps position into [1, PositionHighest].
func (p *Positioner) SaturatingPositionTo(position int) int {
	return Number(p.Group, clamp(position, 1, p.PositionHighest))
}

// WrappingPositionTo wraps position past either end of [1, PositionHighest]
// to the opposite end.
func (p *Positioner) WrappingPositionTo(position int) int {
	return Number(p.Group, wrap(position, p.PositionHighest))
}

func (p *Positioner) SaturatingPositionAdd(delta int) int {
	return p.SaturatingPositionTo(p.Position + delta)
}

func (p *Positioner) WrappingPositionAdd(delta int) int {
	return p.WrappingPositionTo(p.Position + delta)
}

// BoundedPositionTo clamps position into [1, Limits.Positions] regardless of
// which positions exist, so it may name a workspace that does not exist yet.
func (p *Positioner) BoundedPositionTo(position int) int {
	return Number(p.Group, clamp(position, 1, p.limits.Positions))
}

// SaturatingGroupTo clamps group into [1, GroupHighest], keeping the position.
func (p *Positioner) SaturatingGroupTo(group int) int {
	return Number(clamp(group, 1, p.GroupHighest), p.Position)
}

// WrappingGroupTo wraps group into [1, GroupHighest], keeping the position.
func (p *Positioner) WrappingGroupTo(group int) int {
	return Number(wrap(group, p.GroupHighest), p.Position)
}

func (p *Positioner) SaturatingGroupAdd(delta int) int {
	return p.SaturatingGroupTo(p.Group + delta)
}

func (p *Positioner) WrappingGroupAdd(delta int) int {
	return p.WrappingGroupTo(p.Group + delta)
}

func (p *Positioner) IsStart() bool {
	return p.Position == 1
}

func (p *Positioner) IsEnd() bool {
	return p.Position == p.PositionHighest
}

// IsFull reports whether the focused group has no room for another position.
func (p *Positioner) IsFull() bool {
	return p.PositionHighest >= p.limits.Positions
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrap maps values above highest to 1 and values below 1 to highest.
func wrap(v, highest int) int {
	if highest < 1 {
		highest = 1
	}
	switch {
	case v > highest:
		return 1
	case v < 1:
		return highest
	default:
		return v
	}
}
