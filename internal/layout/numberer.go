package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1broseidon/swaytile/internal/sway"
)

var (
	// ErrTooManyGroups is returned when more outputs are active than groups are allowed.
	ErrTooManyGroups = errors.New("too many outputs for the available groups")
	// ErrTooManyPositions is returned when an output holds more workspaces than positions are allowed.
	ErrTooManyPositions = errors.New("too many workspaces for the available positions")
	// ErrUnknownOutput is returned when a workspace names an output missing from the output list.
	ErrUnknownOutput = errors.New("workspace on unknown output")
)

// Assignment is one entry of a canonical numbering.
type Assignment struct {
	ID  int64
	Num int
}

// Numberer maps workspace IDs to the numbers they should carry.
type Numberer struct {
	order   []int64
	targets map[int64]int
}

// NewNumberer assigns canonical numbers: one group per ranked output and
// positions 1..k inside each group following the workspaces' current
// ascending numbers. Unnumbered workspaces follow the numbered ones in
// compositor order.
func NewNumberer(workspaces []sway.Workspace, outputs []sway.Output, limits Limits) (*Numberer, error) {
	limits = limits.normalized()

	ranked := RankOutputs(outputs)
	if len(ranked) > limits.Groups {
		return nil, fmt.Errorf("%w: %d outputs, limit is %d", ErrTooManyGroups, len(ranked), limits.Groups)
	}

	groups := make(map[string][]sway.Workspace, len(ranked))
	for _, out := range ranked {
		groups[out.Name] = nil
	}
	for _, ws := range workspaces {
		list, ok := groups[ws.Output]
		if !ok {
			return nil, fmt.Errorf("%w: workspace %q on output %q", ErrUnknownOutput, ws.Name, ws.Output)
		}
		groups[ws.Output] = append(list, ws)
	}

	n := &Numberer{
		order:   make([]int64, 0, len(workspaces)),
		targets: make(map[int64]int, len(workspaces)),
	}
	for g, out := range ranked {
		list := groups[out.Name]
		if len(list) > limits.Positions {
			return nil, fmt.Errorf("%w: output %s has %d workspaces, limit is %d", ErrTooManyPositions, out.Name, len(list), limits.Positions)
		}
		sort.SliceStable(list, func(i, j int) bool {
			return numberedBefore(list[i], list[j])
		})
		for p, ws := range list {
			n.order = append(n.order, ws.ID)
			n.targets[ws.ID] = Number(g+1, p+1)
		}
	}
	return n, nil
}

// RankOutputs returns the active outputs ordered top-to-bottom, then
// left-to-right. The index of an output plus one is its group.
func RankOutputs(outputs []sway.Output) []sway.Output {
	ranked := make([]sway.Output, 0, len(outputs))
	for _, out := range outputs {
		if out.Active {
			ranked = append(ranked, out)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Rect, ranked[j].Rect
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

func numberedBefore(a, b sway.Workspace) bool {
	switch {
	case a.Numbered() && b.Numbered():
		return a.Num < b.Num
	case a.Numbered():
		return true
	default:
		return false
	}
}

// Target returns the number assigned to the workspace with the given ID.
func (n *Numberer) Target(id int64) (int, bool) {
	num, ok := n.targets[id]
	return num, ok
}

// Len returns the number of managed workspaces.
func (n *Numberer) Len() int {
	return len(n.order)
}

// Assignments returns the mapping in canonical order.
func (n *Numberer) Assignments() []Assignment {
	out := make([]Assignment, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, Assignment{ID: id, Num: n.targets[id]})
	}
	return out
}

// PrependAt shifts every target >= num up by one, freeing num itself.
func (n *Numberer) PrependAt(num int) int {
	for id, target := range n.targets {
		if target >= num {
			n.targets[id] = target + 1
		}
	}
	return num
}

// AppendAt shifts every target > num up by one, freeing num+1.
func (n *Numberer) AppendAt(num int) int {
	for id, target := range n.targets {
		if target > num {
			n.targets[id] = target + 1
		}
	}
	return num + 1
}
