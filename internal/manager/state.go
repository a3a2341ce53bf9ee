package manager

import (
	"github.com/1broseidon/swaytile/internal/layout"
)

// WorkspaceState describes one workspace of the snapshot next to the number
// it should carry.
type WorkspaceState struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Output    string `json:"output"`
	Num       int    `json:"num"`
	Canonical int    `json:"canonical"`
	Group     int    `json:"group"`
	Position  int    `json:"position"`
	Focused   bool   `json:"focused"`
}

// Drifted reports whether the workspace needs a rename.
func (s WorkspaceState) Drifted() bool {
	return s.Num != s.Canonical
}

// Layout returns every workspace in canonical order.
func (m *Manager) Layout() []WorkspaceState {
	byID := make(map[int64]int, len(m.workspaces))
	for i, ws := range m.workspaces {
		byID[ws.ID] = i
	}

	states := make([]WorkspaceState, 0, len(m.workspaces))
	for _, a := range m.numberer.Assignments() {
		i, ok := byID[a.ID]
		if !ok {
			continue
		}
		ws := m.workspaces[i]
		group, position := layout.Split(a.Num)
		states = append(states, WorkspaceState{
			ID:        ws.ID,
			Name:      ws.Name,
			Output:    ws.Output,
			Num:       ws.Num,
			Canonical: a.Num,
			Group:     group,
			Position:  position,
			Focused:   ws.Focused,
		})
	}
	return states
}
