package mcp

import "github.com/1broseidon/swaytile/internal/manager"

// ReorderInput is the input for the reorder tool.
type ReorderInput struct{}

// ReorderOutput is the output for the reorder tool.
type ReorderOutput struct {
	Renames int `json:"renames"`
}

// NavigateInput is the input for the focus, move, focus_group and move_group tools.
type NavigateInput struct {
	Target string `json:"target" jsonschema:"next, prev, or a number 1-9 (out-of-range numbers are clamped)"`
}

// NavigateOutput reports where focus landed after a navigation tool ran.
type NavigateOutput struct {
	Action  string `json:"action"`
	Target  string `json:"target"`
	Focused string `json:"focused,omitempty"`
	Num     int    `json:"num,omitempty"`
	Output  string `json:"output,omitempty"`
}

// LayoutInput is the input for the layout tool.
type LayoutInput struct{}

// LayoutOutput is the output for the layout tool.
type LayoutOutput struct {
	Outputs    []string                 `json:"outputs"`
	Workspaces []manager.WorkspaceState `json:"workspaces"`
	Drifted    int                      `json:"drifted"`
}
