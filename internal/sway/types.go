package sway

// Rect describes a rectangular region in compositor layout coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Workspace is one workspace as swaytile sees it. ID is the workspace's
// container id in the layout tree.
type Workspace struct {
	ID      int64
	Num     int // -1 when the name has no numeric prefix
	Name    string
	Output  string
	Focused bool
}

// Numbered reports whether the compositor parsed a number from the workspace name.
func (w Workspace) Numbered() bool {
	return w.Num >= 0
}

// Output is a display output. Disabled outputs are reported with Active unset.
type Output struct {
	Name   string
	Active bool
	Rect   Rect
}

// NodeType is the type field of a layout tree node.
type NodeType string

const (
	NodeRoot      NodeType = "root"
	NodeOutput    NodeType = "output"
	NodeWorkspace NodeType = "workspace"
	NodeContainer NodeType = "con"
)

// Node is a container of the layout tree.
type Node struct {
	ID            int64
	Name          string
	Type          NodeType
	Focused       bool
	Nodes         []*Node
	FloatingNodes []*Node
}

// Find returns the first node, depth-first and starting with n itself,
// for which match returns true. Floating children are searched after tiling ones.
func (n *Node) Find(match func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for _, child := range n.Nodes {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	for _, child := range n.FloatingNodes {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}
