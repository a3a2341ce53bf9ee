// Package sway adapts the go-sway IPC client to the few queries and
// commands swaytile needs, and converts its replies into swaytile's own types.
package sway

import (
	"context"
	"errors"
	"fmt"
	"io"

	gosway "github.com/joshuarubin/go-sway"
)

// CommandError describes one rejected command of a RUN_COMMAND batch.
type CommandError struct {
	Index   int // position of the result within the batch reply
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d: %s", e.Index, e.Message)
}

// Conn is a request/response connection to the compositor.
type Conn struct {
	client gosway.Client
	cancel context.CancelFunc
}

// Dial opens a connection to the compositor IPC socket at socketPath. An
// empty path falls back to $SWAYSOCK. The connection lives until Close or
// until ctx is done.
func Dial(ctx context.Context, socketPath string) (*Conn, error) {
	ctx, cancel := context.WithCancel(ctx)

	var opts []gosway.Option
	if socketPath != "" {
		opts = append(opts, gosway.WithSocketPath(socketPath))
	}
	client, err := gosway.New(ctx, opts...)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to connect to compositor at %s: %w", socketPath, err)
	}
	return &Conn{client: client, cancel: cancel}, nil
}

// Close closes the connection.
func (c *Conn) Close() error {
	if c == nil || c.cancel == nil {
		return nil
	}
	c.cancel()
	if closer, ok := c.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// GetWorkspaces returns the compositor's current workspace list. Workspace
// ids come from the layout tree, matched by name.
func (c *Conn) GetWorkspaces(ctx context.Context) ([]Workspace, error) {
	replies, err := c.client.GetWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := c.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64)
	tree.Find(func(n *Node) bool {
		if n.Type == NodeWorkspace {
			ids[n.Name] = n.ID
		}
		return false
	})

	workspaces := make([]Workspace, 0, len(replies))
	for _, ws := range replies {
		id, ok := ids[ws.Name]
		if !ok {
			return nil, fmt.Errorf("workspace %q missing from layout tree", ws.Name)
		}
		workspaces = append(workspaces, Workspace{
			ID:      id,
			Num:     int(ws.Num),
			Name:    ws.Name,
			Output:  ws.Output,
			Focused: ws.Focused,
		})
	}
	return workspaces, nil
}

// GetOutputs returns every output known to the compositor, including inactive ones.
func (c *Conn) GetOutputs(ctx context.Context) ([]Output, error) {
	replies, err := c.client.GetOutputs(ctx)
	if err != nil {
		return nil, err
	}
	outputs := make([]Output, 0, len(replies))
	for _, out := range replies {
		outputs = append(outputs, Output{
			Name:   out.Name,
			Active: out.Active,
			Rect:   convertRect(out.Rect),
		})
	}
	return outputs, nil
}

// GetTree returns the root of the compositor's layout tree.
func (c *Conn) GetTree(ctx context.Context) (*Node, error) {
	root, err := c.client.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	return convertNode(root), nil
}

// RunCommand sends command (which may hold several commands separated by
// "; ") in a single request. The compositor evaluates every command of the
// batch; all rejected ones are returned joined together.
func (c *Conn) RunCommand(ctx context.Context, command string) error {
	replies, err := c.client.RunCommand(ctx, command)
	if err != nil {
		return err
	}
	return commandErrors(command, replies)
}

func commandErrors(command string, replies []gosway.RunCommandReply) error {
	var errs []error
	for i, res := range replies {
		if res.Success {
			continue
		}
		errs = append(errs, &CommandError{Index: i, Message: res.Error})
	}
	if len(errs) > 0 {
		return fmt.Errorf("%q: %w", command, errors.Join(errs...))
	}
	return nil
}

func convertRect(r gosway.Rect) Rect {
	return Rect{X: int(r.X), Y: int(r.Y), Width: int(r.Width), Height: int(r.Height)}
}

func convertNode(n *gosway.Node) *Node {
	if n == nil {
		return nil
	}
	node := &Node{
		ID:      int64(n.ID),
		Name:    n.Name,
		Type:    NodeType(n.Type),
		Focused: n.Focused,
	}
	for _, child := range n.Nodes {
		node.Nodes = append(node.Nodes, convertNode(child))
	}
	for _, child := range n.FloatingNodes {
		node.FloatingNodes = append(node.FloatingNodes, convertNode(child))
	}
	return node
}
