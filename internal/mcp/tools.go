package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/swaytile/internal/layout"
	"github.com/1broseidon/swaytile/internal/manager"
)

func (s *Server) open(ctx context.Context) (*manager.Manager, error) {
	m, err := manager.Open(ctx, s.dial, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read compositor state: %w", err)
	}
	return m, nil
}

func (s *Server) handleReorder(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ReorderInput) (*mcpsdk.CallToolResult, ReorderOutput, error) {
	m, err := s.open(ctx)
	if err != nil {
		return nil, ReorderOutput{}, err
	}
	defer m.Close()

	renamed, err := m.Reorder(ctx)
	if err != nil {
		return nil, ReorderOutput{}, err
	}
	s.logger.Info("mcp reorder", "renames", renamed)
	return nil, ReorderOutput{Renames: renamed}, nil
}

func (s *Server) handleFocus(ctx context.Context, _ *mcpsdk.CallToolRequest, args NavigateInput) (*mcpsdk.CallToolResult, NavigateOutput, error) {
	return s.navigate(ctx, "focus", args, (*manager.Manager).Focus)
}

func (s *Server) handleMove(ctx context.Context, _ *mcpsdk.CallToolRequest, args NavigateInput) (*mcpsdk.CallToolResult, NavigateOutput, error) {
	return s.navigate(ctx, "move", args, (*manager.Manager).Move)
}

func (s *Server) handleFocusGroup(ctx context.Context, _ *mcpsdk.CallToolRequest, args NavigateInput) (*mcpsdk.CallToolResult, NavigateOutput, error) {
	return s.navigate(ctx, "focus_group", args, (*manager.Manager).FocusGroup)
}

func (s *Server) handleMoveGroup(ctx context.Context, _ *mcpsdk.CallToolRequest, args NavigateInput) (*mcpsdk.CallToolResult, NavigateOutput, error) {
	return s.navigate(ctx, "move_group", args, (*manager.Manager).MoveGroup)
}

type navigateFunc func(*manager.Manager, context.Context, manager.Target) error

// navigate runs op on a fresh Manager, then reads the new focus through a
// second connection.
func (s *Server) navigate(ctx context.Context, action string, args NavigateInput, op navigateFunc) (*mcpsdk.CallToolResult, NavigateOutput, error) {
	target, err := manager.ParseTarget(args.Target)
	if err != nil {
		return nil, NavigateOutput{}, err
	}

	m, err := s.open(ctx)
	if err != nil {
		return nil, NavigateOutput{}, err
	}
	err = op(m, ctx, target)
	m.Close()
	if err != nil {
		return nil, NavigateOutput{}, err
	}
	s.logger.Info("mcp navigate", "action", action, "target", target)

	out := NavigateOutput{Action: action, Target: target.String()}
	if s.opts.DryRun != nil {
		return nil, out, nil
	}

	after, err := s.open(ctx)
	if err != nil {
		s.logger.Warn("mcp navigate: failed to read new focus", "error", err)
		return nil, out, nil
	}
	defer after.Close()
	focused := after.Focused()
	out.Focused = focused.Name
	out.Num = focused.Num
	out.Output = focused.Output
	return nil, out, nil
}

func (s *Server) handleLayout(ctx context.Context, _ *mcpsdk.CallToolRequest, _ LayoutInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	m, err := s.open(ctx)
	if err != nil {
		return nil, LayoutOutput{}, err
	}
	defer m.Close()

	out := LayoutOutput{
		Outputs:    []string{},
		Workspaces: m.Layout(),
	}
	for _, o := range layout.RankOutputs(m.Outputs()) {
		out.Outputs = append(out.Outputs, o.Name)
	}
	for _, ws := range out.Workspaces {
		if ws.Drifted() {
			out.Drifted++
		}
	}
	return nil, out, nil
}
