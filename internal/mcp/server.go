// Package mcp exposes workspace navigation and renumbering as MCP tools
// over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/swaytile/internal/manager"
)

const (
	ServerName    = "swaytile"
	ServerVersion = "0.1.0"
)

// Server is the MCP server. Every tool call opens its own compositor
// connection.
type Server struct {
	mcpServer *mcpsdk.Server
	dial      manager.Dialer
	opts      manager.Options
	logger    *slog.Logger
}

// NewServer creates a server that reaches the compositor through dial.
func NewServer(dial manager.Dialer, opts manager.Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		dial:   dial,
		opts:   opts,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reorder",
		Description: "Renumber every workspace to its canonical number: the tens digit is the output (ordered top-to-bottom, left-to-right) and the units digit is the workspace's position on that output. Returns how many workspaces were renamed.",
	}, s.handleReorder)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus",
		Description: "Focus a workspace on the current output. next/prev step through positions and open a new workspace past the first or last one when the current workspace has windows to leave behind; a number focuses that position directly.",
	}, s.handleFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move",
		Description: "Move the focused window to a workspace on the current output and follow it. Accepts the same targets as focus.",
	}, s.handleMove)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_group",
		Description: "Focus the same position on another output. next/prev wrap around the outputs; a number selects the output by rank.",
	}, s.handleFocusGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_group",
		Description: "Move the focused window to the same position on another output and follow it.",
	}, s.handleMoveGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "layout",
		Description: "List outputs in group order and every workspace with its live and canonical number.",
	}, s.handleLayout)
}
