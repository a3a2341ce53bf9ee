package manager

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// dryRunConn forwards queries and prints commands instead of running them.
type dryRunConn struct {
	Conn
	w      io.Writer
	logger *slog.Logger
}

func (c *dryRunConn) RunCommand(_ context.Context, command string) error {
	for _, cmd := range strings.Split(command, "; ") {
		c.logger.Info("dry-run command", "command", cmd)
		if _, err := fmt.Fprintln(c.w, cmd); err != nil {
			return err
		}
	}
	return nil
}
