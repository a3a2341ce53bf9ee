package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/swaytile/internal/manager"
)

type navigateFunc func(*manager.Manager, context.Context, manager.Target) error

func newNavigateCmd(a *app, use, short string, op navigateFunc) *cobra.Command {
	var target manager.Target
	return &cobra.Command{
		Use:       use + " <next|prev|1-9>",
		Short:     short,
		ValidArgs: []string{"next", "prev"},
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("%s takes exactly one argument: next, prev or a number 1-9", use)
			}
			t, err := manager.ParseTarget(args[0])
			if err != nil {
				return &usageError{err: err}
			}
			target = t
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withManager(cmd.Context(), func(ctx context.Context, m *manager.Manager) error {
				return op(m, ctx, target)
			})
		},
	}
}

func newReorderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder",
		Short: "Renumber every workspace to its canonical number",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withManager(cmd.Context(), func(ctx context.Context, m *manager.Manager) error {
				renamed, err := m.Reorder(ctx)
				if err != nil {
					return err
				}
				a.logger.Debug("reorder finished", "renames", renamed)
				return nil
			})
		},
	}
}

// withManager opens a Manager for the duration of fn.
func (a *app) withManager(ctx context.Context, fn func(context.Context, *manager.Manager) error) error {
	dial, err := a.dialer()
	if err != nil {
		return err
	}
	m, err := manager.Open(ctx, dial, a.managerOptions())
	if err != nil {
		return fmt.Errorf("failed to read compositor state: %w", err)
	}
	defer m.Close()
	return fn(ctx, m)
}
