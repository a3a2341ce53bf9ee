package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/swaytile/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve workspace tools over stdio",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dial, err := a.dialer()
			if err != nil {
				return err
			}
			opts := a.managerOptions()
			if opts.DryRun != nil {
				// stdout carries the protocol.
				opts.DryRun = a.stderr
			}
			a.logger.Debug("mcp server starting")
			return mcp.NewServer(dial, opts).Run(cmd.Context())
		},
	})
	return cmd
}
