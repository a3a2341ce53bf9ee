package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/swaytile/internal/daemon"
	"github.com/1broseidon/swaytile/internal/runtimepath"
)

func newDaemonCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Keep workspace numbering canonical as workspaces and outputs change",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dial, err := a.dialer()
			if err != nil {
				return err
			}
			subscribe := a.subscribe
			if subscribe == nil {
				subscribe = daemon.SocketSubscriber(a.socket)
			}

			lockPath, err := runtimepath.DaemonLockPath()
			if err != nil {
				return err
			}
			lock, err := daemon.AcquireLock(lockPath)
			if err != nil {
				return err
			}
			defer lock.Unlock()

			d := daemon.New(daemon.Config{
				Events:         a.cfg.Events(),
				ReorderOnStart: a.cfg.Daemon.ReorderOnStart,
				Manager:        a.managerOptions(),
				Logger:         a.logger,
			}, dial, subscribe)
			return d.Run(cmd.Context())
		},
	}
	return cmd
}
