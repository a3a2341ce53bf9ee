package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/swaytile/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and list the files it was loaded from",
		Args:  noArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if len(a.loaded.Files) == 0 {
				fmt.Fprintln(a.stdout, "OK (no config file, using defaults)")
				return nil
			}
			fmt.Fprintln(a.stdout, "OK")
			for _, f := range a.loaded.Files {
				fmt.Fprintf(a.stdout, "  %s\n", f)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration as YAML",
		Args:  noArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			out, err := config.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(out)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "explain <path>",
		Short: "Show a config value and where it was set",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("explain takes exactly one path, e.g. daemon.events")
			}
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			value, src, err := config.Explain(a.loaded, args[0])
			if err != nil {
				return &usageError{err: err}
			}
			fmt.Fprintf(a.stdout, "%s: %v\n", args[0], value)
			fmt.Fprintf(a.stdout, "source: %s\n", src)
			return nil
		},
	})

	return cmd
}
