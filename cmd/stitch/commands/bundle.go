package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle [entry]",
		Short: "Build and write the configured bundles, or a single entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := runOptions(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Entry = args[0]
				opts.Output, _ = cmd.Flags().GetString("output")
			}
			return c.app.Bundle(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("output", "o", "-", "Where to write the entry's bundle (- for stdout)")
	return cmd
}

func (c *CLI) newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files <entry>",
		Short: "List the dependencies of an entry in concatenation order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := runOptions(cmd)
			if err != nil {
				return err
			}
			opts.Entry = args[0]
			return c.app.Files(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Bundle, then rebuild whenever a project file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := runOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), opts)
		},
	}
}
