package main

import (
	"github.com/spf13/cobra"
)

func clipCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "clip <source>",
		Short: "Export every interval between --start and --end",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := g.build(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return g.export(cmd, c)
		},
	}
}
