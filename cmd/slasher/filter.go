package main

import (
	"github.com/spf13/cobra"
)

func filterCmd(g *globals) *cobra.Command {
	var multiplier float64

	cmd := &cobra.Command{
		Use:   "filter <source>",
		Short: "Keep intervals with at least multiplier times the average message count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("multiplier") {
				multiplier = g.cfg.Multiplier
			}

			c, _, err := g.build(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c, err = c.Filter(multiplier)
			if err != nil {
				return err
			}
			return g.export(cmd, c)
		},
	}

	cmd.Flags().Float64VarP(&multiplier, "multiplier", "m", 2.0, "Threshold as a multiple of the average count")

	return cmd
}
