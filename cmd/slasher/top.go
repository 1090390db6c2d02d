package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/slasher/internal/cut"
)

func topCmd(g *globals) *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "top <source>",
		Short: "Keep the busiest intervals, in chronological order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("amount") {
				amount = g.cfg.Amount
			}
			if amount < 0 {
				return fmt.Errorf("%w: amount must not be negative, got %d", cut.ErrInvalidParameter, amount)
			}

			c, _, err := g.build(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return g.export(cmd, c.Top(amount))
		},
	}

	cmd.Flags().IntVarP(&amount, "amount", "a", 5, "Number of intervals to keep")

	return cmd
}
