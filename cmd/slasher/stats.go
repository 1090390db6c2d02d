package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/slasher/internal/export"
)

func statsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <source>",
		Short: "Summarize the chat histogram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := g.build(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			st := c.Stats()

			var b strings.Builder
			fmt.Fprintf(&b, "Source:    %s\n", c.Source())
			fmt.Fprintf(&b, "Interval:  %s (delay %s)\n", c.Duration(), c.Delay())
			fmt.Fprintf(&b, "Messages:  %d\n", st.Messages)
			fmt.Fprintf(&b, "Intervals: %d\n", st.Intervals)
			fmt.Fprintf(&b, "Average:   %d\n", st.Average)
			if st.Intervals > 0 {
				fmt.Fprintf(&b, "Peak:      %d at %s\n", st.Peak.Count, export.Timestamp(st.Peak.Start))
				fmt.Fprintf(&b, "Span:      %s\n", st.Span)
			}
			return g.write(cmd, []byte(b.String()), "stats")
		},
	}
}
