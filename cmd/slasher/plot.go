package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/slasher/internal/render"
	"github.com/Zuo-Peng/slasher/internal/tui"
)

// stdoutTerminal reports whether stdout is an interactive terminal, and its
// width if so.
var stdoutTerminal = func() (bool, int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return true, 0
	}
	return true, w
}

func plotCmd(g *globals) *cobra.Command {
	var multiplier float64
	var noTUI bool

	cmd := &cobra.Command{
		Use:   "plot <source>",
		Short: "Show the message histogram",
		Long: `Show the message histogram. On a terminal this opens an interactive
browser showing the chat of each interval; Enter copies the interval
timestamp. Otherwise, or with --no-tui, a text chart is printed.

Intervals at or above multiplier times the average are marked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("multiplier") {
				multiplier = g.cfg.Multiplier
			}

			c, msgs, err := g.build(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tty, width := stdoutTerminal()
			if tty && !noTUI && g.output == "" {
				return tui.Run(c, msgs, multiplier)
			}

			chart := render.Chart(c, render.Options{
				Width:      width,
				Color:      tty && g.output == "",
				Multiplier: multiplier,
			})
			return g.write(cmd, []byte(chart), "chart")
		},
	}

	cmd.Flags().Float64VarP(&multiplier, "multiplier", "m", 2.0, "Mark intervals at this multiple of the average count")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Print a text chart even on a terminal")

	return cmd
}
