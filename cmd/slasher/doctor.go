package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/slasher/internal/config"
	"github.com/Zuo-Peng/slasher/internal/export"
)

func doctorCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [source]",
		Short: "Self-check: config, chat_downloader and optionally a chat source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, "=== Config ===")
			path := g.configPath
			if path == "" {
				path, _ = config.DefaultPath()
			}
			checkFile(w, path)
			fmt.Fprintf(w, "  Format: %s, duration %s, delay %s\n", g.format, g.duration, g.delay)

			fmt.Fprintln(w, "\n=== Downloader ===")
			if p, err := exec.LookPath(g.cfg.Downloader); err != nil {
				fmt.Fprintf(w, "  %s: NOT FOUND (needed for stream URLs)\n", g.cfg.Downloader)
			} else {
				fmt.Fprintf(w, "  %s (OK)\n", p)
			}

			if len(args) == 0 {
				return nil
			}

			fmt.Fprintln(w, "\n=== Source ===")
			c, msgs, err := g.build(cmd.Context(), args[0])
			if err != nil {
				fmt.Fprintf(w, "  Error: %v\n", err)
				return nil
			}
			st := c.Stats()
			fmt.Fprintf(w, "  Messages:  %d (%d counted)\n", len(msgs), st.Messages)
			fmt.Fprintf(w, "  Intervals: %d of %s\n", st.Intervals, c.Duration())
			if st.Intervals > 0 {
				fmt.Fprintf(w, "  First:     %s\n", export.Timestamp(c.Histogram()[0].Start))
				fmt.Fprintf(w, "  Peak:      %d at %s\n", st.Peak.Count, export.Timestamp(st.Peak.Start))
			}
			return nil
		},
	}
}

func checkFile(w io.Writer, path string) {
	if path == "" {
		fmt.Fprintln(w, "  No home directory, using defaults")
	} else if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  %s (NOT FOUND, using defaults)\n", path)
	} else {
		fmt.Fprintf(w, "  %s (OK)\n", path)
	}
}
