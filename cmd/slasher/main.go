package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "slasher",
		Short: "Find the busiest parts of a stream from its chat and export them as cuts",
		Long: `Slasher buckets chat messages into fixed-length intervals and keeps the
busiest ones, as ffmpeg filters, ffsilencer ranges, an MLT project or JSON.

A source is a chat_downloader JSON/JSONL file, a directory of them, a
stream URL (fetched with chat_downloader) or sqlite:PATH?vod=ID.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}
	g.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(filterCmd(g))
	rootCmd.AddCommand(topCmd(g))
	rootCmd.AddCommand(clipCmd(g))
	rootCmd.AddCommand(plotCmd(g))
	rootCmd.AddCommand(statsCmd(g))
	rootCmd.AddCommand(doctorCmd(g))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "slasher:", err)
		stop()
		os.Exit(1)
	}
}
