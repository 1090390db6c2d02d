package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"blitiri.com.ar/go/log"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/slasher/internal/chat"
	"github.com/Zuo-Peng/slasher/internal/cut"
	"github.com/Zuo-Peng/slasher/internal/export"
)

// build fetches the chat of ref and buckets it, clipped to --start/--end.
// The messages are returned for commands that show chat text.
func (g *globals) build(ctx context.Context, ref string) (cut.Cut, []chat.Message, error) {
	src, err := chat.Open(ref, g.cfg.ChatOptions(g.match))
	if err != nil {
		return cut.Cut{}, nil, err
	}

	msgs, err := chat.Fetch(ctx, src)
	if err != nil {
		return cut.Cut{}, nil, err
	}

	c, err := cut.Build(src.Name(), msgs, g.duration, g.delay)
	if err != nil {
		return cut.Cut{}, nil, err
	}

	if g.start != 0 || g.end != cut.Forever {
		c, err = c.Clip(g.start, g.end)
		if err != nil {
			return cut.Cut{}, nil, err
		}
		log.Debugf("clipped to %s..%s: %d intervals", g.start, g.end, c.Len())
	}
	return c, msgs, nil
}

// export writes c in the selected format.
func (g *globals) export(cmd *cobra.Command, c cut.Cut) error {
	e, err := export.ByName(g.format, g.resource)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := e.Export(&buf, c); err != nil {
		return fmt.Errorf("export %s: %w", g.format, err)
	}
	return g.write(cmd, buf.Bytes(), fmt.Sprintf("%d intervals", c.Len()))
}

// write sends out to --output, or to stdout if unset. The file is only
// touched once everything before it succeeded.
func (g *globals) write(cmd *cobra.Command, out []byte, what string) error {
	if g.output == "" || g.output == "-" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}

	if err := os.WriteFile(g.output, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s to %s\n", what, g.output)
	return nil
}
