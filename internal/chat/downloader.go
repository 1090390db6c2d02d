package chat

import (
	"context"
	"fmt"
	"iter"
	"os"
	"os/exec"
	"path/filepath"

	"blitiri.com.ar/go/log"
)

// DefaultDownloader is the chat-downloader command line program.
const DefaultDownloader = "chat_downloader"

// downloaderSource runs chat_downloader against a platform URL, letting it
// write a JSONL file that is then read like any other chat file.
type downloaderSource struct {
	url     string
	program string
	args    []string
}

func (s *downloaderSource) Name() string {
	return s.url
}

func (s *downloaderSource) Messages(ctx context.Context) iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		dir, err := os.MkdirTemp("", "slasher-chat-")
		if err != nil {
			yield(Message{}, err)
			return
		}
		defer os.RemoveAll(dir)

		out := filepath.Join(dir, "chat.jsonl")
		if err := s.download(ctx, out); err != nil {
			yield(Message{}, err)
			return
		}

		f := &fileSource{path: out}
		for m, err := range f.Messages(ctx) {
			if !yield(m, err) || err != nil {
				return
			}
		}
	}
}

func (s *downloaderSource) download(ctx context.Context, out string) error {
	program := s.program
	if program == "" {
		program = DefaultDownloader
	}

	args := append([]string{}, s.args...)
	args = append(args, "--output", out, s.url)

	log.Debugf("running %s %v", program, args)
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", program, err)
	}

	if _, err := os.Stat(out); err != nil {
		return fmt.Errorf("%s produced no output: %w", program, err)
	}
	return nil
}
