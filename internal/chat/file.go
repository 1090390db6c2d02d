package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"

	"blitiri.com.ar/go/log"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// item is the subset of a chat_downloader chat item we read.
type item struct {
	TimeInSeconds *float64 `json:"time_in_seconds"`
	Message       string   `json:"message"`
	Author        struct {
		Name string `json:"name"`
	} `json:"author"`
}

func (it item) message() Message {
	return Message{
		Offset: it.TimeInSeconds,
		Author: it.Author.Name,
		Text:   it.Message,
	}
}

// fileSource reads a chat_downloader output file: either a JSON array of
// items or one item per line.
type fileSource struct {
	path string
}

func (s *fileSource) Name() string {
	return s.path
}

func (s *fileSource) Messages(ctx context.Context) iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		f, err := os.Open(s.path)
		if err != nil {
			yield(Message{}, err)
			return
		}
		defer f.Close()

		readItems(ctx, f, s.path, yield)
	}
}

// readItems sniffs the first non-space byte to pick the array or line
// decoder. It returns false if the consumer stopped early.
func readItems(ctx context.Context, r io.Reader, name string, yield func(Message, error) bool) bool {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return true
		}
		if err != nil {
			return yield(Message{}, err)
		}
		if b[0] == ' ' || b[0] == '\t' || b[0] == '\r' || b[0] == '\n' {
			br.ReadByte()
			continue
		}
		if b[0] == '[' {
			return readArray(ctx, br, name, yield)
		}
		return readLines(ctx, br, name, yield)
	}
}

func readArray(ctx context.Context, r io.Reader, name string, yield func(Message, error) bool) bool {
	dec := json.NewDecoder(r)
	if _, err := dec.Token(); err != nil {
		return yield(Message{}, fmt.Errorf("%s: %w", name, err))
	}
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return yield(Message{}, err)
		}
		var it item
		if err := dec.Decode(&it); err != nil {
			return yield(Message{}, fmt.Errorf("%s: %w", name, err))
		}
		if !yield(it.message(), nil) {
			return false
		}
	}
	return true
}

func readLines(ctx context.Context, r io.Reader, name string, yield func(Message, error) bool) bool {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if lineNum%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return yield(Message{}, err)
			}
		}

		var it item
		if err := json.Unmarshal(line, &it); err != nil {
			log.Debugf("%s:%d: skipping malformed line: %v", name, lineNum, err)
			continue
		}
		if !yield(it.message(), nil) {
			return false
		}
	}
	if err := scanner.Err(); err != nil {
		return yield(Message{}, fmt.Errorf("%s: %w", name, err))
	}
	return true
}

// dirSource reads every chat file below root, in lexical path order, as one
// continuous log. Multi-part VOD downloads end up like this.
type dirSource struct {
	root string
}

func (s *dirSource) Name() string {
	return s.root
}

func (s *dirSource) Messages(ctx context.Context) iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		files, err := scanDir(s.root)
		if err != nil {
			yield(Message{}, err)
			return
		}
		if len(files) == 0 {
			yield(Message{}, errors.New("no .json or .jsonl files found"))
			return
		}
		for _, path := range files {
			f := &fileSource{path: path}
			for m, err := range f.Messages(ctx) {
				if !yield(m, err) || err != nil {
					return
				}
			}
		}
	}
}

func scanDir(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if d.IsDir() {
			if path != root && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".json", ".jsonl":
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
