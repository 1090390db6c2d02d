package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"blitiri.com.ar/go/log"
)

// ErrNoMessages is reported when a source finished without yielding anything.
var ErrNoMessages = errors.New("no chat messages")

// FetchError reports that a chat source could not be read.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch chat from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Open resolves ref into a Source:
//
//	sqlite:PATH?vod=ID   chat archive database
//	http(s)://...        chat_downloader
//	DIR                  every .json/.jsonl file inside
//	FILE                 a JSON array or JSONL file
func Open(ref string, opts Options) (Source, error) {
	var src Source
	switch {
	case ref == "":
		return nil, &FetchError{Source: ref, Err: errors.New("empty source")}
	case strings.HasPrefix(ref, "sqlite:"):
		// The database filters with LIKE itself.
		s, err := newDatabaseSource(ref, opts.Database, opts.Match)
		if err != nil {
			return nil, &FetchError{Source: ref, Err: err}
		}
		return s, nil
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		src = &downloaderSource{
			url:     ref,
			program: opts.Downloader,
			args:    opts.DownloaderArgs,
		}
	default:
		info, err := os.Stat(ref)
		if err != nil {
			return nil, &FetchError{Source: ref, Err: err}
		}
		if info.IsDir() {
			src = &dirSource{root: ref}
		} else {
			src = &fileSource{path: ref}
		}
	}

	if opts.Match != "" {
		src = Matching(src, opts.Match)
	}
	return src, nil
}

// Fetch drains src. Any read failure, or a source without messages, is
// returned as a *FetchError.
func Fetch(ctx context.Context, src Source) ([]Message, error) {
	var msgs []Message
	for m, err := range src.Messages(ctx) {
		if err != nil {
			return nil, &FetchError{Source: src.Name(), Err: err}
		}
		msgs = append(msgs, m)
	}
	if len(msgs) == 0 {
		return nil, &FetchError{Source: src.Name(), Err: ErrNoMessages}
	}
	log.Debugf("fetched %d messages from %s", len(msgs), src.Name())
	return msgs, nil
}
