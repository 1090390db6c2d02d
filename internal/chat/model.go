package chat

import (
	"context"
	"iter"
	"math"
)

// Message is a single chat item. Only Offset feeds the histogram; Author and
// Text are kept for keyword matching.
type Message struct {
	Offset *float64 // seconds since stream start, nil if the source had none
	Author string
	Text   string
}

// Seconds returns the message offset and whether it is usable.
func (m Message) Seconds() (float64, bool) {
	if m.Offset == nil {
		return 0, false
	}
	v := *m.Offset
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Source produces a lazy, single-pass, finite sequence of chat messages.
// Iteration stops at the first non-nil error.
type Source interface {
	Name() string
	Messages(ctx context.Context) iter.Seq2[Message, error]
}

// Options tune how a reference is resolved into a Source.
type Options struct {
	// Match keeps only messages whose text contains this term
	// (case-insensitive). Empty keeps everything.
	Match string

	// Downloader is the chat_downloader executable used for URLs.
	Downloader     string
	DownloaderArgs []string

	// Database describes the chat table layout for sqlite: references.
	Database DatabaseOptions
}

type DatabaseOptions struct {
	Table        string
	OffsetColumn string
	TextColumn   string
	AuthorColumn string
	VODColumn    string
}

// Offset is a convenience for building messages in code and tests.
func Offset(seconds float64) *float64 {
	return &seconds
}
