package chat

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/Zuo-Peng/slasher/internal/chatdb"
)

// databaseSource reads a chat archive: sqlite:PATH[?vod=ID].
type databaseSource struct {
	ref    string
	path   string
	layout chatdb.Layout
	query  chatdb.Query
}

func newDatabaseSource(ref string, opts DatabaseOptions, match string) (*databaseSource, error) {
	rest := strings.TrimPrefix(ref, "sqlite:")
	path, rawQuery, _ := strings.Cut(rest, "?")
	if path == "" {
		return nil, fmt.Errorf("missing database path")
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", rawQuery, err)
	}

	layout := chatdb.DefaultLayout()
	if opts.Table != "" {
		layout.Table = opts.Table
	}
	if opts.OffsetColumn != "" {
		layout.OffsetColumn = opts.OffsetColumn
	}
	if opts.TextColumn != "" {
		layout.TextColumn = opts.TextColumn
	}
	if opts.AuthorColumn != "" {
		layout.AuthorColumn = opts.AuthorColumn
	}
	if opts.VODColumn != "" {
		layout.VODColumn = opts.VODColumn
	}

	return &databaseSource{
		ref:    ref,
		path:   path,
		layout: layout,
		query:  chatdb.Query{VOD: values.Get("vod"), Match: match},
	}, nil
}

func (s *databaseSource) Name() string {
	return s.ref
}

func (s *databaseSource) Messages(ctx context.Context) iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		db, err := chatdb.OpenDB(s.path, s.layout)
		if err != nil {
			yield(Message{}, err)
			return
		}
		defer db.Close()

		for row, err := range db.Messages(ctx, s.query) {
			if err != nil {
				yield(Message{}, err)
				return
			}
			m := Message{Author: row.Author, Text: row.Text}
			if row.Offset.Valid {
				m.Offset = Offset(row.Offset.Float64)
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}
