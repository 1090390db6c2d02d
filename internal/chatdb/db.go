// Package chatdb reads chat messages out of SQLite archives written by chat
// recorders, one row per message with an offset relative to the VOD start.
package chatdb

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"os"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

// Layout names the table and columns holding the chat. Empty optional
// columns are read as empty strings.
type Layout struct {
	Table        string
	OffsetColumn string // required, seconds since stream start (REAL, nullable)
	TextColumn   string
	AuthorColumn string
	VODColumn    string
}

// DefaultLayout matches a chat_messages table keyed by vod_id.
func DefaultLayout() Layout {
	return Layout{
		Table:        "chat_messages",
		OffsetColumn: "rel_timestamp",
		TextColumn:   "message",
		AuthorColumn: "username",
		VODColumn:    "vod_id",
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (l Layout) validate() error {
	if l.Table == "" || l.OffsetColumn == "" {
		return fmt.Errorf("table and offset column are required")
	}
	for _, id := range []string{l.Table, l.OffsetColumn, l.TextColumn, l.AuthorColumn, l.VODColumn} {
		if id != "" && !identRe.MatchString(id) {
			return fmt.Errorf("invalid identifier %q", id)
		}
	}
	return nil
}

type DB struct {
	db     *sql.DB
	layout Layout
}

// OpenDB opens an existing archive. The file is never created.
func OpenDB(dbPath string, layout Layout) (*DB, error) {
	if err := layout.validate(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}

	return &DB{db: db, layout: layout}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

type Row struct {
	Offset sql.NullFloat64
	Author string
	Text   string
}

type Query struct {
	VOD   string // "" = every row
	Match string // "" = no filter, otherwise substring of the text column
}

func column(name string) string {
	if name == "" {
		return "''"
	}
	return name
}

func (d *DB) buildQuery(q Query) (string, []interface{}, error) {
	l := d.layout

	var conditions []string
	var args []interface{}

	if q.VOD != "" {
		if l.VODColumn == "" {
			return "", nil, fmt.Errorf("no vod column configured")
		}
		conditions = append(conditions, l.VODColumn+" = ?")
		args = append(args, q.VOD)
	}

	if q.Match != "" {
		if l.TextColumn == "" {
			return "", nil, fmt.Errorf("no text column configured")
		}
		// LIKE is case-insensitive for ASCII in SQLite.
		conditions = append(conditions, l.TextColumn+" LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(q.Match)+"%")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		%s
		ORDER BY %s`,
		l.OffsetColumn, column(l.AuthorColumn), column(l.TextColumn),
		l.Table, where, l.OffsetColumn)
	return query, args, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Messages streams the rows selected by q.
func (d *DB) Messages(ctx context.Context, q Query) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		query, args, err := d.buildQuery(q)
		if err != nil {
			yield(Row{}, err)
			return
		}

		rows, err := d.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(Row{}, fmt.Errorf("chat query: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var r Row
			var author, text sql.NullString
			if err := rows.Scan(&r.Offset, &author, &text); err != nil {
				yield(Row{}, err)
				return
			}
			r.Author = author.String
			r.Text = text.String
			if !yield(r, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Row{}, err)
		}
	}
}
