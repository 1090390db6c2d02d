package chat

import (
	"context"
	"iter"
	"strings"
)

type matchSource struct {
	src  Source
	term string
}

// Matching wraps src so that only messages containing term (ignoring case)
// are yielded.
func Matching(src Source, term string) Source {
	return &matchSource{src: src, term: strings.ToLower(term)}
}

func (s *matchSource) Name() string {
	return s.src.Name()
}

func (s *matchSource) Messages(ctx context.Context) iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		for m, err := range s.src.Messages(ctx) {
			if err != nil {
				yield(m, err)
				return
			}
			if !strings.Contains(strings.ToLower(m.Text), s.term) {
				continue
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}
