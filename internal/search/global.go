package search

import (
	"context"
	"strings"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
)

const ellipsis = "…"

// Hit is one message matching a global search.
type Hit struct {
	ConvIndex int    `json:"conv_index"`
	MsgIndex  int    `json:"msg_index"`
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
}

// GlobalOptions bounds a global search.
type GlobalOptions struct {
	// SnippetRadius is the number of characters kept on each side of the
	// match.
	SnippetRadius int

	// MaxHits stops the search after this many hits; 0 means no limit.
	MaxHits int
}

// Global searches the non-system messages of every conversation. Hits are
// ordered by conversation, then by position in the chain. An empty query
// returns nil.
func Global(ctx context.Context, convs []*conversation.Conversation, q string, opts GlobalOptions) []Hit {
	fq := normalizeQuery(q)
	if fq == "" {
		return nil
	}

	var hits []Hit
	for ci, c := range convs {
		for mi, m := range chainOrSkip(ctx, convs, ci) {
			if m.NormalizedRole() == conversation.RoleSystem {
				continue
			}
			ft := foldWithIndex(m.Text())
			start, end, ok := ft.find(fq)
			if !ok {
				continue
			}
			hits = append(hits, Hit{
				ConvIndex: ci,
				MsgIndex:  mi,
				Title:     c.DisplayTitle(),
				Snippet:   snippet(ft.runes, start, end, opts.SnippetRadius),
			})
			if opts.MaxHits > 0 && len(hits) >= opts.MaxHits {
				return hits
			}
		}
	}
	return hits
}

// snippet cuts radius runes around [start, end) and flattens whitespace.
func snippet(runes []rune, start, end, radius int) string {
	from := max(0, start-radius)
	to := min(len(runes), end+radius)

	var b strings.Builder
	if from > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(strings.Join(strings.Fields(string(runes[from:to])), " "))
	if to < len(runes) {
		b.WriteString(ellipsis)
	}
	return b.String()
}
