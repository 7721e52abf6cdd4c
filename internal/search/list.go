package search

import (
	"context"
	"time"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
)

// Summary is one line of the conversation list.
type Summary struct {
	Index    int       `json:"index"`
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Messages int       `json:"messages"`
	Selected bool      `json:"selected,omitempty"`
}

// List summarizes the conversations whose title contains q. Message
// counts exclude system messages; a looping conversation is logged and
// listed with zero messages. sel may be nil.
func List(ctx context.Context, convs []*conversation.Conversation, q string, sel *Selection, now time.Time) []Summary {
	visible := FilterByTitle(convs, q)
	out := make([]Summary, 0, len(visible))
	for _, idx := range visible {
		c := convs[idx]
		n, err := VisibleCount(c)
		if err != nil {
			logSkipped(ctx, idx, err)
		}
		out = append(out, Summary{
			Index:    idx,
			ID:       c.ID,
			Title:    c.DisplayTitle(),
			Created:  c.Created(now),
			Messages: n,
			Selected: sel != nil && sel.Has(idx),
		})
	}
	return out
}
