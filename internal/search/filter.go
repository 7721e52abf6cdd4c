package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
	"github.com/chuan-101/json-splitter-public/internal/logging"
)

// FilterByTitle returns the indices of conversations whose title contains
// q, in archive order. An empty query returns every index.
func FilterByTitle(convs []*conversation.Conversation, q string) []int {
	fq := normalizeQuery(q)
	out := make([]int, 0, len(convs))
	for i, c := range convs {
		var title string
		if c != nil {
			title = c.Title
		}
		if matches(title, fq) {
			out = append(out, i)
		}
	}
	return out
}

// FilterMessages keeps the messages whose normalized text contains q.
func FilterMessages(chain []*conversation.Message, q string) []*conversation.Message {
	fq := normalizeQuery(q)
	if fq == "" {
		return chain
	}
	out := make([]*conversation.Message, 0, len(chain))
	for _, m := range chain {
		if matches(m.Text(), fq) {
			out = append(out, m)
		}
	}
	return out
}

// chainOrSkip builds the chain of convs[idx], logging and returning nil
// when the conversation is malformed.
func chainOrSkip(ctx context.Context, convs []*conversation.Conversation, idx int) []*conversation.Message {
	chain, err := conversation.BuildChain(convs[idx])
	if err != nil {
		logSkipped(ctx, idx, err)
		return nil
	}
	return chain
}

func logSkipped(ctx context.Context, idx int, err error) {
	logging.FromContext(ctx).Warn(ctx, "skipping malformed conversation",
		zap.Int("index", idx),
		zap.Error(err))
}
