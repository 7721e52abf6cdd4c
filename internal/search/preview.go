package search

import (
	"github.com/chuan-101/json-splitter-public/internal/conversation"
)

// Row is one message bubble of a conversation preview.
type Row struct {
	Index       int               `json:"index"`
	Role        string            `json:"role"`
	DisplayRole string            `json:"display_role"`
	Side        conversation.Side `json:"side"`
	Model       string            `json:"model"`
	Text        string            `json:"text"`
}

// Preview returns the non-system messages of c's current branch that
// contain q. Row.Index is the message's position in the full chain.
func Preview(c *conversation.Conversation, roles conversation.RoleNames, q string) ([]Row, error) {
	chain, err := conversation.BuildChain(c)
	if err != nil {
		return nil, err
	}

	fq := normalizeQuery(q)
	rows := make([]Row, 0, len(chain))
	for i, m := range chain {
		if m.NormalizedRole() == conversation.RoleSystem {
			continue
		}
		if !matches(m.Text(), fq) {
			continue
		}
		role := string(m.NormalizedRole())
		rows = append(rows, Row{
			Index:       i,
			Role:        role,
			DisplayRole: roles.Display(role),
			Side:        conversation.SideOf(role),
			Model:       conversation.ExtractModel(m),
			Text:        m.Text(),
		})
	}
	return rows, nil
}

// VisibleCount returns the number of non-system messages on c's current
// branch.
func VisibleCount(c *conversation.Conversation) (int, error) {
	chain, err := conversation.BuildChain(c)
	if err != nil {
		return 0, err
	}
	return len(conversation.VisibleMessages(chain)), nil
}
