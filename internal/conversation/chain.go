package conversation

import (
	"fmt"
	"slices"
)

// BuildChain returns the messages on the path from the root to
// c.CurrentNode, oldest first. Nodes without a message are skipped.
//
// The walk stops quietly at an empty parent or at an id missing from the
// mapping, so a dangling reference yields the part of the chain below it.
// A walk longer than the mapping can only be a loop and returns
// ErrCyclicChain.
func BuildChain(c *Conversation) ([]*Message, error) {
	if c == nil {
		return nil, nil
	}

	var chain []*Message
	steps := 0
	for id := c.CurrentNode; id != ""; {
		node, ok := c.Mapping[id]
		if !ok || node == nil {
			break
		}
		steps++
		if steps > len(c.Mapping) {
			return nil, fmt.Errorf("conversation %q revisits node %q: %w", c.ID, id, ErrCyclicChain)
		}
		if node.Message != nil {
			node.Message.Text()
			chain = append(chain, node.Message)
		}
		id = node.Parent
	}

	slices.Reverse(chain)
	return chain, nil
}

// VisibleMessages drops system messages, which previews and counts hide.
func VisibleMessages(chain []*Message) []*Message {
	out := make([]*Message, 0, len(chain))
	for _, m := range chain {
		if m.NormalizedRole() != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}
