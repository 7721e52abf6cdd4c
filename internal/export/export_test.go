package export

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
)

// testArchive holds two complete conversations, one without a timestamp,
// and one whose parent links loop.
const testArchive = `[
  {
    "id": "c1",
    "title": "My Chat",
    "create_time": 1700000000,
    "current_node": "n3",
    "mapping": {
      "root": {"id": "root", "parent": null, "children": ["n1"]},
      "n1": {"id": "n1", "parent": "root", "message": {"author": {"role": "user"}, "content": {"content_type": "text", "parts": ["Hello"]}}},
      "n2": {"id": "n2", "parent": "n1", "message": {"author": {"role": "assistant"}, "content": {"content_type": "text", "parts": ["Hi there"]}}},
      "n3": {"id": "n3", "parent": "n2", "message": {"author": {"role": "tool"}, "content": {"content_type": "text", "parts": ["tool output"]}}}
    }
  },
  {
    "id": "c2",
    "title": "",
    "current_node": "m1",
    "mapping": {
      "m1": {"parent": null, "message": {"author": {"role": "system"}, "content": {"parts": ["be brief"]}}}
    }
  },
  {
    "id": "loop",
    "title": "Loop",
    "create_time": 1700000000,
    "current_node": "a",
    "mapping": {
      "a": {"parent": "b", "message": {"content": "A"}},
      "b": {"parent": "a", "message": {"content": "B"}}
    }
  }
]`

func loadTestArchive(t *testing.T) []*conversation.Conversation {
	t.Helper()
	convs, err := conversation.NewParser().ParseBytes([]byte(testArchive))
	require.NoError(t, err)
	require.Len(t, convs, 3)
	return convs
}
