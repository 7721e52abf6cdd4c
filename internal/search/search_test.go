package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
)

// 1700000000 is 2023-11-14T22:13:20Z.
const testArchive = `[
  {
    "title": "Go Concurrency",
    "create_time": 1700000000,
    "current_node": "n4",
    "mapping": {
      "n1": {"parent": null, "message": {"author": {"role": "system"}, "content": {"parts": ["You are helpful"]}}},
      "n2": {"parent": "n1", "message": {"author": {"role": "user"}, "create_time": 1700000000, "content": {"parts": ["How do channels work?"]}}},
      "n3": {"parent": "n2", "message": {"author": {"role": "assistant"}, "metadata": {"model_slug": "gpt-4o"}, "create_time": 1700086400, "content": {"parts": ["Channels connect goroutines."]}}},
      "n4": {"parent": "n3", "message": {"author": {"role": "tool"}, "create_time": 1700172800, "content": {"parts": ["ok"]}}}
    }
  },
  {
    "title": "Straße Café",
    "create_time": 1700432000,
    "current_node": "m2",
    "mapping": {
      "m1": {"parent": null, "message": {"author": {"role": "user"}, "content": "Where is the STRASSE?"}},
      "m2": {"parent": "m1", "message": {"metadata": {"model_slug": "o1"}, "content": "Down the road"}}
    }
  },
  {
    "title": "Loop",
    "current_node": "a",
    "mapping": {
      "a": {"parent": "b", "message": {"content": "channels A"}},
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
