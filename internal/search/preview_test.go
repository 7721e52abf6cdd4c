package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
)

func TestPreview(t *testing.T) {
	convs := loadTestArchive(t)

	rows, err := Preview(convs[0], conversation.DefaultRoleNames(), "")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Row{Index: 1, Role: "user", DisplayRole: "User", Side: conversation.SideRight, Model: "Unknown", Text: "How do channels work?"}, rows[0])
	assert.Equal(t, Row{Index: 2, Role: "assistant", DisplayRole: "Assistant", Side: conversation.SideLeft, Model: "gpt-4o", Text: "Channels connect goroutines."}, rows[1])
	assert.Equal(t, "Assistant", rows[2].DisplayRole)
	assert.Equal(t, conversation.SideLeft, rows[2].Side)
}

func TestPreview_ToolRowsOnAssistantSide(t *testing.T) {
	convs, err := conversation.NewParser().ParseBytes([]byte(`[{
		"title": "Lookup",
		"current_node": "c",
		"mapping": {
			"a": {"id": "a", "message": {"author": {"role": "user"}, "content": {"parts": ["weather?"]}}},
			"b": {"id": "b", "parent": "a", "message": {"author": {"role": "tool"}, "content": {"parts": ["sunny"]}, "metadata": {"model_slug": "gpt-4o"}}},
			"c": {"id": "c", "parent": "b", "message": {"author": {"role": "function"}, "content": "21C"}}
		}
	}]`))
	require.NoError(t, err)

	rows, err := Preview(convs[0], conversation.DefaultRoleNames(), "")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, conversation.SideRight, rows[0].Side)
	assert.Equal(t, Row{Index: 1, Role: "tool", DisplayRole: "Assistant", Side: conversation.SideLeft, Model: "gpt-4o", Text: "sunny"}, rows[1])
	assert.Equal(t, "Assistant", rows[2].DisplayRole)
	assert.Equal(t, conversation.SideLeft, rows[2].Side)
}

func TestPreview_Filtered(t *testing.T) {
	convs := loadTestArchive(t)

	rows, err := Preview(convs[0], conversation.DefaultRoleNames(), "helpful")
	require.NoError(t, err)
	assert.Empty(t, rows, "system messages never appear")

	rows, err = Preview(convs[1], conversation.DefaultRoleNames(), "road")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "assistant", rows[0].Role)
}

func TestPreview_Cycle(t *testing.T) {
	_, err := Preview(loadTestArchive(t)[2], conversation.DefaultRoleNames(), "")
	assert.ErrorIs(t, err, conversation.ErrCyclicChain)
}

func TestVisibleCount(t *testing.T) {
	convs := loadTestArchive(t)
	n, err := VisibleCount(convs[0])
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestGlobal(t *testing.T) {
	convs := loadTestArchive(t)
	ctx := context.Background()

	hits := Global(ctx, convs, "channels", GlobalOptions{SnippetRadius: 40})
	require.Len(t, hits, 2)
	assert.Equal(t, Hit{ConvIndex: 0, MsgIndex: 1, Title: "Go Concurrency", Snippet: "How do channels work?"}, hits[0])
	assert.Equal(t, 2, hits[1].MsgIndex)

	assert.Nil(t, Global(ctx, convs, " ", GlobalOptions{}))
	assert.Empty(t, Global(ctx, convs, "you are helpful", GlobalOptions{}))

	limited := Global(ctx, convs, "channels", GlobalOptions{MaxHits: 1})
	assert.Len(t, limited, 1)
}

func TestGlobal_CaseFolding(t *testing.T) {
	hits := Global(context.Background(), loadTestArchive(t), "straße", GlobalOptions{SnippetRadius: 3})
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].ConvIndex)
	assert.Equal(t, "…he STRASSE?", hits[0].Snippet)
}

func TestSnippet(t *testing.T) {
	runes := []rune("line one\nneedle here\tand more text")
	assert.Equal(t, "…one needle her…", snippet(runes, 9, 15, 4))
	assert.Equal(t, "line one needle here and more text", snippet(runes, 9, 15, 100))
}
