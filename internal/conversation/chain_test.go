package conversation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, archive string) *Conversation {
	t.Helper()
	convs, err := NewParser().ParseBytes([]byte(archive))
	require.NoError(t, err)
	require.Len(t, convs, 1)
	return convs[0]
}

func texts(chain []*Message) []string {
	out := make([]string, 0, len(chain))
	for _, m := range chain {
		out = append(out, m.Text())
	}
	return out
}

func TestBuildChain_RootToLeaf(t *testing.T) {
	c := parseOne(t, `[{"current_node":"c","mapping":{
		"a":{"parent":null,"message":{"content":"A"}},
		"b":{"parent":"a","message":{"content":"B"}},
		"c":{"parent":"b","message":{"content":"C"}}}}]`)

	chain, err := BuildChain(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, texts(chain))
}

func TestBuildChain_FollowsCurrentBranchOnly(t *testing.T) {
	c := parseOne(t, `[{"current_node":"b2","mapping":{
		"root":{"parent":null,"children":["a"]},
		"a":{"parent":"root","children":["b1","b2"],"message":{"content":"question"}},
		"b1":{"parent":"a","message":{"content":"first answer"}},
		"b2":{"parent":"a","message":{"content":"regenerated answer"}}}}]`)

	chain, err := BuildChain(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"question", "regenerated answer"}, texts(chain))
}

func TestBuildChain_MissingCurrentNode(t *testing.T) {
	c := parseOne(t, `[{"current_node":"z","mapping":{"a":{"parent":null,"message":{"content":"A"}}}}]`)

	chain, err := BuildChain(c)
	require.NoError(t, err)
	assert.Empty(t, chain)

	c.CurrentNode = ""
	chain, err = BuildChain(c)
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestBuildChain_MissingAncestor(t *testing.T) {
	c := parseOne(t, `[{"current_node":"c","mapping":{
		"b":{"parent":"a","message":{"content":"B"}},
		"c":{"parent":"b","message":{"content":"C"}}}}]`)

	chain, err := BuildChain(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, texts(chain))
}

func TestBuildChain_Cycle(t *testing.T) {
	c := parseOne(t, `[{"id":"loop","current_node":"a","mapping":{
		"a":{"parent":"b","message":{"content":"A"}},
		"b":{"parent":"a","message":{"content":"B"}}}}]`)

	_, err := BuildChain(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCyclicChain))
	assert.True(t, errors.Is(err, ErrMalformedArchive))
	assert.Contains(t, err.Error(), "loop")
}

func TestBuildChain_SelfParent(t *testing.T) {
	c := parseOne(t, `[{"current_node":"a","mapping":{"a":{"parent":"a","message":{"content":"A"}}}}]`)

	_, err := BuildChain(c)
	assert.ErrorIs(t, err, ErrCyclicChain)
}

func TestBuildChain_Nil(t *testing.T) {
	chain, err := BuildChain(nil)
	require.NoError(t, err)
	assert.Nil(t, chain)
}

func TestVisibleMessages(t *testing.T) {
	c := parseOne(t, `[{"current_node":"c","mapping":{
		"a":{"parent":null,"message":{"author":{"role":"system"},"content":"rules"}},
		"b":{"parent":"a","message":{"author":{"role":"User"},"content":"hi"}},
		"c":{"parent":"b","message":{"author":{"role":"tool"},"content":"out"}}}}]`)

	chain, err := BuildChain(c)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, []string{"hi", "out"}, texts(VisibleMessages(chain)))
}
