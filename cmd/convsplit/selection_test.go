package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
	"github.com/chuan-101/json-splitter-public/internal/export"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int
	}{
		{"single", "3", []int{3}},
		{"list", "0,2", []int{0, 2}},
		{"range", "5-7", []int{5, 6, 7}},
		{"mixed unordered", "7, 0,2-3 ,2", []int{0, 2, 3, 7}},
		{"degenerate range", "4-4", []int{4}},
		{"empty parts", ",1,,", []int{1}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelection(tt.in, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSelection_Errors(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		isOOR bool
	}{
		{"not a number", "x", false},
		{"bad range end", "1-x", false},
		{"reversed range", "7-5", false},
		{"negative", "-1", false},
		{"past end", "10", true},
		{"range past end", "8-12", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSelection(tt.in, 10)
			require.Error(t, err)
			assert.Equal(t, tt.isOOR, errors.Is(err, export.ErrIndexOutOfRange))
		})
	}
}

func TestParseIndex(t *testing.T) {
	idx, err := parseIndex(" 2 ", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = parseIndex("2x", 3)
	assert.Error(t, err)

	_, err = parseIndex("3", 3)
	assert.ErrorIs(t, err, export.ErrIndexOutOfRange)
}

func loadConversations(t *testing.T) []*conversation.Conversation {
	t.Helper()
	convs, err := conversation.NewParser().ParseBytes([]byte(testArchive))
	require.NoError(t, err)
	return convs
}
