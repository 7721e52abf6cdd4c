package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
	"github.com/chuan-101/json-splitter-public/internal/export"
	"github.com/chuan-101/json-splitter-public/internal/search"
	"github.com/chuan-101/json-splitter-public/internal/workspace"
)

const testArchive = `[
  {
    "id": "c1",
    "title": "My Chat",
    "create_time": 1700000000,
    "current_node": "n2",
    "mapping": {
      "n1": {"parent": null, "message": {"author": {"role": "user"}, "content": {"parts": ["Hello"]}}},
      "n2": {"parent": "n1", "message": {"author": {"role": "assistant"}, "content": {"parts": ["Hi there"]}, "metadata": {"model_slug": "gpt-4o"}}}
    }
  },
  {
    "id": "c2",
    "title": "Notes",
    "create_time": 1700086400,
    "current_node": "m1",
    "mapping": {
      "m1": {"parent": null, "message": {"author": {"role": "user"}, "content": "remember this"}}
    }
  },
  {
    "id": "loop",
    "title": "Loop",
    "current_node": "a",
    "mapping": {
      "a": {"parent": "b", "message": {"content": "A"}},
      "b": {"parent": "a", "message": {"content": "B"}}
    }
  }
]`

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *workspace.Workspace, string) {
	t.Helper()
	ws := workspace.New(nil)
	require.NoError(t, ws.LoadBytes(context.Background(), []byte(testArchive), "test.json"))

	dir := t.TempDir()
	svc := export.NewService(export.Options{Now: func() time.Time { return fixedNow }})
	m := New(ws, svc, Options{
		OutputDir:    dir,
		GlamourStyle: "notty",
		Now:          func() time.Time { return fixedNow },
	})
	return m, ws, dir
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

// press feeds keys through Update and returns the resulting model and the
// command produced by the last key.
func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func TestNew_SelectsEverything(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, []int{0, 1, 2}, m.visible)
	assert.Equal(t, 3, m.sel.Len())
	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.Init())
}

func TestUpdate_Toggle(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, space)
	assert.False(t, m.sel.Has(0))

	m, _ = press(t, m, down, space)
	assert.False(t, m.sel.Has(1))
	assert.True(t, m.sel.Has(2))

	m, _ = press(t, m, runes("k"), space)
	assert.True(t, m.sel.Has(0))
}

func TestUpdate_SelectionKeys(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, runes("n"))
	assert.Equal(t, 0, m.sel.Len())

	m, _ = press(t, m, runes("a"))
	assert.Equal(t, 3, m.sel.Len())

	m, _ = press(t, m, space, runes("i"))
	assert.Equal(t, []int{0}, m.sel.Sorted())
}

func TestUpdate_FilterLimitsBulkSelection(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, runes("/"))
	assert.Equal(t, modeFilter, m.mode)

	m, _ = press(t, m, runes("c"), runes("h"), runes("a"), runes("t"))
	assert.Equal(t, "chat", m.filter.Value())
	assert.Equal(t, []int{0}, m.visible)

	m, _ = press(t, m, enter)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, []int{0}, m.visible)

	m, _ = press(t, m, runes("n"))
	assert.Equal(t, []int{1, 2}, m.sel.Sorted())

	m, _ = press(t, m, esc)
	assert.Empty(t, m.filter.Value())
	assert.Equal(t, []int{0, 1, 2}, m.visible)
}

func TestUpdate_FilterEscClears(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, runes("/"), runes("z"))
	assert.Empty(t, m.visible)
	assert.Contains(t, m.View(), "no conversations")

	m, _ = press(t, m, esc)
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, m.visible, 3)
}

func TestUpdate_Preview(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, enter)
	require.Equal(t, modePreview, m.mode)
	assert.Equal(t, "My Chat", m.previewTitle)

	view := m.View()
	assert.Contains(t, view, "Hello")
	assert.Contains(t, view, "Hi there")
	assert.Contains(t, view, "gpt-4o")

	m, _ = press(t, m, esc)
	assert.Equal(t, modeList, m.mode)
}

func TestUpdate_PreviewCyclicConversation(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, down, down, enter)
	assert.Equal(t, modeList, m.mode)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "Loop")
}

func TestUpdate_ExportSelectedFiles(t *testing.T) {
	m, _, dir := newTestModel(t)

	m, cmd := press(t, m, down, down, space, runes("e"))
	require.NotNil(t, cmd)

	msg := cmd()
	exported, ok := msg.(exportedMsg)
	require.True(t, ok)
	require.NoError(t, exported.err)
	assert.Len(t, exported.paths, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	next, _ := m.Update(msg)
	m = next.(Model)
	assert.False(t, m.statusErr)
	assert.Contains(t, m.status, "wrote 2 files")
}

func TestUpdate_ExportZip(t *testing.T) {
	m, _, dir := newTestModel(t)

	_, cmd := press(t, m, down, down, space, runes("z"))
	require.NotNil(t, cmd)

	exported := cmd().(exportedMsg)
	require.NoError(t, exported.err)
	require.Len(t, exported.paths, 1)
	assert.Equal(t, filepath.Join(dir, export.ZipName(fixedNow)), exported.paths[0])
}

func TestUpdate_ExportHighlighted(t *testing.T) {
	m, _, dir := newTestModel(t)

	_, cmd := press(t, m, runes("d"))
	require.NotNil(t, cmd)

	exported := cmd().(exportedMsg)
	require.NoError(t, exported.err)
	require.Len(t, exported.paths, 1)
	assert.True(t, strings.HasPrefix(exported.paths[0], dir))

	data, err := os.ReadFile(exported.paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hello")
}

func TestUpdate_ExportNothingSelected(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := press(t, m, runes("n"), runes("e"))
	require.NotNil(t, cmd)

	msg := cmd()
	assert.ErrorIs(t, msg.(exportedMsg).err, export.ErrNoSelection)

	next, _ := m.Update(msg)
	m = next.(Model)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.View(), "export failed")
}

func TestUpdate_Reloaded(t *testing.T) {
	m, ws, _ := newTestModel(t)
	m, _ = press(t, m, runes("n"))

	require.NoError(t, ws.LoadBytes(context.Background(), []byte(`[{"title":"Only"}]`), "new.json"))
	next, _ := m.Update(ReloadedMsg{})
	m = next.(Model)

	assert.Equal(t, uint64(2), m.snap.Version)
	assert.Equal(t, []int{0}, m.visible)
	assert.Equal(t, 1, m.sel.Len())
	assert.Contains(t, m.status, "1 conversations")
}

func TestUpdate_ReloadFailedKeepsArchive(t *testing.T) {
	m, _, _ := newTestModel(t)

	next, _ := m.Update(ReloadedMsg{Err: assert.AnError})
	m = next.(Model)

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "keeping previous archive")
	assert.Len(t, m.visible, 3)
}

func TestUpdate_Stats(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, runes("s"))
	require.Equal(t, modeStats, m.mode)
	view := m.View()
	assert.Contains(t, view, "Conversations")
	assert.Contains(t, view, "gpt-4o")

	m, _ = press(t, m, esc)
	assert.Equal(t, modeList, m.mode)
}

func TestUpdate_WindowSize(t *testing.T) {
	m, _, _ := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40-chromeHeight, m.viewport.Height)
}

func TestUpdate_Quit(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := press(t, m, runes("q"))
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestView_List(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, space)

	view := m.View()
	assert.Contains(t, view, "convsplit")
	assert.Contains(t, view, "test.json")
	assert.Contains(t, view, "My Chat")
	assert.Contains(t, view, "[ ]")
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "2 selected")
}

func TestPreviewMarkdown(t *testing.T) {
	assert.Equal(t, "_No messages._", PreviewMarkdown(nil))

	md := PreviewMarkdown([]search.Row{
		{DisplayRole: "User", Side: conversation.SideRight, Model: conversation.UnknownModel, Text: "hi"},
		{DisplayRole: "Assistant", Side: conversation.SideLeft, Model: "gpt-4o", Text: "hello"},
		{DisplayRole: "Assistant", Side: conversation.SideLeft, Model: conversation.UnknownModel, Text: "again"},
	})
	assert.Equal(t, "### ▶ User\n\nhi\n\n---\n\n### ◀ Assistant · `gpt-4o`\n\nhello\n\n---\n\n### ◀ Assistant\n\nagain", md)
}

func TestPreviewMarkdown_ToolRowKeepsModel(t *testing.T) {
	md := PreviewMarkdown([]search.Row{
		{Role: "tool", DisplayRole: "Assistant", Side: conversation.SideOf("tool"), Model: "gpt-4o", Text: "sunny"},
	})
	assert.Equal(t, "### ◀ Assistant · `gpt-4o`\n\nsunny", md)
}
