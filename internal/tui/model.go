package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
	"github.com/chuan-101/json-splitter-public/internal/export"
	"github.com/chuan-101/json-splitter-public/internal/logging"
	"github.com/chuan-101/json-splitter-public/internal/search"
	"github.com/chuan-101/json-splitter-public/internal/workspace"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// header, filter, status and help lines around the list
	chromeHeight = 6
)

type mode int

const (
	modeList mode = iota
	modeFilter
	modePreview
	modeStats
)

// Options configures the browser.
type Options struct {
	Roles conversation.RoleNames

	// OutputDir receives exported files. Defaults to ".".
	OutputDir string

	// GlamourStyle names a glamour standard style ("dark", "light",
	// "notty"). Empty picks one from the terminal background.
	GlamourStyle string

	Now    func() time.Time
	Logger *logging.Logger
}

// ReloadedMsg reports a reload of the workspace archive, typically sent
// from a file watcher through tea.Program.Send.
type ReloadedMsg struct {
	Err error
}

type exportedMsg struct {
	paths []string
	err   error
}

// Model is the bubbletea model of the archive browser.
type Model struct {
	ws      *workspace.Workspace
	exports *export.Service
	opts    Options
	logger  *logging.Logger

	snap    workspace.Snapshot
	sel     *search.Selection
	visible []int
	cursor  int

	filter   textinput.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	mode          mode
	previewTitle  string
	stats         string
	width, height int

	status    string
	statusErr bool
	quitting  bool
}

// New creates a browser over ws. Every conversation starts selected.
func New(ws *workspace.Workspace, exports *export.Service, opts Options) Model {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Roles == (conversation.RoleNames{}) {
		opts.Roles = conversation.DefaultRoleNames()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter titles"

	m := Model{
		ws:       ws,
		exports:  exports,
		opts:     opts,
		logger:   logger.Named("tui"),
		filter:   ti,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		help:     help.New(),
		keys:     defaultKeyMap(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// sync adopts the workspace's current archive. A new archive resets the
// selection to everything.
func (m *Model) sync() {
	snap := m.ws.Snapshot()
	if m.sel != nil && snap.Version == m.snap.Version {
		return
	}
	m.snap = snap
	m.sel = search.SelectAllOf(len(snap.Conversations))
	m.refilter()
}

func (m *Model) refilter() {
	m.visible = search.FilterByTitle(m.snap.Conversations, m.filter.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
}

// highlighted returns the archive index under the cursor.
func (m Model) highlighted() (int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return 0, false
	}
	return m.visible[m.cursor], true
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeHeight)
		m.help.Width = msg.Width
		return m, nil

	case ReloadedMsg:
		if msg.Err != nil {
			m.setError(fmt.Errorf("reload failed, keeping previous archive: %w", msg.Err))
			return m, nil
		}
		m.sync()
		m.setStatus(fmt.Sprintf("archive reloaded: %d conversations", len(m.snap.Conversations)))
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("export failed: %w", msg.err))
			return m, nil
		}
		if len(msg.paths) == 1 {
			m.setStatus("wrote " + msg.paths[0])
		} else {
			m.setStatus(fmt.Sprintf("wrote %d files to %s", len(msg.paths), m.opts.OutputDir))
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modePreview:
			return m.updatePreview(msg)
		case modeStats:
			return m.updateStats(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if idx, ok := m.highlighted(); ok {
			m.sel.Toggle(idx)
		}

	case key.Matches(msg, m.keys.SelectAll):
		m.sel.SelectAll(m.visible)

	case key.Matches(msg, m.keys.DeselectAll):
		m.sel.DeselectAll(m.visible)

	case key.Matches(msg, m.keys.Invert):
		m.sel.Invert(m.visible)

	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.Back):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.refilter()
		}

	case key.Matches(msg, m.keys.Preview):
		m.openPreview()

	case key.Matches(msg, m.keys.ExportOne):
		if idx, ok := m.highlighted(); ok {
			return m, m.exportSingle(idx)
		}

	case key.Matches(msg, m.keys.ExportSelected):
		return m, m.exportSelected(false)

	case key.Matches(msg, m.keys.ExportZip):
		return m, m.exportSelected(true)

	case key.Matches(msg, m.keys.Stats):
		ctx := logging.WithLogger(context.Background(), m.logger)
		m.stats = RenderStats(search.Compute(ctx, m.snap.Conversations, m.opts.Now()))
		m.mode = modeStats
	}

	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter.SetValue("")
		m.filter.Blur()
		m.mode = modeList
		m.refilter()
		return m, nil
	case tea.KeyEnter:
		m.filter.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	m.refilter()
	return m, cmd
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), msg.String() == "q":
		m.mode = modeList
		return m, nil
	case msg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.ExportOne):
		if idx, ok := m.highlighted(); ok {
			return m, m.exportSingle(idx)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Stats), msg.String() == "q":
		m.mode = modeList
		return m, nil
	case msg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) openPreview() {
	idx, ok := m.highlighted()
	if !ok {
		return
	}
	c := m.snap.Conversations[idx]
	rows, err := search.Preview(c, m.opts.Roles, "")
	if err != nil {
		m.setError(fmt.Errorf("preview %q: %w", c.DisplayTitle(), err))
		return
	}

	m.previewTitle = c.DisplayTitle()
	m.viewport.SetContent(m.render(PreviewMarkdown(rows)))
	m.viewport.GotoTop()
	m.mode = modePreview
}

// PreviewMarkdown lays out preview rows as Markdown, one section per
// message, marking which side of the conversation each sits on.
func PreviewMarkdown(rows []search.Row) string {
	if len(rows) == 0 {
		return "_No messages._"
	}
	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		marker := "▶"
		if r.Side == conversation.SideLeft {
			marker = "◀"
		}
		heading := fmt.Sprintf("### %s %s", marker, r.DisplayRole)
		if r.Side == conversation.SideLeft && r.Model != conversation.UnknownModel {
			heading += " · `" + r.Model + "`"
		}
		parts = append(parts, heading+"\n\n"+r.Text)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// render draws Markdown for the terminal, falling back to the source
// text when glamour cannot.
func (m Model) render(md string) string {
	style := glamour.WithAutoStyle()
	if m.opts.GlamourStyle != "" {
		style = glamour.WithStandardStyle(m.opts.GlamourStyle)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(max(20, m.width-4)))
	if err != nil {
		m.logger.Warn(context.Background(), "markdown renderer unavailable", zap.Error(err))
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		m.logger.Warn(context.Background(), "markdown render failed", zap.Error(err))
		return md
	}
	return out
}

func (m Model) exportSingle(idx int) tea.Cmd {
	c := m.snap.Conversations[idx]
	svc, dir, logger := m.exports, m.opts.OutputDir, m.logger
	return func() tea.Msg {
		ctx := logging.WithLogger(context.Background(), logger)
		a, err := svc.Single(ctx, c)
		if err != nil {
			return exportedMsg{err: err}
		}
		paths, err := export.WriteFiles(dir, *a)
		return exportedMsg{paths: paths, err: err}
	}
}

func (m Model) exportSelected(zip bool) tea.Cmd {
	convs := m.snap.Conversations
	indices := m.sel.Sorted()
	svc, dir, logger := m.exports, m.opts.OutputDir, m.logger
	return func() tea.Msg {
		ctx := logging.WithLogger(context.Background(), logger)
		var artifacts []export.Artifact
		if zip {
			a, err := svc.Zip(ctx, convs, indices)
			if err != nil {
				return exportedMsg{err: err}
			}
			artifacts = []export.Artifact{*a}
		} else {
			var err error
			artifacts, err = svc.Files(ctx, convs, indices)
			if err != nil {
				return exportedMsg{err: err}
			}
		}
		paths, err := export.WriteFiles(dir, artifacts...)
		return exportedMsg{paths: paths, err: err}
	}
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	m.status, m.statusErr = err.Error(), true
	m.logger.Warn(context.Background(), "browser error", zap.Error(err))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader() + "\n")

	switch m.mode {
	case modePreview:
		b.WriteString(sectionStyle.Render("┃ "+m.previewTitle) + "\n")
		b.WriteString(m.viewport.View() + "\n")
	case modeStats:
		b.WriteString(m.stats)
	default:
		if m.mode == modeFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View() + "\n")
		}
		b.WriteString(m.renderList())
	}

	b.WriteString(m.renderStatus() + "\n")
	b.WriteString(footerStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderHeader() string {
	source := m.snap.Source
	if source == "" {
		source = "no archive"
	}
	return fmt.Sprintf("%s  %s  %s %s",
		headerStyle.Render(" convsplit "),
		dimStyle.Render(source),
		valueStyle.Render(fmt.Sprintf("%d/%d", len(m.visible), len(m.snap.Conversations))),
		dimStyle.Render(fmt.Sprintf("shown, %d selected", m.sel.Len())))
}

func (m Model) renderList() string {
	if len(m.visible) == 0 {
		return dimStyle.Render("  no conversations") + "\n"
	}

	rows := max(1, m.height-chromeHeight)
	start := max(0, min(m.cursor-rows/2, len(m.visible)-rows))
	end := min(len(m.visible), start+rows)

	titleWidth := max(10, m.width-24)
	var b strings.Builder
	for i := start; i < end; i++ {
		idx := m.visible[i]
		c := m.snap.Conversations[idx]

		check := "[ ]"
		if m.sel.Has(idx) {
			check = selectedStyle.Render("[x]")
		}
		count := "  —"
		if n, err := search.VisibleCount(c); err == nil {
			count = fmt.Sprintf("%3d", n)
		}

		line := fmt.Sprintf("%4d  %s  %s", idx, Fit(c.DisplayTitle(), titleWidth), dimStyle.Render(count+" msgs"))
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(check + " " + line + "\n")
	}
	return b.String()
}

func (m Model) renderStatus() string {
	switch {
	case m.status == "":
		return ""
	case m.statusErr:
		return errorStyle.Render("✗ " + m.status)
	default:
		return okStyle.Render("✓ " + m.status)
	}
}
