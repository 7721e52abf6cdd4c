package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	SelectAll      key.Binding
	DeselectAll    key.Binding
	Invert         key.Binding
	Filter         key.Binding
	Preview        key.Binding
	ExportOne      key.Binding
	ExportSelected key.Binding
	ExportZip      key.Binding
	Stats          key.Binding
	Back           key.Binding
	Quit           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:         key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		SelectAll:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select shown")),
		DeselectAll:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "deselect shown")),
		Invert:         key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invert shown")),
		Filter:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Preview:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "preview")),
		ExportOne:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "export this")),
		ExportSelected: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export selected")),
		ExportZip:      key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zip selected")),
		Stats:          key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		Back:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Filter, k.Preview, k.ExportSelected, k.ExportZip, k.Stats, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Preview, k.Back},
		{k.Toggle, k.SelectAll, k.DeselectAll, k.Invert, k.Filter},
		{k.ExportOne, k.ExportSelected, k.ExportZip, k.Stats, k.Quit},
	}
}
