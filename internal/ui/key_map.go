package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	toggle  key.Binding
	all     key.Binding
	clear   key.Binding
	filter  key.Binding
	blur    key.Binding
	export  key.Binding
	cancel  key.Binding
	refresh key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		all:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		blur:    key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "done filtering")),
		export:  key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "export")),
		cancel:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel export")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload games")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.export, k.cancel, k.filter, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle},
		{k.all, k.clear, k.filter},
		{k.export, k.cancel, k.refresh},
		{k.help, k.quit},
	}
}
