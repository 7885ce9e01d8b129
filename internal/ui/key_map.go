package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	search  key.Binding
	poster  key.Binding
	rename  key.Binding
	toggle  key.Binding
	remove  key.Binding
	presets key.Binding
	all     key.Binding
	global  key.Binding
	submit  key.Binding
	open    key.Binding
	restart key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		poster:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "scan poster")),
		rename:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "name")),
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		remove:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		presets: key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "5/10/20 tracks")),
		all:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "discography")),
		global:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "cycle global")),
		submit:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "create")),
		open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "start over")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.poster, k.submit, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.poster, k.rename, k.submit},
		{k.toggle, k.remove, k.presets, k.all, k.global},
		{k.restart, k.help, k.quit},
	}
}
