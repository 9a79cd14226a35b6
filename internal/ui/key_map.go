package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the wizard TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	next   key.Binding
	prev   key.Binding
	enter  key.Binding
	back   key.Binding
	slogan key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("↑", "up")),
		down:   key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("↓", "down")),
		next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/continue")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		slogan: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "suggest slogan")),
		quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.next, k.prev, k.back},
		{k.slogan, k.quit},
	}
}
