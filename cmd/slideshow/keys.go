package main

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/germanamz/slideshow/pkg/deck"
)

// keyMap holds the TUI bindings. Forward and Back are gestures: they follow
// the carousel axis and go through the gesture adapter.
type keyMap struct {
	Forward key.Binding
	Back    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Jump    key.Binding
	Edit    key.Binding
	Random  key.Binding
	Quit    key.Binding
}

func newKeyMap(axis deck.Axis) keyMap {
	forward := key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "swipe"))
	back := key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "swipe back"))
	if axis == deck.Vertical {
		forward = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "swipe"))
		back = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "swipe back"))
	}

	return keyMap{
		Forward: forward,
		Back:    back,
		Next:    key.NewBinding(key.WithKeys("n", " "), key.WithHelp("n", "next")),
		Prev:    key.NewBinding(key.WithKeys("p", "backspace"), key.WithHelp("p", "prev")),
		Jump:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Random:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "shuffle")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Forward, k.Back, k.Jump, k.Edit, k.Random, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Forward, k.Back, k.Next, k.Prev},
		{k.Jump, k.Edit, k.Random, k.Quit},
	}
}
