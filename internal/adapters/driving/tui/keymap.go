package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings for the review UI.
type KeyMap struct {
	// Up moves the cursor up.
	Up key.Binding

	// Down moves the cursor down.
	Down key.Binding

	// All clears the severity filter.
	All key.Binding

	// Critical through Suggestion filter to one severity tier.
	Critical   key.Binding
	Major      key.Binding
	Minor      key.Binding
	Suggestion key.Binding

	// Quit exits the review.
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all severities"),
		),
		Critical: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "critical"),
		),
		Major: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "major"),
		),
		Minor: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "minor"),
		),
		Suggestion: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "suggestion"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the keybindings shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Critical, k.All, k.Quit}
}
