package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	Next          key.Binding
	Prev          key.Binding
	Advance       key.Binding
	ToggleAI      key.Binding
	Back          key.Binding
	Submit        key.Binding
	ConfirmUrg    key.Binding
	AdjustUrg     key.Binding
	ProxyYes      key.Binding
	ProxyNo       key.Binding
	ApplyAdjusted key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Advance: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "review"),
	),
	ToggleAI: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "toggle AI review"),
	),
	Back: key.NewBinding(
		key.WithKeys("ctrl+b"),
		key.WithHelp("ctrl+b", "back to edit"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "submit ticket"),
	),
	ConfirmUrg: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "urgency is right"),
	),
	AdjustUrg: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "change urgency"),
	),
	ProxyYes: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "for someone else"),
	),
	ProxyNo: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "for myself"),
	),
	ApplyAdjusted: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply urgency"),
	),
}
