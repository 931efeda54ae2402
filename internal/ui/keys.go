package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	ExtendLeft  key.Binding
	ExtendRight key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Enter       key.Binding
	Back        key.Binding
	Parent      key.Binding
	Rename      key.Binding
	SelectAll   key.Binding
	Lock        key.Binding
	Align       key.Binding
	CycleSort   key.Binding
	Reverse     key.Binding
	DirsFirst   key.Binding
	Hidden      key.Binding
	Flow        key.Binding
	Bigger      key.Binding
	Smaller     key.Binding
	Refresh     key.Binding
	Locations   key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		ExtendUp:    key.NewBinding(key.WithKeys("shift+up", "K")),
		ExtendDown:  key.NewBinding(key.WithKeys("shift+down", "J")),
		ExtendLeft:  key.NewBinding(key.WithKeys("shift+left", "H")),
		ExtendRight: key.NewBinding(key.WithKeys("shift+right")),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "bottom"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "parent folder"),
		),
		Rename: key.NewBinding(
			key.WithKeys("f2", "r"),
			key.WithHelp("F2/r", "rename"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "select all"),
		),
		Lock: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "lock positions"),
		),
		Align: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "align to grid"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Reverse: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "reverse sort"),
		),
		DirsFirst: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "folders first"),
		),
		Hidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden files"),
		),
		Flow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "flow direction"),
		),
		Bigger: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "larger icons"),
		),
		Smaller: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "smaller icons"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("f5", "ctrl+r"),
			key.WithHelp("F5", "refresh"),
		),
		Locations: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "locations"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the hint bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Rename, k.Lock, k.Align, k.Locations, k.Help, k.Quit}
}
