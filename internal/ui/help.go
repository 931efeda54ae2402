package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const helpKeyColumnWidth = 12 // Width for key column in help text

// HelpOverlay displays keyboard shortcuts in a centered overlay
type HelpOverlay struct {
	keys    KeyMap
	visible bool
	width   int
	height  int
}

// NewHelpOverlay creates a new help overlay component
func NewHelpOverlay(keys KeyMap) HelpOverlay {
	return HelpOverlay{keys: keys}
}

// Toggle toggles the visibility of the help overlay
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// SetVisible sets the visibility of the help overlay
func (h *HelpOverlay) SetVisible(visible bool) {
	h.visible = visible
}

// IsVisible returns whether the help overlay is visible
func (h HelpOverlay) IsVisible() bool {
	return h.visible
}

// SetSize sets the dimensions of the help overlay
func (ho *HelpOverlay) SetSize(w, h int) {
	ho.width = w
	ho.height = h
}

// View renders the help overlay
func (h HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	sectionStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Bold(true).
		MarginTop(1)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)

	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"NAVIGATION", []key.Binding{h.keys.Up, h.keys.Down, h.keys.Left, h.keys.Right, h.keys.PageUp, h.keys.PageDown, h.keys.Top, h.keys.Bottom}},
		{"ACTIONS", []key.Binding{h.keys.Enter, h.keys.Parent, h.keys.Rename, h.keys.SelectAll, h.keys.Refresh, h.keys.Locations}},
		{"LAYOUT", []key.Binding{h.keys.Lock, h.keys.Align, h.keys.CycleSort, h.keys.Reverse, h.keys.DirsFirst, h.keys.Hidden, h.keys.Flow, h.keys.Bigger, h.keys.Smaller}},
		{"OTHER", []key.Binding{h.keys.Help, h.keys.Quit}},
	}

	lines := []string{OverlayTitle.Render("Keyboard Shortcuts")}
	for _, s := range sections {
		lines = append(lines, sectionStyle.Render(s.title))
		for _, b := range s.bindings {
			lines = append(lines, helpLine(descStyle, b.Help().Key, b.Help().Desc))
		}
	}
	lines = append(lines,
		sectionStyle.Render("MOUSE"),
		helpLine(descStyle, "click", "Select, ctrl/shift to extend"),
		helpLine(descStyle, "drag", "Move icons or rubber band select"),
		helpLine(descStyle, "dbl-click", "Open"),
		helpLine(descStyle, "wheel", "Scroll"),
	)

	box := OverlayStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}

func helpLine(descStyle lipgloss.Style, key, desc string) string {
	return HelpKey.Width(helpKeyColumnWidth).Render(key) + descStyle.Render(desc)
}

// HelpBar renders the short bindings of keys as a one line hint bar
func HelpBar(width int, keys KeyMap) string {
	var parts []string
	for _, b := range keys.ShortHelp() {
		if !b.Enabled() {
			continue
		}
		parts = append(parts, HelpKey.Render(b.Help().Key)+HelpStyle.Render(" "+b.Help().Desc))
	}
	bar := strings.Join(parts, HelpStyle.Render("  |  "))
	return HelpStyle.Width(width).MaxHeight(1).Render(bar)
}
