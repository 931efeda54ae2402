package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RenameOverlay is the inline editor shown while an entry is renamed
type RenameOverlay struct {
	input  textinput.Model
	id     string
	active bool
	width  int
	height int
}

// NewRenameOverlay creates an inactive editor
func NewRenameOverlay() RenameOverlay {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 255
	ti.Width = 40
	return RenameOverlay{input: ti}
}

// Start opens the editor for id with the current name
func (r *RenameOverlay) Start(id, name string) tea.Cmd {
	r.id = id
	r.active = true
	r.input.SetValue(name)
	r.input.CursorEnd()
	r.input.Focus()
	return textinput.Blink
}

// Stop closes the editor
func (r *RenameOverlay) Stop() {
	r.active = false
	r.id = ""
	r.input.Blur()
}

// IsActive reports whether the editor is open
func (r RenameOverlay) IsActive() bool { return r.active }

// ID returns the identity being renamed
func (r RenameOverlay) ID() string { return r.id }

// Value returns the entered text
func (r RenameOverlay) Value() string { return r.input.Value() }

// SetSize sets the dimensions for centering
func (r *RenameOverlay) SetSize(w, h int) {
	r.width = w
	r.height = h
}

// Update forwards key input to the text field
func (r RenameOverlay) Update(msg tea.Msg) (RenameOverlay, tea.Cmd) {
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, cmd
}

// View renders the editor overlay
func (r RenameOverlay) View() string {
	if !r.active {
		return ""
	}
	hintStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	content := OverlayTitle.Render("Rename "+r.id) + "\n" +
		r.input.View() + "\n" +
		hintStyle.Render("Enter confirm  Esc cancel")

	box := OverlayStyle.Render(content)
	return lipgloss.Place(r.width, r.height, lipgloss.Center, lipgloss.Center, box)
}
