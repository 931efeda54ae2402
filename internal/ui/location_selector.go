package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/foldergrid/internal/model"
)

// LocationSelector displays the quick-access places for selection
type LocationSelector struct {
	places   []model.Place
	selected int
	visible  bool
	width    int
	height   int
}

// NewLocationSelector creates a new location selector component
func NewLocationSelector(places []model.Place) LocationSelector {
	return LocationSelector{places: places}
}

// SetPlaces updates the available places
func (d *LocationSelector) SetPlaces(places []model.Place) {
	d.places = places
	if d.selected >= len(places) {
		d.selected = 0
	}
}

// Selected returns the currently highlighted place
func (d LocationSelector) Selected() *model.Place {
	if d.selected >= 0 && d.selected < len(d.places) {
		return &d.places[d.selected]
	}
	return nil
}

// SetVisible sets visibility of the selector
func (d *LocationSelector) SetVisible(visible bool) {
	d.visible = visible
}

// IsVisible returns whether the selector is visible
func (d LocationSelector) IsVisible() bool {
	return d.visible
}

// SetSize sets the dimensions for centering
func (d *LocationSelector) SetSize(w, h int) {
	d.width = w
	d.height = h
}

// MoveUp moves selection up
func (d *LocationSelector) MoveUp() {
	if d.selected > 0 {
		d.selected--
	}
}

// MoveDown moves selection down
func (d *LocationSelector) MoveDown() {
	if d.selected < len(d.places)-1 {
		d.selected++
	}
}

// View renders the location selector overlay
func (d LocationSelector) View() string {
	if !d.visible || len(d.places) == 0 {
		return ""
	}

	normalStyle := lipgloss.NewStyle().
		Foreground(ColorText).
		PaddingLeft(1).
		PaddingRight(1)

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ColorPrimary).
		Bold(true).
		PaddingLeft(1).
		PaddingRight(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	var content strings.Builder

	content.WriteString(OverlayTitle.Render("Go To"))
	content.WriteString("\n")

	for i, p := range d.places {
		line := lipgloss.NewStyle().Width(10).Render(p.Label) + p.Path
		if i == d.selected {
			content.WriteString(selectedStyle.Render(line))
		} else {
			content.WriteString(normalStyle.Render(line))
		}
		content.WriteString("\n")
	}

	content.WriteString(hintStyle.Render("↑/↓ select  Enter confirm  Esc cancel"))

	box := OverlayStyle.Render(strings.TrimSuffix(content.String(), "\n"))

	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
}
