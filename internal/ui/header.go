package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Spinner frames, advanced by the animation timer
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Header displays the location, listing progress and view settings
type Header struct {
	location string
	width    int
	listing  bool
	frame    int
	total    int
	visible  int
	selected int
	sortDesc string
	locked   bool
	status   string
}

// NewHeader creates a new header component
func NewHeader() Header {
	return Header{}
}

// SetLocation sets the displayed directory
func (h *Header) SetLocation(loc string) {
	h.location = loc
}

// SetListing sets the listing state
func (h *Header) SetListing(listing bool) {
	h.listing = listing
}

// SetFrame advances the spinner
func (h *Header) SetFrame(frame int) {
	h.frame = frame
}

// SetCounts sets the entry counts
func (h *Header) SetCounts(total, visible, selected int) {
	h.total = total
	h.visible = visible
	h.selected = selected
}

// SetSort sets the sort description
func (h *Header) SetSort(desc string) {
	h.sortDesc = desc
}

// SetLocked sets the lock badge
func (h *Header) SetLocked(locked bool) {
	h.locked = locked
}

// SetStatus sets a transient message, usually an error
func (h *Header) SetStatus(status string) {
	h.status = status
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// View renders the header
func (h Header) View() string {
	appName := lipgloss.NewStyle().
		Foreground(ColorBand).
		Bold(true).
		Render("FOLDERGRID")

	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render(" │ ")

	left := appName + sep + LocationStyle.Render(h.locationLabel())
	if h.locked {
		left += " " + LockedBadge.Render("LOCKED")
	}
	if h.listing {
		spin := lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).
			Render(spinnerFrames[h.frame%len(spinnerFrames)])
		left += " " + spin
	}

	var stats string
	if h.visible != h.total {
		stats = fmt.Sprintf("%d of %d items", h.visible, h.total)
	} else {
		stats = fmt.Sprintf("%d items", h.total)
	}
	if h.selected > 0 {
		stats += fmt.Sprintf(", %d selected", h.selected)
	}
	if h.sortDesc != "" {
		stats += "  " + h.sortDesc
	}
	right := StatsStyle.Render(stats)
	if h.status != "" {
		right = ErrorStyle.Render(h.status) + sep + right
	}

	gap := h.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Narrow terminals drop the stats first
		right = ""
		gap = max(1, h.width-lipgloss.Width(left)-2)
	}
	line := left + strings.Repeat(" ", gap) + right

	return HeaderStyle.MaxHeight(1).Render(line)
}

func (h Header) locationLabel() string {
	if h.location == "" {
		return "-"
	}
	limit := h.width / 2
	if limit < 8 || len(h.location) <= limit {
		return h.location
	}
	return "…" + filepath.ToSlash(h.location[len(h.location)-limit+1:])
}
