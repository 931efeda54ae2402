package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorPrimary    = lipgloss.Color("#7D56F4")
	ColorSecondary  = lipgloss.Color("#5A4FCF")
	ColorSuccess    = lipgloss.Color("#73F59F")
	ColorWarning    = lipgloss.Color("#F5A623")
	ColorDanger     = lipgloss.Color("#F56565")
	ColorMuted      = lipgloss.Color("#6B7280")
	ColorBorder     = lipgloss.Color("#3F3F46")
	ColorBackground = lipgloss.Color("#18181B")
	ColorText       = lipgloss.Color("#E4E4E7")

	ColorDirBg  = lipgloss.Color("#1E3A5F")
	ColorDirFg  = lipgloss.Color("#7DD3FC")
	ColorFileBg = lipgloss.Color("#2D2D2D")
	ColorHover  = lipgloss.Color("#3F3F46")
	ColorBand   = lipgloss.Color("#C084FC") // soft violet
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F1F23")).
			Padding(0, 1)

	LocationStyle = lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1).
			Bold(true)

	LockedBadge = lipgloss.NewStyle().
			Background(ColorWarning).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	// Help bar
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	// Overlays
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2).
			Background(lipgloss.Color("#1F1F23"))

	OverlayTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			MarginBottom(1)
)

// paint selects the style of one canvas cell. Cells store a paint instead
// of a style so that runs of equal cells render as one string.
type paint uint8

const (
	paintNone paint = iota
	paintFile
	paintDir
	paintHover
	paintFocus
	paintSelected
	paintGhost
	paintBand
)

var palette = [...]lipgloss.Style{
	paintNone:     lipgloss.NewStyle(),
	paintFile:     lipgloss.NewStyle().Background(ColorFileBg).Foreground(ColorText),
	paintDir:      lipgloss.NewStyle().Background(ColorDirBg).Foreground(ColorDirFg),
	paintHover:    lipgloss.NewStyle().Background(ColorHover).Foreground(lipgloss.Color("#FFFFFF")),
	paintFocus:    lipgloss.NewStyle().Background(ColorSecondary).Foreground(lipgloss.Color("#FFFFFF")),
	paintSelected: lipgloss.NewStyle().Background(ColorPrimary).Foreground(lipgloss.Color("#FFFFFF")).Bold(true),
	paintGhost:    lipgloss.NewStyle().Foreground(ColorPrimary),
	paintBand:     lipgloss.NewStyle().Foreground(ColorBand),
}

// FormatSize formats bytes to human readable string
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1fTB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1fGB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1fKB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
