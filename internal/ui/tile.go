package ui

import (
	"image"
	"strings"

	"github.com/lumipallolabs/foldergrid/internal/model"
)

const (
	dirGlyph  = '▓'
	fileGlyph = '░'
	ellipsis  = '…'
)

// TileSize converts an icon size into a grid cell measured in terminal
// cells: a 48 icon becomes an 18x6 tile
func TileSize(iconSize int) image.Point {
	return image.Pt(iconSize/4+6, iconSize/16+3)
}

// renderTile draws the plain text of one tile: icon rows followed by two
// label rows. Every line is exactly w runes wide.
func renderTile(e model.Entry, w, h int) []string {
	if w <= 0 || h <= 0 {
		return nil
	}
	labelRows := min(2, h)
	iconRows := h - labelRows
	iconW := max(2, min(w-2, w/2))
	pad := (w - iconW) / 2

	glyph := fileGlyph
	if e.IsDir {
		glyph = dirGlyph
	}

	lines := make([]string, 0, h)
	for row := 0; row < iconRows; row++ {
		icon := []rune(strings.Repeat(string(glyph), iconW))
		if !e.IsDir && row == iconRows/2 {
			if ext := strings.ToUpper(e.Ext()); ext != "" {
				// The extension is written into the middle icon row
				copy(icon, []rune(fit(ext, iconW)))
			}
		}
		lines = append(lines, center(string(icon), w, pad))
	}
	for _, l := range wrapLabel(e.Name, w, labelRows) {
		lines = append(lines, center(l, w, -1))
	}
	return lines
}

// wrapLabel splits name over at most rows lines of width w. Text that does
// not fit ends in an ellipsis.
func wrapLabel(name string, w, rows int) []string {
	r := []rune(name)
	out := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		if len(r) == 0 {
			out = append(out, "")
			continue
		}
		if row == rows-1 {
			out = append(out, fit(string(r), w))
			r = nil
			continue
		}
		n := min(len(r), w)
		out = append(out, string(r[:n]))
		r = r[n:]
	}
	return out
}

// fit truncates s to w runes, marking the cut with an ellipsis
func fit(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + string(ellipsis)
}

// center pads s to w runes. A negative pad centers s.
func center(s string, w, pad int) string {
	n := len([]rune(s))
	if pad < 0 {
		pad = (w - n) / 2
	}
	pad = max(0, min(pad, w-n))
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", max(0, w-n-pad))
}
