package ui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/lumipallolabs/foldergrid/internal/model"
)

func TestTileSize(t *testing.T) {
	got := TileSize(48)
	if got.X != 18 || got.Y != 6 {
		t.Errorf("TileSize(48) = %v, want (18,6)", got)
	}
	if small := TileSize(16); small.X <= 0 || small.Y < 3 {
		t.Errorf("TileSize(16) = %v, too small for a label", small)
	}
}

func TestRenderTileLinesHaveFixedWidth(t *testing.T) {
	e := model.NewEntry("/x/report.pdf", false, 10, time.Now())
	lines := renderTile(e, 18, 6)
	if len(lines) != 6 {
		t.Fatalf("renderTile returned %d lines, want 6", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 18 {
			t.Errorf("line %d is %d runes wide, want 18: %q", i, n, l)
		}
	}
	if !strings.Contains(lines[2], "PDF") {
		t.Errorf("middle icon row %q should carry the extension", lines[2])
	}
	if strings.TrimSpace(lines[4]) != "report.pdf" {
		t.Errorf("label row = %q, want report.pdf", lines[4])
	}
}

func TestRenderTileDirectoryGlyph(t *testing.T) {
	e := model.NewEntry("/x/docs", true, 0, time.Now())
	lines := renderTile(e, 12, 4)
	if !strings.ContainsRune(lines[0], dirGlyph) {
		t.Errorf("directory icon row %q should use %q", lines[0], dirGlyph)
	}
	if strings.ContainsRune(lines[0], fileGlyph) {
		t.Errorf("directory icon row %q should not use the file glyph", lines[0])
	}
}

func TestRenderTileTruncatesLongNames(t *testing.T) {
	e := model.NewEntry("/x/averyveryverylongfilename.txt", false, 0, time.Now())
	lines := renderTile(e, 10, 4)
	if lines[2] != "averyveryv" {
		t.Errorf("first label row = %q", lines[2])
	}
	if !strings.HasSuffix(lines[3], string(ellipsis)) {
		t.Errorf("last label row %q should end in an ellipsis", lines[3])
	}
	if n := utf8.RuneCountInString(lines[3]); n != 10 {
		t.Errorf("last label row is %d runes wide, want 10", n)
	}
}

func TestRenderTileDegenerateSize(t *testing.T) {
	e := model.NewEntry("/x/a", false, 0, time.Now())
	if lines := renderTile(e, 0, 5); lines != nil {
		t.Errorf("zero width should render nothing, got %q", lines)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"abc", 5, "abc"},
		{"abcdef", 4, "abc…"},
		{"abcdef", 1, "a"},
		{"äöüß", 3, "äö…"},
	}
	for _, tt := range tests {
		if got := fit(tt.in, tt.w); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
	}
}
