package ui

import (
	"image"
	"strings"
	"testing"
)

func fill(c *Canvas, s string) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.Set(x, y, rune(s[(y*c.width+x)%len(s)]), paintFile)
		}
	}
}

func TestCanvasSetIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(-1, 0, 'x', paintFile)
	c.Set(3, 0, 'x', paintFile)
	c.Set(0, 2, 'x', paintFile)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if c.At(x, y) != ' ' {
				t.Errorf("At(%d,%d) = %q, want blank", x, y, c.At(x, y))
			}
		}
	}
	if c.At(5, 5) != 0 {
		t.Error("At outside the canvas should return 0")
	}
}

func TestCanvasClearIsClipped(t *testing.T) {
	c := NewCanvas(4, 4)
	fill(c, "x")
	c.Clear(image.Rect(2, 2, 10, 10))
	if c.At(1, 1) != 'x' {
		t.Error("Clear touched a cell outside the rectangle")
	}
	if c.At(3, 3) != ' ' || c.paints[3][3] != paintNone {
		t.Error("Clear did not blank a cell inside the rectangle")
	}
}

func TestCanvasShiftMovesContent(t *testing.T) {
	c := NewCanvas(3, 3)
	fill(c, "abcdefghi")

	// Scrolling down by one row moves content up and blanks the last row
	c.Shift(image.Pt(0, 1))
	if got := string([]rune{c.At(0, 0), c.At(1, 0), c.At(2, 0)}); got != "def" {
		t.Errorf("row 0 after shift = %q, want def", got)
	}
	if c.At(0, 2) != ' ' || c.paints[2][0] != paintNone {
		t.Error("revealed row should be blank")
	}

	c.Shift(image.Pt(-1, 0))
	if c.At(1, 0) != 'd' || c.At(0, 0) != ' ' {
		t.Errorf("horizontal shift: got %q %q", c.At(0, 0), c.At(1, 0))
	}
}

func TestCanvasShiftBeyondSizeBlanksEverything(t *testing.T) {
	c := NewCanvas(2, 2)
	fill(c, "x")
	c.Shift(image.Pt(0, 5))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if c.At(x, y) != ' ' {
				t.Fatalf("At(%d,%d) = %q, want blank", x, y, c.At(x, y))
			}
		}
	}
}

func TestCanvasViewHasOneLinePerRow(t *testing.T) {
	c := NewCanvas(5, 3)
	c.Set(1, 1, 'q', paintSelected)
	view := c.View()
	if n := strings.Count(view, "\n"); n != 2 {
		t.Errorf("View has %d newlines, want 2", n)
	}
	if !strings.Contains(view, "q") {
		t.Error("View lost a written cell")
	}
}

func TestCanvasResizeDiscardsContent(t *testing.T) {
	c := NewCanvas(2, 2)
	fill(c, "x")
	c.Resize(3, 1)
	if c.Bounds() != image.Rect(0, 0, 3, 1) {
		t.Errorf("Bounds = %v", c.Bounds())
	}
	if c.At(0, 0) != ' ' {
		t.Error("Resize should blank the canvas")
	}
}

func TestOutlineDrawsCorners(t *testing.T) {
	c := NewCanvas(5, 4)
	p := &Painter{canvas: c}
	p.outline(image.Rect(0, 0, 4, 3), c.Bounds(), paintBand)
	want := map[image.Point]rune{
		{0, 0}: '┌', {3, 0}: '┐', {0, 2}: '└', {3, 2}: '┘',
		{1, 0}: '─', {0, 1}: '│',
	}
	for pt, r := range want {
		if got := c.At(pt.X, pt.Y); got != r {
			t.Errorf("At(%v) = %q, want %q", pt, got, r)
		}
	}
	if c.At(1, 1) != ' ' {
		t.Error("outline filled the interior")
	}
}

func TestOutlineRespectsClip(t *testing.T) {
	c := NewCanvas(5, 5)
	p := &Painter{canvas: c}
	p.outline(image.Rect(0, 0, 5, 5), image.Rect(0, 0, 2, 2), paintBand)
	if c.At(4, 0) != ' ' {
		t.Error("outline drew outside the clip")
	}
	if c.At(0, 0) != '┌' {
		t.Error("outline missed the corner inside the clip")
	}
}
