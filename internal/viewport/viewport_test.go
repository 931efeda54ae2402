package viewport

import (
	"image"
	"testing"
)

func TestRangeAndClamp(t *testing.T) {
	c := New(AxisY)
	c.UpdateScrollBar(image.Pt(100, 500), image.Pt(100, 200))
	if got := c.State().Range; got != 300 {
		t.Fatalf("expected range 300, got %d", got)
	}

	c.ScrollTo(1000)
	if c.Offset() != 300 {
		t.Errorf("offset should clamp to 300, got %d", c.Offset())
	}

	// Content shrinks below the viewport
	if !c.UpdateScrollBar(image.Pt(100, 150), image.Pt(100, 200)) {
		t.Error("offset change not reported")
	}
	if c.State().Range != 0 || c.Offset() != 0 {
		t.Errorf("expected zero range and offset, got %+v", c.State())
	}
}

func TestMappingIsAffine(t *testing.T) {
	c := New(AxisY)
	c.UpdateScrollBar(image.Pt(100, 1000), image.Pt(100, 100))
	c.ScrollTo(250)

	p := image.Pt(30, 300)
	v := c.MapToViewport(p)
	if v != image.Pt(30, 50) {
		t.Errorf("expected (30,50), got %v", v)
	}
	if back := c.MapFromViewport(v); back != p {
		t.Errorf("round trip gave %v", back)
	}
}

func TestHorizontalAxis(t *testing.T) {
	c := New(AxisX)
	c.UpdateScrollBar(image.Pt(800, 100), image.Pt(300, 100))
	c.ScrollBy(40)
	if got := c.MapToViewport(image.Pt(50, 10)); got != image.Pt(10, 10) {
		t.Errorf("expected (10,10), got %v", got)
	}
}

func TestEnsureVisible(t *testing.T) {
	c := New(AxisY)
	c.UpdateScrollBar(image.Pt(100, 1000), image.Pt(100, 100))

	c.EnsureVisible(image.Rect(0, 150, 10, 180))
	if c.Offset() != 80 {
		t.Errorf("expected 80, got %d", c.Offset())
	}
	c.EnsureVisible(image.Rect(0, 20, 10, 40))
	if c.Offset() != 20 {
		t.Errorf("expected 20, got %d", c.Offset())
	}
	if c.EnsureVisible(image.Rect(0, 30, 10, 40)) {
		t.Error("already visible rect should not scroll")
	}
}

func TestExposedStrip(t *testing.T) {
	c := New(AxisY)
	c.UpdateScrollBar(image.Pt(100, 1000), image.Pt(100, 100))

	c.ScrollBy(30)
	if got := c.Exposed(0); got != image.Rect(0, 100, 100, 130) {
		t.Errorf("scroll down exposed %v", got)
	}
	c.ScrollBy(-10)
	if got := c.Exposed(30); got != image.Rect(0, 20, 100, 30) {
		t.Errorf("scroll up exposed %v", got)
	}
	c.ScrollTo(500)
	if got := c.Exposed(20); got != c.VisibleContent() {
		t.Errorf("large jump should expose the whole view, got %v", got)
	}
}
