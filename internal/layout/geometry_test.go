package layout

import (
	"image"
	"testing"
)

func TestColumnsForWidth(t *testing.T) {
	if got := ColumnsForWidth(256, 64, 0); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := ColumnsForWidth(319, 64, 0); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := ColumnsForWidth(10, 64, 0); got != 1 {
		t.Errorf("narrow viewport should still give one column, got %d", got)
	}
	if got := RowsForHeight(100, 20, 5); got != 4 {
		t.Errorf("expected 4 rows, got %d", got)
	}
}

func TestSlotRoundTrip(t *testing.T) {
	for _, flow := range []Flow{Horizontal, Vertical} {
		g := Geometry{Cell: image.Pt(8, 4), Viewport: image.Pt(40, 20), Flow: flow}
		for slot := 0; slot < 50; slot++ {
			if got := g.Slot(g.SlotCell(slot)); got != slot {
				t.Errorf("%v: slot %d round-tripped to %d", flow, slot, got)
			}
		}
	}
}

func TestCellAtNegative(t *testing.T) {
	g := Geometry{Cell: image.Pt(10, 10)}
	if got := g.CellAt(image.Pt(-1, 5)); got != image.Pt(-1, 0) {
		t.Errorf("expected (-1,0), got %v", got)
	}
}

func TestParseFlow(t *testing.T) {
	if f, ok := ParseFlow("vertical-first"); !ok || f != Vertical {
		t.Errorf("vertical-first parsed as %v %v", f, ok)
	}
	if _, ok := ParseFlow("diagonal"); ok {
		t.Error("unknown flow accepted")
	}
}
