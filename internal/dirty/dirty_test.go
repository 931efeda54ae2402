package dirty

import (
	"image"
	"testing"
	"time"

	"github.com/lumipallolabs/foldergrid/internal/deferred"
)

func TestMarkIsIdempotent(t *testing.T) {
	tr := New(nil)
	r := image.Rect(0, 0, 10, 10)
	tr.MarkDirty(r)
	tr.MarkDirty(r)
	tr.MarkDirty(image.Rect(2, 2, 5, 5))

	p := tr.Pending()
	if len(p.Rects) != 1 || p.Rects[0] != r {
		t.Errorf("expected single rect %v, got %v", r, p.Rects)
	}
}

func TestAdjacentRectsMerge(t *testing.T) {
	tr := New(nil)
	tr.MarkDirty(image.Rect(0, 0, 10, 10))
	tr.MarkDirty(image.Rect(10, 0, 20, 10))
	tr.MarkDirty(image.Rect(0, 10, 20, 20))

	p := tr.Pending()
	if len(p.Rects) != 1 || p.Rects[0] != image.Rect(0, 0, 20, 20) {
		t.Errorf("expected merged square, got %v", p.Rects)
	}
}

func TestDisjointRectsKept(t *testing.T) {
	tr := New(nil)
	tr.MarkDirty(image.Rect(0, 0, 10, 10))
	tr.MarkDirty(image.Rect(50, 50, 60, 60))
	if n := len(tr.Pending().Rects); n != 2 {
		t.Errorf("expected 2 rects, got %d", n)
	}
}

func TestOverflowCollapsesToBounds(t *testing.T) {
	tr := New(nil)
	for i := 0; i <= MaxRects; i++ {
		tr.MarkDirty(image.Rect(i*20, 0, i*20+10, 10))
	}
	p := tr.Pending()
	if len(p.Rects) != 1 {
		t.Fatalf("expected collapse to one rect, got %d", len(p.Rects))
	}
	if p.Rects[0] != image.Rect(0, 0, MaxRects*20+10, 10) {
		t.Errorf("unexpected bounds %v", p.Rects[0])
	}
}

func TestNothingDroppedBeforeFlush(t *testing.T) {
	tr := New(nil)
	marked := []image.Rectangle{
		image.Rect(0, 0, 5, 5),
		image.Rect(100, 0, 105, 5),
		image.Rect(3, 3, 40, 8),
	}
	for _, r := range marked {
		tr.MarkDirty(r)
	}
	region, ok := tr.Flush()
	if !ok {
		t.Fatal("expected a region")
	}
	for _, r := range marked {
		covered := false
		for _, d := range region.Rects {
			if r.In(d) {
				covered = true
			}
		}
		if !covered {
			t.Errorf("%v lost before flush", r)
		}
	}
	if _, ok := tr.Flush(); ok {
		t.Error("second flush should be empty")
	}
}

func TestEverythingShortCircuits(t *testing.T) {
	tr := New(nil)
	tr.MarkDirty(image.Rect(0, 0, 1, 1))
	tr.MarkEverythingDirty()
	tr.MarkDirty(image.Rect(5, 5, 6, 6))

	region, _ := tr.Flush()
	if !region.Everything || len(region.Rects) != 0 {
		t.Errorf("expected everything region, got %+v", region)
	}
	if !region.Intersects(image.Rect(1000, 1000, 1001, 1001)) {
		t.Error("everything region should intersect any rect")
	}
}

func TestBurstSchedulesOneRepaint(t *testing.T) {
	rec := &deferred.Recorder{}
	task := deferred.NewTask(deferred.Repaint, 16*time.Millisecond, rec)
	tr := New(task)

	for i := 0; i < 100; i++ {
		tr.MarkDirty(image.Rect(i, 0, i+1, 1))
	}
	if len(rec.Tickets) != 1 {
		t.Errorf("expected one scheduled repaint, got %d", len(rec.Tickets))
	}
	if !task.Accept(rec.Tickets[0]) {
		t.Fatal("repaint ticket rejected")
	}
	if _, ok := tr.Flush(); !ok {
		t.Error("expected pending region")
	}

	tr.MarkDirty(image.Rect(0, 0, 1, 1))
	if len(rec.Tickets) != 2 {
		t.Errorf("new burst should schedule again, got %d", len(rec.Tickets))
	}
}
