// Package dirty accumulates invalidated content rectangles between repaints.
package dirty

import (
	"image"

	"github.com/lumipallolabs/foldergrid/internal/deferred"
)

// MaxRects bounds the rectangle list; beyond it the region collapses into
// its bounding rectangle
const MaxRects = 16

// Region is a set of content-space rectangles pending repaint
type Region struct {
	Rects      []image.Rectangle
	Everything bool
}

// Empty reports whether nothing needs repainting
func (r Region) Empty() bool {
	return !r.Everything && len(r.Rects) == 0
}

// Bounds returns the union of all rectangles
func (r Region) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, rect := range r.Rects {
		b = b.Union(rect)
	}
	return b
}

// Intersects reports whether rect needs repainting
func (r Region) Intersects(rect image.Rectangle) bool {
	if r.Everything {
		return true
	}
	for _, d := range r.Rects {
		if d.Overlaps(rect) {
			return true
		}
	}
	return false
}

// Tracker collects dirty rectangles and schedules one repaint per burst
type Tracker struct {
	pending Region
	repaint *deferred.Task
}

// New creates a tracker. repaint may be nil, in which case the owner flushes
// on its own schedule.
func New(repaint *deferred.Task) *Tracker {
	return &Tracker{repaint: repaint}
}

// MarkDirty unions r into the pending region
func (t *Tracker) MarkDirty(r image.Rectangle) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	t.schedule()
	if t.pending.Everything {
		return
	}
	t.pending.Rects = merge(t.pending.Rects, r)
	if len(t.pending.Rects) > MaxRects {
		t.pending.Rects = []image.Rectangle{t.pending.Bounds()}
	}
}

// MarkEverythingDirty replaces the pending region with the whole viewport
func (t *Tracker) MarkEverythingDirty() {
	t.schedule()
	t.pending = Region{Everything: true}
}

// Pending returns the accumulated region without clearing it
func (t *Tracker) Pending() Region {
	return t.pending
}

// Flush returns the pending region and clears it. The second result is
// false when there was nothing to repaint.
func (t *Tracker) Flush() (Region, bool) {
	if t.repaint != nil {
		t.repaint.Stop()
	}
	if t.pending.Empty() {
		return Region{}, false
	}
	r := t.pending
	t.pending = Region{}
	return r, true
}

func (t *Tracker) schedule() {
	// A burst must not postpone the repaint indefinitely
	if t.repaint != nil {
		t.repaint.StartIfIdle()
	}
}

// merge adds r to rects, folding it into any rectangle it overlaps or
// touches edge to edge
func merge(rects []image.Rectangle, r image.Rectangle) []image.Rectangle {
	for _, cur := range rects {
		if r.In(cur) {
			return rects
		}
	}
	for {
		merged := false
		out := rects[:0]
		for _, cur := range rects {
			if cur.In(r) || cur.Overlaps(r) || adjacent(cur, r) {
				r = r.Union(cur)
				merged = true
				continue
			}
			out = append(out, cur)
		}
		rects = out
		if !merged {
			break
		}
	}
	return append(rects, r)
}

// adjacent reports whether a and b share a full edge
func adjacent(a, b image.Rectangle) bool {
	if a.Min.Y == b.Min.Y && a.Max.Y == b.Max.Y {
		return a.Max.X == b.Min.X || b.Max.X == a.Min.X
	}
	if a.Min.X == b.Min.X && a.Max.X == b.Max.X {
		return a.Max.Y == b.Min.Y || b.Max.Y == a.Min.Y
	}
	return false
}
