package layout

import (
	"image"
	"sort"
)

// IndexAt returns the index of the item whose rectangle contains p, or -1
func (e *Engine) IndexAt(p image.Point) int {
	for _, id := range e.buckets[e.geom.CellAt(p)] {
		i := e.byID[id]
		if p.In(e.items[i].Rect) {
			return i
		}
	}
	return -1
}

// VisualRect returns the content-space rectangle of item i
func (e *Engine) VisualRect(i int) (image.Rectangle, bool) {
	if i < 0 || i >= len(e.items) || !e.items[i].Layouted {
		return image.Rectangle{}, false
	}
	return e.items[i].Rect, true
}

// IndicesIn returns the sorted indices of items intersecting r
func (e *Engine) IndicesIn(r image.Rectangle) []int {
	r = r.Canon()
	if r.Empty() {
		return nil
	}
	seen := make(map[int]bool)
	var out []int
	for _, c := range e.coveredCells(r) {
		for _, id := range e.buckets[c] {
			i := e.byID[id]
			if !seen[i] && e.items[i].Rect.Overlaps(r) {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Neighbor returns the nearest item from index in direction (dx, dy), or
// -1 when there is none. Items straight ahead are preferred over items that
// are closer but off-axis.
func (e *Engine) Neighbor(index, dx, dy int) int {
	from, ok := e.VisualRect(index)
	if !ok {
		return -1
	}
	fc := center(from)

	best := -1
	bestScore := 0
	for i, it := range e.items {
		if i == index || !it.Layouted {
			continue
		}
		c := center(it.Rect)
		var primary, secondary int
		switch {
		case dx > 0:
			primary, secondary = c.X-fc.X, c.Y-fc.Y
		case dx < 0:
			primary, secondary = fc.X-c.X, c.Y-fc.Y
		case dy > 0:
			primary, secondary = c.Y-fc.Y, c.X-fc.X
		case dy < 0:
			primary, secondary = fc.Y-c.Y, c.X-fc.X
		default:
			return -1
		}
		if primary <= 0 {
			continue
		}
		if secondary < 0 {
			secondary = -secondary
		}
		// Off-axis distance weighs double so the item in the same row or
		// column wins over a diagonal one
		score := primary + 2*secondary
		if best < 0 || score < bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func (e *Engine) coveredCells(r image.Rectangle) []image.Point {
	if r.Empty() {
		return nil
	}
	lo := e.geom.CellAt(r.Min)
	hi := e.geom.CellAt(r.Max.Sub(image.Pt(1, 1)))
	cells := make([]image.Point, 0, (hi.X-lo.X+1)*(hi.Y-lo.Y+1))
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			cells = append(cells, image.Pt(x, y))
		}
	}
	return cells
}

func (e *Engine) bucket(it ViewItem) {
	for _, c := range e.coveredCells(it.Rect) {
		e.buckets[c] = append(e.buckets[c], it.ID)
	}
}

func (e *Engine) unbucket(it ViewItem) {
	for _, c := range e.coveredCells(it.Rect) {
		ids := e.buckets[c]
		for k, id := range ids {
			if id == it.ID {
				ids = append(ids[:k], ids[k+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(e.buckets, c)
		} else {
			e.buckets[c] = ids
		}
	}
}

func (e *Engine) cellFree(c image.Point) bool {
	return e.rectFree(e.geom.CellRect(c))
}

func (e *Engine) rectFree(r image.Rectangle) bool {
	for _, c := range e.coveredCells(r) {
		for _, id := range e.buckets[c] {
			i, ok := e.byID[id]
			if ok && e.items[i].Layouted && e.items[i].Rect.Overlaps(r) {
				return false
			}
		}
	}
	return true
}
