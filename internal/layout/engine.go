// Package layout assigns every visible entry a non-overlapping rectangle and
// keeps the assignment stable across incremental changes.
package layout

import (
	"image"
	"sort"

	"github.com/lumipallolabs/foldergrid/internal/logging"
)

// Position is a persisted or frozen placement
type Position struct {
	Cell  image.Point // grid coordinate (column, row)
	Point image.Point // content-space origin, used when Free is set
	Free  bool
}

// PositionSource provides persisted placements by identity
type PositionSource interface {
	Lookup(id string) (Position, bool)
}

// RectSink receives content-space rectangles whose contents changed
type RectSink interface {
	MarkDirty(r image.Rectangle)
}

// ViewItem is the layout state of one visible entry
type ViewItem struct {
	ID       string
	Rect     image.Rectangle
	Cell     image.Point
	Layouted bool
	Manual   bool // placed from a persisted, frozen or dragged position
	Free     bool // Rect is not aligned to Cell
}

// Placement is a committed manual position for an identity
type Placement struct {
	ID       string
	Position Position
}

// Engine is the grid layout engine. It is not safe for concurrent use.
type Engine struct {
	geom      Geometry
	items     []ViewItem
	byID      map[string]int
	buckets   map[image.Point][]string
	positions PositionSource
	sink      RectSink

	locked bool
	frozen map[string]Position

	initialListing bool
	needsLayout    bool
	quiet          bool // suppresses per-item marks during a full pass
	lastDeleted    image.Point
	hasLastDeleted bool
	relocated      bool // a persisted position could not be claimed as stored
}

// NewEngine creates an engine with no items
func NewEngine(g Geometry, positions PositionSource, sink RectSink) *Engine {
	return &Engine{
		geom:      g,
		byID:      make(map[string]int),
		buckets:   make(map[image.Point][]string),
		positions: positions,
		sink:      sink,
	}
}

// Geometry returns the active geometry
func (e *Engine) Geometry() Geometry { return e.geom }

// Len returns the number of view items
func (e *Engine) Len() int { return len(e.items) }

// Item returns the view item at i
func (e *Engine) Item(i int) ViewItem { return e.items[i] }

// Items returns a copy of all view items
func (e *Engine) Items() []ViewItem {
	out := make([]ViewItem, len(e.items))
	copy(out, e.items)
	return out
}

// IndexOf returns the index of id, or -1
func (e *Engine) IndexOf(id string) int {
	if i, ok := e.byID[id]; ok {
		return i
	}
	return -1
}

// Locked reports whether positions are frozen
func (e *Engine) Locked() bool { return e.locked }

// InitialListing reports whether the engine is waiting for a listing to complete
func (e *Engine) InitialListing() bool { return e.initialListing }

// NeedsLayout reports whether items are waiting for a full layout pass
func (e *Engine) NeedsLayout() bool { return e.needsLayout }

// SetPositions replaces the persisted position source
func (e *Engine) SetPositions(p PositionSource) { e.positions = p }

// Broken reports whether the layout is locked or any item is manually
// placed. Removal in a broken layout vacates the slot instead of compacting.
func (e *Engine) Broken() bool {
	return e.locked || e.HasManual()
}

// HasManual reports whether any item sits at a persisted, frozen or dragged
// position
func (e *Engine) HasManual() bool {
	for _, it := range e.items {
		if it.Manual {
			return true
		}
	}
	return false
}

// Placements returns the current position of every laid out item
func (e *Engine) Placements() []Placement {
	out := make([]Placement, 0, len(e.items))
	for _, it := range e.items {
		if it.Layouted {
			out = append(out, Placement{ID: it.ID, Position: e.positionOf(it)})
		}
	}
	return out
}

// Reset discards all items and starts a new initial listing with ids
func (e *Engine) Reset(ids []string) {
	e.markAll()
	e.items = make([]ViewItem, len(ids))
	for i, id := range ids {
		e.items[i] = ViewItem{ID: id}
	}
	e.frozen = nil
	e.hasLastDeleted = false
	e.initialListing = true
	e.needsLayout = len(ids) > 0
	e.reindex()
	e.buckets = make(map[image.Point][]string)
}

// ListingFinished ends the initial listing and runs a full pass. It is used
// for both completed and canceled listings: items already delivered stay.
func (e *Engine) ListingFinished() {
	e.initialListing = false
	e.LayoutAll()
}

// SetGeometry changes the geometry, relaying out when the grid changed. A
// viewport that only grows or shrinks along the growing axis relayouts when
// persisted positions were relocated, so they can be claimed again.
func (e *Engine) SetGeometry(g Geometry) {
	old := e.geom
	e.geom = g
	if old == g {
		return
	}
	if old.Cell == g.Cell && old.Spacing == g.Spacing && old.Flow == g.Flow && old.Fixed() == g.Fixed() {
		if !e.relocated || old.visibleGrowing() == g.visibleGrowing() {
			return
		}
	}
	e.LayoutAll()
}

// Insert adds an item for id at visible index i. During the initial
// listing placement is deferred to the next full pass.
func (e *Engine) Insert(i int, id string) {
	e.items = append(e.items, ViewItem{})
	copy(e.items[i+1:], e.items[i:])
	e.items[i] = ViewItem{ID: id}
	e.reindex()

	if e.initialListing || e.needsLayout {
		e.needsLayout = true
		return
	}
	e.placeOne(i)
}

// Remove drops the item at visible index i
func (e *Engine) Remove(i int) {
	it := e.items[i]
	compact := it.Layouted && !e.Broken()

	if it.Layouted {
		e.unbucket(it)
		e.mark(it.Rect)
	}
	e.items = append(e.items[:i], e.items[i+1:]...)
	delete(e.frozen, it.ID)
	e.reindex()

	if !it.Layouted {
		return
	}
	if compact {
		e.compactAfter(e.geom.Slot(it.Cell))
		return
	}
	if !it.Free {
		e.lastDeleted = it.Cell
		e.hasLastDeleted = true
	}
}

// DataChanged marks the rectangle of item i for repaint
func (e *Engine) DataChanged(i int) {
	if i >= 0 && i < len(e.items) && e.items[i].Layouted {
		e.mark(e.items[i].Rect)
	}
}

// Reorder replaces the item order with ids and relayouts
func (e *Engine) Reorder(ids []string) {
	old := make(map[string]ViewItem, len(e.items))
	for _, it := range e.items {
		old[it.ID] = it
	}
	e.items = make([]ViewItem, len(ids))
	for i, id := range ids {
		if it, ok := old[id]; ok {
			e.items[i] = it
		} else {
			e.items[i] = ViewItem{ID: id}
		}
	}
	e.reindex()
	if e.initialListing {
		e.needsLayout = true
		return
	}
	e.LayoutAll()
}

// LayoutAll recomputes every rectangle. Persisted and frozen positions are
// claimed first, the remaining items auto-flow in visible order.
func (e *Engine) LayoutAll() {
	prev := make([]image.Rectangle, len(e.items))
	for i, it := range e.items {
		if it.Layouted {
			prev[i] = it.Rect
		}
		e.items[i].Layouted = false
		e.items[i].Manual = false
		e.items[i].Free = false
	}
	e.buckets = make(map[image.Point][]string, len(e.items))
	e.hasLastDeleted = false
	e.relocated = false
	e.needsLayout = false
	e.quiet = true

	for i := range e.items {
		if pos, ok := e.manualPosition(e.items[i].ID); ok {
			e.placeManual(i, pos)
		}
	}

	slot := 0
	for i := range e.items {
		if e.items[i].Layouted {
			continue
		}
		for !e.cellFree(e.geom.SlotCell(slot)) {
			slot++
		}
		e.setCell(i, e.geom.SlotCell(slot), false)
		slot++
	}
	e.quiet = false

	for i, it := range e.items {
		if prev[i] != it.Rect {
			e.mark(prev[i])
			e.mark(it.Rect)
		}
	}
	if e.locked {
		e.freeze()
	}
}

// SanityCheck verifies that no two items overlap and that every item lies
// inside the content bounds. On violation it relayouts everything and
// returns false.
func (e *Engine) SanityCheck() bool {
	if e.needsLayout {
		return true
	}
	ok := true
	fixedExtent := e.geom.Fixed() * stepAlongFixed(e.geom)
	for i, it := range e.items {
		if !it.Layouted {
			ok = false
			break
		}
		if it.Rect.Min.X < 0 || it.Rect.Min.Y < 0 {
			ok = false
			break
		}
		if e.geom.Flow == Vertical && it.Rect.Min.Y >= fixedExtent ||
			e.geom.Flow == Horizontal && it.Rect.Min.X >= fixedExtent {
			ok = false
			break
		}
		for _, c := range e.coveredCells(it.Rect) {
			for _, id := range e.buckets[c] {
				j := e.byID[id]
				if j != i && e.items[j].Layouted && e.items[j].Rect.Overlaps(it.Rect) {
					ok = false
				}
			}
		}
		if !ok {
			break
		}
	}
	if !ok {
		logging.Layout.Printf("sanity check failed for %d items, relayouting", len(e.items))
		e.LayoutAll()
	}
	return ok
}

// SetLocked freezes or unfreezes all current rectangles
func (e *Engine) SetLocked(locked bool) {
	if e.locked == locked {
		return
	}
	e.locked = locked
	if locked {
		e.freeze()
		return
	}
	e.frozen = nil
}

// Align drops frozen positions and relayouts. Callers clear the persisted
// positions of the affected identities first.
func (e *Engine) Align() {
	e.frozen = nil
	e.LayoutAll()
}

// MoveItems moves the items at indices by delta and returns the resulting
// placements. Occupied targets are resolved by scanning for the next free
// cell; occupants are never displaced. Every other item is pinned where it
// is, since the layout is now broken.
func (e *Engine) MoveItems(indices []int, delta image.Point) []Placement {
	var moving []int
	for _, i := range indices {
		if i >= 0 && i < len(e.items) && e.items[i].Layouted {
			moving = append(moving, i)
		}
	}
	targets := make([]image.Point, len(moving))
	for k, i := range moving {
		it := e.items[i]
		targets[k] = e.geom.Snap(it.Rect.Min.Add(delta))
		e.unbucket(it)
		e.mark(it.Rect)
		e.items[i].Layouted = false
	}

	placed := make([]Placement, 0, len(moving))
	for k, i := range moving {
		c := targets[k]
		if !e.cellFree(c) {
			c = e.findNextEmpty(c)
		}
		e.setCell(i, c, true)
		pos := Position{Cell: c}
		if e.locked {
			e.freezeOne(e.items[i])
		}
		placed = append(placed, Placement{ID: e.items[i].ID, Position: pos})
	}
	if len(placed) > 0 {
		for i := range e.items {
			if e.items[i].Layouted {
				e.items[i].Manual = true
			}
		}
	}
	e.hasLastDeleted = false
	return placed
}

// ContentSize returns the extent of all laid out rectangles. The fixed axis
// always spans the full grid width or height.
func (e *Engine) ContentSize() image.Point {
	var size image.Point
	for _, it := range e.items {
		if it.Layouted {
			size.X = max(size.X, it.Rect.Max.X)
			size.Y = max(size.Y, it.Rect.Max.Y)
		}
	}
	s := e.geom.Step()
	if e.geom.Flow == Vertical {
		size.Y = max(size.Y, e.geom.Fixed()*s.Y-e.geom.Spacing)
	} else {
		size.X = max(size.X, e.geom.Fixed()*s.X-e.geom.Spacing)
	}
	return size
}

func (e *Engine) placeOne(i int) {
	if pos, ok := e.manualPosition(e.items[i].ID); ok {
		e.placeManual(i, pos)
		if e.locked {
			e.freezeOne(e.items[i])
		}
		return
	}
	var c image.Point
	if e.hasLastDeleted && e.cellFree(e.lastDeleted) {
		c = e.lastDeleted
	} else {
		slot := 0
		for !e.cellFree(e.geom.SlotCell(slot)) {
			slot++
		}
		c = e.geom.SlotCell(slot)
	}
	e.hasLastDeleted = false
	e.setCell(i, c, false)
	if e.locked {
		e.freezeOne(e.items[i])
	}
}

func (e *Engine) placeManual(i int, pos Position) {
	if pos.Free {
		r := image.Rectangle{Min: pos.Point, Max: pos.Point.Add(e.geom.Cell)}
		if e.freeRectInBounds(r) && e.rectFree(r) {
			e.setRect(i, r)
			return
		}
		pos.Cell = e.geom.Snap(pos.Point)
		e.relocated = true
	}
	c := pos.Cell
	if !e.cellInBounds(c) || !e.cellFree(c) {
		c = e.findNextEmpty(c)
		e.relocated = true
	}
	e.setCell(i, c, true)
}

// findNextEmpty returns the first free cell at or after start in flow
// order. Coordinates outside the grid are clamped into it first.
func (e *Engine) findNextEmpty(start image.Point) image.Point {
	start = e.geom.clampFixed(start)
	if grow := e.growBound(); e.geom.Flow == Vertical {
		start.X = min(start.X, grow-1)
	} else {
		start.Y = min(start.Y, grow-1)
	}
	slot := e.geom.Slot(start)
	for !e.cellFree(e.geom.SlotCell(slot)) {
		slot++
	}
	return e.geom.SlotCell(slot)
}

// compactAfter moves every auto-flowed item whose slot follows removed one
// free slot earlier
func (e *Engine) compactAfter(removed int) {
	type slotted struct{ slot, index int }
	var later []slotted
	for i, it := range e.items {
		if it.Layouted && !it.Manual {
			if s := e.geom.Slot(it.Cell); s > removed {
				later = append(later, slotted{s, i})
			}
		}
	}
	sort.Slice(later, func(a, b int) bool { return later[a].slot < later[b].slot })

	prev := removed
	for _, s := range later {
		it := e.items[s.index]
		e.unbucket(it)
		e.mark(it.Rect)
		e.setCell(s.index, e.geom.SlotCell(prev), false)
		prev = s.slot
	}
}

func (e *Engine) manualPosition(id string) (Position, bool) {
	if e.locked {
		if pos, ok := e.frozen[id]; ok {
			return pos, true
		}
	}
	if e.positions != nil {
		return e.positions.Lookup(id)
	}
	return Position{}, false
}

func (e *Engine) freeze() {
	e.frozen = make(map[string]Position, len(e.items))
	for _, it := range e.items {
		if it.Layouted {
			e.frozen[it.ID] = e.positionOf(it)
		}
	}
}

func (e *Engine) freezeOne(it ViewItem) {
	if e.frozen == nil {
		e.frozen = make(map[string]Position)
	}
	e.frozen[it.ID] = e.positionOf(it)
}

func (e *Engine) positionOf(it ViewItem) Position {
	if it.Free {
		return Position{Point: it.Rect.Min, Free: true}
	}
	return Position{Cell: it.Cell}
}

func (e *Engine) setCell(i int, c image.Point, manual bool) {
	it := &e.items[i]
	it.Cell = c
	it.Rect = e.geom.CellRect(c)
	it.Layouted = true
	it.Manual = manual
	it.Free = false
	e.bucket(*it)
	e.mark(it.Rect)
}

func (e *Engine) setRect(i int, r image.Rectangle) {
	it := &e.items[i]
	it.Cell = e.geom.CellAt(r.Min)
	it.Rect = r
	it.Layouted = true
	it.Manual = true
	it.Free = true
	e.bucket(*it)
	e.mark(it.Rect)
}

func (e *Engine) cellInBounds(c image.Point) bool {
	if c.X < 0 || c.Y < 0 {
		return false
	}
	fixed, grow := c.X, c.Y
	if e.geom.Flow == Vertical {
		fixed, grow = c.Y, c.X
	}
	return fixed < e.geom.Fixed() && grow < e.growBound()
}

func (e *Engine) freeRectInBounds(r image.Rectangle) bool {
	if r.Min.X < 0 || r.Min.Y < 0 {
		return false
	}
	s := e.geom.Step()
	fixedMax, growMax := r.Max.X, r.Max.Y
	fixedStep, growStep := s.X, s.Y
	if e.geom.Flow == Vertical {
		fixedMax, growMax = r.Max.Y, r.Max.X
		fixedStep, growStep = s.Y, s.X
	}
	return fixedMax <= e.geom.Fixed()*fixedStep && growMax <= e.growBound()*growStep
}

// growBound is the cell count along the growing axis that persisted
// positions may occupy: the viewport, or enough to hold every item
func (e *Engine) growBound() int {
	fixed := e.geom.Fixed()
	return max(e.geom.visibleGrowing(), (len(e.items)+fixed-1)/fixed)
}

func (e *Engine) reindex() {
	e.byID = make(map[string]int, len(e.items))
	for i, it := range e.items {
		e.byID[it.ID] = i
	}
}

func (e *Engine) mark(r image.Rectangle) {
	if e.sink != nil && !e.quiet && !r.Empty() {
		e.sink.MarkDirty(r)
	}
}

func (e *Engine) markAll() {
	for _, it := range e.items {
		if it.Layouted {
			e.mark(it.Rect)
		}
	}
}

func stepAlongFixed(g Geometry) int {
	if g.Flow == Vertical {
		return g.Step().Y
	}
	return g.Step().X
}
