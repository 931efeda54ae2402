package core

import (
	"image"
	"time"

	"github.com/lumipallolabs/foldergrid/internal/interaction"
	"github.com/lumipallolabs/foldergrid/internal/logging"
)

// PointerMove feeds a pointer position in viewport coordinates
func (c *Controller) PointerMove(p image.Point) {
	cp := c.view.MapFromViewport(p)
	c.feed(interaction.PointerMove{Pos: cp, Index: c.engine.IndexAt(cp)})
}

// ButtonDown feeds a primary button press in viewport coordinates
func (c *Controller) ButtonDown(p image.Point, mods interaction.Modifiers, at time.Time) {
	cp := c.view.MapFromViewport(p)
	c.feed(interaction.ButtonDown{Pos: cp, Index: c.engine.IndexAt(cp), Time: at, Mods: mods})
}

// ButtonUp feeds a primary button release in viewport coordinates
func (c *Controller) ButtonUp(p image.Point, at time.Time) {
	cp := c.view.MapFromViewport(p)
	c.feed(interaction.ButtonUp{Pos: cp, Index: c.engine.IndexAt(cp), Time: at})
}

// FocusLost discards any pointer gesture in progress
func (c *Controller) FocusLost() { c.feed(interaction.FocusLost{}) }

// Escape cancels the current gesture or edit
func (c *Controller) Escape() { c.feed(interaction.Escape{}) }

// BeginEdit starts renaming the focused entry
func (c *Controller) BeginEdit() {
	if i := c.Focus(); i >= 0 {
		c.feed(interaction.BeginEdit{Index: i})
	}
}

// CommitEdit ends renaming with text
func (c *Controller) CommitEdit(text string) { c.feed(interaction.CommitEdit{Text: text}) }

// CancelEdit ends renaming without a change
func (c *Controller) CancelEdit() { c.feed(interaction.CancelEdit{}) }

// MoveFocus moves the keyboard focus to the neighbor in direction (dx, dy).
// With extend the selection grows from the anchor, otherwise it follows the
// focus.
func (c *Controller) MoveFocus(dx, dy int, extend bool) {
	if c.proxy.Len() == 0 {
		return
	}
	next := 0
	if cur := c.Focus(); cur >= 0 {
		next = c.engine.Neighbor(cur, dx, dy)
		if next < 0 {
			return
		}
	}
	c.setFocus(next)
	if extend {
		c.selectRange(c.engine.IndexOf(c.anchorID), next, nil)
	} else {
		c.selectOnly(next)
		c.anchorID = c.focusID
	}
	if r, ok := c.engine.VisualRect(next); ok {
		old := c.view.Offset()
		if c.view.EnsureVisible(r) {
			c.scrolled(old)
		}
	}
}

// ActivateFocused activates the focused entry
func (c *Controller) ActivateFocused() {
	if i := c.Focus(); i >= 0 {
		c.activate(i)
	}
}

// SelectAll selects every visible entry
func (c *Controller) SelectAll() {
	next := make(map[string]bool, c.proxy.Len())
	for _, id := range c.proxy.IDs() {
		next[id] = true
	}
	c.setSelection(next)
}

// ClearSelection deselects everything
func (c *Controller) ClearSelection() {
	c.setSelection(map[string]bool{})
}

// SelectedIDs returns the selected identities in visible order
func (c *Controller) SelectedIDs() []string {
	var ids []string
	for _, id := range c.proxy.IDs() {
		if c.selection[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// ScrollBy scrolls by delta pixels along the scroll axis
func (c *Controller) ScrollBy(delta int) {
	old := c.view.Offset()
	if c.view.ScrollBy(delta) {
		c.scrolled(old)
	}
}

// ScrollTo scrolls to an absolute offset
func (c *Controller) ScrollTo(offset int) {
	old := c.view.Offset()
	if c.view.ScrollTo(offset) {
		c.scrolled(old)
	}
}

// PageDown scrolls one viewport forward
func (c *Controller) PageDown() { c.ScrollBy(c.view.PageSize()) }

// PageUp scrolls one viewport back
func (c *Controller) PageUp() { c.ScrollBy(-c.view.PageSize()) }

func (c *Controller) scrolled(old int) {
	c.dirty.MarkDirty(c.view.Exposed(old))
	c.emit(ScrollChangedEvent{State: c.view.State(), Delta: c.view.Offset() - old})
}

func (c *Controller) feed(in interaction.Input) {
	prevHover := c.state.Hover
	next, effects := interaction.Transition(c.state, in, c.icfg)
	c.state = next
	if next.Hover != prevHover {
		c.markItem(prevHover)
		c.markItem(next.Hover)
	}
	c.handleEffects(effects)
}

func (c *Controller) abandonGesture() {
	var effects []interaction.Effect
	c.state, effects = interaction.Abandon(c.state)
	c.handleEffects(effects)
}

func (c *Controller) handleEffects(effects []interaction.Effect) {
	for _, ef := range effects {
		switch e := ef.(type) {
		case interaction.Clicked:
			c.click(e.Index, e.Mods)
		case interaction.Activated:
			c.activate(e.Index)
		case interaction.DragStarted:
			if id := c.engine.Item(e.Index).ID; !c.selection[id] {
				c.selectOnly(e.Index)
			}
			c.setFocus(e.Index)
			c.dragDelta = image.Point{}
		case interaction.DragMoved:
			c.markSelection()
			c.dragDelta = e.Delta
			c.markSelection()
		case interaction.Dropped:
			c.drop(e)
		case interaction.BandChanged:
			if c.bandBase == nil {
				c.bandBase = make(map[string]bool)
				if c.state.Mods.Has(interaction.ModCtrl) || c.state.Mods.Has(interaction.ModShift) {
					for id := range c.selection {
						c.bandBase[id] = true
					}
				}
			}
			c.dirty.MarkDirty(c.band)
			c.band = e.Rect
			c.dirty.MarkDirty(c.band)
			c.selectBand()
		case interaction.BandFinished:
			c.dirty.MarkDirty(c.band)
			c.band = image.Rectangle{}
			c.bandBase = nil
		case interaction.Canceled:
			c.cancelGesture()
		case interaction.EditStarted:
			it := c.engine.Item(e.Index)
			c.markItem(e.Index)
			c.emit(EditingEvent{ID: it.ID, Name: c.proxy.At(e.Index).Name, Active: true})
		case interaction.EditCommitted:
			c.commitEdit(e)
		case interaction.EditCanceled:
			c.markItem(e.Index)
			id := ""
			if e.Index >= 0 && e.Index < c.engine.Len() {
				id = c.engine.Item(e.Index).ID
			}
			c.emit(EditingEvent{ID: id})
		}
	}
}

func (c *Controller) click(index int, mods interaction.Modifiers) {
	if index < 0 {
		if !mods.Has(interaction.ModCtrl) {
			c.ClearSelection()
		}
		return
	}
	id := c.engine.Item(index).ID
	switch {
	case mods.Has(interaction.ModShift) && c.anchorID != "":
		var base map[string]bool
		if mods.Has(interaction.ModCtrl) {
			base = c.selection
		}
		c.selectRange(c.engine.IndexOf(c.anchorID), index, base)
		c.setFocus(index)
		return
	case mods.Has(interaction.ModCtrl):
		next := copySet(c.selection)
		if next[id] {
			delete(next, id)
		} else {
			next[id] = true
		}
		c.setSelection(next)
	default:
		c.selectOnly(index)
	}
	c.anchorID = id
	c.setFocus(index)
}

func (c *Controller) activate(index int) {
	if index < 0 || index >= c.proxy.Len() {
		return
	}
	c.emit(ActivatedEvent{Index: index, Entry: c.proxy.At(index)})
}

// drop ends a drag. Dropping onto an unselected item hands the selection to
// that target; dropping elsewhere moves the items unless the layout is
// locked.
func (c *Controller) drop(e interaction.Dropped) {
	c.markSelection()
	c.dragDelta = image.Point{}

	ids := c.SelectedIDs()
	if e.Target >= 0 {
		if target := c.engine.Item(e.Target).ID; !c.selection[target] {
			c.emit(DropCommittedEvent{IDs: ids, Target: target})
			return
		}
	}
	if c.engine.Locked() {
		logging.Layout.Printf("drop of %d items refused: layout locked", len(ids))
		return
	}

	indices := make([]int, 0, len(ids))
	for _, id := range ids {
		indices = append(indices, c.engine.IndexOf(id))
	}
	c.engine.MoveItems(indices, e.Delta)
	c.recordLayout()
	c.saveTask.Start()
	c.settle()
	c.emit(DropCommittedEvent{IDs: ids})
}

func (c *Controller) cancelGesture() {
	c.markSelection()
	c.dragDelta = image.Point{}
	if c.bandBase != nil {
		c.dirty.MarkDirty(c.band)
		c.band = image.Rectangle{}
		base := c.bandBase
		c.bandBase = nil
		c.setSelection(base)
	}
}

func (c *Controller) commitEdit(e interaction.EditCommitted) {
	c.markItem(e.Index)
	if e.Index < 0 || e.Index >= c.proxy.Len() {
		return
	}
	entry := c.proxy.At(e.Index)
	c.emit(EditingEvent{ID: entry.ID})
	if e.Text != "" && e.Text != entry.Name {
		c.emit(RenameRequestedEvent{ID: entry.ID, NewName: e.Text})
	}
}

func (c *Controller) selectBand() {
	next := copySet(c.bandBase)
	for _, i := range c.engine.IndicesIn(c.band) {
		next[c.engine.Item(i).ID] = true
	}
	c.setSelection(next)
}

func (c *Controller) selectOnly(index int) {
	c.setSelection(map[string]bool{c.engine.Item(index).ID: true})
}

// selectRange selects the visible indices between from and to, added to
// base. A missing anchor selects only to.
func (c *Controller) selectRange(from, to int, base map[string]bool) {
	if from < 0 {
		from = to
		c.anchorID = c.engine.Item(to).ID
	}
	next := copySet(base)
	for i := min(from, to); i <= max(from, to); i++ {
		next[c.engine.Item(i).ID] = true
	}
	c.setSelection(next)
}

// setSelection replaces the selection, marks items whose highlight changed
// and notifies listeners when anything changed
func (c *Controller) setSelection(next map[string]bool) {
	changed := false
	for id := range c.selection {
		if !next[id] {
			changed = true
			c.markItem(c.engine.IndexOf(id))
		}
	}
	for id := range next {
		if !c.selection[id] {
			changed = true
			c.markItem(c.engine.IndexOf(id))
		}
	}
	c.selection = next
	if changed {
		c.emitSelection()
	}
}

func (c *Controller) setFocus(index int) {
	prev := c.Focus()
	if prev == index {
		return
	}
	c.markItem(prev)
	c.focusID = ""
	if index >= 0 {
		c.focusID = c.engine.Item(index).ID
		if c.anchorID == "" {
			c.anchorID = c.focusID
		}
	}
	c.markItem(index)
}

func (c *Controller) emitSelection() {
	c.emit(SelectionChangedEvent{IDs: c.SelectedIDs()})
}

func (c *Controller) markItem(index int) {
	if r, ok := c.engine.VisualRect(index); ok {
		c.dirty.MarkDirty(r)
	}
}

// markSelection marks the selected items at their laid out position and at
// the current drag offset
func (c *Controller) markSelection() {
	for id := range c.selection {
		r, ok := c.engine.VisualRect(c.engine.IndexOf(id))
		if !ok {
			continue
		}
		c.dirty.MarkDirty(r)
		if c.dragDelta != (image.Point{}) {
			c.dirty.MarkDirty(r.Add(c.dragDelta))
		}
	}
}

func copySet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k := range in {
		out[k] = true
	}
	return out
}
