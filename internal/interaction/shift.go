package interaction

// Inserted adjusts tracked indices after an item was inserted at index
func Inserted(s State, index int) State {
	s.Hover = shiftUp(s.Hover, index)
	s.Pressed = shiftUp(s.Pressed, index)
	s.Editing = shiftUp(s.Editing, index)
	s.lastClick = shiftUp(s.lastClick, index)
	return s
}

// Removed adjusts tracked indices after the item at index was removed. A
// gesture on the removed item ends: a drag is canceled, an edit abandoned.
func Removed(s State, index int) (State, []Effect) {
	var effects []Effect
	switch {
	case s.Mode == Editing && s.Editing == index:
		effects = append(effects, EditCanceled{Index: index})
		s = idle(s, -1)
	case (s.Mode == Pressed || s.Mode == Dragging) && s.Pressed == index:
		if s.Mode == Dragging {
			effects = append(effects, Canceled{})
		}
		s = idle(s, -1)
	}
	s.Hover = shiftDown(s.Hover, index)
	s.Pressed = shiftDown(s.Pressed, index)
	s.Editing = shiftDown(s.Editing, index)
	s.lastClick = shiftDown(s.lastClick, index)
	if s.Mode == Hover && s.Hover < 0 {
		s.Mode = Idle
	}
	return s, effects
}

// Abandon ends any gesture, for changes that invalidate every index
func Abandon(s State) (State, []Effect) {
	s, effects := cancel(s)
	s = idle(s, -1)
	s.lastClick = -1
	return s, effects
}

func shiftUp(i, at int) int {
	if i >= at && i >= 0 {
		return i + 1
	}
	return i
}

func shiftDown(i, at int) int {
	switch {
	case i == at:
		return -1
	case i > at:
		return i - 1
	}
	return i
}
