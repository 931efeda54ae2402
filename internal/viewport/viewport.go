// Package viewport maps between content space and viewport space along the
// scroll axis.
package viewport

import "image"

// Axis is the scroll axis
type Axis int

const (
	AxisY Axis = iota
	AxisX
)

// State is the scroll state
type State struct {
	Axis   Axis
	Offset int
	Range  int
}

// Controller owns the scroll state for one view
type Controller struct {
	state   State
	size    image.Point // viewport size
	content image.Point // content extent
}

// New creates a controller scrolling along axis
func New(axis Axis) *Controller {
	return &Controller{state: State{Axis: axis}}
}

// State returns the current scroll state
func (c *Controller) State() State { return c.state }

// Offset returns the scroll offset
func (c *Controller) Offset() int { return c.state.Offset }

// Size returns the viewport size
func (c *Controller) Size() image.Point { return c.size }

// SetAxis switches the scroll axis and resets the offset
func (c *Controller) SetAxis(a Axis) {
	if c.state.Axis == a {
		return
	}
	c.state.Axis = a
	c.state.Offset = 0
	c.UpdateScrollBar(c.content, c.size)
}

// UpdateScrollBar recomputes the range from content and viewport extents
// and clamps the offset into it. It reports whether the offset changed.
func (c *Controller) UpdateScrollBar(content, size image.Point) bool {
	c.content = content
	c.size = size
	c.state.Range = max(0, c.along(content)-c.along(size))
	return c.setOffset(c.state.Offset)
}

// ScrollTo sets the offset, clamped to the range
func (c *Controller) ScrollTo(offset int) bool {
	return c.setOffset(offset)
}

// ScrollBy moves the offset by delta, clamped to the range
func (c *Controller) ScrollBy(delta int) bool {
	return c.setOffset(c.state.Offset + delta)
}

// PageSize is the scroll distance of one page
func (c *Controller) PageSize() int {
	return max(1, c.along(c.size))
}

// EnsureVisible scrolls the minimum distance that brings r into view
func (c *Controller) EnsureVisible(r image.Rectangle) bool {
	lo, hi := c.along(r.Min), c.along(r.Max)
	view := c.along(c.size)
	off := c.state.Offset
	switch {
	case lo < off:
		off = lo
	case hi > off+view:
		off = hi - view
	}
	return c.setOffset(off)
}

// MapToViewport translates a content point into viewport space
func (c *Controller) MapToViewport(p image.Point) image.Point {
	return p.Sub(c.delta())
}

// MapFromViewport translates a viewport point into content space
func (c *Controller) MapFromViewport(p image.Point) image.Point {
	return p.Add(c.delta())
}

// RectToViewport translates a content rectangle into viewport space
func (c *Controller) RectToViewport(r image.Rectangle) image.Rectangle {
	return r.Sub(c.delta())
}

// VisibleContent returns the content-space rectangle currently shown
func (c *Controller) VisibleContent() image.Rectangle {
	return image.Rectangle{Max: c.size}.Add(c.delta())
}

// Exposed returns the content-space strip revealed by scrolling from
// oldOffset to the current offset. A jump of a full viewport or more
// exposes everything.
func (c *Controller) Exposed(oldOffset int) image.Rectangle {
	d := c.state.Offset - oldOffset
	view := c.VisibleContent()
	if d == 0 {
		return image.Rectangle{}
	}
	if abs(d) >= c.along(c.size) {
		return view
	}
	if c.state.Axis == AxisY {
		if d > 0 {
			view.Min.Y = view.Max.Y - d
		} else {
			view.Max.Y = view.Min.Y - d
		}
		return view
	}
	if d > 0 {
		view.Min.X = view.Max.X - d
	} else {
		view.Max.X = view.Min.X - d
	}
	return view
}

func (c *Controller) setOffset(off int) bool {
	off = max(0, min(off, c.state.Range))
	if off == c.state.Offset {
		return false
	}
	c.state.Offset = off
	return true
}

func (c *Controller) delta() image.Point {
	if c.state.Axis == AxisX {
		return image.Pt(c.state.Offset, 0)
	}
	return image.Pt(0, c.state.Offset)
}

func (c *Controller) along(p image.Point) int {
	if c.state.Axis == AxisX {
		return p.X
	}
	return p.Y
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
