package layout

import (
	"image"
	"strings"
)

// Flow is the order in which auto-flow fills cells
type Flow int

const (
	// Horizontal fills left to right, then down. Rows grow, scrolling is vertical.
	Horizontal Flow = iota
	// Vertical fills top to bottom, then right. Columns grow, scrolling is horizontal.
	Vertical
)

func (f Flow) String() string {
	if f == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseFlow converts a config value to a Flow
func ParseFlow(s string) (Flow, bool) {
	switch strings.ToLower(s) {
	case "horizontal", "horizontal-first", "":
		return Horizontal, true
	case "vertical", "vertical-first":
		return Vertical, true
	}
	return Horizontal, false
}

// Geometry describes the grid. Units are abstract: pixels for a graphical
// front-end, terminal cells for the TUI.
type Geometry struct {
	Cell     image.Point // cell size: icon, label and padding
	Spacing  int         // gap between cells on both axes
	Flow     Flow
	Viewport image.Point
}

// Step is the distance between the origins of two adjacent cells
func (g Geometry) Step() image.Point {
	return image.Pt(max(1, g.Cell.X+g.Spacing), max(1, g.Cell.Y+g.Spacing))
}

// ColumnsForWidth returns how many cells fit in width, at least one
func ColumnsForWidth(width, cellWidth, spacing int) int {
	step := cellWidth + spacing
	if step <= 0 {
		return 1
	}
	return max(1, width/step)
}

// RowsForHeight returns how many cells fit in height, at least one
func RowsForHeight(height, cellHeight, spacing int) int {
	step := cellHeight + spacing
	if step <= 0 {
		return 1
	}
	return max(1, height/step)
}

// Columns is the number of columns visible in the viewport
func (g Geometry) Columns() int {
	return ColumnsForWidth(g.Viewport.X, g.Cell.X, g.Spacing)
}

// Rows is the number of rows visible in the viewport
func (g Geometry) Rows() int {
	return RowsForHeight(g.Viewport.Y, g.Cell.Y, g.Spacing)
}

// Fixed is the cell count along the axis that does not grow
func (g Geometry) Fixed() int {
	if g.Flow == Vertical {
		return g.Rows()
	}
	return g.Columns()
}

// visibleGrowing is the cell count along the growing axis that fits the viewport
func (g Geometry) visibleGrowing() int {
	if g.Flow == Vertical {
		return g.Columns()
	}
	return g.Rows()
}

// Slot converts a cell to its flow-order index
func (g Geometry) Slot(c image.Point) int {
	if g.Flow == Vertical {
		return c.X*g.Fixed() + c.Y
	}
	return c.Y*g.Fixed() + c.X
}

// SlotCell converts a flow-order index to a cell
func (g Geometry) SlotCell(slot int) image.Point {
	n := g.Fixed()
	if g.Flow == Vertical {
		return image.Pt(slot/n, slot%n)
	}
	return image.Pt(slot%n, slot/n)
}

// CellRect returns the content-space rectangle of a cell
func (g Geometry) CellRect(c image.Point) image.Rectangle {
	s := g.Step()
	o := image.Pt(c.X*s.X, c.Y*s.Y)
	return image.Rectangle{Min: o, Max: o.Add(g.Cell)}
}

// CellAt returns the cell whose step area contains p
func (g Geometry) CellAt(p image.Point) image.Point {
	s := g.Step()
	return image.Pt(floorDiv(p.X, s.X), floorDiv(p.Y, s.Y))
}

// Snap returns the cell nearest to a rectangle origin p, clamped to the
// non-negative quadrant and the fixed axis
func (g Geometry) Snap(p image.Point) image.Point {
	s := g.Step()
	c := image.Pt(floorDiv(p.X+s.X/2, s.X), floorDiv(p.Y+s.Y/2, s.Y))
	return g.clampFixed(c)
}

// ScrollAxisVertical reports whether content grows downwards
func (g Geometry) ScrollAxisVertical() bool {
	return g.Flow == Horizontal
}

func (g Geometry) clampFixed(c image.Point) image.Point {
	c.X = max(0, c.X)
	c.Y = max(0, c.Y)
	n := g.Fixed()
	if g.Flow == Vertical {
		c.Y = min(c.Y, n-1)
	} else {
		c.X = min(c.X, n-1)
	}
	return c
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
