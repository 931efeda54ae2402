package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/lumipallolabs/foldergrid/internal/cache"
	"github.com/lumipallolabs/foldergrid/internal/core"
	"github.com/lumipallolabs/foldergrid/internal/dirty"
	"github.com/lumipallolabs/foldergrid/internal/interaction"
)

// Canvas is the viewport-sized cell buffer of the grid. Cells keep their
// content between frames; only dirty areas are redrawn.
type Canvas struct {
	width, height int
	runes         [][]rune
	paints        [][]paint
}

// NewCanvas creates a blank canvas
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize discards the content and changes the size
func (c *Canvas) Resize(w, h int) {
	c.width, c.height = max(0, w), max(0, h)
	c.runes = make([][]rune, c.height)
	c.paints = make([][]paint, c.height)
	for y := range c.runes {
		c.runes[y] = make([]rune, c.width)
		c.paints[y] = make([]paint, c.width)
	}
	c.Clear(c.Bounds())
}

// Bounds returns the canvas rectangle in viewport coordinates
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// Clear blanks r
func (c *Canvas) Clear(r image.Rectangle) {
	r = r.Intersect(c.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.runes[y][x] = ' '
			c.paints[y][x] = paintNone
		}
	}
}

// Set writes one cell; points outside the canvas are ignored
func (c *Canvas) Set(x, y int, r rune, p paint) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.runes[y][x] = r
	c.paints[y][x] = p
}

// At returns the rune at x, y
func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0
	}
	return c.runes[y][x]
}

// Shift moves the content by -d, as when the viewport scrolls by d. The
// revealed strip is blanked and left for the next repaint.
func (c *Canvas) Shift(d image.Point) {
	if d == (image.Point{}) {
		return
	}
	runes := make([][]rune, c.height)
	paints := make([][]paint, c.height)
	for y := range runes {
		runes[y] = make([]rune, c.width)
		paints[y] = make([]paint, c.width)
		for x := range runes[y] {
			sx, sy := x+d.X, y+d.Y
			if sx >= 0 && sy >= 0 && sx < c.width && sy < c.height {
				runes[y][x] = c.runes[sy][sx]
				paints[y][x] = c.paints[sy][sx]
			} else {
				runes[y][x] = ' '
			}
		}
	}
	c.runes, c.paints = runes, paints
}

// View renders the canvas, one styled string per run of equal paint
func (c *Canvas) View() string {
	lines := make([]string, c.height)
	for y := 0; y < c.height; y++ {
		var line strings.Builder
		start := 0
		for x := 1; x <= c.width; x++ {
			if x == c.width || c.paints[y][x] != c.paints[y][start] {
				line.WriteString(palette[c.paints[y][start]].Render(string(c.runes[y][start:x])))
				start = x
			}
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

// Painter redraws dirty regions of a controller onto a canvas
type Painter struct {
	ctrl   *core.Controller
	canvas *Canvas
}

// NewPainter creates a painter for ctrl
func NewPainter(ctrl *core.Controller, canvas *Canvas) *Painter {
	return &Painter{ctrl: ctrl, canvas: canvas}
}

// Paint redraws the content-space region
func (p *Painter) Paint(region dirty.Region) {
	view := p.ctrl.Viewport()
	visible := view.VisibleContent()

	rects := region.Rects
	if region.Everything {
		rects = []image.Rectangle{visible}
	}
	st := p.ctrl.State()
	for _, r := range rects {
		r = r.Intersect(visible)
		if r.Empty() {
			continue
		}
		clip := view.RectToViewport(r)
		p.canvas.Clear(clip)
		for _, i := range p.ctrl.ItemsIn(r) {
			p.tile(i, st, clip)
		}
		if st.Interaction.Mode == interaction.Dragging && st.DragDelta != (image.Point{}) {
			p.ghosts(st.DragDelta, r, clip)
		}
		if !st.Band.Empty() && st.Band.Overlaps(r) {
			p.outline(view.RectToViewport(st.Band), clip, paintBand)
		}
	}
}

func (p *Painter) tile(i int, st core.ViewState, clip image.Rectangle) {
	it := p.ctrl.Item(i)
	e := p.ctrl.Entry(i)
	r := p.ctrl.Viewport().RectToViewport(it.Rect)
	w, h := it.Rect.Dx(), it.Rect.Dy()

	key := cache.Key{ID: e.ID, Variant: fmt.Sprintf("%dx%d", w, h)}
	text := p.ctrl.RenderCache().GetOrRender(key, func() string {
		return strings.Join(renderTile(e, w, h), "\n")
	})

	pt := paintFile
	if e.IsDir {
		pt = paintDir
	}
	switch {
	case p.ctrl.IsSelected(i):
		pt = paintSelected
	case st.Focus == i:
		pt = paintFocus
	case st.Interaction.Hover == i:
		pt = paintHover
	}

	for dy, line := range strings.Split(text, "\n") {
		dx := 0
		for _, ch := range line {
			pos := image.Pt(r.Min.X+dx, r.Min.Y+dy)
			if pos.In(clip) {
				p.canvas.Set(pos.X, pos.Y, ch, pt)
			}
			dx++
		}
	}
}

// ghosts outlines the selected items at their dragged position
func (p *Painter) ghosts(delta image.Point, r, clip image.Rectangle) {
	for _, id := range p.ctrl.SelectedIDs() {
		i := p.ctrl.IndexOf(id)
		if i < 0 {
			continue
		}
		it := p.ctrl.Item(i)
		if !it.Layouted {
			continue
		}
		moved := it.Rect.Add(delta)
		if moved.Overlaps(r) {
			p.outline(p.ctrl.Viewport().RectToViewport(moved), clip, paintGhost)
		}
	}
}

// outline draws a box border along r, clipped to clip
func (p *Painter) outline(r, clip image.Rectangle, pt paint) {
	if r.Dx() < 1 || r.Dy() < 1 {
		return
	}
	set := func(x, y int, ch rune) {
		if image.Pt(x, y).In(clip) {
			p.canvas.Set(x, y, ch, pt)
		}
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	for x := x0; x <= x1; x++ {
		set(x, y0, '─')
		set(x, y1, '─')
	}
	for y := y0; y <= y1; y++ {
		set(x0, y, '│')
		set(x1, y, '│')
	}
	set(x0, y0, '┌')
	set(x1, y0, '┐')
	set(x0, y1, '└')
	set(x1, y1, '┘')
}
