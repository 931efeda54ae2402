package core

import (
	"context"
	"errors"
	"image"

	"github.com/lumipallolabs/foldergrid/internal/cache"
	"github.com/lumipallolabs/foldergrid/internal/config"
	"github.com/lumipallolabs/foldergrid/internal/deferred"
	"github.com/lumipallolabs/foldergrid/internal/dirty"
	"github.com/lumipallolabs/foldergrid/internal/interaction"
	"github.com/lumipallolabs/foldergrid/internal/layout"
	"github.com/lumipallolabs/foldergrid/internal/logging"
	"github.com/lumipallolabs/foldergrid/internal/model"
	"github.com/lumipallolabs/foldergrid/internal/positions"
	"github.com/lumipallolabs/foldergrid/internal/proxy"
	"github.com/lumipallolabs/foldergrid/internal/scanner"
	"github.com/lumipallolabs/foldergrid/internal/viewport"
)

// Options configures a Controller
type Options struct {
	Config    config.LayoutConfig
	Scheduler deferred.Scheduler
	Store     *positions.Store
	Lister    scanner.Lister

	// CellSize converts the icon size into the grid cell size. Defaults to
	// PixelCellSize.
	CellSize func(iconSize int) image.Point
}

// PixelCellSize is the cell of a graphical icon view: the icon plus padding
// and room for a two line label
func PixelCellSize(iconSize int) image.Point {
	return image.Pt(iconSize+32, iconSize+40)
}

// Controller wires the listing, sort/filter layer, layout engine, position
// store, dirty tracker, viewport and interaction state. All methods must be
// called from one goroutine; listing and watching run elsewhere and hand
// results back through ApplyBatch and ApplyWatch.
type Controller struct {
	cfg      config.LayoutConfig
	store    *positions.Store
	lister   scanner.Lister
	cellSize func(int) image.Point

	listing *model.Listing
	proxy   *proxy.Proxy
	engine  *layout.Engine
	dirty   *dirty.Tracker
	view    *viewport.Controller
	render  *cache.RenderCache[string]

	state interaction.State
	icfg  interaction.Config

	saveTask    *deferred.Task
	clearTask   *deferred.Task
	layoutTask  *deferred.Task
	animTask    *deferred.Task
	repaintTask *deferred.Task

	selection map[string]bool
	anchorID  string
	focusID   string
	bandBase  map[string]bool
	band      image.Rectangle
	dragDelta image.Point

	listingState ListingState
	listGen      int
	cancelList   context.CancelFunc
	frame        int
	viewportSize image.Point

	listeners []func(Event)
}

// NewController creates a controller with an empty location
func NewController(opts Options) (*Controller, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:       cfg,
		store:     opts.Store,
		lister:    opts.Lister,
		cellSize:  opts.CellSize,
		listing:   model.NewListing(""),
		icfg:      cfg.Interaction(),
		state:     interaction.Initial(),
		selection: make(map[string]bool),
	}
	if c.cellSize == nil {
		c.cellSize = PixelCellSize
	}
	if c.store == nil {
		dir := cfg.PositionsDir
		if dir == "" {
			dir = positions.DefaultDir()
		}
		c.store = positions.New(dir)
	}
	if c.lister == nil {
		var wopts []scanner.Option
		if cfg.DetectMime {
			wopts = append(wopts, scanner.WithMime())
		}
		c.lister = scanner.NewWalker(4, wopts...)
	}

	d := cfg.Delays()
	sched := opts.Scheduler
	c.saveTask = deferred.NewTask(deferred.Save, d.Save, sched)
	c.clearTask = deferred.NewTask(deferred.CacheClear, d.CacheClear, sched)
	c.layoutTask = deferred.NewTask(deferred.Layout, d.Layout, sched)
	c.animTask = deferred.NewTask(deferred.Animation, d.Animation, sched)
	c.repaintTask = deferred.NewTask(deferred.Repaint, d.Repaint, sched)

	p, err := proxy.New(c.listing, cfg.ProxyOptions())
	if err != nil {
		return nil, err
	}
	c.proxy = p
	c.dirty = dirty.New(c.repaintTask)
	c.render = cache.New[string](c.clearTask)
	c.view = viewport.New(axisFor(cfg.LayoutFlow()))
	c.engine = layout.NewEngine(c.geometry(), c.store, c.dirty)
	c.engine.SetLocked(cfg.Locked)

	return c, nil
}

// Subscribe registers a listener for controller events
func (c *Controller) Subscribe(fn func(Event)) {
	c.listeners = append(c.listeners, fn)
}

// Config returns the active configuration
func (c *Controller) Config() config.LayoutConfig { return c.cfg }

// Location returns the current directory
func (c *Controller) Location() string { return c.listing.Location() }

// Len returns the number of visible entries
func (c *Controller) Len() int { return c.proxy.Len() }

// Entry returns the visible entry at i
func (c *Controller) Entry(i int) model.Entry { return c.proxy.At(i) }

// Item returns the layout state of visible entry i
func (c *Controller) Item(i int) layout.ViewItem { return c.engine.Item(i) }

// IndexOf returns the visible index of id, or -1
func (c *Controller) IndexOf(id string) int { return c.engine.IndexOf(id) }

// Geometry returns the active grid geometry
func (c *Controller) Geometry() layout.Geometry { return c.engine.Geometry() }

// RenderCache returns the cache of rendered tiles
func (c *Controller) RenderCache() *cache.RenderCache[string] { return c.render }

// Viewport returns the scroll controller for coordinate mapping
func (c *Controller) Viewport() *viewport.Controller { return c.view }

// ItemsIn returns the indices of items intersecting the content rectangle r
func (c *Controller) ItemsIn(r image.Rectangle) []int {
	return c.engine.IndicesIn(r)
}

// VisibleIndices returns the indices of items intersecting the viewport
func (c *Controller) VisibleIndices() []int {
	return c.engine.IndicesIn(c.view.VisibleContent())
}

// IsSelected reports whether the visible entry at i is selected
func (c *Controller) IsSelected(i int) bool {
	return c.selection[c.engine.Item(i).ID]
}

// Focus returns the index of the keyboard focus, or -1
func (c *Controller) Focus() int {
	if c.focusID == "" {
		return -1
	}
	return c.engine.IndexOf(c.focusID)
}

// State returns a snapshot for rendering
func (c *Controller) State() ViewState {
	return ViewState{
		Location:    c.listing.Location(),
		Listing:     c.listingState,
		Total:       c.listing.Len(),
		Visible:     c.proxy.Len(),
		Selected:    len(c.selection),
		Focus:       c.Focus(),
		Locked:      c.engine.Locked(),
		Scroll:      c.view.State(),
		Interaction: c.state,
		DragDelta:   c.dragDelta,
		Band:        c.band,
	}
}

// Apply consumes one Entry Source notification
func (c *Controller) Apply(n model.Notification) {
	logging.Layout.Printf("%s %d..%d", n.Kind, n.First, n.Last)
	switch n.Kind {
	case model.NotifyInserted:
		c.applyChanges(c.proxy.SourceInserted(n.First, n.Last))
	case model.NotifyRemoved:
		c.applyChanges(c.proxy.SourceRemoved(n.First, n.Last))
	case model.NotifyDataChanged:
		c.applyChanges(c.proxy.SourceChanged(n.First, n.Last))
	case model.NotifyReset:
		c.applyChanges([]proxy.Change{c.proxy.SourceReset()})
	case model.NotifyListingCompleted:
		c.finishListing(false, nil)
	case model.NotifyListingCanceled:
		c.finishListing(true, nil)
	}
}

// Inserted handles source rows first..last being inserted
func (c *Controller) Inserted(first, last int) {
	c.Apply(model.Notification{Kind: model.NotifyInserted, First: first, Last: last})
}

// Removed handles source rows first..last being removed
func (c *Controller) Removed(first, last int) {
	c.Apply(model.Notification{Kind: model.NotifyRemoved, First: first, Last: last})
}

// DataChanged handles source rows first..last changing
func (c *Controller) DataChanged(first, last int) {
	c.Apply(model.Notification{Kind: model.NotifyDataChanged, First: first, Last: last})
}

// Reset handles the source being reset
func (c *Controller) Reset() {
	c.Apply(model.Notification{Kind: model.NotifyReset})
}

// ListingCompleted handles the end of a listing
func (c *Controller) ListingCompleted() {
	c.Apply(model.Notification{Kind: model.NotifyListingCompleted})
}

// ListingCanceled handles an aborted listing
func (c *Controller) ListingCanceled() {
	c.Apply(model.Notification{Kind: model.NotifyListingCanceled})
}

// Fire dispatches a ticket delivered by the scheduler. Stale tickets are
// ignored.
func (c *Controller) Fire(t deferred.Ticket) {
	switch t.Kind {
	case deferred.Save:
		if c.saveTask.Accept(t) {
			c.savePositions()
		}
	case deferred.CacheClear:
		if c.clearTask.Accept(t) {
			logging.Debug.Printf("clearing %d cached tiles", c.render.Len())
			c.render.Clear()
		}
	case deferred.Layout:
		if c.layoutTask.Accept(t) {
			c.engine.LayoutAll()
			c.engine.SanityCheck()
			c.updateScroll()
		}
	case deferred.Animation:
		if c.animTask.Accept(t) {
			c.frame++
			c.emit(AnimationTickEvent{Frame: c.frame})
			if c.listingState == ListingActive {
				c.animTask.Start()
			}
		}
	case deferred.Repaint:
		if c.repaintTask.Accept(t) {
			c.FlushRepaint()
		}
	}
}

// FlushRepaint emits the pending dirty region, if any, as one RepaintEvent
func (c *Controller) FlushRepaint() {
	if region, ok := c.dirty.Flush(); ok {
		c.render.Touch()
		c.emit(RepaintEvent{Region: region})
	}
}

// SetViewport updates the viewport size
func (c *Controller) SetViewport(size image.Point) {
	if size == c.viewportSize {
		return
	}
	c.viewportSize = size
	c.engine.SetGeometry(c.geometry())
	c.dirty.MarkEverythingDirty()
	c.settle()
}

// SetConfig applies a new configuration. Icon size, spacing and flow
// changes relayout, sort and filter changes update the visible sequence.
func (c *Controller) SetConfig(cfg config.LayoutConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	changes, err := c.proxy.SetOptions(cfg.ProxyOptions())
	if err != nil {
		return err
	}
	old := c.cfg
	c.cfg = cfg
	c.icfg = cfg.Interaction()

	d := cfg.Delays()
	c.saveTask.SetDelay(d.Save)
	c.clearTask.SetDelay(d.CacheClear)
	c.layoutTask.SetDelay(d.Layout)
	c.animTask.SetDelay(d.Animation)
	c.repaintTask.SetDelay(d.Repaint)

	if old.IconSize != cfg.IconSize || old.Spacing != cfg.Spacing || old.Flow != cfg.Flow {
		c.render.Clear()
		c.view.SetAxis(axisFor(cfg.LayoutFlow()))
		c.engine.SetGeometry(c.geometry())
		c.dirty.MarkEverythingDirty()
	}
	c.engine.SetLocked(cfg.Locked)
	c.applyChanges(changes)
	return nil
}

// AlignToGrid clears the manual positions of every visible entry and
// reflows them
func (c *Controller) AlignToGrid() {
	c.store.Clear(c.proxy.IDs()...)
	c.engine.Align()
	c.saveTask.Start()
	c.settle()
}

// TransferPosition moves a persisted position from one identity to another
// after the entry was renamed
func (c *Controller) TransferPosition(from, to string) {
	pos, ok := c.store.Lookup(from)
	if !ok || from == to {
		return
	}
	c.store.Clear(from)
	c.store.RecordManualPosition(to, pos)
	c.saveTask.Start()
}

// Close cancels the listing and writes pending positions
func (c *Controller) Close() error {
	c.CancelListing()
	c.saveTask.Stop()
	c.animTask.Stop()
	c.layoutTask.Stop()
	c.recordLayout()
	return c.store.Close()
}

func (c *Controller) applyChanges(changes []proxy.Change) {
	selectionChanged := false
	for _, ch := range changes {
		switch ch.Kind {
		case proxy.Inserted:
			c.engine.Insert(ch.Index, ch.ID)
			c.state = interaction.Inserted(c.state, ch.Index)
			if !c.engine.InitialListing() && c.engine.Broken() {
				c.saveTask.Start()
			}
		case proxy.Removed:
			id := c.engine.Item(ch.Index).ID
			var effects []interaction.Effect
			c.state, effects = interaction.Removed(c.state, ch.Index)
			c.handleEffects(effects)
			c.engine.Remove(ch.Index)
			c.render.InvalidateID(id)
			if c.selection[id] {
				delete(c.selection, id)
				selectionChanged = true
			}
			if c.focusID == id {
				c.focusID = ""
			}
		case proxy.DataChanged:
			c.engine.DataChanged(ch.Index)
			c.render.InvalidateID(ch.ID)
		case proxy.Reordered:
			c.abandonGesture()
			c.engine.Reorder(ch.IDs)
		case proxy.Reset:
			c.abandonGesture()
			c.engine.Reset(ch.IDs)
			c.render.Clear()
			if len(c.selection) > 0 {
				c.selection = make(map[string]bool)
				selectionChanged = true
			}
			c.focusID, c.anchorID = "", ""
			c.dirty.MarkEverythingDirty()
		}
	}
	if selectionChanged {
		c.emitSelection()
	}
	c.settle()
}

// settle runs after every batch of changes: a pending full pass is
// debounced, otherwise the layout is checked and the scroll range updated
func (c *Controller) settle() {
	if c.engine.NeedsLayout() {
		c.layoutTask.Start()
		return
	}
	c.engine.SanityCheck()
	c.updateScroll()
}

func (c *Controller) finishListing(canceled bool, err error) {
	c.layoutTask.Stop()
	c.animTask.Stop()
	c.cancelList = nil
	c.engine.ListingFinished()
	c.engine.SanityCheck()
	c.updateScroll()

	c.listingState = ListingDone
	if canceled {
		c.listingState = ListingCanceled
	}
	c.emit(ListingStateEvent{
		Location: c.listing.Location(),
		Canceled: canceled,
		Count:    c.listing.Len(),
		Err:      err,
	})
}

func (c *Controller) updateScroll() {
	before := c.view.State()
	c.view.UpdateScrollBar(c.engine.ContentSize(), c.viewportSize)
	after := c.view.State()
	if after.Offset != before.Offset {
		c.scrolled(before.Offset)
		return
	}
	if after.Range != before.Range {
		c.emit(ScrollChangedEvent{State: after})
	}
}

// recordLayout stores the position of every item once the layout is broken,
// so that a reload of the same visible sequence reproduces it
func (c *Controller) recordLayout() {
	if !c.engine.Broken() || c.engine.NeedsLayout() {
		return
	}
	for _, p := range c.engine.Placements() {
		c.store.RecordManualPosition(p.ID, p.Position)
	}
}

func (c *Controller) savePositions() {
	c.recordLayout()
	if err := c.store.Save(); err != nil && !errors.Is(err, positions.ErrNoLocation) {
		logging.Debug.Printf("saving positions failed: %v", err)
		c.emit(ErrorEvent{Err: err})
	}
}

func (c *Controller) geometry() layout.Geometry {
	return layout.Geometry{
		Cell:     c.cellSize(c.cfg.IconSize),
		Spacing:  c.cfg.Spacing,
		Flow:     c.cfg.LayoutFlow(),
		Viewport: c.viewportSize,
	}
}

func axisFor(f layout.Flow) viewport.Axis {
	if f == layout.Vertical {
		return viewport.AxisX
	}
	return viewport.AxisY
}

// emit sends an event to all listeners
func (c *Controller) emit(event Event) {
	for _, fn := range c.listeners {
		fn(event)
	}
}
