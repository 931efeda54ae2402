package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/foldergrid/internal/config"
	"github.com/lumipallolabs/foldergrid/internal/core"
	"github.com/lumipallolabs/foldergrid/internal/deferred"
	"github.com/lumipallolabs/foldergrid/internal/interaction"
	"github.com/lumipallolabs/foldergrid/internal/layout"
	"github.com/lumipallolabs/foldergrid/internal/logging"
	"github.com/lumipallolabs/foldergrid/internal/model"
	"github.com/lumipallolabs/foldergrid/internal/positions"
	"github.com/lumipallolabs/foldergrid/internal/scanner"
	"github.com/lumipallolabs/foldergrid/internal/session"
	"github.com/lumipallolabs/foldergrid/internal/viewport"
	"github.com/lumipallolabs/foldergrid/internal/watcher"
)

const (
	headerHeight  = 1
	helpBarHeight = 1
)

// openMsg switches to a directory
type openMsg struct {
	path string
}

// batchMsg carries one listing batch. ok is false once the channel closed.
type batchMsg struct {
	ch    <-chan scanner.Batch
	gen   int
	batch scanner.Batch
	ok    bool
}

// ticketMsg delivers a deferred task ticket after its delay
type ticketMsg struct {
	ticket deferred.Ticket
}

// watcherEventMsg is sent when the filesystem watcher detects a change
type watcherEventMsg struct {
	event watcher.Event
}

// refreshMsg carries a complete rescan of a location
type refreshMsg struct {
	location string
	entries  []model.Entry
	err      error
}

// renamedMsg is sent when a rename finished
type renamedMsg struct {
	from, to string
	err      error
}

// fileOpDoneMsg is sent when a move into a folder finished
type fileOpDoneMsg struct {
	err error
}

// openedMsg is sent after handing a file to the system
type openedMsg struct {
	err error
}

// ticketQueue collects scheduled tickets until Update turns them into
// timer commands
type ticketQueue struct {
	tickets []deferred.Ticket
}

// Schedule implements deferred.Scheduler
func (q *ticketQueue) Schedule(t deferred.Ticket) {
	q.tickets = append(q.tickets, t)
}

func (q *ticketQueue) commands() []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(q.tickets))
	for _, t := range q.tickets {
		cmds = append(cmds, tea.Tick(t.Delay, func(time.Time) tea.Msg {
			return ticketMsg{ticket: t}
		}))
	}
	q.tickets = nil
	return cmds
}

// eventQueue buffers controller events until the end of Update
type eventQueue struct {
	events []core.Event
}

func (q *eventQueue) push(e core.Event) {
	q.events = append(q.events, e)
}

func (q *eventQueue) drain() []core.Event {
	out := q.events
	q.events = nil
	return out
}

// Options configures the application
type Options struct {
	Config  config.LayoutConfig
	Start   string           // directory shown first
	Session *session.Manager // optional, remembers visited locations
}

// App is the main application model
type App struct {
	// Components
	header    Header
	help      HelpOverlay
	locations LocationSelector
	rename    RenameOverlay
	canvas    *Canvas
	painter   *Painter

	// State
	keys    KeyMap
	ctrl    *core.Controller
	lister  scanner.Lister
	watcher *watcher.Watcher
	session *session.Manager
	tickets *ticketQueue
	events  *eventQueue
	start   string

	// Dimensions
	width  int
	height int
}

// NewApp creates a new application instance
func NewApp(opts Options) (App, error) {
	cfg := opts.Config

	var wopts []scanner.Option
	if cfg.DetectMime {
		wopts = append(wopts, scanner.WithMime())
	}
	lister := scanner.NewWalker(4, wopts...)

	dir := cfg.PositionsDir
	if dir == "" {
		dir = positions.DefaultDir()
	}

	tickets := &ticketQueue{}
	events := &eventQueue{}
	ctrl, err := core.NewController(core.Options{
		Config:    cfg,
		Scheduler: tickets,
		Store:     positions.New(dir),
		Lister:    lister,
		CellSize:  TileSize,
	})
	if err != nil {
		return App{}, err
	}
	ctrl.Subscribe(events.push)

	w, err := watcher.New()
	if err != nil {
		logging.Debug.Printf("Failed to create watcher: %v", err)
		w = nil
	} else {
		w.Start()
	}

	keys := DefaultKeyMap()
	canvas := NewCanvas(0, 0)
	start := opts.Start
	if start == "" && opts.Session != nil {
		start = opts.Session.LastLocation()
	}
	if start == "" {
		start = "."
	}

	app := App{
		header:    NewHeader(),
		help:      NewHelpOverlay(keys),
		locations: NewLocationSelector(places(opts.Session)),
		rename:    NewRenameOverlay(),
		canvas:    canvas,
		painter:   NewPainter(ctrl, canvas),
		keys:      keys,
		ctrl:      ctrl,
		lister:    lister,
		watcher:   w,
		session:   opts.Session,
		tickets:   tickets,
		events:    events,
		start:     start,
	}
	app.syncHeader()
	return app, nil
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	start := a.start
	return tea.Batch(
		tea.SetWindowTitle("FOLDERGRID"),
		a.listenForWatcherEvents(),
		func() tea.Msg { return openMsg{path: start} },
	)
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()

	case tea.KeyMsg:
		cmd = a.handleKey(msg)

	case tea.MouseMsg:
		a.handleMouse(msg)

	case tea.BlurMsg:
		a.ctrl.FocusLost()

	case openMsg:
		cmd = a.openLocation(msg.path)

	case batchMsg:
		if msg.ok {
			a.ctrl.ApplyBatch(msg.gen, msg.batch)
			if !msg.batch.Done && !msg.batch.Canceled {
				cmd = waitForBatch(msg.ch, msg.gen)
			}
		}

	case ticketMsg:
		a.ctrl.Fire(msg.ticket)

	case watcherEventMsg:
		a.ctrl.ApplyWatch(msg.event)
		cmd = a.listenForWatcherEvents()

	case refreshMsg:
		if msg.err != nil {
			a.header.SetStatus(msg.err.Error())
		}
		if msg.location == a.ctrl.Location() && msg.entries != nil {
			a.ctrl.Refresh(msg.entries)
		}

	case renamedMsg:
		if msg.err != nil {
			a.header.SetStatus(msg.err.Error())
			break
		}
		a.ctrl.TransferPosition(msg.from, msg.to)
		cmd = a.refresh()

	case fileOpDoneMsg:
		if msg.err != nil {
			a.header.SetStatus(msg.err.Error())
		}
		cmd = a.refresh()

	case openedMsg:
		if msg.err != nil {
			a.header.SetStatus(msg.err.Error())
		}

	default:
		// Cursor blink and other text input messages
		if a.rename.IsActive() {
			a.rename, cmd = a.rename.Update(msg)
		}
	}

	return a, a.flush(cmd)
}

// handleKey handles keyboard input
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Inline editing takes precedence
	if a.rename.IsActive() {
		switch msg.Type {
		case tea.KeyEnter:
			a.ctrl.CommitEdit(a.rename.Value())
			return nil
		case tea.KeyEsc:
			a.ctrl.CancelEdit()
			return nil
		}
		var cmd tea.Cmd
		a.rename, cmd = a.rename.Update(msg)
		return cmd
	}

	if a.help.IsVisible() {
		if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Back) {
			a.help.SetVisible(false)
		}
		return nil
	}

	if a.locations.IsVisible() {
		switch {
		case key.Matches(msg, a.keys.Back):
			a.locations.SetVisible(false)
		case key.Matches(msg, a.keys.Up):
			a.locations.MoveUp()
		case key.Matches(msg, a.keys.Down):
			a.locations.MoveDown()
		case key.Matches(msg, a.keys.Enter):
			a.locations.SetVisible(false)
			if p := a.locations.Selected(); p != nil {
				return a.openLocation(p.Path)
			}
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.shutdown()
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()

	case key.Matches(msg, a.keys.Locations):
		a.locations.SetPlaces(places(a.session))
		a.locations.SetVisible(true)

	case key.Matches(msg, a.keys.Up):
		a.ctrl.MoveFocus(0, -1, false)
	case key.Matches(msg, a.keys.Down):
		a.ctrl.MoveFocus(0, 1, false)
	case key.Matches(msg, a.keys.Left):
		a.ctrl.MoveFocus(-1, 0, false)
	case key.Matches(msg, a.keys.Right):
		a.ctrl.MoveFocus(1, 0, false)
	case key.Matches(msg, a.keys.ExtendUp):
		a.ctrl.MoveFocus(0, -1, true)
	case key.Matches(msg, a.keys.ExtendDown):
		a.ctrl.MoveFocus(0, 1, true)
	case key.Matches(msg, a.keys.ExtendLeft):
		a.ctrl.MoveFocus(-1, 0, true)
	case key.Matches(msg, a.keys.ExtendRight):
		a.ctrl.MoveFocus(1, 0, true)

	case key.Matches(msg, a.keys.PageUp):
		a.ctrl.PageUp()
	case key.Matches(msg, a.keys.PageDown):
		a.ctrl.PageDown()
	case key.Matches(msg, a.keys.Top):
		a.ctrl.ScrollTo(0)
	case key.Matches(msg, a.keys.Bottom):
		a.ctrl.ScrollTo(a.ctrl.State().Scroll.Range)

	case key.Matches(msg, a.keys.Enter):
		a.ctrl.ActivateFocused()

	case key.Matches(msg, a.keys.Back):
		switch a.ctrl.State().Interaction.Mode {
		case interaction.Dragging, interaction.RubberBand, interaction.Pressed:
			a.ctrl.Escape()
		default:
			a.ctrl.ClearSelection()
		}

	case key.Matches(msg, a.keys.Parent):
		loc := a.ctrl.Location()
		if parent := filepath.Dir(loc); parent != loc {
			return a.openLocation(parent)
		}

	case key.Matches(msg, a.keys.Rename):
		a.ctrl.BeginEdit()

	case key.Matches(msg, a.keys.SelectAll):
		a.ctrl.SelectAll()

	case key.Matches(msg, a.keys.Lock):
		a.updateConfig(func(c *config.LayoutConfig) { c.Locked = !c.Locked })

	case key.Matches(msg, a.keys.Align):
		a.ctrl.AlignToGrid()

	case key.Matches(msg, a.keys.CycleSort):
		a.updateConfig(func(c *config.LayoutConfig) { c.SortKey = nextSortKey(c.SortKey) })

	case key.Matches(msg, a.keys.Reverse):
		a.updateConfig(func(c *config.LayoutConfig) { c.SortDescending = !c.SortDescending })

	case key.Matches(msg, a.keys.DirsFirst):
		a.updateConfig(func(c *config.LayoutConfig) { c.DirectoriesFirst = !c.DirectoriesFirst })

	case key.Matches(msg, a.keys.Hidden):
		a.updateConfig(func(c *config.LayoutConfig) { c.ShowHidden = !c.ShowHidden })

	case key.Matches(msg, a.keys.Flow):
		a.updateConfig(func(c *config.LayoutConfig) {
			if c.LayoutFlow() == layout.Vertical {
				c.Flow = "horizontal"
			} else {
				c.Flow = "vertical"
			}
		})

	case key.Matches(msg, a.keys.Bigger):
		a.updateConfig(func(c *config.LayoutConfig) {
			c.IconSize = min(config.MaxIconSize, c.IconSize+16)
		})

	case key.Matches(msg, a.keys.Smaller):
		a.updateConfig(func(c *config.LayoutConfig) {
			c.IconSize = max(config.MinIconSize, c.IconSize-16)
		})

	case key.Matches(msg, a.keys.Refresh):
		return a.refresh()
	}

	return nil
}

// handleMouse maps terminal mouse events onto the grid
func (a *App) handleMouse(msg tea.MouseMsg) {
	if a.help.IsVisible() || a.locations.IsVisible() || a.rename.IsActive() {
		return
	}
	p := image.Pt(msg.X, msg.Y-headerHeight)

	var mods interaction.Modifiers
	if msg.Ctrl {
		mods |= interaction.ModCtrl
	}
	if msg.Shift {
		mods |= interaction.ModShift
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.ctrl.ScrollBy(-a.wheelStep())
		case tea.MouseButtonWheelDown:
			a.ctrl.ScrollBy(a.wheelStep())
		case tea.MouseButtonLeft:
			a.ctrl.ButtonDown(p, mods, time.Now())
		}
	case tea.MouseActionRelease:
		a.ctrl.ButtonUp(p, time.Now())
	case tea.MouseActionMotion:
		a.ctrl.PointerMove(p)
	}
}

// wheelStep scrolls one row, or one column in vertical flow
func (a *App) wheelStep() int {
	g := a.ctrl.Geometry()
	if g.Flow == layout.Vertical {
		return g.Step().X
	}
	return g.Step().Y
}

// openLocation switches the grid to path and starts listing it
func (a *App) openLocation(path string) tea.Cmd {
	if err := a.ctrl.SetLocation(path); err != nil {
		a.header.SetStatus(err.Error())
		return nil
	}
	loc := a.ctrl.Location()
	a.header.SetLocation(loc)
	a.header.SetStatus("")
	if a.session != nil {
		a.session.Visit(loc)
	}

	if a.watcher != nil {
		if err := a.watcher.Watch(loc); err != nil {
			logging.Debug.Printf("Failed to watch %s: %v", loc, err)
		}
	}

	ch, gen, err := a.ctrl.StartListing(context.Background())
	if err != nil {
		a.header.SetStatus(err.Error())
		return nil
	}
	return waitForBatch(ch, gen)
}

// waitForBatch returns a command that waits for the next listing batch
func waitForBatch(ch <-chan scanner.Batch, gen int) tea.Cmd {
	return func() tea.Msg {
		b, ok := <-ch
		return batchMsg{ch: ch, gen: gen, batch: b, ok: ok}
	}
}

// refresh rescans the current location in the background
func (a *App) refresh() tea.Cmd {
	loc := a.ctrl.Location()
	lister := a.lister
	return func() tea.Msg {
		ch, err := lister.List(context.Background(), loc)
		if err != nil {
			return refreshMsg{location: loc, err: err}
		}
		entries := []model.Entry{}
		for b := range ch {
			entries = append(entries, b.Entries...)
			if b.Err != nil {
				err = b.Err
			}
		}
		return refreshMsg{location: loc, entries: entries, err: err}
	}
}

// listenForWatcherEvents returns a command that waits for the next watcher event
func (a *App) listenForWatcherEvents() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	events := a.watcher.Events()
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil // Channel closed
		}
		return watcherEventMsg{event: event}
	}
}

// flush handles the controller events raised during Update and turns the
// scheduled tickets into timer commands
func (a *App) flush(cmd tea.Cmd) tea.Cmd {
	cmds := []tea.Cmd{cmd}
	for {
		events := a.events.drain()
		if len(events) == 0 {
			break
		}
		for _, ev := range events {
			if c := a.handleEvent(ev); c != nil {
				cmds = append(cmds, c)
			}
		}
	}
	a.syncHeader()
	cmds = append(cmds, a.tickets.commands()...)
	return tea.Batch(cmds...)
}

func (a *App) handleEvent(ev core.Event) tea.Cmd {
	switch e := ev.(type) {
	case core.RepaintEvent:
		a.painter.Paint(e.Region)

	case core.ScrollChangedEvent:
		if e.State.Axis == viewport.AxisX {
			a.canvas.Shift(image.Pt(e.Delta, 0))
		} else {
			a.canvas.Shift(image.Pt(0, e.Delta))
		}

	case core.ListingStateEvent:
		if e.Err != nil {
			a.header.SetStatus(e.Err.Error())
		}
		if !e.Active {
			logging.Scanner.Printf("listing of %s finished with %d entries (canceled=%v)", e.Location, e.Count, e.Canceled)
		}

	case core.AnimationTickEvent:
		a.header.SetFrame(e.Frame)

	case core.ActivatedEvent:
		return a.activate(e.Entry)

	case core.EditingEvent:
		if e.Active {
			return a.rename.Start(e.ID, e.Name)
		}
		a.rename.Stop()

	case core.RenameRequestedEvent:
		return renameEntry(a.ctrl.Location(), e.ID, e.NewName)

	case core.DropCommittedEvent:
		if e.Target != "" {
			return a.dropInto(e.IDs, e.Target)
		}

	case core.ErrorEvent:
		a.header.SetStatus(e.Err.Error())
	}
	return nil
}

// activate opens a folder in place and hands files to the system
func (a *App) activate(e model.Entry) tea.Cmd {
	if e.IsDir {
		return a.openLocation(e.Path)
	}
	path := e.Path
	return func() tea.Msg {
		logging.Debug.Printf("opening %s", path)
		return openedMsg{err: openWithSystem(path)}
	}
}

// dropInto moves the dragged entries into the target folder
func (a *App) dropInto(ids []string, target string) tea.Cmd {
	i := a.ctrl.IndexOf(target)
	if i < 0 {
		return nil
	}
	dest := a.ctrl.Entry(i)
	if !dest.IsDir {
		a.header.SetStatus(fmt.Sprintf("%s is not a folder", dest.Name))
		return nil
	}
	loc := a.ctrl.Location()
	return func() tea.Msg {
		for _, id := range ids {
			if id == dest.ID {
				continue
			}
			if err := os.Rename(filepath.Join(loc, id), filepath.Join(dest.Path, id)); err != nil {
				return fileOpDoneMsg{err: err}
			}
		}
		return fileOpDoneMsg{}
	}
}

// renameEntry renames id within loc to name
func renameEntry(loc, id, name string) tea.Cmd {
	return func() tea.Msg {
		if err := validName(name); err != nil {
			return renamedMsg{from: id, to: name, err: err}
		}
		dst := filepath.Join(loc, name)
		if _, err := os.Lstat(dst); err == nil {
			return renamedMsg{from: id, to: name, err: fmt.Errorf("%s already exists", name)}
		}
		err := os.Rename(filepath.Join(loc, id), dst)
		return renamedMsg{from: id, to: name, err: err}
	}
}

func validName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return errors.New("invalid name")
	case strings.ContainsRune(name, '/'), strings.ContainsRune(name, os.PathSeparator):
		return fmt.Errorf("name %q contains a path separator", name)
	}
	return nil
}

// updateConfig applies a modified copy of the active configuration
func (a *App) updateConfig(fn func(*config.LayoutConfig)) {
	cfg := a.ctrl.Config()
	fn(&cfg)
	if err := a.ctrl.SetConfig(cfg); err != nil {
		a.header.SetStatus(err.Error())
	}
}

var sortKeys = []string{"name", "size", "type", "modified"}

func nextSortKey(cur string) string {
	for i, k := range sortKeys {
		if k == cur {
			return sortKeys[(i+1)%len(sortKeys)]
		}
	}
	return sortKeys[0]
}

func sortLabel(cfg config.LayoutConfig) string {
	label := "by " + cfg.SortKey
	if cfg.SortDescending {
		label += " ↓"
	}
	return label
}

// syncHeader copies the controller state into the header
func (a *App) syncHeader() {
	st := a.ctrl.State()
	a.header.SetCounts(st.Total, st.Visible, st.Selected)
	a.header.SetLocked(st.Locked)
	a.header.SetListing(st.Listing == core.ListingActive)
	a.header.SetSort(sortLabel(a.ctrl.Config()))
}

// shutdown stops the watcher and writes pending positions
func (a *App) shutdown() {
	if a.watcher != nil {
		_ = a.watcher.Stop()
	}
	if err := a.ctrl.Close(); err != nil {
		logging.Debug.Printf("Failed to save positions: %v", err)
	}
	if a.session != nil {
		if err := a.session.Close(); err != nil {
			logging.Debug.Printf("Failed to save session: %v", err)
		}
	}
}

// places lists the quick-access places followed by recent locations
func places(s *session.Manager) []model.Place {
	out := model.Places()
	if s == nil {
		return out
	}
	seen := make(map[string]bool, len(out))
	for _, p := range out {
		seen[p.Path] = true
	}
	for _, path := range s.Recent() {
		if !seen[path] {
			seen[path] = true
			out = append(out, model.Place{Label: "Recent", Path: path})
		}
	}
	return out
}

// updateLayout calculates component sizes based on window dimensions
func (a *App) updateLayout() {
	canvasH := max(1, a.height-headerHeight-helpBarHeight)

	a.header.SetWidth(a.width)
	a.help.SetSize(a.width, a.height)
	a.locations.SetSize(a.width, a.height)
	a.rename.SetSize(a.width, a.height)

	if a.canvas.Bounds().Size() != image.Pt(a.width, canvasH) {
		a.canvas.Resize(a.width, canvasH)
		a.ctrl.SetViewport(image.Pt(a.width, canvasH))
		a.ctrl.FlushRepaint()
	}
}

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	canvasH := max(1, a.height-headerHeight-helpBarHeight)
	var body string
	if a.ctrl.Len() == 0 {
		text := "Empty folder"
		if a.ctrl.Listing() {
			text = "Listing..."
		}
		body = lipgloss.Place(a.width, canvasH, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(ColorMuted).Render(text))
	} else {
		body = a.canvas.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left, a.header.View(), body, HelpBar(a.width, a.keys))

	// Overlays, highest priority first
	for _, overlay := range []string{a.rename.View(), a.help.View(), a.locations.View()} {
		if overlay != "" {
			return lipgloss.Place(
				a.width, a.height,
				lipgloss.Center, lipgloss.Center,
				overlay,
				lipgloss.WithWhitespaceChars(" "),
				lipgloss.WithWhitespaceForeground(ColorBackground),
			)
		}
	}

	return content
}
