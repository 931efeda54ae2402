package core

import (
	"context"
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/foldergrid/internal/config"
	"github.com/lumipallolabs/foldergrid/internal/deferred"
	"github.com/lumipallolabs/foldergrid/internal/interaction"
	"github.com/lumipallolabs/foldergrid/internal/layout"
	"github.com/lumipallolabs/foldergrid/internal/model"
	"github.com/lumipallolabs/foldergrid/internal/positions"
	"github.com/lumipallolabs/foldergrid/internal/scanner"
	"github.com/lumipallolabs/foldergrid/internal/watcher"
)

// fakeLister replays fixed batches for any directory
type fakeLister struct {
	batches []scanner.Batch
}

func (f *fakeLister) List(ctx context.Context, dir string) (<-chan scanner.Batch, error) {
	ch := make(chan scanner.Batch, len(f.batches))
	for _, b := range f.batches {
		ch <- b
	}
	close(ch)
	return ch, nil
}

type harness struct {
	c      *Controller
	rec    *deferred.Recorder
	store  *positions.Store
	loc    string
	events []Event
}

// newHarness builds a controller over a 4 column, 3 row grid of 10 unit
// cells with spacing 1
func newHarness(t *testing.T, storeDir string, cfg config.LayoutConfig, batches ...scanner.Batch) *harness {
	t.Helper()
	h := &harness{rec: &deferred.Recorder{}, store: positions.New(storeDir), loc: "/data/desktop"}
	c, err := NewController(Options{
		Config:    cfg,
		Scheduler: h.rec,
		Store:     h.store,
		Lister:    &fakeLister{batches: batches},
		CellSize:  func(int) image.Point { return image.Pt(10, 10) },
	})
	require.NoError(t, err)
	c.Subscribe(func(e Event) { h.events = append(h.events, e) })
	c.SetViewport(image.Pt(44, 33))
	require.NoError(t, c.SetLocation(h.loc))
	h.c = c
	return h
}

func (h *harness) entries(names ...string) []model.Entry {
	out := make([]model.Entry, len(names))
	for i, n := range names {
		out[i] = model.NewEntry(filepath.Join(h.loc, n), false, 0, time.Time{})
	}
	return out
}

func (h *harness) list(t *testing.T) {
	t.Helper()
	ch, gen, err := h.c.StartListing(context.Background())
	require.NoError(t, err)
	for b := range ch {
		h.c.ApplyBatch(gen, b)
	}
}

// fireAll delivers recorded tickets until none are left
func (h *harness) fireAll() {
	for i := 0; i < 10; i++ {
		tickets := h.rec.Drain()
		if len(tickets) == 0 {
			return
		}
		for _, tk := range tickets {
			h.c.Fire(tk)
		}
	}
}

func (h *harness) cell(t *testing.T, id string) image.Point {
	t.Helper()
	i := h.c.IndexOf(id)
	require.GreaterOrEqual(t, i, 0, "%s missing", id)
	it := h.c.Item(i)
	require.True(t, it.Layouted, "%s not layouted", id)
	return it.Cell
}

func (h *harness) drag(from, to image.Point) {
	at := time.Unix(100, 0)
	h.c.PointerMove(from)
	h.c.ButtonDown(from, 0, at)
	h.c.PointerMove(to)
	h.c.ButtonUp(to, at.Add(200*time.Millisecond))
}

func (h *harness) click(p image.Point, mods interaction.Modifiers, at time.Time) {
	h.c.ButtonDown(p, mods, at)
	h.c.ButtonUp(p, at.Add(10*time.Millisecond))
}

func eventsOf[T Event](events []Event) []T {
	var out []T
	for _, e := range events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func batch(entries []model.Entry, done bool) scanner.Batch {
	return scanner.Batch{Entries: entries, Done: done}
}

func TestListingLaysOutOnCompletion(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{
		batch(h.entries("a", "b", "c"), false),
		batch(h.entries("d", "e", "f"), true),
	}}
	h.list(t)

	assert.Equal(t, 6, h.c.Len())
	assert.Equal(t, image.Pt(2, 0), h.cell(t, "c"))
	assert.Equal(t, image.Pt(0, 1), h.cell(t, "e"))
	assert.Equal(t, ListingDone, h.c.State().Listing)

	states := eventsOf[ListingStateEvent](h.events)
	require.Len(t, states, 2)
	assert.True(t, states[0].Active)
	assert.False(t, states[1].Active)
	assert.Equal(t, 6, states[1].Count)
}

func TestCanceledListingKeepsDeliveredItems(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{
		batch(h.entries("a", "b", "c"), false),
		{Canceled: true},
	}}
	h.list(t)

	assert.Equal(t, 3, h.c.Len())
	assert.Equal(t, ListingCanceled, h.c.State().Listing)
	for _, id := range []string{"a", "b", "c"} {
		h.cell(t, id)
	}
	states := eventsOf[ListingStateEvent](h.events)
	assert.True(t, states[len(states)-1].Canceled)
}

func TestStaleBatchIgnored(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a"), true)}}
	_, gen, err := h.c.StartListing(context.Background())
	require.NoError(t, err)

	require.NoError(t, h.c.SetLocation("/data/other"))
	h.c.ApplyBatch(gen, batch(h.entries("a"), true))
	assert.Equal(t, 0, h.c.Len())
}

func TestDropPersistsPosition(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t, dir, config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b", "c", "d"), true)}}
	h.list(t)
	h.fireAll()

	// a sits at (0,0); one step is 11 units
	h.drag(image.Pt(5, 5), image.Pt(38, 16))

	drops := eventsOf[DropCommittedEvent](h.events)
	require.Len(t, drops, 1)
	assert.Equal(t, []string{"a"}, drops[0].IDs)
	assert.Empty(t, drops[0].Target)
	assert.Equal(t, image.Pt(3, 1), h.cell(t, "a"))

	_, ok := h.rec.Last(deferred.Save)
	require.True(t, ok, "drop should schedule a save")
	h.fireAll()
	assert.False(t, h.store.Dirty())

	// A fresh controller over the same store restores the position
	again := newHarness(t, dir, config.Default())
	again.c.lister = &fakeLister{batches: []scanner.Batch{batch(again.entries("a", "b", "c", "d"), true)}}
	again.list(t)
	assert.Equal(t, image.Pt(3, 1), again.cell(t, "a"))
	assert.Equal(t, image.Pt(1, 0), again.cell(t, "b"))
}

func TestDraggedLayoutSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a", "b", "c", "d", "e"}
	h := newHarness(t, dir, config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries(names...), true)}}
	h.list(t)
	h.fireAll()

	h.drag(image.Pt(1, 1), image.Pt(34, 23))
	before := map[string]image.Rectangle{}
	for _, n := range names {
		before[n] = h.c.Item(h.c.IndexOf(n)).Rect
	}
	require.Equal(t, image.Rect(33, 22, 43, 32), before["a"])
	require.NoError(t, h.c.Close())

	again := newHarness(t, dir, config.Default())
	again.c.lister = &fakeLister{batches: []scanner.Batch{batch(again.entries(names...), true)}}
	again.list(t)
	for _, n := range names {
		assert.Equal(t, before[n], again.c.Item(again.c.IndexOf(n)).Rect, "rectangle of %s", n)
	}
}

func TestRemovingEditedEntryEndsEditOnIt(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b"), true)}}
	h.list(t)

	h.c.MoveFocus(1, 0, false)
	h.c.BeginEdit()
	h.c.ApplyWatch(watcher.Event{Type: watcher.EventDeleted, Path: filepath.Join(h.loc, "a")})

	edits := eventsOf[EditingEvent](h.events)
	require.Len(t, edits, 2)
	assert.Equal(t, EditingEvent{ID: "a"}, edits[1])
	assert.Equal(t, interaction.Idle, h.c.State().Interaction.Mode)
}

func TestRenameKeepsPosition(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b", "c", "d"), true)}}
	h.list(t)
	h.fireAll()
	h.drag(image.Pt(5, 5), image.Pt(38, 16))
	h.fireAll()

	h.c.TransferPosition("a", "z")
	_, ok := h.store.Lookup("a")
	assert.False(t, ok)

	h.c.Refresh(h.entries("z", "b", "c", "d"))
	h.fireAll()
	assert.Equal(t, -1, h.c.IndexOf("a"))
	assert.Equal(t, image.Pt(3, 1), h.cell(t, "z"))
}

func TestLockedLayoutRefusesMove(t *testing.T) {
	cfg := config.Default()
	cfg.Locked = true
	h := newHarness(t, t.TempDir(), cfg)
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b"), true)}}
	h.list(t)

	h.drag(image.Pt(5, 5), image.Pt(38, 16))

	assert.Empty(t, eventsOf[DropCommittedEvent](h.events))
	assert.Equal(t, image.Pt(0, 0), h.cell(t, "a"))
	assert.Equal(t, 0, h.store.Len())
}

func TestDropOntoUnselectedItemDelegates(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b", "c"), true)}}
	h.list(t)

	h.drag(image.Pt(5, 5), image.Pt(27, 5))

	drops := eventsOf[DropCommittedEvent](h.events)
	require.Len(t, drops, 1)
	assert.Equal(t, "c", drops[0].Target)
	assert.Equal(t, image.Pt(0, 0), h.cell(t, "a"))
	assert.Equal(t, 0, h.store.Len())
}

func TestAlignToGridClearsPositions(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.store.RecordManualPosition("a", layout.Position{Cell: image.Pt(3, 2)})
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b"), true)}}
	h.list(t)
	require.Equal(t, image.Pt(3, 2), h.cell(t, "a"))

	h.c.AlignToGrid()

	assert.Equal(t, image.Pt(0, 0), h.cell(t, "a"))
	assert.Equal(t, image.Pt(1, 0), h.cell(t, "b"))
	_, ok := h.store.Lookup("a")
	assert.False(t, ok)
	_, ok = h.rec.Last(deferred.Save)
	assert.True(t, ok)
}

func TestRepaintCoalescesIntoOneEvent(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b", "c"), true)}}
	h.list(t)
	h.fireAll()
	h.events = nil

	at := time.Unix(200, 0)
	h.click(image.Pt(5, 5), 0, at)
	h.click(image.Pt(16, 5), 0, at.Add(time.Second))

	repaints := 0
	for _, tk := range h.rec.Tickets {
		if tk.Kind == deferred.Repaint {
			repaints++
		}
	}
	assert.Equal(t, 1, repaints)

	h.fireAll()
	assert.Len(t, eventsOf[RepaintEvent](h.events), 1)
	assert.Equal(t, []string{"b"}, h.c.SelectedIDs())
}

func TestShiftClickSelectsRange(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b", "c", "d"), true)}}
	h.list(t)

	at := time.Unix(300, 0)
	h.click(image.Pt(5, 5), 0, at)
	h.click(image.Pt(27, 5), interaction.ModShift, at.Add(time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, h.c.SelectedIDs())

	h.click(image.Pt(38, 5), interaction.ModCtrl, at.Add(2*time.Second))
	assert.Equal(t, []string{"a", "b", "c", "d"}, h.c.SelectedIDs())
}

func TestDoubleClickActivates(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b"), true)}}
	h.list(t)

	at := time.Unix(400, 0)
	h.click(image.Pt(16, 5), 0, at)
	h.click(image.Pt(16, 5), 0, at.Add(100*time.Millisecond))

	acts := eventsOf[ActivatedEvent](h.events)
	require.Len(t, acts, 1)
	assert.Equal(t, "b", acts[0].Entry.ID)
}

func TestRubberBandAndEscape(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b", "c", "d", "e"), true)}}
	h.list(t)

	at := time.Unix(500, 0)
	h.c.ButtonDown(image.Pt(43, 32), 0, at)
	h.c.PointerMove(image.Pt(15, 2))
	assert.Equal(t, []string{"b", "c", "d"}, h.c.SelectedIDs())

	h.c.Escape()
	assert.Empty(t, h.c.SelectedIDs())
	assert.Equal(t, image.Rectangle{}, h.c.State().Band)
}

func TestRemovalCompactsAndDropsSelection(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b", "c"), true)}}
	h.list(t)
	h.click(image.Pt(16, 5), 0, time.Unix(600, 0))
	require.Equal(t, []string{"b"}, h.c.SelectedIDs())

	h.c.ApplyWatch(watcher.Event{Type: watcher.EventDeleted, Path: filepath.Join(h.loc, "b")})

	assert.Equal(t, 2, h.c.Len())
	assert.Empty(t, h.c.SelectedIDs())
	assert.Equal(t, image.Pt(1, 0), h.cell(t, "c"))
}

func TestFilterChangeRelayouts(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a.txt", "b.png", "c.txt"), true)}}
	h.list(t)

	cfg := h.c.Config()
	cfg.FilterMode = "pattern"
	cfg.FilterPattern = "*.txt"
	require.NoError(t, h.c.SetConfig(cfg))
	h.fireAll()

	assert.Equal(t, 2, h.c.Len())
	assert.Equal(t, -1, h.c.IndexOf("b.png"))
	assert.Equal(t, image.Pt(0, 0), h.cell(t, "a.txt"))
	assert.Equal(t, image.Pt(1, 0), h.cell(t, "c.txt"))
}

func TestRefreshAppliesDiff(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b"), true)}}
	h.list(t)

	h.c.Refresh(h.entries("b", "z"))

	assert.Equal(t, 2, h.c.Len())
	assert.Equal(t, -1, h.c.IndexOf("a"))
	h.cell(t, "z")
}

func TestScrollEmitsDelta(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	names := make([]string, 20)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries(names...), true)}}
	h.list(t)
	h.events = nil

	h.c.ScrollBy(11)

	scrolls := eventsOf[ScrollChangedEvent](h.events)
	require.Len(t, scrolls, 1)
	assert.Equal(t, 11, scrolls[0].Delta)
	assert.Equal(t, 11, h.c.State().Scroll.Offset)
}

func TestKeyboardFocusMoves(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b", "c", "d", "e"), true)}}
	h.list(t)

	h.c.MoveFocus(1, 0, false)
	assert.Equal(t, 0, h.c.Focus())
	h.c.MoveFocus(1, 0, false)
	assert.Equal(t, 1, h.c.Focus())
	h.c.MoveFocus(0, 1, true)
	assert.Equal(t, h.c.IndexOf("e"), h.c.Focus())
	assert.Equal(t, []string{"b", "c", "d", "e"}, h.c.SelectedIDs())
}

func TestEditCommitRequestsRename(t *testing.T) {
	h := newHarness(t, t.TempDir(), config.Default())
	h.c.lister = &fakeLister{batches: []scanner.Batch{batch(h.entries("a", "b"), true)}}
	h.list(t)

	h.c.MoveFocus(1, 0, false)
	h.c.BeginEdit()
	h.c.CommitEdit("renamed")

	renames := eventsOf[RenameRequestedEvent](h.events)
	require.Len(t, renames, 1)
	assert.Equal(t, RenameRequestedEvent{ID: "a", NewName: "renamed"}, renames[0])
	edits := eventsOf[EditingEvent](h.events)
	require.Len(t, edits, 2)
	assert.True(t, edits[0].Active)
	assert.False(t, edits[1].Active)
}
