package core

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/lumipallolabs/foldergrid/internal/logging"
	"github.com/lumipallolabs/foldergrid/internal/model"
	"github.com/lumipallolabs/foldergrid/internal/scanner"
	"github.com/lumipallolabs/foldergrid/internal/watcher"
)

// SetLocation switches to dir: pending positions of the previous location
// are written, the new location's positions are loaded and the view is
// reset. The caller starts the listing with StartListing.
func (c *Controller) SetLocation(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	c.CancelListing()
	c.listGen++
	c.recordLayout()
	if c.saveTask.Pending() || c.store.Dirty() {
		c.saveTask.Stop()
		c.savePositions()
	}
	if err := c.store.Load(abs); err != nil {
		// An unreadable file leaves an empty store; the grid still works
		logging.Debug.Printf("loading positions for %s: %v", abs, err)
		c.emit(ErrorEvent{Err: err})
	}
	c.listingState = ListingIdle
	c.Apply(c.listing.Reset(abs))
	if c.view.ScrollTo(0) {
		c.emit(ScrollChangedEvent{State: c.view.State()})
	}
	c.dirty.MarkEverythingDirty()
	return nil
}

// StartListing starts listing the current location. Batches must be handed
// back through ApplyBatch together with the returned generation.
func (c *Controller) StartListing(ctx context.Context) (<-chan scanner.Batch, int, error) {
	c.CancelListing()
	ctx, cancel := context.WithCancel(ctx)
	ch, err := c.lister.List(ctx, c.listing.Location())
	if err != nil {
		cancel()
		c.emit(ListingStateEvent{Location: c.listing.Location(), Err: err})
		return nil, c.listGen, err
	}
	c.cancelList = cancel
	c.listingState = ListingActive
	c.frame = 0
	c.animTask.Start()
	c.emit(ListingStateEvent{Location: c.listing.Location(), Active: true})
	return ch, c.listGen, nil
}

// ApplyBatch appends a listing batch. Batches of an older generation are
// dropped.
func (c *Controller) ApplyBatch(gen int, b scanner.Batch) {
	if gen != c.listGen {
		return
	}
	for _, n := range c.listing.Append(b.Entries...) {
		c.Apply(n)
	}
	switch {
	case b.Canceled:
		c.finishListing(true, b.Err)
	case b.Done:
		c.finishListing(false, b.Err)
	}
}

// CancelListing aborts the running listing. Entries already delivered stay.
func (c *Controller) CancelListing() {
	if c.cancelList != nil {
		c.cancelList()
		c.cancelList = nil
	}
}

// Listing reports whether a listing is running
func (c *Controller) Listing() bool {
	return c.listingState == ListingActive
}

// ApplyWatch applies one filesystem change of the current location
func (c *Controller) ApplyWatch(ev watcher.Event) {
	if filepath.Dir(ev.Path) != c.listing.Location() {
		return
	}
	id := filepath.Base(ev.Path)
	if ev.Type == watcher.EventDeleted {
		c.removeEntry(id)
		return
	}

	info, err := os.Lstat(ev.Path)
	if err != nil {
		c.removeEntry(id)
		return
	}
	e := model.NewEntry(ev.Path, info.IsDir(), info.Size(), info.ModTime())
	model.MarkHidden(&e)
	if c.cfg.DetectMime && !e.IsDir {
		if mt, err := mimetype.DetectFile(ev.Path); err == nil {
			e.MimeType = mt.String()
		}
	}

	if n, ok := c.listing.Update(e); ok {
		c.Apply(n)
		return
	}
	for _, n := range c.listing.Append(e) {
		c.Apply(n)
	}
}

// Refresh reconciles the listing with a fresh scan of the location
func (c *Controller) Refresh(entries []model.Entry) {
	changes := model.Diff(c.listing, entries)
	if changes.Empty() {
		return
	}
	logging.Scanner.Printf("refresh: +%d -%d ~%d", len(changes.Added), len(changes.Removed), len(changes.Changed))
	for _, n := range model.ApplyChanges(c.listing, changes) {
		c.Apply(n)
	}
}

func (c *Controller) removeEntry(id string) {
	for _, n := range c.listing.Remove(id) {
		c.Apply(n)
	}
}
