//go:build !darwin

package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/lumipallolabs/foldergrid/internal/logging"
)

// Watcher watches one directory using fsnotify
type Watcher struct {
	fs      *fsnotify.Watcher
	dir     string
	eventCh chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	closed  bool
}

// New creates a new filesystem watcher
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fs:      fw,
		eventCh: make(chan Event, 100),
		done:    make(chan struct{}),
	}, nil
}

// Events returns the channel for receiving filesystem events
func (w *Watcher) Events() <-chan Event {
	return w.eventCh
}

// Watch replaces the watched directory with dir
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	if w.dir != "" {
		_ = w.fs.Remove(w.dir)
	}
	w.dir = ""
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.dir = dir
	return nil
}

// Start begins delivering events
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return
	}
	w.started = true
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.Debug.Printf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	w.mu.Lock()
	dir := w.dir
	w.mu.Unlock()
	if filepath.Dir(ev.Name) != dir {
		return
	}

	var t EventType
	switch {
	case ev.Has(fsnotify.Create):
		t = EventCreated
	case ev.Has(fsnotify.Remove):
		t = EventDeleted
	case ev.Has(fsnotify.Rename):
		// The old name of a rename; the new name arrives as Create
		t = EventDeleted
		if _, err := os.Lstat(ev.Name); err == nil {
			t = EventCreated
		}
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Chmod):
		t = EventModified
	default:
		return
	}

	select {
	case w.eventCh <- Event{Type: t, Path: ev.Name}:
	case <-w.done:
	}
}

// Stop stops the watcher and closes the event channel
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	close(w.eventCh)
	return err
}
