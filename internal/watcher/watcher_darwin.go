//go:build darwin

package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsevents"
)

// Watcher watches one directory using macOS FSEvents
type Watcher struct {
	stream  *fsevents.EventStream
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
	return &Watcher{
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
	dev, err := fsevents.DeviceForPath(dir)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	old := w.stream
	w.dir = dir
	w.stream = &fsevents.EventStream{
		Paths:   []string{dir},
		Latency: 200 * time.Millisecond,
		Device:  dev,
		Flags:   fsevents.FileEvents | fsevents.WatchRoot,
	}
	if w.started {
		if old != nil {
			old.Stop()
		}
		w.startStream()
	}
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
	if w.stream != nil {
		w.startStream()
	}
}

func (w *Watcher) startStream() {
	s := w.stream
	s.Start()
	w.wg.Add(1)
	go w.run(s)
}

func (w *Watcher) run(s *fsevents.EventStream) {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case events, ok := <-s.Events:
			if !ok {
				return
			}
			for _, event := range events {
				w.handleEvent(event)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsevents.Event) {
	path := event.Path
	if len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}

	w.mu.Lock()
	dir := w.dir
	w.mu.Unlock()
	if filepath.Dir(path) != dir {
		return
	}

	var t EventType
	switch {
	case event.Flags&fsevents.ItemRemoved != 0:
		t = EventDeleted
	case event.Flags&fsevents.ItemRenamed != 0:
		// Move to Trash is a rename; tell both ends apart by existence
		t = EventDeleted
		if _, err := os.Lstat(path); err == nil {
			t = EventCreated
		}
	case event.Flags&fsevents.ItemCreated != 0:
		t = EventCreated
	case event.Flags&(fsevents.ItemModified|fsevents.ItemInodeMetaMod) != 0:
		t = EventModified
	default:
		return
	}

	select {
	case w.eventCh <- Event{Type: t, Path: path}:
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
	stream := w.stream
	started := w.started
	w.mu.Unlock()

	close(w.done)
	if stream != nil && started {
		stream.Stop()
	}
	w.wg.Wait()
	close(w.eventCh)
	return nil
}
