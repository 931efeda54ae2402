package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"

	"github.com/lumipallolabs/foldergrid/internal/logging"
	"github.com/lumipallolabs/foldergrid/internal/model"
)

const defaultBatchSize = 64

// Walker lists directories with fastwalk, one level deep
type Walker struct {
	workers    int
	batchSize  int
	detectMime bool
}

// Option configures a Walker
type Option func(*Walker)

// WithMime enables content based mime detection for files
func WithMime() Option {
	return func(w *Walker) { w.detectMime = true }
}

// WithBatchSize sets how many entries are grouped per batch
func WithBatchSize(n int) Option {
	return func(w *Walker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// NewWalker creates a new walker
func NewWalker(workers int, opts ...Option) *Walker {
	if workers < 1 {
		workers = 4
	}
	w := &Walker{workers: workers, batchSize: defaultBatchSize}
	for _, o := range opts {
		o(w)
	}
	return w
}

// List implements Lister
func (w *Walker) List(ctx context.Context, dir string) (<-chan Batch, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("list %s: not a directory", dir)
	}

	out := make(chan Batch, 4)
	go w.run(ctx, absDir, out)
	return out, nil
}

func (w *Walker) run(ctx context.Context, root string, out chan<- Batch) {
	defer close(out)
	logging.Scanner.Printf("listing %s", root)

	var (
		mu      sync.Mutex
		pending []model.Entry
		total   int
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		select {
		case out <- Batch{Entries: pending}:
		case <-ctx.Done():
		}
		pending = nil
	}

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: w.workers,
	}
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || path == root {
			return nil
		}

		e, ok := w.entry(path, d)

		mu.Lock()
		if ok {
			pending = append(pending, e)
			total++
			if len(pending) >= w.batchSize {
				flush()
			}
		}
		mu.Unlock()

		// Only the first level is listed
		if d.IsDir() {
			return fs.SkipDir
		}
		return nil
	})

	mu.Lock()
	defer mu.Unlock()
	if ctx.Err() != nil {
		// Entries already delivered stay valid; hand over the rest too
		out <- Batch{Entries: pending, Canceled: true}
		logging.Scanner.Printf("listing %s canceled after %d entries", root, total)
		return
	}
	if walkErr != nil && !errors.Is(walkErr, fs.SkipDir) {
		logging.Scanner.Printf("listing %s failed: %v", root, walkErr)
		out <- Batch{Entries: pending, Done: true, Err: walkErr}
		return
	}
	out <- Batch{Entries: pending, Done: true}
	logging.Scanner.Printf("listing %s done: %d entries", root, total)
}

func (w *Walker) entry(path string, d fs.DirEntry) (model.Entry, bool) {
	info, err := d.Info()
	if err != nil {
		return model.Entry{}, false
	}
	isDir := d.IsDir()
	if d.Type()&fs.ModeSymlink != 0 {
		// Follow the link for the kind only
		if target, err := os.Stat(path); err == nil {
			isDir = target.IsDir()
		}
	}
	var size int64
	if !isDir {
		size = info.Size()
	}
	e := model.NewEntry(path, isDir, size, info.ModTime())
	model.MarkHidden(&e)
	if w.detectMime && !isDir {
		if m, err := mimetype.DetectFile(path); err == nil {
			e.MimeType = m.String()
		}
	}
	return e, true
}

// Ensure Walker implements Lister
var _ Lister = (*Walker)(nil)
