//go:build !darwin

package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsDirectChildren(t *testing.T) {
	dir := t.TempDir()
	os.Mkdir(filepath.Join(dir, "sub"), 0755)

	w, err := New()
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Stop()
	if err := w.Watch(dir); err != nil {
		t.Fatalf("watch: %v", err)
	}
	w.Start()

	target := filepath.Join(dir, "new.txt")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Path == target && ev.Type == EventCreated {
				return
			}
		case <-deadline:
			t.Fatal("no create event for new.txt")
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	if err := w.Stop(); err != nil {
		t.Errorf("first stop: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second stop: %v", err)
	}
}
