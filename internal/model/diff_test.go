package model

import (
	"testing"
	"time"
)

func TestDiff(t *testing.T) {
	l := NewListing("/loc")
	l.Append(entries("a", "b", "c")...)

	scanned := []Entry{
		NewEntry("/loc/c", false, 2, time.Time{}),
		NewEntry("/loc/a", false, 7, time.Time{}),
		NewEntry("/loc/new", false, 0, time.Time{}),
	}
	c := Diff(l, scanned)

	if len(c.Removed) != 1 || c.Removed[0] != "b" {
		t.Errorf("expected b removed, got %v", c.Removed)
	}
	if len(c.Changed) != 1 || c.Changed[0].ID != "a" {
		t.Errorf("expected a changed, got %v", c.Changed)
	}
	if len(c.Added) != 1 || c.Added[0].ID != "new" {
		t.Errorf("expected new added, got %v", c.Added)
	}
}

func TestDiffIdentical(t *testing.T) {
	l := NewListing("/loc")
	l.Append(entries("a", "b")...)
	if c := Diff(l, entries("a", "b")); !c.Empty() {
		t.Errorf("expected no changes, got %+v", c)
	}
}

func TestApplyChanges(t *testing.T) {
	l := NewListing("/loc")
	l.Append(entries("a", "b", "c")...)

	c := Changes{
		Removed: []string{"a"},
		Changed: []Entry{NewEntry("/loc/c", false, 50, time.Time{})},
		Added:   []Entry{NewEntry("/loc/d", false, 0, time.Time{})},
	}
	notes := ApplyChanges(l, c)

	kinds := []NotificationKind{NotifyRemoved, NotifyDataChanged, NotifyInserted}
	if len(notes) != len(kinds) {
		t.Fatalf("expected %d notifications, got %+v", len(kinds), notes)
	}
	for i, k := range kinds {
		if notes[i].Kind != k {
			t.Errorf("notification %d: expected %v, got %v", i, k, notes[i].Kind)
		}
	}
	if got := ids(l); !equal(got, []string{"b", "c", "d"}) {
		t.Errorf("unexpected entries %v", got)
	}
	if l.At(1).Size != 50 {
		t.Error("changed entry not applied")
	}
}
