package cache

import (
	"testing"
	"time"

	"github.com/lumipallolabs/foldergrid/internal/deferred"
)

func TestGetOrRender(t *testing.T) {
	c := New[string](nil)
	calls := 0
	render := func() string {
		calls++
		return "tile"
	}

	k := Key{ID: "a.txt", Variant: "normal"}
	c.GetOrRender(k, render)
	c.GetOrRender(k, render)

	if calls != 1 {
		t.Errorf("expected one render, got %d", calls)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit 1 miss, got %d %d", hits, misses)
	}
}

func TestInvalidateID(t *testing.T) {
	c := New[int](nil)
	c.Put(Key{"a", "normal"}, 1)
	c.Put(Key{"a", "selected"}, 2)
	c.Put(Key{"b", "normal"}, 3)

	c.InvalidateID("a")
	if c.Len() != 1 {
		t.Errorf("expected only b left, got %d", c.Len())
	}
	if _, ok := c.Get(Key{"b", "normal"}); !ok {
		t.Error("b should survive")
	}
}

func TestTouchRestartsClearTimer(t *testing.T) {
	rec := &deferred.Recorder{}
	task := deferred.NewTask(deferred.CacheClear, time.Minute, rec)
	c := New[int](task)

	c.Put(Key{"a", "n"}, 1)
	c.Get(Key{"a", "n"})
	if len(rec.Tickets) != 0 {
		t.Fatalf("lookups should not schedule, got %d tickets", len(rec.Tickets))
	}
	c.Touch()
	c.Touch()
	tickets := rec.Drain()
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}
	if task.Accept(tickets[0]) {
		t.Error("stale clear ticket accepted")
	}
	if !task.Accept(tickets[1]) {
		t.Error("latest clear ticket rejected")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Error("clear left values behind")
	}
}
