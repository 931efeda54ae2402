package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/lumipallolabs/foldergrid/internal/config"
	"github.com/lumipallolabs/foldergrid/internal/core"
	"github.com/lumipallolabs/foldergrid/internal/deferred"
)

func TestTicketQueueTurnsTicketsIntoCommands(t *testing.T) {
	q := &ticketQueue{}
	q.Schedule(deferred.Ticket{Delay: time.Millisecond})
	q.Schedule(deferred.Ticket{Delay: 2 * time.Millisecond})

	cmds := q.commands()
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	if len(q.commands()) != 0 {
		t.Error("commands should empty the queue")
	}
}

func TestEventQueueDrain(t *testing.T) {
	q := &eventQueue{}
	q.push(core.RepaintEvent{})
	q.push(core.AnimationTickEvent{Frame: 1})
	if got := q.drain(); len(got) != 2 {
		t.Errorf("drain returned %d events, want 2", len(got))
	}
	if got := q.drain(); len(got) != 0 {
		t.Errorf("second drain returned %d events, want 0", len(got))
	}
}

func TestNextSortKeyCycles(t *testing.T) {
	key := "name"
	seen := map[string]bool{}
	for i := 0; i < len(sortKeys); i++ {
		key = nextSortKey(key)
		seen[key] = true
	}
	if key != "name" || len(seen) != len(sortKeys) {
		t.Errorf("cycle ended at %q after visiting %v", key, seen)
	}
	if got := nextSortKey("bogus"); got != "name" {
		t.Errorf("nextSortKey(bogus) = %q, want name", got)
	}
	for _, k := range sortKeys {
		cfg := config.Default()
		cfg.SortKey = k
		if err := cfg.Validate(); err != nil {
			t.Errorf("sort key %q is not accepted by the config: %v", k, err)
		}
	}
}

func TestValidName(t *testing.T) {
	for _, bad := range []string{"", ".", "..", "a/b"} {
		if validName(bad) == nil {
			t.Errorf("validName(%q) should fail", bad)
		}
	}
	if err := validName("notes.txt"); err != nil {
		t.Errorf("validName(notes.txt) = %v", err)
	}
}

func TestSortLabel(t *testing.T) {
	cfg := config.Default()
	cfg.SortKey = "size"
	cfg.SortDescending = true
	if got := sortLabel(cfg); got != "by size ↓" {
		t.Errorf("sortLabel = %q", got)
	}
}

func TestPlacesWithoutSession(t *testing.T) {
	for _, p := range places(nil) {
		if p.Label == "Recent" {
			t.Errorf("unexpected recent place %v without a session", p)
		}
	}
}

func TestHelpBarShowsShortBindings(t *testing.T) {
	bar := HelpBar(200, DefaultKeyMap())
	for _, want := range []string{"open", "rename", "quit"} {
		if !strings.Contains(bar, want) {
			t.Errorf("help bar %q lacks %q", bar, want)
		}
	}
}
