// Package deferred provides cancellable, coalescing one-shot tasks.
//
// A Task never owns a timer. Starting it asks a Scheduler to deliver a
// Ticket after a delay; when the ticket comes back the owner calls Accept,
// which reports whether the ticket is still the live one. Restarting a task
// bumps its version so every earlier ticket is ignored on arrival.
package deferred

import (
	"fmt"
	"time"
)

// Kind identifies which deferred job a ticket belongs to
type Kind int

const (
	Save Kind = iota
	CacheClear
	Layout
	Animation
	Repaint
)

func (k Kind) String() string {
	switch k {
	case Save:
		return "save"
	case CacheClear:
		return "cacheClear"
	case Layout:
		return "layout"
	case Animation:
		return "animation"
	case Repaint:
		return "repaint"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Ticket is a pending fire request
type Ticket struct {
	Kind    Kind
	Version uint64
	Delay   time.Duration
}

// Scheduler delivers a ticket back to its owner once Delay has elapsed
type Scheduler interface {
	Schedule(Ticket)
}

// SchedulerFunc adapts a function to Scheduler
type SchedulerFunc func(Ticket)

// Schedule implements Scheduler
func (f SchedulerFunc) Schedule(t Ticket) { f(t) }

// Task is one coalescing timer
type Task struct {
	kind    Kind
	delay   time.Duration
	sched   Scheduler
	version uint64
	pending bool
}

// NewTask creates a stopped task
func NewTask(kind Kind, delay time.Duration, sched Scheduler) *Task {
	return &Task{kind: kind, delay: delay, sched: sched}
}

// Kind returns the task kind
func (t *Task) Kind() Kind { return t.kind }

// Delay returns the configured delay
func (t *Task) Delay() time.Duration { return t.delay }

// SetDelay changes the delay used by later starts
func (t *Task) SetDelay(d time.Duration) { t.delay = d }

// Start schedules the task, cancelling any pending fire
func (t *Task) Start() {
	t.version++
	t.pending = true
	if t.sched != nil {
		t.sched.Schedule(Ticket{Kind: t.kind, Version: t.version, Delay: t.delay})
	}
}

// StartIfIdle starts the task only when nothing is pending
func (t *Task) StartIfIdle() {
	if !t.pending {
		t.Start()
	}
}

// Stop cancels a pending fire
func (t *Task) Stop() {
	if t.pending {
		t.version++
		t.pending = false
	}
}

// Pending reports whether a fire is outstanding
func (t *Task) Pending() bool { return t.pending }

// Accept consumes a delivered ticket. It returns true only for the ticket
// produced by the latest Start that has not been stopped.
func (t *Task) Accept(tk Ticket) bool {
	if tk.Kind != t.kind || !t.pending || tk.Version != t.version {
		return false
	}
	t.pending = false
	return true
}

// Recorder is a Scheduler that keeps tickets in memory. The UI uses it to
// turn scheduled tickets into timer commands and tests use it to fire
// tickets without sleeping.
type Recorder struct {
	Tickets []Ticket
}

// Schedule implements Scheduler
func (r *Recorder) Schedule(t Ticket) {
	r.Tickets = append(r.Tickets, t)
}

// Drain returns and clears the recorded tickets
func (r *Recorder) Drain() []Ticket {
	out := r.Tickets
	r.Tickets = nil
	return out
}

// Last returns the most recent ticket of kind k
func (r *Recorder) Last(k Kind) (Ticket, bool) {
	for i := len(r.Tickets) - 1; i >= 0; i-- {
		if r.Tickets[i].Kind == k {
			return r.Tickets[i], true
		}
	}
	return Ticket{}, false
}
