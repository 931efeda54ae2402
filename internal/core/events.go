package core

import (
	"github.com/lumipallolabs/foldergrid/internal/dirty"
	"github.com/lumipallolabs/foldergrid/internal/model"
	"github.com/lumipallolabs/foldergrid/internal/viewport"
)

// Event represents a state change from the controller
type Event interface {
	isEvent()
}

// SelectionChangedEvent is emitted when the selected identities change
type SelectionChangedEvent struct {
	IDs []string // in visible order
}

func (SelectionChangedEvent) isEvent() {}

// ActivatedEvent is emitted on double click or the activate key
type ActivatedEvent struct {
	Index int
	Entry model.Entry
}

func (ActivatedEvent) isEvent() {}

// DropCommittedEvent is emitted when a drag ends. Target is the identity
// dropped onto, or empty for a move within the grid.
type DropCommittedEvent struct {
	IDs    []string
	Target string
}

func (DropCommittedEvent) isEvent() {}

// RenameRequestedEvent carries a committed inline edit
type RenameRequestedEvent struct {
	ID      string
	NewName string
}

func (RenameRequestedEvent) isEvent() {}

// EditingEvent is emitted when inline editing starts or ends
type EditingEvent struct {
	ID     string
	Name   string
	Active bool
}

func (EditingEvent) isEvent() {}

// RepaintEvent carries the flushed dirty region in content space
type RepaintEvent struct {
	Region dirty.Region
}

func (RepaintEvent) isEvent() {}

// ScrollChangedEvent is emitted when the scroll offset or range changes
type ScrollChangedEvent struct {
	State viewport.State
	Delta int // offset change since the previous state
}

func (ScrollChangedEvent) isEvent() {}

// ListingStateEvent is emitted when a listing starts or finishes
type ListingStateEvent struct {
	Location string
	Active   bool
	Canceled bool
	Count    int
	Err      error
}

func (ListingStateEvent) isEvent() {}

// AnimationTickEvent is emitted on every animation frame
type AnimationTickEvent struct {
	Frame int
}

func (AnimationTickEvent) isEvent() {}

// ErrorEvent is emitted when a background operation fails
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) isEvent() {}
