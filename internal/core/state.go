package core

import (
	"image"

	"github.com/lumipallolabs/foldergrid/internal/interaction"
	"github.com/lumipallolabs/foldergrid/internal/viewport"
)

// ListingState describes the Entry Source listing lifecycle
type ListingState int

const (
	ListingIdle ListingState = iota
	ListingActive
	ListingDone
	ListingCanceled
)

// String returns a short status word
func (s ListingState) String() string {
	switch s {
	case ListingActive:
		return "listing"
	case ListingDone:
		return "ready"
	case ListingCanceled:
		return "canceled"
	default:
		return ""
	}
}

// ViewState is a read-only snapshot for rendering
type ViewState struct {
	Location    string
	Listing     ListingState
	Total       int // entries in the source
	Visible     int // entries after filtering
	Selected    int
	Focus       int
	Locked      bool
	Scroll      viewport.State
	Interaction interaction.State
	DragDelta   image.Point
	Band        image.Rectangle
}
