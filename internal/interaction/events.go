package interaction

import (
	"image"
	"time"
)

// Modifiers held during a button press
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModShift
)

// Has reports whether m includes mod
func (m Modifiers) Has(mod Modifiers) bool { return m&mod != 0 }

// Input is a pointer, keyboard or focus event fed to Transition
type Input interface {
	isInput()
}

// PointerMove reports the pointer position and the index under it (-1 for none)
type PointerMove struct {
	Pos   image.Point
	Index int
}

// ButtonDown reports a primary button press
type ButtonDown struct {
	Pos   image.Point
	Index int
	Time  time.Time
	Mods  Modifiers
}

// ButtonUp reports a primary button release
type ButtonUp struct {
	Pos   image.Point
	Index int
	Time  time.Time
}

// FocusLost reports that the view lost input focus
type FocusLost struct{}

// Escape reports the escape key
type Escape struct{}

// BeginEdit requests inline editing of Index
type BeginEdit struct {
	Index int
}

// CommitEdit finishes editing with the entered text
type CommitEdit struct {
	Text string
}

// CancelEdit abandons editing
type CancelEdit struct{}

func (PointerMove) isInput() {}
func (ButtonDown) isInput()  {}
func (ButtonUp) isInput()    {}
func (FocusLost) isInput()   {}
func (Escape) isInput()      {}
func (BeginEdit) isInput()   {}
func (CommitEdit) isInput()  {}
func (CancelEdit) isInput()  {}

// Effect is an outcome of a transition for the owner to act on
type Effect interface {
	isEffect()
}

// HoverChanged is emitted when the hovered index changes
type HoverChanged struct {
	Index int
}

// Clicked is a completed click. Index is -1 for a click on empty space.
type Clicked struct {
	Index int
	Mods  Modifiers
}

// Activated is a double click on Index
type Activated struct {
	Index int
}

// DragStarted is emitted once the pointer leaves the drag threshold
type DragStarted struct {
	Index int
}

// DragMoved reports the pointer offset from the press position
type DragMoved struct {
	Delta image.Point
}

// Dropped ends a drag. Target is the index under the pointer or -1.
type Dropped struct {
	Index  int
	Delta  image.Point
	Target int
}

// BandChanged reports the current rubber band rectangle
type BandChanged struct {
	Rect image.Rectangle
}

// BandFinished ends a rubber band selection
type BandFinished struct {
	Rect image.Rectangle
	Mods Modifiers
}

// Canceled reports a discarded drag or rubber band
type Canceled struct{}

// EditStarted is emitted when inline editing begins
type EditStarted struct {
	Index int
}

// EditCommitted carries the text entered for Index
type EditCommitted struct {
	Index int
	Text  string
}

// EditCanceled is emitted when editing ends without a commit
type EditCanceled struct {
	Index int
}

func (HoverChanged) isEffect()  {}
func (Clicked) isEffect()       {}
func (Activated) isEffect()     {}
func (DragStarted) isEffect()   {}
func (DragMoved) isEffect()     {}
func (Dropped) isEffect()       {}
func (BandChanged) isEffect()   {}
func (BandFinished) isEffect()  {}
func (Canceled) isEffect()      {}
func (EditStarted) isEffect()   {}
func (EditCommitted) isEffect() {}
func (EditCanceled) isEffect()  {}
