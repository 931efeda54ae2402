// Package interaction disambiguates clicks, double clicks, drags, rubber
// band selection and inline editing from raw pointer input.
package interaction

import (
	"image"
	"time"
)

// Mode is the pointer mode
type Mode int

const (
	Idle Mode = iota
	Hover
	Pressed
	Dragging
	RubberBand
	Editing
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Hover:
		return "hover"
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	case RubberBand:
		return "rubberBand"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// Config holds the thresholds that separate clicks from drags
type Config struct {
	DragThreshold int           // pointer travel that starts a drag
	DoubleClick   time.Duration // window for a second click on the same index
	ClickTimeout  time.Duration // longest press that still counts as a click, 0 for no limit
}

// DefaultConfig returns the thresholds used when none are configured
func DefaultConfig() Config {
	return Config{
		DragThreshold: 4,
		DoubleClick:   400 * time.Millisecond,
		ClickTimeout:  time.Second,
	}
}

// State is the complete interaction state. Index fields are -1 when unset.
type State struct {
	Mode     Mode
	Hover    int
	Pressed  int
	Editing  int
	PressPos image.Point
	PressAt  time.Time
	Mods     Modifiers
	Band     image.Rectangle

	lastClick   int
	lastClickAt time.Time
}

// Initial returns the idle state
func Initial() State {
	return State{Hover: -1, Pressed: -1, Editing: -1, lastClick: -1}
}

// Transition applies in to s and returns the next state and its effects
func Transition(s State, in Input, cfg Config) (State, []Effect) {
	switch in := in.(type) {
	case PointerMove:
		return pointerMove(s, in, cfg)
	case ButtonDown:
		if s.Mode != Idle && s.Mode != Hover {
			return s, nil
		}
		s.Mode = Pressed
		s.Pressed = in.Index
		s.PressPos = in.Pos
		s.PressAt = in.Time
		s.Mods = in.Mods
		return s, nil
	case ButtonUp:
		return buttonUp(s, in, cfg)
	case FocusLost, Escape:
		return cancel(s)
	case BeginEdit:
		var effects []Effect
		if s.Mode == Editing {
			return s, nil
		}
		if s.Mode == Dragging || s.Mode == RubberBand {
			effects = append(effects, Canceled{})
		}
		s = idle(s, s.Hover)
		s.Mode = Editing
		s.Editing = in.Index
		return s, append(effects, EditStarted{Index: in.Index})
	case CommitEdit:
		if s.Mode != Editing {
			return s, nil
		}
		idx := s.Editing
		return idle(s, -1), []Effect{EditCommitted{Index: idx, Text: in.Text}}
	case CancelEdit:
		if s.Mode != Editing {
			return s, nil
		}
		idx := s.Editing
		return idle(s, -1), []Effect{EditCanceled{Index: idx}}
	}
	return s, nil
}

func pointerMove(s State, in PointerMove, cfg Config) (State, []Effect) {
	switch s.Mode {
	case Idle, Hover:
		if in.Index == s.Hover {
			return s, nil
		}
		s.Hover = in.Index
		s.Mode = Idle
		if in.Index >= 0 {
			s.Mode = Hover
		}
		return s, []Effect{HoverChanged{Index: in.Index}}
	case Pressed:
		if !beyond(s.PressPos, in.Pos, cfg.DragThreshold) {
			return s, nil
		}
		if s.Pressed >= 0 {
			s.Mode = Dragging
			return s, []Effect{DragStarted{Index: s.Pressed}, DragMoved{Delta: in.Pos.Sub(s.PressPos)}}
		}
		s.Mode = RubberBand
		s.Band = image.Rectangle{Min: s.PressPos, Max: in.Pos}.Canon()
		return s, []Effect{BandChanged{Rect: s.Band}}
	case Dragging:
		s.Hover = in.Index
		return s, []Effect{DragMoved{Delta: in.Pos.Sub(s.PressPos)}}
	case RubberBand:
		s.Band = image.Rectangle{Min: s.PressPos, Max: in.Pos}.Canon()
		return s, []Effect{BandChanged{Rect: s.Band}}
	}
	return s, nil
}

func buttonUp(s State, in ButtonUp, cfg Config) (State, []Effect) {
	switch s.Mode {
	case Pressed:
		pressed := s.Pressed
		mods := s.Mods
		held := in.Time.Sub(s.PressAt)
		isClick := !beyond(s.PressPos, in.Pos, cfg.DragThreshold) &&
			(cfg.ClickTimeout <= 0 || held <= cfg.ClickTimeout)

		var effects []Effect
		if isClick {
			if pressed >= 0 && pressed == s.lastClick && in.Time.Sub(s.lastClickAt) <= cfg.DoubleClick {
				effects = append(effects, Activated{Index: pressed})
				s.lastClick = -1
			} else {
				effects = append(effects, Clicked{Index: pressed, Mods: mods})
				s.lastClick = pressed
				s.lastClickAt = in.Time
			}
		}
		return idle(s, in.Index), effects
	case Dragging:
		// A release that ends a drag never pairs with a later click
		s.lastClick = -1
		d := Dropped{Index: s.Pressed, Delta: in.Pos.Sub(s.PressPos), Target: in.Index}
		return idle(s, in.Index), []Effect{d}
	case RubberBand:
		f := BandFinished{Rect: s.Band, Mods: s.Mods}
		return idle(s, in.Index), []Effect{f}
	}
	return s, nil
}

func cancel(s State) (State, []Effect) {
	switch s.Mode {
	case Dragging, RubberBand:
		return idle(s, -1), []Effect{Canceled{}}
	case Editing:
		idx := s.Editing
		return idle(s, -1), []Effect{EditCanceled{Index: idx}}
	case Pressed:
		return idle(s, -1), nil
	}
	s.lastClick = -1
	return s, nil
}

// idle returns to Idle or Hover depending on the index under the pointer
func idle(s State, hover int) State {
	s.Mode = Idle
	if hover >= 0 {
		s.Mode = Hover
	}
	s.Hover = hover
	s.Pressed = -1
	s.Editing = -1
	s.Band = image.Rectangle{}
	s.Mods = 0
	return s
}

func beyond(a, b image.Point, threshold int) bool {
	d := b.Sub(a)
	return d.X*d.X+d.Y*d.Y > threshold*threshold
}
