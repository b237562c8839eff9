package editor

import (
	"github.com/slotboard/slotboard/pkg/errors"
)

// Pointer is the platform adapter for pointer side effects. Gestures own
// the pointer exclusively for their duration so fast movements outside a
// handle's visual bounds are not lost; Release is guaranteed on every exit
// path (drop, cancel, pointer leaving the surface).
type Pointer interface {
	// Capture claims exclusive pointer input for the active gesture.
	Capture()

	// Release returns pointer input and restores default cursor and
	// selection state.
	Release()

	// SetCursor sets the cursor shape for the gesture ("grabbing",
	// "col-resize", "row-resize").
	SetCursor(shape string)
}

// NopPointer is a Pointer for surfaces without capture semantics, such as
// a terminal, and for tests.
type NopPointer struct{}

func (NopPointer) Capture()         {}
func (NopPointer) Release()         {}
func (NopPointer) SetCursor(string) {}

// State is the gesture session state.
type State int

// Session states: idle → dragging → (dropped|cancelled) → idle and
// idle → resizing → (committed|cancelled) → idle. Dragging and resizing
// are mutually exclusive.
const (
	StateIdle State = iota
	StateDragging
	StateResizing
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Session is the finite-state machine for one editing surface. It owns the
// in-flight gesture and rejects conflicting entries; all transitions are
// synchronous, matching the single-threaded event loop of the surface.
type Session struct {
	state   State
	pointer Pointer
	drag    *DragState
	resize  *ResizeGesture
}

// NewSession creates an idle session. A nil pointer defaults to NopPointer.
func NewSession(p Pointer) *Session {
	if p == nil {
		p = NopPointer{}
	}
	return &Session{pointer: p}
}

// State returns the current gesture state.
func (s *Session) State() State {
	return s.state
}

// Drag returns the in-flight drag state, or nil when not dragging.
func (s *Session) Drag() *DragState {
	return s.drag
}

// Resize returns the in-flight resize gesture, or nil when not resizing.
func (s *Session) Resize() *ResizeGesture {
	return s.resize
}

// BeginDrag enters the dragging state. Entering while another gesture is
// active is rejected with a GESTURE_CONFLICT error.
func (s *Session) BeginDrag(draggedID string, x, y float64) error {
	if s.state != StateIdle {
		return errors.New(errors.ErrCodeGestureConflict, "cannot start drag while %s", s.state)
	}
	s.state = StateDragging
	s.drag = &DragState{DraggedID: draggedID, StartX: x, StartY: y, X: x, Y: y}
	s.pointer.Capture()
	s.pointer.SetCursor("grabbing")
	return nil
}

// UpdateDrag records pointer movement for the active drag.
func (s *Session) UpdateDrag(x, y float64) error {
	if s.state != StateDragging {
		return errors.New(errors.ErrCodeGestureState, "no drag in progress")
	}
	s.drag.X = x
	s.drag.Y = y
	return nil
}

// Drop leaves the dragging state and returns the final drag geometry for
// the commit. The pointer is released on this path unconditionally.
func (s *Session) Drop() (DragState, error) {
	if s.state != StateDragging {
		return DragState{}, errors.New(errors.ErrCodeGestureState, "no drag in progress")
	}
	d := *s.drag
	s.reset()
	return d, nil
}

// BeginResize enters the resizing state with the given gesture. A resize
// handle and a drag handle occupy overlapping hit areas; callers must try
// BeginResize first so the handle wins the press.
func (s *Session) BeginResize(g *ResizeGesture) error {
	if s.state != StateIdle {
		return errors.New(errors.ErrCodeGestureConflict, "cannot start resize while %s", s.state)
	}
	if g == nil {
		return errors.New(errors.ErrCodeGestureState, "nil resize gesture")
	}
	s.state = StateResizing
	s.resize = g
	s.pointer.Capture()
	if g.Axis() == AxisVertical {
		s.pointer.SetCursor("row-resize")
	} else {
		s.pointer.SetCursor("col-resize")
	}
	return nil
}

// Commit leaves the resizing state and returns the final value computed
// from total displacement.
func (s *Session) Commit(x, y float64) (ResizeValue, error) {
	if s.state != StateResizing {
		return ResizeValue{}, errors.New(errors.ErrCodeGestureState, "no resize in progress")
	}
	v := s.resize.End(x, y)
	s.reset()
	return v, nil
}

// Cancel aborts any active gesture. Safe to call when idle; the pointer is
// always released.
func (s *Session) Cancel() {
	s.reset()
}

// reset returns to idle and releases the pointer. Every exit path funnels
// through here so capture can never leak.
func (s *Session) reset() {
	s.state = StateIdle
	s.drag = nil
	s.resize = nil
	s.pointer.Release()
}
