package editor

import (
	"testing"

	"github.com/slotboard/slotboard/pkg/errors"
)

// recordingPointer counts capture/release calls to verify that every exit
// path releases the pointer.
type recordingPointer struct {
	captures int
	releases int
	cursor   string
}

func (p *recordingPointer) Capture()           { p.captures++ }
func (p *recordingPointer) Release()           { p.releases++ }
func (p *recordingPointer) SetCursor(s string) { p.cursor = s }

func TestSessionDragLifecycle(t *testing.T) {
	ptr := &recordingPointer{}
	s := NewSession(ptr)

	if err := s.BeginDrag("a", 10, 10); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if s.State() != StateDragging {
		t.Errorf("state = %s, want dragging", s.State())
	}
	if ptr.captures != 1 || ptr.cursor != "grabbing" {
		t.Errorf("pointer not captured with grab cursor: %+v", ptr)
	}

	if err := s.UpdateDrag(50, 60); err != nil {
		t.Fatalf("UpdateDrag: %v", err)
	}

	d, err := s.Drop()
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if d.X != 50 || d.Y != 60 {
		t.Errorf("drop geometry = %+v", d)
	}
	if s.State() != StateIdle {
		t.Errorf("state after drop = %s, want idle", s.State())
	}
	if ptr.releases != 1 {
		t.Errorf("pointer releases = %d, want 1", ptr.releases)
	}
}

func TestSessionMutualExclusion(t *testing.T) {
	s := NewSession(nil)
	if err := s.BeginDrag("a", 0, 0); err != nil {
		t.Fatal(err)
	}

	g := NewResizeGesture(ResizeConfig{}, "a", AxisHorizontal, 0, 0, 6, 0, nil)
	err := s.BeginResize(g)
	if err == nil {
		t.Fatal("resize during drag must be rejected")
	}
	if !errors.Is(err, errors.ErrCodeGestureConflict) {
		t.Errorf("error code = %s, want GESTURE_CONFLICT", errors.GetCode(err))
	}

	// The original drag is untouched.
	if s.State() != StateDragging {
		t.Errorf("state = %s, want dragging", s.State())
	}

	s.Cancel()
	if err := s.BeginResize(g); err != nil {
		t.Errorf("resize after cancel: %v", err)
	}
}

func TestSessionCancelReleasesPointer(t *testing.T) {
	ptr := &recordingPointer{}
	s := NewSession(ptr)

	if err := s.BeginDrag("a", 0, 0); err != nil {
		t.Fatal(err)
	}
	s.Cancel()

	if ptr.releases != 1 {
		t.Errorf("cancel must release the pointer, releases = %d", ptr.releases)
	}
	if s.State() != StateIdle || s.Drag() != nil {
		t.Error("cancel must reset to idle")
	}
}

func TestSessionResizeCommit(t *testing.T) {
	ptr := &recordingPointer{}
	s := NewSession(ptr)

	g := NewResizeGesture(ResizeConfig{PixelsPerUnit: 10}, "a", AxisHorizontal, 0, 0, 6, 0, nil)
	if err := s.BeginResize(g); err != nil {
		t.Fatal(err)
	}
	if ptr.cursor != "col-resize" {
		t.Errorf("cursor = %q, want col-resize", ptr.cursor)
	}

	v, err := s.Commit(20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v.Span != 8 {
		t.Errorf("committed span = %d, want 8", v.Span)
	}
	if ptr.releases != 1 {
		t.Errorf("commit must release the pointer, releases = %d", ptr.releases)
	}
}

func TestSessionInvalidTransitions(t *testing.T) {
	s := NewSession(nil)

	if _, err := s.Drop(); !errors.Is(err, errors.ErrCodeGestureState) {
		t.Errorf("Drop while idle: %v", err)
	}
	if _, err := s.Commit(0, 0); !errors.Is(err, errors.ErrCodeGestureState) {
		t.Errorf("Commit while idle: %v", err)
	}
	if err := s.UpdateDrag(0, 0); !errors.Is(err, errors.ErrCodeGestureState) {
		t.Errorf("UpdateDrag while idle: %v", err)
	}
}
