package ui

import (
	"testing"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/model"
)

func newTestSession(t *testing.T) *engine.Session {
	t.Helper()
	lib := model.PatternLibrary{
		"row": model.NewPatternDefinition("H;;;", "H;L;;"),
	}
	s := engine.NewSession(model.NewPallet(1200, 800), model.NewBox(400, 300, 200), lib)
	if _, err := s.ApplyPattern(model.LayerOdd, "row"); err != nil {
		t.Fatalf("ApplyPattern: %v", err)
	}
	return s
}

func boxCount(t *testing.T, s *engine.Session, layer model.Layer) int {
	t.Helper()
	return s.Stats(layer).Boxes
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
}

func TestUndoRedoAddBox(t *testing.T) {
	s := newTestSession(t)
	h := NewHistory()

	h.Push(MakeSnapshot(s, "Add Box"))
	if _, ok, err := s.AddBox(model.LayerOdd, model.Horizontal); err != nil || !ok {
		t.Fatalf("AddBox failed: ok=%v err=%v", ok, err)
	}
	if got := boxCount(t, s, model.LayerOdd); got != 3 {
		t.Fatalf("expected 3 boxes after add, got %d", got)
	}

	restored, ok := h.Undo(MakeSnapshot(s, "current"))
	if !ok {
		t.Fatal("undo should succeed")
	}
	if restored.Label != "Add Box" {
		t.Errorf("expected label 'Add Box', got %q", restored.Label)
	}
	if err := RestoreSnapshot(s, restored); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	if got := boxCount(t, s, model.LayerOdd); got != 2 {
		t.Errorf("expected 2 boxes after undo, got %d", got)
	}

	redone, ok := h.Redo(MakeSnapshot(s, "undone"))
	if !ok {
		t.Fatal("redo should succeed")
	}
	if err := RestoreSnapshot(s, redone); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	if got := boxCount(t, s, model.LayerOdd); got != 3 {
		t.Errorf("expected 3 boxes after redo, got %d", got)
	}
}

func TestRestoreSnapshotLayers(t *testing.T) {
	s := newTestSession(t)
	snap := MakeSnapshot(s, "before")

	if _, err := s.ApplyPattern(model.LayerTop, "row"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBox(model.NewBox(500, 250, 100)); err != nil {
		t.Fatal(err)
	}

	if err := RestoreSnapshot(s, snap); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	if _, ok := s.Layer(model.LayerTop); ok {
		t.Error("top layer should be unassigned again")
	}
	if s.Box.Length != 400 {
		t.Errorf("expected box length 400, got %f", s.Box.Length)
	}
	ls, ok := s.Layer(model.LayerOdd)
	if !ok || ls.Pattern != "row" {
		t.Error("odd layer should still show the row pattern")
	}
}

func TestRestoreSnapshotMissingPattern(t *testing.T) {
	s := newTestSession(t)
	snap := MakeSnapshot(s, "broken")
	delete(snap.Library, "row")

	if err := RestoreSnapshot(s, snap); err == nil {
		t.Error("expected an error for a layer whose pattern is gone")
	}
}

func TestPushClearsRedo(t *testing.T) {
	s := newTestSession(t)
	h := NewHistory()

	h.Push(MakeSnapshot(s, "first"))
	if _, ok := h.Undo(MakeSnapshot(s, "current")); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	h.Push(MakeSnapshot(s, "new action"))
	if h.CanRedo() {
		t.Error("redo stack should be cleared after push")
	}
}

func TestMaxDepth(t *testing.T) {
	s := newTestSession(t)
	h := &History{maxDepth: 3}

	for i := 0; i < 5; i++ {
		h.Push(MakeSnapshot(s, ""))
	}

	if len(h.undoStack) != 3 {
		t.Errorf("expected undo stack length 3, got %d", len(h.undoStack))
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	s := newTestSession(t)
	h := NewHistory()
	if _, ok := h.Undo(MakeSnapshot(s, "current")); ok {
		t.Error("undo on empty history should return false")
	}
	if _, ok := h.Redo(MakeSnapshot(s, "current")); ok {
		t.Error("redo on empty history should return false")
	}
}

func TestClear(t *testing.T) {
	s := newTestSession(t)
	h := NewHistory()
	h.Push(MakeSnapshot(s, "a"))
	h.Push(MakeSnapshot(s, "b"))
	h.Undo(MakeSnapshot(s, "current"))

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("after clear, should not be able to undo or redo")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := newTestSession(t)
	snap := MakeSnapshot(s, "test")

	def := s.Library["row"]
	def.PatternDefinition[0].BoxGroup = "changed"
	s.Library["extra"] = model.NewPatternDefinition("V;;;")

	if snap.Library["row"].PatternDefinition[0].BoxGroup != "" {
		t.Error("snapshot definitions should be independent of the session")
	}
	if _, ok := snap.Library["extra"]; ok {
		t.Error("snapshot library should be independent of the session")
	}
}

func TestCopyNilLibrary(t *testing.T) {
	if copyLibrary(nil) != nil {
		t.Error("nil library should stay nil")
	}
}
