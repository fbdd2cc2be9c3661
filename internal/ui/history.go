package ui

import (
	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/model"
)

const defaultMaxDepth = 50

// Snapshot captures the editable session state at a point in time.
type Snapshot struct {
	Box      model.Box
	Pallet   model.Pallet
	Labels   model.Sides
	Library  model.PatternLibrary
	Assigned map[model.Layer]string // pattern name per assigned layer
	Label    string                 // Human-readable description (e.g. "Add Box")
}

// History manages undo/redo stacks of session snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called before the modification is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot from the undo stack and pushes
// the current state onto the redo stack. Returns the snapshot to restore
// and true, or an empty snapshot and false if nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent snapshot from the redo stack and pushes
// the current state onto the undo stack. Returns the snapshot to restore
// and true, or an empty snapshot and false if nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

// CanUndo returns true if there is at least one snapshot to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one snapshot to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// copyLibrary returns a deep copy of a pattern library.
func copyLibrary(lib model.PatternLibrary) model.PatternLibrary {
	if lib == nil {
		return nil
	}
	cp := make(model.PatternLibrary, len(lib))
	for name, def := range lib {
		cp[name] = def.Clone()
	}
	return cp
}

// MakeSnapshot captures a session's state with a label.
func MakeSnapshot(s *engine.Session, label string) Snapshot {
	assigned := make(map[model.Layer]string)
	for _, ls := range s.Layers() {
		assigned[ls.Layer] = ls.Pattern
	}
	return Snapshot{
		Box:      s.Box,
		Pallet:   s.Pallet,
		Labels:   s.Labels,
		Library:  copyLibrary(s.Library),
		Assigned: assigned,
		Label:    label,
	}
}

// RestoreSnapshot puts a session back into a captured state and
// re-evaluates every assigned layer.
func RestoreSnapshot(s *engine.Session, snap Snapshot) error {
	s.Box = snap.Box
	s.Pallet = snap.Pallet
	s.Labels = snap.Labels
	s.Library = copyLibrary(snap.Library)
	if s.Library == nil {
		s.Library = model.PatternLibrary{}
	}

	for _, layer := range model.AllLayers {
		s.ClearLayer(layer)
		name, ok := snap.Assigned[layer]
		if !ok {
			continue
		}
		if _, err := s.ApplyPattern(layer, name); err != nil {
			return err
		}
	}
	return nil
}
