package engine

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/piwi3910/PalletStack/internal/logging"
	"github.com/piwi3910/PalletStack/internal/model"
)

// LayerState is one pallet layer with its assigned pattern.
type LayerState struct {
	Layer    model.Layer
	Pattern  string // library name of the assigned pattern
	Model    *PatternModel
	Rejected error // slots that failed to evaluate, joined
}

// Stats summarises a laid-out layer.
type Stats struct {
	Boxes      int
	Colliding  int
	Efficiency float64 // percent of the pallet surface
	Bounds     model.Rect
}

// Session holds everything an editor works on: the box and pallet, label
// faces, the in-memory pattern library and the three layers. A Session is
// owned by one caller and is not safe for concurrent use.
type Session struct {
	ID            string
	Box           model.Box
	Pallet        model.Pallet
	Labels        model.Sides
	Library       model.PatternLibrary
	Centered      bool
	Tolerance     float64
	Direction     Direction
	MaxCandidates int

	layers map[model.Layer]*LayerState
	logger *log.Logger
}

// NewSession creates a session with no layers assigned. lib may be nil.
func NewSession(pallet model.Pallet, box model.Box, lib model.PatternLibrary) *Session {
	if lib == nil {
		lib = model.PatternLibrary{}
	}
	return &Session{
		ID:        uuid.New().String(),
		Box:       box,
		Pallet:    pallet,
		Library:   lib,
		Centered:  true,
		Tolerance: DefaultTolerance,
		Direction: DirectionX,
		layers:    make(map[model.Layer]*LayerState),
		logger:    logging.Discard(),
	}
}

// NewSessionFromConfig creates a session using the configured defaults.
func NewSessionFromConfig(cfg model.AppConfig, lib model.PatternLibrary) *Session {
	s := NewSession(cfg.DefaultPallet(), cfg.DefaultBox(), lib)
	s.Labels = cfg.DefaultLabelSides
	s.Centered = cfg.CenterPattern
	if cfg.CollisionTolerance > 0 {
		s.Tolerance = ClampTolerance(cfg.CollisionTolerance)
	}
	if d, ok := ParseDirection(cfg.SearchDirection); ok {
		s.Direction = d
	}
	s.MaxCandidates = cfg.MaxSearchCandidates
	return s
}

// SetLogger replaces the session's logger. A nil logger discards output.
func (s *Session) SetLogger(l *log.Logger) {
	s.logger = logging.OrDiscard(l)
	for _, ls := range s.layers {
		ls.Model.SetLogger(s.logger)
	}
}

// Layer returns the state of an assigned layer.
func (s *Session) Layer(layer model.Layer) (*LayerState, bool) {
	ls, ok := s.layers[layer]
	return ls, ok
}

// Layers returns the assigned layers in stacking order.
func (s *Session) Layers() []*LayerState {
	var out []*LayerState
	for _, l := range model.AllLayers {
		if ls, ok := s.layers[l]; ok {
			out = append(out, ls)
		}
	}
	return out
}

// ApplyPattern assigns a library pattern to a layer and evaluates it. Slots
// that fail to evaluate are recorded in LayerState.Rejected; the layer is
// still assigned with the remaining items.
func (s *Session) ApplyPattern(layer model.Layer, name string) (*LayerState, error) {
	if _, ok := s.Library.Find(name); !ok {
		return nil, model.NewError(model.CodePatternNotFound, "pattern %q not found", name)
	}
	ls := &LayerState{Layer: layer, Pattern: name}
	if err := s.regenerate(ls); err != nil {
		return nil, err
	}
	s.layers[layer] = ls
	s.logger.Info("pattern applied", "layer", layer, "pattern", name, "boxes", len(ls.Model.items))
	return ls, nil
}

// ClearLayer drops a layer's pattern assignment and its items.
func (s *Session) ClearLayer(layer model.Layer) {
	delete(s.layers, layer)
}

// SetBox changes the box and regenerates every assigned layer wholesale.
func (s *Session) SetBox(box model.Box) error {
	if err := box.Validate(); err != nil {
		return err
	}
	s.Box = box
	return s.regenerateAll()
}

// SetPallet changes the pallet and re-lays out every assigned layer.
func (s *Session) SetPallet(p model.Pallet) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.Pallet = p
	for _, ls := range s.layers {
		ls.Model.SetPallet(p)
	}
	return nil
}

// SetLabels changes the labelled box faces and re-lays out every layer.
func (s *Session) SetLabels(labels model.Sides) {
	s.Labels = labels
	for _, ls := range s.layers {
		ls.Model.SetLabels(labels)
		ls.Model.LayoutAndDraw(s.Centered, nil)
	}
}

// AddBox searches the next free slot for a box of orientation o on a layer,
// appends the synthesised formula to the layer's pattern and regenerates
// every layer sharing that pattern. It returns false when no slot is free.
func (s *Session) AddBox(layer model.Layer, o model.Orientation) (model.Placement, bool, error) {
	ls, ok := s.layers[layer]
	if !ok {
		return model.Placement{}, false, model.NewError(model.CodeInvalidInput, "layer %q has no pattern", layer)
	}

	pl, found, err := FindPlacement(PlacementRequest{
		Orientation:   o,
		Box:           s.Box,
		Pallet:        s.Pallet,
		Occupied:      ls.Model.Items(),
		Direction:     s.Direction,
		MaxCandidates: s.MaxCandidates,
	})
	if err != nil || !found {
		if !found && err == nil {
			s.logger.Info("no free slot", "layer", layer, "orientation", o)
		}
		return pl, found, err
	}

	def := s.Library[ls.Pattern].Clone()
	def.Append(pl.Formula)
	if err := s.updatePattern(ls.Pattern, def); err != nil {
		return pl, true, err
	}
	s.logger.Info("box added", "layer", layer, "formula", pl.Formula)
	return pl, true, nil
}

// RemoveSelected deletes the selected item of a layer together with its
// formula slot. It returns the slot index.
func (s *Session) RemoveSelected(layer model.Layer) (int, bool, error) {
	ls, ok := s.layers[layer]
	if !ok {
		return -1, false, nil
	}
	it, ok := ls.Model.Selected()
	if !ok {
		return -1, false, nil
	}
	if _, ok := ls.Model.RemoveSelected(); !ok {
		return -1, false, nil
	}

	def := s.Library[ls.Pattern].Clone()
	def.RemoveAt(it.Slot)
	if err := s.updatePattern(ls.Pattern, def); err != nil {
		return it.Slot, true, err
	}
	s.logger.Info("box removed", "layer", layer, "slot", it.Slot)
	return it.Slot, true, nil
}

// MoveSelected re-homes the selected item of a layer at p (display space)
// and writes its new formula back to the pattern. The slot keeps its group.
func (s *Session) MoveSelected(layer model.Layer, p model.Point2D) (model.Item, bool, error) {
	ls, ok := s.layers[layer]
	if !ok {
		return model.Item{}, false, nil
	}
	moved, ok := ls.Model.DeselectAt(p)
	if !ok {
		return moved, false, nil
	}

	def := s.Library[ls.Pattern].Clone()
	if moved.Slot < len(def.PatternDefinition) {
		entry := model.EntryFromFormula(moved.Formula)
		entry.BoxGroup = def.PatternDefinition[moved.Slot].BoxGroup
		def.PatternDefinition[moved.Slot] = entry
	}
	if err := s.updatePattern(ls.Pattern, def); err != nil {
		return moved, true, err
	}
	return moved, true, nil
}

// Stats summarises a layer. The zero value is returned for an unassigned layer.
func (s *Session) Stats(layer model.Layer) Stats {
	ls, ok := s.layers[layer]
	if !ok {
		return Stats{}
	}
	p := model.Pattern(ls.Model.Display())
	return Stats{
		Boxes:      len(p),
		Colliding:  p.CollisionCount(),
		Efficiency: p.Efficiency(s.Pallet),
		Bounds:     p.Bounds(),
	}
}

// SetDefinition replaces a library pattern and regenerates the layers using it.
func (s *Session) SetDefinition(name string, def model.PatternDefinition) error {
	return s.updatePattern(name, def)
}

func (s *Session) updatePattern(name string, def model.PatternDefinition) error {
	s.Library[name] = def
	for _, ls := range s.layers {
		if ls.Pattern != name {
			continue
		}
		if err := s.regenerate(ls); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) regenerateAll() error {
	for _, ls := range s.layers {
		if err := s.regenerate(ls); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) regenerate(ls *LayerState) error {
	def, ok := s.Library.Find(ls.Pattern)
	if !ok {
		return model.NewError(model.CodePatternNotFound, "pattern %q not found", ls.Pattern)
	}

	items, err := EvaluateDefinition(def, s.Box)
	if items == nil && err != nil {
		return err
	}
	ls.Rejected = err
	if err != nil {
		s.logger.Warn("pattern has rejected slots", "pattern", ls.Pattern, "slots", RejectedSlots(err))
	}

	pm := NewPatternModel(s.Pallet, s.Box, items)
	pm.SetLogger(s.logger)
	pm.SetTolerance(s.Tolerance)
	pm.SetLabels(s.Labels)
	if ls.Model != nil {
		pm.scale = ls.Model.scale
	}
	pm.LayoutAndDraw(s.Centered, nil)
	ls.Model = pm
	return nil
}
