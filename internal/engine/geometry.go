package engine

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/PalletStack/internal/logging"
	"github.com/piwi3910/PalletStack/internal/model"
)

// Renderer draws a laid-out pattern. Rectangles arrive in canvas space.
type Renderer interface {
	Clear()
	DrawPallet(r model.CanvasRect)
	DrawItem(it model.Item, r model.CanvasRect)
}

// PatternModel owns the items of one rendered layer: the authoritative
// uncentred item list, the annotated display copy, the canvas scale and the
// selection state.
type PatternModel struct {
	pallet    model.Pallet
	box       model.Box
	labels    model.Sides
	tolerance float64
	scale     float64
	centered  bool

	items    []model.Item
	display  []model.Item
	offsetX  float64
	offsetY  float64
	selected int // index into items, -1 when nothing is selected

	logger *log.Logger
}

// NewPatternModel creates a model over a copy of items.
func NewPatternModel(pallet model.Pallet, box model.Box, items []model.Item) *PatternModel {
	pm := &PatternModel{
		pallet:    pallet,
		box:       box,
		tolerance: DefaultTolerance,
		scale:     1,
		items:     append([]model.Item(nil), items...),
		selected:  -1,
		logger:    logging.Discard(),
	}
	pm.relayout()
	return pm
}

// SetLogger replaces the model's logger. A nil logger discards output.
func (pm *PatternModel) SetLogger(l *log.Logger) {
	pm.logger = logging.OrDiscard(l)
}

// SetTolerance sets the collision tolerance used by LayoutAndDraw, clamped
// with ClampTolerance.
func (pm *PatternModel) SetTolerance(tol float64) {
	pm.tolerance = ClampTolerance(tol)
}

// SetLabels sets the labelled box faces used to orient labels.
func (pm *PatternModel) SetLabels(labels model.Sides) {
	pm.labels = labels
}

// SetPallet changes the pallet surface and re-annotates the items.
func (pm *PatternModel) SetPallet(p model.Pallet) {
	pm.pallet = p
	pm.relayout()
}

// SetScale fits the pallet into a canvas of canvasW by canvasH.
func (pm *PatternModel) SetScale(canvasW, canvasH float64) {
	pm.scale = model.FitScale(pm.pallet, canvasW, canvasH)
}

func (pm *PatternModel) Scale() float64       { return pm.scale }
func (pm *PatternModel) Pallet() model.Pallet { return pm.pallet }
func (pm *PatternModel) Box() model.Box       { return pm.box }

// Items returns a copy of the authoritative, uncentred items.
func (pm *PatternModel) Items() []model.Item {
	return append([]model.Item(nil), pm.items...)
}

// Display returns a copy of the items as last laid out: centred if
// requested and annotated with collision, outer side and label state.
func (pm *PatternModel) Display() []model.Item {
	return append([]model.Item(nil), pm.display...)
}

// Offset returns the translation applied to the display copy.
func (pm *PatternModel) Offset() (dx, dy float64) {
	return pm.offsetX, pm.offsetY
}

// Draw renders the pallet and the current display items.
func (pm *PatternModel) Draw(r Renderer) {
	if r == nil {
		return
	}
	r.Clear()
	r.DrawPallet(model.ToCanvas(pm.pallet.Bounds(), pm.scale))
	for _, it := range pm.display {
		r.DrawItem(it, model.ToCanvas(it.Rect(), pm.scale))
	}
}

// LayoutAndDraw rebuilds the display copy, optionally centring the pattern on
// the pallet, flags overlapping and out-of-bounds items, works out outer
// sides and label orientation, then draws. It returns the display items.
func (pm *PatternModel) LayoutAndDraw(centered bool, r Renderer) []model.Item {
	pm.centered = centered
	pm.relayout()
	pm.Draw(r)

	pm.logger.Debug("pattern laid out",
		"items", len(pm.display),
		"colliding", model.Pattern(pm.display).CollisionCount(),
		"centered", centered)
	return pm.Display()
}

func (pm *PatternModel) relayout() {
	display := append([]model.Item(nil), pm.items...)

	pm.offsetX, pm.offsetY = 0, 0
	if pm.centered && len(display) > 0 {
		b := model.Pattern(display).Bounds()
		pm.offsetX = (pm.pallet.Length-b.Length)/2 - b.X
		pm.offsetY = (pm.pallet.Width-b.Width)/2 - b.Y
		for i := range display {
			display[i] = display[i].Translate(pm.offsetX, pm.offsetY)
		}
	}

	MarkCollisions(display, pm.pallet, pm.tolerance)
	UpdateOuterSides(display)
	ApplyLabels(display, pm.labels)
	pm.display = display
}

// SelectAt selects the topmost item under p (display space) and returns its
// index. It returns false when nothing is under p or an item is already
// selected.
func (pm *PatternModel) SelectAt(p model.Point2D) (int, bool) {
	if pm.selected >= 0 {
		return -1, false
	}
	for i := len(pm.display) - 1; i >= 0; i-- {
		if pm.display[i].Rect().Contains(p) {
			pm.selected = i
			pm.items[i].Selected = true
			pm.display[i].Selected = true
			return i, true
		}
	}
	return -1, false
}

// Selected returns the selected item.
func (pm *PatternModel) Selected() (model.Item, bool) {
	if pm.selected < 0 {
		return model.Item{}, false
	}
	return pm.items[pm.selected], true
}

// ClearSelection drops the selection without moving anything.
func (pm *PatternModel) ClearSelection() {
	if pm.selected < 0 {
		return
	}
	pm.items[pm.selected].Selected = false
	pm.display[pm.selected].Selected = false
	pm.selected = -1
}

// DeselectAt re-homes the selected item with its origin at p (display
// space), snapped to the box quantum and kept on the pallet, and rewrites its
// formula against the other items. The item stays where it was when no
// formula can express the snapped position; false is returned then and when
// nothing was selected. The selection is cleared either way.
func (pm *PatternModel) DeselectAt(p model.Point2D) (model.Item, bool) {
	if pm.selected < 0 {
		return model.Item{}, false
	}
	idx := pm.selected
	defer pm.ClearSelection()

	step, err := Quantum(pm.box.Length, pm.box.Width)
	if err != nil {
		return pm.items[idx], false
	}

	it := pm.items[idx]
	it.Selected = false
	r := it.Rect()
	x := clamp(snap(p.X-pm.offsetX, step), 0, float64(gridCount(pm.pallet.Length-r.Length, step))*step)
	y := clamp(snap(p.Y-pm.offsetY, step), 0, float64(gridCount(pm.pallet.Width-r.Width, step))*step)

	others := make([]model.Item, 0, len(pm.items)-1)
	others = append(others, pm.items[:idx]...)
	others = append(others, pm.items[idx+1:]...)

	f, err := Synthesize(x, y, it.Orientation, pm.box, others)
	if err != nil {
		if !errors.Is(err, ErrNotExpressible) {
			pm.logger.Warn("re-homing item failed", "id", it.ID, "err", err)
		}
		return it, false
	}

	moved := it.Translate(x-r.X, y-r.Y)
	moved.Formula = f + model.EntryFromFormula(it.Formula).BoxGroup
	pm.items[idx] = moved
	pm.relayout()

	pm.logger.Debug("item re-homed", "id", it.ID, "x", x, "y", y, "formula", f)
	return moved, true
}

// RemoveSelected deletes the selected item from the authoritative item list
// and returns the index it had there.
func (pm *PatternModel) RemoveSelected() (int, bool) {
	if pm.selected < 0 {
		return -1, false
	}
	idx := pm.selected
	pm.items = append(pm.items[:idx], pm.items[idx+1:]...)
	pm.selected = -1
	pm.relayout()
	return idx, true
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
