package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/model"
)

var (
	horizontalFill = color.NRGBA{R: 33, G: 150, B: 243, A: 200}
	verticalFill   = color.NRGBA{R: 76, G: 175, B: 80, A: 200}
	collisionFill  = color.NRGBA{R: 244, G: 67, B: 54, A: 220}
	palletFill     = color.NRGBA{R: 210, G: 180, B: 140, A: 255}
	selectedStroke = color.NRGBA{R: 255, G: 235, B: 59, A: 255}
	labelStroke    = color.NRGBA{R: 255, G: 152, B: 0, A: 255}
	itemStroke     = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
)

// PatternCanvas shows one pallet layer and turns taps into selection and
// move requests. It draws through the pattern model, acting as its renderer.
//
// A first tap selects the box under the pointer and calls OnSelect; the next
// tap asks OnMove to re-home the selected box at the tapped position.
type PatternCanvas struct {
	widget.BaseWidget

	pm        *engine.PatternModel
	maxWidth  float32
	maxHeight float32
	objects   []fyne.CanvasObject

	OnSelect func(index int, it model.Item)
	OnMove   func(p model.Point2D)
}

// NewPatternCanvas creates a canvas fitting the pallet into maxW by maxH.
// pm may be nil for an empty layer.
func NewPatternCanvas(pm *engine.PatternModel, maxW, maxH float32) *PatternCanvas {
	pc := &PatternCanvas{pm: pm, maxWidth: maxW, maxHeight: maxH}
	pc.ExtendBaseWidget(pc)
	return pc
}

// SetModel swaps the displayed layer model and redraws.
func (pc *PatternCanvas) SetModel(pm *engine.PatternModel) {
	pc.pm = pm
	pc.Refresh()
}

// Model returns the displayed layer model.
func (pc *PatternCanvas) Model() *engine.PatternModel {
	return pc.pm
}

// Tapped implements fyne.Tappable.
func (pc *PatternCanvas) Tapped(ev *fyne.PointEvent) {
	if pc.pm == nil {
		return
	}
	p := model.FromCanvas(float64(ev.Position.X), float64(ev.Position.Y), pc.pm.Scale())

	if _, ok := pc.pm.Selected(); ok {
		if pc.OnMove != nil {
			pc.OnMove(p)
		} else {
			pc.pm.DeselectAt(p)
		}
		pc.Refresh()
		return
	}

	if idx, ok := pc.pm.SelectAt(p); ok {
		if pc.OnSelect != nil {
			it, _ := pc.pm.Selected()
			pc.OnSelect(idx, it)
		}
		pc.Refresh()
	}
}

// Clear implements engine.Renderer.
func (pc *PatternCanvas) Clear() {
	pc.objects = nil
}

// DrawPallet implements engine.Renderer.
func (pc *PatternCanvas) DrawPallet(r model.CanvasRect) {
	bg := canvas.NewRectangle(palletFill)
	bg.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	bg.StrokeWidth = 2
	place(bg, r)
	pc.objects = append(pc.objects, bg)
}

// DrawItem implements engine.Renderer.
func (pc *PatternCanvas) DrawItem(it model.Item, r model.CanvasRect) {
	fill := horizontalFill
	if it.Orientation == model.Vertical {
		fill = verticalFill
	}
	if it.Colliding {
		fill = collisionFill
	}

	rect := canvas.NewRectangle(fill)
	rect.StrokeColor = itemStroke
	rect.StrokeWidth = 1
	if it.Selected {
		rect.StrokeColor = selectedStroke
		rect.StrokeWidth = 3
	}
	place(rect, r)
	pc.objects = append(pc.objects, rect)

	pc.drawLabelMarks(it, r)

	if r.W > 20 && r.H > 14 {
		text := canvas.NewText(fmt.Sprintf("%d", it.Slot+1), color.Black)
		text.TextSize = 10
		text.Move(fyne.NewPos(float32(r.X)+3, float32(r.Y)+2))
		pc.objects = append(pc.objects, text)
	}
}

// drawLabelMarks strokes the canvas edges where a box label faces out of
// the pattern. Pallet X runs down the canvas and pallet Y across it.
func (pc *PatternCanvas) drawLabelMarks(it model.Item, r model.CanvasRect) {
	x, y := float32(r.X), float32(r.Y)
	w, h := float32(r.W), float32(r.H)
	for side := model.SideBack; side <= model.SideLeft; side++ {
		if !it.OuterSides[side] || !it.ExposedLabels[side] {
			continue
		}
		var line *canvas.Line
		switch side {
		case model.SideBack:
			line = newLine(x+w-2, y+2, x+w-2, y+h-2)
		case model.SideRight:
			line = newLine(x+2, y+h-2, x+w-2, y+h-2)
		case model.SideFront:
			line = newLine(x+2, y+2, x+2, y+h-2)
		case model.SideLeft:
			line = newLine(x+2, y+2, x+w-2, y+2)
		}
		pc.objects = append(pc.objects, line)
	}
}

func newLine(x1, y1, x2, y2 float32) *canvas.Line {
	l := canvas.NewLine(labelStroke)
	l.StrokeWidth = 3
	l.Position1 = fyne.NewPos(x1, y1)
	l.Position2 = fyne.NewPos(x2, y2)
	return l
}

func place(o fyne.CanvasObject, r model.CanvasRect) {
	o.Resize(fyne.NewSize(float32(r.W), float32(r.H)))
	o.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
}

func (pc *PatternCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &patternCanvasRenderer{pc: pc}
	r.rebuild()
	return r
}

type patternCanvasRenderer struct {
	pc *PatternCanvas
}

func (r *patternCanvasRenderer) rebuild() {
	pc := r.pc
	pc.objects = nil
	if pc.pm == nil {
		return
	}
	pc.pm.SetScale(float64(pc.maxWidth), float64(pc.maxHeight))
	pc.pm.Draw(pc)
}

func (r *patternCanvasRenderer) Layout(size fyne.Size)        {}
func (r *patternCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *patternCanvasRenderer) Destroy()                     {}
func (r *patternCanvasRenderer) Objects() []fyne.CanvasObject { return r.pc.objects }
func (r *patternCanvasRenderer) MinSize() fyne.Size {
	if r.pc.pm == nil {
		return fyne.NewSize(r.pc.maxWidth, r.pc.maxHeight)
	}
	scale := model.FitScale(r.pc.pm.Pallet(), float64(r.pc.maxWidth), float64(r.pc.maxHeight))
	w, h := model.CanvasSize(r.pc.pm.Pallet(), scale)
	return fyne.NewSize(float32(w), float32(h))
}
