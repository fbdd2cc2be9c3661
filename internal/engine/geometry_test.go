package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PalletStack/internal/model"
)

type recordingRenderer struct {
	cleared int
	pallet  model.CanvasRect
	items   []model.CanvasRect
}

func (r *recordingRenderer) Clear() {
	r.cleared++
	r.items = nil
}

func (r *recordingRenderer) DrawPallet(c model.CanvasRect) { r.pallet = c }

func (r *recordingRenderer) DrawItem(_ model.Item, c model.CanvasRect) {
	r.items = append(r.items, c)
}

func newTestModel(t *testing.T, formulas ...string) *PatternModel {
	t.Helper()
	box := model.NewBox(300, 200, 150)
	items, err := Evaluate(formulas, box)
	require.NoError(t, err)
	return NewPatternModel(model.NewPallet(1200, 800), box, items)
}

func TestLayoutAndDraw_Centered(t *testing.T) {
	pm := newTestModel(t, "H;;;")
	display := pm.LayoutAndDraw(true, nil)

	require.Len(t, display, 1)
	assert.Equal(t, 450.0, display[0].StartX)
	assert.Equal(t, 300.0, display[0].StartY)
	assert.Equal(t, 0.0, pm.Items()[0].StartX, "authoritative items stay uncentred")

	dx, dy := pm.Offset()
	assert.Equal(t, 450.0, dx)
	assert.Equal(t, 300.0, dy)
}

func TestLayoutAndDraw_FlagsCollisions(t *testing.T) {
	pm := newTestModel(t, "H;;;", "H;;;", "H;L;;", "H;4L;;")
	display := pm.LayoutAndDraw(false, nil)

	assert.True(t, display[0].Colliding)
	assert.True(t, display[1].Colliding)
	assert.False(t, display[2].Colliding)
	assert.True(t, display[3].Colliding, "starts at the pallet edge")
}

func TestLayoutAndDraw_LargeToleranceStillFlagsOverlap(t *testing.T) {
	box := model.NewBox(300, 200, 150)
	items := []model.Item{
		model.NewItem(model.Horizontal, 0, 0, 300, 200),
		model.NewItem(model.Horizontal, 297, 0, 300, 200), // 3 mm overlap
	}
	pm := NewPatternModel(model.NewPallet(1200, 800), box, items)
	pm.SetTolerance(5)

	display := pm.LayoutAndDraw(false, nil)
	require.True(t, Overlaps(display[0].Rect(), display[1].Rect(), DefaultTolerance))
	assert.True(t, display[0].Colliding)
	assert.True(t, display[1].Colliding)
}

func TestLayoutAndDraw_NoOverlapInvariant(t *testing.T) {
	pm := newTestModel(t, "H;;;", "H;L;;", "V;2L;;", "H;0.5L;W;", "V;3L;W;", "H;;2W;")
	display := pm.LayoutAndDraw(true, nil)

	for i := range display {
		for j := i + 1; j < len(display); j++ {
			a, b := display[i], display[j]
			if !a.Colliding && !b.Colliding {
				assert.False(t, Overlaps(a.Rect(), b.Rect(), DefaultTolerance), "%d/%d", i, j)
			}
		}
	}
}

func TestLayoutAndDraw_Renders(t *testing.T) {
	pm := newTestModel(t, "H;;;", "H;L;;")
	pm.SetScale(400, 600)
	assert.Equal(t, 0.5, pm.Scale())

	r := &recordingRenderer{}
	pm.LayoutAndDraw(false, r)

	assert.Equal(t, 1, r.cleared)
	assert.Equal(t, model.CanvasRect{X: 0, Y: 0, W: 400, H: 600}, r.pallet)
	require.Len(t, r.items, 2)
	// pallet X runs down the canvas
	assert.Equal(t, model.CanvasRect{X: 0, Y: 150, W: 100, H: 150}, r.items[1])
}

func TestLayoutAndDraw_OuterSidesAndLabels(t *testing.T) {
	pm := newTestModel(t, "H;;;", "H;L;;")
	pm.SetLabels(model.Sides{false, true, false, false})
	display := pm.LayoutAndDraw(false, nil)

	assert.False(t, display[0].OuterSides[model.SideRight])
	// label moved off the covered right face onto the left
	assert.Equal(t, 2, display[0].LabelRotation)
	assert.True(t, display[0].ExposedLabels[model.SideLeft])
	assert.Equal(t, 0, display[1].LabelRotation)
}

func TestSelectAt(t *testing.T) {
	pm := newTestModel(t, "H;;;", "H;L;;")
	pm.LayoutAndDraw(false, nil)

	_, ok := pm.SelectAt(model.Point2D{X: 1000, Y: 700})
	assert.False(t, ok)

	idx, ok := pm.SelectAt(model.Point2D{X: 310, Y: 10})
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.True(t, pm.Display()[1].Selected)

	_, ok = pm.SelectAt(model.Point2D{X: 10, Y: 10})
	assert.False(t, ok, "only one item is selected at a time")

	sel, ok := pm.Selected()
	require.True(t, ok)
	assert.Equal(t, 300.0, sel.StartX)

	pm.ClearSelection()
	_, ok = pm.Selected()
	assert.False(t, ok)
}

func TestRemoveSelected(t *testing.T) {
	pm := newTestModel(t, "H;;;", "H;L;;", "H;2L;;")
	pm.LayoutAndDraw(false, nil)

	_, ok := pm.RemoveSelected()
	assert.False(t, ok)

	_, ok = pm.SelectAt(model.Point2D{X: 350, Y: 100})
	require.True(t, ok)
	idx, ok := pm.RemoveSelected()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Len(t, pm.Items(), 2)
	assert.Len(t, pm.Display(), 2)
	assert.Equal(t, 600.0, pm.Items()[1].StartX)
}

func TestDeselectAt_SnapsAndRewritesFormula(t *testing.T) {
	pm := newTestModel(t, "H;;;", "H;L;;")
	pm.LayoutAndDraw(false, nil)

	_, ok := pm.SelectAt(model.Point2D{X: 310, Y: 10})
	require.True(t, ok)

	moved, ok := pm.DeselectAt(model.Point2D{X: 620, Y: 190})
	require.True(t, ok)
	assert.Equal(t, model.Rect{X: 600, Y: 200, Length: 300, Width: 200}, moved.Rect())
	assert.Equal(t, "H;2l+0w;0l+1w;", moved.Formula)
	assert.False(t, moved.Selected)
	assert.Equal(t, moved.Rect(), pm.Items()[1].Rect())

	_, ok = pm.Selected()
	assert.False(t, ok)
}

func TestDeselectAt_KeepsGroup(t *testing.T) {
	pm := newTestModel(t, "H;;;stack", "H;L;;stack")
	pm.LayoutAndDraw(false, nil)

	_, ok := pm.SelectAt(model.Point2D{X: 310, Y: 10})
	require.True(t, ok)
	moved, ok := pm.DeselectAt(model.Point2D{X: 600, Y: 200})
	require.True(t, ok)
	assert.Equal(t, "H;2l+0w;0l+1w;stack", moved.Formula)
}

func TestDeselectAt_ClampsToPallet(t *testing.T) {
	pm := newTestModel(t, "H;;;", "H;L;;")
	pm.LayoutAndDraw(false, nil)
	_, ok := pm.SelectAt(model.Point2D{X: 310, Y: 10})
	require.True(t, ok)

	moved, ok := pm.DeselectAt(model.Point2D{X: 5000, Y: 5000})
	require.True(t, ok)
	assert.Equal(t, 900.0, moved.StartX)
	assert.Equal(t, 600.0, moved.StartY)
	assert.Equal(t, "H;3l+0w;2l+0w;", moved.Formula)
}

func TestDeselectAt_Inexpressible(t *testing.T) {
	pm := newTestModel(t, "H;;;", "H;L;;")
	pm.LayoutAndDraw(false, nil)
	_, ok := pm.SelectAt(model.Point2D{X: 310, Y: 10})
	require.True(t, ok)

	it, ok := pm.DeselectAt(model.Point2D{X: 100, Y: 0})
	assert.False(t, ok)
	assert.Equal(t, 300.0, it.StartX)
	assert.Equal(t, 300.0, pm.Items()[1].StartX)
	_, selected := pm.Selected()
	assert.False(t, selected)
}

func TestDeselectAt_CenteredDisplaySpace(t *testing.T) {
	pm := newTestModel(t, "H;;;")
	pm.LayoutAndDraw(true, nil) // offset (450, 300)

	_, ok := pm.SelectAt(model.Point2D{X: 500, Y: 350})
	require.True(t, ok)
	moved, ok := pm.DeselectAt(model.Point2D{X: 750, Y: 300})
	require.True(t, ok)
	assert.Equal(t, 300.0, moved.StartX)
	assert.Equal(t, 0.0, moved.StartY)
}
