package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in   string
		want Orientation
		ok   bool
	}{
		{"H", Horizontal, true},
		{"h", Horizontal, true},
		{"V", Vertical, true},
		{" vertical ", Vertical, true},
		{"X", Horizontal, false},
		{"", Horizontal, false},
	}
	for _, tt := range tests {
		got, ok := ParseOrientation(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
	assert.Equal(t, "H", Horizontal.Code())
	assert.Equal(t, "V", Vertical.Code())
}

func TestBoxExtents(t *testing.T) {
	b := NewBox(300, 200, 150)

	dx, dy := b.Extents(Horizontal)
	assert.Equal(t, 300.0, dx)
	assert.Equal(t, 200.0, dy)

	dx, dy = b.Extents(Vertical)
	assert.Equal(t, 200.0, dx)
	assert.Equal(t, 300.0, dy)
}

func TestValidateDegenerateGeometry(t *testing.T) {
	err := NewBox(0, 200, 100).Validate()
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeDegenerateGeometry))

	err = NewPallet(1200, -1).Validate()
	require.Error(t, err)
	assert.Equal(t, CodeDegenerateGeometry, ErrorCode(err))

	assert.NoError(t, NewPallet(1200, 800).Validate())
}

func TestHasCode_NestedCauses(t *testing.T) {
	inner := NewBox(0, 200, 100).Validate()
	outer := WrapError(CodeFormulaParse, inner, "slot 2")

	assert.True(t, HasCode(outer, CodeFormulaParse))
	assert.True(t, HasCode(outer, CodeDegenerateGeometry))
	assert.True(t, HasCode(fmt.Errorf("load: %w", outer), CodeDegenerateGeometry))
	assert.False(t, HasCode(outer, CodePatternNotFound))

	joined := errors.Join(errors.New("plain"), fmt.Errorf("wrapped: %w", outer))
	assert.True(t, HasCode(joined, CodeDegenerateGeometry))
	assert.False(t, HasCode(errors.New("plain"), CodeFormulaParse))
	assert.False(t, HasCode(nil, CodeFormulaParse))
}

func TestRectUnionAndContains(t *testing.T) {
	a := Rect{X: 0, Y: 0, Length: 100, Width: 50}
	b := Rect{X: 200, Y: 100, Length: 50, Width: 50}

	u := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: 0, Length: 250, Width: 150}, u)
	assert.True(t, u.Contains(Point2D{X: 250, Y: 150}))
	assert.False(t, a.Contains(Point2D{X: 101, Y: 10}))
	assert.True(t, u.ContainsRect(a, 0))
	assert.False(t, a.ContainsRect(b, 0))
}

func TestSidesRotate(t *testing.T) {
	s := Sides{true, false, false, false} // back only
	assert.Equal(t, Sides{false, true, false, false}, s.Rotate(1))
	assert.Equal(t, Sides{false, false, true, false}, s.Rotate(2))
	assert.Equal(t, Sides{false, false, false, true}, s.Rotate(-1))
	assert.Equal(t, 4, AllSides().Count())
}

func TestItemRectAndTranslate(t *testing.T) {
	it := NewItem(Vertical, 100, 50, 200, 300)
	assert.Len(t, it.ID, 8)
	assert.Equal(t, Rect{X: 100, Y: 50, Length: 200, Width: 300}, it.Rect())

	moved := it.Translate(10, -50)
	assert.Equal(t, 110.0, moved.StartX)
	assert.Equal(t, 0.0, moved.StartY)
	assert.Equal(t, 310.0, moved.EndX)
	assert.Equal(t, 300.0, moved.EndY)
}

func TestPatternStats(t *testing.T) {
	p := Pattern{
		NewItem(Horizontal, 0, 0, 300, 200),
		NewItem(Horizontal, 300, 0, 300, 200),
	}
	pallet := NewPallet(1200, 800)

	assert.Equal(t, Rect{X: 0, Y: 0, Length: 600, Width: 200}, p.Bounds())
	assert.InDelta(t, 120000.0, p.UsedArea(), 0.001)
	assert.InDelta(t, 12.5, p.Efficiency(pallet), 0.001)
	assert.Equal(t, 0, p.CollisionCount())
	assert.Equal(t, Rect{}, Pattern{}.Bounds())
}

func TestBoxFormulaOffset(t *testing.T) {
	f := BoxFormula{Orientation: Horizontal, XLength: 2, YWidth: 1}
	x, y := f.Offset(NewBox(300, 200, 100))
	assert.Equal(t, 600.0, x)
	assert.Equal(t, 200.0, y)
}

func TestCanvasMappingSwapsAxes(t *testing.T) {
	r := Rect{X: 100, Y: 20, Length: 300, Width: 200}
	c := ToCanvas(r, 0.5)
	assert.Equal(t, CanvasRect{X: 10, Y: 50, W: 100, H: 150}, c)

	p := FromCanvas(c.X, c.Y, 0.5)
	assert.Equal(t, Point2D{X: 100, Y: 20}, p)

	w, h := CanvasSize(NewPallet(1200, 800), 0.5)
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 600.0, h)
}

func TestFitScale(t *testing.T) {
	p := NewPallet(1200, 800)
	assert.InDelta(t, 0.5, FitScale(p, 400, 1000), 1e-9)
	assert.InDelta(t, 0.25, FitScale(p, 400, 300), 1e-9)
	assert.Equal(t, 0.0, FitScale(Pallet{}, 100, 100))
}

func TestParseLayer(t *testing.T) {
	l, ok := ParseLayer("Even")
	assert.True(t, ok)
	assert.Equal(t, LayerEven, l)
	_, ok = ParseLayer("middle")
	assert.False(t, ok)
}
