package engine

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PalletStack/internal/logging"
	"github.com/piwi3910/PalletStack/internal/model"
)

func newTestSession() *Session {
	lib := model.PatternLibrary{
		"row":    model.NewPatternDefinition("H;;;", "H;L;;"),
		"broken": model.NewPatternDefinition("H;;;", "bogus", "H;L;;"),
	}
	s := NewSession(model.NewPallet(1200, 800), model.NewBox(300, 200, 150), lib)
	s.Centered = false
	return s
}

func TestSession_ApplyPattern(t *testing.T) {
	s := newTestSession()
	ls, err := s.ApplyPattern(model.LayerOdd, "row")
	require.NoError(t, err)
	assert.Equal(t, "row", ls.Pattern)
	assert.NoError(t, ls.Rejected)
	assert.Len(t, ls.Model.Items(), 2)

	got, ok := s.Layer(model.LayerOdd)
	require.True(t, ok)
	assert.Same(t, ls, got)

	_, ok = s.Layer(model.LayerEven)
	assert.False(t, ok)
}

func TestSession_ApplyPattern_NotFound(t *testing.T) {
	s := newTestSession()
	_, err := s.ApplyPattern(model.LayerOdd, "missing")
	assert.Equal(t, model.CodePatternNotFound, model.ErrorCode(err))
}

func TestSession_ApplyPattern_RejectedSlots(t *testing.T) {
	s := newTestSession()
	ls, err := s.ApplyPattern(model.LayerTop, "broken")
	require.NoError(t, err)
	require.Error(t, ls.Rejected)
	assert.Equal(t, []int{1}, RejectedSlots(ls.Rejected))

	items := ls.Model.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[1].Slot)
}

func TestSession_ClearLayer(t *testing.T) {
	s := newTestSession()
	_, err := s.ApplyPattern(model.LayerOdd, "row")
	require.NoError(t, err)
	s.ClearLayer(model.LayerOdd)
	_, ok := s.Layer(model.LayerOdd)
	assert.False(t, ok)
	assert.Equal(t, Stats{}, s.Stats(model.LayerOdd))
}

func TestSession_AddBox(t *testing.T) {
	s := newTestSession()
	_, err := s.ApplyPattern(model.LayerOdd, "row")
	require.NoError(t, err)
	_, err = s.ApplyPattern(model.LayerEven, "row")
	require.NoError(t, err)

	pl, ok, err := s.AddBox(model.LayerOdd, model.Horizontal)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 600.0, pl.X)
	assert.Equal(t, "H;2l+0w;0l+0w;", pl.Formula)

	assert.Equal(t, 3, s.Library["row"].Len())
	odd, _ := s.Layer(model.LayerOdd)
	even, _ := s.Layer(model.LayerEven)
	assert.Len(t, odd.Model.Items(), 3)
	assert.Len(t, even.Model.Items(), 3, "layers sharing a pattern follow the edit")
}

func TestSession_AddBox_UnassignedLayer(t *testing.T) {
	s := newTestSession()
	_, _, err := s.AddBox(model.LayerOdd, model.Horizontal)
	assert.Equal(t, model.CodeInvalidInput, model.ErrorCode(err))
}

func TestSession_AddBox_Full(t *testing.T) {
	s := newTestSession()
	s.Library["full"] = model.NewPatternDefinition("H;;;")
	require.NoError(t, s.SetPallet(model.NewPallet(300, 200)))
	_, err := s.ApplyPattern(model.LayerOdd, "full")
	require.NoError(t, err)

	_, ok, err := s.AddBox(model.LayerOdd, model.Horizontal)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Library["full"].Len())
}

func TestSession_SetBox_Regenerates(t *testing.T) {
	s := newTestSession()
	_, err := s.ApplyPattern(model.LayerOdd, "row")
	require.NoError(t, err)

	require.NoError(t, s.SetBox(model.NewBox(400, 200, 150)))
	ls, _ := s.Layer(model.LayerOdd)
	assert.Equal(t, 400.0, ls.Model.Items()[1].StartX)

	err = s.SetBox(model.NewBox(0, 200, 150))
	assert.True(t, model.HasCode(err, model.CodeDegenerateGeometry))
	assert.Equal(t, 400.0, s.Box.Length)
}

func TestSession_SetPallet(t *testing.T) {
	s := newTestSession()
	_, err := s.ApplyPattern(model.LayerOdd, "row")
	require.NoError(t, err)

	require.NoError(t, s.SetPallet(model.NewPallet(500, 800)))
	ls, _ := s.Layer(model.LayerOdd)
	assert.True(t, ls.Model.Display()[1].Colliding, "second box now runs off the pallet")

	assert.Error(t, s.SetPallet(model.NewPallet(-1, 800)))
}

func TestSession_RemoveSelected(t *testing.T) {
	s := newTestSession()
	ls, err := s.ApplyPattern(model.LayerOdd, "row")
	require.NoError(t, err)

	_, ok, err := s.RemoveSelected(model.LayerOdd)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok = ls.Model.SelectAt(model.Point2D{X: 310, Y: 10})
	require.True(t, ok)
	slot, ok, err := s.RemoveSelected(model.LayerOdd)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, slot)
	assert.Equal(t, []string{"H;;;"}, s.Library["row"].Formulas())
}

func TestSession_MoveSelected(t *testing.T) {
	s := newTestSession()
	ls, err := s.ApplyPattern(model.LayerOdd, "row")
	require.NoError(t, err)

	_, ok := ls.Model.SelectAt(model.Point2D{X: 310, Y: 10})
	require.True(t, ok)
	moved, ok, err := s.MoveSelected(model.LayerOdd, model.Point2D{X: 600, Y: 200})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "H;2l+0w;0l+1w;", moved.Formula)
	assert.Equal(t, []string{"H;;;", "H;2l+0w;0l+1w;"}, s.Library["row"].Formulas())

	ls, _ = s.Layer(model.LayerOdd)
	assert.Equal(t, 600.0, ls.Model.Items()[1].StartX)
}

func TestSession_MoveSelected_KeepsGroup(t *testing.T) {
	lib := model.PatternLibrary{"grouped": model.NewPatternDefinition("H;0L;0L;row1", "H;1L;0L;row1")}
	s := NewSession(model.NewPallet(1200, 800), model.NewBox(300, 200, 150), lib)
	s.Centered = false
	ls, err := s.ApplyPattern(model.LayerOdd, "grouped")
	require.NoError(t, err)

	_, ok := ls.Model.SelectAt(model.Point2D{X: 350, Y: 10})
	require.True(t, ok)
	moved, ok, err := s.MoveSelected(model.LayerOdd, model.Point2D{X: 600, Y: 0})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "H;2l+0w;0l+0w;row1", moved.Formula)

	entry := s.Library["grouped"].PatternDefinition[1]
	assert.Equal(t, "2l+0w", entry.BoxXFormula)
	assert.Equal(t, "row1", entry.BoxGroup)
	assert.Equal(t, "row1", s.Library["grouped"].PatternDefinition[0].BoxGroup)
}

func TestNewSessionFromConfig_ClampsTolerance(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.CollisionTolerance = 5
	s := NewSessionFromConfig(cfg, nil)
	assert.Equal(t, DefaultTolerance, s.Tolerance)
}

func TestSession_Stats(t *testing.T) {
	s := newTestSession()
	_, err := s.ApplyPattern(model.LayerOdd, "row")
	require.NoError(t, err)

	st := s.Stats(model.LayerOdd)
	assert.Equal(t, 2, st.Boxes)
	assert.Equal(t, 0, st.Colliding)
	assert.InDelta(t, 12.5, st.Efficiency, 1e-9)
	assert.Equal(t, model.Rect{X: 0, Y: 0, Length: 600, Width: 200}, st.Bounds)
}

func TestNewSessionFromConfig(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.SearchDirection = "y"
	cfg.MaxSearchCandidates = 10
	s := NewSessionFromConfig(cfg, nil)

	assert.Equal(t, model.NewPallet(1200, 800), s.Pallet)
	assert.Equal(t, model.NewBox(300, 200, 150), s.Box)
	assert.Equal(t, DirectionY, s.Direction)
	assert.Equal(t, 10, s.MaxCandidates)
	assert.True(t, s.Centered)
	assert.Equal(t, cfg.DefaultLabelSides, s.Labels)
	assert.NotNil(t, s.Library)
	assert.NotEmpty(t, s.ID)
}

func TestSession_Logs(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSession()
	s.SetLogger(logging.New(&buf, log.InfoLevel))

	_, err := s.ApplyPattern(model.LayerOdd, "row")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "pattern applied")
}
