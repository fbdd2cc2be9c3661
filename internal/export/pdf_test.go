package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/model"
)

// buildTestSession creates a session with two assigned layers: a clean row
// pattern and a pattern with two overlapping boxes.
func buildTestSession(t *testing.T) *engine.Session {
	t.Helper()
	lib := model.PatternLibrary{
		"row":     model.NewPatternDefinition("H;;;", "H;L;;", "V;2L;;", "H;;W;"),
		"overlap": model.NewPatternDefinition("H;;;", "H;;;", "H;2Q;;"),
	}
	s := engine.NewSession(model.NewPallet(1200, 800), model.NewBox(400, 300, 200), lib)
	s.SetLabels(model.Sides{false, false, true, false})

	if _, err := s.ApplyPattern(model.LayerOdd, "row"); err != nil {
		t.Fatalf("ApplyPattern(odd): %v", err)
	}
	if _, err := s.ApplyPattern(model.LayerEven, "overlap"); err != nil {
		t.Fatalf("ApplyPattern(even): %v", err)
	}
	return s
}

func requireFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layers.pdf")

	if err := ExportPDF(path, buildTestSession(t)); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireFile(t, path, 500)
}

func TestExportPDF_NoLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	s := engine.NewSession(model.NewPallet(1200, 800), model.NewBox(400, 300, 200), nil)

	if err := ExportPDF(path, s); err == nil {
		t.Fatal("expected error for a session without layers")
	}
}

func TestExportPDF_KeepsSessionScale(t *testing.T) {
	s := buildTestSession(t)
	ls, _ := s.Layer(model.LayerOdd)
	ls.Model.SetScale(400, 600)
	before := ls.Model.Scale()

	if err := ExportPDF(filepath.Join(t.TempDir(), "scale.pdf"), s); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if ls.Model.Scale() != before {
		t.Errorf("expected scale %f to be unchanged, got %f", before, ls.Model.Scale())
	}
}

// recordingPDF counts what the PDF renderer is asked to draw.
type recordingPDF struct {
	pallets int
	items   []model.Item
}

func (r *recordingPDF) Clear()                                     {}
func (r *recordingPDF) DrawPallet(model.CanvasRect)                { r.pallets++ }
func (r *recordingPDF) DrawItem(it model.Item, _ model.CanvasRect) { r.items = append(r.items, it) }

func TestPDFRendererSatisfiesRenderer(t *testing.T) {
	var _ engine.Renderer = (*pdfRenderer)(nil)

	s := buildTestSession(t)
	ls, _ := s.Layer(model.LayerEven)
	rec := &recordingPDF{}
	ls.Model.Draw(rec)

	if rec.pallets != 1 {
		t.Errorf("expected 1 pallet draw, got %d", rec.pallets)
	}
	if len(rec.items) != 2 {
		t.Fatalf("expected 2 items (the bad slot is rejected), got %d", len(rec.items))
	}
	for _, it := range rec.items {
		if !it.Colliding {
			t.Errorf("expected slot %d to be drawn as colliding", it.Slot)
		}
	}
}

func TestLabelledFaces(t *testing.T) {
	if got := labelledFaces(model.Sides{}); got != "none" {
		t.Errorf("expected none, got %q", got)
	}
	if got := labelledFaces(model.Sides{true, false, true, false}); got != "Back, Front" {
		t.Errorf("expected Back, Front, got %q", got)
	}
}

func TestCountBoxes(t *testing.T) {
	s := buildTestSession(t)
	if got := countBoxes(s, s.Layers()); got != 6 {
		t.Errorf("expected 6 boxes over both layers, got %d", got)
	}
}
