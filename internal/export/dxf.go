package export

import (
	"fmt"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/model"
)

// PalletLayerName is the DXF layer holding the pallet outline.
const PalletLayerName = "PALLET"

var layerColors = map[model.Layer]color.ColorNumber{
	model.LayerOdd:  color.Blue,
	model.LayerEven: color.Green,
	model.LayerTop:  color.Magenta,
}

// ExportDXF writes the pallet outline and every assigned layer of the session
// as LINE rectangles, one DXF layer per pallet layer. Boxes are drawn in
// uncentred pallet space, matching their formulas.
func ExportDXF(path string, s *engine.Session) error {
	layers := s.Layers()
	if len(layers) == 0 {
		return fmt.Errorf("no layers to export")
	}

	d := dxf.NewDrawing()
	if err := drawPallet(d, s.Pallet); err != nil {
		return err
	}

	for _, ls := range layers {
		cl, ok := layerColors[ls.Layer]
		if !ok {
			cl = dxf.DefaultColor
		}
		if _, err := d.AddLayer(strings.ToUpper(string(ls.Layer)), cl, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("add layer %s: %w", ls.Layer, err)
		}
		for _, it := range ls.Model.Items() {
			if err := drawRect(d, it.Rect()); err != nil {
				return fmt.Errorf("layer %s slot %d: %w", ls.Layer, it.Slot, err)
			}
		}
	}

	return d.SaveAs(path)
}

// ExportLayerDXF writes a single item list without the pallet outline, in
// the form ImportDXF reads back.
func ExportLayerDXF(path string, items []model.Item) error {
	if len(items) == 0 {
		return fmt.Errorf("no boxes to export")
	}
	d := dxf.NewDrawing()
	for _, it := range items {
		if err := drawRect(d, it.Rect()); err != nil {
			return err
		}
	}
	return d.SaveAs(path)
}

func drawPallet(d *drawing.Drawing, p model.Pallet) error {
	if _, err := d.AddLayer(PalletLayerName, dxf.DefaultColor, table.LT_HIDDEN, true); err != nil {
		return fmt.Errorf("add pallet layer: %w", err)
	}
	return drawRect(d, p.Bounds())
}

func drawRect(d *drawing.Drawing, r model.Rect) error {
	corners := [][2]float64{
		{r.X, r.Y},
		{r.EndX(), r.Y},
		{r.EndX(), r.EndY()},
		{r.X, r.EndY()},
	}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
