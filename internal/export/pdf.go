// Package export writes pallet layers and pattern libraries to PDF, DXF and
// XLSX documents, including QR-coded box labels.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/model"
)

// rgb is a fill or stroke colour.
type rgb struct {
	R, G, B int
}

var (
	horizontalColor = rgb{R: 33, G: 150, B: 243}  // blue
	verticalColor   = rgb{R: 76, G: 175, B: 80}   // green
	collisionColor  = rgb{R: 244, G: 67, B: 54}   // red
	palletColor     = rgb{R: 210, G: 180, B: 140} // wood
	labelMarkColor  = rgb{R: 255, G: 152, B: 0}   // orange
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// pdfRenderer draws a laid-out pattern onto the current PDF page.
type pdfRenderer struct {
	pdf     *fpdf.Fpdf
	offsetX float64
	offsetY float64
}

func (r *pdfRenderer) Clear() {}

func (r *pdfRenderer) DrawPallet(c model.CanvasRect) {
	r.pdf.SetFillColor(palletColor.R, palletColor.G, palletColor.B)
	r.pdf.SetDrawColor(100, 100, 100)
	r.pdf.SetLineWidth(0.5)
	r.pdf.Rect(r.offsetX+c.X, r.offsetY+c.Y, c.W, c.H, "FD")
}

func (r *pdfRenderer) DrawItem(it model.Item, c model.CanvasRect) {
	x, y := r.offsetX+c.X, r.offsetY+c.Y

	col := horizontalColor
	if it.Orientation == model.Vertical {
		col = verticalColor
	}
	if it.Colliding {
		col = collisionColor
	}
	r.pdf.SetFillColor(col.R, col.G, col.B)
	r.pdf.SetDrawColor(30, 30, 30)
	r.pdf.SetLineWidth(0.3)
	r.pdf.Rect(x, y, c.W, c.H, "FD")

	drawLabelMarks(r.pdf, it, x, y, c.W, c.H)

	if c.W > 8 && c.H > 6 {
		pdf := r.pdf
		pdf.SetFont("Helvetica", "", labelFontSize(c.W, c.H))
		pdf.SetTextColor(0, 0, 0)
		text := fmt.Sprintf("%d", it.Slot+1)
		w := pdf.GetStringWidth(text)
		pdf.SetXY(x+(c.W-w)/2, y+c.H/2-2)
		pdf.CellFormat(w, 4, text, "", 0, "C", false, 0, "")
	}
}

// drawLabelMarks draws a thick stroke on every canvas edge where the item
// shows a box label on the outside of the pattern. Pallet X runs down the
// canvas and pallet Y runs across it.
func drawLabelMarks(pdf *fpdf.Fpdf, it model.Item, x, y, w, h float64) {
	pdf.SetDrawColor(labelMarkColor.R, labelMarkColor.G, labelMarkColor.B)
	pdf.SetLineWidth(0.9)
	inset := 0.6
	for side := model.SideBack; side <= model.SideLeft; side++ {
		if !it.OuterSides[side] || !it.ExposedLabels[side] {
			continue
		}
		switch side {
		case model.SideBack:
			pdf.Line(x+w-inset, y+inset, x+w-inset, y+h-inset)
		case model.SideRight:
			pdf.Line(x+inset, y+h-inset, x+w-inset, y+h-inset)
		case model.SideFront:
			pdf.Line(x+inset, y+inset, x+inset, y+h-inset)
		case model.SideLeft:
			pdf.Line(x+inset, y+inset, x+w-inset, y+inset)
		}
	}
}

// ExportPDF writes one page per assigned layer of the session, showing the
// pallet, the boxes coloured by orientation or collision and the outward
// label marks, followed by a summary page.
func ExportPDF(path string, s *engine.Session) error {
	layers := s.Layers()
	if len(layers) == 0 {
		return fmt.Errorf("no layers to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, ls := range layers {
		pdf.AddPage()
		renderLayerPage(pdf, s, ls)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, s, layers)

	return pdf.OutputFileAndClose(path)
}

// renderLayerPage draws a single layer on the current PDF page.
func renderLayerPage(pdf *fpdf.Fpdf, s *engine.Session, ls *engine.LayerState) {
	stats := s.Stats(ls.Layer)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Layer %s: %s (pallet %.0f x %.0f mm)", ls.Layer, ls.Pattern, s.Pallet.Length, s.Pallet.Width)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	line := fmt.Sprintf("Box %.0f x %.0f x %.0f mm | Boxes: %d | Colliding: %d | Efficiency: %.1f%%",
		s.Box.Length, s.Box.Width, s.Box.Height, stats.Boxes, stats.Colliding, stats.Efficiency)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, line, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	// A private model keeps the session's on-screen scale untouched.
	pm := engine.NewPatternModel(s.Pallet, s.Box, ls.Model.Items())
	pm.SetTolerance(s.Tolerance)
	pm.SetLabels(s.Labels)
	pm.SetScale(drawWidth, drawHeight)

	canvasW, canvasH := model.CanvasSize(s.Pallet, pm.Scale())
	r := &pdfRenderer{
		pdf:     pdf,
		offsetX: marginLeft + (drawWidth-canvasW)/2,
		offsetY: drawAreaTop,
	}
	display := pm.LayoutAndDraw(s.Centered, r)

	drawDimensionAnnotations(pdf, s.Pallet, r.offsetX, r.offsetY, canvasW, canvasH)
	drawFormulaLegend(pdf, display, r.offsetY+canvasH+6)

	if ls.Rejected != nil {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, pageHeight-marginBottom)
		pdf.CellFormat(drawWidth, 4, fmt.Sprintf("Rejected slots: %v", engine.RejectedSlots(ls.Rejected)), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}

// drawDimensionAnnotations adds the pallet width below and the pallet
// length beside the drawing.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, pallet model.Pallet, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", pallet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%.0f mm", pallet.Length)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX-3-lLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawFormulaLegend lists the slot number and formula of every box.
func drawFormulaLegend(pdf *fpdf.Fpdf, items []model.Item, startY float64) {
	if len(items) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Formulas:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, it := range items {
		col := horizontalColor
		if it.Orientation == model.Vertical {
			col = verticalColor
		}
		if it.Colliding {
			col = collisionColor
		}
		label := fmt.Sprintf("%d: %s", it.Slot+1, it.Formula)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom-5 {
			return
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final page with per-layer statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, s *engine.Session, layers []*engine.LayerState) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Pallet Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	summaryItems := []struct {
		label string
		value string
	}{
		{"Pallet", fmt.Sprintf("%.0f x %.0f mm", s.Pallet.Length, s.Pallet.Width)},
		{"Box", fmt.Sprintf("%.0f x %.0f x %.0f mm", s.Box.Length, s.Box.Width, s.Box.Height)},
		{"Labelled faces", labelledFaces(s.Labels)},
		{"Boxes per pallet", fmt.Sprintf("%d", countBoxes(s, layers))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Layers", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{25, 70, 30, 30, 35, 60}
	headers := []string{"Layer", "Pattern", "Boxes", "Colliding", "Efficiency", "Pattern bounds"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, ls := range layers {
		st := s.Stats(ls.Layer)
		rowData := []string{
			string(ls.Layer),
			ls.Pattern,
			fmt.Sprintf("%d", st.Boxes),
			fmt.Sprintf("%d", st.Colliding),
			fmt.Sprintf("%.1f%%", st.Efficiency),
			fmt.Sprintf("%.0f x %.0f mm", st.Bounds.Length, st.Bounds.Width),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PalletStack", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

func labelledFaces(labels model.Sides) string {
	out := ""
	for side := model.SideBack; side <= model.SideLeft; side++ {
		if !labels[side] {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += side.String()
	}
	if out == "" {
		return "none"
	}
	return out
}

// countBoxes returns the number of boxes on a pallet built from the layers.
func countBoxes(s *engine.Session, layers []*engine.LayerState) int {
	total := 0
	for _, ls := range layers {
		total += s.Stats(ls.Layer).Boxes
	}
	return total
}
