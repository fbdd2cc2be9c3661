package model

// The canvas shows the pallet with its width running left to right and its
// length running top to bottom, so pallet X maps to canvas Y and pallet Y to
// canvas X. ToCanvas and FromCanvas are the only places that swap is done.

// CanvasRect is a rectangle in canvas units (pixels or PDF mm).
type CanvasRect struct {
	X, Y, W, H float64
}

// ToCanvas maps a pallet-space rectangle to canvas space at the given scale.
func ToCanvas(r Rect, scale float64) CanvasRect {
	return CanvasRect{
		X: r.Y * scale,
		Y: r.X * scale,
		W: r.Width * scale,
		H: r.Length * scale,
	}
}

// FromCanvas maps a canvas point back to pallet space.
func FromCanvas(cx, cy, scale float64) Point2D {
	if scale == 0 {
		return Point2D{}
	}
	return Point2D{X: cy / scale, Y: cx / scale}
}

// CanvasSize returns the canvas extent of the pallet at the given scale.
func CanvasSize(p Pallet, scale float64) (w, h float64) {
	c := ToCanvas(p.Bounds(), scale)
	return c.W, c.H
}

// FitScale returns the largest scale at which the pallet fits in maxW by maxH canvas units.
func FitScale(p Pallet, maxW, maxH float64) float64 {
	if p.Length <= 0 || p.Width <= 0 {
		return 0
	}
	sx := maxW / p.Width
	sy := maxH / p.Length
	if sy < sx {
		return sy
	}
	return sx
}
