package engine

import (
	"math"

	"github.com/piwi3910/PalletStack/internal/model"
)

// quantumScale is the grid resolution of the placement search: 0.1 mm.
const quantumScale = 10.0

// GCD returns the greatest common divisor of a and b.
func GCD(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Quantum returns the grid step for a box: the greatest common divisor of
// its length and width at 0.1 mm resolution. Every offset that can be
// written as a·length + b·width is a multiple of it.
func Quantum(length, width float64) (float64, error) {
	if length <= 0 || width <= 0 {
		return 0, model.NewError(model.CodeDegenerateGeometry,
			"box dimensions must be positive, got %gx%g", length, width)
	}
	g := GCD(int64(math.Round(length*quantumScale)), int64(math.Round(width*quantumScale)))
	if g == 0 {
		return 0, model.NewError(model.CodeDegenerateGeometry,
			"box dimensions %gx%g are below the 0.1 mm grid", length, width)
	}
	return float64(g) / quantumScale, nil
}

// snap rounds v to the nearest multiple of step, measured at grid resolution.
func snap(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(math.Round(v/step)*step*quantumScale) / quantumScale
}
