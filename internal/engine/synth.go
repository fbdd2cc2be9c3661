package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PalletStack/internal/formula"
	"github.com/piwi3910/PalletStack/internal/model"
)

// ErrNotExpressible is returned when an offset is not a non-negative integer
// combination of the box length and width.
var ErrNotExpressible = errors.New("offset is not a combination of box length and width")

// Synthesize writes the formula that places a box of orientation o with its
// origin at (x, y). Neighbours in occupied steer the choice between
// equivalent decompositions.
func Synthesize(x, y float64, o model.Orientation, box model.Box, occupied []model.Item) (string, error) {
	if err := box.Validate(); err != nil {
		return "", err
	}

	dx, dy := box.Extents(o)
	target := model.Rect{X: x, Y: y, Length: dx, Width: dy}

	xs, ok := ChooseSolution(SolveAxis(x, box.Length, box.Width), CountNeighbors(target, occupied, AxisX, box))
	if !ok {
		return "", fmt.Errorf("x offset %g: %w", x, ErrNotExpressible)
	}
	ys, ok := ChooseSolution(SolveAxis(y, box.Length, box.Width), CountNeighbors(target, occupied, AxisY, box))
	if !ok {
		return "", fmt.Errorf("y offset %g: %w", y, ErrNotExpressible)
	}

	return formula.Format(model.BoxFormula{
		Orientation: o,
		XLength:     float64(xs.A),
		XWidth:      float64(xs.B),
		YLength:     float64(ys.A),
		YWidth:      float64(ys.B),
	}), nil
}
