package engine

import (
	"errors"
	"math"
	"strings"

	"github.com/piwi3910/PalletStack/internal/model"
)

// Direction is the scan order of the placement search.
type Direction int

const (
	DirectionX Direction = iota // fill along X first: Y outer, X inner
	DirectionY                  // fill along Y first: X outer, Y inner
)

func (d Direction) String() string {
	if d == DirectionY {
		return "y"
	}
	return "x"
}

// ParseDirection converts "x" or "y" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "":
		return DirectionX, true
	case "y":
		return DirectionY, true
	default:
		return DirectionX, false
	}
}

// PlacementRequest describes one search for a free slot.
type PlacementRequest struct {
	Orientation   model.Orientation
	Box           model.Box
	Pallet        model.Pallet
	Occupied      []model.Item
	Direction     Direction
	MaxCandidates int // Stop after testing this many candidates, 0 = whole grid
}

// gridCount returns how many grid steps fit in free, or -1 if nothing fits.
func gridCount(free, step float64) int {
	if free < -solveEpsilon {
		return -1
	}
	return int(math.Floor(free/step + solveEpsilon))
}

// FindPlacement scans the pallet on a grid of the box quantum and returns the
// first slot in scan order that collides with no occupied item and whose
// offset can be written as a formula. The placement carries that formula.
// It returns false when the grid is exhausted.
func FindPlacement(req PlacementRequest) (model.Placement, bool, error) {
	if err := req.Pallet.Validate(); err != nil {
		return model.Placement{}, false, err
	}
	step, err := Quantum(req.Box.Length, req.Box.Width)
	if err != nil {
		return model.Placement{}, false, err
	}

	dx, dy := req.Box.Extents(req.Orientation)
	nx := gridCount(req.Pallet.Length-dx, step)
	ny := gridCount(req.Pallet.Width-dy, step)
	if nx < 0 || ny < 0 {
		return model.Placement{}, false, nil
	}

	outer, inner := ny, nx
	if req.Direction == DirectionY {
		outer, inner = nx, ny
	}

	tested := 0
	for o := 0; o <= outer; o++ {
		for i := 0; i <= inner; i++ {
			xi, yi := i, o
			if req.Direction == DirectionY {
				xi, yi = o, i
			}
			x := snap(float64(xi)*step, step)
			y := snap(float64(yi)*step, step)

			if req.MaxCandidates > 0 && tested >= req.MaxCandidates {
				return model.Placement{}, false, nil
			}
			tested++

			if Collides(model.Rect{X: x, Y: y, Length: dx, Width: dy}, req.Occupied, 0) {
				continue
			}
			f, err := Synthesize(x, y, req.Orientation, req.Box, req.Occupied)
			if errors.Is(err, ErrNotExpressible) {
				continue
			}
			if err != nil {
				return model.Placement{}, false, err
			}
			return model.Placement{X: x, Y: y, Orientation: req.Orientation, Formula: f}, true, nil
		}
	}
	return model.Placement{}, false, nil
}
