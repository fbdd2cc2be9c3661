package engine

import (
	"math"

	"github.com/piwi3910/PalletStack/internal/model"
)

// solveEpsilon is the tolerance when matching a·unitA + b·unitB against a target.
const solveEpsilon = 1e-6

// Solution is one decomposition target = A·unitA + B·unitB.
type Solution struct {
	A int `json:"a"`
	B int `json:"b"`
}

// SolveAxis enumerates every non-negative integer pair (a, b) with
// a·unitA + b·unitB == target. Results are sorted by descending A, then
// ascending B. A zero target yields exactly {0, 0}; a negative target or a
// non-positive unit yields nothing.
func SolveAxis(target, unitA, unitB float64) []Solution {
	if math.Abs(target) < solveEpsilon {
		return []Solution{{A: 0, B: 0}}
	}
	if target < 0 || unitA <= 0 || unitB <= 0 {
		return nil
	}

	eps := solveEpsilon * math.Max(1, target)
	maxA := int(math.Floor(target/unitA + solveEpsilon))

	// Walking a downwards gives descending A; each a has at most one b,
	// so B order within equal A never has to be resolved.
	var sols []Solution
	for a := maxA; a >= 0; a-- {
		rem := target - float64(a)*unitA
		b := math.Round(rem / unitB)
		if b < 0 {
			continue
		}
		if math.Abs(b*unitB-rem) <= eps {
			sols = append(sols, Solution{A: a, B: int(b)})
		}
	}
	return sols
}

// Axis selects a pallet axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// NeighborCounts tallies the items before a target along one axis by the
// box dimension they span on that axis.
type NeighborCounts struct {
	LengthMajor int
	WidthMajor  int
}

// Total returns the number of counted neighbours.
func (n NeighborCounts) Total() int {
	return n.LengthMajor + n.WidthMajor
}

// CountNeighbors counts the occupied items that sit in target's lane on the
// given axis and end at or before target's start. An item is length-major
// when its extent along the axis equals the box length, width-major when it
// equals the box width.
func CountNeighbors(target model.Rect, occupied []model.Item, axis Axis, box model.Box) NeighborCounts {
	var nc NeighborCounts
	tol := DefaultTolerance

	for _, it := range occupied {
		r := it.Rect()
		var inLane, before bool
		var extent float64
		if axis == AxisX {
			inLane = r.Y < target.EndY()-tol && r.EndY() > target.Y+tol
			before = r.EndX() <= target.X+tol
			extent = r.Length
		} else {
			inLane = r.X < target.EndX()-tol && r.EndX() > target.X+tol
			before = r.EndY() <= target.Y+tol
			extent = r.Width
		}
		if !inLane || !before {
			continue
		}

		switch {
		case math.Abs(extent-box.Length) < tol:
			nc.LengthMajor++
		case math.Abs(extent-box.Width) < tol:
			nc.WidthMajor++
		}
	}
	return nc
}

// ChooseSolution picks one decomposition from sorted solutions. With no
// neighbours the first solution wins. Otherwise the first solution is kept
// when its own lean (A >= B counts as length-major) agrees with the
// neighbour majority (ties count as length-major), else the second one is
// taken. It returns false when there is nothing to choose from.
func ChooseSolution(sols []Solution, nc NeighborCounts) (Solution, bool) {
	switch {
	case len(sols) == 0:
		return Solution{}, false
	case len(sols) == 1 || nc.Total() == 0:
		return sols[0], true
	}

	lengthMajority := nc.LengthMajor >= nc.WidthMajor
	topIsLengthMajor := sols[0].A >= sols[0].B
	if lengthMajority == topIsLengthMajor {
		return sols[0], true
	}
	return sols[1], true
}
