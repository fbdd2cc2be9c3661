package engine

import "github.com/piwi3910/PalletStack/internal/model"

// DefaultTolerance lets abutting box edges touch without counting as a
// collision when a pattern is laid out for display.
const DefaultTolerance = 0.1

// ClampTolerance limits a configured tolerance to [0, DefaultTolerance].
func ClampTolerance(tol float64) float64 {
	switch {
	case tol < 0:
		return 0
	case tol > DefaultTolerance:
		return DefaultTolerance
	}
	return tol
}

// Overlaps reports whether two rectangles intersect once each edge is pulled
// in by tol.
func Overlaps(a, b model.Rect, tol float64) bool {
	return a.X < b.X+b.Length-tol && a.X+a.Length > b.X+tol &&
		a.Y < b.Y+b.Width-tol && a.Y+a.Width > b.Y+tol
}

// Collides reports whether r overlaps any of the occupied items.
func Collides(r model.Rect, occupied []model.Item, tol float64) bool {
	for _, it := range occupied {
		if Overlaps(r, it.Rect(), tol) {
			return true
		}
	}
	return false
}

// CollisionPair identifies two overlapping items by index.
type CollisionPair struct {
	A, B int
}

// FindCollisions returns every overlapping item pair.
func FindCollisions(items []model.Item, tol float64) []CollisionPair {
	var pairs []CollisionPair
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if Overlaps(items[i].Rect(), items[j].Rect(), tol) {
				pairs = append(pairs, CollisionPair{A: i, B: j})
			}
		}
	}
	return pairs
}

// OutOfBounds returns the indices of items that leave the pallet by more than tol.
func OutOfBounds(items []model.Item, pallet model.Pallet, tol float64) []int {
	bounds := pallet.Bounds()
	var out []int
	for i, it := range items {
		if !bounds.ContainsRect(it.Rect(), tol) {
			out = append(out, i)
		}
	}
	return out
}

// MarkCollisions sets Colliding on every item that overlaps another item or
// leaves the pallet. Items are updated in place.
func MarkCollisions(items []model.Item, pallet model.Pallet, tol float64) {
	for i := range items {
		items[i].Colliding = false
	}
	for _, p := range FindCollisions(items, tol) {
		items[p.A].Colliding = true
		items[p.B].Colliding = true
	}
	for _, i := range OutOfBounds(items, pallet, tol) {
		items[i].Colliding = true
	}
}
