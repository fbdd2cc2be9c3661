package engine

import "github.com/piwi3910/PalletStack/internal/model"

// FindOuterSides reports which sides of target face the outside of the
// pattern. A side is cleared when another item shares part of the target's
// span on the perpendicular axis and lies beyond that side.
func FindOuterSides(target model.Item, all []model.Item) model.Sides {
	sides := model.AllSides()
	tol := DefaultTolerance

	for _, other := range all {
		if sameItem(target, other) {
			continue
		}

		if other.StartX < target.EndX-tol && other.EndX > target.StartX+tol {
			if other.StartY >= target.EndY-tol {
				sides[model.SideBack] = false
			}
			if other.EndY <= target.StartY+tol {
				sides[model.SideFront] = false
			}
		}

		if other.StartY < target.EndY-tol && other.EndY > target.StartY+tol {
			if other.StartX >= target.EndX-tol {
				sides[model.SideRight] = false
			}
			if other.EndX <= target.StartX+tol {
				sides[model.SideLeft] = false
			}
		}
	}
	return sides
}

func sameItem(a, b model.Item) bool {
	if a.ID != "" || b.ID != "" {
		return a.ID == b.ID
	}
	return a.Rect() == b.Rect()
}

// UpdateOuterSides recomputes OuterSides for every item in place.
func UpdateOuterSides(items []model.Item) {
	sides := make([]model.Sides, len(items))
	for i := range items {
		sides[i] = FindOuterSides(items[i], items)
	}
	for i := range items {
		items[i].OuterSides = sides[i]
	}
}

// OrientLabel picks how a box is turned within its footprint so that its
// labelled faces (given in box frame, Front being the near length face)
// show on outer sides. A vertical box starts one quarter turn on; the box
// may also be flipped half a turn. It returns the chosen rotation and the
// pallet sides that end up showing a label.
func OrientLabel(item model.Item, labels model.Sides) (int, model.Sides) {
	base := 0
	if item.Orientation == model.Vertical {
		base = 1
	}

	bestRot := base
	var best model.Sides
	bestCount := -1
	for _, flip := range []int{0, 2} {
		rot := (base + flip) % 4
		turned := labels.Rotate(rot)

		var exposed model.Sides
		for s := range turned {
			exposed[s] = turned[s] && item.OuterSides[s]
		}

		if exposed == turned {
			return rot, exposed
		}
		if n := exposed.Count(); n > bestCount {
			bestRot, best, bestCount = rot, exposed, n
		}
	}
	return bestRot, best
}

// ApplyLabels sets LabelRotation and ExposedLabels on every item in place.
// OuterSides must be current.
func ApplyLabels(items []model.Item, labels model.Sides) {
	for i := range items {
		items[i].LabelRotation, items[i].ExposedLabels = OrientLabel(items[i], labels)
	}
}
