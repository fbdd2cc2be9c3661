package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/model"
)

// dxfTolerance is the distance under which two endpoints count as joined and
// a rectangle side counts as matching a box extent.
const dxfTolerance = 0.5

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

type outline []model.Point2D

func (o outline) bounds() model.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range o {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return model.Rect{X: minX, Y: minY, Length: maxX - minX, Width: maxY - minY}
}

// ImportDXF reads box footprints drawn as closed LWPOLYLINEs or chains of
// LINEs and converts them into a pattern definition for box. The lower-left
// corner of the drawing is the pallet origin. Shapes that match neither box
// orientation, or whose offsets are not expressible in box lengths and
// widths, are reported and skipped.
func ImportDXF(path string, box model.Box) ImportResult {
	result := ImportResult{Definition: model.PatternDefinition{PatternDefinition: []model.PatternEntry{}}}

	if err := box.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			o := make(outline, len(e.Vertices))
			for i, v := range e.Vertices {
				o[i] = model.Point2D{X: v[0], Y: v[1]}
			}
			outlines = append(outlines, o)

		case *entity.Line:
			segments = append(segments, segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})

		case *entity.Circle, *entity.Arc:
			result.Warnings = append(result.Warnings, "Skipped curved entity")
		}
	}

	outlines = append(outlines, chainSegments(segments, dxfTolerance)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	rects := make([]model.Rect, 0, len(outlines))
	for _, o := range outlines {
		if len(o) != 4 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped shape with %d corners", len(o)))
			continue
		}
		rects = append(rects, o.bounds())
	}

	items, warnings := rectsToItems(rects, box)
	result.Warnings = append(result.Warnings, warnings...)

	var placed []model.Item
	for _, it := range items {
		f, err := engine.Synthesize(it.StartX, it.StartY, it.Orientation, box, placed)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Box at (%.1f, %.1f): %v", it.StartX, it.StartY, err))
			continue
		}
		it.Formula = f
		placed = append(placed, it)
		result.Definition.Append(f)
	}

	return result
}

// rectsToItems matches each rectangle against the box footprints, moves the
// set so its lower-left corner is the origin and orders it row by row.
func rectsToItems(rects []model.Rect, box model.Box) ([]model.Item, []string) {
	if len(rects) == 0 {
		return nil, nil
	}

	var warnings []string
	origin := rects[0]
	for _, r := range rects[1:] {
		origin = origin.Union(r)
	}

	items := make([]model.Item, 0, len(rects))
	for _, r := range rects {
		o, ok := matchOrientation(r, box)
		if !ok {
			warnings = append(warnings,
				fmt.Sprintf("Skipped %.1f x %.1f shape that does not match the box", r.Length, r.Width))
			continue
		}
		dx, dy := box.Extents(o)
		x := snapTo(r.X-origin.X, 0.1)
		y := snapTo(r.Y-origin.Y, 0.1)
		items = append(items, model.NewItem(o, x, y, dx, dy))
	}

	sort.SliceStable(items, func(i, j int) bool {
		if math.Abs(items[i].StartY-items[j].StartY) > dxfTolerance {
			return items[i].StartY < items[j].StartY
		}
		return items[i].StartX < items[j].StartX
	})
	return items, warnings
}

func matchOrientation(r model.Rect, box model.Box) (model.Orientation, bool) {
	for _, o := range []model.Orientation{model.Horizontal, model.Vertical} {
		dx, dy := box.Extents(o)
		if math.Abs(r.Length-dx) <= dxfTolerance && math.Abs(r.Width-dy) <= dxfTolerance {
			return o, true
		}
	}
	return 0, false
}

func snapTo(v, step float64) float64 {
	return math.Round(v/step) * step
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
// Open chains are dropped.
func chainSegments(segs []segment, tolerance float64) []outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := outline{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b model.Point2D, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
