package engine

import "presentpack/internal/model"

// quickOutcome applies the two analytic bounds that resolve most
// regions without search. Returns ok=false when neither bound decides
// the instance.
//
// The admission bound places each tile in its own disjoint span x span
// box, where span is the largest bounding-box side over the shapes the
// region actually requires: if that trivial grid tiling has room for
// every tile, the region fits. The rejection bound is the exact
// necessary condition that total tile cells cannot exceed the region
// area.
func quickOutcome(region model.Region, shapes map[int]model.Shape) (model.Outcome, model.Resolution, bool) {
	span := maxShapeSpan(region, shapes)
	if span > 0 {
		perRow := region.Width / span
		perCol := region.Height / span
		if region.TileCount() <= perRow*perCol {
			return model.Fits, model.ResolvedByGridBound, true
		}
	}

	if region.DemandCells(shapes) > region.Area() {
		return model.DoesNotFit, model.ResolvedByCapacity, true
	}

	return model.Unknown, "", false
}

// maxShapeSpan returns the largest bounding-box side among the shapes
// the region requires, or 0 when the region requires nothing. Using
// the measured span instead of a fixed constant keeps the admission
// bound sound for arbitrary shape geometries.
func maxShapeSpan(region model.Region, shapes map[int]model.Shape) int {
	span := 0
	for id, n := range region.Required {
		if n <= 0 {
			continue
		}
		shape, ok := shapes[id]
		if !ok {
			continue
		}
		h, w := shape.BoundingBox()
		if h > span {
			span = h
		}
		if w > span {
			span = w
		}
	}
	return span
}
