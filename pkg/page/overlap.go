package page

import (
	"github.com/scantools/bubble-review/pkg/geometry"
)

// ResolveTotalOverlaps merges tight boxes whose center points fall within
// each other. Two detections related that way cover the same text, which
// would duplicate OCR output; boxes merely touching at the edges are kept
// apart.
//
// The merge is greedy: boxes are consumed front to back, each seed
// absorbing every remaining box that passes the center test against it.
// The tight collection is replaced by the result, ordered by seed.
func (p *PageData) ResolveTotalOverlaps() {
	queue := make([]geometry.Box, len(p.Boxes))
	copy(queue, p.Boxes)

	merged := make([]geometry.Box, 0, len(queue))
	for len(queue) > 0 {
		seed := queue[0]
		queue = queue[1:]

		// Matches are found against the seed, then folded in left to
		// right. The grown box is not re-tested against the remainder.
		acc := seed
		rest := queue[:0]
		for _, b := range queue {
			if seed.OverlapsCenter(b) {
				acc = acc.Merge(b)
			} else {
				rest = append(rest, b)
			}
		}
		queue = rest
		merged = append(merged, acc)
	}

	p.Boxes = merged
}

// ResolveOverlaps clusters the boxes of kind from, merging every box that
// covers more than threshold percent (0-100) of the smaller box in a pair,
// and replaces the boxes of kind to with the result. The two kinds may name
// the same collection.
//
// The working set is unordered and duplicates collapse, so when three or
// more boxes overlap in a chain the grouping depends on pick order. Callers
// get some valid greedy clustering, not a canonical one.
func (p *PageData) ResolveOverlaps(from, to BoxKind, threshold float64) {
	source := *p.BoxesOf(from)
	pending := make(map[geometry.Box]struct{}, len(source))
	for _, b := range source {
		pending[b] = struct{}{}
	}

	merged := make([]geometry.Box, 0, len(pending))
	for len(pending) > 0 {
		var seed geometry.Box
		for b := range pending {
			seed = b
			break
		}
		delete(pending, seed)

		acc := seed
		for b := range pending {
			if seed.Overlaps(b, threshold) {
				acc = acc.Merge(b)
				delete(pending, b)
			}
		}
		merged = append(merged, acc)
	}

	*p.BoxesOf(to) = merged
}
