package pdfcolumns

// mergeColumns folds the extended candidates into column blocks. The order
// of candidates matters: each one is offered to the existing blocks in turn
// and the first block that can absorb it without swallowing a neighbour
// wins.
func mergeColumns(candidates []Rect, obs *pageObstacles) []Rect {
	if len(candidates) == 0 {
		return nil
	}

	blocks := newArena(candidates[:1])
	remaining := newArena(candidates[1:])

	for i, bb := range remaining.rects {
		merged := false
		target := 0
		var temp Rect

		for j, nbb := range blocks.rects {
			// Never join across columns.
			if !OverlapsX(nbb, bb) {
				continue
			}

			// Never join across different backgrounds.
			if obs.background.Membership(nbb) != obs.background.Membership(bb) {
				continue
			}

			temp = Union(bb, nbb)

			// Never grow over an image neither part already touches.
			if obs.images.intersectsOutside(temp, bb, nbb) {
				continue
			}

			merged = canExtend(temp, nbb, blocks, obs.vertical)
			if merged {
				target = j
				break
			}
		}

		if !merged {
			blocks.rects = append(blocks.rects, bb)
			blocks.dead = append(blocks.dead, false)
			target = len(blocks.rects) - 1
			temp = bb
		}

		// A grown block must not cover a candidate that is still waiting
		// to be placed.
		if canExtend(temp, bb, remaining, obs.vertical) {
			blocks.rects[target] = temp
		} else {
			blocks.rects = append(blocks.rects, bb)
			blocks.dead = append(blocks.dead, false)
		}

		remaining.kill(i)
	}

	return blocks.live()
}
