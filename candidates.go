package pdfcolumns

import "sort"

// pageObstacles is everything on a page that text blocks must respect.
type pageObstacles struct {
	background *BackgroundIndex
	images     *obstacleSet
	vertical   *obstacleSet
	// all combines background, image and vertical rectangles for the
	// right-extension intersection test.
	all *obstacleSet
}

// buildCandidates turns the page's text blocks into layout candidates.
// Blocks whose first line is not horizontal are recorded as obstacles on
// obs.vertical instead.
func buildCandidates(blocks []TextBlock, obs *pageObstacles, excludeImageText bool) []Rect {
	var candidates []Rect

	for _, block := range blocks {
		if excludeImageText && obs.images.contains(block.Box) {
			continue
		}

		if len(block.Lines) == 0 {
			continue
		}

		// The whole block is treated as vertical once its first line is.
		if !block.Lines[0].Dir.IsHorizontal() {
			obs.vertical.add(block.Box)
			continue
		}

		var box Rect
		for _, line := range block.Lines {
			if line.qualifies() {
				box = Union(box, line.Box)
			}
		}

		if !box.IsEmpty() {
			candidates = append(candidates, box)
		}
	}

	sortCandidates(candidates, obs.background)

	return candidates
}

// sortCandidates orders candidates by background group, then top, then left.
func sortCandidates(candidates []Rect, background *BackgroundIndex) {
	type keyed struct {
		rect  Rect
		group int
	}

	keys := make([]keyed, len(candidates))
	for i, c := range candidates {
		keys[i] = keyed{rect: c, group: background.Membership(c)}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.group != b.group {
			return a.group < b.group
		}
		if a.rect.Y0 != b.rect.Y0 {
			return a.rect.Y0 < b.rect.Y0
		}
		return a.rect.X0 < b.rect.X0
	})

	for i, k := range keys {
		candidates[i] = k.rect
	}
}
