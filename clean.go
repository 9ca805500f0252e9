package pdfcolumns

import "sort"

// rowTolerance is how far apart, in page units, the bottom edges of two
// blocks may be while still counting as the same row.
const rowTolerance = 10

// cleanBlocks drops consecutive duplicates and orders blocks that share a
// row from left to right.
func cleanBlocks(blocks []Rect) []Rect {
	if len(blocks) < 2 {
		return blocks
	}

	deduped := make([]Rect, 0, len(blocks))
	for i, b := range blocks {
		if i > 0 && b == blocks[i-1] {
			continue
		}
		deduped = append(deduped, b)
	}

	sortRowBands(deduped)

	return deduped
}

// sortRowBands sorts each run of blocks whose Y1 stays within rowTolerance
// of the run's first block by X0. Runs keep their relative order.
func sortRowBands(blocks []Rect) {
	start := 0
	for i := 1; i <= len(blocks); i++ {
		if i < len(blocks) && abs(blocks[i].Y1-blocks[start].Y1) <= rowTolerance {
			continue
		}
		if i-start > 1 {
			band := blocks[start:i]
			sort.SliceStable(band, func(a, b int) bool {
				return band[a].X0 < band[b].X0
			})
		}
		start = i
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
