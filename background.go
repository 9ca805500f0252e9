package pdfcolumns

import "sort"

// BackgroundIndex holds the page's vector-drawing rectangles sorted top to
// bottom, then left to right. Text inside a drawn panel belongs to that
// panel's group and must never be merged with text from another group.
type BackgroundIndex struct {
	rects []Rect
	set   *obstacleSet
}

// NewBackgroundIndex sorts a copy of rects by (Y0, X0) and indexes it.
func NewBackgroundIndex(rects []Rect) *BackgroundIndex {
	sorted := make([]Rect, len(rects))
	copy(sorted, rects)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y0 != sorted[j].Y0 {
			return sorted[i].Y0 < sorted[j].Y0
		}
		return sorted[i].X0 < sorted[j].X0
	})

	return &BackgroundIndex{
		rects: sorted,
		set:   newObstacleSet(sorted),
	}
}

// Rects returns the sorted background rectangles.
func (b *BackgroundIndex) Rects() []Rect {
	out := make([]Rect, len(b.rects))
	copy(out, b.rects)
	return out
}

// Len returns the number of background rectangles.
func (b *BackgroundIndex) Len() int {
	return len(b.rects)
}

// Membership returns 0 when r is not inside any background rectangle,
// otherwise 1 + the sorted index of the first one containing it.
func (b *BackgroundIndex) Membership(r Rect) int {
	return b.set.firstContaining(r) + 1
}

// Contains reports whether r lies inside some background rectangle.
func (b *BackgroundIndex) Contains(r Rect) bool {
	return b.set.contains(r)
}

// Intersects reports whether r overlaps some background rectangle.
func (b *BackgroundIndex) Intersects(r Rect) bool {
	return b.set.intersects(r)
}
