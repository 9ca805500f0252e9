package pdfcolumns

import "github.com/tidwall/rtree"

// obstacleSet answers intersection and containment queries against a fixed
// set of rectangles. Each entry keeps its position in the source slice so
// callers that care about order (background membership) can pick the first
// match.
type obstacleSet struct {
	tree  rtree.RTreeG[int]
	rects []Rect
}

func newObstacleSet(groups ...[]Rect) *obstacleSet {
	s := &obstacleSet{}
	for _, group := range groups {
		for _, r := range group {
			s.add(r)
		}
	}
	return s
}

func (s *obstacleSet) add(r Rect) {
	idx := len(s.rects)
	s.rects = append(s.rects, r)
	// Empty rectangles can neither intersect nor contain anything.
	if r.IsEmpty() {
		return
	}
	s.tree.Insert(treeMin(r), treeMax(r), idx)
}

func (s *obstacleSet) len() int {
	return len(s.rects)
}

// intersects reports whether r shares a non-empty area with any member.
func (s *obstacleSet) intersects(r Rect) bool {
	if r.IsEmpty() || s.tree.Len() == 0 {
		return false
	}
	found := false
	s.tree.Search(treeMin(r), treeMax(r), func(_, _ [2]float64, idx int) bool {
		// The tree treats touching edges as hits; only real overlap counts.
		if Intersects(r, s.rects[idx]) {
			found = true
			return false
		}
		return true
	})
	return found
}

// intersectsOutside reports whether r overlaps a member that neither a nor b
// overlaps.
func (s *obstacleSet) intersectsOutside(r, a, b Rect) bool {
	if r.IsEmpty() || s.tree.Len() == 0 {
		return false
	}
	found := false
	s.tree.Search(treeMin(r), treeMax(r), func(_, _ [2]float64, idx int) bool {
		m := s.rects[idx]
		if Intersects(r, m) && !Intersects(a, m) && !Intersects(b, m) {
			found = true
			return false
		}
		return true
	})
	return found
}

// firstContaining returns the lowest index of a member that contains r, or
// -1 when none does.
func (s *obstacleSet) firstContaining(r Rect) int {
	if r.IsEmpty() || s.tree.Len() == 0 {
		return -1
	}
	first := -1
	s.tree.Search(treeMin(r), treeMax(r), func(_, _ [2]float64, idx int) bool {
		if (first == -1 || idx < first) && Contains(s.rects[idx], r) {
			first = idx
		}
		return true
	})
	return first
}

// contains reports whether any member contains r.
func (s *obstacleSet) contains(r Rect) bool {
	return s.firstContaining(r) >= 0
}

func treeMin(r Rect) [2]float64 {
	return [2]float64{float64(r.X0), float64(r.Y0)}
}

func treeMax(r Rect) [2]float64 {
	return [2]float64{float64(r.X1), float64(r.Y1)}
}
