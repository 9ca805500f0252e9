package pdfcolumns

// arena is a fixed list of rectangles where consumed slots are tombstoned
// rather than removed, so indices stay valid while passes iterate.
type arena struct {
	rects []Rect
	dead  []bool
}

func newArena(rects []Rect) *arena {
	a := &arena{
		rects: make([]Rect, len(rects)),
		dead:  make([]bool, len(rects)),
	}
	copy(a.rects, rects)
	return a
}

func (a *arena) len() int {
	return len(a.rects)
}

func (a *arena) kill(i int) {
	a.dead[i] = true
}

// live returns the rectangles that have not been tombstoned, in order.
func (a *arena) live() []Rect {
	out := make([]Rect, 0, len(a.rects))
	for i, r := range a.rects {
		if !a.dead[i] {
			out = append(out, r)
		}
	}
	return out
}

// canExtend reports whether bb may grow into temp without swallowing any
// other rectangle in others. Slots equal to bb and tombstoned slots are
// ignored. Any overlap between temp and a vertical-text obstacle fails the
// check as soon as others holds at least one slot. Growing across vertical
// text is refused on purpose; do not turn this into an allowance.
func canExtend(temp, bb Rect, others *arena, vertical *obstacleSet) bool {
	for i, b := range others.rects {
		if !vertical.intersects(temp) && (others.dead[i] || b == bb || !Intersects(temp, b)) {
			continue
		}
		return false
	}
	return true
}

// extendRight widens every candidate to the right page edge where nothing
// stands in the way. Candidates are updated in place, so later candidates
// are checked against the already widened ones.
func extendRight(candidates []Rect, width int, obs *pageObstacles) []Rect {
	slots := newArena(candidates)

	for i, bb := range slots.rects {
		// Panels and images keep their authored width.
		if obs.background.Contains(bb) || obs.images.contains(bb) {
			continue
		}

		temp := bb
		temp.X1 = width

		if obs.all.intersects(temp) {
			continue
		}

		if canExtend(temp, bb, slots, obs.vertical) {
			slots.rects[i] = temp
		}
	}

	return slots.live()
}
