package pdfcolumns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackgroundIndex_SortsByTopThenLeft(t *testing.T) {
	idx := NewBackgroundIndex([]Rect{
		{X0: 300, Y0: 100, X1: 500, Y1: 200},
		{X0: 0, Y0: 400, X1: 600, Y1: 500},
		{X0: 0, Y0: 100, X1: 200, Y1: 200},
	})

	require.Equal(t, 3, idx.Len())
	assert.Equal(t, []Rect{
		{X0: 0, Y0: 100, X1: 200, Y1: 200},
		{X0: 300, Y0: 100, X1: 500, Y1: 200},
		{X0: 0, Y0: 400, X1: 600, Y1: 500},
	}, idx.Rects())
}

func TestBackgroundIndex_Membership(t *testing.T) {
	idx := NewBackgroundIndex([]Rect{
		{X0: 0, Y0: 0, X1: 600, Y1: 800},   // page-sized frame, sorted first
		{X0: 50, Y0: 100, X1: 250, Y1: 300}, // side panel
	})

	tests := []struct {
		name     string
		rect     Rect
		expected int
	}{
		{"outside every background", Rect{X0: 700, Y0: 0, X1: 800, Y1: 10}, 0},
		{"inside frame only", Rect{X0: 300, Y0: 400, X1: 500, Y1: 450}, 1},
		{"inside both picks first in sorted order", Rect{X0: 60, Y0: 110, X1: 200, Y1: 200}, 1},
		{"straddling the frame", Rect{X0: 500, Y0: 10, X1: 700, Y1: 20}, 0},
		{"empty rect", Rect{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, idx.Membership(tt.rect))
		})
	}
}

func TestBackgroundIndex_DoesNotAliasInput(t *testing.T) {
	input := []Rect{{X0: 0, Y0: 50, X1: 10, Y1: 60}, {X0: 0, Y0: 10, X1: 10, Y1: 20}}
	idx := NewBackgroundIndex(input)

	assert.Equal(t, Rect{X0: 0, Y0: 50, X1: 10, Y1: 60}, input[0], "input order is untouched")

	rects := idx.Rects()
	rects[0] = Rect{}
	assert.Equal(t, Rect{X0: 0, Y0: 10, X1: 10, Y1: 20}, idx.Rects()[0])
}

func TestObstacleSet(t *testing.T) {
	set := newObstacleSet(
		[]Rect{{X0: 0, Y0: 0, X1: 100, Y1: 100}},
		[]Rect{{X0: 200, Y0: 0, X1: 300, Y1: 100}, {}},
	)

	assert.Equal(t, 3, set.len())

	assert.True(t, set.intersects(Rect{X0: 50, Y0: 50, X1: 250, Y1: 60}))
	assert.False(t, set.intersects(Rect{X0: 100, Y0: 0, X1: 200, Y1: 100}), "touching edges are not overlap")
	assert.False(t, set.intersects(Rect{}))

	assert.True(t, set.contains(Rect{X0: 210, Y0: 10, X1: 290, Y1: 90}))
	assert.Equal(t, 1, set.firstContaining(Rect{X0: 210, Y0: 10, X1: 290, Y1: 90}))
	assert.Equal(t, -1, set.firstContaining(Rect{X0: 90, Y0: 10, X1: 210, Y1: 90}))

	set.add(Rect{X0: 150, Y0: 150, X1: 160, Y1: 160})
	assert.True(t, set.intersects(Rect{X0: 155, Y0: 155, X1: 170, Y1: 170}))
}

func TestObstacleSet_IntersectsOutside(t *testing.T) {
	image := Rect{X0: 100, Y0: 210, X1: 400, Y1: 290}
	set := newObstacleSet([]Rect{image})

	above := Rect{X0: 60, Y0: 100, X1: 600, Y1: 200}
	below := Rect{X0: 60, Y0: 300, X1: 600, Y1: 400}
	overlapping := Rect{X0: 60, Y0: 250, X1: 600, Y1: 400}

	assert.True(t, set.intersectsOutside(Union(above, below), above, below))
	assert.False(t, set.intersectsOutside(Union(above, overlapping), above, overlapping))
	assert.False(t, set.intersectsOutside(above, above, above))
}
