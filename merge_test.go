package pdfcolumns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeColumns(t *testing.T) {
	tests := []struct {
		name       string
		drawings   []Rect
		vertical   []Rect
		candidates []Rect
		expected   []Rect
	}{
		{
			name:     "empty input",
			expected: nil,
		},
		{
			name:       "single candidate",
			candidates: []Rect{{X0: 0, Y0: 100, X1: 600, Y1: 200}},
			expected:   []Rect{{X0: 0, Y0: 100, X1: 600, Y1: 200}},
		},
		{
			name: "paragraphs in one column merge",
			candidates: []Rect{
				{X0: 0, Y0: 100, X1: 600, Y1: 120},
				{X0: 0, Y0: 130, X1: 600, Y1: 150},
				{X0: 20, Y0: 160, X1: 600, Y1: 180},
			},
			expected: []Rect{{X0: 0, Y0: 100, X1: 600, Y1: 180}},
		},
		{
			name: "separate columns never merge",
			candidates: []Rect{
				{X0: 0, Y0: 100, X1: 290, Y1: 700},
				{X0: 300, Y0: 100, X1: 600, Y1: 700},
			},
			expected: []Rect{
				{X0: 0, Y0: 100, X1: 290, Y1: 700},
				{X0: 300, Y0: 100, X1: 600, Y1: 700},
			},
		},
		{
			name: "title over two columns is not grown over the right column",
			candidates: []Rect{
				{X0: 50, Y0: 60, X1: 600, Y1: 80},
				{X0: 50, Y0: 100, X1: 290, Y1: 700},
				{X0: 310, Y0: 100, X1: 600, Y1: 700},
			},
			expected: []Rect{
				{X0: 50, Y0: 60, X1: 600, Y1: 80},
				{X0: 50, Y0: 100, X1: 290, Y1: 700},
				{X0: 310, Y0: 100, X1: 600, Y1: 700},
			},
		},
		{
			name:     "different backgrounds never merge",
			drawings: []Rect{{X0: 0, Y0: 200, X1: 600, Y1: 300}},
			candidates: []Rect{
				{X0: 0, Y0: 100, X1: 600, Y1: 200},
				{X0: 10, Y0: 210, X1: 590, Y1: 290},
			},
			expected: []Rect{
				{X0: 0, Y0: 100, X1: 600, Y1: 200},
				{X0: 10, Y0: 210, X1: 590, Y1: 290},
			},
		},
		{
			name:     "candidate crossing vertical text is appended twice",
			vertical: []Rect{{X0: 350, Y0: 120, X1: 360, Y1: 130}},
			candidates: []Rect{
				{X0: 0, Y0: 0, X1: 100, Y1: 50},
				{X0: 300, Y0: 100, X1: 400, Y1: 150},
			},
			expected: []Rect{
				{X0: 0, Y0: 0, X1: 100, Y1: 50},
				{X0: 300, Y0: 100, X1: 400, Y1: 150},
				{X0: 300, Y0: 100, X1: 400, Y1: 150},
			},
		},
		{
			name:     "vertical text between paragraphs blocks the merge",
			vertical: []Rect{{X0: 100, Y0: 210, X1: 120, Y1: 290}},
			candidates: []Rect{
				{X0: 0, Y0: 100, X1: 600, Y1: 200},
				{X0: 0, Y0: 300, X1: 600, Y1: 400},
			},
			expected: []Rect{
				{X0: 0, Y0: 100, X1: 600, Y1: 200},
				{X0: 0, Y0: 300, X1: 600, Y1: 400},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := newTestObstacles(tt.drawings, nil)
			for _, v := range tt.vertical {
				obs.vertical.add(v)
			}

			assert.Equal(t, tt.expected, mergeColumns(tt.candidates, obs))
		})
	}
}

func TestMergeColumns_DoesNotModifyInput(t *testing.T) {
	candidates := []Rect{
		{X0: 0, Y0: 100, X1: 600, Y1: 120},
		{X0: 0, Y0: 130, X1: 600, Y1: 150},
	}
	original := append([]Rect(nil), candidates...)

	mergeColumns(candidates, newTestObstacles(nil, nil))

	assert.Equal(t, original, candidates)
}

func TestMergeColumns_PendingCandidatesBlockGrowth(t *testing.T) {
	obs := newTestObstacles(nil, nil)

	// Absorbing the left narrow block would make the wide block cover the
	// right one, which has not been placed yet.
	candidates := []Rect{
		{X0: 0, Y0: 0, X1: 600, Y1: 50},
		{X0: 0, Y0: 60, X1: 250, Y1: 100},
		{X0: 300, Y0: 60, X1: 600, Y1: 100},
	}

	got := mergeColumns(candidates, obs)

	assert.Equal(t, []Rect{
		{X0: 0, Y0: 0, X1: 600, Y1: 50},
		{X0: 0, Y0: 60, X1: 250, Y1: 100},
		{X0: 300, Y0: 60, X1: 600, Y1: 100},
	}, got)
}

func TestMergeColumns_ImagesBlockGrowth(t *testing.T) {
	t.Run("image between paragraphs", func(t *testing.T) {
		obs := newTestObstacles(nil, []Rect{{X0: 100, Y0: 210, X1: 400, Y1: 290}})
		candidates := []Rect{
			{X0: 60, Y0: 100, X1: 600, Y1: 200},
			{X0: 60, Y0: 300, X1: 600, Y1: 400},
		}

		assert.Equal(t, candidates, mergeColumns(candidates, obs))
	})

	t.Run("image already touched by a part", func(t *testing.T) {
		obs := newTestObstacles(nil, []Rect{{X0: 50, Y0: 100, X1: 300, Y1: 300}})
		candidates := []Rect{
			{X0: 60, Y0: 110, X1: 290, Y1: 130},
			{X0: 60, Y0: 400, X1: 600, Y1: 420},
		}

		assert.Equal(t, []Rect{{X0: 60, Y0: 110, X1: 600, Y1: 420}}, mergeColumns(candidates, obs))
	})
}
