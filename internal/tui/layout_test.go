package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateHeights(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		sections []sectionSpec
		expected []int
	}{
		{
			name:     "exact minimums",
			total:    5,
			sections: []sectionSpec{{Min: 2, Weight: 1}, {Min: 3, Weight: 0}},
			expected: []int{2, 3},
		},
		{
			name:     "surplus goes to weighted section",
			total:    10,
			sections: []sectionSpec{{Min: 2, Weight: 1}, {Min: 3, Weight: 0}},
			expected: []int{7, 3},
		},
		{
			name:     "surplus split by weight",
			total:    11,
			sections: []sectionSpec{{Min: 1, Weight: 1}, {Min: 1, Weight: 2}},
			expected: []int{4, 7},
		},
		{
			name:     "rounding leftover to earliest weighted",
			total:    6,
			sections: []sectionSpec{{Min: 1, Weight: 1}, {Min: 1, Weight: 1}, {Min: 1, Weight: 1}},
			expected: []int{2, 2, 2},
		},
		{
			name:     "deficit shrinks bottom up",
			total:    4,
			sections: []sectionSpec{{Min: 3, Weight: 1}, {Min: 4, Weight: 1}},
			expected: []int{3, 1},
		},
		{
			name:     "never below one line",
			total:    1,
			sections: []sectionSpec{{Min: 5, Weight: 1}, {Min: 5, Weight: 1}},
			expected: []int{1, 1},
		},
		{
			name:     "no weighted sections keeps minimums",
			total:    20,
			sections: []sectionSpec{{Min: 2, Weight: 0}, {Min: 2, Weight: 0}},
			expected: []int{2, 2},
		},
		{
			name:     "empty",
			total:    10,
			sections: nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, allocateHeights(tt.total, tt.sections))
		})
	}
}

func TestAllocateHeightsSumsToTotal(t *testing.T) {
	sections := []sectionSpec{{Min: 2, Weight: 3}, {Min: 1, Weight: 1}, {Min: 4, Weight: 2}}
	for total := 10; total < 50; total++ {
		heights := allocateHeights(total, sections)
		sum := 0
		for _, h := range heights {
			sum += h
		}
		assert.Equal(t, total, sum, "total=%d", total)
	}
}
