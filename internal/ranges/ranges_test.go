package ranges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		ids      []int64
		expected string
	}{
		{
			name:     "empty",
			ids:      nil,
			expected: "",
		},
		{
			name:     "single id",
			ids:      []int64{42},
			expected: "42",
		},
		{
			name:     "mixed ranges and singles",
			ids:      []int64{1, 2, 3, 5, 7, 8, 9},
			expected: "1-3,5,7-9",
		},
		{
			name:     "unsorted with duplicates",
			ids:      []int64{9, 1, 3, 2, 8, 7, 5, 3, 1},
			expected: "1-3,5,7-9",
		},
		{
			name:     "all consecutive",
			ids:      []int64{10, 11, 12, 13},
			expected: "10-13",
		},
		{
			name:     "no consecutive",
			ids:      []int64{2, 4, 6},
			expected: "2,4,6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.ids))
		})
	}
}
