package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCompatibilityScore_Examples(t *testing.T) {
	tests := []struct {
		name string
		a, b []int
		want int
	}{
		{"opposite", answers(5, 5, 5, 5, 5), answers(1, 1, 1, 1, 1), 0},
		{"identical", answers(3, 3, 3), answers(3, 3, 3), 100},
		{"close", answers(5, 3, 1), answers(4, 3, 2), 83},
		{"empty first", nil, answers(1, 2), 0},
		{"empty second", answers(1, 2), []int{}, 0},
		{"truncates to shorter", answers(2, 4, 1, 1, 1), answers(2, 4), 100},
		{"floor boundary", tenOf(3), withDiff(tenOf(3), 6), 85},
		{"just below floor", tenOf(3), withDiff(tenOf(3), 7), 83},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateCompatibilityScore(tt.a, tt.b))
		})
	}
}

func TestCalculateCompatibilityScore_Symmetric(t *testing.T) {
	vectors := [][]int{
		answers(1, 2, 3, 4, 5),
		answers(5, 4, 3, 2, 1),
		answers(3, 3, 3, 3, 3),
		answers(1, 5, 1, 5, 2),
		answers(2, 2),
	}

	for _, a := range vectors {
		assert.Equal(t, 100, CalculateCompatibilityScore(a, a))
		for _, b := range vectors {
			assert.Equal(t, CalculateCompatibilityScore(a, b), CalculateCompatibilityScore(b, a), "score(%v, %v)", a, b)
		}
	}
}
