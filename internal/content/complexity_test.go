package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateComplexity(t *testing.T) {
	tests := []struct {
		name string
		goal string
		want int
	}{
		{"empty goal is minimal", "", MinComplexity},
		{"plain goal scores the base", "learn python", 3},
		{"modest goal scores below base", "learn guitar as a hobby", 2},
		{"ambition markers raise the score", "master piano from scratch", 7},
		{"compound goal adds one", "learn piano and violin", 4},
		{"long statement adds one", "learn to cook healthy meals for my family every single day of the week", 4},
		{"stacked ambition clamps at max", "master photography, become a professional, and launch a freelance business", MaxComplexity},
		{"stacked modesty clamps at min", "dabble in a simple hobby casually for fun", MinComplexity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateComplexity(tt.goal))
		})
	}
}

func TestEstimateComplexity_Deterministic(t *testing.T) {
	goal := "become a professional photographer"
	first := EstimateComplexity(goal)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, EstimateComplexity(goal))
	}
}
