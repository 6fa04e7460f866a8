package content

import (
	"strings"
)

// Complexity score bounds for a goal.
const (
	MinComplexity = 1
	MaxComplexity = 10

	baseComplexity = 3
)

// ambitionMarkers raise the complexity estimate. Goals that aim at mastery,
// career change, or income carry more scope than their word count suggests.
var ambitionMarkers = []string{
	"master", "professional", "expert", "career", "fluent", "fluency",
	"from scratch", "marathon", "business", "full-time", "publish",
	"launch", "certified", "competition",
}

// modestyMarkers lower the estimate: the learner is explicitly scoping down.
var modestyMarkers = []string{
	"casually", "casual", "hobby", "for fun", "simple", "a little",
	"beginner", "dabble",
}

// EstimateComplexity scores a goal statement from 1 (trivial) to 10 (very
// complex). The heuristic starts at 3 and adjusts for ambition markers,
// explicit scoping-down, compound objectives, and statement length.
// Deterministic; the same text always scores the same.
func EstimateComplexity(goalText string) int {
	text := strings.ToLower(strings.TrimSpace(goalText))
	if text == "" {
		return MinComplexity
	}

	score := baseComplexity

	for _, marker := range ambitionMarkers {
		if strings.Contains(text, marker) {
			score += 2
		}
	}
	for _, marker := range modestyMarkers {
		if strings.Contains(text, marker) {
			score--
		}
	}

	// Compound goals ("X and Y", comma lists) span more ground.
	if strings.Contains(text, " and ") || strings.Contains(text, ",") {
		score++
	}

	if len(strings.Fields(text)) > 12 {
		score++
	}

	if score < MinComplexity {
		return MinComplexity
	}
	if score > MaxComplexity {
		return MaxComplexity
	}
	return score
}
