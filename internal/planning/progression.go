package planning

import (
	"fmt"
	"math"

	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
)

// DefaultStartingDifficulty is where a progression ramp begins when the
// caller doesn't specify one.
const DefaultStartingDifficulty = 2

// peakDifficulty is where the ramp ends: the last task of a branch targets
// this difficulty regardless of list length.
const peakDifficulty = 8

// maxDifficultyStep is the largest adjacent difficulty delta tolerated
// before FindProgressionIssues flags a jump.
const maxDifficultyStep = 3

// ApplyProgression returns a new task list with difficulties linearly
// interpolated from startingDifficulty up to the peak, and durations
// rescaled to match: ±10% per difficulty point away from the midpoint.
// The input tasks are never mutated.
//
// Algorithm: increment = (peak - start) / max(1, n-1); task i gets
// difficulty clamp(round(start + i*increment), 1, 10). A RangeViolation
// here is always clamped, never raised.
func ApplyProgression(tasks []*plan.Task, startingDifficulty int) []*plan.Task {
	if len(tasks) == 0 {
		return []*plan.Task{}
	}

	if startingDifficulty <= 0 {
		startingDifficulty = DefaultStartingDifficulty
	}
	startingDifficulty = clampInt(startingDifficulty, plan.MinDifficulty, plan.MaxDifficulty)

	n := len(tasks)
	increment := float64(peakDifficulty-startingDifficulty) / float64(maxInt(1, n-1))

	result := make([]*plan.Task, 0, n)
	for i, task := range tasks {
		difficulty := clampInt(
			int(math.Round(float64(startingDifficulty)+float64(i)*increment)),
			plan.MinDifficulty, plan.MaxDifficulty,
		)

		scaled := task.Clone()
		scaled.Difficulty = difficulty

		factor := 1 + float64(difficulty-5)*0.1
		minutes := int(math.Round(float64(task.EstimatedDurationMinutes) * factor))
		if minutes < 1 {
			minutes = 1
		}
		scaled.EstimatedDurationMinutes = minutes

		result = append(result, scaled)
	}

	return result
}

// FindProgressionIssues flags adjacent task pairs whose difficulty delta
// exceeds the tolerated step. Read-only and informational: jumps are
// reported so content quality can be inspected, never auto-corrected.
func FindProgressionIssues(tasks []*plan.Task) []StructuralFinding {
	findings := []StructuralFinding{}

	for i := 1; i < len(tasks); i++ {
		prev := tasks[i-1]
		curr := tasks[i]

		delta := curr.Difficulty - prev.Difficulty
		if delta < 0 {
			delta = -delta
		}

		if delta > maxDifficultyStep {
			findings = append(findings, StructuralFinding{
				Type:    FindingDifficultyJump,
				NodeID:  curr.ID,
				Message: fmt.Sprintf("difficulty jumps from %d to %d between %q and %q", prev.Difficulty, curr.Difficulty, prev.Name, curr.Name),
				Details: map[string]any{
					"from":  prev.Difficulty,
					"to":    curr.Difficulty,
					"delta": delta,
				},
			})
		}
	}

	return findings
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
