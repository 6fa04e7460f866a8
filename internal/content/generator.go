// Package content supplies the raw material the planning engine assembles
// into plans: candidate branches and tasks for a goal. Generators are an
// untrusted boundary - candidates may be vague, incomplete, or oddly sized,
// which is exactly why the specificity validator exists downstream. The one
// contract generators do guarantee is that no two candidates in a single
// call share a name.
package content

import (
	"context"
	"fmt"

	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// LearnerContext carries the learner's stated preferences into generation
// and assembly.
type LearnerContext struct {
	// Interests are free-form topics the learner cares about, used to
	// flavor generated content.
	Interests []string `json:"interests,omitempty"`

	// Style is a named preference profile (e.g. "research-heavy",
	// "project-driven") that scales matching phase durations.
	Style string `json:"style,omitempty"`

	// Granularity is "high" for more, smaller tasks, "low" for fewer,
	// larger ones, or empty for the default.
	Granularity string `json:"granularity,omitempty"`
}

// CandidateBranch is raw branch content from a generator, not yet
// validated or sequenced.
type CandidateBranch struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// PhaseKey identifies the branch's role (e.g. "foundation", "mastery").
	PhaseKey string `json:"phase_key"`

	// BaseDuration is the unscaled share of total plan effort this branch
	// claims. The sequencer scales and clamps it.
	BaseDuration float64 `json:"base_duration"`

	// Difficulty is the suggested branch difficulty, 1..10. Zero means
	// unspecified; the sequencer fills in a default.
	Difficulty int `json:"difficulty,omitempty"`

	Focus         string   `json:"focus,omitempty"`
	KeyActivities []string `json:"key_activities,omitempty"`
}

// CandidateTask is raw task content from a generator.
type CandidateTask struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        types.TaskType `json:"type"`

	// Difficulty is the suggested difficulty, 1..10. The progression
	// enforcer overwrites it with the interpolated value.
	Difficulty int `json:"difficulty,omitempty"`

	// EstimatedDuration is the suggested duration in minutes.
	EstimatedDuration int `json:"estimated_duration,omitempty"`

	Deliverable       string `json:"deliverable,omitempty"`
	FirstAction       string `json:"first_action,omitempty"`
	SuccessValidation string `json:"success_validation,omitempty"`
}

// Generator produces candidate branch and task content for a goal.
// Implementations may return fewer or more items than requested and make
// no well-formedness guarantees beyond name uniqueness within one call.
type Generator interface {
	// GenerateCandidateBranches proposes strategic branches for the goal.
	GenerateCandidateBranches(ctx context.Context, goal plan.Goal, learner LearnerContext) ([]CandidateBranch, error)

	// GenerateCandidateTasks proposes up to count tasks for one branch.
	GenerateCandidateTasks(ctx context.Context, branch *plan.Branch, goal plan.Goal, learner LearnerContext, count int) ([]CandidateTask, error)
}

// ValidateBranchNames enforces the generator contract that no two candidate
// branches in one call share a name.
func ValidateBranchNames(candidates []CandidateBranch) error {
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if seen[c.Name] {
			return fmt.Errorf("generator returned duplicate branch name %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// ValidateTaskNames enforces the generator contract that no two candidate
// tasks in one call share a name.
func ValidateTaskNames(candidates []CandidateTask) error {
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if seen[c.Name] {
			return fmt.Errorf("generator returned duplicate task name %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}
