package planning

import (
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// StructuralFindingType identifies the kind of structural issue detected
// during plan assembly.
type StructuralFindingType string

const (
	// FindingCircularDependency flags a dependency edge that closed a cycle.
	// The offending edge is dropped so the accepted graph stays a DAG; the
	// finding preserves what was dropped.
	FindingCircularDependency StructuralFindingType = "circular_dependency"

	// FindingDifficultyJump flags adjacent tasks whose difficulty delta
	// exceeds the tolerated step. Informational, never auto-corrected.
	FindingDifficultyJump StructuralFindingType = "difficulty_jump"

	// FindingPrerequisiteViolation flags a status transition attempted
	// while a prerequisite branch was incomplete.
	FindingPrerequisiteViolation StructuralFindingType = "prerequisite_violation"
)

// String returns the string representation of the finding type.
func (t StructuralFindingType) String() string {
	return string(t)
}

// StructuralFinding describes a structural issue found while assembling or
// inspecting a plan. Structural findings are reported, not thrown: the plan
// remains usable and the caller decides what to surface.
type StructuralFinding struct {
	// Type identifies the kind of issue.
	Type StructuralFindingType `json:"type"`

	// NodeID is the task or branch the finding is attached to.
	NodeID types.ID `json:"node_id"`

	// Message is a human-readable description of the issue.
	Message string `json:"message"`

	// Details holds finding-specific data, e.g. the members of a detected
	// cycle or the difficulty values of a flagged jump.
	Details map[string]any `json:"details,omitempty"`
}
