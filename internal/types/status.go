package types

import (
	"encoding/json"
	"fmt"
)

// BranchStatus represents the lifecycle state of a strategic branch
type BranchStatus string

const (
	BranchStatusNotStarted BranchStatus = "not_started"
	BranchStatusInProgress BranchStatus = "in_progress"
	BranchStatusCompleted  BranchStatus = "completed"
)

// String returns the string representation of BranchStatus
func (s BranchStatus) String() string {
	return string(s)
}

// IsValid checks if the BranchStatus is a valid value
func (s BranchStatus) IsValid() bool {
	switch s {
	case BranchStatusNotStarted, BranchStatusInProgress, BranchStatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status represents a terminal state.
func (s BranchStatus) IsTerminal() bool {
	return s == BranchStatusCompleted
}

// MarshalJSON implements json.Marshaler
func (s BranchStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler
func (s *BranchStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status := BranchStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid branch status: %s", str)
	}

	*s = status
	return nil
}

// TaskStatus represents the execution state of a task
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusSkipped    TaskStatus = "skipped"
)

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid checks if the TaskStatus is a valid value
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusBlocked, TaskStatusSkipped:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status represents a terminal state.
// Skipped tasks are terminal; blocked tasks can still become unblocked.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusSkipped:
		return true
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler
func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler
func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status := TaskStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid task status: %s", str)
	}

	*s = status
	return nil
}

// TaskType categorizes what kind of work a task represents.
// The assembler uses types to decide extra dependency edges: application
// tasks (practice, build) depend on every earlier foundation task
// (research, study, analysis) in the same branch.
type TaskType string

const (
	TaskTypeResearch TaskType = "research"
	TaskTypeStudy    TaskType = "study"
	TaskTypeAnalysis TaskType = "analysis"
	TaskTypePractice TaskType = "practice"
	TaskTypeBuild    TaskType = "build"
	TaskTypeReview   TaskType = "review"
	TaskTypeGeneric  TaskType = "generic"
)

// String returns the string representation of TaskType
func (t TaskType) String() string {
	return string(t)
}

// IsValid checks if the TaskType is a valid value
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeResearch, TaskTypeStudy, TaskTypeAnalysis,
		TaskTypePractice, TaskTypeBuild, TaskTypeReview, TaskTypeGeneric:
		return true
	default:
		return false
	}
}

// IsFoundation returns true for task types that establish understanding
// before application work begins.
func (t TaskType) IsFoundation() bool {
	switch t {
	case TaskTypeResearch, TaskTypeStudy, TaskTypeAnalysis:
		return true
	default:
		return false
	}
}

// IsApplication returns true for task types that apply previously built
// understanding.
func (t TaskType) IsApplication() bool {
	switch t {
	case TaskTypePractice, TaskTypeBuild:
		return true
	default:
		return false
	}
}

// EvolutionType identifies the learner feedback signal that triggered a
// plan adaptation.
type EvolutionType string

const (
	EvolutionAccelerate EvolutionType = "accelerate"
	EvolutionDecelerate EvolutionType = "decelerate"
	EvolutionRefocus    EvolutionType = "refocus"
	EvolutionExpand     EvolutionType = "expand"
)

// String returns the string representation of EvolutionType
func (t EvolutionType) String() string {
	return string(t)
}

// IsValid checks if the EvolutionType is a valid value
func (t EvolutionType) IsValid() bool {
	switch t {
	case EvolutionAccelerate, EvolutionDecelerate, EvolutionRefocus, EvolutionExpand:
		return true
	default:
		return false
	}
}
