// Package plan defines the in-memory data model for a Forest plan: a goal
// decomposed into strategic branches, each holding an ordered sequence of
// concrete tasks, plus the audit trail of adaptations applied over time.
//
// The Plan is an arena: it owns the Branch and Task collections and hands
// out references by ID. Mutation paths (status updates, evolution) go
// through copy-and-replace on whole branches so a failed mutation never
// leaves a half-applied plan behind.
package plan

import (
	"fmt"
	"time"

	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// Duration fraction bounds for a single branch. Every branch claims between
// 5% and 50% of the plan's total effort.
const (
	MinDurationFraction = 0.05
	MaxDurationFraction = 0.5
)

// Difficulty bounds for branches and tasks.
const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// Goal is the free-form objective a plan decomposes. Immutable once a plan
// is built; only ComplexityScore may be recomputed.
type Goal struct {
	// Text is the learner's goal statement as given.
	Text string `json:"text"`

	// ComplexityScore rates the goal from 1 (trivial) to 10 (very complex).
	ComplexityScore int `json:"complexity_score"`

	// DomainArchetype is the detected domain (e.g. "programming", "music").
	// Empty when no classifier has run or the domain is unrecognized.
	DomainArchetype string `json:"domain_archetype,omitempty"`
}

// Branch is a strategic phase of the plan grouping related tasks.
type Branch struct {
	ID          types.ID `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`

	// PhaseKey identifies the branch's role in the plan
	// (e.g. "foundation", "research", "mastery").
	PhaseKey string `json:"phase_key"`

	// Prerequisites are the branches that must be completed before this one
	// can start. By construction these are always branches sequenced earlier,
	// which keeps the prerequisite graph acyclic.
	Prerequisites []types.ID `json:"prerequisites"`

	// DurationFraction is this branch's share of total plan effort,
	// always within [MinDurationFraction, MaxDurationFraction].
	DurationFraction float64 `json:"duration_fraction"`

	// Difficulty is the branch-level difficulty score, 1..10.
	// Adjusted by accelerate/decelerate evolution events.
	Difficulty int `json:"difficulty"`

	Status          types.BranchStatus `json:"status"`
	ProgressPercent float64            `json:"progress_percent"`

	// Focus and KeyActivities describe what working this branch looks like.
	// Replaced wholesale by refocus evolution events.
	Focus         string   `json:"focus,omitempty"`
	KeyActivities []string `json:"key_activities,omitempty"`

	// ExpandedScope records scope additions from expand evolution events.
	ExpandedScope []string `json:"expanded_scope,omitempty"`

	// Tasks holds the branch's task IDs in execution order.
	Tasks []types.ID `json:"tasks"`

	// Adaptations is the append-only audit trail of evolution events
	// applied to this branch.
	Adaptations []Evolution `json:"adaptations"`

	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}

// Clone returns a deep copy of the branch. Evolution applies mutations to a
// clone and swaps it into the plan only after every sub-step succeeds.
func (b *Branch) Clone() *Branch {
	if b == nil {
		return nil
	}

	clone := *b
	clone.Prerequisites = append([]types.ID(nil), b.Prerequisites...)
	clone.KeyActivities = append([]string(nil), b.KeyActivities...)
	clone.ExpandedScope = append([]string(nil), b.ExpandedScope...)
	clone.Tasks = append([]types.ID(nil), b.Tasks...)
	clone.Adaptations = append([]Evolution(nil), b.Adaptations...)
	return &clone
}

// HasPrerequisite returns true if the given branch ID is a prerequisite of b.
func (b *Branch) HasPrerequisite(id types.ID) bool {
	for _, p := range b.Prerequisites {
		if p == id {
			return true
		}
	}
	return false
}

// Task is a concrete unit of work inside a branch.
type Task struct {
	ID       types.ID `json:"id"`
	BranchID types.ID `json:"branch_id"`

	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        types.TaskType `json:"type"`

	// Difficulty is 1..10; set by the progression enforcer.
	Difficulty int `json:"difficulty"`

	// EstimatedDurationMinutes is always > 0.
	EstimatedDurationMinutes int `json:"estimated_duration_minutes"`

	// Dependencies are task IDs within the same branch that must complete
	// first. Never contains forward references: the assembler only wires
	// edges to tasks created earlier in the same generation pass.
	Dependencies []types.ID `json:"dependencies"`

	Status types.TaskStatus `json:"status"`

	// Deliverable, FirstAction, and SuccessValidation make the task
	// actionable: what to produce, how to start, and how to know it's done.
	// The specificity validator enforces minimum substance on all three.
	Deliverable       string `json:"deliverable"`
	FirstAction       string `json:"first_action"`
	SuccessValidation string `json:"success_validation"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}

	clone := *t
	clone.Dependencies = append([]types.ID(nil), t.Dependencies...)
	return &clone
}

// DependsOn returns true if the task depends on the given task ID.
func (t *Task) DependsOn(id types.ID) bool {
	for _, d := range t.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

// Evolution is the append-only audit record of one adaptation applied to a
// branch. Changes holds the before/after values of the fields the event
// touched, keyed by field name.
type Evolution struct {
	Timestamp time.Time           `json:"timestamp"`
	Type      types.EvolutionType `json:"type"`
	Changes   map[string]any      `json:"changes"`
	Reason    string              `json:"reason"`
}

// Plan owns a goal's full decomposition: the branch list in sequence order
// and the task arena indexed by ID.
type Plan struct {
	ID   types.ID `json:"id"`
	Goal Goal     `json:"goal"`

	// Branches in sequence (creation) order. Order matters: prerequisites
	// reference earlier branches only.
	Branches []*Branch `json:"branches"`

	// TaskIndex is the arena of all tasks across branches, keyed by ID.
	TaskIndex map[types.ID]*Task `json:"task_index"`

	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}

// New creates an empty plan for the given goal.
func New(id types.ID, goal Goal) *Plan {
	now := time.Now()
	return &Plan{
		ID:           id,
		Goal:         goal,
		Branches:     []*Branch{},
		TaskIndex:    make(map[types.ID]*Task),
		CreatedAt:    now,
		LastModified: now,
	}
}

// AddBranch appends a branch to the plan in sequence order.
func (p *Plan) AddBranch(b *Branch) error {
	if b == nil {
		return fmt.Errorf("branch cannot be nil")
	}
	if b.ID.IsZero() {
		return fmt.Errorf("branch ID cannot be empty")
	}
	if p.Branch(b.ID) != nil {
		return fmt.Errorf("branch %s already exists in plan", b.ID)
	}

	p.Branches = append(p.Branches, b)
	p.LastModified = time.Now()
	return nil
}

// AddTask registers a task in the arena and appends it to its branch's
// ordered task list.
func (p *Plan) AddTask(t *Task) error {
	if t == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if t.ID.IsZero() {
		return fmt.Errorf("task ID cannot be empty")
	}
	if _, exists := p.TaskIndex[t.ID]; exists {
		return fmt.Errorf("task %s already exists in plan", t.ID)
	}

	branch := p.Branch(t.BranchID)
	if branch == nil {
		return fmt.Errorf("task %s references unknown branch %s", t.ID, t.BranchID)
	}

	p.TaskIndex[t.ID] = t
	branch.Tasks = append(branch.Tasks, t.ID)
	p.LastModified = time.Now()
	return nil
}

// Branch returns the branch with the given ID, or nil if not found.
func (p *Plan) Branch(id types.ID) *Branch {
	for _, b := range p.Branches {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Task returns the task with the given ID, or nil if not found.
func (p *Plan) Task(id types.ID) *Task {
	return p.TaskIndex[id]
}

// TasksForBranch returns the branch's tasks in execution order.
// Task IDs with no arena entry are skipped.
func (p *Plan) TasksForBranch(branchID types.ID) []*Task {
	branch := p.Branch(branchID)
	if branch == nil {
		return nil
	}

	tasks := make([]*Task, 0, len(branch.Tasks))
	for _, id := range branch.Tasks {
		if t, ok := p.TaskIndex[id]; ok {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// ReplaceBranch swaps in a new version of an existing branch. This is the
// commit point of copy-and-replace evolution: the clone is only visible to
// readers after every mutation sub-step succeeded.
func (p *Plan) ReplaceBranch(b *Branch) error {
	if b == nil {
		return fmt.Errorf("branch cannot be nil")
	}

	for i, existing := range p.Branches {
		if existing.ID == b.ID {
			p.Branches[i] = b
			p.LastModified = time.Now()
			return nil
		}
	}
	return fmt.Errorf("branch %s not found in plan", b.ID)
}

// TotalTaskCount returns the number of tasks across all branches.
func (p *Plan) TotalTaskCount() int {
	return len(p.TaskIndex)
}
