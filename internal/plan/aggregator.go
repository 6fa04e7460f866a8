package plan

import (
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// Summary is the rolled-up view of a plan's progress.
type Summary struct {
	// TotalPhases is the number of branches in the plan.
	TotalPhases int `json:"total_phases"`

	// CompletedPhases is the number of branches with completed status.
	CompletedPhases int `json:"completed_phases"`

	// CurrentPhase is the name of the first branch that is not completed,
	// in sequence order. Empty when every branch is completed.
	CurrentPhase string `json:"current_phase"`

	// OverallProgress is the task-weighted completion percentage across
	// all branches, 0..100. Task-weighted rather than phase-weighted so
	// small branches don't dominate the percentage.
	OverallProgress float64 `json:"overall_progress"`

	// PhaseDetails holds per-branch progress in sequence order.
	PhaseDetails []PhaseDetail `json:"phase_details"`
}

// PhaseDetail is the per-branch slice of a plan summary.
type PhaseDetail struct {
	BranchID  types.ID           `json:"branch_id"`
	Name      string             `json:"name"`
	PhaseKey  string             `json:"phase_key"`
	Status    types.BranchStatus `json:"status"`
	Progress  float64            `json:"progress"`
	TaskCount int                `json:"task_count"`
	Completed int                `json:"completed_tasks"`
}

// Aggregator rolls up branch and task state into overall progress and
// next-eligible-phase queries. It is a pure read path: it never mutates
// the plan.
type Aggregator struct{}

// NewAggregator creates a new Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Summarize computes the rolled-up progress view of a plan.
func (a *Aggregator) Summarize(p *Plan) Summary {
	summary := Summary{
		TotalPhases:  len(p.Branches),
		PhaseDetails: make([]PhaseDetail, 0, len(p.Branches)),
	}

	totalTasks := 0
	completedTasks := 0

	for _, branch := range p.Branches {
		tasks := p.TasksForBranch(branch.ID)
		completed := countCompleted(tasks)

		totalTasks += len(tasks)
		completedTasks += completed

		if branch.Status == types.BranchStatusCompleted {
			summary.CompletedPhases++
		} else if summary.CurrentPhase == "" {
			summary.CurrentPhase = branch.Name
		}

		summary.PhaseDetails = append(summary.PhaseDetails, PhaseDetail{
			BranchID:  branch.ID,
			Name:      branch.Name,
			PhaseKey:  branch.PhaseKey,
			Status:    branch.Status,
			Progress:  progressPercent(completed, len(tasks)),
			TaskCount: len(tasks),
			Completed: completed,
		})
	}

	summary.OverallProgress = progressPercent(completedTasks, totalTasks)
	return summary
}

// CalculateBranchProgress returns the branch's completion percentage:
// completed tasks over total tasks, or 0 for a branch with no tasks.
func (a *Aggregator) CalculateBranchProgress(p *Plan, branchID types.ID) float64 {
	tasks := p.TasksForBranch(branchID)
	return progressPercent(countCompleted(tasks), len(tasks))
}

// NextEligiblePhase returns the first branch, in sequence order, that has
// not started and whose prerequisites are all completed. Returns nil when
// no branch is eligible (all done, or everything open is gated).
func (a *Aggregator) NextEligiblePhase(p *Plan) *Branch {
	for _, branch := range p.Branches {
		if branch.Status != types.BranchStatusNotStarted {
			continue
		}
		if a.prerequisitesCompleted(p, branch) {
			return branch
		}
	}
	return nil
}

// prerequisitesCompleted reports whether every prerequisite branch has
// completed status. Prerequisites referencing unknown branches count as
// unmet.
func (a *Aggregator) prerequisitesCompleted(p *Plan, branch *Branch) bool {
	for _, prereqID := range branch.Prerequisites {
		prereq := p.Branch(prereqID)
		if prereq == nil || prereq.Status != types.BranchStatusCompleted {
			return false
		}
	}
	return true
}

func countCompleted(tasks []*Task) int {
	completed := 0
	for _, t := range tasks {
		if t.Status == types.TaskStatusCompleted {
			completed++
		}
	}
	return completed
}

func progressPercent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
