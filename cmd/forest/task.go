package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BretMeraki/Forest7-15-sub006/cmd/forest/internal"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

var flagTaskBranch string

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "List and complete tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list <project>",
	Short: "List tasks, optionally filtered to one branch",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskList,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <project> <task>",
	Short: "Mark a task completed (by name or ID)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskComplete,
}

func init() {
	taskListCmd.Flags().StringVar(&flagTaskBranch, "branch", "", "only show tasks for this branch name")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskCompleteCmd)
}

func runTaskList(cmd *cobra.Command, args []string) error {
	_, project, err := loadProject(cmd, args[0])
	if err != nil {
		return err
	}

	p := project.Plan
	rows := [][]string{}
	for _, branch := range p.Branches {
		if flagTaskBranch != "" && branch.Name != flagTaskBranch {
			continue
		}
		for _, task := range p.TasksForBranch(branch.ID) {
			rows = append(rows, []string{
				task.ID.String(),
				task.Name,
				branch.Name,
				task.Type.String(),
				fmt.Sprintf("%d", task.Difficulty),
				task.Status.String(),
			})
		}
	}

	if len(rows) == 0 {
		cmd.Println("No tasks match.")
		return nil
	}
	return formatter(cmd).PrintTable(
		[]string{"ID", "Name", "Branch", "Type", "Difficulty", "Status"}, rows)
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	a, project, err := loadProject(cmd, args[0])
	if err != nil {
		return err
	}

	p := project.Plan
	task := findTask(p, args[1])
	if task == nil {
		return internal.NewCLIError(internal.ExitError, fmt.Sprintf("task %q not found", args[1]))
	}
	if task.Status == types.TaskStatusCompleted {
		return formatter(cmd).PrintSuccess(fmt.Sprintf("task %q is already completed", task.Name))
	}

	// Dependency gate: a task completes only after everything it depends on.
	for _, depID := range task.Dependencies {
		dep := p.Task(depID)
		if dep != nil && dep.Status != types.TaskStatusCompleted {
			return internal.NewCLIError(internal.ExitError,
				fmt.Sprintf("task %q depends on incomplete task %q", task.Name, dep.Name))
		}
	}

	branch := p.Branch(task.BranchID)
	if branch == nil {
		return internal.NewCLIError(internal.ExitError, "task references an unknown branch")
	}

	// Phase gate: working a branch requires its prerequisites completed.
	if branch.Status == types.BranchStatusNotStarted {
		decision := a.engine.CanProgress(p, branch.ID)
		if !decision.CanProgress {
			return internal.NewCLIError(internal.ExitError,
				fmt.Sprintf("cannot start phase %q: %s", branch.Name, decision.Reason))
		}
		branch.Status = types.BranchStatusInProgress
	}

	task.Status = types.TaskStatusCompleted
	branch.ProgressPercent = a.engine.Summarize(p).PhaseDetails[branchIndex(p, branch.ID)].Progress
	if branch.ProgressPercent >= 100 {
		branch.Status = types.BranchStatusCompleted
	}

	if err := a.store.Save(cmd.Context(), project); err != nil {
		return internal.WrapError(internal.ExitStoreError, "failed to save project", err)
	}

	msg := fmt.Sprintf("completed %q (%s now %.0f%%)", task.Name, branch.Name, branch.ProgressPercent)
	if branch.Status == types.BranchStatusCompleted {
		msg = fmt.Sprintf("completed %q; phase %q is done", task.Name, branch.Name)
	}
	return formatter(cmd).PrintSuccess(msg)
}

// findTask resolves a task by exact ID, then by exact name.
func findTask(p *plan.Plan, ref string) *plan.Task {
	if task := p.Task(types.ID(ref)); task != nil {
		return task
	}
	for _, task := range p.TaskIndex {
		if task.Name == ref {
			return task
		}
	}
	return nil
}

func branchIndex(p *plan.Plan, id types.ID) int {
	for i, b := range p.Branches {
		if b.ID == id {
			return i
		}
	}
	return 0
}
