package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BretMeraki/Forest7-15-sub006/cmd/forest/internal"
	"github.com/BretMeraki/Forest7-15-sub006/internal/graph"
	"github.com/BretMeraki/Forest7-15-sub006/internal/quality"
	"github.com/BretMeraki/Forest7-15-sub006/internal/store"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect and validate a project's plan",
}

var planShowCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "Show the full plan: branches, tasks, and dependencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanShow,
}

var planValidateCmd = &cobra.Command{
	Use:   "validate <project>",
	Short: "Re-validate the plan's dependency graph and task quality",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanValidate,
}

var planProgressCmd = &cobra.Command{
	Use:   "progress <project>",
	Short: "Show rolled-up progress and the next eligible phase",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanProgress,
}

func init() {
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planValidateCmd)
	planCmd.AddCommand(planProgressCmd)
}

func loadProject(cmd *cobra.Command, name string) (*app, *store.Project, error) {
	a, err := newApp()
	if err != nil {
		return nil, nil, err
	}
	project, err := a.store.LoadByName(cmd.Context(), name)
	if err != nil {
		return nil, nil, internal.WrapError(internal.ExitStoreError, "failed to load project", err)
	}
	return a, project, nil
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	_, project, err := loadProject(cmd, args[0])
	if err != nil {
		return err
	}

	format, _ := internal.ParseFormat(flagOutput)
	if format != internal.FormatText {
		return formatter(cmd).PrintData(project.Plan)
	}

	p := project.Plan
	cmd.Println(titleStyle.Render(fmt.Sprintf("%s (%d branches, %d tasks)",
		project.Name, len(p.Branches), p.TotalTaskCount())))

	for i, branch := range p.Branches {
		cmd.Printf("\n%s %s [%s] %s\n",
			branchStyle.Render(fmt.Sprintf("%d.", i+1)),
			branchStyle.Render(branch.Name),
			branch.PhaseKey,
			renderBranchStatus(branch.Status))
		cmd.Println(dimStyle.Render(fmt.Sprintf("   effort %.0f%%  difficulty %d  %d adaptation(s)",
			branch.DurationFraction*100, branch.Difficulty, len(branch.Adaptations))))

		for _, task := range p.TasksForBranch(branch.ID) {
			cmd.Printf("   %s %s %s\n",
				renderTaskStatus(task.Status),
				task.Name,
				dimStyle.Render(fmt.Sprintf("(%s, difficulty %d, %dm)",
					task.Type, task.Difficulty, task.EstimatedDurationMinutes)))
		}
	}
	return nil
}

func runPlanValidate(cmd *cobra.Command, args []string) error {
	_, project, err := loadProject(cmd, args[0])
	if err != nil {
		return err
	}

	p := project.Plan
	validator := graph.NewValidator()
	specificity := quality.NewValidator()

	problems := 0
	criticals := 0

	// Branch prerequisite graph.
	branchNodes := make([]graph.Node, 0, len(p.Branches))
	for _, b := range p.Branches {
		deps := make([]string, 0, len(b.Prerequisites))
		for _, id := range b.Prerequisites {
			deps = append(deps, id.String())
		}
		branchNodes = append(branchNodes, graph.Node{ID: b.ID.String(), DependsOn: deps})
	}
	if result := validator.Validate(branchNodes); !result.Acyclic {
		problems++
		cmd.Println(warnStyle.Render(fmt.Sprintf("branch prerequisite cycle: %v", result.CycleMembers)))
	}

	// Per-branch task graphs and content quality.
	for _, branch := range p.Branches {
		tasks := p.TasksForBranch(branch.ID)

		nodes := make([]graph.Node, 0, len(tasks))
		for _, t := range tasks {
			deps := make([]string, 0, len(t.Dependencies))
			for _, id := range t.Dependencies {
				deps = append(deps, id.String())
			}
			nodes = append(nodes, graph.Node{ID: t.ID.String(), DependsOn: deps})
		}
		if result := validator.Validate(nodes); !result.Acyclic {
			problems++
			cmd.Println(warnStyle.Render(fmt.Sprintf("task dependency cycle in %q: %v",
				branch.Name, result.CycleMembers)))
		}
		if err := validator.ValidateDependencies(nodes); err != nil {
			problems++
			cmd.Println(warnStyle.Render(fmt.Sprintf("dangling dependency in %q: %v", branch.Name, err)))
		}

		report := specificity.ValidateAll(tasks, p.Goal)
		for i, issues := range report.TaskIssues {
			for _, issue := range issues {
				if issue.Severity == quality.SeverityCritical {
					criticals++
					cmd.Println(warnStyle.Render(fmt.Sprintf("critical [%s] %q: %s",
						issue.Pattern, tasks[i].Name, issue.Message)))
				}
			}
		}
		if len(tasks) > 0 {
			cmd.Printf("%s: quality score %.0f%% (%d/%d tasks pass)\n",
				branch.Name, report.Score, report.PassedCount, report.TotalTasks)
		}
	}

	if problems == 0 && criticals == 0 {
		return formatter(cmd).PrintSuccess("plan is structurally valid with no critical quality findings")
	}
	if criticals > 0 {
		return internal.NewCLIError(internal.ExitQualityFindings,
			fmt.Sprintf("plan has %d critical quality finding(s)", criticals))
	}
	return internal.NewCLIError(internal.ExitError,
		fmt.Sprintf("plan has %d structural problem(s)", problems))
}

func runPlanProgress(cmd *cobra.Command, args []string) error {
	a, project, err := loadProject(cmd, args[0])
	if err != nil {
		return err
	}

	summary := a.engine.Summarize(project.Plan)

	format, _ := internal.ParseFormat(flagOutput)
	if format != internal.FormatText {
		return formatter(cmd).PrintData(summary)
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("%s: %.0f%% complete", project.Name, summary.OverallProgress)))
	rows := make([][]string, 0, len(summary.PhaseDetails))
	for _, d := range summary.PhaseDetails {
		rows = append(rows, []string{
			d.Name,
			d.PhaseKey,
			d.Status.String(),
			fmt.Sprintf("%.0f%%", d.Progress),
			fmt.Sprintf("%d/%d", d.Completed, d.TaskCount),
		})
	}
	if err := formatter(cmd).PrintTable([]string{"Phase", "Key", "Status", "Progress", "Tasks"}, rows); err != nil {
		return err
	}

	if next := a.engine.NextEligiblePhase(project.Plan); next != nil {
		cmd.Printf("\nNext eligible phase: %s\n", branchStyle.Render(next.Name))
	} else if summary.CompletedPhases == summary.TotalPhases {
		cmd.Println("\nAll phases complete.")
	} else {
		cmd.Println("\nNo phase is currently eligible; finish the phase in progress first.")
	}
	return nil
}
