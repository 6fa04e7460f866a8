package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/BretMeraki/Forest7-15-sub006/cmd/forest/internal"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/planning"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// evolve flags.
var (
	flagEvolveType   string
	flagEvolveReason string
	flagNewFocus     string
	flagActivities   []string
	flagTasksFile    string
	flagScopeNote    string
)

var evolveCmd = &cobra.Command{
	Use:   "evolve <project> <branch>",
	Short: "Apply an evolution event to a branch",
	Long: `Apply an evolution event to a branch of the project's plan.

Event types:
  accelerate  compress the branch (duration x0.8, difficulty +1)
  decelerate  stretch the branch (duration x1.2, difficulty -1)
  refocus     replace the branch's focus and key activities
  expand      append tasks from a YAML file after re-validation

Every applied event is recorded in the branch's adaptation audit trail.`,
	Args: cobra.ExactArgs(2),
	RunE: runEvolve,
}

// expandTaskSpec is the YAML shape of one task in an --tasks-file.
type expandTaskSpec struct {
	Name              string `yaml:"name"`
	Description       string `yaml:"description"`
	Type              string `yaml:"type"`
	Difficulty        int    `yaml:"difficulty"`
	DurationMinutes   int    `yaml:"duration_minutes"`
	Deliverable       string `yaml:"deliverable"`
	FirstAction       string `yaml:"first_action"`
	SuccessValidation string `yaml:"success_validation"`
}

func init() {
	evolveCmd.Flags().StringVarP(&flagEvolveType, "type", "t", "", "event type: accelerate, decelerate, refocus, expand (required)")
	evolveCmd.Flags().StringVarP(&flagEvolveReason, "reason", "r", "", "why this adaptation is happening (required)")
	evolveCmd.Flags().StringVar(&flagNewFocus, "focus", "", "new focus text (refocus)")
	evolveCmd.Flags().StringSliceVar(&flagActivities, "activity", nil, "new key activity, repeatable (refocus)")
	evolveCmd.Flags().StringVar(&flagTasksFile, "tasks-file", "", "YAML file of tasks to append (expand)")
	evolveCmd.Flags().StringVar(&flagScopeNote, "scope-note", "", "what the expansion adds (expand)")
	evolveCmd.MarkFlagRequired("type")
	evolveCmd.MarkFlagRequired("reason")
}

func runEvolve(cmd *cobra.Command, args []string) error {
	a, project, err := loadProject(cmd, args[0])
	if err != nil {
		return err
	}

	branch := findBranch(project.Plan, args[1])
	if branch == nil {
		return internal.NewCLIError(internal.ExitError, fmt.Sprintf("branch %q not found", args[1]))
	}

	req := planning.EvolutionRequest{
		Type:             types.EvolutionType(flagEvolveType),
		Reason:           flagEvolveReason,
		NewFocus:         flagNewFocus,
		NewKeyActivities: flagActivities,
		ScopeNote:        flagScopeNote,
	}

	if req.Type == types.EvolutionExpand {
		tasks, err := loadExpandTasks(flagTasksFile, branch.ID)
		if err != nil {
			return err
		}
		req.AdditionalTasks = tasks
	}

	updated, err := a.engine.Evolve(cmd.Context(), project.Plan, branch.ID, req)
	if err != nil {
		return internal.WrapError(internal.ExitError, "evolution rejected", err)
	}

	if err := a.store.Save(cmd.Context(), project); err != nil {
		return internal.WrapError(internal.ExitStoreError, "failed to save project", err)
	}

	return formatter(cmd).PrintSuccess(fmt.Sprintf(
		"applied %s to %q (effort %.0f%%, difficulty %d, %d adaptation(s) recorded)",
		req.Type, updated.Name, updated.DurationFraction*100, updated.Difficulty,
		len(updated.Adaptations)))
}

// loadExpandTasks reads and materializes the tasks in an expand file.
func loadExpandTasks(path string, branchID types.ID) ([]*plan.Task, error) {
	if path == "" {
		return nil, internal.NewCLIError(internal.ExitError, "expand requires --tasks-file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internal.WrapError(internal.ExitError, "failed to read tasks file", err)
	}

	var specs []expandTaskSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, internal.WrapError(internal.ExitError, "failed to parse tasks file", err)
	}
	if len(specs) == 0 {
		return nil, internal.NewCLIError(internal.ExitError, "tasks file contains no tasks")
	}

	tasks := make([]*plan.Task, 0, len(specs))
	for _, spec := range specs {
		tasks = append(tasks, &plan.Task{
			ID:                       types.NewID(),
			BranchID:                 branchID,
			Name:                     spec.Name,
			Description:              spec.Description,
			Type:                     types.TaskType(spec.Type),
			Difficulty:               spec.Difficulty,
			EstimatedDurationMinutes: spec.DurationMinutes,
			Dependencies:             []types.ID{},
			Status:                   types.TaskStatusNotStarted,
			Deliverable:              spec.Deliverable,
			FirstAction:              spec.FirstAction,
			SuccessValidation:        spec.SuccessValidation,
		})
	}
	return tasks, nil
}

// findBranch resolves a branch by exact ID, then by exact name.
func findBranch(p *plan.Plan, ref string) *plan.Branch {
	if branch := p.Branch(types.ID(ref)); branch != nil {
		return branch
	}
	for _, branch := range p.Branches {
		if branch.Name == ref {
			return branch
		}
	}
	return nil
}
