package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BretMeraki/Forest7-15-sub006/cmd/forest/internal"
	"github.com/BretMeraki/Forest7-15-sub006/internal/content"
	"github.com/BretMeraki/Forest7-15-sub006/internal/store"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// project create flags.
var (
	flagGoal        string
	flagInterests   []string
	flagStyle       string
	flagGranularity string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects (one project per pursued goal)",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project and build its plan from a goal statement",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectCreate,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a project's goal and plan summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a project and its plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

func init() {
	projectCreateCmd.Flags().StringVarP(&flagGoal, "goal", "g", "", "goal statement to decompose (required)")
	projectCreateCmd.Flags().StringSliceVar(&flagInterests, "interests", nil, "learner interests used to flavor content")
	projectCreateCmd.Flags().StringVar(&flagStyle, "style", "", "preference profile: research-heavy, project-driven, practice-first")
	projectCreateCmd.Flags().StringVar(&flagGranularity, "granularity", "", "task granularity: high or low")
	projectCreateCmd.MarkFlagRequired("goal")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := a.store.LoadByName(ctx, name); err == nil {
		return internal.NewCLIError(internal.ExitError, fmt.Sprintf("project %q already exists", name))
	}

	learner := content.LearnerContext{
		Interests:   flagInterests,
		Style:       flagStyle,
		Granularity: flagGranularity,
	}
	if learner.Style == "" {
		learner.Style = a.cfg.Planning.DefaultStyle
	}
	if learner.Granularity == "" {
		learner.Granularity = a.cfg.Planning.DefaultGranularity
	}

	result, err := a.engine.BuildPlan(ctx, flagGoal, learner)
	if err != nil {
		return internal.WrapError(internal.ExitError, "plan build failed", err)
	}

	project := &store.Project{
		ID:        types.NewID(),
		Name:      name,
		Goal:      flagGoal,
		Learner:   learner,
		Plan:      result.Plan,
		CreatedAt: time.Now(),
	}
	if err := a.store.Save(ctx, project); err != nil {
		return internal.WrapError(internal.ExitStoreError, "failed to save project", err)
	}

	f := formatter(cmd)
	if err := f.PrintSuccess(fmt.Sprintf("created project %q: %d branches, %d tasks",
		name, len(result.Plan.Branches), result.Plan.TotalTaskCount())); err != nil {
		return err
	}
	if len(result.Findings) > 0 {
		cmd.Println(warnStyle.Render(fmt.Sprintf("%d structural finding(s); run 'forest plan validate %s' for details",
			len(result.Findings), name)))
	}
	return nil
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	projects, err := a.store.List(cmd.Context())
	if err != nil {
		return internal.WrapError(internal.ExitStoreError, "failed to list projects", err)
	}

	if len(projects) == 0 {
		cmd.Println("No projects. Create one with 'forest project create'.")
		return nil
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		summary := a.engine.Summarize(p.Plan)
		rows = append(rows, []string{
			p.Name,
			p.Goal,
			fmt.Sprintf("%d/%d phases", summary.CompletedPhases, summary.TotalPhases),
			fmt.Sprintf("%.0f%%", summary.OverallProgress),
			p.CreatedAt.Format("2006-01-02"),
		})
	}
	return formatter(cmd).PrintTable([]string{"Name", "Goal", "Phases", "Progress", "Created"}, rows)
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	project, err := a.store.LoadByName(cmd.Context(), args[0])
	if err != nil {
		return internal.WrapError(internal.ExitStoreError, "failed to load project", err)
	}

	format, _ := internal.ParseFormat(flagOutput)
	if format != internal.FormatText {
		return formatter(cmd).PrintData(project)
	}

	summary := a.engine.Summarize(project.Plan)
	cmd.Println(titleStyle.Render(project.Name))
	cmd.Printf("Goal: %s\n", project.Goal)
	cmd.Printf("Domain: %s  Complexity: %d/10\n",
		project.Plan.Goal.DomainArchetype, project.Plan.Goal.ComplexityScore)
	cmd.Printf("Progress: %.0f%% (%d/%d phases complete)\n",
		summary.OverallProgress, summary.CompletedPhases, summary.TotalPhases)
	if summary.CurrentPhase != "" {
		cmd.Printf("Current phase: %s\n", summary.CurrentPhase)
	}
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	project, err := a.store.LoadByName(ctx, args[0])
	if err != nil {
		return internal.WrapError(internal.ExitStoreError, "failed to load project", err)
	}
	if err := a.store.Delete(ctx, project.ID); err != nil {
		return internal.WrapError(internal.ExitStoreError, "failed to delete project", err)
	}

	return formatter(cmd).PrintSuccess(fmt.Sprintf("deleted project %q", project.Name))
}
