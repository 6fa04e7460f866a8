package content

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

func TestTemplateGenerator_BranchesForProgrammingGoal(t *testing.T) {
	gen := NewTemplateGenerator(nil)

	candidates, err := gen.GenerateCandidateBranches(context.Background(),
		plan.Goal{Text: "learn to code a backend api in Python"}, LearnerContext{})
	require.NoError(t, err)
	require.Len(t, candidates, 4)
	require.NoError(t, ValidateBranchNames(candidates))

	phases := make([]string, 0, len(candidates))
	for _, c := range candidates {
		phases = append(phases, c.PhaseKey)
		assert.Contains(t, c.Name, "code a backend api in Python")
		assert.Positive(t, c.BaseDuration)
		assert.Positive(t, c.Difficulty)
		assert.NotEmpty(t, c.Focus)
		assert.NotEmpty(t, c.KeyActivities)
	}
	assert.Equal(t, []string{"foundation", "practice", "building", "mastery"}, phases)
}

func TestTemplateGenerator_PresetDomainSkipsClassification(t *testing.T) {
	gen := NewTemplateGenerator(nil)

	candidates, err := gen.GenerateCandidateBranches(context.Background(),
		plan.Goal{Text: "learn to play guitar", DomainArchetype: DomainFitness}, LearnerContext{})
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.True(t, strings.HasPrefix(candidates[0].Name, "Baseline and Form"))
}

func TestTemplateGenerator_UnknownDomainFallsBackToGeneric(t *testing.T) {
	gen := NewTemplateGenerator(nil)

	candidates, err := gen.GenerateCandidateBranches(context.Background(),
		plan.Goal{Text: "some goal", DomainArchetype: "astronomy"}, LearnerContext{})
	require.NoError(t, err)
	require.Len(t, candidates, 4)
	assert.True(t, strings.HasPrefix(candidates[0].Name, "Foundation:"))
}

func TestTemplateGenerator_TasksCycleWithUniqueNames(t *testing.T) {
	gen := NewTemplateGenerator(nil)
	branch := &plan.Branch{ID: types.NewID(), Name: "Applied Practice", PhaseKey: "practice"}
	goal := plan.Goal{Text: "learn woodworking"}

	// The practice pool has four templates; seven candidates force cycling.
	candidates, err := gen.GenerateCandidateTasks(context.Background(), branch, goal, LearnerContext{}, 7)
	require.NoError(t, err)
	require.Len(t, candidates, 7)
	require.NoError(t, ValidateTaskNames(candidates))

	assert.Contains(t, candidates[4].Name, "(part 2)")
	assert.NotContains(t, candidates[0].Name, "(part")

	for _, c := range candidates {
		assert.Contains(t, c.Name, "woodworking")
		assert.True(t, c.Type.IsValid(), "task type %q", c.Type)
		assert.Positive(t, c.EstimatedDuration)
		assert.NotEmpty(t, c.Deliverable)
		assert.NotEmpty(t, c.FirstAction)
		assert.NotEmpty(t, c.SuccessValidation)
	}
}

func TestTemplateGenerator_UnknownPhaseUsesGenericPool(t *testing.T) {
	gen := NewTemplateGenerator(nil)
	branch := &plan.Branch{ID: types.NewID(), Name: "Mystery", PhaseKey: "interpretive-dance"}

	candidates, err := gen.GenerateCandidateTasks(context.Background(), branch,
		plan.Goal{Text: "a goal"}, LearnerContext{}, 3)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.True(t, strings.HasPrefix(candidates[0].Name, "Create a concrete"))
}

func TestTemplateGenerator_NilBranchRejected(t *testing.T) {
	gen := NewTemplateGenerator(nil)

	_, err := gen.GenerateCandidateTasks(context.Background(), nil,
		plan.Goal{Text: "a goal"}, LearnerContext{}, 3)
	assert.Error(t, err)
}

func TestTemplateGenerator_NonPositiveCountYieldsOneTask(t *testing.T) {
	gen := NewTemplateGenerator(nil)
	branch := &plan.Branch{ID: types.NewID(), Name: "Foundation", PhaseKey: "foundation"}

	candidates, err := gen.GenerateCandidateTasks(context.Background(), branch,
		plan.Goal{Text: "a goal"}, LearnerContext{}, 0)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestSubjectFromGoal(t *testing.T) {
	tests := []struct {
		goal string
		want string
	}{
		{"learn to play guitar", "play guitar"},
		{"learn Spanish", "Spanish"},
		{"become a photographer", "photographer"},
		{"master woodworking", "woodworking"},
		{"run a marathon", "run a marathon"},
		{"  ", "the goal"},
	}

	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			assert.Equal(t, tt.want, subjectFromGoal(tt.goal))
		})
	}
}

func TestValidateNames_RejectDuplicates(t *testing.T) {
	assert.NoError(t, ValidateBranchNames([]CandidateBranch{{Name: "A"}, {Name: "B"}}))
	assert.Error(t, ValidateBranchNames([]CandidateBranch{{Name: "A"}, {Name: "A"}}))

	assert.NoError(t, ValidateTaskNames(nil))
	assert.Error(t, ValidateTaskNames([]CandidateTask{{Name: "T"}, {Name: "T"}}))
}
